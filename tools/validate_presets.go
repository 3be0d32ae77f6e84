// validate_presets 检查派对预设文件
//
// 用法: go run ./tools [path]（默认 data/parties.yaml）
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/konfetti/pkg/config"
)

func main() {
	path := config.DefaultPresetsPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("❌ 读取文件失败: %v\n", err)
		os.Exit(1)
	}

	// 先做宽松解析，逐个预设报告问题
	var raw struct {
		Presets []yaml.Node `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		fmt.Printf("❌ YAML 解析失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ YAML 格式正确\n")
	fmt.Printf("✅ 预设数量: %d\n", len(raw.Presets))

	invalid := 0
	for i := range raw.Presets {
		var preset config.PartyPreset
		if err := raw.Presets[i].Decode(&preset); err != nil {
			fmt.Printf("❌ 第 %d 个预设（行 %d）解析失败: %v\n", i+1, raw.Presets[i].Line, err)
			invalid++
			continue
		}
		if _, err := config.ParsePartyPresets(mustMarshalSingle(preset)); err != nil {
			fmt.Printf("❌ %s（行 %d）: %v\n", preset.Name, raw.Presets[i].Line, err)
			invalid++
			continue
		}
		party, err := preset.BuildParty()
		if err != nil {
			fmt.Printf("❌ %s: %v\n", preset.Name, err)
			invalid++
			continue
		}
		fmt.Printf("✅ %-14s 窗口 %6.0fms  共 %4d 个  每 %7.2fms 一个\n",
			preset.Name, party.Emitter.EmittingTimeMs(), party.Emitter.TargetCount(party.Emitter.EmittingTimeMs()), party.Emitter.MsPerParticle())
	}

	// 整体校验（包括重名检查）
	if _, err := config.ParsePartyPresets(data); err != nil && invalid == 0 {
		fmt.Printf("❌ %v\n", err)
		invalid++
	}

	if invalid > 0 {
		fmt.Printf("❌ 有 %d 个问题\n", invalid)
		os.Exit(1)
	}
	fmt.Printf("✅ 所有预设有效\n")
}

// mustMarshalSingle 将单个预设包装成只含它的预设文件
func mustMarshalSingle(p config.PartyPreset) []byte {
	data, err := yaml.Marshal(config.PartyPresetsConfig{Presets: []config.PartyPreset{p}})
	if err != nil {
		panic(err)
	}
	return data
}
