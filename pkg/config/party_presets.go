package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decker502/konfetti/internal/particle"
	"github.com/decker502/konfetti/pkg/components"
	"github.com/decker502/konfetti/pkg/embedded"
	"github.com/decker502/konfetti/pkg/emitter"
)

// DefaultPresetsPath 内置派对预设文件路径
const DefaultPresetsPath = "data/parties.yaml"

// PartyPresetsConfig 派对预设文件
type PartyPresetsConfig struct {
	Presets []PartyPreset `yaml:"presets"`
}

// PartyPreset 单个命名派对预设
//
// 可选字段使用指针，未填写时使用 components.DefaultParty 的默认值。
type PartyPreset struct {
	Name           string          `yaml:"name"`
	Angle          float64         `yaml:"angle"`          // 发射方向（度），0 向右，90 向下
	Spread         *float64        `yaml:"spread"`         // 扩散角（度）
	Speed          string          `yaml:"speed"`          // 速度（px/s），"300" 或 "[100 400]"
	Damping        *float64        `yaml:"damping"`        // 每 60fps 帧的速度衰减系数
	Gravity        *float64        `yaml:"gravity"`        // 重力加速度（px/s²）
	TimeToLive     string          `yaml:"timeToLive"`     // 粒子寿命，如 "2s"
	FadeOutEnabled *bool           `yaml:"fadeOutEnabled"` // 是否淡出
	FadeOutCurve   string          `yaml:"fadeOutCurve"`   // 淡出曲线，如 "0,1 .8,1 1,0 EaseIn"
	Colors         []string        `yaml:"colors"`         // "#rrggbb"
	Shapes         []string        `yaml:"shapes"`         // square | circle | rectangle:<heightRatio>
	Sizes          []SizePreset    `yaml:"sizes"`
	Position       *PositionPreset `yaml:"position"`
	Rotation       *RotationPreset `yaml:"rotation"`
	Emitter        EmitterPreset   `yaml:"emitter"`
}

// SizePreset 粒子尺寸与质量
type SizePreset struct {
	Size         float64 `yaml:"size"`
	Mass         float64 `yaml:"mass"`
	MassVariance float64 `yaml:"massVariance"`
}

// PositionPreset 发射位置
type PositionPreset struct {
	Mode string   `yaml:"mode"` // relative（默认，按视口比例）| absolute（像素）
	X    float64  `yaml:"x"`
	Y    float64  `yaml:"y"`
	ToX  *float64 `yaml:"toX"` // 可选：与 (x, y) 组成随机发射区域
	ToY  *float64 `yaml:"toY"`
}

// RotationPreset 旋转参数
type RotationPreset struct {
	Enabled      bool    `yaml:"enabled"`
	Speed        float64 `yaml:"speed"`    // 每秒圈数
	Variance     float64 `yaml:"variance"` // 0-1
	Multiplier2D float64 `yaml:"multiplier2D"`
	Multiplier3D float64 `yaml:"multiplier3D"`
}

// EmitterPreset 发射器：在 duration 内共发射 max 个，或每秒 perSecond 个（二选一）
type EmitterPreset struct {
	Duration  string `yaml:"duration"`
	Max       int    `yaml:"max"`
	PerSecond int    `yaml:"perSecond"`
}

// LoadPartyPresets 加载派对预设
//
// 优先从嵌入资源读取（路径以 "data/" 开头且 embedded 已初始化），否则从磁盘读取。
func LoadPartyPresets(filePath string) (*PartyPresetsConfig, error) {
	var (
		data []byte
		err  error
	)
	if embedded.IsInitialized() && embedded.Exists(filePath) {
		data, err = embedded.ReadFile(filePath)
	} else {
		data, err = os.ReadFile(filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read party presets file: %w", err)
	}

	cfg, err := ParsePartyPresets(data)
	if err != nil {
		return nil, err
	}
	log.Printf("[Config] Loaded %d party presets from %s", len(cfg.Presets), filePath)
	return cfg, nil
}

// ParsePartyPresets 解析并验证派对预设 YAML
func ParsePartyPresets(data []byte) (*PartyPresetsConfig, error) {
	var config PartyPresetsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse party presets YAML: %w", err)
	}

	if len(config.Presets) == 0 {
		return nil, fmt.Errorf("invalid party presets config: presets cannot be empty")
	}

	seen := make(map[string]bool, len(config.Presets))
	for i := range config.Presets {
		p := &config.Presets[i]
		if seen[p.Name] {
			return nil, fmt.Errorf("invalid party presets config: duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true

		if err := validatePartyPreset(p); err != nil {
			return nil, fmt.Errorf("invalid party preset %q: %w", p.Name, err)
		}
	}

	return &config, nil
}

// Names 返回所有预设名称（按文件顺序）
func (c *PartyPresetsConfig) Names() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}

// Find 按名称查找预设
func (c *PartyPresetsConfig) Find(name string) (*PartyPreset, bool) {
	for i := range c.Presets {
		if c.Presets[i].Name == name {
			return &c.Presets[i], true
		}
	}
	return nil, false
}

// validatePartyPreset 验证预设的有效性
func validatePartyPreset(p *PartyPreset) error {
	if p.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if p.Spread != nil && (*p.Spread < 0 || *p.Spread > 360) {
		return fmt.Errorf("spread must be between 0 and 360, got %v", *p.Spread)
	}

	minSpeed, _, err := particle.ParseRange(p.Speed)
	if err != nil {
		return fmt.Errorf("speed: %w", err)
	}
	if minSpeed < 0 {
		return fmt.Errorf("speed must be >= 0, got %v", minSpeed)
	}

	if p.Damping != nil && (*p.Damping <= 0 || *p.Damping > 1) {
		return fmt.Errorf("damping must be in (0, 1], got %v", *p.Damping)
	}

	if p.TimeToLive != "" {
		ttl, err := time.ParseDuration(p.TimeToLive)
		if err != nil {
			return fmt.Errorf("timeToLive: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("timeToLive must be > 0, got %s", p.TimeToLive)
		}
	}

	// 淡出曲线必须单调不增，并在生命结束时为 0
	if p.FadeOutCurve != "" {
		kf, _, err := particle.ParseKeyframes(p.FadeOutCurve)
		if err != nil {
			return fmt.Errorf("fadeOutCurve: %w", err)
		}
		for i := 1; i < len(kf); i++ {
			if kf[i].Value > kf[i-1].Value {
				return fmt.Errorf("fadeOutCurve must not increase, got %v after %v", kf[i].Value, kf[i-1].Value)
			}
		}
		last := kf[len(kf)-1]
		if last.Time != 1 || last.Value != 0 {
			return fmt.Errorf("fadeOutCurve must end with 1,0, got %v,%v", last.Time, last.Value)
		}
	}

	for _, c := range p.Colors {
		if _, err := parseHexColor(c); err != nil {
			return err
		}
	}
	for _, s := range p.Shapes {
		if _, err := parseShape(s); err != nil {
			return err
		}
	}
	for i, s := range p.Sizes {
		if s.Size <= 0 {
			return fmt.Errorf("sizes[%d].size must be > 0, got %v", i, s.Size)
		}
		if s.Mass < 0 || s.MassVariance < 0 || s.MassVariance > 1 {
			return fmt.Errorf("sizes[%d]: mass must be >= 0 and massVariance in [0, 1]", i)
		}
	}

	if p.Position != nil {
		switch p.Position.Mode {
		case "", "relative", "absolute":
		default:
			return fmt.Errorf("position.mode must be relative or absolute, got %q", p.Position.Mode)
		}
		if (p.Position.ToX == nil) != (p.Position.ToY == nil) {
			return fmt.Errorf("position.toX and position.toY must be set together")
		}
	}

	if _, err := buildEmitterConfig(p.Emitter); err != nil {
		return fmt.Errorf("emitter: %w", err)
	}

	return nil
}

// BuildParty 将预设转换为 components.Party
func (p *PartyPreset) BuildParty() (components.Party, error) {
	cfg, err := buildEmitterConfig(p.Emitter)
	if err != nil {
		return components.Party{}, fmt.Errorf("failed to build emitter for preset %q: %w", p.Name, err)
	}

	party := components.DefaultParty(cfg)
	party.Angle = p.Angle
	if p.Spread != nil {
		party.Spread = *p.Spread
	}
	if p.Speed != "" {
		minSpeed, maxSpeed, err := particle.ParseRange(p.Speed)
		if err != nil {
			return components.Party{}, fmt.Errorf("failed to parse speed for preset %q: %w", p.Name, err)
		}
		party.Speed = minSpeed
		party.MaxSpeed = maxSpeed
	}
	if p.Damping != nil {
		party.Damping = *p.Damping
	}
	if p.Gravity != nil {
		party.Gravity = *p.Gravity
	}
	if p.TimeToLive != "" {
		ttl, err := time.ParseDuration(p.TimeToLive)
		if err != nil {
			return components.Party{}, fmt.Errorf("failed to parse timeToLive for preset %q: %w", p.Name, err)
		}
		party.TimeToLiveMs = float64(ttl) / float64(time.Millisecond)
	}
	if p.FadeOutEnabled != nil {
		party.FadeOutEnabled = *p.FadeOutEnabled
	}
	if p.FadeOutCurve != "" {
		kf, interp, err := particle.ParseKeyframes(p.FadeOutCurve)
		if err != nil {
			return components.Party{}, fmt.Errorf("failed to parse fadeOutCurve for preset %q: %w", p.Name, err)
		}
		party.FadeOutCurve = kf
		party.FadeOutInterp = interp
	}

	if len(p.Colors) > 0 {
		party.Colors = make([]uint32, 0, len(p.Colors))
		for _, c := range p.Colors {
			rgb, err := parseHexColor(c)
			if err != nil {
				return components.Party{}, err
			}
			party.Colors = append(party.Colors, rgb)
		}
	}
	if len(p.Shapes) > 0 {
		party.Shapes = make([]components.Shape, 0, len(p.Shapes))
		for _, s := range p.Shapes {
			shape, err := parseShape(s)
			if err != nil {
				return components.Party{}, err
			}
			party.Shapes = append(party.Shapes, shape)
		}
	}
	if len(p.Sizes) > 0 {
		party.Sizes = make([]components.Size, 0, len(p.Sizes))
		for _, s := range p.Sizes {
			mass := s.Mass
			if mass == 0 {
				mass = 1
			}
			party.Sizes = append(party.Sizes, components.Size{SizeInPx: s.Size, Mass: mass, MassVariance: s.MassVariance})
		}
	}

	if pos := p.Position; pos != nil {
		if pos.Mode == "absolute" {
			party.Position = components.Absolute(pos.X, pos.Y)
		} else {
			party.Position = components.Relative(pos.X, pos.Y)
		}
		if pos.ToX != nil && pos.ToY != nil {
			party.Position = party.Position.Between(*pos.ToX, *pos.ToY)
		}
	}

	if r := p.Rotation; r != nil {
		party.Rotation = components.Rotation{
			Enabled:      r.Enabled,
			Speed:        r.Speed,
			Variance:     r.Variance,
			Multiplier2D: r.Multiplier2D,
			Multiplier3D: r.Multiplier3D,
		}
	}

	return party, nil
}

// buildEmitterConfig 解析发射器配置，max 与 perSecond 必须且只能设置一个
func buildEmitterConfig(e EmitterPreset) (emitter.EmitterConfig, error) {
	duration, err := time.ParseDuration(e.Duration)
	if err != nil {
		return emitter.EmitterConfig{}, fmt.Errorf("invalid duration %q: %w", e.Duration, err)
	}

	em := emitter.Emitter{Duration: duration}
	switch {
	case e.Max != 0 && e.PerSecond != 0:
		return emitter.EmitterConfig{}, fmt.Errorf("max and perSecond are mutually exclusive")
	case e.Max != 0:
		return em.Max(e.Max)
	case e.PerSecond != 0:
		return em.PerSecond(e.PerSecond)
	default:
		return emitter.EmitterConfig{}, fmt.Errorf("one of max or perSecond is required")
	}
}

// parseHexColor 解析 "#rrggbb" 颜色
func parseHexColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}

// parseShape 解析形状名称，矩形可带高度比例 "rectangle:0.4"
func parseShape(s string) (components.Shape, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	switch name {
	case "square":
		return components.Square(), nil
	case "circle":
		return components.Circle(), nil
	case "rectangle":
		ratio := 0.5
		if hasArg {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil || v <= 0 {
				return components.Shape{}, fmt.Errorf("invalid rectangle height ratio in %q", s)
			}
			ratio = v
		}
		return components.Rectangle(ratio), nil
	default:
		return components.Shape{}, fmt.Errorf("unknown shape %q", s)
	}
}
