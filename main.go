// Command konfetti is an interactive confetti viewer.
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--presets <path>   Party presets file (default: embedded data/parties.yaml)
//	--preset <name>    Start with a specific preset
//	--width, --height  Logical screen size
//	--density <n>      Pixel density (scales confetti size and speed)
//	--seed <n>         Random seed (0 = time based)
//	--auto-start       Start the selected preset immediately
//	--verbose          Enable verbose logging
//
// Controls:
//
//	Space             - Start the current preset at its configured position
//	Mouse Click       - Start the current preset at the cursor
//	Left/Right Arrow  - Switch preset
//	S                 - Stop all parties gracefully
//	R                 - Reset (drop every party)
//	D                 - Toggle stats
//	F11               - Toggle fullscreen
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/konfetti/pkg/app"
	"github.com/decker502/konfetti/pkg/config"
	"github.com/decker502/konfetti/pkg/embedded"
	"github.com/decker502/konfetti/pkg/game"
)

var (
	presetsFlag   = flag.String("presets", config.DefaultPresetsPath, "Party presets YAML file")
	presetFlag    = flag.String("preset", "", "Initial preset name")
	widthFlag     = flag.Int("width", app.DefaultWidth, "Logical screen width")
	heightFlag    = flag.Int("height", app.DefaultHeight, "Logical screen height")
	densityFlag   = flag.Float64("density", 0, "Pixel density (0 = saved setting)")
	seedFlag      = flag.Int64("seed", 0, "Random seed (0 = time based)")
	autoStartFlag = flag.Bool("auto-start", false, "Start the selected preset immediately")
	verboseFlag   = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（必须在任何资源加载之前）
	embedded.Init(dataFS)

	settings := game.OpenSettingsManager("konfetti")

	a, err := app.NewApp(app.Config{
		Verbose:      *verboseFlag,
		PresetsPath:  *presetsFlag,
		Preset:       *presetFlag,
		Width:        *widthFlag,
		Height:       *heightFlag,
		PixelDensity: *densityFlag,
		Seed:         *seedFlag,
		AutoStart:    *autoStartFlag,
		Settings:     settings,
	})
	if err != nil {
		// NewApp 可能已经关闭了日志输出
		fmt.Fprintf(os.Stderr, "Failed to start viewer: %v\n", err)
		os.Exit(1)
	}

	w, h := a.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Konfetti")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
