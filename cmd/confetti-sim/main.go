// Package main runs a party preset without a window and prints how the
// emission unfolds frame by frame.
//
// Usage:
//
//	go run ./cmd/confetti-sim [flags]
//
// Flags:
//
//	--presets <path>   Party presets file (default: data/parties.yaml)
//	--party <name>     Preset to run (default: first preset)
//	--dt <ms>          Frame delta in milliseconds (default: 1000/60)
//	--frames <n>       Stop after n frames even if the party is still running
//	--seed <n>         Random seed
//	--width, --height  Draw area size in pixels
//	--density <n>      Pixel density
//	--every <n>        Print every n-th frame (the last frame is always printed)
//	--verbose          Enable verbose logging
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	"github.com/decker502/konfetti/pkg/components"
	"github.com/decker502/konfetti/pkg/config"
	"github.com/decker502/konfetti/pkg/systems"
)

// simOptions 模拟参数
type simOptions struct {
	presetsPath string
	party       string
	dtMs        float64
	frames      int
	seed        int64
	width       float64
	height      float64
	density     float64
	every       int
}

func main() {
	var opts simOptions
	flag.StringVar(&opts.presetsPath, "presets", config.DefaultPresetsPath, "Party presets YAML file")
	flag.StringVar(&opts.party, "party", "", "Preset name (default: first preset)")
	flag.Float64Var(&opts.dtMs, "dt", 1000.0/60.0, "Frame delta in milliseconds")
	flag.IntVar(&opts.frames, "frames", 10000, "Maximum number of frames")
	flag.Int64Var(&opts.seed, "seed", 1, "Random seed")
	flag.Float64Var(&opts.width, "width", 800, "Draw area width")
	flag.Float64Var(&opts.height, "height", 600, "Draw area height")
	flag.Float64Var(&opts.density, "density", 1, "Pixel density")
	flag.IntVar(&opts.every, "every", 1, "Print every n-th frame")
	verbose := flag.Bool("verbose", false, "Enable verbose logging (default off)")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run 运行一个预设直到结束或达到帧数上限
func run(out io.Writer, opts simOptions) error {
	presets, err := config.LoadPartyPresets(opts.presetsPath)
	if err != nil {
		return err
	}

	preset := &presets.Presets[0]
	if opts.party != "" {
		p, ok := presets.Find(opts.party)
		if !ok {
			return fmt.Errorf("unknown preset %q (available: %v)", opts.party, presets.Names())
		}
		preset = p
	}

	party, err := preset.BuildParty()
	if err != nil {
		return err
	}

	every := max(opts.every, 1)
	drawArea := components.NewRect(opts.width, opts.height)
	system := systems.NewPartySystemWithRand(party, opts.density, rand.New(rand.NewSource(opts.seed)))

	fmt.Fprintf(out, "party=%s window=%.0fms msPerParticle=%.2f dt=%.2fms area=%.0fx%.0f\n",
		preset.Name, party.Emitter.EmittingTimeMs(), party.Emitter.MsPerParticle(), opts.dtMs, opts.width, opts.height)
	fmt.Fprintf(out, "%8s %10s %8s %6s\n", "frame", "elapsed", "emitted", "live")

	peak := 0
	frame := 0
	for frame < opts.frames && !system.IsDoneEmitting() {
		frame++
		live := len(system.Render(opts.dtMs, drawArea))
		peak = max(peak, live)

		if frame%every == 0 || system.IsDoneEmitting() {
			fmt.Fprintf(out, "%8d %10.1f %8d %6d\n", frame, system.ElapsedTimeMs(), system.EmittedCount(), live)
		}
	}

	fmt.Fprintf(out, "done=%v frames=%d emitted=%d peak=%d\n", system.IsDoneEmitting(), frame, system.EmittedCount(), peak)
	return nil
}
