package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/konfetti/pkg/game"
)

const testPresetsYAML = `
presets:
  - name: burst
    speed: "100"
    timeToLive: 50ms
    fadeOutEnabled: false
    emitter: {duration: 100ms, max: 10}
  - name: stream
    speed: "100"
    emitter: {duration: 1s, perSecond: 50}
  - name: slow
    emitter: {duration: 1s, max: 2}
`

func writeTestPresets(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parties.yaml")
	if err := os.WriteFile(path, []byte(testPresetsYAML), 0644); err != nil {
		t.Fatalf("failed to write presets: %v", err)
	}
	return path
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	cfg.Verbose = true
	cfg.Seed = 1
	if cfg.PresetsPath == "" {
		cfg.PresetsPath = writeTestPresets(t)
	}
	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	return a
}

func TestNewApp_Defaults(t *testing.T) {
	a := newTestApp(t, Config{})

	if w, h := a.Layout(0, 0); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Layout() = %d, %d, want %d, %d", w, h, DefaultWidth, DefaultHeight)
	}
	if got := a.CurrentPreset().Name; got != "burst" {
		t.Errorf("CurrentPreset() = %s, want burst", got)
	}
}

func TestNewApp_PresetSelection(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	settings.SetLastPreset("slow")

	a := newTestApp(t, Config{Settings: settings})
	if got := a.CurrentPreset().Name; got != "slow" {
		t.Errorf("CurrentPreset() = %s, want last used preset slow", got)
	}

	a = newTestApp(t, Config{Settings: settings, Preset: "stream"})
	if got := a.CurrentPreset().Name; got != "stream" {
		t.Errorf("CurrentPreset() = %s, want flag preset stream", got)
	}

	if _, err := NewApp(Config{Verbose: true, PresetsPath: writeTestPresets(t), Preset: "nope"}); err == nil {
		t.Error("NewApp() with unknown preset error = nil, want error")
	}
	if _, err := NewApp(Config{Verbose: true, PresetsPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("NewApp() with missing presets file error = nil, want error")
	}
}

func TestApp_SelectPresetWraps(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	a := newTestApp(t, Config{Settings: settings})

	a.SelectPreset(-1)
	if got := a.CurrentPreset().Name; got != "slow" {
		t.Errorf("after Left: CurrentPreset() = %s, want slow", got)
	}
	a.SelectPreset(1)
	if got := a.CurrentPreset().Name; got != "burst" {
		t.Errorf("after Right: CurrentPreset() = %s, want burst", got)
	}
	if got := settings.GetSettings().LastPreset; got != "burst" {
		t.Errorf("LastPreset = %s, want burst", got)
	}
}

func TestApp_StartStepAndEnd(t *testing.T) {
	a := newTestApp(t, Config{AutoStart: true})

	if !a.manager.IsActive() {
		t.Fatal("AutoStart did not start a party")
	}

	// burst: 每 10ms 一个，50ms 寿命
	a.Step(25)
	if len(a.frame) != 2 {
		t.Errorf("confetti after 25ms = %d, want 2", len(a.frame))
	}

	for i := 0; i < 20; i++ {
		a.Step(10)
	}
	if a.manager.IsActive() {
		t.Error("burst party should have ended")
	}
	if a.partiesEnded != 1 {
		t.Errorf("partiesEnded = %d, want 1", a.partiesEnded)
	}
}

func TestApp_StartAt(t *testing.T) {
	a := newTestApp(t, Config{})

	if err := a.StartAt(40, 30); err != nil {
		t.Fatalf("StartAt() error: %v", err)
	}
	a.Step(10)
	if len(a.frame) != 1 {
		t.Fatalf("confetti = %d, want 1", len(a.frame))
	}
	// 10ms 内移动不超过 1 像素（100 px/s）加重力位移
	if c := a.frame[0]; c.X < 38 || c.X > 42 || c.Y < 28 || c.Y > 32 {
		t.Errorf("confetti at (%v, %v), want near (40, 30)", c.X, c.Y)
	}
}

func TestApp_StopAndReset(t *testing.T) {
	a := newTestApp(t, Config{Preset: "stream"})

	if err := a.StartCurrent(); err != nil {
		t.Fatalf("StartCurrent() error: %v", err)
	}
	a.Step(100)
	systems := a.manager.ActiveSystems()
	emitted := systems[0].EmittedCount()

	a.StopGracefully()
	a.Step(100)
	if systems[0].EmittedCount() != emitted {
		t.Errorf("EmittedCount() = %d after stop, want %d", systems[0].EmittedCount(), emitted)
	}

	a.Reset()
	if a.manager.IsActive() || len(a.frame) != 0 {
		t.Error("Reset() should drop every party and confetti")
	}
}

func TestApp_ToggleStats(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	a := newTestApp(t, Config{Settings: settings})

	before := a.showStats
	a.ToggleStats()
	if a.showStats == before {
		t.Error("ToggleStats() did not toggle")
	}
	if settings.GetSettings().ShowStats != a.showStats {
		t.Error("ToggleStats() did not update settings")
	}
}
