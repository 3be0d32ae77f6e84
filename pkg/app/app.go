// Package app 提供彩纸查看器的 ebiten.Game 实现
//
// 查看器加载派对预设，用 PartyManager 以固定步长驱动所有派对，
// 再交给 ConfettiRenderSystem 绘制。main.go 负责解析参数并调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/konfetti/pkg/components"
	"github.com/decker502/konfetti/pkg/config"
	"github.com/decker502/konfetti/pkg/game"
	"github.com/decker502/konfetti/pkg/systems"
	"github.com/decker502/konfetti/pkg/utils"
)

// 默认窗口尺寸
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// backgroundColor 背景色
var backgroundColor = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// PresetsPath 派对预设文件路径（"data/" 开头时优先使用嵌入资源）
	PresetsPath string
	// Preset 启动时选中的预设，为空则使用上次选择的预设
	Preset string
	// Width, Height 逻辑屏幕尺寸，<= 0 使用默认值
	Width  int
	Height int
	// PixelDensity 像素密度，<= 0 使用保存的设置
	PixelDensity float64
	// Seed 随机种子，0 使用当前时间
	Seed int64
	// AutoStart 启动后立即开始一次派对
	AutoStart bool
	// Settings 设置管理器，nil 时使用仅内存设置
	Settings *game.SettingsManager
}

// App 是查看器的核心包装器，实现 ebiten.Game 接口
type App struct {
	presets      []config.PartyPreset
	currentIndex int

	manager      *systems.PartyManager
	renderSystem *systems.ConfettiRenderSystem // 首次 Draw 时创建
	settings     *game.SettingsManager

	width  int
	height int

	// 最近一帧的粒子
	frame []components.Confetti

	showStats     bool
	statusMessage string
	partiesEnded  int
	verbose       bool
}

// NewApp 创建并初始化查看器
//
// 如果预设路径以 "data/" 开头，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.PresetsPath == "" {
		cfg.PresetsPath = config.DefaultPresetsPath
	}
	presets, err := config.LoadPartyPresets(cfg.PresetsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load party presets: %w", err)
	}

	settings := cfg.Settings
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	pixelDensity := cfg.PixelDensity
	if pixelDensity <= 0 {
		pixelDensity = settings.GetSettings().PixelDensity
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		presets:   presets.Presets,
		manager:   systems.NewPartyManager(pixelDensity, rand.New(rand.NewSource(seed))),
		settings:  settings,
		width:     cfg.Width,
		height:    cfg.Height,
		showStats: settings.GetSettings().ShowStats,
		verbose:   cfg.Verbose,
	}
	if a.width <= 0 {
		a.width = DefaultWidth
	}
	if a.height <= 0 {
		a.height = DefaultHeight
	}
	a.manager.SetListener(a)

	// 选择初始预设：命令行参数 > 上次选择 > 第一个
	initial := cfg.Preset
	if initial == "" {
		initial = settings.GetSettings().LastPreset
	}
	if initial != "" {
		if i := a.presetIndex(initial); i >= 0 {
			a.currentIndex = i
		} else if cfg.Preset != "" {
			return nil, fmt.Errorf("unknown preset %q", cfg.Preset)
		}
	}

	log.Printf("[App] Loaded %d presets, current: %s, pixelDensity=%.2f",
		len(a.presets), a.CurrentPreset().Name, pixelDensity)

	if cfg.AutoStart {
		if err := a.StartCurrent(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) presetIndex(name string) int {
	for i, p := range a.presets {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// CurrentPreset 返回当前选中的预设
func (a *App) CurrentPreset() *config.PartyPreset {
	return &a.presets[a.currentIndex]
}

// SelectPreset 相对当前位置切换预设（循环），并记录到设置
func (a *App) SelectPreset(delta int) {
	n := len(a.presets)
	a.currentIndex = ((a.currentIndex+delta)%n + n) % n

	name := a.CurrentPreset().Name
	a.statusMessage = fmt.Sprintf("Preset: %s", name)
	a.settings.SetLastPreset(name)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// StartCurrent 以预设中的位置开始当前派对
func (a *App) StartCurrent() error {
	party, err := a.CurrentPreset().BuildParty()
	if err != nil {
		return err
	}
	a.manager.Start(party)
	return nil
}

// StartAt 在屏幕坐标 (x, y) 开始当前派对
func (a *App) StartAt(x, y float64) error {
	party, err := a.CurrentPreset().BuildParty()
	if err != nil {
		return err
	}
	party.Position = components.Absolute(x, y)
	a.manager.Start(party)
	return nil
}

// StopGracefully 停止所有派对的发射
func (a *App) StopGracefully() {
	a.manager.StopGracefully()
	a.statusMessage = "Stopping..."
}

// Reset 立即清除所有派对
func (a *App) Reset() {
	a.manager.Reset()
	a.frame = a.frame[:0]
	a.statusMessage = "Reset"
}

// ToggleStats 切换统计信息显示，并记录到设置
func (a *App) ToggleStats() {
	a.showStats = !a.showStats
	a.settings.SetShowStats(a.showStats)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Step 以 deltaMs 推进所有派对
func (a *App) Step(deltaMs float64) {
	a.frame = a.manager.Update(deltaMs, components.NewRect(float64(a.width), float64(a.height)))
}

// OnPartyStarted 实现 systems.PartyListener
func (a *App) OnPartyStarted(_ *systems.PartySystem, activeSystems int) {
	a.statusMessage = fmt.Sprintf("Party started (%d active)", activeSystems)
}

// OnPartyEnded 实现 systems.PartyListener
func (a *App) OnPartyEnded(_ *systems.PartySystem, activeSystems int) {
	a.partiesEnded++
	a.statusMessage = fmt.Sprintf("Party ended (%d active)", activeSystems)
}

// Update 处理输入并推进一帧
// 每个 tick 调用一次，步长固定为 1000 / TPS 毫秒
func (a *App) Update() error {
	if err := a.handleInput(); err != nil {
		return err
	}
	a.Step(1000.0 / float64(ebiten.TPS()))
	return nil
}

func (a *App) handleInput() error {
	// 点击或触摸：在指针位置开始派对
	if pressed, x, y := utils.IsPointerJustPressed(); pressed {
		return a.StartAt(float64(x), float64(y))
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if err := a.StartCurrent(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		a.SelectPreset(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		a.SelectPreset(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.StopGracefully()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		a.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		a.ToggleStats()
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	}
	return nil
}

// Draw 绘制当前帧
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if a.renderSystem == nil {
		a.renderSystem = systems.NewConfettiRenderSystem()
	}
	a.renderSystem.Draw(screen, a.frame)

	if a.showStats {
		ebitenutil.DebugPrintAt(screen, a.statsText(), 10, 10)
	}
}

// statsText 返回统计信息文本
func (a *App) statsText() string {
	text := fmt.Sprintf("Preset: %s (%d/%d)\nParties: %d active, %d ended\nConfetti: %d\nTPS: %.0f  FPS: %.0f",
		a.CurrentPreset().Name, a.currentIndex+1, len(a.presets),
		len(a.manager.ActiveSystems()), a.partiesEnded,
		len(a.frame), ebiten.ActualTPS(), ebiten.ActualFPS())
	if a.statusMessage != "" {
		text += "\n" + a.statusMessage
	}
	return text + "\n\nSpace/Click: start  Left/Right: preset  S: stop  R: reset  D: stats"
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
