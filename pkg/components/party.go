package components

import (
	"github.com/decker502/konfetti/internal/particle"
	"github.com/decker502/konfetti/pkg/emitter"
)

// Party describes one confetti effect: how confetti are emitted and the seed
// values every confetti is created from.
//
// Party is a plain value. A PartySystem copies it at creation time, so changing
// a Party afterwards never affects a running effect.
type Party struct {
	// Launch direction (发射方向, 度数, 0 = 向右, 90 = 向下)
	Angle  float64 // Center of the launch cone in degrees
	Spread float64 // Width of the launch cone in degrees (360 = every direction)

	// Launch speed (发射速度, 像素/秒)
	Speed    float64 // Minimum launch speed
	MaxSpeed float64 // Maximum launch speed, values <= Speed mean a fixed speed

	Damping float64 // Velocity multiplier applied per 60 fps frame (1 = no damping)
	Gravity float64 // Downward acceleration in pixels/second²

	Sizes  []Size   // Random size per confetti
	Colors []uint32 // 0xRRGGBB, random color per confetti
	Shapes []Shape  // Random shape per confetti

	// Lifecycle (生命周期)
	TimeToLiveMs   float64 // Maximum age before a confetti is removed
	FadeOutEnabled bool    // Alpha decays to zero at the end of life

	// FadeOutCurve overrides the default fade curve when FadeOutEnabled is set.
	// 关键帧的值必须单调不增并在结束时为 0（由 config 包校验）
	FadeOutCurve  []particle.Keyframe
	FadeOutInterp string

	Position Position // Where confetti are spawned
	Rotation Rotation // Spin settings

	Emitter emitter.EmitterConfig // Emission cadence and window
}

// Size of a confetti before pixel density scaling.
type Size struct {
	SizeInPx     float64 // Edge length (or diameter) in pixels
	Mass         float64 // Gravity multiplier (1 = Party.Gravity)
	MassVariance float64 // Random relative variation of Mass (0.2 = ±20%)
}

// Default confetti sizes
var (
	SizeSmall  = Size{SizeInPx: 6, Mass: 0.8, MassVariance: 0.2}
	SizeMedium = Size{SizeInPx: 8, Mass: 1, MassVariance: 0.2}
	SizeLarge  = Size{SizeInPx: 10, Mass: 1.2, MassVariance: 0.2}
)

// Position selects the spawn point of a party.
//
// Relative positions are fractions of the viewport (0.5, 0.5 = center).
// When HasBetween is set confetti spawn at a random point in the box between
// (X, Y) and (ToX, ToY).
type Position struct {
	X, Y       float64
	ToX, ToY   float64
	Relative   bool
	HasBetween bool
}

// Relative returns a position expressed as fractions of the viewport.
func Relative(x, y float64) Position {
	return Position{X: x, Y: y, Relative: true}
}

// Absolute returns a position in viewport pixels.
func Absolute(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Between returns p extended to a spawn box ending at (x, y) in the same
// coordinate space as p.
func (p Position) Between(x, y float64) Position {
	p.ToX = x
	p.ToY = y
	p.HasBetween = true
	return p
}

// Rotation configures 2D spin and the 3D flip of confetti.
type Rotation struct {
	Enabled      bool
	Speed        float64 // Base rotation speed in turns per second
	Variance     float64 // Random relative variation of Speed
	Multiplier2D float64 // Speed multiplier for the in-plane spin
	Multiplier3D float64 // Speed multiplier for the flip around the vertical axis
}

// DefaultRotation mirrors the classic confetti spin.
var DefaultRotation = Rotation{
	Enabled:      true,
	Speed:        1,
	Variance:     0.5,
	Multiplier2D: 1.3,
	Multiplier3D: 1.5,
}

// DefaultColors is the classic konfetti palette.
var DefaultColors = []uint32{0xfce18a, 0xff726d, 0xf4306d, 0xb48def}

// DefaultParty returns a party with every seed value at its default, emitting
// according to cfg.
func DefaultParty(cfg emitter.EmitterConfig) Party {
	return Party{
		Angle:          0,
		Spread:         360,
		Speed:          300,
		MaxSpeed:       0,
		Damping:        0.9,
		Gravity:        600,
		Sizes:          []Size{SizeSmall, SizeMedium, SizeLarge},
		Colors:         append([]uint32(nil), DefaultColors...),
		Shapes:         []Shape{Square(), Circle()},
		TimeToLiveMs:   2000,
		FadeOutEnabled: true,
		Position:       Relative(0.5, 0.5),
		Rotation:       DefaultRotation,
		Emitter:        cfg,
	}
}
