package components

import "github.com/decker502/konfetti/internal/particle"

// ShapeKind identifies how a confetti is drawn.
type ShapeKind int

const (
	ShapeSquare ShapeKind = iota
	ShapeCircle
	ShapeRectangle
)

// String returns the preset file name of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeSquare:
		return "square"
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Shape of a confetti. HeightRatio only applies to rectangles.
type Shape struct {
	Kind        ShapeKind
	HeightRatio float64
}

// Square returns a square shape.
func Square() Shape { return Shape{Kind: ShapeSquare, HeightRatio: 1} }

// Circle returns a circle shape.
func Circle() Shape { return Shape{Kind: ShapeCircle, HeightRatio: 1} }

// Rectangle returns a rectangle whose height is heightRatio times its width.
func Rectangle(heightRatio float64) Shape {
	return Shape{Kind: ShapeRectangle, HeightRatio: heightRatio}
}

// Confetti represents a single live confetti of a party.
//
// It is pure data: PartySystem and ConfettiPopulation own every mutation.
// Confetti returned from a render call are copies and changing them has no
// effect on the simulation.
type Confetti struct {
	// Position (视口坐标, 像素)
	X, Y float64

	// Velocity (速度, 像素/秒)
	VelocityX float64
	VelocityY float64

	Gravity float64 // Downward acceleration in pixels/second², already scaled by mass
	Damping float64 // Velocity multiplier per 60 fps frame

	// Rotation (旋转, 角度)
	Rotation        float64 // In-plane rotation in degrees
	RotationSpeed   float64 // Degrees per second
	Rotation3D      float64 // Flip angle around the vertical axis in degrees
	RotationSpeed3D float64 // Degrees per second

	// Appearance (外观)
	Size  float64 // Width in pixels, already scaled by pixel density
	Color uint32  // 0xRRGGBB
	Shape Shape
	Alpha float64 // 0 = fully transparent, 1 = fully opaque

	// Lifecycle (生命周期, 毫秒)
	AgeMs          float64
	TimeToLiveMs   float64
	FadeOutEnabled bool

	// Fade curve shared with the party, read only
	FadeOutCurve  []particle.Keyframe
	FadeOutInterp string
}
