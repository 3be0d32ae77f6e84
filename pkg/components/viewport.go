package components

// Rect is the axis-aligned region a party is rendered into.
//
// Min is inclusive and Max is exclusive, like image.Rectangle, but in float
// coordinates since confetti positions are never snapped to pixels.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewRect returns a rect with its origin at (0, 0).
func NewRect(width, height float64) Rect {
	return Rect{MaxX: width, MaxY: height}
}

// Width returns the horizontal size of the rect.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical size of the rect.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains reports whether (x, y) lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}
