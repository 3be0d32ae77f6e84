package components

import (
	"math"
	"testing"
)

// TestRectContains 测试视口包含判定（左上闭、右下开）
func TestRectContains(t *testing.T) {
	r := Rect{MinX: 10, MinY: 20, MaxX: 110, MaxY: 220}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 60, 120, true},
		{"min corner", 10, 20, true},
		{"max x edge", 110, 120, false},
		{"max y edge", 60, 220, false},
		{"left of rect", 9.99, 120, false},
		{"above rect", 60, 19.99, false},
		{"NaN", math.NaN(), 120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// TestNewRect 测试尺寸计算
func TestNewRect(t *testing.T) {
	r := NewRect(800, 600)
	if r.Width() != 800 || r.Height() != 600 {
		t.Errorf("NewRect(800, 600) size = %vx%v, want 800x600", r.Width(), r.Height())
	}
	if r.Contains(0, 600) {
		t.Error("Contains(0, 600) = true, want false")
	}
}

// TestPositionBetween 测试发射区域位置构造
func TestPositionBetween(t *testing.T) {
	p := Relative(0.1, 0.2).Between(0.9, 0.2)
	if !p.Relative || !p.HasBetween {
		t.Fatalf("Relative(...).Between(...) = %+v, want relative with between", p)
	}
	if p.ToX != 0.9 || p.ToY != 0.2 {
		t.Errorf("Between target = (%v, %v), want (0.9, 0.2)", p.ToX, p.ToY)
	}

	a := Absolute(100, 50)
	if a.Relative || a.HasBetween {
		t.Errorf("Absolute(100, 50) = %+v, want plain absolute position", a)
	}
}

// TestShapeKindString 测试形状名称
func TestShapeKindString(t *testing.T) {
	if Square().Kind.String() != "square" || Circle().Kind.String() != "circle" || Rectangle(0.5).Kind.String() != "rectangle" {
		t.Error("unexpected shape kind names")
	}
	if ShapeKind(42).String() != "unknown" {
		t.Errorf("ShapeKind(42).String() = %q, want unknown", ShapeKind(42).String())
	}
}
