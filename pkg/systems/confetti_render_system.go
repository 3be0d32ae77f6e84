package systems

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/konfetti/pkg/components"
)

const (
	// circleTextureSize 圆形贴图边长（像素），缩放到粒子尺寸后绘制
	circleTextureSize = 32

	// maxBatchConfetti 单次 DrawTriangles 的粒子上限（uint16 索引最多 65535 个顶点）
	maxBatchConfetti = 16000
)

// ConfettiRenderSystem draws confetti snapshots with ebiten.
//
// Squares and rectangles share a plain white texture, circles use a white disc
// texture; every confetti is tinted with its color and alpha through vertex
// colors, so the whole frame is drawn with at most two DrawTriangles batches.
type ConfettiRenderSystem struct {
	squareImage *ebiten.Image
	circleImage *ebiten.Image

	// 顶点缓冲复用，避免每帧分配
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewConfettiRenderSystem creates the shape textures used for drawing.
func NewConfettiRenderSystem() *ConfettiRenderSystem {
	square := ebiten.NewImage(1, 1)
	square.Fill(color.White)

	return &ConfettiRenderSystem{
		squareImage: square,
		circleImage: ebiten.NewImageFromImage(newCircleMask(circleTextureSize)),
	}
}

// newCircleMask returns a white anti-aliased disc filling a size×size image.
func newCircleMask(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			// 边缘 1 像素做线性抗锯齿
			coverage := math.Max(0, math.Min(1, r-math.Hypot(dx, dy)))
			a := uint8(coverage * 255)
			img.SetRGBA(x, y, color.RGBA{R: a, G: a, B: a, A: a})
		}
	}
	return img
}

// Draw renders confetti onto screen.
func (s *ConfettiRenderSystem) Draw(screen *ebiten.Image, confetti []components.Confetti) {
	if len(confetti) == 0 {
		return
	}
	s.drawBatch(screen, confetti, s.squareImage, false)
	s.drawBatch(screen, confetti, s.circleImage, true)
}

func (s *ConfettiRenderSystem) drawBatch(screen *ebiten.Image, confetti []components.Confetti, img *ebiten.Image, circles bool) {
	src := img.Bounds()
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	flush := func() {
		if len(s.vertices) == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{}
		op.AntiAlias = true
		screen.DrawTriangles(s.vertices, s.indices, img, op)
		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
	}

	for i := range confetti {
		c := &confetti[i]
		if (c.Shape.Kind == components.ShapeCircle) != circles {
			continue
		}

		baseIndex := uint16(len(s.vertices))
		s.vertices = buildConfettiVertices(c, src, s.vertices)
		s.indices = append(s.indices,
			baseIndex+0, baseIndex+1, baseIndex+2, // 第一个三角形
			baseIndex+1, baseIndex+3, baseIndex+2, // 第二个三角形
		)

		if len(s.vertices) >= maxBatchConfetti*4 {
			flush()
		}
	}
	flush()
}

// buildConfettiVertices appends the 4 corners of c (top-left, top-right,
// bottom-left, bottom-right) to out.
//
// The 3D flip squeezes the width by |cos(Rotation3D)|, then the quad is
// rotated by Rotation and moved to the confetti position.
func buildConfettiVertices(c *components.Confetti, src image.Rectangle, out []ebiten.Vertex) []ebiten.Vertex {
	ratio := c.Shape.HeightRatio
	if ratio <= 0 {
		ratio = 1
	}
	w := c.Size * math.Abs(math.Cos(c.Rotation3D*math.Pi/180.0))
	h := c.Size * ratio

	corners := [4][2]float64{
		{-w / 2, -h / 2}, // 左上
		{w / 2, -h / 2},  // 右上
		{-w / 2, h / 2},  // 左下
		{w / 2, h / 2},   // 右下
	}
	srcCorners := [4][2]float32{
		{float32(src.Min.X), float32(src.Min.Y)},
		{float32(src.Max.X), float32(src.Min.Y)},
		{float32(src.Min.X), float32(src.Max.Y)},
		{float32(src.Max.X), float32(src.Max.Y)},
	}

	radians := c.Rotation * math.Pi / 180.0
	cosTheta := math.Cos(radians)
	sinTheta := math.Sin(radians)

	r := float32((c.Color>>16)&0xff) / 255
	g := float32((c.Color>>8)&0xff) / 255
	b := float32(c.Color&0xff) / 255
	a := float32(c.Alpha)

	for i, corner := range corners {
		x := corner[0]*cosTheta - corner[1]*sinTheta
		y := corner[0]*sinTheta + corner[1]*cosTheta
		out = append(out, ebiten.Vertex{
			DstX:   float32(c.X + x),
			DstY:   float32(c.Y + y),
			SrcX:   srcCorners[i][0],
			SrcY:   srcCorners[i][1],
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}
	return out
}
