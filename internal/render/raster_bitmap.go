package render

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// BitmapRasterizer draws a fixed bitmap font scaled by whole pixels. It has
// no anti-aliasing, which suits very small glyph sizes.
type BitmapRasterizer struct {
	Font tinyfont.Fonter
	// Height and Ascent describe the unscaled font line.
	Height int
	Ascent int
}

func NewBitmapRasterizer() *BitmapRasterizer {
	return &BitmapRasterizer{Font: &proggy.TinySZ8pt7b, Height: 10, Ascent: 6}
}

func (r *BitmapRasterizer) scale(size int) int {
	if s := size / r.Height; s > 1 {
		return s
	}
	return 1
}

func (r *BitmapRasterizer) Measure(text string, size int) int {
	_, outbox := tinyfont.LineWidth(r.Font, text)
	return int(outbox) * r.scale(size)
}

func (r *BitmapRasterizer) Stamp(dst Surface, text string, size int, origin image.Point, fill uint16) {
	scaled := &scaledSurface{dst: dst, scale: r.scale(size), origin: origin, fill: fill}
	tinyfont.WriteLine(scaled, r.Font, 0, int16(r.Ascent), text, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
}

// scaledSurface adapts a Surface to the tinygo display interface, blowing
// each font pixel up to a scale x scale block.
type scaledSurface struct {
	dst    Surface
	scale  int
	origin image.Point
	fill   uint16
}

var _ drivers.Displayer = (*scaledSurface)(nil)

func (s *scaledSurface) Size() (x, y int16) {
	w, h := s.dst.Size()
	return clampInt16(w / s.scale), clampInt16(h / s.scale)
}

func (s *scaledSurface) SetPixel(x, y int16, c color.RGBA) {
	if c.A == 0 {
		return
	}
	px := s.origin.X + int(x)*s.scale
	py := s.origin.Y + int(y)*s.scale
	for dy := 0; dy < s.scale; dy++ {
		for dx := 0; dx < s.scale; dx++ {
			s.dst.SetPixel(px+dx, py+dy, s.fill)
		}
	}
}

func (s *scaledSurface) Display() error { return nil }

func clampInt16(v int) int16 {
	if v > 0x7FFF {
		return 0x7FFF
	}
	return int16(v)
}
