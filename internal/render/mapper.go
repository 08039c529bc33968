package render

import (
	"image"

	"github.com/rook-computer/warnsign/internal/state"
)

const (
	DefaultMargin          = 20
	DefaultMaxCanvasPixels = 1 << 20
	// neutralFill is stamped first; non-zero pixels are recolored after.
	neutralFill uint16 = 0xFFFF
)

// Mapper turns content into a colored canvas.
type Mapper struct {
	Raster Rasterizer
	// Height is the display height; canvases always match it.
	Height           int
	Margin           int
	MaxPixels        int
	BottomHalfOffset int
	Logger           logger
}

// TextTop is the y of the line box for a glyph size on a panel of height h.
func TextTop(height, size int) int { return (height-size)/2 - 4 }

// Regenerate builds a canvas for content. It returns nil when the canvas
// cannot be allocated; callers render blank frames until the next call.
func (m *Mapper) Regenerate(content string, size, colorIndex int) *Canvas {
	if content == "" {
		content = " "
	}
	width := m.Raster.Measure(content, size) + m.Margin
	canvas, err := NewCanvas(width, m.Height, m.MaxPixels)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Errorf("mapper", "canvas alloc failed for %d runes at %dpx: %v", len([]rune(content)), size, err)
		}
		return nil
	}
	canvas.BottomHalfOffset = m.BottomHalfOffset

	canvas.FillBackground(0)
	m.Raster.Stamp(canvas, content, size, image.Pt(0, TextTop(m.Height, size)), neutralFill)
	recolor(canvas, colorIndex)
	return canvas
}

func recolor(c *Canvas, colorIndex int) {
	entry := state.Palette[0]
	if colorIndex >= 0 && colorIndex < state.PaletteSize {
		entry = state.Palette[colorIndex]
	}
	rainbow := colorIndex == state.RainbowIndex
	for y := 0; y < c.Height; y++ {
		row := c.row(y)
		for x, px := range row {
			if px == 0 {
				continue
			}
			if rainbow {
				row[x] = HSV565(RainbowHue(x), 255, 255)
			} else {
				row[x] = entry.Color
			}
		}
	}
}
