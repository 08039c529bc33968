package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/warnsign/internal/state"
)

// blockRaster stamps one solid size/2-wide block per rune.
type blockRaster struct{}

func (blockRaster) Measure(text string, size int) int {
	return utf8.RuneCountInString(text) * (size / 2)
}

func (b blockRaster) Stamp(dst Surface, text string, size int, origin image.Point, fill uint16) {
	w := b.Measure(text, size)
	for y := origin.Y; y < origin.Y+size; y++ {
		for x := origin.X; x < origin.X+w; x++ {
			dst.SetPixel(x, y, fill)
		}
	}
}

func newMapper(r Rasterizer) *Mapper {
	return &Mapper{Raster: r, Height: 64, Margin: DefaultMargin, MaxPixels: DefaultMaxCanvasPixels, BottomHalfOffset: 1}
}

func TestShiftX(t *testing.T) {
	assert.Equal(t, 5, ShiftX(5, 31, 64, 1))
	assert.Equal(t, 6, ShiftX(5, 32, 64, 1))
	assert.Equal(t, 4, ShiftX(5, 63, 64, -1))
	assert.Equal(t, 5, ShiftX(5, 63, 64, 0))
}

func TestCanvas_SetPixel(t *testing.T) {
	c, err := NewCanvas(10, 64, 0)
	require.NoError(t, err)
	c.BottomHalfOffset = 1

	c.SetPixel(3, 10, 7)
	assert.Equal(t, uint16(7), c.At(3, 10))

	c.SetPixel(3, 40, 9)
	assert.Equal(t, uint16(0), c.At(3, 40))
	assert.Equal(t, uint16(9), c.At(4, 40))

	// shifted off the right edge
	c.SetPixel(9, 40, 9)
	c.SetPixel(-1, 0, 9)
	c.SetPixel(0, 64, 9)
	for _, px := range c.Pix {
		assert.Contains(t, []uint16{0, 7, 9}, px)
	}
	assert.Equal(t, uint16(0), c.At(9, 40))
}

func TestNewCanvas_Limits(t *testing.T) {
	_, err := NewCanvas(0, 64, 0)
	assert.Error(t, err)

	_, err = NewCanvas(100, 64, 100*64-1)
	assert.ErrorIs(t, err, ErrCanvasTooLarge)
}

func TestHSV565(t *testing.T) {
	assert.Equal(t, uint16(0xF800), HSV565(0, 255, 255))
	assert.Equal(t, uint16(0xFFE0), HSV565(43, 255, 255))
	assert.Equal(t, RGB565(100, 100, 100), HSV565(200, 0, 100))
	assert.Equal(t, 0, RainbowHue(1))
	assert.Equal(t, 45, RainbowHue(600))
}

func TestColorConversions(t *testing.T) {
	c := ToRGBA(0xFFFF)
	assert.Equal(t, uint8(0xFF), c.R)
	assert.Equal(t, uint8(0xFF), c.G)
	assert.Equal(t, uint8(0xFF), c.B)
	assert.Equal(t, uint16(0xF800), FromColor(ToRGBA(0xF800)))

	assert.Equal(t, uint16(0xFFFF), ScaleCoverage(0xFFFF, 0xFF))
	assert.Equal(t, uint16(0), ScaleCoverage(0xFFFF, 0))
	assert.Equal(t, uint8(0), Dim(ToRGBA(0xFFFF), 0).R)
}

func TestMapper_CanvasWidth(t *testing.T) {
	m := newMapper(blockRaster{})
	for size := state.GlyphSizeMin; size <= state.GlyphSizeMax; size += state.GlyphSizeStep {
		c := m.Regenerate("Slow Down!", size, 1)
		require.NotNil(t, c, "size=%d", size)
		assert.Equal(t, 10*(size/2)+DefaultMargin, c.Width, "size=%d", size)
		assert.Equal(t, 64, c.Height)
	}
}

func TestMapper_EmptyContentIsSpace(t *testing.T) {
	m := newMapper(blockRaster{})
	c := m.Regenerate("", 48, 1)
	require.NotNil(t, c)
	assert.Equal(t, 24+DefaultMargin, c.Width)
}

func TestMapper_Idempotent(t *testing.T) {
	m := newMapper(blockRaster{})
	a := m.Regenerate("ABC", 32, 0)
	b := m.Regenerate("ABC", 32, 0)
	require.NotNil(t, a)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestMapper_Recolor(t *testing.T) {
	m := newMapper(blockRaster{})

	c := m.Regenerate("AB", 16, 3)
	require.NotNil(t, c)
	top := TextTop(64, 16)
	assert.Equal(t, state.Palette[3].Color, c.At(0, top))
	assert.Equal(t, uint16(0), c.At(0, 0))

	c = m.Regenerate("ABCDEFGHIJ", 16, state.RainbowIndex)
	require.NotNil(t, c)
	for x := 0; x < 80; x += 7 {
		assert.Equal(t, HSV565(RainbowHue(x), 255, 255), c.At(x, top), "x=%d", x)
	}
}

func TestMapper_AllocFailure(t *testing.T) {
	m := newMapper(blockRaster{})
	m.MaxPixels = 64 * 64
	assert.Nil(t, m.Regenerate("a long message that does not fit", 48, 1))

	d := NewMemoryDisplay(64, 64)
	comp := NewCompositor(d)
	comp.Reset(nil)
	require.NoError(t, comp.Tick(2))
	for _, px := range d.Frame() {
		require.Equal(t, uint16(0), px)
	}
	assert.Equal(t, uint64(1), d.Presented())
}

func TestCompositor_ScrollWrap(t *testing.T) {
	m := newMapper(blockRaster{})
	canvas := m.Regenerate("HELLO", 16, 1)
	require.NotNil(t, canvas)

	d := NewMemoryDisplay(64, 64)
	comp := NewCompositor(d)
	comp.Reset(canvas)
	assert.Equal(t, -64.0, comp.Cursor())

	require.NoError(t, comp.Tick(1))
	first := d.Frame()

	period := canvas.Width + 64 + 1
	var frames [][]uint16
	for i := 1; i < period; i++ {
		require.NoError(t, comp.Tick(1))
		frames = append(frames, d.Frame())
	}
	assert.Equal(t, -64.0, comp.Cursor())
	require.NoError(t, comp.Tick(1))
	assert.Equal(t, first, d.Frame())

	lit := 0
	for _, f := range frames {
		for _, px := range f {
			if px != 0 {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestCompositor_ResetRewinds(t *testing.T) {
	m := newMapper(blockRaster{})
	d := NewMemoryDisplay(64, 64)
	comp := NewCompositor(d)
	comp.Reset(m.Regenerate("A", 16, 1))
	for i := 0; i < 5; i++ {
		require.NoError(t, comp.Tick(3))
	}
	assert.Equal(t, -64.0+15, comp.Cursor())
	comp.Reset(m.Regenerate("B", 16, 1))
	assert.Equal(t, -64.0, comp.Cursor())
}

func TestMemoryDisplay_DoubleBuffer(t *testing.T) {
	d := NewMemoryDisplay(4, 4)
	d.SetPixel(1, 1, 0xFFFF)
	d.SetPixel(9, 9, 0xFFFF)
	assert.Equal(t, uint16(0), d.Frame()[5])

	require.NoError(t, d.Present())
	assert.Equal(t, uint16(0xFFFF), d.Frame()[5])

	d.SetBrightness(0)
	assert.Equal(t, uint8(0), d.Image().RGBAAt(1, 1).R)
}

func TestRasterizers(t *testing.T) {
	for _, backend := range []string{BackendOpenType, BackendFreeType, BackendBitmap} {
		t.Run(backend, func(t *testing.T) {
			r, err := NewRasterizer(backend, nil)
			require.NoError(t, err)

			w := r.Measure("Slow Down!", 24)
			require.Positive(t, w)

			m := newMapper(r)
			c := m.Regenerate("Slow Down!", 24, 1)
			require.NotNil(t, c)
			assert.Equal(t, w+DefaultMargin, c.Width)

			lit := 0
			for _, px := range c.Pix {
				if px != 0 {
					assert.Equal(t, state.Palette[1].Color, px)
					lit++
				}
			}
			assert.Positive(t, lit)
		})
	}

	_, err := NewRasterizer("vector", nil)
	assert.Error(t, err)
}

func TestBitmapRasterizer_Scale(t *testing.T) {
	r := NewBitmapRasterizer()
	assert.Equal(t, 2*r.Measure("AB", 10), r.Measure("AB", 20))
	assert.Equal(t, r.Measure("AB", 8), r.Measure("AB", 10))
}

func TestWarningIcon(t *testing.T) {
	icon, err := WarningIcon(32)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), icon.Bounds())
	assert.Equal(t, uint8(0xFF), icon.RGBAAt(16, 16).A)
	assert.Equal(t, uint8(0), icon.RGBAAt(0, 0).A)

	_, err = RasterizeSVG([]byte("<svg"), 0, 10)
	assert.Error(t, err)
}

func TestQRCodePNG(t *testing.T) {
	data, err := QRCodePNG("http://warnsign.local:8080/", 128)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	_, err = QRCodePNG("", 128)
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	d := NewMemoryDisplay(64, 64)
	out := Preview(d.Image(), 4, nil)
	assert.Equal(t, image.Rect(0, 0, 256, 256), out.Bounds())

	badge, err := WarningIcon(24)
	require.NoError(t, err)
	out = Preview(d.Image(), 2, badge)
	assert.Equal(t, image.Rect(0, 0, 128, 128+24+2*badgePadding), out.Bounds())
}
