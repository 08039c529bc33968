package render

import (
	"fmt"
	"image"
)

// Rasterizer backends.
const (
	BackendOpenType = "opentype"
	BackendFreeType = "freetype"
	BackendBitmap   = "bitmap"
)

// NewRasterizer builds the named backend. fontData may be nil to use the
// built-in Go Bold face; the bitmap backend ignores it.
func NewRasterizer(backend string, fontData []byte) (Rasterizer, error) {
	switch backend {
	case "", BackendOpenType:
		return NewOpenTypeRasterizer(fontData)
	case BackendFreeType:
		return NewFreeTypeRasterizer(fontData)
	case BackendBitmap:
		return NewBitmapRasterizer(), nil
	}
	return nil, fmt.Errorf("unknown font backend %q", backend)
}

// stampMask copies a coverage mask onto dst with fill scaled by coverage.
func stampMask(dst Surface, mask *image.Alpha, fill uint16) {
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			dst.SetPixel(x, y, ScaleCoverage(fill, a))
		}
	}
}

func maskFor(dst Surface) *image.Alpha {
	w, h := dst.Size()
	return image.NewAlpha(image.Rect(0, 0, w, h))
}
