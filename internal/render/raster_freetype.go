package render

import (
	"fmt"
	"image"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// FreeTypeRasterizer draws text with the freetype rasterizer. It only
// reads TrueType outlines.
type FreeTypeRasterizer struct {
	font *truetype.Font
}

func NewFreeTypeRasterizer(data []byte) (*FreeTypeRasterizer, error) {
	if len(data) == 0 {
		data = gobold.TTF
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("truetype parse: %w", err)
	}
	return &FreeTypeRasterizer{font: f}, nil
}

func (r *FreeTypeRasterizer) newFace(size int) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
}

func (r *FreeTypeRasterizer) Measure(text string, size int) int {
	face := r.newFace(size)
	defer face.Close()
	return font.MeasureString(face, text).Ceil()
}

func (r *FreeTypeRasterizer) Stamp(dst Surface, text string, size int, origin image.Point, fill uint16) {
	face := r.newFace(size)
	ascent := face.Metrics().Ascent.Ceil()
	face.Close()

	mask := maskFor(dst)
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(r.font)
	ctx.SetFontSize(float64(size))
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(mask.Bounds())
	ctx.SetDst(mask)
	ctx.SetSrc(image.Opaque)
	if _, err := ctx.DrawString(text, freetype.Pt(origin.X, origin.Y+ascent)); err != nil {
		return
	}
	stampMask(dst, mask, fill)
}
