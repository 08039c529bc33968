package render

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// OpenTypeRasterizer draws anti-aliased text with x/image/font. Sizes are
// in pixels.
type OpenTypeRasterizer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

func NewOpenTypeRasterizer(data []byte) (*OpenTypeRasterizer, error) {
	if len(data) == 0 {
		data = gobold.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &OpenTypeRasterizer{font: f, faces: map[int]font.Face{}}, nil
}

func (r *OpenTypeRasterizer) face(size int) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if face, ok := r.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	r.faces[size] = face
	return face, nil
}

func (r *OpenTypeRasterizer) Measure(text string, size int) int {
	face, err := r.face(size)
	if err != nil {
		return 0
	}
	return font.MeasureString(face, text).Ceil()
}

func (r *OpenTypeRasterizer) Stamp(dst Surface, text string, size int, origin image.Point, fill uint16) {
	face, err := r.face(size)
	if err != nil {
		return
	}
	mask := maskFor(dst)
	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(origin.X, origin.Y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	stampMask(dst, mask, fill)
}
