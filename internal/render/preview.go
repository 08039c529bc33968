package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/warnsign/internal/render/layout"
)

var previewBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}

const badgePadding = 4

// Preview scales a panel frame up by an integer factor and, when badge is
// set, adds a strip below it with the badge centered.
func Preview(frame image.Image, scale int, badge image.Image) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	fw, fh := frame.Bounds().Dx()*scale, frame.Bounds().Dy()*scale
	strip := 0
	if badge != nil {
		strip = badge.Bounds().Dy() + 2*badgePadding
	}

	out := image.NewRGBA(image.Rect(0, 0, fw, fh+strip))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: previewBackground}, image.Point{}, draw.Src)

	panelRect, stripRect := layout.SplitHorizontal(out.Bounds(), fh)
	xdraw.NearestNeighbor.Scale(out, panelRect, frame, frame.Bounds(), xdraw.Src, nil)

	if badge != nil {
		slot := layout.FitSquare(layout.Inset(stripRect, badgePadding))
		xdraw.ApproxBiLinear.Scale(out, slot, badge, badge.Bounds(), xdraw.Over, nil)
	}
	return out
}
