package render

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
)

// FramebufferDisplay mirrors a MemoryDisplay onto the Linux framebuffer,
// scaling each panel pixel up to fill the screen. Useful for bench setups
// where the matrix is driven through an HDMI adapter.
type FramebufferDisplay struct {
	*MemoryDisplay

	Path   string
	Logger logger

	fbDev   *fb.Device
	running atomic.Bool
}

func NewFramebufferDisplay(width, height int) *FramebufferDisplay {
	return &FramebufferDisplay{MemoryDisplay: NewMemoryDisplay(width, height), Path: "/dev/fb0"}
}

func (d *FramebufferDisplay) Start(ctx context.Context) error {
	dev, err := fb.Open(d.Path)
	if err != nil {
		return err
	}
	d.fbDev = dev
	if d.Logger != nil {
		bounds := dev.Bounds()
		d.Logger.Infof("fb", "framebuffer open, bounds=%dx%d panel=%dx%d", bounds.Dx(), bounds.Dy(), d.width, d.height)
	}
	d.running.Store(true)
	return nil
}

func (d *FramebufferDisplay) Stop() error {
	d.running.Store(false)
	if d.fbDev != nil {
		d.fbDev.Close()
		d.fbDev = nil
	}
	return nil
}

func (d *FramebufferDisplay) Present() error {
	if err := d.MemoryDisplay.Present(); err != nil {
		return err
	}
	if !d.running.Load() || d.fbDev == nil {
		return nil
	}
	blitToFB(d.fbDev, d.Frame(), d.width, d.height, d.Brightness())
	return nil
}

// blitToFB scales the panel with nearest-neighbour sampling, letterboxed
// to keep pixels square.
func blitToFB(dev *fb.Device, frame []uint16, width, height int, brightness uint8) {
	bounds := dev.Bounds()
	scale := bounds.Dx() / width
	if s := bounds.Dy() / height; s < scale {
		scale = s
	}
	if scale < 1 {
		scale = 1
	}
	offset := image.Pt(
		bounds.Min.X+(bounds.Dx()-width*scale)/2,
		bounds.Min.Y+(bounds.Dy()-height*scale)/2,
	)
	for y := 0; y < height*scale; y++ {
		sy := y / scale
		for x := 0; x < width*scale; x++ {
			sx := x / scale
			pixel := Dim(ToRGBA(frame[sy*width+sx]), brightness)
			dev.Set(offset.X+x, offset.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
