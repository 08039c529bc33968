package render

import (
	"context"
	"image"
)

// Surface is the pixel capability a Rasterizer draws through.
type Surface interface {
	// Size returns the surface size in pixels.
	Size() (width int, height int)
	SetPixel(x, y int, c uint16)
	FillBackground(c uint16)
}

// Rasterizer measures and stamps text at a pixel size. Stamp writes fill
// scaled by glyph coverage; origin is the top-left of the line box.
type Rasterizer interface {
	Measure(text string, size int) int
	Stamp(dst Surface, text string, size int, origin image.Point, fill uint16)
}

// Display is the LED panel sink. Pixels written after Clear become visible
// on Present.
type Display interface {
	Size() (width int, height int)
	SetBrightness(level uint8)
	Clear()
	SetPixel(x, y int, c uint16)
	Present() error
}

// Device is a Display with a lifecycle, such as a framebuffer.
type Device interface {
	Display
	Start(ctx context.Context) error
	Stop() error
}

type logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Stub implementations
type NoopDisplay struct{ Width, Height int }

func (n NoopDisplay) Size() (int, int)              { return n.Width, n.Height }
func (NoopDisplay) SetBrightness(uint8)             {}
func (NoopDisplay) Clear()                          {}
func (NoopDisplay) SetPixel(x, y int, c uint16)     {}
func (NoopDisplay) Present() error                  { return nil }
func (NoopDisplay) Start(ctx context.Context) error { return nil }
func (NoopDisplay) Stop() error                     { return nil }
