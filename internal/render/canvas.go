package render

import (
	"errors"
	"fmt"
)

// ErrCanvasTooLarge is returned when a canvas would exceed the pixel budget.
var ErrCanvasTooLarge = errors.New("canvas too large")

// Canvas is an off-screen RGB565 buffer wide enough for a whole message.
type Canvas struct {
	Width  int
	Height int
	// BottomHalfOffset shifts writes to the lower half of the panel to
	// compensate for the panel's row alignment quirk.
	BottomHalfOffset int
	Pix              []uint16
}

// NewCanvas allocates a zeroed canvas. maxPixels <= 0 disables the limit.
func NewCanvas(width, height, maxPixels int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if maxPixels > 0 && width*height > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrCanvasTooLarge, width, height, maxPixels)
	}
	return &Canvas{Width: width, Height: height, Pix: make([]uint16, width*height)}, nil
}

// ShiftX returns the column a write at (x, y) lands on.
func ShiftX(x, y, height, offset int) int {
	if y >= height/2 {
		return x + offset
	}
	return x
}

func (c *Canvas) Size() (int, int) { return c.Width, c.Height }

// SetPixel writes through the bottom-half shift and drops out-of-bounds
// writes.
func (c *Canvas) SetPixel(x, y int, col uint16) {
	x = ShiftX(x, y, c.Height, c.BottomHalfOffset)
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	c.Pix[y*c.Width+x] = col
}

func (c *Canvas) FillBackground(col uint16) {
	for i := range c.Pix {
		c.Pix[i] = col
	}
}

// At reads the stored value without any shift.
func (c *Canvas) At(x, y int) uint16 {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return 0
	}
	return c.Pix[y*c.Width+x]
}

// row returns the stored pixels of line y.
func (c *Canvas) row(y int) []uint16 { return c.Pix[y*c.Width : (y+1)*c.Width] }
