package render

import (
	"image"
	"sync"
)

// MemoryDisplay is a double-buffered in-memory panel. Other goroutines may
// read the presented frame while the control loop draws the next one.
type MemoryDisplay struct {
	width, height int

	back []uint16

	mu         sync.RWMutex
	front      []uint16
	brightness uint8
	presented  uint64
}

func NewMemoryDisplay(width, height int) *MemoryDisplay {
	return &MemoryDisplay{
		width:      width,
		height:     height,
		back:       make([]uint16, width*height),
		front:      make([]uint16, width*height),
		brightness: 0xFF,
	}
}

func (d *MemoryDisplay) Size() (int, int) { return d.width, d.height }

func (d *MemoryDisplay) SetBrightness(level uint8) {
	d.mu.Lock()
	d.brightness = level
	d.mu.Unlock()
}

func (d *MemoryDisplay) Brightness() uint8 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.brightness
}

func (d *MemoryDisplay) Clear() {
	for i := range d.back {
		d.back[i] = 0
	}
}

func (d *MemoryDisplay) SetPixel(x, y int, c uint16) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	d.back[y*d.width+x] = c
}

// Present swaps the buffers.
func (d *MemoryDisplay) Present() error {
	d.mu.Lock()
	d.front, d.back = d.back, d.front
	d.presented++
	d.mu.Unlock()
	return nil
}

// Frame returns a copy of the presented frame.
func (d *MemoryDisplay) Frame() []uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]uint16, len(d.front))
	copy(out, d.front)
	return out
}

func (d *MemoryDisplay) Presented() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.presented
}

// Image renders the presented frame with brightness applied.
func (d *MemoryDisplay) Image() *image.RGBA {
	d.mu.RLock()
	defer d.mu.RUnlock()
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		for x := 0; x < d.width; x++ {
			img.SetRGBA(x, y, Dim(ToRGBA(d.front[y*d.width+x]), d.brightness))
		}
	}
	return img
}
