package render

// Compositor scrolls a canvas across a display one tick at a time.
type Compositor struct {
	Display Display

	canvas *Canvas
	cursor float64
}

func NewCompositor(display Display) *Compositor {
	c := &Compositor{Display: display}
	c.cursor = c.start()
	return c
}

func (c *Compositor) start() float64 {
	w, _ := c.Display.Size()
	return -float64(w)
}

// Reset swaps in a new canvas and rewinds the cursor so the message enters
// from the right edge. A nil canvas blanks the display.
func (c *Compositor) Reset(canvas *Canvas) {
	c.canvas = canvas
	c.cursor = c.start()
}

func (c *Compositor) Canvas() *Canvas { return c.canvas }
func (c *Compositor) Cursor() float64 { return c.cursor }

// Tick composes one frame at the current cursor, presents it and advances
// by speed columns.
func (c *Compositor) Tick(speed int) error {
	d := c.Display
	d.Clear()
	if c.canvas == nil {
		return d.Present()
	}

	dw, dh := d.Size()
	h := c.canvas.Height
	if dh < h {
		h = dh
	}
	base := int(c.cursor)
	for y := 0; y < h; y++ {
		row := c.canvas.row(y)
		for x := 0; x < dw; x++ {
			src := base + x
			if src < 0 || src >= len(row) {
				continue
			}
			if px := row[src]; px != 0 {
				d.SetPixel(x, y, px)
			}
		}
	}
	err := d.Present()

	c.cursor += float64(speed)
	if c.cursor > float64(c.canvas.Width) {
		c.cursor = c.start()
	}
	return err
}
