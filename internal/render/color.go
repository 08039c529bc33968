package render

import "image/color"

// RGB565 packs 8-bit channels the way the panel driver does.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
}

// ToRGBA expands an RGB565 value to 8-bit channels, replicating the high
// bits into the low ones.
func ToRGBA(c uint16) color.RGBA {
	r := uint8(c>>11) & 0x1F
	g := uint8(c>>5) & 0x3F
	b := uint8(c) & 0x1F
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}

// FromColor converts any color to RGB565.
func FromColor(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return RGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// HSV565 is the integer 0-255 HSV conversion used for the rainbow
// gradient. Every intermediate is truncated to 8 bits so results match
// the panel firmware bit for bit.
func HSV565(hue int, sat, val uint8) uint16 {
	if sat == 0 {
		return RGB565(val, val, val)
	}
	v := uint32(val)
	s := uint32(sat)
	region := uint8(hue / 43)
	remainder := uint8((hue - int(region)*43) * 6)

	p := uint8((v * (255 - s)) >> 8)
	q := uint8((v * (255 - ((s * uint32(remainder)) >> 8))) >> 8)
	t := uint8((v * (255 - ((s * (255 - uint32(remainder))) >> 8))) >> 8)

	var r, g, b uint8
	switch region {
	case 0:
		r, g, b = val, t, p
	case 1:
		r, g, b = q, val, p
	case 2:
		r, g, b = p, val, t
	case 3:
		r, g, b = p, q, val
	case 4:
		r, g, b = t, p, val
	default:
		r, g, b = val, p, q
	}
	return RGB565(r, g, b)
}

// RainbowHue is the gradient hue for canvas column x.
func RainbowHue(x int) int { return int(float64(x)*0.5) % 255 }

// ScaleCoverage scales an RGB565 color by an 8-bit coverage value.
func ScaleCoverage(c uint16, coverage uint8) uint16 {
	if coverage == 0xFF {
		return c
	}
	a := uint32(coverage)
	r := (uint32(c>>11) & 0x1F) * a / 255
	g := (uint32(c>>5) & 0x3F) * a / 255
	b := (uint32(c) & 0x1F) * a / 255
	return uint16(r<<11 | g<<5 | b)
}

// Dim applies an 8-bit brightness to an RGBA color.
func Dim(c color.RGBA, level uint8) color.RGBA {
	if level == 0xFF {
		return c
	}
	l := uint16(level)
	return color.RGBA{
		R: uint8(uint16(c.R) * l / 255),
		G: uint8(uint16(c.G) * l / 255),
		B: uint8(uint16(c.B) * l / 255),
		A: c.A,
	}
}
