package gradial

import (
	"github.com/chewxy/math32"
	"github.com/soypat/gradial/gleval"
)

const (
	hsvSaturation = 0.75
	dimFactor     = 0.5
)

// SegmentColor returns the color of segment idx out of segments. Inactive
// segments are dimmed to half brightness, alpha is always 1.
func SegmentColor(p Palette, idx, segments int, active bool) gleval.Color {
	var r, g, b float32
	h := float32(idx) / float32(segments)
	switch p {
	case PaletteHueRamp:
		r, g, b = h, 1-h, 1
	case PaletteHSV:
		r, g, b = hsvToRGB(h, hsvSaturation, 1)
	default:
		return gleval.Color{R: 1, G: 1, B: 1, A: 1}
	}
	if !active {
		r, g, b = r*dimFactor, g*dimFactor, b*dimFactor
	}
	return gleval.Color{R: r, G: g, B: b, A: 1}
}

// hsvToRGB converts hue, saturation and value in 0..1 to red, green and blue in 0..1.
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math32.Abs(math32.Mod(h*6, 2)-1))
		m = v - c
	)
	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
