package overlay

import (
	"image"

	"github.com/soypat/geometry/ms2"
)

// NormalizeCursor converts a cursor position in window pixels (origin top-left,
// y down) to NDC with y pointing up.
func NormalizeCursor(x, y float64, width, height int) ms2.Vec {
	return ms2.Vec{
		X: float32(x/float64(width)*2 - 1),
		Y: float32(1 - y/float64(height)*2),
	}
}

// WindowOrigin returns the top-left corner of a width×height window centered on cursor.
func WindowOrigin(cursor image.Point, width, height int) image.Point {
	return image.Point{X: cursor.X - width/2, Y: cursor.Y - height/2}
}
