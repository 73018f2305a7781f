// Package glrender rasterizes fragment shading routines to images, either on
// the CPU through a [gleval.Evaluator] or on the GPU through generated shaders.
package glrender

import (
	"image"
	"image/color"

	"github.com/soypat/geometry/ms2"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// PixelNDC returns the normalized device coordinate of the center of pixel
// (i,j) of a w×h image. Row 0 is the top of the image (y=+1) unless flipY is
// set, in which case row 0 is at y=-1 as in a Vulkan framebuffer.
func PixelNDC(i, j, w, h int, flipY bool) ms2.Vec {
	x := (float32(i)+0.5)/float32(w)*2 - 1
	y := 1 - (float32(j)+0.5)/float32(h)*2
	if flipY {
		y = -y
	}
	return ms2.Vec{X: x, Y: y}
}

// NDCPixel is the inverse of [PixelNDC] returning fractional pixel coordinates.
func NDCPixel(p ms2.Vec, w, h int, flipY bool) (x, y float32) {
	if flipY {
		p.Y = -p.Y
	}
	x = (p.X + 1) / 2 * float32(w)
	y = (1 - p.Y) / 2 * float32(h)
	return x, y
}
