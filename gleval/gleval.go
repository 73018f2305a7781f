package gleval

import (
	"errors"
	"image/color"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/glgl/math/ms1"
)

// Color is a linear RGBA color with channels in 0..1.
type Color struct {
	R, G, B, A float32
}

// RGBA8 converts the color to 8 bit channels, clamping out of range values.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{
		R: uint8(ms1.Clamp(c.R, 0, 1)*255 + 0.5),
		G: uint8(ms1.Clamp(c.G, 0, 1)*255 + 0.5),
		B: uint8(ms1.Clamp(c.B, 0, 1)*255 + 0.5),
		A: uint8(ms1.Clamp(c.A, 0, 1)*255 + 0.5),
	}
}

// Fragment is the result of shading one coordinate: a color or a discard.
// A discarded fragment writes nothing, as if it were never covered.
type Fragment struct {
	Color   Color
	Discard bool
}

// Evaluator shades fragments in vectorized form suitable for running on GPU.
type Evaluator interface {
	// Evaluate shades the fragments at pos positions (NDC).
	// frags and pos must be of same length. Results are stored in frags.
	//
	// userData facilitates getting data to the evaluators for use in processing, such as the uniform block.
	Evaluate(pos []ms2.Vec, frags []Fragment, userData any) error
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and fragment buffer length mismatch")
)

// CheckBuffers returns an error if the position and fragment buffers
// cannot be used together in an [Evaluator] call.
func CheckBuffers(pos []ms2.Vec, frags []Fragment) error {
	if len(pos) != len(frags) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	return nil
}
