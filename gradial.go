// Package gradial implements the shading of a radial popup menu drawn with a
// full-screen quad: a ring around a center, cut into angular segments separated
// by gaps, with the active segment highlighted and pulsing.
//
// The same per-fragment routine is available as a CPU reference
// implementation ([Menu.Shade], [Menu.Evaluate]) and as generated GLSL/WGSL
// source through the [glbuild.Shader] interface implemented by [Menu].
package gradial

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

const (
	tau = 2 * math32.Pi
	// NoSegment is the segment index used when no segment is active.
	NoSegment = -1
)

// Builder wraps construction of menu parameters from untrusted input.
// Provides error handling strategies with panics or error accumulation.
type Builder struct {
	// NoParamPanic makes the Builder accumulate errors instead of panicking on bad parameters.
	NoParamPanic bool
	accumErrs    []error
}

// Err returns all errors accumulated by the Builder joined together.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) paramErrorf(msg string, args ...any) {
	if !bld.NoParamPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// NewUniforms returns a menu uniform block with the given geometry and default
// animation and selection values. Invalid geometry is reported through the Builder.
func (bld *Builder) NewUniforms(radius, innerRadius float32, segments int, segmentGap float32) Uniforms {
	u := DefaultUniforms()
	u.Radius = radius
	u.InnerRadius = innerRadius
	u.Segments = int32(segments)
	u.SegmentGap = segmentGap
	if segments > 1<<16 {
		bld.paramErrorf("too many segments %d", segments)
	}
	if u.PulseAmplitude >= radius-innerRadius {
		u.PulseAmplitude = max(0, (radius-innerRadius)/2)
	}
	for _, err := range u.validate() {
		bld.paramErrorf("%s", err)
	}
	return u
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
