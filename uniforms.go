package gradial

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial/glbuild"
)

// Uniforms is the per-frame parameter block read by every fragment. Field order
// and types define the std140 memory layout shared with the GPU, see [glbuild.Std140Layout].
type Uniforms struct {
	// Radius is the outer radius of the ring in NDC units.
	Radius float32 `glsl:"radius" yaml:"radius"`
	// InnerRadius is the radius of the central cutout.
	InnerRadius float32 `glsl:"inner_radius" yaml:"inner_radius"`
	// Segments is the number of equal angular slots.
	Segments int32 `glsl:"segments" yaml:"segments"`
	// Time is the elapsed time in seconds driving the pulse animation.
	Time float32 `glsl:"time" yaml:"-"`
	// Mouse is the pointer position in NDC with y pointing up.
	Mouse ms2.Vec `glsl:"mouse_pos" yaml:"-"`
	// SegmentGap is the angular width in radians of the empty space trailing each segment.
	SegmentGap float32 `glsl:"segment_gap" yaml:"segment_gap"`
	// Selected is the externally selected segment or [NoSegment].
	Selected int32 `glsl:"item_selected" yaml:"-"`
	// PulseAmplitude is the radial offset amplitude of the active segment.
	PulseAmplitude float32 `glsl:"pulse_amplitude" yaml:"pulse_amplitude"`
	// PulseSpeed is the angular speed of the pulse in radians per second.
	PulseSpeed float32 `glsl:"pulse_speed" yaml:"pulse_speed"`
}

// DefaultUniforms returns the parameters of a small six segment menu.
func DefaultUniforms() Uniforms {
	return Uniforms{
		Radius:         0.25,
		InnerRadius:    0.08,
		Segments:       6,
		SegmentGap:     0.1,
		Selected:       NoSegment,
		PulseAmplitude: 0.02,
		PulseSpeed:     2,
	}
}

// Validate checks the uniforms describe a well formed menu. It should be called
// by the host before uploading the block; the fragment routine itself does not
// guard against degenerate values.
func (u *Uniforms) Validate() error {
	errs := u.validate()
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func (u *Uniforms) validate() (errs []error) {
	floats := [...]struct {
		name string
		v    float32
	}{
		{"radius", u.Radius},
		{"inner radius", u.InnerRadius},
		{"time", u.Time},
		{"mouse x", u.Mouse.X},
		{"mouse y", u.Mouse.Y},
		{"segment gap", u.SegmentGap},
		{"pulse amplitude", u.PulseAmplitude},
		{"pulse speed", u.PulseSpeed},
	}
	for _, f := range floats {
		if !isFinite(f.v) {
			errs = append(errs, fmt.Errorf("non-finite %s", f.name))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	if u.Radius <= 0 {
		errs = append(errs, fmt.Errorf("non-positive radius %g", u.Radius))
	}
	if u.InnerRadius <= 0 {
		errs = append(errs, fmt.Errorf("non-positive inner radius %g", u.InnerRadius))
	} else if u.InnerRadius >= u.Radius {
		errs = append(errs, fmt.Errorf("inner radius %g not less than radius %g", u.InnerRadius, u.Radius))
	}
	if u.Segments <= 0 {
		errs = append(errs, fmt.Errorf("non-positive segment count %d", u.Segments))
	} else if u.SegmentGap < 0 || u.SegmentGap >= SlotWidth(int(u.Segments)) {
		errs = append(errs, fmt.Errorf("segment gap %g out of range [0, %g)", u.SegmentGap, SlotWidth(int(u.Segments))))
	}
	if u.Selected < NoSegment || (u.Segments > 0 && u.Selected >= u.Segments) {
		errs = append(errs, fmt.Errorf("selected segment %d out of range", u.Selected))
	}
	if u.PulseAmplitude < 0 {
		errs = append(errs, fmt.Errorf("negative pulse amplitude %g", u.PulseAmplitude))
	} else if u.Radius > u.InnerRadius && u.PulseAmplitude >= u.Radius-u.InnerRadius {
		errs = append(errs, fmt.Errorf("pulse amplitude %g collapses ring of width %g", u.PulseAmplitude, u.Radius-u.InnerRadius))
	}
	return errs
}

// BlockObject returns the uniform block declaration used by generated shaders.
func BlockObject() glbuild.ShaderObject {
	obj, err := glbuild.MakeUniformBlock[Uniforms]("RadialUniforms", "ubo")
	if err != nil {
		panic(err) // Uniforms layout is fixed at compile time.
	}
	return obj
}
