package gradial

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial/gleval"
)

// Menu is the radial menu fragment routine parametrized by its [Mode].
// Its zero value is a static white ring centered at the origin.
//
// Menu implements [gleval.Evaluator] on the CPU and [glbuild.Shader] for GPU
// programs, both computing the same function of the fragment coordinate and
// the [Uniforms] block.
type Menu struct {
	Mode Mode
}

var _ gleval.Evaluator = Menu{}

// NewMenu returns a menu for the mode after checking the mode is drawable.
func NewMenu(mode Mode) (Menu, error) {
	err := mode.validate()
	if err != nil {
		return Menu{}, err
	}
	return Menu{Mode: mode}, nil
}

// Pointer returns the pointer position in fragment space.
func (m Menu) Pointer(u *Uniforms) ms2.Vec {
	p := u.Mouse
	if m.Mode.InvertY {
		p.Y = -p.Y
	}
	return p
}

// Center returns the menu center in fragment space.
func (m Menu) Center(u *Uniforms) ms2.Vec {
	if m.Mode.Center == CenterPointer {
		return m.Pointer(u)
	}
	return ms2.Vec{}
}

// ActiveSegment returns the highlighted segment for the uniforms or [NoSegment].
func (m Menu) ActiveSegment(u *Uniforms) int {
	switch m.Mode.Selection {
	case SelectExternal:
		return int(u.Selected)
	case SelectPointerAngle:
		return HoverSegment(u, m.Center(u), m.Pointer(u))
	}
	return NoSegment
}

// Shade computes the color of the fragment at NDC coordinate p. ok is false
// when the fragment is discarded. u is not validated; see [Uniforms.Validate].
func (m Menu) Shade(u *Uniforms, p ms2.Vec) (c gleval.Color, ok bool) {
	center := m.Center(u)
	dx := p.X - center.X
	dy := p.Y - center.Y
	dist := math32.Hypot(dx, dy)
	if dist < u.InnerRadius {
		return c, false
	}
	segments := int(u.Segments)
	angle := NormalizeAngle(math32.Atan2(dy, dx))
	idx := SegmentIndex(angle, segments)
	if InGap(angle, segments, u.SegmentGap) {
		return c, false
	}
	active := m.ActiveSegment(u)
	boundary := u.Radius
	if idx == active {
		boundary = PulseRadius(u)
	}
	if dist > boundary {
		return c, false
	}
	lit := idx == active || m.Mode.Selection == SelectNone
	return SegmentColor(m.Mode.Palette, idx, segments, lit), true
}

// Evaluate implements [gleval.Evaluator]. userData must be a *[Uniforms] which
// is validated once for the whole batch.
func (m Menu) Evaluate(pos []ms2.Vec, frags []gleval.Fragment, userData any) error {
	err := gleval.CheckBuffers(pos, frags)
	if err != nil {
		return err
	}
	u, ok := userData.(*Uniforms)
	if !ok {
		if userData == nil {
			return errors.New("menu evaluation requires *Uniforms user data, got nil")
		}
		return fmt.Errorf("menu evaluation requires *Uniforms user data, got %T", userData)
	}
	err = m.Mode.validate()
	if err != nil {
		return err
	}
	err = u.Validate()
	if err != nil {
		return err
	}
	for i, p := range pos {
		c, ok := m.Shade(u, p)
		frags[i] = gleval.Fragment{Color: c, Discard: !ok}
	}
	return nil
}
