package gradial

import (
	"fmt"
	"strconv"
	"strings"
)

// CenterMode selects where the menu is centered in NDC.
type CenterMode uint8

const (
	// CenterFixed centers the menu at the origin. Used when the overlay window
	// itself is positioned around the cursor.
	CenterFixed CenterMode = iota
	// CenterPointer centers the menu at the pointer position.
	CenterPointer
)

// SelectionMode selects how the active (highlighted) segment is determined.
type SelectionMode uint8

const (
	// SelectNone draws a static ring with no active segment.
	SelectNone SelectionMode = iota
	// SelectExternal uses [Uniforms.Selected] as provided by the host.
	SelectExternal
	// SelectPointerAngle derives the active segment from the pointer's angle
	// around the menu center, with no hover while the pointer rests in the cutout.
	SelectPointerAngle
)

// Palette selects how segments are colored.
type Palette uint8

const (
	// PaletteFlat colors every segment opaque white.
	PaletteFlat Palette = iota
	// PaletteHueRamp colors segment i with rgb (h, 1-h, 1) where h=i/segments.
	PaletteHueRamp
	// PaletteHSV colors segments by walking the HSV hue wheel.
	PaletteHSV
)

// Mode is the configuration record that parametrizes the single fragment routine.
type Mode struct {
	Center    CenterMode    `yaml:"center"`
	Selection SelectionMode `yaml:"selection"`
	// InvertY mirrors the pointer vertically before use, mapping the y-up
	// pointer convention onto a y-down fragment space such as Vulkan's.
	InvertY bool    `yaml:"invert_y"`
	Palette Palette `yaml:"palette"`
}

// StaticRing is a white segmented ring centered at the origin with no highlight.
func StaticRing() Mode {
	return Mode{Center: CenterFixed, Selection: SelectNone, Palette: PaletteFlat}
}

// CPUSelected highlights the segment selected by the host.
func CPUSelected() Mode {
	return Mode{Center: CenterFixed, Selection: SelectExternal, Palette: PaletteHueRamp}
}

// GPUHover recomputes the highlighted segment from the pointer for every fragment.
func GPUHover() Mode {
	return Mode{Center: CenterFixed, Selection: SelectPointerAngle, Palette: PaletteHueRamp}
}

// PointerWheel draws the menu around the pointer with the host selected segment highlighted.
func PointerWheel() Mode {
	return Mode{Center: CenterPointer, Selection: SelectExternal, Palette: PaletteHueRamp}
}

// Preset returns the named preset mode: "static", "cpu", "hover" or "wheel".
func Preset(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "static":
		return StaticRing(), nil
	case "cpu", "selected":
		return CPUSelected(), nil
	case "hover", "gpu":
		return GPUHover(), nil
	case "wheel", "pointer":
		return PointerWheel(), nil
	}
	return Mode{}, fmt.Errorf("unknown mode preset %q", name)
}

func (m Mode) validate() error {
	if m.Center > CenterPointer {
		return fmt.Errorf("invalid center mode %d", m.Center)
	} else if m.Selection > SelectPointerAngle {
		return fmt.Errorf("invalid selection mode %d", m.Selection)
	} else if m.Palette > PaletteHSV {
		return fmt.Errorf("invalid palette %d", m.Palette)
	} else if m.Center == CenterPointer && m.Selection == SelectPointerAngle {
		// Pointer always sits at the center, hover would never resolve.
		return fmt.Errorf("pointer angle selection requires fixed center")
	}
	return nil
}

func (c CenterMode) String() string {
	switch c {
	case CenterFixed:
		return "fixed"
	case CenterPointer:
		return "pointer"
	}
	return "CenterMode(" + strconv.Itoa(int(c)) + ")"
}

func (c *CenterMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "fixed", "origin":
		*c = CenterFixed
	case "pointer", "mouse":
		*c = CenterPointer
	default:
		return fmt.Errorf("unknown center mode %q", text)
	}
	return nil
}

func (s SelectionMode) String() string {
	switch s {
	case SelectNone:
		return "none"
	case SelectExternal:
		return "external"
	case SelectPointerAngle:
		return "pointer-angle"
	}
	return "SelectionMode(" + strconv.Itoa(int(s)) + ")"
}

func (s *SelectionMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "none", "static":
		*s = SelectNone
	case "external", "cpu":
		*s = SelectExternal
	case "pointer-angle", "hover", "gpu":
		*s = SelectPointerAngle
	default:
		return fmt.Errorf("unknown selection mode %q", text)
	}
	return nil
}

func (p Palette) String() string {
	switch p {
	case PaletteFlat:
		return "flat"
	case PaletteHueRamp:
		return "hue-ramp"
	case PaletteHSV:
		return "hsv"
	}
	return "Palette(" + strconv.Itoa(int(p)) + ")"
}

func (p *Palette) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "flat", "white":
		*p = PaletteFlat
	case "hue-ramp", "ramp":
		*p = PaletteHueRamp
	case "hsv":
		*p = PaletteHSV
	default:
		return fmt.Errorf("unknown palette %q", text)
	}
	return nil
}

func (c CenterMode) MarshalText() ([]byte, error)    { return []byte(c.String()), nil }
func (s SelectionMode) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (p Palette) MarshalText() ([]byte, error)       { return []byte(p.String()), nil }
