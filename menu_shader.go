package gradial

import (
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial/glbuild"
	"github.com/soypat/gradial/glbuild/glsllib"
)

var _ glbuild.Shader = Menu{}

// AppendShaderName implements [glbuild.Shader]. Distinct modes yield distinct names.
func (m Menu) AppendShaderName(b []byte) []byte {
	b = append(b, "radial_menu"...)
	switch m.Mode.Center {
	case CenterPointer:
		b = append(b, "_ptr"...)
	default:
		b = append(b, "_org"...)
	}
	switch m.Mode.Selection {
	case SelectExternal:
		b = append(b, "_sel"...)
	case SelectPointerAngle:
		b = append(b, "_hov"...)
	default:
		b = append(b, "_static"...)
	}
	switch m.Mode.Palette {
	case PaletteHueRamp:
		b = append(b, "_ramp"...)
	case PaletteHSV:
		b = append(b, "_hsv"...)
	default:
		b = append(b, "_flat"...)
	}
	if m.Mode.InvertY {
		b = append(b, "_invy"...)
	}
	return b
}

// AppendShaderObjects implements [glbuild.Shader]. The menu reads a single
// uniform block and calls the angular helpers of [glsllib].
func (m Menu) AppendShaderObjects(objs []glbuild.ShaderObject) []glbuild.ShaderObject {
	objs = append(objs, BlockObject(), glsllib.Angle(), glsllib.Segment())
	if m.Mode.Palette == PaletteHSV {
		objs = append(objs, glsllib.HSV())
	}
	return objs
}

// AppendShaderBody implements [glbuild.Shader]. The body mirrors [Menu.Shade]
// and returns negative alpha for discarded fragments.
func (m Menu) AppendShaderBody(b []byte, lang glbuild.Lang) []byte {
	if lang == glbuild.LangWGSL {
		return m.appendWGSL(b)
	}
	return m.appendGLSL(b)
}

func (m Menu) appendGLSL(b []byte) []byte {
	const discard = "\t\treturn vec4(-1.0);\n\t}\n"
	b = append(b, '\t')
	b = glbuild.AppendFloatDecl(b, glbuild.LangGLSLVulkan, "tau", tau)
	b = append(b, "\tvec2 pointer = ubo.mouse_pos;\n"...)
	if m.Mode.InvertY {
		b = append(b, "\tpointer.y = -pointer.y;\n"...)
	}
	if m.Mode.Center == CenterPointer {
		b = append(b, "\tvec2 center = pointer;\n"...)
	} else {
		b = append(b, '\t')
		b = glbuild.AppendVec2Decl(b, glbuild.LangGLSLVulkan, "center", ms2.Vec{})
	}
	b = append(b, `	vec2 d = coord - center;
	float dist = length(d);
	if (dist < ubo.inner_radius) {
`+discard+`	float slot = tau / float(ubo.segments);
	float angle = gradialAngle(d);
	int idx = gradialSegment(angle, ubo.segments);
	if (angle - float(idx) * slot >= slot - ubo.segment_gap) {
`+discard...)
	switch m.Mode.Selection {
	case SelectExternal:
		b = append(b, "\tint active = ubo.item_selected;\n"...)
	case SelectPointerAngle:
		b = append(b, `	int active = -1;
	vec2 pd = pointer - center;
	if (length(pd) > ubo.inner_radius) {
		active = gradialSegment(gradialAngle(pd), ubo.segments);
	}
`...)
	default:
		b = append(b, '\t')
		b = glbuild.AppendIntDecl(b, glbuild.LangGLSLVulkan, "active", NoSegment)
	}
	b = append(b, `	float boundary = ubo.radius;
	if (idx == active) {
		boundary = ubo.radius + ubo.pulse_amplitude * sin(ubo.time * ubo.pulse_speed);
	}
	if (dist > boundary) {
`+discard...)
	switch m.Mode.Palette {
	case PaletteHueRamp:
		b = append(b, "\tfloat h = float(idx) / float(ubo.segments);\n\tvec3 rgb = vec3(h, 1.0 - h, 1.0);\n"...)
	case PaletteHSV:
		b = append(b, "\tfloat h = float(idx) / float(ubo.segments);\n\tvec3 rgb = gradialHSV(h, "...)
		b = glbuild.AppendFloat(b, '-', '.', hsvSaturation)
		b = append(b, ", 1.0);\n"...)
	default:
		return append(b, "\treturn vec4(1.0);\n"...)
	}
	if m.Mode.Selection != SelectNone {
		b = append(b, "\tif (idx != active) {\n\t\trgb *= "...)
		b = glbuild.AppendFloat(b, '-', '.', dimFactor)
		b = append(b, ";\n\t}\n"...)
	}
	b = append(b, "\treturn vec4(rgb, 1.0);\n"...)
	return b
}

func (m Menu) appendWGSL(b []byte) []byte {
	const discard = "\t\treturn vec4<f32>(-1.0);\n\t}\n"
	b = append(b, '\t')
	b = glbuild.AppendFloatDecl(b, glbuild.LangWGSL, "tau", tau)
	b = append(b, "\tvar pointer = ubo.mouse_pos;\n"...)
	if m.Mode.InvertY {
		b = append(b, "\tpointer.y = -pointer.y;\n"...)
	}
	if m.Mode.Center == CenterPointer {
		b = append(b, "\tlet center = pointer;\n"...)
	} else {
		b = append(b, '\t')
		b = glbuild.AppendVec2Decl(b, glbuild.LangWGSL, "center", ms2.Vec{})
	}
	b = append(b, `	let d = coord - center;
	let dist = length(d);
	if (dist < ubo.inner_radius) {
`+discard+`	let slot = tau / f32(ubo.segments);
	let angle = gradialAngle(d);
	let idx = gradialSegment(angle, ubo.segments);
	if (angle - f32(idx) * slot >= slot - ubo.segment_gap) {
`+discard...)
	switch m.Mode.Selection {
	case SelectExternal:
		b = append(b, "\tlet active = ubo.item_selected;\n"...)
	case SelectPointerAngle:
		b = append(b, `	var active = -1;
	let pd = pointer - center;
	if (length(pd) > ubo.inner_radius) {
		active = gradialSegment(gradialAngle(pd), ubo.segments);
	}
`...)
	default:
		b = append(b, '\t')
		b = glbuild.AppendIntDecl(b, glbuild.LangWGSL, "active", NoSegment)
	}
	b = append(b, `	var boundary = ubo.radius;
	if (idx == active) {
		boundary = ubo.radius + ubo.pulse_amplitude * sin(ubo.time * ubo.pulse_speed);
	}
	if (dist > boundary) {
`+discard...)
	switch m.Mode.Palette {
	case PaletteHueRamp:
		b = append(b, "\tlet h = f32(idx) / f32(ubo.segments);\n\tvar rgb = vec3<f32>(h, 1.0 - h, 1.0);\n"...)
	case PaletteHSV:
		b = append(b, "\tlet h = f32(idx) / f32(ubo.segments);\n\tvar rgb = gradialHSV(h, "...)
		b = glbuild.AppendFloat(b, '-', '.', hsvSaturation)
		b = append(b, ", 1.0);\n"...)
	default:
		return append(b, "\treturn vec4<f32>(1.0);\n"...)
	}
	if m.Mode.Selection != SelectNone {
		b = append(b, "\tif (idx != active) {\n\t\trgb *= "...)
		b = glbuild.AppendFloat(b, '-', '.', dimFactor)
		b = append(b, ";\n\t}\n"...)
	}
	b = append(b, "\treturn vec4<f32>(rgb, 1.0);\n"...)
	return b
}
