// Package glsllib holds shader functions shared by generated radial menu
// shaders. Each function is defined in GLSL and WGSL with identical semantics.
package glsllib

import (
	_ "embed"

	"github.com/soypat/gradial/glbuild"
)

//go:embed angle.glsl
var angleGLSL []byte

//go:embed angle.wgsl
var angleWGSL []byte

// Angle returns the angle of d around the origin normalized to [0, 2π):
//
//	float gradialAngle(vec2 d)
func Angle() glbuild.ShaderObject {
	return mustFunction(angleGLSL, angleWGSL)
}

//go:embed segment.glsl
var segmentGLSL []byte

//go:embed segment.wgsl
var segmentWGSL []byte

// Segment returns the index of the angular slot containing a normalized angle,
// clamped to [0, segments-1]:
//
//	int gradialSegment(float angle, int segments)
func Segment() glbuild.ShaderObject {
	return mustFunction(segmentGLSL, segmentWGSL)
}

//go:embed hsv.glsl
var hsvGLSL []byte

//go:embed hsv.wgsl
var hsvWGSL []byte

// HSV converts a hue in [0,1), saturation and value to RGB:
//
//	vec3 gradialHSV(float h, float s, float v)
func HSV() glbuild.ShaderObject {
	return mustFunction(hsvGLSL, hsvWGSL)
}

func mustFunction(glsl, wgsl []byte) glbuild.ShaderObject {
	obj, err := glbuild.MakeShaderFunction(glsl, wgsl)
	if err != nil {
		panic(err)
	}
	return obj
}
