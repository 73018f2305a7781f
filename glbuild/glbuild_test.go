package glbuild_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial/glbuild"
)

type testBlock struct {
	Radius   float32 `glsl:"radius"`
	Segments int32   `glsl:"segments"`
	Time     float32 `glsl:"time"`
	Mouse    ms2.Vec `glsl:"mouse_pos"`
	Gap      float32 `glsl:"segment_gap"`
	internal int
}

type testShader struct {
	name string
	objs []glbuild.ShaderObject
}

func (s *testShader) AppendShaderName(b []byte) []byte { return append(b, s.name...) }

func (s *testShader) AppendShaderBody(b []byte, lang glbuild.Lang) []byte {
	if lang == glbuild.LangWGSL {
		return append(b, "\treturn vec4<f32>(ubo.radius, 0.0, 0.0, 1.0);\n"...)
	}
	return append(b, "\treturn vec4(ubo.radius, 0.0, 0.0, 1.0);\n"...)
}

func (s *testShader) AppendShaderObjects(objs []glbuild.ShaderObject) []glbuild.ShaderObject {
	return append(objs, s.objs...)
}

func newTestShader(t *testing.T) *testShader {
	t.Helper()
	obj, err := glbuild.MakeUniformBlock[testBlock]("TestBlock", "ubo")
	if err != nil {
		t.Fatal(err)
	}
	return &testShader{name: "tst", objs: []glbuild.ShaderObject{obj}}
}

func TestStd140Layout(t *testing.T) {
	layout, err := glbuild.Std140Layout(reflect.TypeOf(testBlock{}))
	if err != nil {
		t.Fatal(err)
	}
	wantOffsets := map[string]int{
		"radius":      0,
		"segments":    4,
		"time":        8,
		"mouse_pos":   16, // vec2 is 8 byte aligned.
		"segment_gap": 24,
	}
	if len(layout.Fields) != len(wantOffsets) {
		t.Fatalf("want %d fields, got %d", len(wantOffsets), len(layout.Fields))
	}
	for _, f := range layout.Fields {
		if f.Offset != wantOffsets[f.Name] {
			t.Errorf("field %s: want offset %d, got %d", f.Name, wantOffsets[f.Name], f.Offset)
		}
	}
	if layout.Size != 32 {
		t.Errorf("want block size 32, got %d", layout.Size)
	}
}

func TestStd140LayoutErrors(t *testing.T) {
	type untagged struct {
		A float32
	}
	type badType struct {
		A float64 `glsl:"a"`
	}
	for _, tp := range []reflect.Type{nil, reflect.TypeOf(float32(0)), reflect.TypeOf(untagged{}), reflect.TypeOf(badType{})} {
		_, err := glbuild.Std140Layout(tp)
		if err == nil {
			t.Errorf("expected error for %v", tp)
		}
	}
}

func TestAppendStd140(t *testing.T) {
	blk := testBlock{
		Radius:   0.25,
		Segments: 6,
		Time:     1.5,
		Mouse:    ms2.Vec{X: -0.5, Y: 0.75},
		Gap:      0.1,
	}
	b, err := glbuild.AppendStd140(nil, &blk)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 32 {
		t.Fatalf("want 32 bytes, got %d", len(b))
	}
	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	if f32(0) != blk.Radius {
		t.Error("radius mismatch")
	}
	if int32(binary.LittleEndian.Uint32(b[4:])) != blk.Segments {
		t.Error("segments mismatch")
	}
	if f32(8) != blk.Time {
		t.Error("time mismatch")
	}
	if !bytes.Equal(b[12:16], make([]byte, 4)) {
		t.Error("expected zero padding before vec2")
	}
	if f32(16) != blk.Mouse.X || f32(20) != blk.Mouse.Y {
		t.Error("mouse mismatch")
	}
	if f32(24) != blk.Gap {
		t.Error("gap mismatch")
	}
	// Appending must not disturb previous contents.
	prefix := []byte{1, 2, 3}
	b, err = glbuild.AppendStd140(prefix, blk)
	if err != nil {
		t.Fatal(err)
	} else if len(b) != 35 || b[0] != 1 || b[2] != 3 {
		t.Error("bad append with prefix")
	}
}

func TestQuadVertexCoverage(t *testing.T) {
	var area float64
	for tri := 0; tri < 2; tri++ {
		var v [3]ms2.Vec
		for k := range v {
			clip, coord, err := glbuild.QuadVertex(tri*3 + k)
			if err != nil {
				t.Fatal(err)
			}
			if clip[2] != 0 || clip[3] != 1 {
				t.Error("expected z=0 w=1")
			}
			if clip[0] != coord.X || clip[1] != coord.Y {
				t.Error("coordinate must pass through unchanged")
			}
			v[k] = coord
		}
		area += math.Abs(float64(cross(v[0], v[1], v[2]))) / 2
	}
	if area != 4 {
		t.Errorf("want quad area 4, got %g", area)
	}
	// Every sample of the square lies inside one of the two triangles.
	for y := float32(-0.95); y < 1; y += 0.1 {
		for x := float32(-0.95); x < 1; x += 0.1 {
			p := ms2.Vec{X: x, Y: y}
			q := glbuild.QuadVertices
			if !inTriangle(p, q[0], q[1], q[2]) && !inTriangle(p, q[3], q[4], q[5]) {
				t.Fatalf("point %v not covered", p)
			}
		}
	}
	for _, idx := range []int{-1, 6} {
		if _, _, err := glbuild.QuadVertex(idx); err == nil {
			t.Errorf("expected error for index %d", idx)
		}
	}
}

func cross(a, b, c ms2.Vec) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func inTriangle(p, a, b, c ms2.Vec) bool {
	d1, d2, d3 := cross(a, b, p), cross(b, c, p), cross(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func TestWriteVertex(t *testing.T) {
	prog := glbuild.NewDefaultProgrammer()
	tests := []struct {
		lang glbuild.Lang
		want []string
	}{
		{lang: glbuild.LangGLSLVulkan, want: []string{"#version 450", "gl_VertexIndex", "vec2(-1.0,-1.0)", "gl_Position = vec4(p, 0.0, 1.0)"}},
		{lang: glbuild.LangGLSLOpenGL, want: []string{"#version 460", "gl_VertexID"}},
		{lang: glbuild.LangWGSL, want: []string{"@vertex", "@builtin(vertex_index)", "array<vec2<f32>, 6>", "vec2<f32>(1.0,1.0)"}},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		n, err := prog.WriteVertex(&buf, test.lang)
		if err != nil {
			t.Fatal(err)
		} else if n != buf.Len() {
			t.Fatal("written length mismatch")
		}
		src := buf.String()
		for _, want := range test.want {
			if !strings.Contains(src, want) {
				t.Errorf("%s vertex source missing %q:\n%s", test.lang, want, src)
			}
		}
	}
}

func TestWriteFragment(t *testing.T) {
	prog := glbuild.NewDefaultProgrammer()
	for _, lang := range []glbuild.Lang{glbuild.LangGLSLVulkan, glbuild.LangGLSLOpenGL, glbuild.LangWGSL} {
		s := newTestShader(t)
		var buf bytes.Buffer
		n, objs, err := prog.WriteFragment(&buf, s, lang)
		if err != nil {
			t.Fatal(err)
		} else if n != buf.Len() {
			t.Fatal("written length mismatch")
		}
		if len(objs) != 1 || objs[0].Binding != 0 {
			t.Fatalf("expected single object at binding 0, got %+v", objs)
		}
		src := buf.String()
		var want []string
		if lang == glbuild.LangWGSL {
			want = []string{"struct TestBlock {", "mouse_pos: vec2<f32>,", "@group(0) @binding(0) var<uniform> ubo: TestBlock;", "fn tst(coord: vec2<f32>) -> vec4<f32>", "@fragment", "discard;"}
		} else {
			want = []string{"layout(std140, binding = 0) uniform TestBlock {", "\tint segments;\n", "} ubo;", "vec4 tst(vec2 coord)", "discard;", "outColor = c;"}
		}
		for _, w := range want {
			if !strings.Contains(src, w) {
				t.Errorf("%s fragment source missing %q:\n%s", lang, w, src)
			}
		}
		if strings.Contains(src, "internal") {
			t.Error("unexported field leaked into block declaration")
		}
	}
}

func TestDuplicateUniformBlock(t *testing.T) {
	s := newTestShader(t)
	s.objs = append(s.objs, s.objs[0])
	var buf bytes.Buffer
	_, objs, err := glbuild.NewDefaultProgrammer().WriteFragment(&buf, s, glbuild.LangGLSLVulkan)
	if err != nil {
		t.Fatal(err)
	}
	if c := strings.Count(buf.String(), "uniform TestBlock"); c != 1 {
		t.Errorf("want one block declaration, got %d", c)
	}
	if objs[1].Binding != objs[0].Binding {
		t.Error("duplicate block should share binding")
	}

	other, err := glbuild.MakeUniformBlock[struct {
		X float32 `glsl:"x"`
	}]("TestBlock", "other")
	if err != nil {
		t.Fatal(err)
	}
	s.objs = []glbuild.ShaderObject{s.objs[0], other}
	_, _, err = glbuild.NewDefaultProgrammer().WriteFragment(&buf, s, glbuild.LangGLSLVulkan)
	if err == nil {
		t.Error("expected name conflict error")
	}
}

func TestShaderFunction(t *testing.T) {
	const (
		glslDef = "float twice(float x) {\n\treturn 2.0 * x;\n}\n"
		wgslDef = "fn twice(x: f32) -> f32 {\n\treturn 2.0 * x;\n}\n"
	)
	fn, err := glbuild.MakeShaderFunction([]byte(glslDef), []byte(wgslDef))
	if err != nil {
		t.Fatal(err)
	}
	if !fn.IsFunction() || fn.IsBindable() || string(fn.NamePtr) != "twice" {
		t.Fatalf("unexpected function object %+v", fn)
	}
	s := newTestShader(t)
	s.objs = append(s.objs, fn, fn)
	var buf bytes.Buffer
	for _, lang := range []glbuild.Lang{glbuild.LangGLSLVulkan, glbuild.LangWGSL} {
		buf.Reset()
		_, objs, err := glbuild.NewDefaultProgrammer().WriteFragment(&buf, s, lang)
		if err != nil {
			t.Fatal(err)
		}
		if len(objs) != 1 || objs[0].Binding != 0 {
			t.Errorf("%s: functions should not be returned as bindable objects: %+v", lang, objs)
		}
		src := buf.String()
		decl := "float twice("
		if lang == glbuild.LangWGSL {
			decl = "fn twice("
		}
		if c := strings.Count(src, decl); c != 1 {
			t.Errorf("%s: want one function declaration, got %d:\n%s", lang, c, src)
		}
		if strings.Index(src, decl) > strings.Index(src, "tst(") {
			t.Errorf("%s: function must be declared before the shader function", lang)
		}
	}

	_, err = glbuild.MakeShaderFunction([]byte(glslDef), []byte("fn thrice(x: f32) -> f32 { return 3.0 * x; }"))
	if err == nil {
		t.Error("expected error for mismatched WGSL name")
	}
	_, err = glbuild.MakeShaderFunction([]byte("nofunction"), []byte(wgslDef))
	if err == nil {
		t.Error("expected error for unparsable definition")
	}
	other, err := glbuild.MakeShaderFunction([]byte("float twice(float x) { return x + x; }"), []byte("fn twice(x: f32) -> f32 { return x + x; }"))
	if err != nil {
		t.Fatal(err)
	}
	s.objs = []glbuild.ShaderObject{fn, other}
	_, _, err = glbuild.NewDefaultProgrammer().WriteFragment(&buf, s, glbuild.LangGLSLVulkan)
	if err == nil {
		t.Error("expected conflict for functions sharing a name")
	}
}

func TestAppendFloat(t *testing.T) {
	tests := []struct {
		v    float32
		want string
	}{
		{v: 1, want: "1.0"},
		{v: -1, want: "-1.0"},
		{v: 0.5, want: "0.5"},
		{v: 0, want: "0.0"},
		{v: 2.25, want: "2.25"},
	}
	for _, test := range tests {
		got := string(glbuild.AppendFloat(nil, '-', '.', test.v))
		if got != test.want {
			t.Errorf("AppendFloat(%g): want %q, got %q", test.v, test.want, got)
		}
	}
	got := string(glbuild.AppendFloat(nil, 'n', 'p', -0.5))
	if got != "n0p5" {
		t.Errorf("want name-safe float n0p5, got %q", got)
	}
}

func TestDecls(t *testing.T) {
	b := glbuild.AppendFloatDecl(nil, glbuild.LangGLSLVulkan, "r", 0.5)
	if string(b) != "float r=0.5;\n" {
		t.Errorf("got %q", b)
	}
	b = glbuild.AppendFloatDecl(nil, glbuild.LangWGSL, "r", 0.5)
	if string(b) != "let r: f32 = 0.5;\n" {
		t.Errorf("got %q", b)
	}
	b = glbuild.AppendVec2Decl(nil, glbuild.LangWGSL, "c", ms2.Vec{X: 1, Y: -1})
	if string(b) != "let c: vec2<f32> = vec2<f32>(1.0,-1.0);\n" {
		t.Errorf("got %q", b)
	}
	b = glbuild.AppendIntDecl(nil, glbuild.LangGLSLOpenGL, "n", 6)
	if string(b) != "int n=6;\n" {
		t.Errorf("got %q", b)
	}
}

func TestCompileSPIRV(t *testing.T) {
	s := newTestShader(t)
	code, wgsl, err := glbuild.NewDefaultProgrammer().CompileShaderSPIRV(s)
	if err != nil {
		skipIfNagaUnsupported(t, err)
		t.Fatalf("%s\n%v", wgsl, err)
	}
	if code[0] != 0x07230203 {
		t.Error("bad SPIR-V magic")
	}
}

func skipIfNagaUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("naga feature not yet implemented: %v", err)
	}
}
