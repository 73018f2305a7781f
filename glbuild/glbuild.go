package glbuild

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/soypat/geometry/ms2"
)

const (
	versionVulkan = "#version 450\n"
	versionOpenGL = "#version 460\n"
)

// Lang selects the shading language dialect emitted by a [Programmer].
type Lang uint8

const (
	// LangGLSLVulkan is GLSL 4.50 as consumed by glslc/glslangValidator for Vulkan.
	// Vertices are indexed with gl_VertexIndex and framebuffer y points down.
	LangGLSLVulkan Lang = iota
	// LangGLSLOpenGL is GLSL 4.60 core as consumed by an OpenGL driver. Vertices
	// are indexed with gl_VertexID.
	LangGLSLOpenGL
	// LangWGSL is the WebGPU shading language. Both stages live in one module.
	LangWGSL
)

func (l Lang) String() string {
	switch l {
	case LangGLSLVulkan:
		return "glsl-vulkan"
	case LangGLSLOpenGL:
		return "glsl-opengl"
	case LangWGSL:
		return "wgsl"
	}
	return "Lang(" + strconv.Itoa(int(l)) + ")"
}

// IsGLSL reports whether the language is a GLSL dialect.
func (l Lang) IsGLSL() bool { return l == LangGLSLVulkan || l == LangGLSLOpenGL }

func (l Lang) validate() error {
	if l > LangWGSL {
		return fmt.Errorf("unknown shading language %s", l.String())
	}
	return nil
}

// Shader stores information for automatically generating fragment shader
// programs and evaluating them correctly on a GPU.
//
// The generated function has the signature `vec4 name(vec2 coord)` in GLSL and
// `fn name(coord: vec2<f32>) -> vec4<f32>` in WGSL. A returned color with
// negative alpha signals the fragment must be discarded.
type Shader interface {
	// AppendShaderName appends the name of the shader function
	// to the buffer and returns the result. It should be unique to that shader.
	AppendShaderName(b []byte) []byte
	// AppendShaderBody appends the body of the shader function in the
	// requested language to the buffer and returns the result.
	AppendShaderBody(b []byte, lang Lang) []byte
	// AppendShaderObjects appends "objects" (read as data) needed to
	// evaluate the shader correctly, i.e. uniform blocks and shader functions.
	AppendShaderObjects(objs []ShaderObject) []ShaderObject
}

// ShaderObject is a handle to a uniform block or shader function needed to evaluate a [Shader] correctly.
type ShaderObject struct {
	// NamePtr is the block (struct) type name inside of the [Shader].
	NamePtr []byte
	// Instance is the name the shader body uses to access the block's fields.
	Instance string
	// Element is the Go struct type mirrored by the block.
	Element reflect.Type
	// Binding specifies the resource's binding point during shader execution.
	// Binding should be equal to -1 until the final binding point is allocated in shader generation.
	Binding int
	// funcGLSL and funcWGSL hold the definition of a shader function object.
	funcGLSL []byte
	funcWGSL []byte
}

// MakeUniformBlock creates a uniform block [ShaderObject] mirroring the struct type T.
// Fields of T are named in the shader by their `glsl` struct tag.
func MakeUniformBlock[T any](blockName, instanceName string) (ShaderObject, error) {
	var z T
	obj := ShaderObject{
		NamePtr:  []byte(blockName),
		Instance: instanceName,
		Element:  reflect.TypeOf(z),
		Binding:  0,
	}
	err := obj.Validate()
	if err != nil {
		return ShaderObject{}, err
	}
	// Until shader generation we do not know where our block will be bound.
	// Programmer expects -1 binding until then.
	obj.Binding = -1
	return obj, nil
}

// MakeShaderFunction creates a function [ShaderObject] from its GLSL and WGSL
// definitions, which must declare a function of the same name. Functions are
// declared once before the shader function that needs them.
func MakeShaderFunction(glslDef, wgslDef []byte) (sf ShaderObject, err error) {
	glslDef = bytes.TrimSpace(glslDef)
	wgslDef = bytes.TrimSpace(wgslDef)
	fnNameEnd := bytes.IndexByte(glslDef, '(')
	fnNameStart := bytes.IndexByte(glslDef, ' ')
	if fnNameEnd < 0 || fnNameStart < 0 || fnNameStart > fnNameEnd {
		return ShaderObject{}, errors.New("unable to parse function name")
	}
	name := bytes.TrimSpace(glslDef[fnNameStart:fnNameEnd])
	if len(name) == 0 {
		return ShaderObject{}, errors.New("empty function name")
	}
	wgslDecl := append(append([]byte("fn "), name...), '(')
	if !bytes.HasPrefix(wgslDef, wgslDecl) {
		return ShaderObject{}, fmt.Errorf("WGSL definition does not declare %q", name)
	}
	sf = ShaderObject{
		NamePtr:  name,
		funcGLSL: glslDef,
		funcWGSL: wgslDef,
		Binding:  -1,
	}
	return sf, nil
}

// IsFunction reports whether the object is a shader function and not a uniform block.
func (obj ShaderObject) IsFunction() bool { return len(obj.funcGLSL) > 0 }

// IsBindable reports whether the object occupies a binding point.
func (obj ShaderObject) IsBindable() bool { return !obj.IsFunction() }

func (obj ShaderObject) funcSource(lang Lang) []byte {
	if lang == LangWGSL {
		return obj.funcWGSL
	}
	return obj.funcGLSL
}

// Validate checks the object is a well formed uniform block or shader function.
func (obj ShaderObject) Validate() error {
	if len(obj.NamePtr) == 0 {
		return errors.New("shader object zero-length name")
	} else if obj.IsFunction() {
		if len(obj.funcWGSL) == 0 {
			return errors.New("shader function missing WGSL definition")
		}
		return nil
	} else if obj.Instance == "" {
		return errors.New("shader object zero-length instance name")
	} else if obj.Binding < 0 {
		return errors.New("shader object negative binding point")
	}
	_, err := Std140Layout(obj.Element)
	return err
}

// Programmer implements shader generation logic for Shader type.
type Programmer struct {
	scratch     []byte
	objsScratch []ShaderObject
	// names maps uniform block name hashes for checking duplicates.
	names map[uint64]uint64
}

// NewDefaultProgrammer returns a Programmer with reasonable default parameters.
// Uniform blocks are bound starting at binding 0.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch: make([]byte, 0, 2048),
		names:   make(map[uint64]uint64),
	}
}

// WriteVertex writes the full-screen quad vertex stage. For [LangWGSL] the
// output is a module fragment meant to be concatenated with [Programmer.WriteFragment]'s output.
func (p *Programmer) WriteVertex(w io.Writer, lang Lang) (int, error) {
	if err := lang.validate(); err != nil {
		return 0, err
	}
	p.scratch = AppendVertexSource(p.scratch[:0], lang)
	return w.Write(p.scratch)
}

// WriteFragment writes the fragment stage for s: version header, uniform block
// declarations, the shader function and the entry point which discards
// fragments the shader function rejects. It returns the uniform blocks with their final bindings,
// shader function objects are declared but not returned.
func (p *Programmer) WriteFragment(w io.Writer, s Shader, lang Lang) (n int, objs []ShaderObject, err error) {
	if s == nil {
		return 0, nil, errors.New("nil shader")
	} else if err = lang.validate(); err != nil {
		return 0, nil, err
	}
	name := s.AppendShaderName(nil)
	if len(name) == 0 {
		return 0, nil, errors.New("empty shader name")
	}
	p.scratch = p.scratch[:0]
	if lang.IsGLSL() {
		p.scratch = appendVersion(p.scratch, lang)
	}
	p.scratch, objs, err = p.appendObjects(p.scratch, s, lang)
	if err != nil {
		return 0, nil, err
	}
	p.scratch = AppendShaderSource(p.scratch, s, lang)
	p.scratch = appendFragmentMain(p.scratch, name, lang)
	n, err = w.Write(p.scratch)
	return n, objs, err
}

// WriteWGSLModule writes a single WGSL module containing both the vertex
// entry point `vs_main` and the fragment entry point `fs_main`.
func (p *Programmer) WriteWGSLModule(w io.Writer, s Shader) (n int, objs []ShaderObject, err error) {
	n, err = p.WriteVertex(w, LangWGSL)
	if err != nil {
		return n, nil, err
	}
	ngot, objs, err := p.WriteFragment(w, s, LangWGSL)
	n += ngot
	return n, objs, err
}

func (p *Programmer) appendObjects(dst []byte, s Shader, lang Lang) (_ []byte, objs []ShaderObject, err error) {
	clear(p.names)
	p.objsScratch = s.AppendShaderObjects(p.objsScratch[:0])
	binding := 0
OBJWRITE:
	for i := range p.objsScratch {
		obj := &p.objsScratch[i]
		if obj.Binding != -1 {
			return dst, nil, fmt.Errorf("uniform block binding should be set to -1 until shader generated for %T, %q", s, obj.NamePtr)
		}
		nameHash := hash(obj.NamePtr, 0)
		if _, conflict := p.names[nameHash]; conflict {
			for _, old := range p.objsScratch[:i] {
				if !bytes.Equal(old.NamePtr, obj.NamePtr) {
					continue
				} else if obj.IsFunction() && bytes.Equal(obj.funcGLSL, old.funcGLSL) && bytes.Equal(obj.funcWGSL, old.funcWGSL) {
					continue OBJWRITE // Function already declared.
				} else if obj.IsBindable() && old.IsBindable() && old.Element == obj.Element && old.Instance == obj.Instance {
					obj.Binding = old.Binding
					continue OBJWRITE // Duplicate, already declared.
				}
			}
			return dst, nil, fmt.Errorf("shader object name conflict: %T has object with conflicting name %q", s, obj.NamePtr)
		}
		p.names[nameHash] = nameHash
		if obj.IsFunction() {
			err = obj.Validate()
			if err != nil {
				return dst, nil, err
			}
			dst = append(dst, obj.funcSource(lang)...)
			dst = append(dst, "\n\n"...)
			continue
		}
		obj.Binding = binding
		binding++
		dst, err = AppendUniformBlockDecl(dst, *obj, lang)
		if err != nil {
			return dst, nil, err
		}
	}
	for _, obj := range p.objsScratch {
		if obj.IsBindable() {
			objs = append(objs, obj) // Functions have no binding to report.
		}
	}
	return dst, objs, nil
}

func appendVersion(b []byte, lang Lang) []byte {
	if lang == LangGLSLOpenGL {
		return append(b, versionOpenGL...)
	}
	return append(b, versionVulkan...)
}

// AppendShaderSource appends the code of a single shader function to the dst byte buffer.
func AppendShaderSource(dst []byte, s Shader, lang Lang) []byte {
	if lang == LangWGSL {
		dst = append(dst, "fn "...)
		dst = s.AppendShaderName(dst)
		dst = append(dst, "(coord: vec2<f32>) -> vec4<f32> {\n"...)
	} else {
		dst = append(dst, "vec4 "...)
		dst = s.AppendShaderName(dst)
		dst = append(dst, "(vec2 coord) {\n"...)
	}
	dst = s.AppendShaderBody(dst, lang)
	dst = append(dst, "}\n\n"...)
	return dst
}

func appendFragmentMain(b, name []byte, lang Lang) []byte {
	if lang == LangWGSL {
		b = append(b, "@fragment\nfn fs_main(@location(0) coord: vec2<f32>) -> @location(0) vec4<f32> {\n\tlet c = "...)
		b = append(b, name...)
		b = append(b, "(coord);\n\tif (c.a < 0.0) {\n\t\tdiscard;\n\t}\n\treturn c;\n}\n"...)
		return b
	}
	b = append(b, "layout(location = 0) in vec2 fragCoord;\nlayout(location = 0) out vec4 outColor;\n\nvoid main() {\n\tvec4 c = "...)
	b = append(b, name...)
	b = append(b, "(fragCoord);\n\tif (c.a < 0.0) {\n\t\tdiscard;\n\t}\n\toutColor = c;\n}\n"...)
	return b
}

// AppendUniformBlockDecl appends the [ShaderObject] as a uniform block declaration.
//
// GLSL:
//
//	layout(std140, binding = <Binding>) uniform <NamePtr> {
//		<field type> <field name>;
//	} <Instance>;
//
// WGSL:
//
//	struct <NamePtr> {
//		<field name>: <field type>,
//	}
//	@group(0) @binding(<Binding>) var<uniform> <Instance>: <NamePtr>;
func AppendUniformBlockDecl(dst []byte, obj ShaderObject, lang Lang) ([]byte, error) {
	err := obj.Validate()
	if err != nil {
		return dst, err
	}
	layout, err := Std140Layout(obj.Element)
	if err != nil {
		return dst, fmt.Errorf("layout failed for %q: %w", obj.NamePtr, err)
	}
	if lang == LangWGSL {
		dst = append(dst, "struct "...)
		dst = append(dst, obj.NamePtr...)
		dst = append(dst, " {\n"...)
		for _, f := range layout.Fields {
			dst = append(dst, '\t')
			dst = append(dst, f.Name...)
			dst = append(dst, ": "...)
			dst = append(dst, f.WGSLType...)
			dst = append(dst, ",\n"...)
		}
		dst = append(dst, "}\n\n@group(0) @binding("...)
		dst = strconv.AppendInt(dst, int64(obj.Binding), 10)
		dst = append(dst, ") var<uniform> "...)
		dst = append(dst, obj.Instance...)
		dst = append(dst, ": "...)
		dst = append(dst, obj.NamePtr...)
		dst = append(dst, ";\n\n"...)
		return dst, nil
	}
	dst = append(dst, "layout(std140, binding = "...)
	dst = strconv.AppendInt(dst, int64(obj.Binding), 10)
	dst = append(dst, ") uniform "...)
	dst = append(dst, obj.NamePtr...)
	dst = append(dst, " {\n"...)
	for _, f := range layout.Fields {
		dst = append(dst, '\t')
		dst = append(dst, f.GLSLType...)
		dst = append(dst, ' ')
		dst = append(dst, f.Name...)
		dst = append(dst, ";\n"...)
	}
	dst = append(dst, "} "...)
	dst = append(dst, obj.Instance...)
	dst = append(dst, ";\n\n"...)
	return dst, nil
}

// AppendVec2Decl appends a vec2 variable declaration in the argument language.
func AppendVec2Decl(b []byte, lang Lang, vec2Varname string, v ms2.Vec) []byte {
	b = appendDeclStart(b, lang, "vec2", vec2Varname)
	b = appendTypeCtor(b, lang, "vec2")
	arr := v.Array()
	b = AppendFloats(b, ',', '-', '.', arr[:]...)
	b = append(b, ')', ';', '\n')
	return b
}

// AppendFloatDecl appends a float variable declaration in the argument language.
func AppendFloatDecl(b []byte, lang Lang, floatVarname string, v float32) []byte {
	b = appendDeclStart(b, lang, "float", floatVarname)
	b = AppendFloat(b, '-', '.', v)
	b = append(b, ';', '\n')
	return b
}

// AppendIntDecl appends an int variable declaration in the argument language.
func AppendIntDecl(b []byte, lang Lang, intVarname string, v int) []byte {
	b = appendDeclStart(b, lang, "int", intVarname)
	b = strconv.AppendInt(b, int64(v), 10)
	b = append(b, ';', '\n')
	return b
}

// appendDeclStart appends "<type> name=" or "let name: <type> = ".
func appendDeclStart(b []byte, lang Lang, glslType, name string) []byte {
	if lang == LangWGSL {
		b = append(b, "let "...)
		b = append(b, name...)
		b = append(b, ": "...)
		b = append(b, wgslTypename(glslType)...)
		b = append(b, " = "...)
		return b
	}
	b = append(b, glslType...)
	b = append(b, ' ')
	b = append(b, name...)
	b = append(b, '=')
	return b
}

func appendTypeCtor(b []byte, lang Lang, glslType string) []byte {
	if lang == LangWGSL {
		b = append(b, wgslTypename(glslType)...)
	} else {
		b = append(b, glslType...)
	}
	return append(b, '(')
}

func wgslTypename(glslType string) string {
	switch glslType {
	case "float":
		return "f32"
	case "int":
		return "i32"
	case "uint":
		return "u32"
	case "vec2":
		return "vec2<f32>"
	case "vec3":
		return "vec3<f32>"
	case "vec4":
		return "vec4<f32>"
	}
	return glslType
}

const decimalDigits = 9

// AppendFloat appends a shader float literal. It always contains a decimal
// separator so that it is parsed as a float in GLSL and WGSL.
func AppendFloat(b []byte, neg, decimal byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, 32)
	idx := bytes.IndexByte(b[start:], '.')
	if decimal != '.' && idx >= 0 {
		b[start+idx] = decimal
	}
	if b[start] == '-' {
		b[start] = neg
	}
	// Finally trim zeroes, keeping one digit after the decimal.
	end := len(b)
	for i := len(b) - 1; idx >= 0 && i > idx+start+1 && b[i] == '0'; i-- {
		end--
	}
	return b[:end]
}

func AppendFloats(b []byte, sep, neg, decimal byte, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, neg, decimal, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
