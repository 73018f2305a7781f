package glbuild

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// FieldLayout is the placement of one struct field inside a std140 uniform block.
type FieldLayout struct {
	// Name is the field name inside the shader, taken from the `glsl` struct tag.
	Name     string
	GLSLType string
	WGSLType string
	// Offset in bytes from the start of the block.
	Offset int
	// Size in bytes of the field data, excluding padding.
	Size  int
	index int
	kind  fieldKind
}

// BlockLayout is the std140 memory layout of a uniform block.
type BlockLayout struct {
	Fields []FieldLayout
	// Size is the size of the block in bytes, rounded up to 16 as std140 mandates.
	Size int
}

type fieldKind uint8

const (
	kindFloat fieldKind = iota
	kindInt
	kindUint
	kindVec2
	kindVec3
	kindVec4
)

// Std140Layout computes the std140 layout of struct type tp. Scalars are 4 bytes
// aligned to 4, vec2 is aligned to 8, vec3 and vec4 are aligned to 16. The same
// layout is valid for a WGSL uniform address space struct with these member types.
// Every exported field must carry a `glsl:"name"` tag.
func Std140Layout(tp reflect.Type) (BlockLayout, error) {
	if tp == nil {
		return BlockLayout{}, errors.New("nil element type")
	} else if tp.Kind() != reflect.Struct {
		return BlockLayout{}, fmt.Errorf("uniform block element must be struct, got %s", tp.String())
	}
	var bl BlockLayout
	offset := 0
	for i := 0; i < tp.NumField(); i++ {
		sf := tp.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("glsl")
		if name == "" {
			return BlockLayout{}, fmt.Errorf("field %s.%s missing glsl tag", tp.Name(), sf.Name)
		}
		glslType, wgslType, align, size, kind, err := glTypename(sf.Type)
		if err != nil {
			return BlockLayout{}, fmt.Errorf("field %s.%s: %w", tp.Name(), sf.Name, err)
		}
		offset = alignUp(offset, align)
		bl.Fields = append(bl.Fields, FieldLayout{
			Name:     name,
			GLSLType: glslType,
			WGSLType: wgslType,
			Offset:   offset,
			Size:     size,
			index:    i,
			kind:     kind,
		})
		offset += size
	}
	if len(bl.Fields) == 0 {
		return BlockLayout{}, fmt.Errorf("uniform block %s has no exported fields", tp.String())
	}
	bl.Size = alignUp(offset, 16)
	return bl, nil
}

// AppendStd140 appends the std140 byte representation of the struct v (or pointer to struct)
// to dst in little endian byte order. Padding bytes are zero.
func AppendStd140(dst []byte, v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return dst, errors.New("nil uniform block pointer")
		}
		rv = rv.Elem()
	}
	layout, err := Std140Layout(rv.Type())
	if err != nil {
		return dst, err
	}
	start := len(dst)
	for _, f := range layout.Fields {
		for len(dst)-start < f.Offset {
			dst = append(dst, 0)
		}
		fv := rv.Field(f.index)
		switch f.kind {
		case kindFloat:
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(fv.Float())))
		case kindInt:
			dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(fv.Int())))
		case kindUint:
			dst = binary.LittleEndian.AppendUint32(dst, uint32(fv.Uint()))
		case kindVec2:
			vec := fv.Interface().(ms2.Vec)
			dst = appendFloat32s(dst, vec.X, vec.Y)
		case kindVec3:
			vec := fv.Interface().(ms3.Vec)
			dst = appendFloat32s(dst, vec.X, vec.Y, vec.Z)
		case kindVec4:
			vec := fv.Interface().([4]float32)
			dst = appendFloat32s(dst, vec[:]...)
		}
	}
	for len(dst)-start < layout.Size {
		dst = append(dst, 0)
	}
	return dst, nil
}

func appendFloat32s(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

func glTypename(tp reflect.Type) (glslType, wgslType string, align, size int, kind fieldKind, err error) {
	switch tp {
	case reflect.TypeOf(float32(0)):
		return "float", "f32", 4, 4, kindFloat, nil
	case reflect.TypeOf(int32(0)):
		return "int", "i32", 4, 4, kindInt, nil
	case reflect.TypeOf(uint32(0)):
		return "uint", "u32", 4, 4, kindUint, nil
	case reflect.TypeOf(ms2.Vec{}):
		return "vec2", "vec2<f32>", 8, 8, kindVec2, nil
	case reflect.TypeOf(ms3.Vec{}):
		return "vec3", "vec3<f32>", 16, 12, kindVec3, nil
	case reflect.TypeOf([4]float32{}):
		return "vec4", "vec4<f32>", 16, 16, kindVec4, nil
	case nil:
		err = errors.New("nil element type")
	default:
		err = fmt.Errorf("equivalent type not implemented for %s", tp.String())
	}
	return "", "", 0, 0, 0, err
}

func alignUp(v, alignto int) int {
	return (v + alignto - 1) &^ (alignto - 1)
}
