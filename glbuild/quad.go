package glbuild

import (
	"fmt"

	"github.com/soypat/geometry/ms2"
)

// QuadVertices are the six NDC positions of the two triangles that exactly
// cover the [-1,1]² square. Drawn as a triangle list with no vertex buffer.
var QuadVertices = [6]ms2.Vec{
	{X: -1, Y: -1},
	{X: 1, Y: -1},
	{X: -1, Y: 1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: 1, Y: 1},
}

// QuadVertex returns the clip-space position (z=0, w=1) of vertex idx of the
// full-screen quad and the coordinate passed to the fragment stage.
func QuadVertex(idx int) (clip [4]float32, coord ms2.Vec, err error) {
	if idx < 0 || idx >= len(QuadVertices) {
		return clip, coord, fmt.Errorf("quad vertex index %d out of range [0,6)", idx)
	}
	coord = QuadVertices[idx]
	clip = [4]float32{coord.X, coord.Y, 0, 1}
	return clip, coord, nil
}

// AppendVertexSource appends the full-screen quad vertex stage in lang.
// The interpolated coordinate is written to location 0.
func AppendVertexSource(b []byte, lang Lang) []byte {
	if lang == LangWGSL {
		b = append(b, `struct VertexOutput {
	@builtin(position) position: vec4<f32>,
	@location(0) coord: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
	var quad = array<vec2<f32>, 6>(`...)
		b = appendQuadElems(b, "vec2<f32>")
		b = append(b, `);
	let p = quad[idx];
	var output: VertexOutput;
	output.position = vec4<f32>(p, 0.0, 1.0);
	output.coord = p;
	return output;
}

`...)
		return b
	}
	b = appendVersion(b, lang)
	b = append(b, "layout(location = 0) out vec2 fragCoord;\n\nconst vec2 quad[6] = vec2[6]("...)
	b = appendQuadElems(b, "vec2")
	b = append(b, ");\n\nvoid main() {\n\tvec2 p = quad["...)
	if lang == LangGLSLOpenGL {
		b = append(b, "gl_VertexID"...)
	} else {
		b = append(b, "gl_VertexIndex"...)
	}
	b = append(b, "];\n\tfragCoord = p;\n\tgl_Position = vec4(p, 0.0, 1.0);\n}\n"...)
	return b
}

func appendQuadElems(b []byte, vecType string) []byte {
	for i, v := range QuadVertices {
		b = append(b, vecType...)
		b = append(b, '(')
		b = AppendFloats(b, ',', '-', '.', v.X, v.Y)
		b = append(b, ')')
		if i != len(QuadVertices)-1 {
			b = append(b, ", "...)
		}
	}
	return b
}
