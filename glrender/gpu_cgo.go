//go:build !tinygo && cgo

package glrender

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gradial/glbuild"
	"github.com/soypat/gradial/gleval"
)

// GPURenderer draws a [glbuild.Shader] over the full-screen quad into an
// offscreen framebuffer and reads the result back. A GL context must be
// current on the calling thread, see [gleval.Init1x1GLFW].
type GPURenderer struct {
	prog          glgl.Program
	ubo           *gleval.UniformBuffer
	binding       int
	vao, fbo, tex uint32
	width, height int
	pix           []byte
	// Source is the generated GLSL fragment program, kept for diagnostics.
	Source string
}

// NewGPURenderer compiles s and allocates a width×height RGBA8 render target.
func NewGPURenderer(s glbuild.Shader, width, height int) (*GPURenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid render target size")
	}
	programmer := glbuild.NewDefaultProgrammer()
	var vert, frag bytes.Buffer
	_, err := programmer.WriteVertex(&vert, glbuild.LangGLSLOpenGL)
	if err != nil {
		return nil, err
	}
	_, objs, err := programmer.WriteFragment(&frag, s, glbuild.LangGLSLOpenGL)
	if err != nil {
		return nil, err
	} else if len(objs) != 1 {
		return nil, fmt.Errorf("GPU renderer supports exactly one uniform block, got %d", len(objs))
	}
	gr := &GPURenderer{
		binding: objs[0].Binding,
		width:   width,
		height:  height,
		pix:     make([]byte, 4*width*height),
		Source:  frag.String(),
	}
	vert.WriteByte(0)
	frag.WriteByte(0)
	gr.prog, err = glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vert.String(),
		Fragment: frag.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s\n\n%w", gr.Source, err)
	}
	// Core profile requires a bound vertex array even with no attributes.
	gl.GenVertexArrays(1, &gr.vao)
	gl.GenTextures(1, &gr.tex)
	gl.BindTexture(gl.TEXTURE_2D, gr.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.GenFramebuffers(1, &gr.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, gr.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, gr.tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gr.Delete()
		return nil, fmt.Errorf("incomplete framebuffer status 0x%x", status)
	}
	if err = glgl.Err(); err != nil {
		gr.Delete()
		return nil, err
	}
	return gr, nil
}

// Render uploads block as the uniform block, draws the quad and copies the
// covered pixels into dst. Row 0 of dst is at y=+1 like [ImageRenderer].
// Discarded fragments leave dst untouched. dst must match the render target size.
func (gr *GPURenderer) Render(dst setImage, block any) (err error) {
	bb := dst.Bounds()
	if bb.Dx() != gr.width || bb.Dy() != gr.height {
		return fmt.Errorf("destination size %dx%d does not match render target %dx%d", bb.Dx(), bb.Dy(), gr.width, gr.height)
	}
	if gr.ubo == nil {
		gr.ubo, err = gleval.NewUniformBuffer(gr.binding, block)
	} else {
		err = gr.ubo.Upload(block)
	}
	if err != nil {
		return err
	}
	gr.prog.Bind()
	defer gr.prog.Unbind()
	gl.BindFramebuffer(gl.FRAMEBUFFER, gr.fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(gr.width), int32(gr.height))
	gl.Disable(gl.BLEND)
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(gr.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(gr.width), int32(gr.height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&gr.pix[0]))
	if err = glgl.Err(); err != nil {
		return err
	}
	// GL rows start at the bottom of the framebuffer (y=-1).
	stride := 4 * gr.width
	rgba, _ := dst.(*image.RGBA)
	for j := 0; j < gr.height; j++ {
		src := gr.pix[(gr.height-1-j)*stride:][:stride]
		for i := 0; i < gr.width; i++ {
			px := src[4*i : 4*i+4]
			if px[3] == 0 {
				continue // Discarded, the menu is always opaque.
			}
			if rgba != nil {
				copy(rgba.Pix[rgba.PixOffset(bb.Min.X+i, bb.Min.Y+j):], px)
				continue
			}
			dst.Set(bb.Min.X+i, bb.Min.Y+j, pixRGBA(px))
		}
	}
	return nil
}

// Delete releases GPU resources.
func (gr *GPURenderer) Delete() {
	if gr.ubo != nil {
		gr.ubo.Delete()
		gr.ubo = nil
	}
	if gr.fbo != 0 {
		gl.DeleteFramebuffers(1, &gr.fbo)
		gr.fbo = 0
	}
	if gr.tex != 0 {
		gl.DeleteTextures(1, &gr.tex)
		gr.tex = 0
	}
	if gr.vao != 0 {
		gl.DeleteVertexArrays(1, &gr.vao)
		gr.vao = 0
	}
	gr.prog.Delete()
}

func pixRGBA(px []byte) color.RGBA {
	return color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}
