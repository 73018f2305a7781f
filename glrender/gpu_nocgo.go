//go:build tinygo || !cgo

package glrender

import (
	"errors"

	"github.com/soypat/gradial/glbuild"
)

// GPURenderer draws a [glbuild.Shader] into an offscreen framebuffer. Requires CGo.
type GPURenderer struct {
	Source string
}

// NewGPURenderer compiles s and allocates a width×height RGBA8 render target.
func NewGPURenderer(s glbuild.Shader, width, height int) (*GPURenderer, error) {
	return nil, errors.New("GPU rendering requires CGo and is not supported on TinyGo")
}

// Render uploads block as the uniform block, draws the quad and copies the covered pixels into dst.
func (gr *GPURenderer) Render(dst setImage, block any) error {
	return errors.New("GPU rendering requires CGo")
}

// Delete releases GPU resources.
func (gr *GPURenderer) Delete() {}
