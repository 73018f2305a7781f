//go:build tinygo || !cgo

package gleval

import "errors"

var errNoCGO = errors.New("GPU usage requires CGo and is not supported on TinyGo")

// Init1x1GLFW starts a 1x1 sized GLFW so that user can start working with GPU.
func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

// UniformBuffer is a GL uniform buffer object holding a std140 block.
type UniformBuffer struct{}

// NewUniformBuffer creates a uniform buffer bound to binding and uploads block to it.
func NewUniformBuffer(binding int, block any) (*UniformBuffer, error) {
	return nil, errNoCGO
}

// Upload packs block with std140 rules and writes it to the GPU buffer, binding it.
func (ub *UniformBuffer) Upload(block any) error { return errNoCGO }

// Delete releases the GPU buffer.
func (ub *UniformBuffer) Delete() {}
