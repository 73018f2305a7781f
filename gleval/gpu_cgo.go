//go:build !tinygo && cgo

package gleval

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gradial/glbuild"
)

// Init1x1GLFW starts a 1x1 sized GLFW so that user can start working with GPU.
// It returns a termination function that should be called when user is done running loads on GPU.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "gradial",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// UniformBuffer is a GL uniform buffer object holding a std140 block.
// A GL context must be current on the calling goroutine's thread.
type UniformBuffer struct {
	id      uint32
	binding uint32
	size    int
	data    []byte
}

// NewUniformBuffer creates a uniform buffer bound to binding and uploads block to it.
func NewUniformBuffer(binding int, block any) (*UniformBuffer, error) {
	if binding < 0 {
		return nil, errors.New("negative uniform buffer binding")
	}
	ub := &UniformBuffer{binding: uint32(binding)}
	gl.GenBuffers(1, &ub.id)
	if ub.id == 0 {
		return nil, glErrOrMessage("zero id for uniform buffer set by GL")
	}
	err := ub.Upload(block)
	if err != nil {
		ub.Delete()
		return nil, err
	}
	return ub, nil
}

// Upload packs block with std140 rules and writes it to the GPU buffer, binding it.
func (ub *UniformBuffer) Upload(block any) (err error) {
	ub.data, err = glbuild.AppendStd140(ub.data[:0], block)
	if err != nil {
		return err
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, ub.id)
	if len(ub.data) != ub.size {
		gl.BufferData(gl.UNIFORM_BUFFER, len(ub.data), unsafe.Pointer(&ub.data[0]), gl.DYNAMIC_DRAW)
		ub.size = len(ub.data)
	} else {
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(ub.data), unsafe.Pointer(&ub.data[0]))
	}
	gl.BindBufferBase(gl.UNIFORM_BUFFER, ub.binding, ub.id)
	return glgl.Err()
}

// Delete releases the GPU buffer.
func (ub *UniformBuffer) Delete() {
	if ub.id != 0 {
		gl.DeleteBuffers(1, &ub.id)
		ub.id = 0
	}
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
