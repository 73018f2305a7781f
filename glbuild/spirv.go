package glbuild

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// CompileSPIRV compiles a WGSL module to SPIR-V words ready to be handed to
// vkCreateShaderModule or any other SPIR-V consumer.
func CompileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compiling WGSL: %w", err)
	} else if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V output length %d not multiple of 4", len(spirvBytes))
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if len(code) == 0 || code[0] != spirvMagic {
		return nil, errors.New("SPIR-V output missing magic number")
	}
	return code, nil
}

// CompileShaderSPIRV generates the WGSL module for s and compiles it to SPIR-V.
// The WGSL source is returned alongside for diagnostics.
func (p *Programmer) CompileShaderSPIRV(s Shader) (code []uint32, wgsl []byte, err error) {
	var buf bytes.Buffer
	_, _, err = p.WriteWGSLModule(&buf, s)
	if err != nil {
		return nil, nil, err
	}
	code, err = CompileSPIRV(buf.String())
	return code, buf.Bytes(), err
}
