package radialaux

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soypat/gradial/glbuild"
)

// Shader file names written by [WriteShaders].
const (
	VertexFile   = "radial.vert"
	FragmentFile = "radial.frag"
	WGSLFile     = "radial.wgsl"
	SPIRVFile    = "radial.spv"
)

// WriteShaders writes the Vulkan GLSL stages of s, the equivalent WGSL module
// and its SPIR-V compilation to dir. The GLSL files are ready for glslc.
// It returns the written file names; if the WGSL compiler fails the GLSL and WGSL files are still written.
func WriteShaders(dir string, s glbuild.Shader) (files []string, err error) {
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, err
	}
	prog := glbuild.NewDefaultProgrammer()
	var buf bytes.Buffer
	write := func(name string) error {
		filename := filepath.Join(dir, name)
		err := os.WriteFile(filename, buf.Bytes(), 0o644)
		if err != nil {
			return err
		}
		files = append(files, filename)
		buf.Reset()
		return nil
	}

	_, err = prog.WriteVertex(&buf, glbuild.LangGLSLVulkan)
	if err == nil {
		err = write(VertexFile)
	}
	if err != nil {
		return files, err
	}
	_, _, err = prog.WriteFragment(&buf, s, glbuild.LangGLSLVulkan)
	if err == nil {
		err = write(FragmentFile)
	}
	if err != nil {
		return files, err
	}

	code, wgsl, err := prog.CompileShaderSPIRV(s)
	if wgsl != nil {
		buf.Write(wgsl)
		if werr := write(WGSLFile); werr != nil {
			return files, werr
		}
	}
	if err != nil {
		return files, fmt.Errorf("compiling SPIR-V: %w", err)
	}
	buf.Grow(4 * len(code))
	for _, word := range code {
		buf.Write(binary.LittleEndian.AppendUint32(nil, word))
	}
	err = write(SPIRVFile)
	return files, err
}
