//go:build !tinygo && cgo

package glrender_test

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial"
	"github.com/soypat/gradial/gleval"
	"github.com/soypat/gradial/glrender"
)

var errGPU error

// GL contexts are bound to the main thread so GPU tests run before m.Run.
func TestMain(m *testing.M) {
	runtime.LockOSThread()
	term, err := gleval.Init1x1GLFW()
	if err != nil {
		log.Println("skipping GPU tests:", err)
		runtime.UnlockOSThread()
		os.Exit(m.Run())
	}
	errGPU = testGPURenderer()
	term()
	runtime.UnlockOSThread()
	os.Exit(m.Run())
}

func TestGPURenderer(t *testing.T) {
	if errGPU != nil {
		t.Fatal(errGPU)
	}
}

func testGPURenderer() error {
	const w, h = 96, 64
	// Pixels on segment edges may round differently on GPU.
	const maxMismatchRatio = 0.03
	u := gradial.DefaultUniforms()
	u.Radius = 0.8
	u.InnerRadius = 0.2
	u.Selected = 1
	u.Time = 0.3
	u.Mouse = ms2.Vec{X: -0.1, Y: 0.25}
	for _, mode := range []gradial.Mode{gradial.StaticRing(), gradial.CPUSelected(), gradial.GPUHover(), gradial.PointerWheel()} {
		menu := gradial.Menu{Mode: mode}
		gr, err := glrender.NewGPURenderer(menu, w, h)
		if err != nil {
			return err
		}
		gpuImg := newBackground(w, h)
		err = gr.Render(gpuImg, &u)
		gr.Delete()
		if err != nil {
			return err
		}
		cpuImg := newBackground(w, h)
		ir, _ := glrender.NewImageRenderer(w * 4)
		err = ir.Render(menu, cpuImg, &u)
		if err != nil {
			return err
		}
		mismatch := 0
		for j := 0; j < h; j++ {
			for i := 0; i < w; i++ {
				a, b := gpuImg.RGBAAt(i, j), cpuImg.RGBAAt(i, j)
				if absdiff(a.R, b.R) > 2 || absdiff(a.G, b.G) > 2 || absdiff(a.B, b.B) > 2 || a.A != b.A {
					mismatch++
				}
			}
		}
		if float32(mismatch) > maxMismatchRatio*w*h {
			return fmt.Errorf("mode %+v: %d of %d pixels differ between GPU and CPU", mode, mismatch, w*h)
		}
	}
	return nil
}

func absdiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
