// Package radialaux provides batteries-included helpers to get a radial menu
// on screen quickly: YAML configuration, PNG and animation rendering, shader
// file generation and an interactive overlay window.
// Applications with specific needs should build on the underlying packages instead.
package radialaux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"time"

	"github.com/soypat/gradial"
	"github.com/soypat/gradial/gleval"
	"github.com/soypat/gradial/glrender"
)

type RenderConfig struct {
	Width, Height int
	// UseGPU rasterizes with OpenGL. The calling goroutine must be locked to the main OS thread.
	UseGPU bool
	// FlipY renders with row 0 at y=-1. Only supported on CPU.
	FlipY bool
	// Background fills the image before drawing. Transparent if nil.
	Background color.Color
	// Labels are drawn on each segment. LabelSize is the font size in pixels.
	Labels    []string
	LabelSize float64
	Silent    bool
}

func (cfg *RenderConfig) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	} else if cfg.UseGPU && cfg.FlipY {
		return errors.New("FlipY not supported on GPU")
	} else if cfg.LabelSize < 0 {
		return errors.New("negative label size")
	}
	return nil
}

func (cfg *RenderConfig) log(args ...any) {
	if !cfg.Silent {
		fmt.Println(args...)
	}
}

// RenderImage renders the menu with uniforms u into a new image.
func RenderImage(menu gradial.Menu, u gradial.Uniforms, cfg RenderConfig) (*image.RGBA, error) {
	err := cfg.validate()
	if err != nil {
		return nil, err
	}
	err = u.Validate()
	if err != nil {
		return nil, err
	}
	r, err := newRasterizer(menu, cfg)
	if err != nil {
		return nil, err
	}
	defer r.close()
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	err = r.rasterize(img, &u)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// RenderPNGFile renders the menu with uniforms u and saves the result to a PNG file with said filename.
func RenderPNGFile(filename string, menu gradial.Menu, u gradial.Uniforms, cfg RenderConfig) error {
	watch := stopwatch()
	img, err := RenderImage(menu, u, cfg)
	if err != nil {
		return err
	}
	err = writePNG(filename, img)
	if err != nil {
		return err
	}
	cfg.log("wrote", filename, "in", watch())
	return nil
}

func writePNG(filename string, img image.Image) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return err
	}
	return fp.Sync()
}

// rasterizer draws complete frames: background, menu and labels.
type rasterizer struct {
	cfg    RenderConfig
	menu   gradial.Menu
	cpu    *glrender.ImageRenderer
	eval   gleval.Evaluator
	gpu    *glrender.GPURenderer
	labels *glrender.LabelDrawer
	term   func()
}

func newRasterizer(menu gradial.Menu, cfg RenderConfig) (r *rasterizer, err error) {
	r = &rasterizer{cfg: cfg, menu: menu}
	defer func() {
		if err != nil {
			r.close()
			r = nil
		}
	}()
	if cfg.UseGPU {
		cfg.log("using GPU")
		r.term, err = gleval.Init1x1GLFW()
		if err != nil {
			return r, err
		}
		r.gpu, err = glrender.NewGPURenderer(menu, cfg.Width, cfg.Height)
		if err != nil {
			return r, err
		}
	} else {
		cfg.log("using CPU")
		r.cpu, err = glrender.NewImageRenderer(max(4096, cfg.Width))
		if err != nil {
			return r, err
		}
		r.cpu.FlipY = cfg.FlipY
		r.eval = &gleval.ParallelEvaluator{Evaluator: menu, ChunkSize: 1024}
	}
	if len(cfg.Labels) > 0 {
		size := cfg.LabelSize
		if size == 0 {
			size = float64(min(cfg.Width, cfg.Height)) / 24
		}
		r.labels, err = glrender.NewLabelDrawer(nil, size)
		if err != nil {
			return r, err
		}
		r.labels.FlipY = cfg.FlipY
	}
	return r, nil
}

func (r *rasterizer) rasterize(img *image.RGBA, u *gradial.Uniforms) (err error) {
	bg := r.cfg.Background
	if bg == nil {
		bg = color.Transparent
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if r.gpu != nil {
		err = r.gpu.Render(img, u)
	} else {
		err = r.cpu.Render(r.eval, img, u)
	}
	if err != nil {
		return err
	}
	if r.labels != nil {
		err = r.labels.Draw(img, r.menu, u, r.cfg.Labels)
	}
	return err
}

func (r *rasterizer) close() {
	if r.labels != nil {
		r.labels.Close()
	}
	if r.gpu != nil {
		r.gpu.Delete()
	}
	if r.term != nil {
		r.term()
	}
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
