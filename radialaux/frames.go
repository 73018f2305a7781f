package radialaux

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/soypat/gradial"
)

// FramesConfig configures rendering of an animation as a PNG sequence.
type FramesConfig struct {
	RenderConfig
	// Frames is the amount of frames to render.
	Frames int
	// FPS is the frame rate used to advance the pulse animation time.
	FPS float32
	// Pattern is the file name format of each frame. Defaults to "frame_%04d.png".
	Pattern string
	// Selection, if set, returns the selected segment of each frame.
	Selection func(frame int) int
}

// RenderFrames renders the menu's pulse animation to dir starting at u.Time
// and returns the written file names.
func RenderFrames(dir string, menu gradial.Menu, u gradial.Uniforms, cfg FramesConfig) (files []string, err error) {
	if cfg.Frames <= 0 {
		return nil, errors.New("non-positive frame count")
	} else if cfg.FPS <= 0 {
		return nil, errors.New("non-positive frame rate")
	}
	err = cfg.validate()
	if err != nil {
		return nil, err
	}
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = "frame_%04d.png"
	}
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, err
	}
	r, err := newRasterizer(menu, cfg.RenderConfig)
	if err != nil {
		return nil, err
	}
	defer r.close()

	var w io.Writer = os.Stderr
	if cfg.Silent {
		w = io.Discard
	}
	bar := progressbar.NewOptions(cfg.Frames,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rendering frames"),
		progressbar.OptionShowCount(),
	)
	defer bar.Close()

	watch := stopwatch()
	t0 := u.Time
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for i := 0; i < cfg.Frames; i++ {
		u.Time = t0 + float32(i)/cfg.FPS
		if cfg.Selection != nil {
			u.Selected = int32(cfg.Selection(i))
		}
		err = u.Validate()
		if err != nil {
			return files, fmt.Errorf("frame %d: %w", i, err)
		}
		err = r.rasterize(img, &u)
		if err != nil {
			return files, fmt.Errorf("frame %d: %w", i, err)
		}
		filename := filepath.Join(dir, fmt.Sprintf(pattern, i))
		err = writePNG(filename, img)
		if err != nil {
			return files, err
		}
		files = append(files, filename)
		err = bar.Add(1)
		if err != nil {
			return files, err
		}
	}
	cfg.log("\nwrote", len(files), "frames to", dir, "in", watch())
	return files, nil
}
