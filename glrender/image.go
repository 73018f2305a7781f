package glrender

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial/gleval"
)

// ImageRenderer rasterizes an [gleval.Evaluator] onto images row by row.
type ImageRenderer struct {
	// FlipY maps the first image row to y=-1 instead of y=+1.
	FlipY bool
	pos   []ms2.Vec
	frags []gleval.Fragment
	// covered counts fragments written during the last render.
	covered int
}

// NewImageRenderer instances a new [ImageRenderer] which evaluates up to
// evalBufferSize fragments per call to the evaluator.
func NewImageRenderer(evalBufferSize int) (*ImageRenderer, error) {
	if evalBufferSize < 64 {
		return nil, errors.New("too small evaluation buffer size")
	}
	ir := &ImageRenderer{
		pos:   make([]ms2.Vec, evalBufferSize),
		frags: make([]gleval.Fragment, evalBufferSize),
	}
	return ir, nil
}

// Render shades every pixel center of img with eval. It uses userData as an
// argument to all [gleval.Evaluator.Evaluate] calls. Discarded fragments leave
// their pixel untouched.
func (ir *ImageRenderer) Render(eval gleval.Evaluator, img setImage, userData any) error {
	if eval == nil {
		return errors.New("nil evaluator")
	}
	imgBB := img.Bounds()
	dxi := imgBB.Dx()
	dyi := imgBB.Dy()
	if dxi == 0 || dyi == 0 {
		return errors.New("empty image")
	} else if len(ir.pos) < dxi {
		return fmt.Errorf("require evaluation buffer (%d) to be at least of length of image width (%d)", len(ir.pos), dxi)
	}
	ir.covered = 0
	rowsPerCall := len(ir.pos) / dxi
	for j := 0; j < dyi; j += rowsPerCall {
		rows := min(rowsPerCall, dyi-j)
		err := ir.renderRows(eval, j, rows, imgBB.Min.X, imgBB.Min.Y, dxi, dyi, img, userData)
		if err != nil {
			return err
		}
	}
	return nil
}

// Covered returns the amount of pixels written during the last call to Render.
func (ir *ImageRenderer) Covered() int { return ir.covered }

func (ir *ImageRenderer) renderRows(eval gleval.Evaluator, row, rows, x0, y0, w, h int, img setImage, userData any) error {
	n := rows * w
	pos := ir.pos[:n]
	frags := ir.frags[:n]
	for r := 0; r < rows; r++ {
		for i := 0; i < w; i++ {
			pos[r*w+i] = PixelNDC(i, row+r, w, h, ir.FlipY)
		}
	}
	err := eval.Evaluate(pos, frags, userData)
	if err != nil {
		return err
	}
	for k, f := range frags {
		if f.Discard {
			continue
		}
		img.Set(x0+k%w, y0+row+k/w, f.Color.RGBA8())
		ir.covered++
	}
	return nil
}
