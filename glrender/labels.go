package glrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// LabelDrawer writes segment labels over a rendered menu image. Each label is
// centered on its segment's visible arc, midway between inner and outer radius.
type LabelDrawer struct {
	face font.Face
	// Color of the label text. Black if nil.
	Color color.Color
	// FlipY must match the renderer used to produce the image.
	FlipY bool
}

// NewLabelDrawer parses ttf (Go Regular if nil) and prepares a face of the
// given size in points at 72 DPI, which makes size equal to pixels.
func NewLabelDrawer(ttf []byte, size float64) (*LabelDrawer, error) {
	if size <= 0 {
		return nil, errors.New("non-positive label font size")
	}
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing label font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &LabelDrawer{face: face}, nil
}

// LabelPosition returns the NDC anchor of segment idx's label.
func LabelPosition(menu gradial.Menu, u *gradial.Uniforms, idx int) ms2.Vec {
	center := menu.Center(u)
	angle := gradial.SegmentMidAngle(idx, int(u.Segments), u.SegmentGap)
	r := (u.InnerRadius + u.Radius) / 2
	s, c := math32.Sincos(angle)
	return ms2.Vec{X: center.X + r*c, Y: center.Y + r*s}
}

// Draw draws labels[i] on segment i. Extra labels are an error, missing ones are skipped.
func (ld *LabelDrawer) Draw(dst draw.Image, menu gradial.Menu, u *gradial.Uniforms, labels []string) error {
	if len(labels) > int(u.Segments) {
		return fmt.Errorf("%d labels for %d segments", len(labels), u.Segments)
	}
	col := ld.Color
	if col == nil {
		col = color.Black
	}
	bb := dst.Bounds()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: ld.face,
	}
	ascent := ld.face.Metrics().Ascent
	for i, label := range labels {
		if label == "" {
			continue
		}
		x, y := NDCPixel(LabelPosition(menu, u, i), bb.Dx(), bb.Dy(), ld.FlipY)
		width := d.MeasureString(label)
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(x*64) - width/2 + fixed.I(bb.Min.X),
			Y: fixed.Int26_6(y*64) + ascent/2 + fixed.I(bb.Min.Y),
		}
		d.DrawString(label)
	}
	return nil
}

// Close releases the font face.
func (ld *LabelDrawer) Close() error {
	return ld.face.Close()
}
