package gleval_test

import (
	"errors"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gradial/gleval"
)

// xEvaluator colors fragments by their X coordinate and discards negative X.
type xEvaluator struct {
	calls atomic.Int32
	fail  bool
}

func (e *xEvaluator) Evaluate(pos []ms2.Vec, frags []gleval.Fragment, userData any) error {
	e.calls.Add(1)
	if e.fail {
		return errors.New("evaluation failed")
	}
	for i, p := range pos {
		frags[i] = gleval.Fragment{Color: gleval.Color{R: p.X, A: 1}, Discard: p.X < 0}
	}
	return nil
}

func TestParallelEvaluator(t *testing.T) {
	const n = 1000
	pos := make([]ms2.Vec, n)
	for i := range pos {
		pos[i] = ms2.Vec{X: float32(i-n/2) / n}
	}
	frags := make([]gleval.Fragment, n)
	base := &xEvaluator{}
	pe := gleval.ParallelEvaluator{Evaluator: base, Workers: 4, ChunkSize: 64}
	err := pe.Evaluate(pos, frags, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := base.calls.Load(); got != (n+63)/64 {
		t.Errorf("want %d chunk calls, got %d", (n+63)/64, got)
	}
	for i, f := range frags {
		if f.Discard != (pos[i].X < 0) || f.Color.R != pos[i].X {
			t.Fatalf("fragment %d evaluated incorrectly: %+v", i, f)
		}
	}
	if pe.Evaluations() != n {
		t.Errorf("want %d evaluations, got %d", n, pe.Evaluations())
	}
}

func TestParallelEvaluatorErrors(t *testing.T) {
	pe := gleval.ParallelEvaluator{Evaluator: &xEvaluator{fail: true}, ChunkSize: 2}
	pos := make([]ms2.Vec, 10)
	frags := make([]gleval.Fragment, 10)
	if err := pe.Evaluate(pos, frags, nil); err == nil {
		t.Error("expected evaluation error")
	}
	if pe.Evaluations() != 0 {
		t.Error("failed evaluations must not be counted")
	}
	if err := pe.Evaluate(pos, frags[:5], nil); err == nil {
		t.Error("expected length mismatch error")
	}
	if err := pe.Evaluate(nil, nil, nil); err == nil {
		t.Error("expected empty buffer error")
	}
	var nilEval gleval.ParallelEvaluator
	if err := nilEval.Evaluate(pos, frags, nil); err == nil {
		t.Error("expected nil evaluator error")
	}
}

func TestColorRGBA8(t *testing.T) {
	c := gleval.Color{R: 1, G: 0.5, B: -1, A: 2}.RGBA8()
	want := color.RGBA{R: 255, G: 128, B: 0, A: 255}
	if c != want {
		t.Errorf("want %v, got %v", want, c)
	}
}
