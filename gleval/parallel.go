package gleval

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/soypat/geometry/ms2"
	"golang.org/x/sync/errgroup"
)

const defaultChunkSize = 4096

// ParallelEvaluator splits large batches into chunks evaluated concurrently
// by the underlying [Evaluator]. The underlying evaluator must be safe for
// concurrent use on disjoint buffers and must treat userData as read-only.
type ParallelEvaluator struct {
	Evaluator Evaluator
	// Workers limits the goroutines running at once. Zero uses GOMAXPROCS.
	Workers int
	// ChunkSize is the amount of fragments each goroutine evaluates per call. Zero picks a reasonable value.
	ChunkSize int
	evals     atomic.Uint64
}

// Evaluate implements [Evaluator].
func (pe *ParallelEvaluator) Evaluate(pos []ms2.Vec, frags []Fragment, userData any) error {
	err := CheckBuffers(pos, frags)
	if err != nil {
		return err
	} else if pe.Evaluator == nil {
		return errors.New("nil Evaluator in ParallelEvaluator")
	}
	workers := pe.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := pe.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	if len(pos) <= chunk || workers == 1 {
		err = pe.Evaluator.Evaluate(pos, frags, userData)
		if err == nil {
			pe.evals.Add(uint64(len(pos)))
		}
		return err
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(pos); start += chunk {
		end := min(start+chunk, len(pos))
		g.Go(func() error {
			return pe.Evaluator.Evaluate(pos[start:end], frags[start:end], userData)
		})
	}
	err = g.Wait()
	if err != nil {
		return err
	}
	pe.evals.Add(uint64(len(pos)))
	return nil
}

// Evaluations returns total fragments evaluated successfully during the evaluator's lifetime.
func (pe *ParallelEvaluator) Evaluations() uint64 {
	return pe.evals.Load()
}
