// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package dpalign

import (
	"context"
	"sync"
)

// Aligner is the object for aligning,
// which can apply to multiple pairs of sequences, also concurrently,
// as it only holds the scores and options.
// And it's from a object pool, in case a large number of aligners are needed.
type Aligner struct {
	s *Scores
	o *Options

	equal func(a, b byte) bool
}

// object pool of aligners.
var poolAligner = &sync.Pool{New: func() interface{} {
	return &Aligner{}
}}

// RecycleAligner recycles an Aligner object.
func RecycleAligner(algn *Aligner) {
	if algn != nil {
		poolAligner.Put(algn)
	}
}

// New returns a new Aligner from the object pool.
// Nil scores or options are replaced by DefaultScores and DefaultOptions.
func New(s *Scores, o *Options) *Aligner {
	if s == nil {
		s = &DefaultScores
	}
	if o == nil {
		o = &DefaultOptions
	}
	if o.GapMarker == 0 {
		_o := *o
		_o.GapMarker = GapMarker
		o = &_o
	}

	algn := poolAligner.Get().(*Aligner)
	algn.s = s
	algn.o = o
	algn.equal = o.Equal
	if algn.equal == nil {
		algn.equal = equalBytes
	}
	return algn
}

// Scores returns the scoring scheme of the aligner.
func (algn *Aligner) Scores() Scores { return *algn.s }

// Options returns the options of the aligner.
func (algn *Aligner) Options() Options { return *algn.o }

// Result is the output of the score engine.
type Result struct {
	Mode   Mode
	Scores Scores

	A, B []byte // the input sequences, not copied

	Matrix *Matrix // the score and backtrack matrices

	Score  int    // the optimal score
	Starts []Cell // cells to backtrack from, in row-major order

	gap   byte
	limit int
	equal func(a, b byte) bool
}

// RecycleResult recycles a Result and its matrix.
func RecycleResult(r *Result) {
	if r != nil {
		RecycleMatrix(r.Matrix)
		r.Matrix = nil
	}
}

// Align fills the score and backtrack matrices of two sequences,
// and finds the optimal score and the cells to start backtracking from.
// Please remember to recycle the result after using by calling RecycleResult.
func (algn *Aligner) Align(a, b []byte) (*Result, error) {
	if err := validate(algn.s, algn.o, a, b); err != nil {
		return nil, err
	}

	local := algn.o.Mode == Local
	h := len(a) + 1 // height of the matrix
	w := len(b) + 1 // width of the matrix

	mtx := newMatrix(algn.o.Mode, h, w)
	scores := mtx.scores
	pointers := mtx.backtrack

	match := algn.s.Match
	mismatch := algn.s.Mismatch
	gap := algn.s.Indel
	equal := algn.equal

	var i, j, k int

	// ---------------------------------------------------
	// initialize

	// the topleft cell and all the borders in local mode are 0 and None,
	// as the matrix is zeroed.
	if !local {
		// the first column
		for i = 1; i < h; i++ {
			k = mtx.idx(i, 0)
			scores[k] = gap * i
			pointers[k] = Up
		}
		// the first row
		for j = 1; j < w; j++ {
			scores[j] = gap * j
			pointers[j] = Left
		}
	}

	// ---------------------------------------------------
	// compute

	var sDiag, sUp, sLeft, best int
	var p Direction
	for i = 1; i < h; i++ {
		for j = 1; j < w; j++ {
			k = mtx.idx(i, j)

			if equal(a[i-1], b[j-1]) {
				sDiag = scores[k-w-1] + match
			} else {
				sDiag = scores[k-w-1] + mismatch
			}
			sUp = scores[k-w] + gap
			sLeft = scores[k-1] + gap

			best = max(sDiag, sUp, sLeft)
			if local && best < 0 {
				// the alignment restarts here.
				scores[k] = 0
				pointers[k] = None
				continue
			}

			// all ties are kept.
			p = None
			if sDiag == best {
				p |= Diagonal
			}
			if sLeft == best {
				p |= Left
			}
			if sUp == best {
				p |= Up
			}
			scores[k] = best
			pointers[k] = p
		}
	}

	// ---------------------------------------------------
	// optimal score and start cells

	r := &Result{
		Mode:   algn.o.Mode,
		Scores: *algn.s,
		A:      a,
		B:      b,
		Matrix: mtx,
		gap:    algn.o.GapMarker,
		limit:  algn.o.MaxAlignments,
		equal:  equal,
	}

	if !local {
		r.Score = scores[len(scores)-1]
		r.Starts = []Cell{{h - 1, w - 1}}
		return r, nil
	}

	best = 0
	var n int
	for _, s := range scores {
		if s > best {
			best = s
			n = 1
		} else if s == best {
			n++
		}
	}
	r.Score = best
	r.Starts = make([]Cell, 0, n)
	for i = 0; i < h; i++ {
		for j = 0; j < w; j++ {
			if scores[mtx.idx(i, j)] == best {
				r.Starts = append(r.Starts, Cell{i, j})
			}
		}
	}

	return r, nil
}

// Count returns the number of optimal alignments, summed over all start cells.
// It saturates at math.MaxUint64.
func (r *Result) Count() uint64 {
	var n uint64
	for _, c := range r.Starts {
		n = addSat(n, r.Matrix.Count(c))
	}
	return n
}

// Alignments enumerates all optimal alignments from all start cells.
// If Options.MaxAlignments is reached, the enumerated ones are returned
// along with ErrTruncated.
func (r *Result) Alignments(ctx context.Context) ([]*Alignment, error) {
	return Enumerate(ctx, r.A, r.B, r.Matrix, r.Starts, &EnumerateOptions{
		GapMarker: r.gap,
		Scores:    r.Scores,
		Equal:     r.equal,
		Limit:     r.limit,
	})
}
