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

	"github.com/pkg/errors"
)

// EnumerateOptions contains the options of Enumerate.
type EnumerateOptions struct {
	GapMarker byte                 // '-' if zero
	Scores    Scores               // only for computing scores of alignments
	Equal     func(a, b byte) bool // nil means byte equality
	// Limit is the maximum number of alignments, 0 for no limit.
	// Partial alignments through every visited cell are kept until
	// Enumerate returns, so with no limit the memory grows with the sum
	// of the path counts of all visited cells, not only the number of
	// alignments returned.
	Limit int
}

// step is one column of a partial alignment, ending at cell (i, j).
// Steps are immutable and shared by all partial alignments through the
// same cell, a path is read by following prev back to the terminus,
// whose op is 0.
type step struct {
	prev *step
	op   byte // 'M', 'X', 'I', 'D', or 0 for the terminus
	i, j int32
}

// how often the context is checked, in units of work:
// visited cells, extended steps and materialized alignments.
const ctxCheckInterval = 1 << 10

type enumerator struct {
	ctx   context.Context
	a, b  []byte
	mtx   *Matrix
	local bool
	equal func(a, b byte) bool
	limit int

	// partial alignments ending at each cell, computed once.
	paths [][]*step
	done  []bool

	work      int
	truncated bool
}

// check counts a unit of work and checks the context periodically.
func (e *enumerator) check() error {
	e.work++
	if e.work&(ctxCheckInterval-1) == 0 {
		return e.ctx.Err()
	}
	return nil
}

// Enumerate reconstructs every optimal alignment from the given start cells.
// Start cells are visited in the given order, and from each cell the local
// terminus comes first, followed by the Diagonal, Left and Up branches.
//
// If opt.Limit is reached, the alignments enumerated so far are returned
// along with ErrTruncated. A cancelled ctx stops the enumeration with ctx.Err(),
// which is checked periodically, and the alignments materialized so far are
// returned with it.
func Enumerate(ctx context.Context, a, b []byte, mtx *Matrix, starts []Cell, opt *EnumerateOptions) ([]*Alignment, error) {
	if opt == nil {
		opt = &EnumerateOptions{Scores: DefaultScores}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	equal := opt.Equal
	if equal == nil {
		equal = equalBytes
	}
	gap := opt.GapMarker
	if gap == 0 {
		gap = GapMarker
	}

	n := mtx.Rows * mtx.Cols
	e := &enumerator{
		ctx:   ctx,
		a:     a,
		b:     b,
		mtx:   mtx,
		local: mtx.Mode == Local,
		equal: equal,
		limit: opt.Limit,
		paths: make([][]*step, n),
		done:  make([]bool, n),
	}

	alignments := make([]*Alignment, 0, len(starts))
	if err := ctx.Err(); err != nil {
		return alignments, errors.Wrap(err, "enumerating alignments")
	}

	var paths []*step
	var err error
	for _, c := range starts {
		paths, err = e.from(c.I, c.J)
		if err != nil {
			return alignments, errors.Wrapf(err, "enumerating alignments from %s", c)
		}
		for _, p := range paths {
			if e.limit > 0 && len(alignments) >= e.limit {
				e.truncated = true
				break
			}
			if err = e.check(); err != nil {
				return alignments, errors.Wrapf(err, "materializing alignments from %s", c)
			}
			alignments = append(alignments, newAlignment(a, b, p, gap, &opt.Scores))
		}
		if e.truncated {
			break
		}
	}

	if e.truncated {
		return alignments, ErrTruncated
	}
	return alignments, nil
}

// from returns all partial alignments ending at (i, j).
// Lists are capped at the limit, as each partial alignment
// extends to at least one distinct full alignment.
func (e *enumerator) from(i, j int) ([]*step, error) {
	mtx := e.mtx
	k := mtx.idx(i, j)
	if e.done[k] {
		return e.paths[k], nil
	}

	if err := e.check(); err != nil {
		return nil, err
	}

	var paths []*step
	if i == 0 && j == 0 {
		paths = []*step{{i: 0, j: 0}}
		e.paths[k], e.done[k] = paths, true
		return paths, nil
	}

	if e.local && mtx.scores[k] == 0 {
		paths = append(paths, &step{i: int32(i), j: int32(j)})
	}

	d := mtx.backtrack[k]
	var err error
	if d.Has(Diagonal) {
		op := byte('X')
		if e.equal(e.a[i-1], e.b[j-1]) {
			op = 'M'
		}
		if paths, err = e.extend(paths, i-1, j-1, i, j, op); err != nil {
			return nil, err
		}
	}
	if d.Has(Left) {
		if paths, err = e.extend(paths, i, j-1, i, j, 'I'); err != nil {
			return nil, err
		}
	}
	if d.Has(Up) {
		if paths, err = e.extend(paths, i-1, j, i, j, 'D'); err != nil {
			return nil, err
		}
	}

	e.paths[k], e.done[k] = paths, true
	return paths, nil
}

// extend appends to paths every partial alignment ending at (pi, pj),
// each extended with a new step to (i, j).
func (e *enumerator) extend(paths []*step, pi, pj, i, j int, op byte) ([]*step, error) {
	prevs, err := e.from(pi, pj)
	if err != nil {
		return nil, err
	}
	for _, p := range prevs {
		if e.limit > 0 && len(paths) >= e.limit {
			e.truncated = true
			break
		}
		if err = e.check(); err != nil {
			return nil, err
		}
		paths = append(paths, &step{prev: p, op: op, i: int32(i), j: int32(j)})
	}
	return paths, nil
}
