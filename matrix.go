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
	"fmt"
	"io"
	"math"
	"math/bits"
	"sync"
)

// Direction is a set of backtrack flags, each marking a predecessor
// that attains the optimal score of a cell.
// An empty set marks a terminal cell.
type Direction uint8

const (
	// Diagonal: a substitution, one symbol from each sequence.
	Diagonal Direction = 1 << iota
	// Left: a gap in sequence 1.
	Left
	// Up: a gap in sequence 2.
	Up
)

// None is the empty Direction set.
const None Direction = 0

// Has tells whether all flags in f are set.
func (d Direction) Has(f Direction) bool {
	return f != None && d&f == f
}

// for visualization, in the order of Diagonal, Left, Up.
var directionArrows = [3]string{"↖", "←", "↑"}

func (d Direction) String() string {
	if d == None {
		return "·"
	}
	var s string
	for i, f := range [3]Direction{Diagonal, Left, Up} {
		if d.Has(f) {
			s += directionArrows[i]
		}
	}
	return s
}

// Cell is a position in the DP matrices.
// I indexes sequence 1 (rows), J indexes sequence 2 (columns),
// and 0 means "before the first symbol".
type Cell struct {
	I, J int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.I, c.J)
}

// Matrix holds the score matrix and the backtrack matrix
// of one alignment, both stored row by row in flat slices.
// A Matrix is read-only after Aligner.Align returns.
type Matrix struct {
	Mode Mode
	Rows int // len(sequence 1) + 1
	Cols int // len(sequence 2) + 1

	scores    []int
	backtrack []Direction

	// number of alignments ending at each cell, computed once on demand.
	countOnce sync.Once
	counts    []uint64
}

var poolMatrix = &sync.Pool{New: func() interface{} {
	return &Matrix{
		scores:    make([]int, 0, 1024),
		backtrack: make([]Direction, 0, 1024),
	}
}}

// newMatrix returns a zeroed matrix from the object pool.
func newMatrix(mode Mode, rows, cols int) *Matrix {
	mtx := poolMatrix.Get().(*Matrix)
	mtx.Mode = mode
	mtx.Rows = rows
	mtx.Cols = cols

	n := rows * cols
	if cap(mtx.scores) < n {
		mtx.scores = make([]int, n)
		mtx.backtrack = make([]Direction, n)
	} else {
		mtx.scores = mtx.scores[:n]
		mtx.backtrack = mtx.backtrack[:n]
		clear(mtx.scores)
		clear(mtx.backtrack)
	}

	mtx.countOnce = sync.Once{}
	mtx.counts = mtx.counts[:0]
	return mtx
}

// RecycleMatrix recycles a Matrix. It must not be used afterwards.
func RecycleMatrix(mtx *Matrix) {
	if mtx != nil {
		poolMatrix.Put(mtx)
	}
}

func (mtx *Matrix) idx(i, j int) int {
	return i*mtx.Cols + j
}

// Score returns the score of cell (i, j).
func (mtx *Matrix) Score(i, j int) int {
	return mtx.scores[mtx.idx(i, j)]
}

// Backtrack returns the backtrack flags of cell (i, j).
func (mtx *Matrix) Backtrack(i, j int) Direction {
	return mtx.backtrack[mtx.idx(i, j)]
}

// Count returns the number of optimal paths from cell c back to a terminus.
// It saturates at math.MaxUint64.
func (mtx *Matrix) Count(c Cell) uint64 {
	mtx.countOnce.Do(mtx.computeCounts)
	return mtx.counts[mtx.idx(c.I, c.J)]
}

// computeCounts fills the count table in row-major order,
// where all predecessors of a cell are already computed.
func (mtx *Matrix) computeCounts() {
	n := mtx.Rows * mtx.Cols
	if cap(mtx.counts) < n {
		mtx.counts = make([]uint64, n)
	} else {
		mtx.counts = mtx.counts[:n]
		clear(mtx.counts)
	}

	local := mtx.Mode == Local
	counts := mtx.counts
	var i, j, k int
	var c uint64
	var d Direction
	for i = 0; i < mtx.Rows; i++ {
		for j = 0; j < mtx.Cols; j++ {
			k = mtx.idx(i, j)
			if i == 0 && j == 0 {
				counts[k] = 1
				continue
			}

			c = 0
			if local && mtx.scores[k] == 0 { // an alignment may start here
				c = 1
			}
			d = mtx.backtrack[k]
			if d.Has(Diagonal) {
				c = addSat(c, counts[mtx.idx(i-1, j-1)])
			}
			if d.Has(Left) {
				c = addSat(c, counts[mtx.idx(i, j-1)])
			}
			if d.Has(Up) {
				c = addSat(c, counts[mtx.idx(i-1, j)])
			}
			counts[k] = c
		}
	}
}

func addSat(a, b uint64) uint64 {
	s, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return s
}

// Plot writes the matrices as a tab-delimited text table.
//
// A table cell contains the backtrack symbols and the score.
// Symbols:
//
//	↖    Diagonal, match or mismatch
//	←    Left, gap in sequence 1
//	↑    Up, gap in sequence 2
//	·    None, start of an alignment
func (mtx *Matrix) Plot(wtr io.Writer, a, b []byte) {
	// sequence b
	fmt.Fprintf(wtr, " \t")
	for _, c := range b {
		fmt.Fprintf(wtr, "\t%c", c)
	}
	fmt.Fprintln(wtr)

	var k int
	for i := 0; i < mtx.Rows; i++ {
		if i == 0 {
			fmt.Fprintf(wtr, " ")
		} else {
			fmt.Fprintf(wtr, "%c", a[i-1]) // a base in seq a
		}
		for j := 0; j < mtx.Cols; j++ { // a row of the matrix
			k = mtx.idx(i, j)
			fmt.Fprintf(wtr, "\t%s%d", mtx.backtrack[k], mtx.scores[k])
		}
		fmt.Fprintln(wtr)
	}
}
