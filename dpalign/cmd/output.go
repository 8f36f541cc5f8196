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

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/dpalign"
	"github.com/twotwotwo/sorts"
)

// pairResult is the outcome of aligning a pair of sequences.
type pairResult struct {
	id     uint64 // index of the pair, for keeping the input order
	name1  string
	name2  string
	result *dpalign.Result

	count      uint64
	alignments []*dpalign.Alignment
	err        error // nil, or an error wrapping dpalign.ErrTruncated or context errors
}

// alignPair aligns a pair and enumerates its alignments unless countOnly is set.
// The matrix is recycled unless keepMatrix is true.
func alignPair(ctx context.Context, algn *dpalign.Aligner, a, b []byte,
	countOnly bool, keepMatrix bool) (*pairResult, error) {

	res, err := algn.Align(a, b)
	if err != nil {
		return nil, err
	}

	r := &pairResult{result: res, count: res.Count()}
	if !countOnly {
		r.alignments, r.err = res.Alignments(ctx)
		sortAlignments(r.alignments)
	}

	if !keepMatrix {
		dpalign.RecycleResult(res)
	}
	return r, nil
}

// isPartial tells if the error only means that the alignments are incomplete.
func isPartial(err error) bool {
	return errors.Is(err, dpalign.ErrTruncated) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// writeResult outputs a pair in a human readable format, e.g.,
//
//	>seq1 vs seq2
//	mode: local, score: 3, alignments: 3
//
//	#1 seq1: 3-5, seq2: 2-4, cigar: 3M, matches: 3, mismatches: 0, gaps: 0
//	TCG
//	|||
//	TCG
func writeResult(w io.Writer, r *pairResult, withMatrix bool) {
	res := r.result

	fmt.Fprintf(w, ">%s vs %s\n", r.name1, r.name2)
	fmt.Fprintf(w, "mode: %s, score: %d, alignments: %d\n", res.Mode, res.Score, r.count)

	if withMatrix && res.Matrix != nil {
		fmt.Fprintln(w)
		res.Matrix.Plot(w, res.A, res.B)
	}

	for i, aln := range r.alignments {
		fmt.Fprintf(w, "\n#%d %s: %d-%d, %s: %d-%d, cigar: %s, matches: %d, mismatches: %d, gaps: %d\n",
			i+1, r.name1, aln.ABegin, aln.AEnd, r.name2, aln.BBegin, aln.BEnd,
			aln.CIGAR(), aln.Matches, aln.Mismatches, aln.Gaps)
		fmt.Fprintf(w, "%s\n", aln)
	}

	if r.err != nil {
		fmt.Fprintf(w, "\n# incomplete: %d of %d alignments output\n", len(r.alignments), r.count)
	}
	fmt.Fprintln(w)
}

// alignmentSlice sorts alignments by the end and then begin positions,
// and finally the alignment texts.
type alignmentSlice []*dpalign.Alignment

func (s alignmentSlice) Len() int      { return len(s) }
func (s alignmentSlice) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s alignmentSlice) Less(i, j int) bool {
	a, b := s[i], s[j]
	if a.AEnd != b.AEnd {
		return a.AEnd < b.AEnd
	}
	if a.BEnd != b.BEnd {
		return a.BEnd < b.BEnd
	}
	if a.ABegin != b.ABegin {
		return a.ABegin < b.ABegin
	}
	if a.BBegin != b.BBegin {
		return a.BBegin < b.BBegin
	}
	if c := compareBytes(a.A, b.A); c != 0 {
		return c < 0
	}
	return compareBytes(a.B, b.B) < 0
}

func compareBytes(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func sortAlignments(alns []*dpalign.Alignment) {
	if len(alns) < 2 {
		return
	}
	sorts.Quicksort(alignmentSlice(alns))
}
