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
	"bytes"
	"fmt"
	"strconv"
)

// Alignment is one optimal alignment.
type Alignment struct {
	A []byte // gapped sequence 1
	B []byte // gapped sequence 2

	// 1-based location of the alignment in the two sequences.
	// An empty alignment has Begin = End + 1.
	ABegin, AEnd int
	BBegin, BEnd int

	Score int // sum of the column scores, equal to the optimal score

	Ops []*CIGARRecord // merged operations, in order

	// stats
	AlignLen   int
	Matches    int
	Mismatches int
	Gaps       int
	GapRegions int
}

// CIGARRecord records the operation and the number.
type CIGARRecord struct {
	N  int
	Op byte
}

// newAlignment materializes a path ending with the step p.
// The matched symbols are copied into new slices.
func newAlignment(a, b []byte, p *step, gap byte, s *Scores) *Alignment {
	// the length of the path, and the terminus.
	var n int
	t := p
	for t.op != 0 {
		n++
		t = t.prev
	}

	aln := &Alignment{
		A:      make([]byte, n),
		B:      make([]byte, n),
		ABegin: int(t.i) + 1,
		AEnd:   int(p.i),
		BBegin: int(t.j) + 1,
		BEnd:   int(p.j),
	}

	// columns are filled from the end.
	ops := make([]byte, n)
	var x, i, j int
	for x = n - 1; p.op != 0; x, p = x-1, p.prev {
		i, j = int(p.i), int(p.j)
		ops[x] = p.op
		switch p.op {
		case 'M', 'X':
			aln.A[x] = a[i-1]
			aln.B[x] = b[j-1]
		case 'I':
			aln.A[x] = gap
			aln.B[x] = b[j-1]
		case 'D':
			aln.A[x] = a[i-1]
			aln.B[x] = gap
		}
	}

	aln.process(ops, s)
	return aln
}

// process merges the operations and counts matches and gaps.
func (aln *Alignment) process(ops []byte, s *Scores) {
	aln.AlignLen = len(ops)
	aln.Ops = make([]*CIGARRecord, 0, 8)

	var pre *CIGARRecord
	for _, op := range ops {
		switch op {
		case 'M':
			aln.Matches++
			aln.Score += s.Match
		case 'X':
			aln.Mismatches++
			aln.Score += s.Mismatch
		case 'I', 'D':
			aln.Gaps++
			aln.Score += s.Indel
		}

		if pre != nil && pre.Op == op {
			pre.N++
			continue
		}
		pre = &CIGARRecord{N: 1, Op: op}
		aln.Ops = append(aln.Ops, pre)
		if op == 'I' || op == 'D' {
			aln.GapRegions++
		}
	}
}

// CIGAR returns the CIGAR string, with M for matches, X for mismatches,
// I for gaps in sequence 1 and D for gaps in sequence 2.
func (aln *Alignment) CIGAR() string {
	var buf bytes.Buffer
	for _, op := range aln.Ops {
		buf.WriteString(strconv.Itoa(op.N))
		buf.WriteByte(op.Op)
	}
	return buf.String()
}

// MatchLine returns the line between the two aligned sequences,
// with '|' for matches and ' ' for the others.
func (aln *Alignment) MatchLine() []byte {
	m := make([]byte, 0, aln.AlignLen)
	for _, op := range aln.Ops {
		c := byte(' ')
		if op.Op == 'M' {
			c = '|'
		}
		m = append(m, bytes.Repeat([]byte{c}, op.N)...)
	}
	return m
}

// Ungapped returns the aligned regions of the two sequences, without gaps.
func (aln *Alignment) Ungapped(gap byte) ([]byte, []byte) {
	a := make([]byte, 0, len(aln.A))
	b := make([]byte, 0, len(aln.B))
	for x := range aln.A {
		if aln.A[x] != gap {
			a = append(a, aln.A[x])
		}
		if aln.B[x] != gap {
			b = append(b, aln.B[x])
		}
	}
	return a, b
}

// String returns the formated alignment text of the two sequences.
func (aln *Alignment) String() string {
	return fmt.Sprintf("%s\n%s\n%s", aln.A, aln.MatchLine(), aln.B)
}
