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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shenwei356/dpalign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResult(t *testing.T) {
	algn := dpalign.New(nil, &dpalign.Options{Mode: dpalign.Local})
	defer dpalign.RecycleAligner(algn)

	r, err := alignPair(context.Background(), algn, []byte("ATTCG"), []byte("ATCG"), false, false)
	require.NoError(t, err)
	require.NoError(t, r.err)
	assert.Nil(t, r.result.Matrix)
	r.name1, r.name2 = "seq1", "seq2"

	var buf bytes.Buffer
	writeResult(&buf, r, false)

	want := `>seq1 vs seq2
mode: local, score: 3, alignments: 3

#1 seq1: 1-5, seq2: 1-4, cigar: 1M1D3M, matches: 4, mismatches: 0, gaps: 1
ATTCG
| |||
A-TCG

#2 seq1: 1-5, seq2: 1-4, cigar: 2M1D2M, matches: 4, mismatches: 0, gaps: 1
ATTCG
|| ||
AT-CG

#3 seq1: 3-5, seq2: 2-4, cigar: 3M, matches: 3, mismatches: 0, gaps: 0
TCG
|||
TCG

`
	assert.Equal(t, want, buf.String())
}

func TestWriteResultTruncated(t *testing.T) {
	algn := dpalign.New(nil, &dpalign.Options{MaxAlignments: 2})
	defer dpalign.RecycleAligner(algn)

	r, err := alignPair(context.Background(), algn, []byte("GATTACA"), []byte("GCATGCT"), false, true)
	require.NoError(t, err)
	assert.True(t, isPartial(r.err))
	assert.Len(t, r.alignments, 2)
	assert.Equal(t, uint64(3), r.count)
	require.NotNil(t, r.result.Matrix)
	r.name1, r.name2 = "a", "b"

	var buf bytes.Buffer
	writeResult(&buf, r, true)
	dpalign.RecycleResult(r.result)

	out := buf.String()
	assert.Contains(t, out, "mode: global, score: 0, alignments: 3\n")
	assert.Contains(t, out, " \t\tG\tC\tA\tT\tG\tC\tT\n")
	assert.Contains(t, out, "# incomplete: 2 of 3 alignments output\n")
}

func TestCountOnly(t *testing.T) {
	algn := dpalign.New(nil, nil)
	defer dpalign.RecycleAligner(algn)

	r, err := alignPair(context.Background(), algn, []byte("GATTACA"), []byte("GCATGCT"), true, false)
	require.NoError(t, err)
	assert.Empty(t, r.alignments)
	assert.Equal(t, uint64(3), r.count)
	r.name1, r.name2 = "a", "b"

	var buf bytes.Buffer
	writeResult(&buf, r, false)
	assert.Equal(t, ">a vs b\nmode: global, score: 0, alignments: 3\n\n", buf.String())
}

func TestPartialTimeout(t *testing.T) {
	algn := dpalign.New(&dpalign.Scores{}, nil)
	defer dpalign.RecycleAligner(algn)

	// the deadline passes in the middle of the enumeration
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	seq := bytes.Repeat([]byte("A"), 10)
	r, err := alignPair(ctx, algn, seq, seq, false, false)
	require.NoError(t, err)
	assert.Error(t, r.err)
	assert.True(t, isPartial(r.err))
	assert.Less(t, uint64(len(r.alignments)), r.count)
}

func TestSortAlignments(t *testing.T) {
	alns := []*dpalign.Alignment{
		{A: []byte("TCG"), B: []byte("TCG"), ABegin: 3, AEnd: 5, BBegin: 2, BEnd: 4},
		{A: []byte("ATTCG"), B: []byte("AT-CG"), ABegin: 1, AEnd: 5, BBegin: 1, BEnd: 4},
		{A: []byte("AT"), B: []byte("AT"), ABegin: 1, AEnd: 2, BBegin: 1, BEnd: 2},
		{A: []byte("ATTCG"), B: []byte("A-TCG"), ABegin: 1, AEnd: 5, BBegin: 1, BEnd: 4},
		{A: []byte("G"), B: []byte("G"), ABegin: 5, AEnd: 5, BBegin: 3, BEnd: 3},
	}
	sortAlignments(alns)

	got := make([]string, len(alns))
	for i, aln := range alns {
		got[i] = string(aln.A) + "/" + string(aln.B)
	}
	assert.Equal(t, []string{"AT/AT", "G/G", "ATTCG/A-TCG", "ATTCG/AT-CG", "TCG/TCG"}, got)
}

func TestCompareBytes(t *testing.T) {
	assert.Equal(t, 0, compareBytes([]byte("ACG"), []byte("ACG")))
	assert.Negative(t, compareBytes([]byte("A-G"), []byte("ACG")))
	assert.Positive(t, compareBytes([]byte("ACGT"), []byte("ACG")))
	assert.Negative(t, compareBytes(nil, []byte("A")))
}
