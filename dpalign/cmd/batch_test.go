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
	"testing"

	"github.com/shenwei356/dpalign"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignFiles(t *testing.T) {
	file1 := writeFile(t, "seqs1.fasta", ">r1\nATTCG\n>r2\nGATTACA\n>r3 third pair\nACGT\n")
	file2 := writeFile(t, "seqs2.fasta", ">s1\nATCG\n>s2\nGCATGCT\n>s3\nAC\nGT\n")

	opt := &batchOptions{
		Options: &Options{NumCPUs: 2},
		scores:  &dpalign.DefaultScores,
		options: &dpalign.Options{
			Mode:     dpalign.Global,
			MaxCells: 40, // the second pair needs 64 cells
		},
		countOnly: true,
	}

	var buf bytes.Buffer
	total, failed, partial, err := alignFiles(file1, file2, &buf, opt)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, uint64(1), failed)
	assert.Equal(t, uint64(0), partial)

	want := `>r1 vs s1
mode: global, score: 3, alignments: 2

>r3 vs s3
mode: global, score: 4, alignments: 1

`
	assert.Equal(t, want, buf.String())
}

func TestAlignFilesOrder(t *testing.T) {
	var b1, b2 bytes.Buffer
	for i := 0; i < 50; i++ {
		b1.WriteString(">a\nACGTACGT\n")
		b2.WriteString(">b\nACGACGT\n")
	}
	file1 := writeFile(t, "seqs1.fa", b1.String())
	file2 := writeFile(t, "seqs2.fa", b2.String())

	opt := &batchOptions{
		Options: &Options{NumCPUs: 4},
		scores:  &dpalign.DefaultScores,
		options: &dpalign.Options{Mode: dpalign.Local},
	}

	var buf bytes.Buffer
	total, failed, _, err := alignFiles(file1, file2, &buf, opt)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), total)
	assert.Equal(t, uint64(0), failed)
	assert.Equal(t, 50, bytes.Count(buf.Bytes(), []byte(">a vs b\n")))

	// every pair gets the same output
	chunks := bytes.Split(buf.Bytes(), []byte(">a vs b\n"))
	for _, c := range chunks[2:] {
		assert.Equal(t, string(chunks[1]), string(c))
	}
}

func TestAlignFilesDifferentSizes(t *testing.T) {
	file1 := writeFile(t, "seqs1.fasta", ">r1\nACGT\n>r2\nACGT\n")
	file2 := writeFile(t, "seqs2.fasta", ">s1\nACGT\n")

	opt := &batchOptions{
		Options: &Options{NumCPUs: 1},
		scores:  &dpalign.DefaultScores,
		options: &dpalign.DefaultOptions,
	}

	var buf bytes.Buffer
	total, _, _, err := alignFiles(file1, file2, &buf, opt)
	assert.Error(t, err)
	assert.Equal(t, uint64(1), total)
	assert.Contains(t, buf.String(), ">r1 vs s1\n")
}
