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

package dpalign_test

import (
	"context"
	"fmt"

	"github.com/shenwei356/dpalign"
)

func ExampleAligner_Align() {
	algn := dpalign.New(&dpalign.DefaultScores, &dpalign.DefaultOptions)
	defer dpalign.RecycleAligner(algn)

	r, err := algn.Align([]byte("GATTACA"), []byte("GCATGCT"))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer dpalign.RecycleResult(r)

	fmt.Printf("score: %d, alignments: %d\n", r.Score, r.Count())

	alns, err := r.Alignments(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, aln := range alns {
		fmt.Printf("%s  %s\n", aln.A, aln.CIGAR())
		fmt.Printf("%s\n\n", aln.B)
	}

	// Output:
	// score: 0, alignments: 3
	// G-ATTACA  1M1I1M1D1M1X1M1X
	// GCA-TGCT
	//
	// G-ATTACA  1M1I2M1D1X1M1X
	// GCAT-GCT
	//
	// G-ATTACA  1M1I2M1X1D1M1X
	// GCATG-CT
}

func ExampleResult_Alignments_local() {
	algn := dpalign.New(nil, &dpalign.Options{Mode: dpalign.Local})
	defer dpalign.RecycleAligner(algn)

	r, err := algn.Align([]byte("ATTCG"), []byte("ATCG"))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer dpalign.RecycleResult(r)

	alns, _ := r.Alignments(context.Background())
	fmt.Printf("score: %d\n", r.Score)
	for _, aln := range alns {
		fmt.Printf("%d-%d vs %d-%d\n%s\n\n", aln.ABegin, aln.AEnd, aln.BBegin, aln.BEnd, aln)
	}

	// Output:
	// score: 3
	// 3-5 vs 2-4
	// TCG
	// |||
	// TCG
	//
	// 1-5 vs 1-4
	// ATTCG
	// | |||
	// A-TCG
	//
	// 1-5 vs 1-4
	// ATTCG
	// || ||
	// AT-CG
}
