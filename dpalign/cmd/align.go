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
	"time"

	"github.com/shenwei356/dpalign"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align [flags] [seq1 seq2]",
	Short: "Align two sequences and output all optimal alignments",
	Long: `Align two sequences and output all optimal alignments

Sequences are given as positional arguments, or via "seq1" and "seq2"
in the parameter file (-c/--config). Positional arguments take precedence.

Attention:
  1. The number of co-optimal alignments can grow exponentially with ties
     in long or repetitive sequences, please set -n/--max-alignments or
     -t/--timeout to limit the output, or use -C/--count-only.
  2. The score matrix takes (len1+1)*(len2+1) cells, use --max-cells
     to reject large inputs.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		if len(args) != 0 && len(args) != 2 {
			checkError(fmt.Errorf("two sequences are needed, %d given", len(args)))
		}

		cfg := getConfig(cmd)
		if len(args) == 2 {
			cfg.Seq1, cfg.Seq2 = args[0], args[1]
		}
		if len(args) == 0 && getFlagString(cmd, "config") == "" {
			checkError(fmt.Errorf("no sequences given, please give them as arguments or in the config file"))
		}

		s, o, err := cfg.Parameters()
		checkError(err)

		timeout := getFlagNonNegativeDuration(cmd, "timeout")
		countOnly := getFlagBool(cmd, "count-only")
		withMatrix := getFlagBool(cmd, "matrix")
		outFile := getFlagString(cmd, "out-file")

		if opt.Log2File {
			fh := addLog(opt.LogFile, opt.Verbose)
			defer fh.Close()
		}

		if opt.Verbose {
			log.Infof("aligning in %s mode, match: %d, mismatch: %d, indel: %d",
				o.Mode, s.Match, s.Mismatch, s.Indel)
		}

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		timeStart := time.Now()

		algn := dpalign.New(s, o)
		defer dpalign.RecycleAligner(algn)

		r, err := alignPair(ctx, algn, []byte(cfg.Seq1), []byte(cfg.Seq2), countOnly, withMatrix)
		checkError(err)
		r.name1, r.name2 = "seq1", "seq2"
		if r.err != nil && !isPartial(r.err) {
			checkError(r.err)
		}

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		writeResult(outfh, r, withMatrix)
		dpalign.RecycleResult(r.result)

		if opt.Verbose {
			if r.err != nil {
				log.Warningf("only %d of %d alignments are output: %s", len(r.alignments), r.count, r.err)
			}
			log.Infof("done in %s", time.Since(timeStart))
		}
	},
}

func init() {
	RootCmd.AddCommand(alignCmd)

	addScoringFlags(alignCmd)

	alignCmd.SetUsageTemplate(usageTemplate("[seq1 seq2]"))
}
