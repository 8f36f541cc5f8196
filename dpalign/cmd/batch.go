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
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/dpalign"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Align pairs of sequences from two FASTA/Q files",
	Long: `Align pairs of sequences from two FASTA/Q files

The i-th record of the file 1 (-1/--seqs1) is aligned to the i-th record
of the file 2 (-2/--seqs2), both files should have the same number of records.
Pairs are aligned in parallel (-j/--threads), and output in the input order.

Failed pairs, e.g., reaching --max-cells, are reported in the log and skipped.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		file1 := getFlagString(cmd, "seqs1")
		file2 := getFlagString(cmd, "seqs2")
		if file1 == "" || file2 == "" {
			checkError(fmt.Errorf("flags -1/--seqs1 and -2/--seqs2 are both needed"))
		}
		if isStdin(file1) && isStdin(file2) {
			checkError(fmt.Errorf("the two files can not both be stdin"))
		}

		cfg := getConfig(cmd)
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
			log.Infof("aligning in %s mode with %d threads, match: %d, mismatch: %d, indel: %d",
				o.Mode, opt.NumCPUs, s.Match, s.Mismatch, s.Indel)
		}

		timeStart := time.Now()

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		total, failed, partial, err := alignFiles(file1, file2, outfh, &batchOptions{
			Options:    opt,
			scores:     s,
			options:    o,
			timeout:    timeout,
			countOnly:  countOnly,
			withMatrix: withMatrix,
		})
		checkError(err)

		if opt.Verbose {
			log.Infof("%d pairs aligned in %s, failed: %d, incomplete: %d",
				total, time.Since(timeStart), failed, partial)
			if outFile != "-" {
				log.Infof("results saved to: %s", outFile)
			}
		}
	},
}

type batchOptions struct {
	*Options

	scores  *dpalign.Scores
	options *dpalign.Options

	timeout    time.Duration
	countOnly  bool
	withMatrix bool
}

type pairTask struct {
	id         uint64
	name1      string
	name2      string
	seq1, seq2 []byte
}

// alignFiles aligns the records of two files pairwise with a worker pool,
// and writes the results in the input order.
func alignFiles(file1, file2 string, w io.Writer, opt *batchOptions) (total, failed, partial uint64, err error) {
	reader1, err := fastx.NewReader(nil, file1, "")
	if err != nil {
		return 0, 0, 0, errors.Wrapf(err, "read file %s", file1)
	}
	defer reader1.Close()

	reader2, err := fastx.NewReader(nil, file2, "")
	if err != nil {
		return 0, 0, 0, errors.Wrapf(err, "read file %s", file2)
	}
	defer reader2.Close()

	// process bar
	var pbs *mpb.Progress
	var bar *mpb.Bar
	var chDuration chan time.Duration
	var doneDuration chan int
	if opt.Verbose {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(0,
			mpb.PrependDecorators(
				decor.Name("processed pairs: ", decor.WC{W: len("processed pairs: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CurrentNoUnit("%d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("elapsed: ", decor.WC{W: len("elapsed: ")}),
				decor.Elapsed(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)

		chDuration = make(chan time.Duration, opt.NumCPUs)
		doneDuration = make(chan int)
		go func() {
			for t := range chDuration {
				bar.EwmaIncrBy(1, t)
			}
			doneDuration <- 1
		}()
	}

	// outputter, keeping the input order
	ch := make(chan *pairResult, opt.NumCPUs)
	done := make(chan int)
	go func() {
		buf := make(map[uint64]*pairResult, opt.NumCPUs)
		var next uint64
		var r *pairResult
		var ok bool
		for r = range ch {
			buf[r.id] = r
			for {
				if r, ok = buf[next]; !ok {
					break
				}
				delete(buf, next)
				next++

				if r.result == nil { // failed
					continue
				}
				writeResult(w, r, opt.withMatrix)
				dpalign.RecycleResult(r.result)
			}
		}
		done <- 1
	}()

	var wg sync.WaitGroup
	tokens := make(chan int, opt.NumCPUs)
	var mu sync.Mutex

	var record1, record2 *fastx.Record
	var err1, err2 error
	var id uint64
	for {
		record1, err1 = reader1.Read()
		record2, err2 = reader2.Read()
		if err1 == io.EOF && err2 == io.EOF {
			break
		}
		if err1 == io.EOF || err2 == io.EOF {
			err = fmt.Errorf("the two files have different numbers of records, stopped at the pair %d", id+1)
			break
		}
		if err1 != nil {
			err = errors.Wrapf(err1, "read file %s", file1)
			break
		}
		if err2 != nil {
			err = errors.Wrapf(err2, "read file %s", file2)
			break
		}

		task := &pairTask{
			id:    id,
			name1: string(record1.ID),
			name2: string(record2.ID),
			seq1:  append([]byte(nil), record1.Seq.Seq...),
			seq2:  append([]byte(nil), record2.Seq.Seq...),
		}
		id++

		tokens <- 1
		wg.Add(1)
		go func(task *pairTask) {
			startTime := time.Now()
			defer func() {
				if opt.Verbose {
					chDuration <- time.Since(startTime)
				}
				<-tokens
				wg.Done()
			}()

			r := alignTask(task, opt)

			mu.Lock()
			if r.result == nil {
				failed++
			} else if r.err != nil {
				partial++
			}
			mu.Unlock()

			ch <- r
		}(task)
	}
	wg.Wait()
	close(ch)
	<-done

	if opt.Verbose {
		close(chDuration)
		<-doneDuration
		bar.SetTotal(-1, true)
		pbs.Wait()
	}

	return id, failed, partial, err
}

// alignTask aligns a pair. A failed pair is returned with a nil result.
func alignTask(task *pairTask, opt *batchOptions) *pairResult {
	ctx := context.Background()
	if opt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.timeout)
		defer cancel()
	}

	algn := dpalign.New(opt.scores, opt.options)
	defer dpalign.RecycleAligner(algn)

	r, err := alignPair(ctx, algn, task.seq1, task.seq2, opt.countOnly, opt.withMatrix)
	if err == nil && r.err != nil && !isPartial(r.err) {
		dpalign.RecycleResult(r.result)
		err = r.err
	}
	if err != nil {
		log.Warningf("skip pair %d (%s vs %s): %s", task.id+1, task.name1, task.name2, err)
		return &pairResult{id: task.id}
	}

	r.id = task.id
	r.name1, r.name2 = task.name1, task.name2
	return r
}

func init() {
	RootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("seqs1", "1", "",
		formatFlagUsage(`FASTA/Q file of the first sequences ("-" for stdin).`))

	batchCmd.Flags().StringP("seqs2", "2", "",
		formatFlagUsage(`FASTA/Q file of the second sequences ("-" for stdin).`))

	addScoringFlags(batchCmd)
}
