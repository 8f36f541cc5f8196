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
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// VERSION of dpalign.
const VERSION = "0.1.0"

// profiler is started by the persistent flags --pprof-cpu and --pprof-mem.
var profiler interface{ Stop() }

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dpalign",
	Short: "exhaustive optimal pairwise sequence alignment",
	Long: fmt.Sprintf(`dpalign: exhaustive optimal pairwise sequence alignment

Global (Needleman-Wunsch) and local (Smith-Waterman) alignment with a linear
scoring scheme, reporting the optimal score and *all* co-optimal alignments.

Version: v%s

`, VERSION),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// go tool pprof -http=:8080 cpu.pprof
		if getFlagBool(cmd, "pprof-cpu") {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		} else if getFlagBool(cmd, "pprof-mem") {
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", runtime.NumCPU(),
		formatFlagUsage("Number of CPU cores to use. By default, it uses all available cores."))

	RootCmd.PersistentFlags().BoolP("quiet", "q", false,
		formatFlagUsage("Do not print any verbose information. But you can write them to a file with --log."))

	RootCmd.PersistentFlags().StringP("log", "", "",
		formatFlagUsage("Log file."))

	RootCmd.PersistentFlags().BoolP("pprof-cpu", "", false,
		formatFlagUsage("Write CPU profile to ./cpu.pprof."))

	RootCmd.PersistentFlags().BoolP("pprof-mem", "", false,
		formatFlagUsage("Write memory profile to ./mem.pprof."))

	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.SetUsageTemplate(usageTemplate(""))
}
