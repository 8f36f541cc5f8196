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

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/dpalign"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

// Config is the content of a parameter file, e.g.,
//
//	mode = "local"
//	match = 1
//	mismatch = -1
//	indel = -1
//	seq1 = "ATTCG"
//	seq2 = "ATCG"
type Config struct {
	Mode     string `toml:"mode"`
	Match    int    `toml:"match"`
	Mismatch int    `toml:"mismatch"`
	Indel    int    `toml:"indel"`

	MaxAlignments int    `toml:"max-alignments"`
	MaxCells      int    `toml:"max-cells"`
	Gap           string `toml:"gap"`
	IgnoreCase    bool   `toml:"ignore-case"`

	// only used by the command "align"
	Seq1 string `toml:"seq1"`
	Seq2 string `toml:"seq2"`
}

func defaultConfig() *Config {
	return &Config{
		Mode:     dpalign.DefaultOptions.Mode.String(),
		Match:    dpalign.DefaultScores.Match,
		Mismatch: dpalign.DefaultScores.Mismatch,
		Indel:    dpalign.DefaultScores.Indel,
		Gap:      string(dpalign.GapMarker),
	}
}

// readConfig reads a parameter file in TOML format on top of the defaults.
// Unknown keys are rejected.
func readConfig(file string) (*Config, error) {
	file, err := homedir.Expand(file)
	if err != nil {
		return nil, errors.Wrap(err, "expand config file path")
	}

	ok, err := pathutil.Exists(file)
	if err != nil {
		return nil, errors.Wrapf(err, "check config file %s", file)
	}
	if !ok {
		return nil, fmt.Errorf("config file not found: %s", file)
	}

	fh, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", file)
	}
	defer fh.Close()

	cfg := defaultConfig()
	if err = toml.NewDecoder(fh).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", file)
	}
	return cfg, nil
}

// addScoringFlags adds the flags shared by the alignment commands.
func addScoringFlags(cmd *cobra.Command) {
	d := defaultConfig()

	cmd.Flags().StringP("config", "c", "",
		formatFlagUsage(`Parameter file in TOML format. Flags given explicitly override values in the file.`))

	cmd.Flags().StringP("mode", "m", d.Mode,
		formatFlagUsage(`Alignment mode, "global" or "local".`))

	cmd.Flags().IntP("match", "", d.Match,
		formatFlagUsage(`Score of a match.`))

	cmd.Flags().IntP("mismatch", "", d.Mismatch,
		formatFlagUsage(`Score of a mismatch.`))

	cmd.Flags().IntP("indel", "", d.Indel,
		formatFlagUsage(`Score of an insertion or deletion, usually negative.`))

	cmd.Flags().IntP("max-alignments", "n", d.MaxAlignments,
		formatFlagUsage(`Maximum number of alignments to output for a pair, 0 for all. `+
			`The number of co-optimal alignments grows exponentially with ties.`))

	cmd.Flags().IntP("max-cells", "", d.MaxCells,
		formatFlagUsage(`Maximum size of the DP matrix, i.e., (len1+1)*(len2+1), 0 for no limit.`))

	cmd.Flags().StringP("gap", "g", d.Gap,
		formatFlagUsage(`Gap symbol in alignments.`))

	cmd.Flags().BoolP("ignore-case", "i", d.IgnoreCase,
		formatFlagUsage(`Match letters case-insensitively.`))

	cmd.Flags().DurationP("timeout", "t", 0,
		formatFlagUsage(`Time limit of enumerating alignments for a pair, e.g., 10s, 0 for no limit.`))

	cmd.Flags().BoolP("count-only", "C", false,
		formatFlagUsage(`Only output the optimal score and the number of alignments.`))

	cmd.Flags().BoolP("matrix", "M", false,
		formatFlagUsage(`Output the score and backtrack matrix of each pair.`))

	cmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))
}

// getConfig returns the defaults, overridden by the parameter file,
// and then by the explicitly given flags.
func getConfig(cmd *cobra.Command) *Config {
	cfg := defaultConfig()
	if file := getFlagString(cmd, "config"); file != "" {
		var err error
		cfg, err = readConfig(file)
		checkError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = getFlagString(cmd, "mode")
	}
	if flags.Changed("match") {
		cfg.Match = getFlagInt(cmd, "match")
	}
	if flags.Changed("mismatch") {
		cfg.Mismatch = getFlagInt(cmd, "mismatch")
	}
	if flags.Changed("indel") {
		cfg.Indel = getFlagInt(cmd, "indel")
	}
	if flags.Changed("max-alignments") {
		cfg.MaxAlignments = getFlagNonNegativeInt(cmd, "max-alignments")
	}
	if flags.Changed("max-cells") {
		cfg.MaxCells = getFlagNonNegativeInt(cmd, "max-cells")
	}
	if flags.Changed("gap") {
		cfg.Gap = getFlagString(cmd, "gap")
	}
	if flags.Changed("ignore-case") {
		cfg.IgnoreCase = getFlagBool(cmd, "ignore-case")
	}
	return cfg
}

// Parameters converts the config to the scores and options of an aligner.
func (cfg *Config) Parameters() (*dpalign.Scores, *dpalign.Options, error) {
	mode, err := dpalign.ParseMode(cfg.Mode)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Gap) != 1 {
		return nil, nil, errors.Wrapf(dpalign.ErrConfiguration, "gap symbol should be a single character: %q", cfg.Gap)
	}
	if cfg.MaxAlignments < 0 || cfg.MaxCells < 0 {
		return nil, nil, errors.Wrap(dpalign.ErrConfiguration, "limits should not be negative")
	}

	s := &dpalign.Scores{
		Match:    cfg.Match,
		Mismatch: cfg.Mismatch,
		Indel:    cfg.Indel,
	}
	o := &dpalign.Options{
		Mode:          mode,
		GapMarker:     cfg.Gap[0],
		MaxAlignments: cfg.MaxAlignments,
		MaxCells:      cfg.MaxCells,
	}
	if cfg.IgnoreCase {
		o.Equal = dpalign.EqualFold
	}
	return s, o, nil
}
