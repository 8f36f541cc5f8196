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
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Mode is the alignment mode.
type Mode uint8

const (
	// Global aligns the two sequences end to end (Needleman-Wunsch).
	Global Mode = iota
	// Local aligns the best-scoring pair of substrings (Smith-Waterman).
	Local
)

func (m Mode) String() string {
	switch m {
	case Global:
		return "global"
	case Local:
		return "local"
	}
	return "unknown"
}

// ParseMode parses "global" or "local", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "g", "":
		return Global, nil
	case "local", "l":
		return Local, nil
	}
	return Global, errors.Wrapf(ErrConfiguration, "unknown alignment mode: %q", s)
}

// Scores contains the linear scoring scheme.
// Indel is the cost of a single gap column, usually negative.
type Scores struct {
	Match    int
	Mismatch int
	Indel    int
}

// DefaultScores is the classic +1/-1/-1 scheme.
var DefaultScores = Scores{
	Match:    1,
	Mismatch: -1,
	Indel:    -1,
}

// GapMarker is the default symbol of a gap column.
const GapMarker byte = '-'

// Options contains alignment options other than scores.
type Options struct {
	Mode Mode

	// GapMarker is the symbol written in gap columns, '-' if zero.
	GapMarker byte

	// Equal decides whether two symbols match. Nil means byte equality.
	Equal func(a, b byte) bool

	// MaxAlignments caps the number of enumerated alignments, 0 for no limit.
	MaxAlignments int

	// MaxCells caps the size of the DP matrices ((m+1)*(n+1)), 0 for no limit.
	MaxCells int
}

// DefaultOptions is the default Options: global alignment, no limits.
var DefaultOptions = Options{
	Mode:      Global,
	GapMarker: GapMarker,
}

// EqualFold matches ASCII letters case-insensitively.
func EqualFold(a, b byte) bool {
	if a == b {
		return true
	}
	if 'A' <= a && a <= 'Z' {
		a += 'a' - 'A'
	}
	if 'A' <= b && b <= 'Z' {
		b += 'a' - 'A'
	}
	return a == b
}

func equalBytes(a, b byte) bool { return a == b }

// validate checks the parameters against a pair of sequences of length m and n.
func validate(s *Scores, o *Options, a, b []byte) error {
	if s == nil {
		return errors.Wrap(ErrConfiguration, "nil scores")
	}
	if o.Mode != Global && o.Mode != Local {
		return errors.Wrapf(ErrConfiguration, "unknown alignment mode: %d", o.Mode)
	}
	if o.MaxAlignments < 0 {
		return errors.Wrapf(ErrConfiguration, "negative alignment limit: %d", o.MaxAlignments)
	}

	m, n := len(a), len(b)

	// every cell score is a sum of at most m+n costs.
	steps := m + n + 1
	for _, c := range [3]int{s.Match, s.Mismatch, s.Indel} {
		if c == math.MinInt || abs(c) > math.MaxInt/steps {
			return errors.Wrapf(ErrConfiguration,
				"score %d may overflow for sequences of length %d and %d", c, m, n)
		}
	}

	if o.MaxCells > 0 && (m+1) > o.MaxCells/(n+1) {
		return errors.Wrapf(ErrInvalidInput,
			"matrix of %d x %d exceeds the limit of %d cells", m+1, n+1, o.MaxCells)
	}

	gap := o.GapMarker
	for i, c := range a {
		if c == gap {
			return errors.Wrapf(ErrInvalidInput, "gap marker %q found in sequence 1 at position %d", gap, i+1)
		}
	}
	for j, c := range b {
		if c == gap {
			return errors.Wrapf(ErrInvalidInput, "gap marker %q found in sequence 2 at position %d", gap, j+1)
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
