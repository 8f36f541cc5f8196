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
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/shenwei356/dpalign"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestReadConfig(t *testing.T) {
	file := writeFile(t, "params.toml", `
mode = "local"
match = 2
indel = -3
ignore-case = true
seq1 = "ATTCG"
seq2 = "ATCG"
`)

	cfg, err := readConfig(file)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Mode)
	assert.Equal(t, 2, cfg.Match)
	assert.Equal(t, dpalign.DefaultScores.Mismatch, cfg.Mismatch) // not in the file
	assert.Equal(t, -3, cfg.Indel)
	assert.Equal(t, "-", cfg.Gap)
	assert.True(t, cfg.IgnoreCase)
	assert.Equal(t, "ATTCG", cfg.Seq1)
	assert.Equal(t, "ATCG", cfg.Seq2)

	s, o, err := cfg.Parameters()
	require.NoError(t, err)
	assert.Equal(t, dpalign.Scores{Match: 2, Mismatch: -1, Indel: -3}, *s)
	assert.Equal(t, dpalign.Local, o.Mode)
	assert.Equal(t, byte('-'), o.GapMarker)
	require.NotNil(t, o.Equal)
	assert.True(t, o.Equal('a', 'A'))
}

func TestReadConfigErrors(t *testing.T) {
	_, err := readConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = readConfig(writeFile(t, "unknown.toml", "mode = \"local\"\nband = 3\n"))
	assert.Error(t, err)

	_, err = readConfig(writeFile(t, "bad.toml", "match = \"one\"\n"))
	assert.Error(t, err)
}

func TestParameters(t *testing.T) {
	tests := []struct {
		name string
		edit func(cfg *Config)
	}{
		{"unknown mode", func(cfg *Config) { cfg.Mode = "semiglobal" }},
		{"empty gap", func(cfg *Config) { cfg.Gap = "" }},
		{"long gap", func(cfg *Config) { cfg.Gap = "--" }},
		{"negative limit", func(cfg *Config) { cfg.MaxAlignments = -1 }},
		{"negative cells", func(cfg *Config) { cfg.MaxCells = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.edit(cfg)
			_, _, err := cfg.Parameters()
			require.Error(t, err)
			assert.True(t, errors.Is(err, dpalign.ErrConfiguration))
		})
	}

	s, o, err := defaultConfig().Parameters()
	require.NoError(t, err)
	assert.Equal(t, dpalign.DefaultScores, *s)
	assert.Equal(t, dpalign.Global, o.Mode)
	assert.Nil(t, o.Equal)
}

func TestFlagsOverrideConfig(t *testing.T) {
	file := writeFile(t, "params.toml", "mode = \"local\"\nmatch = 2\nmismatch = -2\n")

	cmd := &cobra.Command{Use: "test"}
	addScoringFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-c", file, "--match", "5", "-g", "."}))

	cfg := getConfig(cmd)
	assert.Equal(t, "local", cfg.Mode) // from the file
	assert.Equal(t, 5, cfg.Match)      // flag
	assert.Equal(t, -2, cfg.Mismatch)  // from the file
	assert.Equal(t, -1, cfg.Indel)     // default
	assert.Equal(t, ".", cfg.Gap)

	// flags left at their defaults do not override the file
	cmd = &cobra.Command{Use: "test"}
	addScoringFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-c", file}))
	cfg = getConfig(cmd)
	assert.Equal(t, 2, cfg.Match)
}
