package cliopts_test

import (
	"bytes"
	"testing"

	"github.com/biocore/pipeclust/errors"
	"github.com/biocore/pipeclust/internal/cliopts"
	"github.com/biocore/pipeclust/internal/derepctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidDerep(t *testing.T) {
	var buf bytes.Buffer
	opts, err := cliopts.Parse([]string{
		"--derep", "--fasta", "out.fasta", "--map", "out.map", "in1.fasta", "in2.fasta",
	}, &buf)
	require.NoError(t, err)
	require.NotNil(t, opts)
	assert.Equal(t, "out.fasta", opts.FastaPath)
	assert.Equal(t, "out.map", opts.MapPath)
	assert.False(t, opts.SuppressSort)
	assert.Equal(t, 1, opts.Ranks)
	assert.Equal(t, []string{"in1.fasta", "in2.fasta"}, opts.Files)
}

func TestParseSuppressSortAndRanks(t *testing.T) {
	var buf bytes.Buffer
	opts, err := cliopts.Parse([]string{
		"--derep", "--fasta", "o", "--map", "m", "--suppress_sort", "--ranks", "4", "in.fasta",
	}, &buf)
	require.NoError(t, err)
	assert.True(t, opts.SuppressSort)
	assert.Equal(t, 4, opts.Ranks)
}

func TestParseHelpReturnsNilWithoutError(t *testing.T) {
	var buf bytes.Buffer
	opts, err := cliopts.Parse([]string{"--help"}, &buf)
	require.NoError(t, err)
	assert.Nil(t, opts)
	assert.Contains(t, buf.String(), "pipeclust")
}

func TestParseMissingSubcommandIsUnsupportedCommand(t *testing.T) {
	var buf bytes.Buffer
	_, err := cliopts.Parse([]string{"--fasta", "o", "--map", "m", "in.fasta"}, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(derepctx.UnsupportedCommand, err))
	// UnsupportedCommand and BadCliOptions carry different fatality
	// policies in SPEC_FULL.md §7 (fatal/abort vs. informative/exit 0),
	// so callers must be able to tell them apart; they must not collapse
	// onto the same errors.Kind.
	assert.False(t, errors.Is(derepctx.BadCliOptions, err))
}

func TestParseMissingFastaIsBadCliOptions(t *testing.T) {
	var buf bytes.Buffer
	_, err := cliopts.Parse([]string{"--derep", "--map", "m", "in.fasta"}, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(derepctx.BadCliOptions, err))
}

func TestParseMissingMapIsBadCliOptions(t *testing.T) {
	var buf bytes.Buffer
	_, err := cliopts.Parse([]string{"--derep", "--fasta", "o", "in.fasta"}, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(derepctx.BadCliOptions, err))
}

func TestParseNoInputFilesIsBadCliOptions(t *testing.T) {
	var buf bytes.Buffer
	_, err := cliopts.Parse([]string{"--derep", "--fasta", "o", "--map", "m"}, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(derepctx.BadCliOptions, err))
}

func TestParseZeroRanksIsBadCliOptions(t *testing.T) {
	var buf bytes.Buffer
	_, err := cliopts.Parse([]string{
		"--derep", "--fasta", "o", "--map", "m", "--ranks", "0", "in.fasta",
	}, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(derepctx.BadCliOptions, err))
}
