package derepctx_test

import (
	"testing"

	"github.com/biocore/pipeclust/internal/derepctx"
	"github.com/biocore/pipeclust/log"
	"github.com/stretchr/testify/assert"
)

func TestRankOutputterLevelAcceptsEverything(t *testing.T) {
	out := derepctx.RankOutputter{Rank: 0, Size: 1}
	assert.Equal(t, log.Debug, out.Level())
}

func TestRankOutputterInfoAndNonInfoDoNotError(t *testing.T) {
	// RankOutputter.Output writes straight to stderr; there's no seam to
	// intercept that without changing its signature, so this just pins
	// the contract (rank-0-only info, prefixed everything else) and
	// checks it never errors for either rank.
	zero := derepctx.RankOutputter{Rank: 0, Size: 3}
	assert.NoError(t, zero.Output(0, log.Info, "hello"))
	assert.NoError(t, zero.Output(0, log.Error, "boom"))

	nonZero := derepctx.RankOutputter{Rank: 1, Size: 3}
	assert.NoError(t, nonZero.Output(0, log.Info, "suppressed"))
	assert.NoError(t, nonZero.Output(0, log.Error, "prefixed"))
}

func TestInstallSetsPackageOutputter(t *testing.T) {
	old := log.SetOutputter(nil)
	defer log.SetOutputter(old)

	derepctx.Install(2, 4)
	_, ok := log.GetOutputter().(derepctx.RankOutputter)
	assert.True(t, ok)
}
