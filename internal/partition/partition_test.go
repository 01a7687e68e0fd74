package partition_test

import (
	"testing"

	"github.com/biocore/pipeclust/internal/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForSingleRankOwnsEverythingWhole(t *testing.T) {
	for n := 0; n < 4; n++ {
		plan := partition.For(n, 1, 0)
		require.Len(t, plan.WholeFiles, n)
		assert.Nil(t, plan.Shared)
	}
}

func TestForEvenSplitNoSharedFile(t *testing.T) {
	// N=2, P=2: each rank owns exactly one whole file, scenario 4 of
	// SPEC_FULL.md §8.
	p0 := partition.For(2, 2, 0)
	p1 := partition.For(2, 2, 1)

	require.Equal(t, []partition.WholeFile{{Index: 0}}, p0.WholeFiles)
	require.Equal(t, []partition.WholeFile{{Index: 1}}, p1.WholeFiles)
	assert.Nil(t, p0.Shared)
	assert.Nil(t, p1.Shared)
}

func TestForSharedFileSplitEvenly(t *testing.T) {
	// N=3, P=2: scenario 5. Ranks 0 and 1 each own one whole file; the
	// third file (index 2) is shared with stride 2, rank 0 at first=0,
	// rank 1 at first=1.
	p0 := partition.For(3, 2, 0)
	p1 := partition.For(3, 2, 1)

	require.Equal(t, []partition.WholeFile{{Index: 0}}, p0.WholeFiles)
	require.Equal(t, []partition.WholeFile{{Index: 1}}, p1.WholeFiles)

	require.NotNil(t, p0.Shared)
	assert.Equal(t, partition.SharedFile{Index: 2, First: 0, Stride: 2}, *p0.Shared)
	require.NotNil(t, p1.Shared)
	assert.Equal(t, partition.SharedFile{Index: 2, First: 1, Stride: 2}, *p1.Shared)
}

// TestForExhaustivePartition checks invariant IN4: for many (N,P) pairs,
// every (file, record-index-within-stride) combination is assigned to
// exactly one rank, by checking every whole file is owned exactly once
// and every shared-file stride-rank tuple is disjoint and covers all
// strides 0..stride-1 for the file's winning stride value.
func TestForExhaustivePartition(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for p := 1; p <= 6; p++ {
			owners := map[int]int{} // file index -> count of ranks claiming whole ownership
			sharedByFile := map[int][]partition.SharedFile{}

			for r := 0; r < p; r++ {
				plan := partition.For(n, p, r)
				for _, wf := range plan.WholeFiles {
					owners[wf.Index]++
				}
				if plan.Shared != nil {
					sharedByFile[plan.Shared.Index] = append(sharedByFile[plan.Shared.Index], *plan.Shared)
				}
			}

			remaining := n % p
			numWhole := n / p
			for idx := 0; idx < n-remaining; idx++ {
				assert.Equalf(t, 1, owners[idx], "n=%d p=%d idx=%d should have exactly one whole owner", n, p, idx)
			}
			_ = numWhole

			for idx := n - remaining; idx < n; idx++ {
				shares := sharedByFile[idx]
				require.NotEmptyf(t, shares, "n=%d p=%d idx=%d must have at least one partner", n, p, idx)
				stride := shares[0].Stride
				seen := map[int]bool{}
				for _, s := range shares {
					require.Equal(t, stride, s.Stride, "all partners on a shared file must agree on stride")
					assert.False(t, seen[s.First], "duplicate First=%d on file %d", s.First, idx)
					seen[s.First] = true
				}
				for i := 0; i < stride; i++ {
					assert.Truef(t, seen[i], "n=%d p=%d idx=%d missing starting offset %d", n, p, idx, i)
				}
			}
		}
	}
}
