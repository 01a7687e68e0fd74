package replica_test

import (
	"testing"

	"github.com/biocore/pipeclust/internal/replica"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertNewSequence(t *testing.T) {
	s := replica.New()
	s.Insert([]byte("AAA"), "l1")

	require.Equal(t, 1, s.Count)
	require.Equal(t, 1, s.Unique())

	r, ok := s.Get([]byte("AAA"))
	require.True(t, ok)
	assert.Equal(t, []byte("AAA"), r.Sequence)
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, []string{"l1"}, r.Labels)
}

func TestInsertDuplicateAppendsLabel(t *testing.T) {
	s := replica.New()
	s.Insert([]byte("AAA"), "l1")
	s.Insert([]byte("AAA"), "l2")

	require.Equal(t, 2, s.Count)
	require.Equal(t, 1, s.Unique())

	r, ok := s.Get([]byte("AAA"))
	require.True(t, ok)
	assert.Equal(t, 2, r.Count)
	assert.Equal(t, []string{"l1", "l2"}, r.Labels)
}

// TestInsertOwnsSequenceBytes verifies IN5 / the copy-on-insert ownership
// note in SPEC_FULL.md §9: mutating the caller's buffer after Insert must
// not corrupt the stored key.
func TestInsertOwnsSequenceBytes(t *testing.T) {
	s := replica.New()
	buf := []byte("AAA")
	s.Insert(buf, "l1")
	buf[0] = 'T'

	r, ok := s.Get([]byte("AAA"))
	require.True(t, ok)
	assert.Equal(t, "AAA", string(r.Sequence))
}

func TestSortByAbundanceOrdersDescendingByCount(t *testing.T) {
	s := replica.New()
	s.Insert([]byte("AAA"), "l1")
	s.Insert([]byte("CCC"), "l2")
	s.Insert([]byte("AAA"), "l3")

	sorted := s.SortByAbundance()
	require.Len(t, sorted, 2)
	assert.Equal(t, "AAA", string(sorted[0].Sequence))
	assert.Equal(t, 2, sorted[0].Count)
	assert.Equal(t, "CCC", string(sorted[1].Sequence))
	assert.Equal(t, 1, sorted[1].Count)
}

// TestSortByAbundanceIsAView ensures the reordering does not touch the
// underlying table (§4.3: "this is a view reorder").
func TestSortByAbundanceIsAView(t *testing.T) {
	s := replica.New()
	s.Insert([]byte("AAA"), "l1")
	s.Insert([]byte("CCC"), "l2")

	_ = s.SortByAbundance()

	require.Equal(t, 2, s.Count)
	require.Equal(t, 2, s.Unique())
	_, ok := s.Get([]byte("AAA"))
	assert.True(t, ok)
}

func TestGetOrCreateEmpty(t *testing.T) {
	s := replica.New()
	rec, created := s.GetOrCreateEmpty([]byte("GG"))
	require.True(t, created)
	assert.Equal(t, 0, rec.Count)
	assert.Empty(t, rec.Labels)

	rec.Add("x")
	again, created2 := s.GetOrCreateEmpty([]byte("GG"))
	require.False(t, created2)
	assert.Same(t, rec, again)
	assert.Equal(t, 1, again.Count)
}

func TestDrain(t *testing.T) {
	s := replica.New()
	s.Insert([]byte("AAA"), "l1")
	s.Drain()
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0, s.Unique())
}
