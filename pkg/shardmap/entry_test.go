package shardmap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shardmap "github.com/Voskan/shardmap/pkg/shardmap"
)

// TestEntryOrInsertIdempotence covers testable property 6: a second
// or_insert for an already-occupied key leaves the original value in
// place.
func TestEntryOrInsertIdempotence(t *testing.T) {
	m := shardmap.MustNew[int, int]()

	m.Entry(5).OrInsert(10).Release()
	m.Entry(5).OrInsert(0).Release()

	ref, ok := m.Get(5)
	require.True(t, ok)
	assert.Equal(t, 10, *ref.Value())
	ref.Release()
}

// TestEntryUpgrades reproduces spec.md section 8's "Entry upgrades"
// concrete scenario verbatim.
func TestEntryUpgrades(t *testing.T) {
	m := shardmap.MustNew[int, int]()

	m.Entry(5).OrInsert(10).Release()
	m.Entry(5).AndModify(func(v *int) { *v++ }).OrInsert(0).Release()

	ref, ok := m.Get(5)
	require.True(t, ok)
	assert.Equal(t, 11, *ref.Value())
	ref.Release()
}

func TestEntryOrInsertOnVacant(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	e := m.Entry("a")
	assert.True(t, e.IsVacant())
	ref := e.OrInsert(7)
	assert.Equal(t, 7, *ref.Value())
	ref.Release()
}

func TestEntryOrInsertWith(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	calls := 0
	e := m.Entry("a")
	ref := e.OrInsertWith(func() int { calls++; return 1 })
	ref.Release()
	assert.Equal(t, 1, calls)

	// Second call against the now-occupied key must not invoke f again.
	e2 := m.Entry("a")
	ref2 := e2.OrInsertWith(func() int { calls++; return 2 })
	ref2.Release()
	assert.Equal(t, 1, calls)
}

func TestEntryOrDefault(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	ref := m.Entry("a").OrDefault()
	assert.Equal(t, 0, *ref.Value())
	ref.Release()
}

func TestEntryOrTryInsertWithFailureLeavesVacant(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	sentinel := errors.New("load failed")

	_, err := m.Entry("a").OrTryInsertWith(func() (int, error) { return 0, sentinel })
	assert.ErrorIs(t, err, sentinel)
	assert.False(t, m.ContainsKey("a"))
}

func TestEntryOrTryInsertWithSuccess(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	ref, err := m.Entry("a").OrTryInsertWith(func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, *ref.Value())
	ref.Release()
}

func TestEntryInsertDiscardsPrevious(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	m.Insert("a", 1)

	ref := m.Entry("a").Insert(2)
	assert.Equal(t, 2, *ref.Value())
	ref.Release()

	got, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, *got.Value())
	got.Release()
}

func TestOccupiedEntryReplaceAndRemove(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	m.Insert("a", 1)

	e := m.Entry("a")
	require.True(t, e.IsOccupied())
	o := e.Occupied()
	old := o.ReplaceValue(2)
	assert.Equal(t, 1, old)
	assert.Equal(t, 2, *o.Get())

	v := o.Remove()
	assert.Equal(t, 2, v)
	assert.False(t, m.ContainsKey("a"))
}

func TestOccupiedEntryRemoveEntry(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	m.Insert("a", 9)

	k, v := m.Entry("a").Occupied().RemoveEntry()
	assert.Equal(t, "a", k)
	assert.Equal(t, 9, v)
	assert.Equal(t, 0, m.Len())
}

func TestVacantEntryInsertEntry(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	e := m.Entry("a")
	occ := e.Vacant().InsertEntry(5)
	assert.Equal(t, 5, *occ.Get())
	occ.GetMut().Release()

	ref, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 5, *ref.Value())
	ref.Release()
}

func TestEntryReleaseWithoutMutation(t *testing.T) {
	m := shardmap.MustNew[string, int]()
	e := m.Entry("a")
	e.Release()
	assert.False(t, m.ContainsKey("a"))

	// The shard's write lock must truly be free again.
	m.Insert("a", 1)
	assert.True(t, m.ContainsKey("a"))
}
