package columnstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func asU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func newTestStore() *Store {
	cols := []ColumnSpec{
		{VLen: 4, Updatable: false},
		{VLen: 4, Updatable: true},
	}
	return New(cols, 128, 8)
}

// TestColumnStoreScenario reproduces the spec.md §8 end-to-end example:
// insert(off=0, col=1, v1=5) then update(off=0, col=1, v2=7), and checks
// the exact expected values at v=4, v=5, v=6, v=7.
func TestColumnStoreScenario(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.Insert(0, Record{1: u32(5)}, 0, 5))
	require.NoError(t, s.UpdateColumn(0, 1, u32(7), 7))

	v, err := s.Get(0, 1, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), asU32(v), "before first write, default cell")

	v, err = s.Get(0, 1, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), asU32(v))

	v, err = s.Get(0, 1, 6, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), asU32(v), "ver 6 still sees the v5 write")

	v, err = s.Get(0, 1, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), asU32(v))
}

// TestGCPreservesLiveReads runs the two-stage GC example at
// min_live_ver=6 then min_live_ver=7: every read at v>=the GC floor must
// return the same value before and after GC runs.
func TestGCPreservesLiveReads(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(0, Record{1: u32(5)}, 0, 5))
	require.NoError(t, s.UpdateColumn(0, 1, u32(7), 7))

	s.GC(6)
	v, err := s.Get(0, 1, 6, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), asU32(v))
	v, err = s.Get(0, 1, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), asU32(v))

	s.GC(7)
	v, err = s.Get(0, 1, 7, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), asU32(v))

	assert.Equal(t, int64(1), s.PagesRetired(), "GC(6) retains the v5 page since it's still the oldest live; GC(7) retires v5 once v7 alone covers the live floor")
}

// TestGCDetachesSuperseded verifies that once three versions exist for
// the same page, a GC floor above the oldest write detaches it into
// oldPages while leaving newer reads unaffected.
func TestGCDetachesSuperseded(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(0, Record{1: u32(1)}, 0, 1))
	require.NoError(t, s.UpdateColumn(0, 1, u32(2), 2))
	require.NoError(t, s.UpdateColumn(0, 1, u32(3), 3))

	s.GC(2)

	v, err := s.Get(0, 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), asU32(v), "v2 is now the oldest retained page")

	v, err = s.Get(0, 1, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), asU32(v))

	assert.Equal(t, int64(1), s.PagesRetired(), "the v1 page is detached")

	v, err = s.Get(0, 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), asU32(v), "v1 is no longer reachable after GC retired its page")
}

// TestParallelWriteIsolation checks that concurrent writers of the same
// updatable column never lose data: 64 writers spread over 8 page numbers
// (8 writers per page), each owning a disjoint row whose final value must
// survive.
func TestParallelWriteIsolation(t *testing.T) {
	s := newTestStore() // rowsPerPage=8, maxItems=128 -> 16 page chains

	const rows = 64
	var wg sync.WaitGroup
	for r := 0; r < rows; r++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for ver := uint64(1); ver <= 4; ver++ {
				val := uint32(offset*10 + int(ver))
				if ver == 1 {
					_ = s.Insert(offset, Record{1: u32(val)}, 0, ver)
				} else {
					_ = s.UpdateColumn(offset, 1, u32(val), ver)
				}
			}
		}(r)
	}
	wg.Wait()

	for r := 0; r < rows; r++ {
		v, err := s.Get(r, 1, 4, nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(r*10+4), asU32(v))
	}
}

// TestFixedColumnNotUpdatable ensures writes to a non-updatable column
// after the initial insert are rejected, and that reads ignore version.
func TestFixedColumnNotUpdatable(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(0, Record{0: u32(42)}, 0, 1))

	err := s.UpdateColumn(0, 0, u32(43), 2)
	assert.ErrorIs(t, err, ErrNotUpdatable)

	v, err := s.Get(0, 0, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), asU32(v))

	v, err = s.Get(0, 0, 999, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), asU32(v), "fixed columns ignore the requested version")
}

// TestWalkCounter checks the observability hook increments once per
// chain-link traversal, not once per Get call.
func TestWalkCounter(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(0, Record{1: u32(1)}, 0, 1))
	require.NoError(t, s.UpdateColumn(0, 1, u32(2), 2))
	require.NoError(t, s.UpdateColumn(0, 1, u32(3), 3))

	var walks uint64
	_, err := s.Get(0, 1, 1, &walks)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), walks, "head(v3) -> v2 -> v1 is two link traversals")

	walks = 0
	_, err = s.Get(0, 1, 3, &walks)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), walks, "head satisfies the read directly")
}

// TestColumnScanSplicesAcrossPages checks that a scan spanning multiple
// page numbers returns one PageView per page and honors per-page versions.
func TestColumnScanSplicesAcrossPages(t *testing.T) {
	s := newTestStore() // rowsPerPage=8
	for off := 0; off < 10; off++ {
		require.NoError(t, s.Insert(off, Record{1: u32(uint32(off))}, 0, 1))
	}

	views, err := s.ColumnScan(1, 0, 10, 1)
	require.NoError(t, err)
	require.Len(t, views, 2, "offsets [0,10) span page 0 ([0,8)) and page 1 ([8,16))")
	assert.Equal(t, 0, views[0].StartOffset)
	assert.Equal(t, 8, views[0].Count)
	assert.Equal(t, 8, views[1].StartOffset)
	assert.Equal(t, 2, views[1].Count)
}

// TestCoalescesSameVersionWrites verifies two writes at the same version
// to the same cell do not allocate a second page.
func TestCoalescesSameVersionWrites(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(0, Record{1: u32(1)}, 0, 5))
	require.NoError(t, s.UpdateColumn(0, 1, u32(9), 5))

	v, err := s.Get(0, 1, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), asU32(v))

	var walks uint64
	_, err = s.Get(0, 1, 5, &walks)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), walks, "no second page was allocated for the re-write at the same version")
}
