package vertextable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/gartgraph/internal/idparser"
)

func newTestTable(t *testing.T, size int) (*VertexTable, *idparser.Parser) {
	t.Helper()
	p := idparser.New(4, 8)
	return New(0, size, p), p
}

// TestVertexTableGrowth is spec.md §8 property 2: after k successful
// add_inner, max_inner_location == k and slots [0,k) hold the inserted
// GIDs in order.
func TestVertexTableGrowth(t *testing.T) {
	vt, p := newTestTable(t, 16)

	var gids []idparser.GID
	for i := 0; i < 5; i++ {
		g, err := p.Generate(1, 0, int64(i))
		require.NoError(t, err)
		gids = append(gids, g)
		idx, err := vt.AddInner(g)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	assert.Equal(t, 5, vt.MaxInnerLocation())
	inner := vt.InnerVertices()
	require.Len(t, inner, 5)
	for i, g := range gids {
		assert.Equal(t, g, inner[i])
	}
}

// TestTombstoneSkip is spec.md §8 property 3: after add_inner(G) then
// delete_inner(offset_of(G)), any iterator over inner vertices skips G,
// and max_inner_location grows by two (insert, tombstone).
func TestTombstoneSkip(t *testing.T) {
	vt, p := newTestTable(t, 16)

	g, err := p.Generate(1, 0, 42)
	require.NoError(t, err)
	_, err = vt.AddInner(g)
	require.NoError(t, err)

	require.NoError(t, vt.DeleteInner(42))

	assert.Equal(t, 2, vt.MaxInnerLocation())
	assert.Empty(t, vt.InnerVertices())
}

func TestDeleteInnerNotFound(t *testing.T) {
	vt, p := newTestTable(t, 16)
	g, err := p.Generate(1, 0, 1)
	require.NoError(t, err)
	_, err = vt.AddInner(g)
	require.NoError(t, err)

	err = vt.DeleteInner(999)
	assert.Error(t, err)
}

func TestOuterRegionGrowsFromEnd(t *testing.T) {
	vt, p := newTestTable(t, 16)

	g1, _ := p.Generate(2, 1, 0)
	g2, _ := p.Generate(2, 1, 1)

	idx1, err := vt.AddOuter(g1)
	require.NoError(t, err)
	assert.Equal(t, 15, idx1)

	idx2, err := vt.AddOuter(g2)
	require.NoError(t, err)
	assert.Equal(t, 14, idx2)

	assert.Equal(t, 14, vt.MinOuterLocation())
}

func TestDeleteOuterFoundAndNotFound(t *testing.T) {
	vt, p := newTestTable(t, 16)
	g1, _ := p.Generate(2, 1, 0)
	g2, _ := p.Generate(2, 1, 1)
	_, err := vt.AddOuter(g1)
	require.NoError(t, err)
	_, err = vt.AddOuter(g2)
	require.NoError(t, err)

	require.NoError(t, vt.DeleteOuter(g1, nil))
	assert.Equal(t, 13, vt.MinOuterLocation())

	all := vt.AllVertices()
	assert.NotContains(t, all, g1)
	assert.Contains(t, all, g2)

	var logged bool
	logFn := func(format string, args ...any) { logged = true }
	unknown, _ := p.Generate(3, 1, 99)
	require.NoError(t, vt.DeleteOuter(unknown, logFn))
	assert.True(t, logged, "delete_outer on a missing GID is logged and ignored, not an error")
}

func TestRegionsMeetReturnsFull(t *testing.T) {
	vt, p := newTestTable(t, 2)
	g1, _ := p.Generate(1, 0, 0)
	g2, _ := p.Generate(1, 0, 1)

	_, err := vt.AddInner(g1)
	require.NoError(t, err)
	_, err = vt.AddOuter(g2)
	require.NoError(t, err)

	_, err = vt.AddInner(g1)
	assert.ErrorIs(t, err, ErrFull)
}

// TestMaxInnerCounterSurvivesDelete documents the preserved source
// behavior (spec.md §9 open question): delete_inner advances
// max_inner_location but never decrements the maxInner high-water mark.
func TestMaxInnerCounterSurvivesDelete(t *testing.T) {
	vt, p := newTestTable(t, 16)
	g, _ := p.Generate(1, 0, 7)
	_, err := vt.AddInner(g)
	require.NoError(t, err)
	require.NoError(t, vt.DeleteInner(7))

	assert.Equal(t, 1, vt.MaxInnerCount())
}

func TestAllVerticesOrdersInnerThenOuter(t *testing.T) {
	vt, p := newTestTable(t, 16)
	gi, _ := p.Generate(1, 0, 0)
	gOuter, _ := p.Generate(2, 1, 0)
	_, err := vt.AddInner(gi)
	require.NoError(t, err)
	_, err = vt.AddOuter(gOuter)
	require.NoError(t, err)

	all := vt.AllVertices()
	require.Len(t, all, 2)
	assert.Equal(t, gi, all[0])
	assert.Equal(t, gOuter, all[1])
}
