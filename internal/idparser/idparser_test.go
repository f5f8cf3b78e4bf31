package idparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	p := New(4, 3)

	for fid := int64(0); fid < 4; fid++ {
		for label := int64(0); label < 3; label++ {
			for offset := int64(0); offset < 50; offset++ {
				gid, err := p.Generate(fid, label, offset)
				require.NoError(t, err)

				gotFid, gotLabel, gotOffset := p.Parse(gid)
				assert.Equal(t, fid, gotFid)
				assert.Equal(t, label, gotLabel)
				assert.Equal(t, offset, gotOffset)
			}
		}
	}
}

func TestHighBitNeverSet(t *testing.T) {
	p := New(8, 8)
	gid, err := p.Generate(7, 7, (1<<57)-1)
	require.NoError(t, err)
	assert.Zero(t, uint64(gid)&(uint64(1)<<63), "Generate must never set bit 63")
}

func TestOutOfRange(t *testing.T) {
	p := New(2, 2) // 1 bit each for fid/label

	t.Run("fid too large", func(t *testing.T) {
		_, err := p.Generate(2, 0, 0)
		require.Error(t, err)
		var oor *OutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, "fid", oor.Field)
	})

	t.Run("label too large", func(t *testing.T) {
		_, err := p.Generate(0, 2, 0)
		require.Error(t, err)
		var oor *OutOfRange
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, "label", oor.Field)
	})

	t.Run("negative offset", func(t *testing.T) {
		_, err := p.Generate(0, 0, -1)
		require.Error(t, err)
	})
}

func TestSinglePartitionSingleLabel(t *testing.T) {
	// With exactly one partition and one label, both fields need zero
	// bits and the entire 63-bit space is available for offset.
	p := New(1, 1)

	gid, err := p.Generate(0, 0, 1<<40)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.FidOf(gid))
	assert.Equal(t, int64(0), p.LabelOf(gid))
	assert.Equal(t, int64(1<<40), p.OffsetOf(gid))

	_, err = p.Generate(1, 0, 0)
	assert.Error(t, err, "fid field has zero bits, any nonzero fid is out of range")
}
