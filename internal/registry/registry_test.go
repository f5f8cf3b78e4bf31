package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", []byte("v")))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(v))
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "gart/gart_schema_p3", SchemaKey("gart/", 3))
	assert.Equal(t, "gart/gart_latest_epoch_p3", LatestEpochKey("gart/", 3))
	assert.Equal(t, "gart/gart_blob_mhost1_p3_e5", BlobSchemaKey("gart/", "host1", 3, 5))
}

func TestNegotiateEpochTakesMinimum(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()
	require.NoError(t, PublishLatestEpoch(ctx, c, "", 0, 7))
	require.NoError(t, PublishLatestEpoch(ctx, c, "", 1, 3))
	require.NoError(t, PublishLatestEpoch(ctx, c, "", 2, 9))

	epoch, err := NegotiateEpoch(ctx, c, "", 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), epoch)
}

func TestNegotiateEpochMissingPartitionIsZero(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory()
	require.NoError(t, PublishLatestEpoch(ctx, c, "", 0, 7))

	epoch, err := NegotiateEpoch(ctx, c, "", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), epoch, "partition 1 never published, treated as epoch 0")
}
