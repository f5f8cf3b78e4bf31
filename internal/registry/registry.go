package registry

import (
	"context"
	"fmt"
)

// Client is the metadata-registry contract a GraphStore writer and a
// reader coordinator both depend on. Keys follow spec.md §6's layout;
// SchemaKey/LatestEpochKey/BlobSchemaKey build them consistently so
// callers never hand-format a key themselves.
type Client interface {
	// Put writes value under key, creating or overwriting it.
	Put(ctx context.Context, key string, value []byte) error
	// Get reads the value stored under key. ok is false if the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
}

// SchemaKey is <meta_prefix>gart_schema_p<partition>.
func SchemaKey(metaPrefix string, partition int) string {
	return fmt.Sprintf("%sgart_schema_p%d", metaPrefix, partition)
}

// LatestEpochKey is <meta_prefix>gart_latest_epoch_p<partition>.
func LatestEpochKey(metaPrefix string, partition int) string {
	return fmt.Sprintf("%sgart_latest_epoch_p%d", metaPrefix, partition)
}

// BlobSchemaKey is <meta_prefix>gart_blob_m<machine>_p<partition>_e<epoch>.
func BlobSchemaKey(metaPrefix, machine string, partition int, epoch uint64) string {
	return fmt.Sprintf("%sgart_blob_m%s_p%d_e%d", metaPrefix, machine, partition, epoch)
}
