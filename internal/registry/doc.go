// Package registry specifies the metadata-registry client (spec.md §6):
// transport plumbing the spec treats as an external collaborator, given
// here as an interface plus an in-memory implementation (for tests and the
// single-process demo binaries) and an HTTP implementation that PUTs/GETs
// opaque JSON blobs keyed the way spec.md §6 lays out:
//
//	<meta_prefix>gart_schema_p<partition>
//	<meta_prefix>gart_latest_epoch_p<partition>
//	<meta_prefix>gart_blob_m<machine>_p<partition>_e<epoch>
//
// Client's Put/Get, plus PublishLatestEpoch and NegotiateEpoch built on
// them, are the only operations a writer or reader needs; everything about how keys
// are actually transported (etcd, a REST gateway, a KV store) lives behind
// this interface, per spec.md's scope boundary on transport.
package registry
