// Package unifiedlog encodes and decodes the wire format emitted by
// internal/translator and consumed by a graph-store writer (spec.md §6):
//
//	add_vertex|<epoch>|<gid>|<prop1>|<prop2>|...
//	add_edge|<epoch>|<edge_label_local>|<src_gid>|<dst_gid>|<prop1>|<prop2>|...
//
// Fields are '|'-delimited and unescaped: a string property containing '|'
// corrupts parsing. This package does not introduce an escape; callers that
// need one should reject the character at ingest, per spec.md §9.
package unifiedlog
