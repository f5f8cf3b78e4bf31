// Package graphstore binds the lower layers into the per-partition store
// a binlog writer owns (spec.md §4.4): vertex tables, per-label property
// stores, the RGMapping-derived schema, OID→GID maps, and the history of
// blob schemas. It publishes schema JSON and per-epoch blob-schema
// snapshots to a registry.Client, and exposes the read-only lookups an
// accessor (see cmd/sssp) needs to walk the graph at a pinned epoch.
//
// SPEC_FULL.md §C supplements this package with the original's
// key→partition global-offset index (GlobalKeyIndex, for resolving which
// partition owns an outer vertex) and its table-name→label-id lookup
// (TableLabelIndex), both dropped by the distilled spec but present in
// original_source/vegito/src/graph/graph_store.h.
package graphstore
