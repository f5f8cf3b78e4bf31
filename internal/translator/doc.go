// Package translator implements the binlog-to-graph translator (spec.md
// §4.5): it loads an RGMapping document describing which relational
// tables are vertex or edge labels, then converts a stream of JSON change
// events into unified-log lines (internal/unifiedlog), allocating GIDs
// round-robin across partitions and resolving edge endpoints through
// per-label OID->GID maps.
//
// Deletes and updates are recognized but rejected with ErrUnsupported
// (spec.md §9: "a conforming implementation should reject these rather
// than silently dropping so the operator can detect missing coverage"),
// a deliberate departure from the original converter's silent no-op TODO.
package translator
