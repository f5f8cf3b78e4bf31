// Package idparser implements the bit-packed encoding between a vertex's
// (fragment id, label id, offset) triple and its global graph identifier
// (GID).
//
// A GID is a 64-bit integer. Bit-widths for the three fields are derived
// once, when New constructs a Parser, from the declared capacity of the graph
// (numPartitions, numVertexLabels): enough bits to index any partition,
// enough to index any label, and the remainder for the per-partition,
// per-label offset. The high bit of the 64-bit word is never assigned by
// Generate — callers such as internal/vertextable reserve it as a
// tombstone marker.
//
// The encoding is total and bijective within the declared capacities:
// Parse(Generate(fid, label, offset)) always returns the original triple,
// and every value Generate can produce is a valid input to Parse.
package idparser
