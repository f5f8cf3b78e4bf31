// Package schema describes the shape of the property graph: which labels
// exist, which property columns each label carries, their physical widths
// and data types, and how edge labels relate source and destination vertex
// labels.
//
// A Schema is built once from the RGMapping document (cmd/writer does so
// in buildGraphStore) and then held, read-only, by the graph store
// (internal/graphstore), which publishes it to the metadata registry.
// Vertex-label ids occupy [0, ElabelOffset); edge
// ids occupy [ElabelOffset, ElabelOffset+numEdgeLabels).
package schema
