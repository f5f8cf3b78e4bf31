// Package vertextable implements the per-label vertex table (spec.md §3,
// §4.3): a fixed-size array of GID slots with two regions growing toward
// each other — an inner region from the front, an outer region from the
// back — each supporting append-only tombstoning.
//
// Inner vertices are ones this partition owns; outer vertices are local
// mirrors of vertices owned by another partition, created when an edge
// crosses a partition boundary. Deleting an entry never removes or shifts
// it: a tombstone slot is appended at the growing edge of the same region,
// carrying the index of the deleted entry with the GID's reserved high bit
// set, so that readers holding an old slot index are never invalidated by
// a concurrent delete.
//
// A roaring.Bitmap mirrors the tombstone set for O(1) skip checks during
// iteration; the authoritative decision of *which* slot to tombstone is
// still made by the linear scan spec.md prescribes for delete_inner and
// delete_outer.
package vertextable
