// Package columnstore implements the versioned paged columnar property
// store (spec.md §3, §4.2): per vertex-label storage where non-updatable
// ("fixed") columns are flat arrays and updatable columns are chains of
// versioned pages.
//
// Each updatable column is divided into fixed-size pages of rowsPerPage
// rows. For a given (column, page number), successive writes at new
// versions allocate a new page, copy the previous page's content forward,
// and link it as the new chain head through prev; the chain is therefore
// sorted strictly-descending by version, newest-first. A point read at
// version V walks prev from the head until it finds the newest page with
// ver <= V.
//
// New page heads are published by assigning the head pointer only after
// the new page is fully initialized and its prev points at the former
// head — readers never lock, so this publication order is what keeps a
// concurrent reader from observing a partially-written page.
//
// Garbage collection (GC) detaches pages older than the oldest version any
// live reader might still request; detached pages move to an oldPages
// holding area rather than being freed immediately, since a reader that
// started walking the chain before GC ran may still hold a pointer into
// it.
package columnstore
