package columnstore

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dreamware/gartgraph/internal/hashalgo"
)

// ErrNotUpdatable is returned when a write targets a non-updatable
// (fixed) column after the initial insert.
var ErrNotUpdatable = errors.New("columnstore: column is not updatable")

// ColumnSpec describes one physical column: its width in bytes and
// whether it participates in the multi-version page-chain protocol.
// Non-updatable columns have a single version; every read returns the
// latest write and GC is a no-op for them.
type ColumnSpec struct {
	VLen      int
	Updatable bool
}

const defaultRowsPerPage = 64

// page is one versioned snapshot of rowsPerPage rows for one (column, page
// number). Pages for a given (column, page number) form a doubly-linked
// chain, newest-first via prev, oldest-first via next.
type page struct {
	ver      uint64
	minVer   uint64 // ver of the oldest page reachable via prev, from this page
	prev     *page
	next     *page
	content  []byte // rowsPerPage * vlen bytes
	checksum uint64 // hashalgo digest of content, recomputed on each write
}

// pageChain is the mutable state for one (column, page number): the
// current head and a mutex serializing writers to this chain. Readers
// never take this lock.
type pageChain struct {
	mu   sync.Mutex
	head *page
}

// flexColumn holds the full set of page chains for one updatable column.
type flexColumn struct {
	vlen        int
	rowsPerPage int
	chains      []*pageChain // indexed by page number
	oldPagesMu  sync.Mutex
	oldPages    []*page // detached by GC, released once no reader needs them
}

// Store is the versioned paged columnar property store for a single
// vertex (or edge) label.
type Store struct {
	maxItems    int
	rowsPerPage int
	cols        []ColumnSpec

	fixCols [][]byte // fixCols[c] is nil for updatable columns

	flex []*flexColumn // flex[c] is nil for non-updatable columns

	walkSteps    atomic.Int64 // observability hook: total chain-walk link traversals
	pagesRetired atomic.Int64
	rowCount     atomic.Int64 // header counter: rows visible as of the last UpdateOffset
}

// New constructs a Store for maxItems rows across the given columns.
// rowsPerPage<=0 selects defaultRowsPerPage.
func New(cols []ColumnSpec, maxItems int, rowsPerPage int) *Store {
	if rowsPerPage <= 0 {
		rowsPerPage = defaultRowsPerPage
	}
	s := &Store{
		maxItems:    maxItems,
		rowsPerPage: rowsPerPage,
		cols:        cols,
		fixCols:     make([][]byte, len(cols)),
		flex:        make([]*flexColumn, len(cols)),
	}
	numPages := (maxItems + rowsPerPage - 1) / rowsPerPage
	if numPages < 1 {
		numPages = 1
	}
	for c, col := range cols {
		if col.Updatable {
			chains := make([]*pageChain, numPages)
			for i := range chains {
				chains[i] = &pageChain{}
			}
			s.flex[c] = &flexColumn{
				vlen:        col.VLen,
				rowsPerPage: rowsPerPage,
				chains:      chains,
			}
		} else {
			s.fixCols[c] = make([]byte, maxItems*col.VLen)
		}
	}
	return s
}

// Record is the set of column values written by a single insert/update
// call, keyed by column id.
type Record map[int][]byte

// Insert writes all columns for logical row offset at version ver. seq is
// accepted for observability/ordering but is not interpreted by the store
// itself.
func (s *Store) Insert(offset int, rec Record, seq, ver uint64) error {
	for c, col := range s.cols {
		v, ok := rec[c]
		if !ok {
			continue
		}
		if !col.Updatable {
			if err := s.writeFixed(c, offset, v); err != nil {
				return err
			}
			continue
		}
		if err := s.writeFlex(c, offset, v, ver); err != nil {
			return err
		}
	}
	return nil
}

// UpdateColumns writes a subset of (necessarily updatable) columns for row
// offset at version ver. Any fixed column in cids returns ErrNotUpdatable.
func (s *Store) UpdateColumns(offset int, cids []int, rec Record, seq, ver uint64) error {
	for _, c := range cids {
		v, ok := rec[c]
		if !ok {
			continue
		}
		if err := s.UpdateColumn(offset, c, v, ver); err != nil {
			return err
		}
	}
	return nil
}

// UpdateColumn writes a single updatable column for row offset at version
// ver. Writing a fixed column returns ErrNotUpdatable.
func (s *Store) UpdateColumn(offset, colID int, v []byte, ver uint64) error {
	if colID < 0 || colID >= len(s.cols) {
		return fmt.Errorf("columnstore: column %d out of range", colID)
	}
	if !s.cols[colID].Updatable {
		return fmt.Errorf("%w: column %d", ErrNotUpdatable, colID)
	}
	return s.writeFlex(colID, offset, v, ver)
}

func (s *Store) writeFixed(colID, offset int, v []byte) error {
	buf := s.fixCols[colID]
	vlen := s.cols[colID].VLen
	start := offset * vlen
	if start+vlen > len(buf) {
		return fmt.Errorf("columnstore: offset %d out of range for column %d", offset, colID)
	}
	copy(buf[start:start+vlen], v)
	return nil
}

func (s *Store) writeFlex(colID, offset int, v []byte, ver uint64) error {
	fc := s.flex[colID]
	if fc == nil {
		return fmt.Errorf("%w: column %d", ErrNotUpdatable, colID)
	}
	pageNumber := offset / fc.rowsPerPage
	slot := offset % fc.rowsPerPage
	if pageNumber < 0 || pageNumber >= len(fc.chains) {
		return fmt.Errorf("columnstore: offset %d out of range", offset)
	}
	chain := fc.chains[pageNumber]

	chain.mu.Lock()
	defer chain.mu.Unlock()

	head := chain.head
	if head != nil && head.ver == ver {
		// Coalesce: writes to the same (page_number, ver) land in the
		// existing head rather than allocating a new page.
		writeSlot(head.content, fc.vlen, slot, v)
		head.checksum = hashalgo.Sum64(hashalgo.XXHash3, head.content)
		return nil
	}

	newPage := &page{ver: ver, prev: head}
	if head != nil {
		newPage.content = append([]byte(nil), head.content...)
		newPage.minVer = head.minVer
		head.next = newPage
	} else {
		newPage.content = make([]byte, fc.rowsPerPage*fc.vlen)
		newPage.minVer = ver
	}
	writeSlot(newPage.content, fc.vlen, slot, v)
	newPage.checksum = hashalgo.Sum64(hashalgo.XXHash3, newPage.content)

	// Publish: the head pointer is only reassigned once newPage is fully
	// initialized, so a concurrent lock-free reader either sees the old
	// head (consistent) or the new one (also consistent), never a partial
	// write.
	chain.head = newPage
	return nil
}

func writeSlot(content []byte, vlen, slot int, v []byte) {
	start := slot * vlen
	n := copy(content[start:start+vlen], v)
	for i := start + n; i < start+vlen; i++ {
		content[i] = 0
	}
}

// Get returns the value of column colID at row offset as of version ver.
// walkCnt, if non-nil, is incremented once per page-chain link traversed
// (the spec's "optional walk counter... observability hook").
func (s *Store) Get(offset, colID int, ver uint64, walkCnt *uint64) ([]byte, error) {
	if colID < 0 || colID >= len(s.cols) {
		return nil, fmt.Errorf("columnstore: column %d out of range", colID)
	}
	col := s.cols[colID]
	if !col.Updatable {
		buf := s.fixCols[colID]
		start := offset * col.VLen
		if start+col.VLen > len(buf) {
			return nil, fmt.Errorf("columnstore: offset %d out of range for column %d", offset, colID)
		}
		out := make([]byte, col.VLen)
		copy(out, buf[start:start+col.VLen])
		return out, nil
	}

	fc := s.flex[colID]
	pageNumber := offset / fc.rowsPerPage
	slot := offset % fc.rowsPerPage
	if pageNumber < 0 || pageNumber >= len(fc.chains) {
		return nil, fmt.Errorf("columnstore: offset %d out of range", offset)
	}
	chain := fc.chains[pageNumber]

	p := chain.head
	for p != nil {
		if p.ver <= ver {
			out := make([]byte, fc.vlen)
			copy(out, p.content[slot*fc.vlen:(slot+1)*fc.vlen])
			return out, nil
		}
		p = p.prev
		s.walkSteps.Add(1)
		if walkCnt != nil {
			*walkCnt++
		}
	}
	// No page exists at or before ver: the default, zero-filled cell.
	return make([]byte, fc.vlen), nil
}

// PageView is one spliced page a reader must consult to observe a column
// scan as of a chosen version. For fixed columns the scan returns a
// single PageView covering the requested range of the flat buffer.
type PageView struct {
	StartOffset int
	Count       int
	Data        []byte // Count*vlen bytes, row-major
}

// ColumnScan returns the ordered pages a reader must splice together to
// observe column colID over [startOffset, startOffset+count) as of ver.
func (s *Store) ColumnScan(colID, startOffset, count int, ver uint64) ([]PageView, error) {
	if colID < 0 || colID >= len(s.cols) {
		return nil, fmt.Errorf("columnstore: column %d out of range", colID)
	}
	col := s.cols[colID]
	if !col.Updatable {
		buf := s.fixCols[colID]
		start := startOffset * col.VLen
		end := (startOffset + count) * col.VLen
		if start < 0 || end > len(buf) {
			return nil, fmt.Errorf("columnstore: scan range out of bounds for column %d", colID)
		}
		return []PageView{{StartOffset: startOffset, Count: count, Data: buf[start:end]}}, nil
	}

	fc := s.flex[colID]
	var views []PageView
	offset := startOffset
	remaining := count
	for remaining > 0 {
		pageNumber := offset / fc.rowsPerPage
		if pageNumber >= len(fc.chains) {
			break
		}
		pageStart := pageNumber * fc.rowsPerPage
		inPageOffset := offset - pageStart
		take := fc.rowsPerPage - inPageOffset
		if take > remaining {
			take = remaining
		}

		chain := fc.chains[pageNumber]
		p := chain.head
		for p != nil && p.ver > ver {
			p = p.prev
		}
		var data []byte
		if p == nil {
			data = make([]byte, take*fc.vlen)
		} else {
			data = append([]byte(nil), p.content[inPageOffset*fc.vlen:(inPageOffset+take)*fc.vlen]...)
		}
		views = append(views, PageView{StartOffset: offset, Count: take, Data: data})

		offset += take
		remaining -= take
	}
	return views, nil
}

// GC detaches, for every updatable column and every page chain, all pages
// strictly older than the oldest page still reachable by a reader whose
// version is >= minLiveVer. Detached pages are moved to an internal
// oldPages holding area (see ReleaseOldPages), never freed directly: a
// reader that began walking a chain before GC ran may still hold a
// pointer into it.
func (s *Store) GC(minLiveVer uint64) {
	for _, fc := range s.flex {
		if fc == nil {
			continue
		}
		for _, chain := range fc.chains {
			s.gcChain(fc, chain, minLiveVer)
		}
	}
}

func (s *Store) gcChain(fc *flexColumn, chain *pageChain, minLiveVer uint64) {
	chain.mu.Lock()
	defer chain.mu.Unlock()

	var oldest *page
	p := chain.head
	for p != nil {
		if p.ver <= minLiveVer {
			oldest = p
			break
		}
		p = p.prev
	}
	if oldest == nil || oldest.prev == nil {
		return // nothing older than the retained page, or chain is empty
	}

	retired := oldest.prev
	oldest.prev = nil
	if chain.head != nil {
		chain.head.minVer = oldest.ver
	}

	fc.oldPagesMu.Lock()
	for r := retired; r != nil; {
		next := r.prev
		r.prev = nil
		fc.oldPages = append(fc.oldPages, r)
		s.pagesRetired.Add(1)
		r = next
	}
	fc.oldPagesMu.Unlock()
}

// ReleaseOldPages drops the store's references to pages previously
// retired by GC, for every updatable column. Callers invoke this once no
// outstanding reader could still hold a pointer into the retired
// generation (e.g. after a barrier at the control plane).
func (s *Store) ReleaseOldPages() {
	for _, fc := range s.flex {
		if fc == nil {
			continue
		}
		fc.oldPagesMu.Lock()
		fc.oldPages = nil
		fc.oldPagesMu.Unlock()
	}
}

// WalkSteps returns the cumulative number of page-chain link traversals
// performed by Get, for export via internal/metrics. ColumnScan's chain
// walks are not counted.
func (s *Store) WalkSteps() int64 { return s.walkSteps.Load() }

// PagesRetired returns the cumulative number of pages moved to the
// oldPages holding area by GC, for export via internal/metrics.
func (s *Store) PagesRetired() int64 { return s.pagesRetired.Load() }

// UpdateOffset flushes the store's header counter of rows visible as of
// the current epoch to rows, mirroring update_offset in the original
// graph store: an explicit flush of a counter the writer already tracks
// (e.g. a vertex table's max_inner_location), not one the store infers
// from Insert calls.
func (s *Store) UpdateOffset(rows int64) { s.rowCount.Store(rows) }

// RowCount returns the most recently flushed visible-row count.
func (s *Store) RowCount() int64 { return s.rowCount.Load() }
