package vertextable

import (
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/dreamware/gartgraph/internal/idparser"
)

// tombstoneBit marks a slot as a tombstone rather than a live GID. GIDs
// never set this bit (idparser.Parser.Generate guarantees it), so it
// doubles as the discriminant between a live slot and a tombstone.
const tombstoneBit = uint64(1) << 63

// ErrFull is returned by add_inner/add_outer when the two regions have
// met (max_inner_location == min_outer_location).
var ErrFull = fmt.Errorf("vertextable: inner and outer regions have met")

// VertexTable is the fixed-size, two-ended slot array for one vertex
// label. The zero value is not usable; construct with New.
type VertexTable struct {
	mu sync.Mutex // guards region bounds, slots, and the tombstone bitmap, for writers and readers alike

	label  int
	parser *idparser.Parser

	slots []idparser.GID

	maxInnerLocation int // exclusive upper bound of the inner region
	minOuterLocation int // inclusive lower bound of the outer region

	// maxInner is a high-water-mark counter of successful add_inner calls.
	// delete_inner does not decrement it (source behavior preserved, see
	// spec.md §9's open question); it is documented here as counting
	// high-water-mark occupancy, not live inner vertices.
	maxInner int

	tombstones *roaring.Bitmap // indices of entries a tombstone has deleted, for O(1) iterator skip
}

// New allocates a vertex table of the given size for label, using parser
// to extract the embedded offset from a GID during delete_inner.
func New(label, size int, parser *idparser.Parser) *VertexTable {
	return &VertexTable{
		label:            label,
		parser:           parser,
		slots:            make([]idparser.GID, size),
		minOuterLocation: size,
		tombstones:       roaring.New(),
	}
}

func isTombstone(g idparser.GID) bool {
	return uint64(g)&tombstoneBit != 0
}

func tombstonePayload(g idparser.GID) int {
	return int(uint64(g) &^ tombstoneBit)
}

func makeTombstone(index int) idparser.GID {
	return idparser.GID(tombstoneBit | uint64(index))
}

// AddInner asserts max_inner_location < min_outer_location, writes gid at
// max_inner_location, and advances both max_inner_location and the
// maxInner high-water mark.
func (vt *VertexTable) AddInner(gid idparser.GID) (int, error) {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	if vt.maxInnerLocation >= vt.minOuterLocation {
		return 0, ErrFull
	}
	idx := vt.maxInnerLocation
	vt.slots[idx] = gid
	vt.maxInnerLocation++
	vt.maxInner++
	return idx, nil
}

// DeleteInner linearly scans [0, max_inner_location) skipping tombstones,
// finds the entry whose embedded offset (via the ID parser) matches
// offsetInLabel, and appends a tombstone at max_inner_location whose
// payload is the index of the found entry. max_inner_location advances;
// per spec.md §9, maxInner (the high-water-mark counter) is unchanged.
func (vt *VertexTable) DeleteInner(offsetInLabel int64) error {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	found := -1
	for i := 0; i < vt.maxInnerLocation; i++ {
		g := vt.slots[i]
		if isTombstone(g) {
			continue
		}
		if vt.parser.OffsetOf(g) == offsetInLabel {
			found = i
			break
		}
	}
	if found == -1 {
		return fmt.Errorf("vertextable: no live inner vertex with offset %d", offsetInLabel)
	}

	if vt.maxInnerLocation >= vt.minOuterLocation {
		return ErrFull
	}
	tombIdx := vt.maxInnerLocation
	vt.slots[tombIdx] = makeTombstone(found)
	vt.maxInnerLocation++
	vt.tombstones.Add(uint32(found))
	return nil
}

// AddOuter is the outer-region symmetric of AddInner: writes gid at
// min_outer_location-1 and decrements min_outer_location.
func (vt *VertexTable) AddOuter(gid idparser.GID) (int, error) {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	if vt.maxInnerLocation >= vt.minOuterLocation {
		return 0, ErrFull
	}
	idx := vt.minOuterLocation - 1
	vt.slots[idx] = gid
	vt.minOuterLocation = idx
	return idx, nil
}

// DeleteOuter linearly scans the outer region from the end inward for a
// slot holding exactly gid, and appends a tombstone at min_outer_location-1
// (then decrements min_outer_location) whose payload is the index of the
// found entry. If gid is not found, this is logged and ignored, matching
// the preserved source behavior.
func (vt *VertexTable) DeleteOuter(gid idparser.GID, log func(format string, args ...any)) error {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	found := -1
	for i := len(vt.slots) - 1; i >= vt.minOuterLocation; i-- {
		g := vt.slots[i]
		if isTombstone(g) {
			continue
		}
		if g == gid {
			found = i
			break
		}
	}
	if found == -1 {
		if log != nil {
			log("vertextable: delete_outer label=%d gid=%d not found, ignoring", vt.label, gid)
		}
		return nil
	}

	if vt.maxInnerLocation >= vt.minOuterLocation {
		return ErrFull
	}
	tombIdx := vt.minOuterLocation - 1
	vt.slots[tombIdx] = makeTombstone(found)
	vt.minOuterLocation = tombIdx
	vt.tombstones.Add(uint32(found))
	return nil
}

// MaxInnerCount returns the high-water-mark number of successful
// add_inner calls (see GraphStore.get_vtable_max_inner in SPEC_FULL.md
// §C). This is not necessarily the number of currently-live inner
// vertices, since delete_inner does not decrement it.
func (vt *VertexTable) MaxInnerCount() int {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.maxInner
}

// InnerVertices returns every live (non-tombstoned) GID in the inner
// region, in slot order.
func (vt *VertexTable) InnerVertices() []idparser.GID {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	out := make([]idparser.GID, 0, vt.maxInnerLocation)
	for i := 0; i < vt.maxInnerLocation; i++ {
		if vt.tombstones.Contains(uint32(i)) {
			continue
		}
		g := vt.slots[i]
		if isTombstone(g) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// AllVertices returns every live GID across both the inner and outer
// regions, inner-first.
func (vt *VertexTable) AllVertices() []idparser.GID {
	vt.mu.Lock()
	defer vt.mu.Unlock()

	out := make([]idparser.GID, 0, vt.maxInnerLocation+(len(vt.slots)-vt.minOuterLocation))
	for i := 0; i < vt.maxInnerLocation; i++ {
		if vt.tombstones.Contains(uint32(i)) {
			continue
		}
		if isTombstone(vt.slots[i]) {
			continue
		}
		out = append(out, vt.slots[i])
	}
	for i := vt.minOuterLocation; i < len(vt.slots); i++ {
		if vt.tombstones.Contains(uint32(i)) {
			continue
		}
		if isTombstone(vt.slots[i]) {
			continue
		}
		out = append(out, vt.slots[i])
	}
	return out
}

// MaxInnerLocation returns the current exclusive upper bound of the
// inner region.
func (vt *VertexTable) MaxInnerLocation() int {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.maxInnerLocation
}

// MinOuterLocation returns the current inclusive lower bound of the
// outer region.
func (vt *VertexTable) MinOuterLocation() int {
	vt.mu.Lock()
	defer vt.mu.Unlock()
	return vt.minOuterLocation
}
