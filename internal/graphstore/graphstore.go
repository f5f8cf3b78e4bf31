package graphstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dreamware/gartgraph/internal/columnstore"
	"github.com/dreamware/gartgraph/internal/hashalgo"
	"github.com/dreamware/gartgraph/internal/idparser"
	"github.com/dreamware/gartgraph/internal/registry"
	"github.com/dreamware/gartgraph/internal/schema"
	"github.com/dreamware/gartgraph/internal/vertextable"
)

// zstdEncoder/zstdDecoder are shared package-level instances: construction
// is expensive and both are documented safe for concurrent use. SpeedFastest
// favors the writer's hot epoch-advance path over the reader's cold
// history-fetch path, same tradeoff folio's compress.go makes.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// BlobSchema is a per-label descriptor of a property store's physical
// backing as of one epoch (spec.md §3): how many rows are visible as of
// that epoch. Actual page pointers stay inside internal/columnstore; this
// is the published summary a downstream reader's GartFragment shell
// consults.
type BlobSchema struct {
	VLabel   int   `json:"vlabel"`
	RowCount int64 `json:"row_count"`
}

// Snapshot is a read-only handle whose cursors are pinned at one version,
// returned by GraphStore.PropertySnapshot.
type Snapshot struct {
	store   *columnstore.Store
	version uint64
}

// Get reads column colID of row offset as of the snapshot's pinned version.
func (s *Snapshot) Get(offset, colID int) ([]byte, error) {
	return s.store.Get(offset, colID, s.version, nil)
}

type snapshotKey struct {
	label   int
	version uint64
}

// GraphStore binds one partition's vertex tables, property stores, schema,
// OID maps, and blob-schema history, and publishes both to a
// registry.Client (spec.md §4.4).
type GraphStore struct {
	Partition  int
	MetaPrefix string
	Machine    string

	Parser *idparser.Parser
	Schema *schema.Schema

	GlobalKeys *GlobalKeyIndex
	TableIndex *TableLabelIndex

	reg registry.Client

	mu              sync.RWMutex
	vertexTables    map[int]*vertextable.VertexTable
	propertyStores  map[int]*columnstore.Store // keyed by vertex-label id
	edgeStores      map[int]*columnstore.Store // keyed by edge-label id (elabel_offset-relative)
	oidMaps         map[int]*OIDMaps           // keyed by vertex-label id

	historyMu sync.Mutex
	history   map[uint64]map[int]*BlobSchema

	snapshots *lru.Cache[snapshotKey, *Snapshot]
}

// New constructs a GraphStore for one partition. snapshotCacheSize bounds
// the (label, version) -> Snapshot LRU; 0 selects a default of 256.
func New(partition int, metaPrefix, machine string, parser *idparser.Parser, sch *schema.Schema, reg registry.Client, snapshotCacheSize int) *GraphStore {
	if snapshotCacheSize <= 0 {
		snapshotCacheSize = 256
	}
	cache, _ := lru.New[snapshotKey, *Snapshot](snapshotCacheSize)
	return &GraphStore{
		Partition:      partition,
		MetaPrefix:     metaPrefix,
		Machine:        machine,
		Parser:         parser,
		Schema:         sch,
		GlobalKeys:     NewGlobalKeyIndex(),
		TableIndex:     NewTableLabelIndex(),
		reg:            reg,
		vertexTables:   make(map[int]*vertextable.VertexTable),
		propertyStores: make(map[int]*columnstore.Store),
		edgeStores:     make(map[int]*columnstore.Store),
		oidMaps:        make(map[int]*OIDMaps),
		history:        make(map[uint64]map[int]*BlobSchema),
		snapshots:      cache,
	}
}

// AddVertexLabel registers the vertex table, property store, and OID maps
// for one vertex label.
func (g *GraphStore) AddVertexLabel(label int, vt *vertextable.VertexTable, store *columnstore.Store) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vertexTables[label] = vt
	g.propertyStores[label] = store
	g.oidMaps[label] = NewOIDMaps()
}

// AddEdgeLabel registers the property store for one edge label (may be
// nil-equivalent for edges with no properties — callers still register a
// zero-column Store so lookups behave consistently).
func (g *GraphStore) AddEdgeLabel(elabel int, store *columnstore.Store) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edgeStores[elabel] = store
}

// VertexTable returns the vertex table for label.
func (g *GraphStore) VertexTable(label int) (*vertextable.VertexTable, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	vt, ok := g.vertexTables[label]
	return vt, ok
}

// Property returns the live, writable property store for a vertex label.
func (g *GraphStore) Property(label int) (*columnstore.Store, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.propertyStores[label]
	return s, ok
}

// EdgeProperty returns the live, writable property store for an edge label.
func (g *GraphStore) EdgeProperty(elabel int) (*columnstore.Store, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.edgeStores[elabel]
	return s, ok
}

// OIDs returns the OID->GID side-tables for a vertex label.
func (g *GraphStore) OIDs(label int) (*OIDMaps, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.oidMaps[label]
	return m, ok
}

// PropertySnapshot returns a read-only handle for label pinned at version,
// serving repeated requests for the same (label, version) from an LRU
// cache so long-lived readers don't force the writer to keep reopening
// the chain walk from scratch.
func (g *GraphStore) PropertySnapshot(label int, version uint64) (*Snapshot, bool) {
	key := snapshotKey{label: label, version: version}
	if snap, ok := g.snapshots.Get(key); ok {
		return snap, true
	}
	store, ok := g.Property(label)
	if !ok {
		return nil, false
	}
	snap := &Snapshot{store: store, version: version}
	g.snapshots.Add(key, snap)
	return snap, true
}

// UpdateBlob advances the epoch: it flushes each non-null property store's
// visible-row counter from its vertex table's current occupancy, snapshots
// every label's BlobSchema into history[epoch], and publishes the
// zstd-compressed snapshot plus the new latest-epoch marker to the
// registry (spec.md §4.4, §6).
func (g *GraphStore) UpdateBlob(ctx context.Context, epoch uint64) error {
	g.mu.RLock()
	snap := make(map[int]*BlobSchema, len(g.propertyStores))
	for label, store := range g.propertyStores {
		if vt, ok := g.vertexTables[label]; ok {
			store.UpdateOffset(int64(vt.MaxInnerLocation()))
		}
		snap[label] = &BlobSchema{
			VLabel:   label,
			RowCount: store.RowCount(),
		}
	}
	g.mu.RUnlock()

	g.historyMu.Lock()
	g.history[epoch] = snap
	g.historyMu.Unlock()

	if g.reg == nil {
		return nil
	}

	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("graphstore: marshal blob schema: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(doc, nil)
	_ = hashalgo.Sum64(hashalgo.XXHash3, compressed) // digest is computed but neither stored nor published

	key := registry.BlobSchemaKey(g.MetaPrefix, g.Machine, g.Partition, epoch)
	if err := g.reg.Put(ctx, key, compressed); err != nil {
		return fmt.Errorf("graphstore: publish blob schema: %w", err)
	}
	return registry.PublishLatestEpoch(ctx, g.reg, g.MetaPrefix, g.Partition, epoch)
}

// ErrVersionNotFound is returned by History when no blob-schema snapshot
// exists for the requested epoch (spec.md §7's VersionNotFound, fatal at
// the reader per that section).
var ErrVersionNotFound = fmt.Errorf("graphstore: no blob-schema snapshot for requested epoch")

// History returns the exact blob-schema snapshot recorded at epoch.
func (g *GraphStore) History(epoch uint64) (map[int]*BlobSchema, error) {
	g.historyMu.Lock()
	defer g.historyMu.Unlock()
	snap, ok := g.history[epoch]
	if !ok {
		return nil, ErrVersionNotFound
	}
	return snap, nil
}

// KnownEpochs returns every epoch with a recorded blob-schema snapshot, in
// no particular order.
func (g *GraphStore) KnownEpochs() []uint64 {
	g.historyMu.Lock()
	defer g.historyMu.Unlock()
	out := make([]uint64, 0, len(g.history))
	for epoch := range g.history {
		out = append(out, epoch)
	}
	return out
}

// GCHistory removes history entries strictly older than minLiveEpoch
// (spec.md §3's "garbage collection removes entries strictly older than
// the minimum live reader epoch").
func (g *GraphStore) GCHistory(minLiveEpoch uint64) {
	g.historyMu.Lock()
	defer g.historyMu.Unlock()
	for epoch := range g.history {
		if epoch < minLiveEpoch {
			delete(g.history, epoch)
		}
	}
}

// PublishSchema publishes the graph-wide schema JSON under this
// partition's registry key.
func (g *GraphStore) PublishSchema(ctx context.Context, forGIE bool) error {
	if g.reg == nil {
		return nil
	}
	doc, err := g.Schema.MarshalForRegistry(forGIE)
	if err != nil {
		return fmt.Errorf("graphstore: marshal schema: %w", err)
	}
	return g.reg.Put(ctx, registry.SchemaKey(g.MetaPrefix, g.Partition), doc)
}

// DecompressBlobSchema reverses the zstd compression UpdateBlob applies,
// for a reader that fetched the raw bytes from the registry directly.
func DecompressBlobSchema(compressed []byte) (map[int]*BlobSchema, error) {
	doc, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("graphstore: decompress blob schema: %w", err)
	}
	var snap map[int]*BlobSchema
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("graphstore: unmarshal blob schema: %w", err)
	}
	return snap, nil
}
