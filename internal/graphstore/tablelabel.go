package graphstore

import "sync"

// TableLabelIndex ports graph_store.h's vertex_table_maps_/
// edge_table_maps_ (SPEC_FULL.md §C): a table-name -> label-id lookup
// independent of the RGMapping's own maps, letting graph-store-side code
// re-resolve a table name to a label id after internal/translator has
// already converted an event to label space.
type TableLabelIndex struct {
	mu           sync.RWMutex
	vertexTables map[string]int
	edgeTables   map[string]int
}

// NewTableLabelIndex returns an empty TableLabelIndex.
func NewTableLabelIndex() *TableLabelIndex {
	return &TableLabelIndex{
		vertexTables: make(map[string]int),
		edgeTables:   make(map[string]int),
	}
}

func (t *TableLabelIndex) AddVertexTable(name string, labelID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.vertexTables[name] = labelID
}

func (t *TableLabelIndex) VertexLabelID(name string) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.vertexTables[name]
	return id, ok
}

func (t *TableLabelIndex) AddEdgeTable(name string, labelID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.edgeTables[name] = labelID
}

func (t *TableLabelIndex) EdgeLabelID(name string) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.edgeTables[name]
	return id, ok
}
