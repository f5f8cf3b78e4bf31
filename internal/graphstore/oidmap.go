package graphstore

import (
	"sync"

	"github.com/dreamware/gartgraph/internal/idparser"
)

// OIDMaps holds the two side-tables spec.md §3 describes for one vertex
// label: string->GID and int64->GID. Their union is the set of live OIDs
// for that label; an OID appears in at most one of the two. Written by
// the translator, read by the writer (spec.md §5's shared-resource
// policy), so access is mutex-guarded rather than lock-free like the
// column store's reads.
type OIDMaps struct {
	mu        sync.RWMutex
	int64Map  map[int64]idparser.GID
	stringMap map[string]idparser.GID
}

// NewOIDMaps returns an empty OIDMaps.
func NewOIDMaps() *OIDMaps {
	return &OIDMaps{
		int64Map:  make(map[int64]idparser.GID),
		stringMap: make(map[string]idparser.GID),
	}
}

func (m *OIDMaps) PutInt64(oid int64, gid idparser.GID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.int64Map[oid] = gid
}

func (m *OIDMaps) PutString(oid string, gid idparser.GID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stringMap[oid] = gid
}

func (m *OIDMaps) GetInt64(oid int64) (idparser.GID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gid, ok := m.int64Map[oid]
	return gid, ok
}

func (m *OIDMaps) GetString(oid string) (idparser.GID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gid, ok := m.stringMap[oid]
	return gid, ok
}
