package graphstore

import "sync"

// GlobalKeyIndex ports graph_store.h's key_pid_map_/pid_off_map_/
// key_off_map_/key_lid_map_ (SPEC_FULL.md §C): it resolves which
// partition owns a vertex referenced by a stable global key, before a
// local outer-vertex mirror for it exists. AddGlobalOff assigns the next
// free global offset for (vlabel, pid) the first time a key is seen for
// that partition; GetPidOff and GetLid are pure lookups.
type GlobalKeyIndex struct {
	mu     sync.RWMutex
	keyPid map[int]map[uint64]int    // vlabel -> key -> owning partition
	keyOff map[int]map[uint64]int    // vlabel -> key -> global offset within that partition
	pidOff map[int]map[int]int       // vlabel -> pid -> next global offset to assign
	keyLid map[int]map[uint64]uint64 // vlabel -> key -> local id (vertex-table slot), once resolved
}

// NewGlobalKeyIndex returns an empty GlobalKeyIndex.
func NewGlobalKeyIndex() *GlobalKeyIndex {
	return &GlobalKeyIndex{
		keyPid: make(map[int]map[uint64]int),
		keyOff: make(map[int]map[uint64]int),
		pidOff: make(map[int]map[int]int),
		keyLid: make(map[int]map[uint64]uint64),
	}
}

// AddGlobalOff records that key (for vlabel) is owned by partition pid,
// assigning it the next free global offset for that (vlabel, pid) pair.
// Calling it again for the same key is idempotent: the first assignment
// wins, matching the original's map-insert-if-absent semantics.
func (g *GlobalKeyIndex) AddGlobalOff(vlabel int, key uint64, pid int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.keyPid[vlabel] == nil {
		g.keyPid[vlabel] = make(map[uint64]int)
		g.keyOff[vlabel] = make(map[uint64]int)
		g.pidOff[vlabel] = make(map[int]int)
	}
	if off, ok := g.keyOff[vlabel][key]; ok {
		return off
	}

	g.keyPid[vlabel][key] = pid
	off := g.pidOff[vlabel][pid]
	g.pidOff[vlabel][pid] = off + 1
	g.keyOff[vlabel][key] = off
	return off
}

// GetPidOff returns the owning partition and global offset previously
// recorded for key.
func (g *GlobalKeyIndex) GetPidOff(vlabel int, key uint64) (pid, off int, ok bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	pid, ok1 := g.keyPid[vlabel][key]
	off, ok2 := g.keyOff[vlabel][key]
	return pid, off, ok1 && ok2
}

// SetLid records the local vertex-table slot a key resolved to.
func (g *GlobalKeyIndex) SetLid(vlabel int, key, lid uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.keyLid[vlabel] == nil {
		g.keyLid[vlabel] = make(map[uint64]uint64)
	}
	g.keyLid[vlabel][key] = lid
}

// GetLid returns the local id previously set for key, if any.
func (g *GlobalKeyIndex) GetLid(vlabel int, key uint64) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	lid, ok := g.keyLid[vlabel][key]
	return lid, ok
}
