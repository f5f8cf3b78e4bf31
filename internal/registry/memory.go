package registry

import (
	"context"
	"sync"
)

// InMemory is a Client backed by a plain map, guarded by a mutex. It
// is the registry cmd/writer uses when no registry address is configured,
// and the one tests throughout this module use in place of a real transport.
type InMemory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemory returns an empty InMemory registry.
func NewInMemory() *InMemory {
	return &InMemory{data: make(map[string][]byte)}
}

func (m *InMemory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *InMemory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}
