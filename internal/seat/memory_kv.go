package seat

import (
	"context"
	"sync"
)

// MemoryKV is an in-memory KV for tests and single-process setups. A store
// reconstructed over the same MemoryKV observes previous writes, which
// models a process reload.
type MemoryKV struct {
	mu    sync.Mutex
	value []byte
	set   bool
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{}
}

func (m *MemoryKV) Get(_ context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, false, nil
	}
	cp := make([]byte, len(m.value))
	copy(cp, m.value)
	return cp, true, nil
}

func (m *MemoryKV) Set(_ context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = make([]byte, len(value))
	copy(m.value, value)
	m.set = true
	return nil
}

func (m *MemoryKV) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = nil
	m.set = false
	return nil
}
