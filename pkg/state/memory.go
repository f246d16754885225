package state

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/racktower/pkg/observability"
)

// MemoryStore keeps the state in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	state *State
}

// NewMemoryStore returns a store holding initial, which may be nil.
func NewMemoryStore(initial *State) *MemoryStore {
	return &MemoryStore{state: initial.Clone()}
}

func (m *MemoryStore) Load(ctx context.Context) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slots := -1
	if m.state != nil {
		slots = len(m.state.Slots)
	}
	observability.Store().OnLoad(ctx, "memory", slots, 0, nil)
	return m.state.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, s *State) error {
	start := time.Now()
	m.mu.Lock()
	m.state = s.Clone()
	m.mu.Unlock()
	observability.Store().OnSave(ctx, "memory", len(s.Slots), time.Since(start), nil)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
