package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/pitwall/internal/domain/model"
)

// MemoryStore serves a snapshot held in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewMemoryStore copies snap into a new store.
func NewMemoryStore(snap Snapshot) *MemoryStore {
	return &MemoryStore{snap: snap.Clone()}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("load: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

// Replace swaps the held snapshot after validating its entities.
func (s *MemoryStore) Replace(snap Snapshot) error {
	if err := validateEntities(model.CategoryDriver, snap.Drivers); err != nil {
		return err
	}
	if err := validateEntities(model.CategoryConstructor, snap.Constructors); err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap.Clone()
	s.mu.Unlock()
	return nil
}
