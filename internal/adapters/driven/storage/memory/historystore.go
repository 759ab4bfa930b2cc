package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure the history stores implement the interfaces.
var (
	_ driven.MappingStore = (*MappingStore)(nil)
	_ driven.RunStore     = (*RunStore)(nil)
)

// MappingStore is an in-memory implementation of driven.MappingStore.
type MappingStore struct {
	mu       sync.RWMutex
	mappings map[string]domain.TargetMapping
}

// NewMappingStore creates a new in-memory mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{mappings: make(map[string]domain.TargetMapping)}
}

// Put stores or replaces a mapping.
func (s *MappingStore) Put(_ context.Context, mapping domain.TargetMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[mapping.SourceID] = mapping
	return nil
}

// Get returns the mapping for a source document.
func (s *MappingStore) Get(_ context.Context, sourceID string) (*domain.TargetMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[sourceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.RunRecord
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record stores a finished run.
func (s *RunStore) Record(_ context.Context, run domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// List returns the most recent runs, newest first.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.RunRecord, len(s.runs))
	copy(runs, s.runs)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
