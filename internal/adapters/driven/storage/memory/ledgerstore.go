package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an in-memory implementation of driven.LedgerStore.
type LedgerStore struct {
	mu      sync.RWMutex
	set     domain.ProcessedSet
	saves   int
	saveErr error
}

// NewLedgerStore creates a ledger holding ids.
func NewLedgerStore(ids ...string) *LedgerStore {
	return &LedgerStore{set: domain.NewProcessedSet(ids...)}
}

// Load returns a copy of the stored set.
func (s *LedgerStore) Load(_ context.Context) (domain.ProcessedSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Clone(), nil
}

// Save replaces the stored set with a copy of set.
func (s *LedgerStore) Save(_ context.Context, set domain.ProcessedSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.set = set.Clone()
	s.saves++
	return nil
}

// Reset clears the stored set.
func (s *LedgerStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = domain.NewProcessedSet()
	return nil
}

// Location returns a display name for the ledger.
func (s *LedgerStore) Location() string {
	return ":memory:"
}

// FailSaves makes every following Save return err. A nil err clears it.
func (s *LedgerStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Saves returns the number of successful saves.
func (s *LedgerStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
