package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
)

// Ensure LedgerService implements the interface.
var _ driving.LedgerService = (*LedgerService)(nil)

// LedgerService inspects and resets the progress ledger.
type LedgerService struct {
	ledger driven.LedgerStore
	runs   driven.RunStore
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledger driven.LedgerStore) *LedgerService {
	return &LedgerService{ledger: ledger}
}

// WithRunStore enables run history.
func (s *LedgerService) WithRunStore(runs driven.RunStore) *LedgerService {
	s.runs = runs
	return s
}

// Status returns the ledger location and its processed IDs.
func (s *LedgerService) Status(ctx context.Context) (*driving.LedgerStatus, error) {
	set, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return &driving.LedgerStatus{
		Location:  s.ledger.Location(),
		Processed: set.Len(),
		IDs:       set.Sorted(),
	}, nil
}

// Reset deletes the persisted ledger.
func (s *LedgerService) Reset(ctx context.Context) error {
	if err := s.ledger.Reset(ctx); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

// History returns recorded runs, newest first.
func (s *LedgerService) History(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("%w: run history is kept by the sqlite ledger backend", domain.ErrNotFound)
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
