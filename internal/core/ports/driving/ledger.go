package driving

import (
	"context"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// LedgerService exposes the progress ledger to operators.
type LedgerService interface {
	// Status returns the ledger location and size.
	Status(ctx context.Context) (*LedgerStatus, error)

	// Reset deletes the persisted ledger.
	Reset(ctx context.Context) error

	// History returns the most recent runs, newest first. It returns
	// domain.ErrNotFound when the backend keeps no run history.
	History(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// LedgerStatus describes the persisted ledger.
type LedgerStatus struct {
	Location  string
	Processed int
	IDs       []string
}
