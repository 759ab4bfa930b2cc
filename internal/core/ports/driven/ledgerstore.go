package driven

import (
	"context"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// LedgerStore persists the progress ledger.
// No locking is provided: only one invocation may use a ledger at a time.
type LedgerStore interface {
	// Load returns the persisted set, or an empty set when none exists.
	// An unreadable record fails with domain.ErrLedgerCorrupt.
	Load(ctx context.Context) (domain.ProcessedSet, error)

	// Save atomically replaces the persisted record with set.
	Save(ctx context.Context, set domain.ProcessedSet) error

	// Reset deletes the persisted record.
	Reset(ctx context.Context) error

	// Location describes where the ledger lives, for display.
	Location() string
}

// MappingStore records which target document each source document became.
type MappingStore interface {
	// Put stores or replaces the mapping for a source document.
	Put(ctx context.Context, mapping domain.TargetMapping) error

	// Get returns the mapping for a source document.
	// Returns domain.ErrNotFound when none is stored.
	Get(ctx context.Context, sourceID string) (*domain.TargetMapping, error)
}

// RunStore persists run history.
type RunStore interface {
	// Record stores a finished run.
	Record(ctx context.Context, run domain.RunRecord) error

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
