package driving

import (
	"context"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// Migrator backfills source documents into the target store.
type Migrator interface {
	// Plan lists the candidates and set-differences them against the ledger.
	// It performs no writes.
	Plan(ctx context.Context, opts MigrationOptions) (*domain.MigrationPlan, error)

	// Run plans and then processes the queue one item at a time.
	// Per-item failures are reported in the summary, not returned.
	Run(ctx context.Context, opts MigrationOptions) (*domain.MigrationSummary, error)
}

// MigrationOptions controls one migration run.
type MigrationOptions struct {
	// Query selects the source candidates.
	Query domain.SourceQuery

	// Parent is where target documents are created.
	Parent domain.Parent

	// DryRun stops after planning: no writer calls, no ledger mutation.
	DryRun bool

	// ResetLedger clears the ledger before planning.
	ResetLedger bool

	// OnItem, when set, is called after each item finishes.
	OnItem func(domain.ItemResult)
}
