package driving

import (
	"context"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// Reconciler repairs target documents left inconsistent by earlier writes.
type Reconciler interface {
	// Reconcile classifies every document under the parent and applies the
	// matching remediation. Per-document failures are reported, not returned.
	Reconcile(ctx context.Context, opts RepairOptions) (*domain.RepairSummary, error)
}

// RepairOptions controls one repair run.
type RepairOptions struct {
	// Parent is the container whose documents are repaired.
	Parent domain.Parent

	// DryRun performs every read and classification but no mutation.
	DryRun bool

	// Refill re-sources empty documents from the source store.
	Refill bool

	// Query selects the source documents used for refill.
	Query domain.SourceQuery

	// OnDocument, when set, is called after each document is handled.
	OnDocument func(domain.DocumentReport)
}
