package driven

import (
	"context"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// SourceCatalog reads the source store.
// Implementations perform no retries; transport failures wrap
// domain.ErrUpstreamUnavailable and are returned verbatim.
type SourceCatalog interface {
	// List returns every document matching the query, fully paginated,
	// ordered by creation time ascending.
	List(ctx context.Context, query domain.SourceQuery) ([]domain.SourceDocument, error)

	// ExportText returns the plain-text rendering of one document's body.
	ExportText(ctx context.Context, id string) (string, error)
}
