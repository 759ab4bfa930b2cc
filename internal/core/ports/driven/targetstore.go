package driven

import (
	"context"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// TargetStore reads and writes the target store.
//
// The platform seeds exactly one blank page when a document is created and
// offers no hard page delete, so the only content mutation is a full page
// replace and the only erasure is NeutralizePage.
type TargetStore interface {
	// CreateShell creates a document and returns its ID. The submitted body
	// is ignored by the platform; the default page must be written afterwards.
	// A response without an extractable ID fails with domain.ErrMalformedResponse.
	CreateShell(ctx context.Context, req domain.ShellRequest) (string, error)

	// ListDocuments returns the documents under a parent, without pages.
	ListDocuments(ctx context.Context, parent domain.Parent) ([]domain.TargetDocument, error)

	// ListPages returns a document's pages in order. Page 0 is the default page.
	ListPages(ctx context.Context, documentID string) ([]domain.PageRef, error)

	// ReadPage returns one page with its content.
	ReadPage(ctx context.Context, documentID, pageID string) (*domain.TargetPage, error)

	// ReplacePage overwrites a page's name and content (full replace, never append).
	ReplacePage(ctx context.Context, documentID, pageID, name, content string) error

	// NeutralizePage overwrites a page with the duplicate marker.
	// This is one-way: nothing in docbridge restores a neutralized page.
	NeutralizePage(ctx context.Context, documentID, pageID string) error
}
