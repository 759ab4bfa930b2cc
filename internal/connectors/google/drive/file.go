package drive

import (
	"fmt"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// toSourceDocument converts a Drive file to a SourceDocument.
// A file without a parseable createdTime is a malformed response.
func toSourceDocument(f *drive.File) (domain.SourceDocument, error) {
	if f.Id == "" {
		return domain.SourceDocument{}, fmt.Errorf("%w: drive file without id", domain.ErrMalformedResponse)
	}

	created, err := domain.ParseTimestamp(f.CreatedTime)
	if err != nil {
		return domain.SourceDocument{}, fmt.Errorf("%w: file %s createdTime: %w", domain.ErrMalformedResponse, f.Id, err)
	}

	doc := domain.SourceDocument{
		ID:        f.Id,
		Name:      f.Name,
		CreatedAt: created,
	}
	if f.ModifiedTime != "" {
		if modified, err := domain.ParseTimestamp(f.ModifiedTime); err == nil {
			doc.ModifiedAt = modified
		}
	}
	return doc, nil
}
