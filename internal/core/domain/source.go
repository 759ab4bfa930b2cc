package domain

import "time"

// SourceDocument is an authored document listed from the source store.
// Identity is ID; it is never mutated by docbridge.
type SourceDocument struct {
	// ID is the stable, opaque identifier assigned by the source store.
	ID string

	// Name is the display name of the document.
	Name string

	// CreatedAt is when the document was created in the source store.
	CreatedAt time.Time

	// ModifiedAt is when the document was last modified.
	ModifiedAt time.Time
}

// DateKey returns the UTC calendar date the document was created on.
func (d SourceDocument) DateKey() string {
	return DateKey(d.CreatedAt)
}

// SourceQuery selects the candidate set from the source store.
type SourceQuery struct {
	// ParentID is the container (folder) the documents must live in.
	ParentID string

	// NameFilter is a substring every document name must contain.
	NameFilter string
}

// IndexByDate groups source documents by UTC creation date, preserving the
// input order inside each date.
func IndexByDate(docs []SourceDocument) map[string][]SourceDocument {
	index := make(map[string][]SourceDocument, len(docs))
	for _, doc := range docs {
		key := doc.DateKey()
		index[key] = append(index[key], doc)
	}
	return index
}
