package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure SourceCatalog implements the interface.
var _ driven.SourceCatalog = (*SourceCatalog)(nil)

type sourceEntry struct {
	parentID string
	doc      domain.SourceDocument
	body     string
}

// SourceCatalog is an in-memory implementation of driven.SourceCatalog.
type SourceCatalog struct {
	mu        sync.RWMutex
	entries   []sourceEntry
	exportErr map[string]error
	listErr   error
	exports   int
}

// NewSourceCatalog creates an empty catalog.
func NewSourceCatalog() *SourceCatalog {
	return &SourceCatalog{exportErr: make(map[string]error)}
}

// Put adds a document with its plain-text body under parentID.
func (c *SourceCatalog) Put(parentID string, doc domain.SourceDocument, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, sourceEntry{parentID: parentID, doc: doc, body: body})
}

// FailExport makes ExportText for id return err.
func (c *SourceCatalog) FailExport(id string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exportErr[id] = err
}

// FailList makes List return err.
func (c *SourceCatalog) FailList(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listErr = err
}

// Exports returns the number of ExportText calls.
func (c *SourceCatalog) Exports() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exports
}

// List returns the matching documents ordered by creation time.
func (c *SourceCatalog) List(_ context.Context, query domain.SourceQuery) ([]domain.SourceDocument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.listErr != nil {
		return nil, c.listErr
	}

	var docs []domain.SourceDocument
	for _, e := range c.entries {
		if query.ParentID != "" && e.parentID != query.ParentID {
			continue
		}
		if !strings.Contains(e.doc.Name, query.NameFilter) {
			continue
		}
		docs = append(docs, e.doc)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	return docs, nil
}

// ExportText returns the stored body of a document.
func (c *SourceCatalog) ExportText(_ context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exports++
	if err := c.exportErr[id]; err != nil {
		return "", err
	}
	for _, e := range c.entries {
		if e.doc.ID == id {
			return e.body, nil
		}
	}
	return "", fmt.Errorf("export %s: %w", id, domain.ErrNotFound)
}
