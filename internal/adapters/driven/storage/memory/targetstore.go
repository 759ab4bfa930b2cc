package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure TargetStore implements the interface.
var _ driven.TargetStore = (*TargetStore)(nil)

// Target store operations, used as fault keys and in the call log.
const (
	OpCreateShell    = "create_shell"
	OpListDocuments  = "list_documents"
	OpListPages      = "list_pages"
	OpReadPage       = "read_page"
	OpReplacePage    = "replace_page"
	OpNeutralizePage = "neutralize_page"
)

// FaultFunc returns a non-nil error to make an operation fail.
// key is the document title for OpCreateShell and the document ID otherwise.
type FaultFunc func(op, key string) error

type targetDoc struct {
	doc   domain.TargetDocument
	pages []domain.TargetPage
}

// TargetStore is an in-memory implementation of driven.TargetStore that
// behaves like the hosted platform: a created document is seeded with one
// blank default page and the create body is ignored.
type TargetStore struct {
	mu          sync.Mutex
	docs        map[string]*targetDoc
	order       []string
	seq         int
	seedDefault bool
	fault       FaultFunc
	calls       []string
}

// NewTargetStore creates an empty target store.
func NewTargetStore() *TargetStore {
	return &TargetStore{
		docs:        make(map[string]*targetDoc),
		seedDefault: true,
	}
}

// SetFault installs a fault hook. A nil hook clears it.
func (s *TargetStore) SetFault(fn FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// SetSeedDefaultPage controls whether CreateShell seeds a default page.
func (s *TargetStore) SetSeedDefaultPage(seed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedDefault = seed
}

// Seed inserts a document with the given pages. Page positions are
// assigned from slice order.
func (s *TargetStore) Seed(doc domain.TargetDocument, pages ...domain.TargetPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range pages {
		pages[i].Position = i
	}
	doc.Pages = nil
	if _, ok := s.docs[doc.ID]; !ok {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = &targetDoc{doc: doc, pages: pages}
}

// Document returns a snapshot of a document with its pages.
func (s *TargetStore) Document(id string) (domain.TargetDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	td, ok := s.docs[id]
	if !ok {
		return domain.TargetDocument{}, false
	}
	doc := td.doc
	doc.Pages = append([]domain.TargetPage(nil), td.pages...)
	return doc, true
}

// Documents returns snapshots of every document in creation order.
func (s *TargetStore) Documents() []domain.TargetDocument {
	s.mu.Lock()
	ids := append([]string(nil), s.order...)
	s.mu.Unlock()

	docs := make([]domain.TargetDocument, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.Document(id); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Calls returns the operations performed so far, as "op:key".
func (s *TargetStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Mutations returns the number of create, replace and neutralize calls.
func (s *TargetStore) Mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		switch opOf(c) {
		case OpCreateShell, OpReplacePage, OpNeutralizePage:
			n++
		}
	}
	return n
}

func opOf(call string) string {
	for i := 0; i < len(call); i++ {
		if call[i] == ':' {
			return call[:i]
		}
	}
	return call
}

// record logs a call and consults the fault hook. Caller holds s.mu.
func (s *TargetStore) record(op, key string) error {
	s.calls = append(s.calls, op+":"+key)
	if s.fault != nil {
		return s.fault(op, key)
	}
	return nil
}

// CreateShell creates a document named after the request title.
func (s *TargetStore) CreateShell(_ context.Context, req domain.ShellRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpCreateShell, req.Title); err != nil {
		return "", err
	}

	s.seq++
	id := fmt.Sprintf("doc-%d", s.seq)
	td := &targetDoc{doc: domain.TargetDocument{ID: id, Name: req.Title, Parent: req.Parent}}
	if s.seedDefault {
		td.pages = []domain.TargetPage{{ID: id + "-page-0", Position: domain.DefaultPagePosition}}
	}
	s.docs[id] = td
	s.order = append(s.order, id)
	return id, nil
}

// ListDocuments returns the documents under parent in creation order.
func (s *TargetStore) ListDocuments(_ context.Context, parent domain.Parent) ([]domain.TargetDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpListDocuments, parent.ID); err != nil {
		return nil, err
	}

	var docs []domain.TargetDocument
	for _, id := range s.order {
		doc := s.docs[id].doc
		if doc.Parent == parent {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// ListPages returns the page listing of a document.
func (s *TargetStore) ListPages(_ context.Context, docID string) ([]domain.PageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpListPages, docID); err != nil {
		return nil, err
	}

	td, ok := s.docs[docID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}
	refs := make([]domain.PageRef, 0, len(td.pages))
	for _, p := range td.pages {
		refs = append(refs, domain.PageRef{ID: p.ID, Name: p.Name, Position: p.Position})
	}
	return refs, nil
}

// ReadPage returns one page with its content.
func (s *TargetStore) ReadPage(_ context.Context, docID, pageID string) (*domain.TargetPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpReadPage, docID); err != nil {
		return nil, err
	}

	page, err := s.page(docID, pageID)
	if err != nil {
		return nil, err
	}
	p := *page
	return &p, nil
}

// ReplacePage overwrites the name and content of a page.
func (s *TargetStore) ReplacePage(_ context.Context, docID, pageID, name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpReplacePage, docID); err != nil {
		return err
	}
	return s.replace(docID, pageID, name, content)
}

// NeutralizePage overwrites a page with the duplicate marker.
func (s *TargetStore) NeutralizePage(_ context.Context, docID, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpNeutralizePage, docID); err != nil {
		return err
	}
	return s.replace(docID, pageID, domain.NeutralizedPageName, domain.NeutralizedPageContent)
}

func (s *TargetStore) replace(docID, pageID, name, content string) error {
	page, err := s.page(docID, pageID)
	if err != nil {
		return err
	}
	page.Name = name
	page.Content = content
	return nil
}

func (s *TargetStore) page(docID, pageID string) (*domain.TargetPage, error) {
	td, ok := s.docs[docID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", docID, domain.ErrNotFound)
	}
	for i := range td.pages {
		if td.pages[i].ID == pageID {
			return &td.pages[i], nil
		}
	}
	return nil, fmt.Errorf("page %s/%s: %w", docID, pageID, domain.ErrNotFound)
}
