package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

var testParent = domain.Parent{ID: "space-1", Type: domain.ParentSpace}

func TestTargetStore_CreateShellSeedsBlankDefaultPage(t *testing.T) {
	store := NewTargetStore()
	ctx := context.Background()

	id, err := store.CreateShell(ctx, domain.ShellRequest{Parent: testParent, Title: "Daily Standup — 2026-02-10", Body: "ignored"})
	require.NoError(t, err)

	pages, err := store.ListPages(ctx, id)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, domain.DefaultPagePosition, pages[0].Position)

	page, err := store.ReadPage(ctx, id, pages[0].ID)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
}

func TestTargetStore_WithoutDefaultPage(t *testing.T) {
	store := NewTargetStore()
	store.SetSeedDefaultPage(false)
	ctx := context.Background()

	id, err := store.CreateShell(ctx, domain.ShellRequest{Parent: testParent, Title: "t"})
	require.NoError(t, err)

	pages, err := store.ListPages(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestTargetStore_ListDocumentsByParent(t *testing.T) {
	store := NewTargetStore()
	ctx := context.Background()
	other := domain.Parent{ID: "folder-9", Type: domain.ParentFolder}

	store.Seed(domain.TargetDocument{ID: "a", Name: "A", Parent: testParent})
	store.Seed(domain.TargetDocument{ID: "b", Name: "B", Parent: other})
	store.Seed(domain.TargetDocument{ID: "c", Name: "C", Parent: testParent})

	docs, err := store.ListDocuments(ctx, testParent)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)
}

func TestTargetStore_ReplaceAndNeutralize(t *testing.T) {
	store := NewTargetStore()
	ctx := context.Background()
	store.Seed(domain.TargetDocument{ID: "d", Name: "D", Parent: testParent},
		domain.TargetPage{ID: "p0"},
		domain.TargetPage{ID: "p1", Name: "Notes", Content: "hello"},
	)

	require.NoError(t, store.ReplacePage(ctx, "d", "p0", "Notes", "hello"))
	require.NoError(t, store.NeutralizePage(ctx, "d", "p1"))

	doc, ok := store.Document("d")
	require.True(t, ok)
	assert.Equal(t, "hello", doc.Pages[0].Content)
	assert.Equal(t, domain.NeutralizedPageName, doc.Pages[1].Name)
	assert.Equal(t, domain.NeutralizedPageContent, doc.Pages[1].Content)
	assert.Equal(t, 2, store.Mutations())

	err := store.ReplacePage(ctx, "d", "missing", "x", "y")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTargetStore_Fault(t *testing.T) {
	store := NewTargetStore()
	ctx := context.Background()
	store.SetFault(func(op, key string) error {
		if op == OpCreateShell && key == "bad" {
			return domain.ErrUpstreamUnavailable
		}
		return nil
	})

	_, err := store.CreateShell(ctx, domain.ShellRequest{Parent: testParent, Title: "bad"})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	_, err = store.CreateShell(ctx, domain.ShellRequest{Parent: testParent, Title: "good"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"create_shell:bad", "create_shell:good"}, store.Calls())
	assert.Len(t, store.Documents(), 1)
}
