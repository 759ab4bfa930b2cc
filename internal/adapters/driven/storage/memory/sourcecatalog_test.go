package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

func TestSourceCatalog_ListFiltersAndOrders(t *testing.T) {
	catalog := NewSourceCatalog()
	day := func(d int) time.Time { return time.Date(2026, 2, d, 9, 0, 0, 0, time.UTC) }

	catalog.Put("folder", domain.SourceDocument{ID: "late", Name: "Daily Standup and Checkin", CreatedAt: day(11)}, "b")
	catalog.Put("folder", domain.SourceDocument{ID: "early", Name: "Daily Standup and Checkin", CreatedAt: day(10)}, "a")
	catalog.Put("folder", domain.SourceDocument{ID: "other", Name: "Retro", CreatedAt: day(9)}, "c")
	catalog.Put("elsewhere", domain.SourceDocument{ID: "moved", Name: "Daily Standup and Checkin", CreatedAt: day(8)}, "d")

	docs, err := catalog.List(context.Background(), domain.SourceQuery{ParentID: "folder", NameFilter: "Daily Standup"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "early", docs[0].ID)
	assert.Equal(t, "late", docs[1].ID)
}

func TestSourceCatalog_ExportText(t *testing.T) {
	catalog := NewSourceCatalog()
	ctx := context.Background()
	catalog.Put("f", domain.SourceDocument{ID: "s1", Name: "x"}, "notes")

	body, err := catalog.ExportText(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "notes", body)

	_, err = catalog.ExportText(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("boom")
	catalog.FailExport("s1", boom)
	_, err = catalog.ExportText(ctx, "s1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, catalog.Exports())
}

func TestSourceCatalog_FailList(t *testing.T) {
	catalog := NewSourceCatalog()
	catalog.FailList(domain.ErrUpstreamUnavailable)

	_, err := catalog.List(context.Background(), domain.SourceQuery{})
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
