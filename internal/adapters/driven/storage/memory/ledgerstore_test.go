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

func TestLedgerStore_LoadReturnsCopy(t *testing.T) {
	store := NewLedgerStore("a")
	ctx := context.Background()

	set, err := store.Load(ctx)
	require.NoError(t, err)
	set.Add("b")

	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Sorted())
}

func TestLedgerStore_SaveAndReset(t *testing.T) {
	store := NewLedgerStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewProcessedSet("b", "a")))
	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, set.Sorted())
	assert.Equal(t, 1, store.Saves())

	require.NoError(t, store.Reset(ctx))
	set, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, ":memory:", store.Location())
}

func TestLedgerStore_FailSaves(t *testing.T) {
	store := NewLedgerStore("a")
	ctx := context.Background()
	boom := errors.New("disk full")

	store.FailSaves(boom)
	err := store.Save(ctx, domain.NewProcessedSet("a", "b"))
	assert.ErrorIs(t, err, boom)

	set, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, set.Sorted())

	store.FailSaves(nil)
	assert.NoError(t, store.Save(ctx, domain.NewProcessedSet("a", "b")))
}

func TestMappingStore_PutGet(t *testing.T) {
	store := NewMappingStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Put(ctx, domain.TargetMapping{SourceID: "src-1", TargetID: "doc-1"}))
	require.NoError(t, store.Put(ctx, domain.TargetMapping{SourceID: "src-1", TargetID: "doc-2"}))

	m, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-2", m.TargetID)
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, store.Record(ctx, domain.RunRecord{ID: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r3", runs[0].ID)
	assert.Equal(t, "r2", runs[1].ID)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
