package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docbridge/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(tempDir, "ledger.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_MigrationsRecordedOnce(t *testing.T) {
	dataDir := t.TempDir()

	first, err := NewStore(dataDir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	store, err := NewStore(dataDir)
	require.NoError(t, err)
	defer store.Close()

	var count, version int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*), MAX(version) FROM schema_migrations").Scan(&count, &version))
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, version)

	for _, table := range []string{"processed_sources", "target_mappings", "runs"} {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestLedgerStore_SaveLoadReset(t *testing.T) {
	store := setupTestStore(t)
	ledger := store.LedgerStore()
	ctx := context.Background()

	set, err := ledger.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	require.NoError(t, ledger.Save(ctx, domain.NewProcessedSet("b", "a")))
	require.NoError(t, ledger.Save(ctx, domain.NewProcessedSet("a", "b", "c")))

	set, err = ledger.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, set.Sorted())

	require.NoError(t, ledger.Reset(ctx))
	set, err = ledger.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, store.Path(), ledger.Location())
}

func TestLedgerStore_SaveReplacesContents(t *testing.T) {
	store := setupTestStore(t)
	ledger := store.LedgerStore()
	ctx := context.Background()

	require.NoError(t, ledger.Save(ctx, domain.NewProcessedSet("a", "b")))
	require.NoError(t, ledger.Save(ctx, domain.NewProcessedSet("b")))

	set, err := ledger.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, set.Sorted())
}

func TestMappingStore_PutGet(t *testing.T) {
	store := setupTestStore(t)
	mappings := store.MappingStore()
	ctx := context.Background()
	recorded := time.Date(2026, 2, 10, 15, 30, 0, 123, time.UTC)

	_, err := mappings.Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mappings.Put(ctx, domain.TargetMapping{SourceID: "src-1", TargetID: "doc-1", Title: "t1", RecordedAt: recorded}))
	require.NoError(t, mappings.Put(ctx, domain.TargetMapping{SourceID: "src-1", TargetID: "doc-2", Title: "t2", RecordedAt: recorded}))

	m, err := mappings.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-2", m.TargetID)
	assert.Equal(t, "t2", m.Title)
	assert.True(t, recorded.Equal(m.RecordedAt))
}

func TestRunStore_RecordList(t *testing.T) {
	store := setupTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, runs.Record(ctx, domain.RunRecord{
		ID: "r1", Kind: domain.RunKindMigrate, StartedAt: base, FinishedAt: base.Add(time.Minute),
		Counters: map[string]int{"created": 2},
	}))
	require.NoError(t, runs.Record(ctx, domain.RunRecord{
		ID: "r2", Kind: domain.RunKindRepair, DryRun: true,
		StartedAt: base.Add(500 * time.Millisecond), FinishedAt: base.Add(time.Second),
		Counters: map[string]int{"fixed": 1},
	}))

	list, err := runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)
	assert.Equal(t, domain.RunKindRepair, list[0].Kind)
	assert.True(t, list[0].DryRun)
	assert.Equal(t, 1, list[0].Counters["fixed"])
	assert.Equal(t, "r1", list[1].ID)
	assert.False(t, list[1].DryRun)
	assert.True(t, base.Equal(list[1].StartedAt))

	limited, err := runs.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "r2", limited[0].ID)
}
