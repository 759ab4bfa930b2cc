package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[source]
folder_id = "folder-x"
page_size = 50

[target]
workspace_id = "ws-1"
parent_type = "folder"
request_interval_ms = 1000

[[repair.known_duplicates]]
date = "2026-02-18"
primary = "8cr2e8x-1717"
duplicate = "8cr2e8x-1857"

[[repair.known_duplicates]]
date = "2026-02-17"
primary = "8cr2e8x-1737"
duplicate = "8cr2e8x-1877"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfigStore_Directory(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "construction must not create the file")
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docbridge", "config.toml"), store.Path())
}

func TestNewConfigStore_ExplicitFile(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, path, store.Path())
	assert.Equal(t, "folder-x", store.GetString("source.folder_id"))
	assert.Equal(t, 50, store.GetInt("source.page_size"))
	assert.Equal(t, "folder", store.GetString("target.parent_type"))
	assert.Equal(t, 1000, store.GetInt("target.request_interval_ms"))
}

func TestConfigStore_GetTables(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	tables := store.GetTables("repair.known_duplicates")
	require.Len(t, tables, 2)
	assert.Equal(t, "2026-02-18", tables[0]["date"])
	assert.Equal(t, "8cr2e8x-1877", tables[1]["duplicate"])

	assert.Nil(t, store.GetTables("source.folder_id"))
	assert.Nil(t, store.GetTables("missing"))
}

func TestConfigStore_TypedGettersWrongType(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("source.page_size"))
	assert.Equal(t, 0, store.GetInt("source.folder_id"))
	assert.False(t, store.GetBool("source.folder_id"))
	_, ok := store.Get("nonexistent")
	assert.False(t, ok)
}

func TestConfigStore_SetPersistsNested(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("target.parent_id", "901"))
	require.NoError(t, store.Set("ledger.backend", "sqlite"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[target]")

	reloaded, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, "901", reloaded.GetString("target.parent_id"))
	assert.Equal(t, "sqlite", reloaded.GetString("ledger.backend"))
}

func TestConfigStore_SaveReload_PreservesTables(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("ledger.path", "/tmp/ledger.json"))

	reloaded, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Len(t, reloaded.GetTables("repair.known_duplicates"), 2)
	assert.Equal(t, "folder-x", reloaded.GetString("source.folder_id"))
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[source\nfolder_id = ")

	_, err := NewConfigStore(path)
	assert.Error(t, err)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, ""))
	require.NoError(t, err)

	_, ok := store.Get("source.folder_id")
	assert.False(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, flattenMap(nested, ""))
}
