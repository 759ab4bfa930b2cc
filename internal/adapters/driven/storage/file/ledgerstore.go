package file

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

//go:embed ledger.schema.json
var ledgerSchemaJSON []byte

const ledgerSchemaURL = "https://docbridge.local/schemas/ledger.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func ledgerSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(ledgerSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse ledger schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(ledgerSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add ledger schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(ledgerSchemaURL)
	})
	return schema, schemaErr
}

// DefaultLedgerPath is the ledger location under the user's home directory.
var DefaultLedgerPath = filepath.Join(".cache", "standup-backfill-state.json")

type ledgerFile struct {
	Version      int      `json:"version"`
	ProcessedIDs []string `json:"processed_ids"`
}

// LedgerStore is a JSON file implementation of driven.LedgerStore.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a ledger backed by path.
// If path is empty, defaults to ~/.cache/standup-backfill-state.json.
func NewLedgerStore(path string) (*LedgerStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, DefaultLedgerPath)
	}
	return &LedgerStore{path: path}, nil
}

// Load reads the ledger. A missing file is an empty ledger.
func (s *LedgerStore) Load(_ context.Context) (domain.ProcessedSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewProcessedSet(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrLedgerCorrupt, s.path, err)
	}

	sch, err := ledgerSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrLedgerCorrupt, s.path, err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLedgerCorrupt, s.path, err)
	}

	var lf ledgerFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrLedgerCorrupt, s.path, err)
	}
	return domain.NewProcessedSet(lf.ProcessedIDs...), nil
}

// Save atomically replaces the ledger file.
func (s *LedgerStore) Save(_ context.Context, set domain.ProcessedSet) error {
	ids := set.Sorted()
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ledgerFile{Version: domain.LedgerVersion, ProcessedIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Reset deletes the ledger file. Deleting a missing ledger is not an error.
func (s *LedgerStore) Reset(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove ledger: %w", err)
	}
	return nil
}

// Location returns the ledger file path.
func (s *LedgerStore) Location() string {
	return s.path
}
