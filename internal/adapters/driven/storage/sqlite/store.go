package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docbridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a unified SQLite-based storage that provides access to
// the ledger and history interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docbridge/data/ledger.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docbridge", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LedgerStore returns a LedgerStore interface backed by this store.
func (s *Store) LedgerStore() driven.LedgerStore {
	return &ledgerStore{store: s}
}

// MappingStore returns a MappingStore interface backed by this store.
func (s *Store) MappingStore() driven.MappingStore {
	return &mappingStore{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Ledger Store ====================

// ledgerStore implements driven.LedgerStore.
type ledgerStore struct {
	store *Store
}

var _ driven.LedgerStore = (*ledgerStore)(nil)

// Load returns every processed source ID.
func (l *ledgerStore) Load(ctx context.Context) (domain.ProcessedSet, error) {
	rows, err := l.store.db.QueryContext(ctx, "SELECT source_id FROM processed_sources")
	if err != nil {
		return nil, fmt.Errorf("%w: querying ledger: %w", domain.ErrLedgerCorrupt, err)
	}
	defer rows.Close()

	set := domain.NewProcessedSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning ledger: %w", domain.ErrLedgerCorrupt, err)
		}
		set.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading ledger: %w", domain.ErrLedgerCorrupt, err)
	}
	return set, nil
}

// Save replaces the ledger contents in one transaction.
func (l *ledgerStore) Save(ctx context.Context, set domain.ProcessedSet) error {
	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM processed_sources"); err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO processed_sources (source_id) VALUES (?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range set.Sorted() {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("inserting %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Reset deletes every processed source ID.
func (l *ledgerStore) Reset(ctx context.Context) error {
	if _, err := l.store.db.ExecContext(ctx, "DELETE FROM processed_sources"); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	return nil
}

// Location returns the database path.
func (l *ledgerStore) Location() string {
	return l.store.path
}

// ==================== Mapping Store ====================

// mappingStore implements driven.MappingStore.
type mappingStore struct {
	store *Store
}

var _ driven.MappingStore = (*mappingStore)(nil)

// Put stores or replaces a mapping.
func (m *mappingStore) Put(ctx context.Context, mapping domain.TargetMapping) error {
	_, err := m.store.db.ExecContext(ctx, `
		INSERT INTO target_mappings (source_id, target_id, title, recorded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_id) DO UPDATE SET
			target_id = excluded.target_id,
			title = excluded.title,
			recorded_at = excluded.recorded_at
	`, mapping.SourceID, mapping.TargetID, mapping.Title, mapping.RecordedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}
	return nil
}

// Get returns the mapping for a source document.
func (m *mappingStore) Get(ctx context.Context, sourceID string) (*domain.TargetMapping, error) {
	var mapping domain.TargetMapping
	var recordedAt string
	err := m.store.db.QueryRowContext(ctx, `
		SELECT source_id, target_id, title, recorded_at
		FROM target_mappings WHERE source_id = ?
	`, sourceID).Scan(&mapping.SourceID, &mapping.TargetID, &mapping.Title, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying mapping: %w", err)
	}
	mapping.RecordedAt, err = time.Parse(timeLayout, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at: %w", err)
	}
	return &mapping, nil
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Record stores a finished run.
func (r *runStore) Record(ctx context.Context, run domain.RunRecord) error {
	counters, err := json.Marshal(run.Counters)
	if err != nil {
		return fmt.Errorf("marshalling counters: %w", err)
	}
	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, dry_run, started_at, finished_at, counters)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Kind), run.DryRun,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		string(counters))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of zero or less
// returns every run.
func (r *runStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := `
		SELECT id, kind, dry_run, started_at, finished_at, counters
		FROM runs ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var run domain.RunRecord
		var kind, started, finished, counters string
		if err := rows.Scan(&run.ID, &kind, &run.DryRun, &started, &finished, &counters); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Kind = domain.RunKind(kind)
		if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		if err := json.Unmarshal([]byte(counters), &run.Counters); err != nil {
			return nil, fmt.Errorf("decoding counters: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
