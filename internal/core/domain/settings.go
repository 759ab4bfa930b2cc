package domain

import (
	"fmt"
	"time"
)

// LedgerBackend selects where the progress ledger is persisted.
type LedgerBackend string

// Available ledger backends.
const (
	// LedgerBackendFile stores the ledger as a single JSON file.
	LedgerBackendFile LedgerBackend = "file"

	// LedgerBackendSQLite stores the ledger, target mappings and run history
	// in a SQLite database.
	LedgerBackendSQLite LedgerBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b LedgerBackend) IsValid() bool {
	return b == LedgerBackendFile || b == LedgerBackendSQLite
}

// SourceSettings configures the source store.
type SourceSettings struct {
	// FolderID is the source container documents are listed from.
	FolderID string

	// NameFilter is the substring every candidate name must contain.
	NameFilter string

	// PageSize is the list page size.
	PageSize int

	// CredentialsFile overrides the application default credentials path.
	CredentialsFile string

	// QuotaProject is billed for source API calls when set.
	QuotaProject string
}

// TargetSettings configures the target store.
type TargetSettings struct {
	// BaseURL is the API root; empty uses the platform default.
	BaseURL string

	// WorkspaceID scopes every target API call.
	WorkspaceID string

	// ParentID and ParentType locate where migrated documents are created.
	ParentID   string
	ParentType ParentType

	// RepairParentID and RepairParentType locate the documents to repair.
	RepairParentID   string
	RepairParentType ParentType

	// RequestInterval is the fixed minimum spacing between target API calls.
	RequestInterval time.Duration
}

// LedgerSettings configures progress ledger persistence.
type LedgerSettings struct {
	Backend LedgerBackend

	// Path is the ledger file (file backend) or data directory (sqlite).
	// Empty selects the backend's default location.
	Path string
}

// RepairSettings configures the repair reconciler.
type RepairSettings struct {
	KnownDuplicates KnownDuplicates
}

// Settings is the complete docbridge configuration.
type Settings struct {
	Source SourceSettings
	Target TargetSettings
	Ledger LedgerSettings
	Format ContentLayout
	Repair RepairSettings
}

// DefaultRequestInterval keeps target calls under 100 requests per minute.
const DefaultRequestInterval = 600 * time.Millisecond

// DefaultSettings returns the settings the standup backfill was first run with.
func DefaultSettings() Settings {
	return Settings{
		Source: SourceSettings{
			FolderID:   "1OFRQrDFm1buSwdh2IX_YbkWAaWfge4bk",
			NameFilter: "Daily Standup and Checkin",
			PageSize:   100,
		},
		Target: TargetSettings{
			WorkspaceID:      "9017833757",
			ParentID:         "90173963039",
			ParentType:       ParentSpace,
			RepairParentID:   "90176857901",
			RepairParentType: ParentFolder,
			RequestInterval:  DefaultRequestInterval,
		},
		Ledger: LedgerSettings{
			Backend: LedgerBackendFile,
		},
		Format: DefaultContentLayout(),
		Repair: RepairSettings{
			KnownDuplicates: KnownDuplicates{
				{Date: "2026-02-18", PrimaryID: "8cr2e8x-1717", DuplicateID: "8cr2e8x-1857"},
				{Date: "2026-02-17", PrimaryID: "8cr2e8x-1737", DuplicateID: "8cr2e8x-1877"},
				{Date: "2026-02-16", PrimaryID: "8cr2e8x-1757", DuplicateID: "8cr2e8x-1897"},
				{Date: "2026-02-13", PrimaryID: "8cr2e8x-1777", DuplicateID: "8cr2e8x-1917"},
				{Date: "2026-02-12", PrimaryID: "8cr2e8x-1797", DuplicateID: "8cr2e8x-1937"},
				{Date: "2026-02-11", PrimaryID: "8cr2e8x-1817", DuplicateID: "8cr2e8x-1957"},
				{Date: "2026-02-10", PrimaryID: "8cr2e8x-1837", DuplicateID: "8cr2e8x-1977"},
			},
		},
	}
}

// Validate checks the settings are usable.
func (s *Settings) Validate() error {
	if s.Source.PageSize <= 0 {
		return fmt.Errorf("%w: source page size must be positive", ErrInvalidInput)
	}
	if s.Target.WorkspaceID == "" {
		return fmt.Errorf("%w: target workspace id is required", ErrInvalidInput)
	}
	if !s.Target.ParentType.IsValid() {
		return fmt.Errorf("%w: target parent type %s", ErrInvalidInput, s.Target.ParentType)
	}
	if !s.Target.RepairParentType.IsValid() {
		return fmt.Errorf("%w: repair parent type %s", ErrInvalidInput, s.Target.RepairParentType)
	}
	if s.Target.RequestInterval < 0 {
		return fmt.Errorf("%w: request interval must not be negative", ErrInvalidInput)
	}
	if !s.Ledger.Backend.IsValid() {
		return fmt.Errorf("%w: ledger backend %q", ErrInvalidInput, s.Ledger.Backend)
	}
	if s.Format.TitlePrefix == "" {
		return fmt.Errorf("%w: title prefix is required", ErrInvalidInput)
	}
	for _, d := range s.Repair.KnownDuplicates {
		if _, ok := ExtractDate(d.Date); !ok || d.DuplicateID == "" {
			return fmt.Errorf("%w: known duplicate %+v", ErrInvalidInput, d)
		}
	}
	return nil
}
