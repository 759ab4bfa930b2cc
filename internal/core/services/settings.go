package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySourceFolderID        = "source.folder_id"
	keySourceNameFilter      = "source.name_filter"
	keySourcePageSize        = "source.page_size"
	keySourceCredentialsFile = "source.credentials_file"
	keySourceQuotaProject    = "source.quota_project"
	keyTargetBaseURL         = "target.base_url"
	keyTargetWorkspaceID     = "target.workspace_id"
	keyTargetParentID        = "target.parent_id"
	keyTargetParentType      = "target.parent_type"
	keyTargetRepairParentID  = "target.repair_parent_id"
	keyTargetRepairType      = "target.repair_parent_type"
	keyTargetIntervalMS      = "target.request_interval_ms"
	keyLedgerBackend         = "ledger.backend"
	keyLedgerPath            = "ledger.path"
	keyFormatTitlePrefix     = "format.title_prefix"
	keyFormatSummaryLabel    = "format.summary_label"
	keyRepairKnownDuplicates = "repair.known_duplicates"
)

type valueKind int

const (
	kindString valueKind = iota
	kindOptionalString
	kindPositiveInt
	kindNonNegativeInt
	kindParentType
	kindLedgerBackend
)

// settableKeys lists the keys Set accepts. Known duplicates are an array of
// tables and are edited in the file directly.
var settableKeys = map[string]valueKind{
	keySourceFolderID:        kindString,
	keySourceNameFilter:      kindString,
	keySourcePageSize:        kindPositiveInt,
	keySourceCredentialsFile: kindOptionalString,
	keySourceQuotaProject:    kindOptionalString,
	keyTargetBaseURL:         kindOptionalString,
	keyTargetWorkspaceID:     kindString,
	keyTargetParentID:        kindString,
	keyTargetParentType:      kindParentType,
	keyTargetRepairParentID:  kindString,
	keyTargetRepairType:      kindParentType,
	keyTargetIntervalMS:      kindNonNegativeInt,
	keyLedgerBackend:         kindLedgerBackend,
	keyLedgerPath:            kindOptionalString,
	keyFormatTitlePrefix:     kindString,
	keyFormatSummaryLabel:    kindString,
}

// SettingsService layers the config file over the built-in defaults.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the validated settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	parentType, err := s.getParentType(keyTargetParentType, defaults.Target.ParentType)
	if err != nil {
		return nil, err
	}
	repairType, err := s.getParentType(keyTargetRepairType, defaults.Target.RepairParentType)
	if err != nil {
		return nil, err
	}
	known, err := s.getKnownDuplicates(defaults.Repair.KnownDuplicates)
	if err != nil {
		return nil, err
	}

	interval := defaults.Target.RequestInterval
	if _, ok := s.configStore.Get(keyTargetIntervalMS); ok {
		interval = time.Duration(s.configStore.GetInt(keyTargetIntervalMS)) * time.Millisecond
	}

	settings := &domain.Settings{
		Source: domain.SourceSettings{
			FolderID:        s.getString(keySourceFolderID, defaults.Source.FolderID),
			NameFilter:      s.getString(keySourceNameFilter, defaults.Source.NameFilter),
			PageSize:        s.getInt(keySourcePageSize, defaults.Source.PageSize),
			CredentialsFile: s.configStore.GetString(keySourceCredentialsFile),
			QuotaProject:    s.configStore.GetString(keySourceQuotaProject),
		},
		Target: domain.TargetSettings{
			BaseURL:          s.configStore.GetString(keyTargetBaseURL),
			WorkspaceID:      s.getString(keyTargetWorkspaceID, defaults.Target.WorkspaceID),
			ParentID:         s.getString(keyTargetParentID, defaults.Target.ParentID),
			ParentType:       parentType,
			RepairParentID:   s.getString(keyTargetRepairParentID, defaults.Target.RepairParentID),
			RepairParentType: repairType,
			RequestInterval:  interval,
		},
		Ledger: domain.LedgerSettings{
			Backend: domain.LedgerBackend(s.getString(keyLedgerBackend, string(defaults.Ledger.Backend))),
			Path:    s.configStore.GetString(keyLedgerPath),
		},
		Format: domain.ContentLayout{
			TitlePrefix:  s.getString(keyFormatTitlePrefix, defaults.Format.TitlePrefix),
			SummaryLabel: s.getString(keyFormatSummaryLabel, defaults.Format.SummaryLabel),
		},
		Repair: domain.RepairSettings{KnownDuplicates: known},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set validates value for key and persists it.
// Integers and parent types are stored as TOML integers.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (settable: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	stored, err := parseValue(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", s.configStore.Path(), err)
	}
	return nil
}

// Keys returns the settable keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func parseValue(kind valueKind, value string) (any, error) {
	switch kind {
	case kindOptionalString:
		return value, nil
	case kindPositiveInt, kindNonNegativeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, value)
		}
		if n < 0 || (kind == kindPositiveInt && n == 0) {
			return nil, fmt.Errorf("%w: %d is out of range", domain.ErrInvalidInput, n)
		}
		return int64(n), nil
	case kindParentType:
		p, err := domain.ParseParentType(value)
		if err != nil {
			return nil, err
		}
		return int64(p), nil
	case kindLedgerBackend:
		if !domain.LedgerBackend(value).IsValid() {
			return nil, fmt.Errorf("%w: ledger backend %q", domain.ErrInvalidInput, value)
		}
		return value, nil
	default:
		if value == "" {
			return nil, fmt.Errorf("%w: value is required", domain.ErrInvalidInput)
		}
		return value, nil
	}
}

// Path returns the configuration file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getParentType accepts either the numeric code or the type name.
func (s *SettingsService) getParentType(key string, defaultVal domain.ParentType) (domain.ParentType, error) {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal, nil
	}
	raw := s.configStore.GetString(key)
	if raw == "" {
		raw = strconv.Itoa(s.configStore.GetInt(key))
	}
	parentType, err := domain.ParseParentType(raw)
	if err != nil {
		return 0, fmt.Errorf("%s = %v: %w", key, val, err)
	}
	return parentType, nil
}

// getKnownDuplicates replaces the defaults when the key is present,
// so an empty array disables the exclusion list.
func (s *SettingsService) getKnownDuplicates(defaultVal domain.KnownDuplicates) (domain.KnownDuplicates, error) {
	if _, ok := s.configStore.Get(keyRepairKnownDuplicates); !ok {
		return defaultVal, nil
	}

	tables := s.configStore.GetTables(keyRepairKnownDuplicates)
	known := make(domain.KnownDuplicates, 0, len(tables))
	for i, t := range tables {
		date, _ := t["date"].(string)
		primary, _ := t["primary"].(string)
		duplicate, _ := t["duplicate"].(string)
		if date == "" || duplicate == "" {
			return nil, fmt.Errorf("%w: %s[%d] needs date and duplicate", domain.ErrInvalidInput, keyRepairKnownDuplicates, i)
		}
		known = append(known, domain.KnownDuplicate{Date: date, PrimaryID: primary, DuplicateID: duplicate})
	}
	return known, nil
}
