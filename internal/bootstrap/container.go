package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/docbridge/internal/adapters/driven/auth"
	configfile "github.com/custodia-labs/docbridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docbridge/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/docbridge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docbridge/internal/connectors/clickup"
	"github.com/custodia-labs/docbridge/internal/connectors/google"
	"github.com/custodia-labs/docbridge/internal/connectors/google/drive"
	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
	"github.com/custodia-labs/docbridge/internal/core/services"
	"github.com/custodia-labs/docbridge/internal/logger"
	"github.com/custodia-labs/docbridge/internal/normalisers/markdown"
)

// Options configures a Container.
type Options struct {
	// ConfigPath is the TOML config file or its directory.
	// Empty uses ~/.docbridge/config.toml.
	ConfigPath string

	// TokenProvider overrides the ClickUp token lookup.
	TokenProvider driven.TokenProvider

	// HTTPClient overrides the ClickUp transport.
	HTTPClient *http.Client
}

// ledgerBundle is the ledger with its optional history stores.
type ledgerBundle struct {
	ledger   driven.LedgerStore
	mappings driven.MappingStore
	runs     driven.RunStore
}

// Container builds driving ports on demand and owns their resources.
type Container struct {
	settings   *services.SettingsService
	tokens     driven.TokenProvider
	httpClient *http.Client

	store *sqlite.Store
}

// New loads the config file and returns a container.
func New(opts Options) (*Container, error) {
	cfg, err := configfile.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	tokens := opts.TokenProvider
	if tokens == nil {
		tokens = auth.NewClickUpTokenProvider()
	}

	return &Container{
		settings:   services.NewSettingsService(cfg),
		tokens:     tokens,
		httpClient: opts.HTTPClient,
	}, nil
}

// Settings returns the validated settings from the config file.
func (c *Container) Settings() (*domain.Settings, error) {
	return c.settings.Get()
}

// SettingsService returns the service that reads and writes the config file.
func (c *Container) SettingsService() driving.SettingsService {
	return c.settings
}

// ConfigPath returns the config file location.
func (c *Container) ConfigPath() string {
	return c.settings.Path()
}

// Migrator builds the migration planner. A dry run needs no target
// credential and gets no target store.
func (c *Container) Migrator(ctx context.Context, s domain.Settings, dryRun bool) (driving.Migrator, error) {
	catalog, err := c.catalog(ctx, s.Source)
	if err != nil {
		return nil, err
	}

	var target driven.TargetStore
	if !dryRun {
		if target, err = c.target(ctx, s.Target); err != nil {
			return nil, err
		}
	}

	ledger, err := c.ledger(s.Ledger)
	if err != nil {
		return nil, err
	}

	planner := services.NewPlanner(catalog, target, ledger.ledger, s.Format)
	if ledger.mappings != nil || ledger.runs != nil {
		planner.WithHistory(ledger.mappings, ledger.runs)
	}
	return planner, nil
}

// Reconciler builds the repair reconciler. The source catalog is only
// wired when refill is requested.
func (c *Container) Reconciler(ctx context.Context, s domain.Settings, refill bool) (driving.Reconciler, error) {
	target, err := c.target(ctx, s.Target)
	if err != nil {
		return nil, err
	}

	var catalog driven.SourceCatalog
	if refill {
		if catalog, err = c.catalog(ctx, s.Source); err != nil {
			return nil, err
		}
	}

	reconciler := services.NewReconciler(catalog, target, markdown.New(), s.Repair.KnownDuplicates, s.Format)

	ledger, err := c.ledger(s.Ledger)
	if err != nil {
		return nil, err
	}
	if ledger.runs != nil {
		reconciler.WithRunStore(ledger.runs)
	}
	return reconciler, nil
}

// Ledger builds the ledger service for the configured backend.
func (c *Container) Ledger(s domain.Settings) (driving.LedgerService, error) {
	ledger, err := c.ledger(s.Ledger)
	if err != nil {
		return nil, err
	}
	svc := services.NewLedgerService(ledger.ledger)
	if ledger.runs != nil {
		svc.WithRunStore(ledger.runs)
	}
	return svc, nil
}

// Close releases the SQLite store when one was opened.
func (c *Container) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func (c *Container) ledger(s domain.LedgerSettings) (*ledgerBundle, error) {
	switch s.Backend {
	case domain.LedgerBackendSQLite:
		if c.store == nil {
			store, err := sqlite.NewStore(s.Path)
			if err != nil {
				return nil, fmt.Errorf("open sqlite ledger: %w", err)
			}
			c.store = store
		}
		logger.Debug("Ledger: sqlite at %s", c.store.Path())
		return &ledgerBundle{
			ledger:   c.store.LedgerStore(),
			mappings: c.store.MappingStore(),
			runs:     c.store.RunStore(),
		}, nil
	case domain.LedgerBackendFile, "":
		store, err := file.NewLedgerStore(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open ledger file: %w", err)
		}
		logger.Debug("Ledger: file at %s", store.Location())
		return &ledgerBundle{ledger: store}, nil
	default:
		return nil, fmt.Errorf("%w: ledger backend %q", domain.ErrInvalidInput, s.Backend)
	}
}

func (c *Container) catalog(ctx context.Context, s domain.SourceSettings) (driven.SourceCatalog, error) {
	ts, err := google.NewTokenSource(ctx, google.Credentials{File: s.CredentialsFile})
	if err != nil {
		return nil, err
	}
	svc, err := google.NewDriveService(ctx, google.ServiceOptions{
		TokenSource:  ts,
		QuotaProject: s.QuotaProject,
	})
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return drive.NewCatalog(svc, drive.ConfigFromSettings(s)), nil
}

// target resolves the token up front so a missing credential aborts
// before any work starts.
func (c *Container) target(ctx context.Context, s domain.TargetSettings) (driven.TargetStore, error) {
	if _, err := c.tokens.GetToken(ctx); err != nil {
		if errors.Is(err, domain.ErrCredentialMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCredentialMissing, err)
	}
	logger.Debug("ClickUp token from %s", c.tokens.Name())

	client, err := clickup.NewClient(clickup.Options{
		BaseURL:       s.BaseURL,
		WorkspaceID:   s.WorkspaceID,
		TokenProvider: c.tokens,
		HTTPClient:    c.httpClient,
		Interval:      s.RequestInterval,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
