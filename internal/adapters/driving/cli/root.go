// Package cli implements the docbridge command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbridge/internal/core/domain"
	"github.com/custodia-labs/docbridge/internal/core/ports/driving"
	"github.com/custodia-labs/docbridge/internal/logger"
)

// Container supplies driving ports built from the loaded settings.
type Container interface {
	Settings() (*domain.Settings, error)
	SettingsService() driving.SettingsService
	ConfigPath() string
	Migrator(ctx context.Context, s domain.Settings, dryRun bool) (driving.Migrator, error)
	Reconciler(ctx context.Context, s domain.Settings, refill bool) (driving.Reconciler, error)
	Ledger(s domain.Settings) (driving.LedgerService, error)
	Close() error
}

// ContainerFactory opens a container for a config file location.
type ContainerFactory func(configPath string) (Container, error)

var (
	version      = "dev"
	configPath   string
	verbose      bool
	newContainer ContainerFactory
)

var rootCmd = &cobra.Command{
	Use:   "docbridge",
	Short: "Migrate standup notes from Google Drive into ClickUp Docs",
	Long: `docbridge copies standup documents from a Google Drive folder into
ClickUp Docs, one document per source, and repairs documents whose
content landed on the wrong page.

Progress is kept in a ledger so repeated runs only migrate new documents.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docbridge/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetContainerFactory sets how commands obtain their services.
func SetContainerFactory(f ContainerFactory) {
	newContainer = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func openContainer() (Container, error) {
	if newContainer == nil {
		return nil, errors.New("services not configured")
	}
	return newContainer(configPath)
}
