package driving

import "github.com/custodia-labs/docbridge/internal/core/domain"

// SettingsService resolves docbridge configuration.
type SettingsService interface {
	// Get returns the configured settings layered over the defaults.
	Get() (*domain.Settings, error)

	// Set validates value for key and persists it to the config file.
	Set(key, value string) error

	// Keys returns the keys accepted by Set, sorted.
	Keys() []string

	// Path returns the configuration file location.
	Path() string
}
