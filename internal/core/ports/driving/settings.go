package driving

import "github.com/custodia-labs/research-assistant/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment variables.
	Get() (*domain.Settings, error)

	// Set persists one dot-notation key to the config file.
	Set(key string, value any) error

	// Path returns the config file path.
	Path() string

	// Validate checks the settings are complete enough to start the AI components.
	Validate(settings *domain.Settings) error
}
