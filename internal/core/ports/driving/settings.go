package driving

import "github.com/custodia-labs/bmap-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetThreshold updates the default identity and coverage threshold.
	SetThreshold(threshold domain.Threshold) error

	// SetSelection updates the default selection mode.
	SetSelection(mode domain.SelectionMode) error

	// SetWindow updates the default feature search window.
	SetWindow(window float64) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
