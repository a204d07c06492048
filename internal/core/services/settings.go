package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyThresholdIdentity = "locate.threshold.identity"
	keyThresholdCoverage = "locate.threshold.coverage"
	keySelection         = "locate.selection"
	keySort              = "locate.sort"
	keyWindow            = "locate.window"
	keyThreads           = "locate.threads"
	keyShowMultiples     = "locate.show_multiples"
	keyShowUnmapped      = "locate.show_unmapped"
	keyCatalogPath       = "reference.catalog"
	keyDatabasePath      = "reference.database"
	keyServerAddr        = "server.addr"
	keyServerRate        = "server.requests_per_second"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Locate: domain.LocateSettings{
			Threshold: domain.Threshold{
				MinIdentity: s.getFloat(keyThresholdIdentity, defaults.Locate.Threshold.MinIdentity),
				MinCoverage: s.getFloat(keyThresholdCoverage, defaults.Locate.Threshold.MinCoverage),
			},
			Selection:     s.getSelection(defaults.Locate.Selection),
			Sort:          s.getSortUnit(defaults.Locate.Sort),
			Window:        s.getFloat(keyWindow, defaults.Locate.Window),
			Threads:       s.getInt(keyThreads, defaults.Locate.Threads),
			ShowMultiples: s.getBool(keyShowMultiples, defaults.Locate.ShowMultiples),
			ShowUnmapped:  s.getBool(keyShowUnmapped, defaults.Locate.ShowUnmapped),
		},
		Reference: domain.ReferenceSettings{
			CatalogPath:  s.getString(keyCatalogPath, defaults.Reference.CatalogPath),
			DatabasePath: s.getString(keyDatabasePath, defaults.Reference.DatabasePath),
		},
		Server: domain.ServerSettings{
			Addr:              s.getString(keyServerAddr, defaults.Server.Addr),
			RequestsPerSecond: s.getFloat(keyServerRate, defaults.Server.RequestsPerSecond),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyThresholdIdentity, settings.Locate.Threshold.MinIdentity},
		{keyThresholdCoverage, settings.Locate.Threshold.MinCoverage},
		{keySelection, settings.Locate.Selection.String()},
		{keySort, settings.Locate.Sort.String()},
		{keyWindow, settings.Locate.Window},
		{keyThreads, settings.Locate.Threads},
		{keyShowMultiples, settings.Locate.ShowMultiples},
		{keyShowUnmapped, settings.Locate.ShowUnmapped},
		{keyCatalogPath, settings.Reference.CatalogPath},
		{keyDatabasePath, settings.Reference.DatabasePath},
		{keyServerAddr, settings.Server.Addr},
		{keyServerRate, settings.Server.RequestsPerSecond},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetThreshold updates the default identity and coverage threshold.
func (s *SettingsService) SetThreshold(threshold domain.Threshold) error {
	if err := threshold.Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Locate.Threshold = threshold
	return s.Save(settings)
}

// SetSelection updates the default selection mode.
func (s *SettingsService) SetSelection(mode domain.SelectionMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSelectionMode, mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Locate.Selection = mode
	return s.Save(settings)
}

// SetWindow updates the default feature search window.
func (s *SettingsService) SetWindow(window float64) error {
	if window < 0 || math.IsNaN(window) {
		return fmt.Errorf("%w: %g", domain.ErrNegativeWindow, window)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Locate.Window = window
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

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

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSelection(defaultVal domain.SelectionMode) domain.SelectionMode {
	val := s.configStore.GetString(keySelection)
	if val == "" {
		return defaultVal
	}
	mode, err := domain.ParseSelectionMode(val)
	if err != nil {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getSortUnit(defaultVal domain.SortUnit) domain.SortUnit {
	unit, err := domain.ParseSortUnit(s.configStore.GetString(keySort))
	if err != nil || unit == "" {
		return defaultVal
	}
	return unit
}
