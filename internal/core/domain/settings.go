package domain

// LocateSettings holds the persisted defaults of locate runs.
type LocateSettings struct {
	// Threshold is the default hit validity cut.
	Threshold Threshold

	// Selection is the default best-score policy.
	Selection SelectionMode

	// Sort is the default sort unit. Empty defers to each map.
	Sort SortUnit

	// Window is the default feature search window.
	Window float64

	// Threads bounds concurrent hit loading.
	Threads int

	// ShowMultiples includes MULTIPLE queries in the primary table.
	ShowMultiples bool

	// ShowUnmapped renders the unmapped and unaligned sections.
	ShowUnmapped bool
}

// ReferenceSettings locates the reference data.
type ReferenceSettings struct {
	// CatalogPath is the YAML map catalog.
	CatalogPath string

	// DatabasePath is the SQLite reference store.
	DatabasePath string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// RequestsPerSecond throttles locate requests. Zero disables throttling.
	RequestsPerSecond float64
}

// AppSettings aggregates all user-configurable settings.
type AppSettings struct {
	Locate    LocateSettings
	Reference ReferenceSettings
	Server    ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Locate: LocateSettings{
			Threshold: DefaultThreshold(),
			Selection: SelectionBestGlobal,
			Window:    DefaultWindow,
			Threads:   1,
		},
		Server: ServerSettings{
			Addr:              "127.0.0.1:8080",
			RequestsPerSecond: 5,
		},
	}
}

// Options converts the settings to locate options.
func (s LocateSettings) Options() LocateOptions {
	opts := DefaultLocateOptions()
	opts.Threshold = s.Threshold
	if s.Selection != "" {
		opts.Selection = s.Selection
	}
	opts.Sort = s.Sort
	opts.Window = s.Window
	opts.ShowMultiples = s.ShowMultiples
	return opts
}

// AllSelectionModes returns all available selection modes.
func AllSelectionModes() []SelectionMode {
	return []SelectionMode{
		SelectionBestGlobal,
		SelectionBestPerDatabase,
		SelectionNone,
	}
}
