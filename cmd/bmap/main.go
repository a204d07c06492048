// Command bmap locates aligned sequences on genetic maps.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bmap-cli/internal/core/services"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	closeStore := wire()
	err := cli.Execute()
	closeStore()
	if err != nil {
		os.Exit(1)
	}
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// wire builds the services from the configuration directory. Missing
// reference data degrades to empty in-memory stores so that commands which
// do not need it, such as settings and version, keep working.
func wire() (closeStore func()) {
	dir, err := file.DefaultDir()
	if err != nil {
		warn("cannot resolve home directory: %v", err)
	}

	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore(dir)
	if err != nil {
		warn("config unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}
	settingsService := services.NewSettingsService(configStore)

	settings := domain.DefaultAppSettings()
	if stored, err := settingsService.Get(); err != nil {
		warn("failed to read settings: %v", err)
	} else {
		settings = *stored
	}

	catalog := loadCatalog(dir, settings.Reference.CatalogPath)
	store, closeStore := openStore(dir, settings.Reference.DatabasePath)

	cli.Configure(cli.Config{
		Locate:    services.NewLocateService(catalog, store),
		HitLoader: services.NewHitLoaderService(),
		Maps:      services.NewMapService(catalog),
		Import:    services.NewImportService(catalog, store),
		Settings:  settingsService,
	})
	cli.SetVersion(version)
	return closeStore
}

// loadCatalog reads the map catalog. A missing catalog is an empty one.
func loadCatalog(dir, path string) driven.MapCatalog {
	if path == "" {
		path = filepath.Join(dir, file.CatalogFile)
	}
	catalog, err := file.LoadCatalog(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			warn("failed to load map catalog: %v", err)
		}
		return memory.NewCatalog(nil, nil)
	}
	return catalog
}

func openStore(dir, path string) (driven.ReferenceStore, func()) {
	var (
		store *sqlite.Store
		err   error
	)
	if path != "" {
		store, err = sqlite.Open(path)
	} else {
		store, err = sqlite.NewStore(filepath.Join(dir, "data"))
	}
	if err != nil {
		warn("reference store unavailable, using an empty one: %v", err)
		return memory.NewReferenceStore(), func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			warn("failed to close reference store: %v", err)
		}
	}
}
