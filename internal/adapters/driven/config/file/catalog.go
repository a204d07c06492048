package file

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.MapCatalog = (*Catalog)(nil)

// CatalogFile is the default catalog name inside the config directory.
const CatalogFile = "maps.yaml"

type catalogDocument struct {
	Databases []databaseEntry `yaml:"databases"`
	Maps      []mapEntry      `yaml:"maps"`
}

type databaseEntry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Genomic bool   `yaml:"genomic"`
}

type mapEntry struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	HasCM        bool     `yaml:"has_cm"`
	HasBP        bool     `yaml:"has_bp"`
	DefaultSort  string   `yaml:"default_sort"`
	Hierarchical bool     `yaml:"hierarchical"`
	Databases    []string `yaml:"databases"`
	Chromosomes  []string `yaml:"chromosomes"`
}

// Catalog is the map catalog read from a YAML file.
type Catalog struct {
	mu        sync.RWMutex
	path      string
	maps      []domain.GeneticMap
	databases []domain.Database
}

// LoadCatalog reads and validates the catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseCatalog decodes a catalog document.
func ParseCatalog(data []byte) ([]domain.GeneticMap, []domain.Database, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	databases := make([]domain.Database, 0, len(doc.Databases))
	seenDB := make(map[string]bool)
	for _, e := range doc.Databases {
		if e.ID == "" || seenDB[e.ID] {
			return nil, nil, fmt.Errorf("%w: database id %q is empty or repeated", domain.ErrConfiguration, e.ID)
		}
		seenDB[e.ID] = true
		databases = append(databases, domain.Database{ID: e.ID, Name: e.Name, Genomic: e.Genomic})
	}

	maps := make([]domain.GeneticMap, 0, len(doc.Maps))
	seenMap := make(map[string]bool)
	for _, e := range doc.Maps {
		m, err := e.toDomain()
		if err != nil {
			return nil, nil, err
		}
		if seenMap[m.ID] {
			return nil, nil, fmt.Errorf("%w: map id %q is repeated", domain.ErrConfiguration, m.ID)
		}
		seenMap[m.ID] = true
		maps = append(maps, m)
	}
	return maps, databases, nil
}

func (e mapEntry) toDomain() (domain.GeneticMap, error) {
	if e.ID == "" {
		return domain.GeneticMap{}, fmt.Errorf("%w: map without id", domain.ErrConfiguration)
	}
	if !e.HasCM && !e.HasBP {
		return domain.GeneticMap{}, fmt.Errorf("%w: map %s has neither cm nor bp", domain.ErrConfiguration, e.ID)
	}
	sort, err := domain.ParseSortUnit(e.DefaultSort)
	if err != nil {
		return domain.GeneticMap{}, fmt.Errorf("map %s: %w", e.ID, err)
	}

	m := domain.GeneticMap{
		ID:          e.ID,
		Name:        e.Name,
		HasCM:       e.HasCM,
		HasBP:       e.HasBP,
		DefaultSort: sort,
		Chromosomes: e.Chromosomes,
		Group: domain.DatabaseGroup{
			Databases:    e.Databases,
			Hierarchical: e.Hierarchical,
		},
	}
	if sort != "" && !m.SupportsUnit(sort) {
		return domain.GeneticMap{}, fmt.Errorf("%w: default sort %s on map %s", domain.ErrUnsupportedUnit, sort, e.ID)
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	return m, nil
}

// Reload re-reads the file. The previous contents stay in place on error.
func (c *Catalog) Reload() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	maps, databases, err := ParseCatalog(data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.maps, c.databases = maps, databases
	return nil
}

// Path returns the catalog file path.
func (c *Catalog) Path() string {
	return c.path
}

// Maps returns all maps in file order.
func (c *Catalog) Maps(_ context.Context) ([]domain.GeneticMap, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.GeneticMap(nil), c.maps...), nil
}

// Map returns a map by id.
func (c *Catalog) Map(_ context.Context, id string) (*domain.GeneticMap, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.maps {
		if c.maps[i].ID == id {
			m := c.maps[i]
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMap, id)
}

// Databases returns the database registry in file order.
func (c *Catalog) Databases(_ context.Context) ([]domain.Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Database(nil), c.databases...), nil
}
