package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.MapCatalog = (*Catalog)(nil)

// Catalog is an in-memory implementation of driven.MapCatalog.
type Catalog struct {
	mu        sync.RWMutex
	maps      []domain.GeneticMap
	databases []domain.Database
}

// NewCatalog creates a catalog holding the given maps and databases.
func NewCatalog(maps []domain.GeneticMap, databases []domain.Database) *Catalog {
	return &Catalog{
		maps:      append([]domain.GeneticMap(nil), maps...),
		databases: append([]domain.Database(nil), databases...),
	}
}

// Maps returns all maps in insertion order.
func (c *Catalog) Maps(_ context.Context) ([]domain.GeneticMap, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.GeneticMap(nil), c.maps...), nil
}

// Map returns a map by id.
func (c *Catalog) Map(_ context.Context, id string) (*domain.GeneticMap, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.maps {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMap, id)
}

// Databases returns the database registry.
func (c *Catalog) Databases(_ context.Context) ([]domain.Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Database(nil), c.databases...), nil
}
