package services

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
)

// Ensure MapService implements the interface.
var _ driving.MapService = (*MapService)(nil)

// MapService exposes the map catalog to driving adapters.
type MapService struct {
	catalog driven.MapCatalog
}

// NewMapService creates a map service.
func NewMapService(catalog driven.MapCatalog) *MapService {
	return &MapService{catalog: catalog}
}

// List returns all maps.
func (s *MapService) List(ctx context.Context) ([]domain.GeneticMap, error) {
	return s.catalog.Maps(ctx)
}

// Get returns a map by id.
func (s *MapService) Get(ctx context.Context, id string) (*domain.GeneticMap, error) {
	return s.catalog.Map(ctx, id)
}

// Databases returns the database registry.
func (s *MapService) Databases(ctx context.Context) ([]domain.Database, error) {
	return s.catalog.Databases(ctx)
}
