package driving

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// MapService exposes the map catalog.
type MapService interface {
	// List returns all maps.
	List(ctx context.Context) ([]domain.GeneticMap, error)

	// Get returns a map by id.
	Get(ctx context.Context, id string) (*domain.GeneticMap, error)

	// Databases returns the database registry.
	Databases(ctx context.Context) ([]domain.Database, error)
}
