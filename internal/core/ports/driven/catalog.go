package driven

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// MapCatalog lists the genetic maps and databases available to locate runs.
type MapCatalog interface {
	// Maps returns all maps in catalog order.
	Maps(ctx context.Context) ([]domain.GeneticMap, error)

	// Map returns a map by id, or domain.ErrUnknownMap.
	Map(ctx context.Context, id string) (*domain.GeneticMap, error)

	// Databases returns the database registry.
	Databases(ctx context.Context) ([]domain.Database, error)
}
