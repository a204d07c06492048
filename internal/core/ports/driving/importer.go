package driving

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// ImportService loads curated reference data into the reference store.
// Each method validates against the catalog and returns the number of
// records stored.
type ImportService interface {
	// ImportAnchors replaces the anchors of a map.
	ImportAnchors(ctx context.Context, mapID string, anchors []domain.Anchor) (int, error)

	// ImportFeatures stores markers or genes of a map.
	ImportFeatures(ctx context.Context, mapID string, features []domain.Feature) (int, error)

	// ImportAnnotations stores gene annotations.
	ImportAnnotations(ctx context.Context, annotations []domain.Annotation) (int, error)
}
