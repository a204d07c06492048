package driven

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// ReferenceStore persists the curated reference data of each map.
type ReferenceStore interface {
	// SaveAnchors replaces the anchors of a map.
	SaveAnchors(ctx context.Context, mapID string, anchors []domain.Anchor) error

	// Anchors returns the anchors of a map.
	Anchors(ctx context.Context, mapID string) ([]domain.Anchor, error)

	// SaveFeatures upserts features of a map.
	SaveFeatures(ctx context.Context, mapID string, features []domain.Feature) error

	// Features returns the features of one type on a map that have a coordinate
	// in unit, sorted by chromosome then coordinate.
	Features(ctx context.Context, mapID string, kind domain.FeatureType, unit domain.SortUnit) ([]domain.Feature, error)

	// SaveAnnotations upserts gene annotations.
	SaveAnnotations(ctx context.Context, annotations []domain.Annotation) error

	// Annotations returns the annotations found for the given gene ids.
	// Missing ids are absent from the result.
	Annotations(ctx context.Context, geneIDs []string) (map[string]domain.Annotation, error)

	// Close releases the store.
	Close() error
}

// CoordinateLookup resolves hit targets to map coordinates.
// Implementations are read-only during a run.
type CoordinateLookup interface {
	// Lookup returns the map coordinates of a target position.
	// The result is empty when the target is not placed on the map.
	Lookup(databaseID, contig string, position int64) []domain.Coordinate
}

// AnnotationSource looks up gene annotations.
type AnnotationSource interface {
	// Annotation returns the annotation of a gene and whether one exists.
	Annotation(geneID string) (domain.Annotation, bool)
}
