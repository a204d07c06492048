package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bmap-cli/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService validates reference data against the catalog and stores it.
type ImportService struct {
	catalog driven.MapCatalog
	store   driven.ReferenceStore
}

// NewImportService creates an import service.
func NewImportService(catalog driven.MapCatalog, store driven.ReferenceStore) *ImportService {
	return &ImportService{catalog: catalog, store: store}
}

// ImportAnchors replaces the anchors of a map.
func (s *ImportService) ImportAnchors(ctx context.Context, mapID string, anchors []domain.Anchor) (int, error) {
	m, err := s.catalog.Map(ctx, mapID)
	if err != nil {
		return 0, err
	}
	dbs, err := s.catalog.Databases(ctx)
	if err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(dbs))
	for _, db := range dbs {
		known[db.ID] = true
	}

	for i, a := range anchors {
		if a.Contig == "" {
			return 0, fmt.Errorf("%w: anchor %d has no contig", domain.ErrInvalidInput, i+1)
		}
		if !known[a.DatabaseID] {
			return 0, fmt.Errorf("%w: %s", domain.ErrUnknownDatabase, a.DatabaseID)
		}
		if !m.HasChromosome(a.Coordinate.Chromosome) {
			return 0, fmt.Errorf("%w: %q for contig %s", domain.ErrChromosomeOutOfRange, a.Coordinate.Chromosome, a.Contig)
		}
	}

	if err := s.store.SaveAnchors(ctx, mapID, anchors); err != nil {
		return 0, fmt.Errorf("save anchors: %w", err)
	}
	logger.Info("Imported %d anchors into map %s", len(anchors), mapID)
	return len(anchors), nil
}

// ImportFeatures stores markers or genes of a map.
func (s *ImportService) ImportFeatures(ctx context.Context, mapID string, features []domain.Feature) (int, error) {
	m, err := s.catalog.Map(ctx, mapID)
	if err != nil {
		return 0, err
	}

	for i, f := range features {
		switch {
		case f.ID == "":
			return 0, fmt.Errorf("%w: feature %d has no id", domain.ErrInvalidInput, i+1)
		case !f.Type.IsValid():
			return 0, fmt.Errorf("%w: feature %s has type %q", domain.ErrInvalidInput, f.ID, f.Type)
		case f.CM == nil && f.BP == nil:
			return 0, fmt.Errorf("%w: feature %s has no coordinate", domain.ErrInvalidInput, f.ID)
		case !m.HasChromosome(f.Chromosome):
			return 0, fmt.Errorf("%w: %q for feature %s", domain.ErrChromosomeOutOfRange, f.Chromosome, f.ID)
		}
	}

	if err := s.store.SaveFeatures(ctx, mapID, features); err != nil {
		return 0, fmt.Errorf("save features: %w", err)
	}
	logger.Info("Imported %d features into map %s", len(features), mapID)
	return len(features), nil
}

// ImportAnnotations stores gene annotations.
func (s *ImportService) ImportAnnotations(ctx context.Context, annotations []domain.Annotation) (int, error) {
	for i, a := range annotations {
		if a.GeneID == "" {
			return 0, fmt.Errorf("%w: annotation %d has no gene id", domain.ErrInvalidInput, i+1)
		}
	}

	if err := s.store.SaveAnnotations(ctx, annotations); err != nil {
		return 0, fmt.Errorf("save annotations: %w", err)
	}
	logger.Info("Imported %d annotations", len(annotations))
	return len(annotations), nil
}
