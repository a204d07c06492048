package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure ReferenceStore implements the interface.
var _ driven.ReferenceStore = (*ReferenceStore)(nil)

// ReferenceStore is an in-memory implementation of driven.ReferenceStore.
type ReferenceStore struct {
	mu          sync.RWMutex
	anchors     map[string][]domain.Anchor
	features    map[string]map[string]domain.Feature
	annotations map[string]domain.Annotation
}

// NewReferenceStore creates a new in-memory reference store.
func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		anchors:     make(map[string][]domain.Anchor),
		features:    make(map[string]map[string]domain.Feature),
		annotations: make(map[string]domain.Annotation),
	}
}

// SaveAnchors replaces the anchors of a map.
func (s *ReferenceStore) SaveAnchors(_ context.Context, mapID string, anchors []domain.Anchor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anchors[mapID] = append([]domain.Anchor(nil), anchors...)
	return nil
}

// Anchors returns the anchors of a map.
func (s *ReferenceStore) Anchors(_ context.Context, mapID string) ([]domain.Anchor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Anchor(nil), s.anchors[mapID]...), nil
}

// SaveFeatures upserts features of a map, keyed by type and id.
func (s *ReferenceStore) SaveFeatures(_ context.Context, mapID string, features []domain.Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.features[mapID]
	if !ok {
		byID = make(map[string]domain.Feature)
		s.features[mapID] = byID
	}
	for _, f := range features {
		byID[string(f.Type)+"/"+f.ID] = f
	}
	return nil
}

// Features returns features of one type with a coordinate in unit, sorted by
// chromosome then coordinate.
func (s *ReferenceStore) Features(
	_ context.Context,
	mapID string,
	kind domain.FeatureType,
	unit domain.SortUnit,
) ([]domain.Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Feature
	for _, f := range s.features[mapID] {
		if _, ok := f.Coordinate().Value(unit); ok && f.Type == kind {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b domain.Feature) int {
		av, _ := a.Coordinate().Value(unit)
		bv, _ := b.Coordinate().Value(unit)
		return cmp.Or(
			cmp.Compare(a.Chromosome, b.Chromosome),
			cmp.Compare(av, bv),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out, nil
}

// SaveAnnotations upserts gene annotations.
func (s *ReferenceStore) SaveAnnotations(_ context.Context, annotations []domain.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range annotations {
		s.annotations[a.GeneID] = a
	}
	return nil
}

// Annotations returns the annotations found for the given gene ids.
func (s *ReferenceStore) Annotations(_ context.Context, geneIDs []string) (map[string]domain.Annotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Annotation)
	for _, id := range geneIDs {
		if a, ok := s.annotations[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

// Close is a no-op for the memory store.
func (s *ReferenceStore) Close() error {
	return nil
}
