package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// FeatureIndex is a read-only view of features in one unit, grouped by
// chromosome and sorted by coordinate for bisection.
type FeatureIndex struct {
	unit   domain.SortUnit
	chroms map[string]*chromFeatures
	size   int
}

type chromFeatures struct {
	coords   []float64
	features []domain.Feature
}

// NewFeatureIndex indexes features that are already sorted by chromosome
// and coordinate in unit. Features without a coordinate in unit are not
// searchable and are skipped. An out-of-order table is rejected with
// domain.ErrFeaturesUnsorted.
func NewFeatureIndex(features []domain.Feature, unit domain.SortUnit) (*FeatureIndex, error) {
	if !unit.IsValid() {
		return nil, fmt.Errorf("%w: unknown unit %q", domain.ErrConfiguration, unit)
	}

	idx := &FeatureIndex{unit: unit, chroms: make(map[string]*chromFeatures)}
	current := ""
	for i, f := range features {
		v, ok := f.Coordinate().Value(unit)
		if !ok {
			continue
		}

		cf, seen := idx.chroms[f.Chromosome]
		switch {
		case !seen:
			cf = &chromFeatures{}
			idx.chroms[f.Chromosome] = cf
			current = f.Chromosome
		case f.Chromosome != current:
			return nil, fmt.Errorf("%w: chromosome %s interleaved at row %d", domain.ErrFeaturesUnsorted, f.Chromosome, i)
		case v < cf.coords[len(cf.coords)-1]:
			return nil, fmt.Errorf("%w: %s at %g follows %g on %s", domain.ErrFeaturesUnsorted,
				f.ID, v, cf.coords[len(cf.coords)-1], f.Chromosome)
		}

		cf.coords = append(cf.coords, v)
		cf.features = append(cf.features, f)
		idx.size++
	}
	return idx, nil
}

// Unit returns the unit the index is sorted by.
func (x *FeatureIndex) Unit() domain.SortUnit {
	return x.unit
}

// Len returns the number of indexed features.
func (x *FeatureIndex) Len() int {
	return x.size
}

// Range returns features on chr with lo <= coordinate <= hi.
func (x *FeatureIndex) Range(chr string, lo, hi float64) []domain.Feature {
	cf := x.chroms[chr]
	if cf == nil || lo > hi {
		return nil
	}
	start := sort.SearchFloat64s(cf.coords, lo)
	end := sort.Search(len(cf.coords), func(i int) bool { return cf.coords[i] > hi })
	if start >= end {
		return nil
	}
	return append([]domain.Feature(nil), cf.features[start:end]...)
}

// Neighbours returns the nearest coordinates strictly left and right of v on chr.
func (x *FeatureIndex) Neighbours(chr string, v float64) (left, right float64, hasLeft, hasRight bool) {
	cf := x.chroms[chr]
	if cf == nil {
		return 0, 0, false, false
	}
	i := sort.SearchFloat64s(cf.coords, v)
	if i > 0 {
		left, hasLeft = cf.coords[i-1], true
	}
	j := sort.Search(len(cf.coords), func(k int) bool { return cf.coords[k] > v })
	if j < len(cf.coords) {
		right, hasRight = cf.coords[j], true
	}
	return left, right, hasLeft, hasRight
}

// WindowedFeatureSearch finds features around mapped positions.
type WindowedFeatureSearch struct {
	unit   domain.SortUnit
	window float64
	mode   domain.WindowMode
}

// NewWindowedFeatureSearch creates a search in unit, rejecting negative
// windows and unknown modes.
func NewWindowedFeatureSearch(unit domain.SortUnit, window float64, mode domain.WindowMode) (*WindowedFeatureSearch, error) {
	if window < 0 || math.IsNaN(window) {
		return nil, fmt.Errorf("%w: %g", domain.ErrNegativeWindow, window)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidWindowMode, mode)
	}
	if !unit.IsValid() {
		return nil, fmt.Errorf("%w: unknown unit %q", domain.ErrConfiguration, unit)
	}
	return &WindowedFeatureSearch{unit: unit, window: window, mode: mode}, nil
}

// Search returns the features of features near pos.
//
// on_marker returns features within [c-window, c+window]. between_markers
// takes the neighbours of pos in anchors and returns features within
// [left-window, right+window]; a missing neighbour opens the window to the
// chromosome boundary. anchors may be nil, leaving both sides open.
func (s *WindowedFeatureSearch) Search(pos domain.MapPosition, features, anchors *FeatureIndex) ([]domain.Feature, error) {
	if features.Unit() != s.unit {
		return nil, fmt.Errorf("%w: search in %s, features in %s", domain.ErrUnitMismatch, s.unit, features.Unit())
	}
	if anchors != nil && anchors.Unit() != s.unit {
		return nil, fmt.Errorf("%w: search in %s, anchors in %s", domain.ErrUnitMismatch, s.unit, anchors.Unit())
	}

	c, ok := pos.Coordinate().Value(s.unit)
	if !ok {
		return nil, nil
	}

	if s.mode == domain.WindowOnMarker {
		return features.Range(pos.Chromosome, c-s.window, c+s.window), nil
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	if anchors != nil {
		left, right, hasLeft, hasRight := anchors.Neighbours(pos.Chromosome, c)
		if hasLeft {
			lo = left - s.window
		}
		if hasRight {
			hi = right + s.window
		}
	}
	return features.Range(pos.Chromosome, lo, hi), nil
}
