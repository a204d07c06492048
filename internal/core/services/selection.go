package services

import (
	"fmt"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// SelectionFilter applies the validity threshold and the best-score policy.
// It is a pure function of its inputs.
type SelectionFilter struct {
	threshold domain.Threshold
	mode      domain.SelectionMode
}

// NewSelectionFilter creates a filter, rejecting invalid policies.
func NewSelectionFilter(threshold domain.Threshold, mode domain.SelectionMode) (*SelectionFilter, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSelectionMode, mode)
	}
	return &SelectionFilter{threshold: threshold, mode: mode}, nil
}

// Selection is the outcome of filtering a set of hits.
type Selection struct {
	// Hits are the surviving hits in input order.
	Hits []domain.AlignmentHit

	// Valid counts hits passing the threshold, per query.
	Valid map[string]int

	// Suppressed counts valid hits discarded by the best-score policy, per query.
	Suppressed map[string]int
}

// Select returns the surviving hits.
func (f *SelectionFilter) Select(hits []domain.AlignmentHit) []domain.AlignmentHit {
	return f.Apply(hits).Hits
}

// Apply filters hits and reports what the policy discarded.
// Ties on score all survive; equality is exact.
func (f *SelectionFilter) Apply(hits []domain.AlignmentHit) Selection {
	sel := Selection{
		Valid:      make(map[string]int),
		Suppressed: make(map[string]int),
	}

	valid := make([]domain.AlignmentHit, 0, len(hits))
	for _, h := range hits {
		if f.threshold.Accepts(h) {
			valid = append(valid, h)
			sel.Valid[h.QueryID]++
		}
	}

	var key func(domain.AlignmentHit) scoreKey
	switch f.mode {
	case domain.SelectionBestPerDatabase:
		key = func(h domain.AlignmentHit) scoreKey { return scoreKey{query: h.QueryID, database: h.DatabaseID} }
	case domain.SelectionBestGlobal:
		key = func(h domain.AlignmentHit) scoreKey { return scoreKey{query: h.QueryID} }
	default:
		sel.Hits = valid
		return sel
	}

	best := make(map[scoreKey]float64)
	for _, h := range valid {
		k := key(h)
		if top, ok := best[k]; !ok || h.Score > top {
			best[k] = h.Score
		}
	}

	for _, h := range valid {
		if h.Score == best[key(h)] {
			sel.Hits = append(sel.Hits, h)
		} else {
			sel.Suppressed[h.QueryID]++
		}
	}
	return sel
}

// scoreKey groups hits competing for the best score.
type scoreKey struct {
	query    string
	database string
}
