package services

import (
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/logger"
)

// HitLookup serves the hits of a run by database.
type HitLookup interface {
	// HitsFor returns the hits of the given queries against the given
	// databases in canonical order.
	HitsFor(databases, queryIDs []string) []domain.AlignmentHit
}

// Resolution is the outcome of resolving queries against a database group.
type Resolution struct {
	// Hits maps each resolved query to its surviving hits.
	Hits map[string][]domain.AlignmentHit

	// OtherAlignments marks resolved queries whose valid hits were partly
	// discarded by selection.
	OtherAlignments map[string]bool

	// Unaligned lists queries no tier resolved, in query order.
	Unaligned []string
}

// resolverStep resolves as many pending queries as it can. Resolved queries
// are removed from later steps.
type resolverStep struct {
	databases []string
	resolve   func(pending []string) Selection
}

// HierarchicalResolver resolves queries over an ordered database group.
type HierarchicalResolver struct {
	filter *SelectionFilter
}

// NewHierarchicalResolver creates a resolver applying filter at every step.
func NewHierarchicalResolver(filter *SelectionFilter) *HierarchicalResolver {
	return &HierarchicalResolver{filter: filter}
}

// Resolve resolves queryIDs against group.
//
// In hierarchical mode each database is a step of a priority chain and a
// query resolved by an earlier database never reaches a later one, even if
// the later one would score higher. Otherwise all databases form a single
// step and selection sees every hit at once.
func (r *HierarchicalResolver) Resolve(queryIDs []string, group domain.DatabaseGroup, hits HitLookup) Resolution {
	return chainResolvers(r.steps(group, hits), queryIDs)
}

func (r *HierarchicalResolver) steps(group domain.DatabaseGroup, hits HitLookup) []resolverStep {
	step := func(databases []string) resolverStep {
		return resolverStep{
			databases: databases,
			resolve: func(pending []string) Selection {
				return r.filter.Apply(hits.HitsFor(databases, pending))
			},
		}
	}

	if !group.Hierarchical {
		return []resolverStep{step(group.Databases)}
	}

	steps := make([]resolverStep, 0, len(group.Databases))
	for _, db := range group.Databases {
		steps = append(steps, step([]string{db}))
	}
	return steps
}

// chainResolvers runs steps in order over the still-unresolved queries.
func chainResolvers(steps []resolverStep, queryIDs []string) Resolution {
	res := Resolution{
		Hits:            make(map[string][]domain.AlignmentHit),
		OtherAlignments: make(map[string]bool),
	}

	pending := append([]string(nil), queryIDs...)
	for _, step := range steps {
		if len(pending) == 0 {
			break
		}

		sel := step.resolve(pending)
		for _, h := range sel.Hits {
			res.Hits[h.QueryID] = append(res.Hits[h.QueryID], h)
		}

		remaining := pending[:0]
		resolved := 0
		for _, id := range pending {
			if _, ok := res.Hits[id]; !ok {
				remaining = append(remaining, id)
				continue
			}
			resolved++
			if sel.Suppressed[id] > 0 {
				res.OtherAlignments[id] = true
			}
		}
		pending = remaining

		logger.Debug("Resolver: %v resolved %d queries, %d pending", step.databases, resolved, len(pending))
	}

	res.Unaligned = pending
	return res
}
