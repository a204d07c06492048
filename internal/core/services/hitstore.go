package services

import (
	"cmp"
	"slices"
	"sync"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// HitStore holds the raw hits of one alignment run grouped by database.
// Hits may be added concurrently and in any completion order; every read
// returns them in a canonical order so results never depend on it.
type HitStore struct {
	mu       sync.RWMutex
	queries  []string
	declared map[string]bool
	derived  map[string]bool
	byDB     map[string][]domain.AlignmentHit
}

// NewHitStore creates an empty hit store.
func NewHitStore() *HitStore {
	return &HitStore{
		declared: make(map[string]bool),
		derived:  make(map[string]bool),
		byDB:     make(map[string][]domain.AlignmentHit),
	}
}

// NewHitStoreFromInput creates a hit store holding a materialised run.
func NewHitStoreFromInput(input domain.LocateInput) *HitStore {
	s := NewHitStore()
	s.AddQueries(input.Queries...)
	s.Add(input.Hits...)
	return s
}

// AddQueries registers submitted query ids, keeping first-seen order.
func (s *HitStore) AddQueries(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if id == "" || s.declared[id] {
			continue
		}
		s.declared[id] = true
		delete(s.derived, id)
		s.queries = append(s.queries, id)
	}
}

// Add stores hits. Queries only known through their hits are registered too.
func (s *HitStore) Add(hits ...domain.AlignmentHit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range hits {
		s.byDB[h.DatabaseID] = append(s.byDB[h.DatabaseID], h)
		if !s.declared[h.QueryID] {
			s.derived[h.QueryID] = true
		}
	}
}

// Queries returns declared queries in submission order followed by queries
// only seen in hits, sorted.
func (s *HitStore) Queries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.queries)+len(s.derived))
	out = append(out, s.queries...)
	extra := make([]string, 0, len(s.derived))
	for id := range s.derived {
		extra = append(extra, id)
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Databases returns the ids of databases holding hits, sorted.
func (s *HitStore) Databases() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dbs := make([]string, 0, len(s.byDB))
	for db := range s.byDB {
		dbs = append(dbs, db)
	}
	slices.Sort(dbs)
	return dbs
}

// Len returns the total number of hits.
func (s *HitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, hits := range s.byDB {
		n += len(hits)
	}
	return n
}

// HitsFor returns the hits of the given queries against the given databases
// in canonical order. A nil queryIDs selects all queries.
func (s *HitStore) HitsFor(databases, queryIDs []string) []domain.AlignmentHit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var wanted map[string]bool
	if queryIDs != nil {
		wanted = make(map[string]bool, len(queryIDs))
		for _, id := range queryIDs {
			wanted[id] = true
		}
	}

	var out []domain.AlignmentHit
	for _, db := range databases {
		for _, h := range s.byDB[db] {
			if wanted == nil || wanted[h.QueryID] {
				out = append(out, h)
			}
		}
	}
	slices.SortFunc(out, compareHits)
	return out
}

// Input returns the stored run as a materialised input.
func (s *HitStore) Input() domain.LocateInput {
	return domain.LocateInput{
		Queries: s.Queries(),
		Hits:    s.HitsFor(s.Databases(), nil),
	}
}

// compareHits defines the canonical hit order: query, database, target, then
// the remaining fields so that fully identical hits are the only ties.
func compareHits(a, b domain.AlignmentHit) int {
	return cmp.Or(
		cmp.Compare(a.QueryID, b.QueryID),
		cmp.Compare(a.DatabaseID, b.DatabaseID),
		cmp.Compare(a.TargetChromosome, b.TargetChromosome),
		cmp.Compare(a.TargetStart, b.TargetStart),
		cmp.Compare(a.TargetEnd, b.TargetEnd),
		cmp.Compare(a.Strand, b.Strand),
		cmp.Compare(b.Score, a.Score),
		cmp.Compare(b.Identity, a.Identity),
		cmp.Compare(b.Coverage, a.Coverage),
	)
}
