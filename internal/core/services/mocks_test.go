package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// hit builds a hit on one contig at position 100.
func hit(query, db, contig string, identity, coverage, score float64) domain.AlignmentHit {
	return domain.AlignmentHit{
		QueryID:          query,
		DatabaseID:       db,
		TargetChromosome: contig,
		TargetStart:      100,
		TargetEnd:        200,
		Identity:         identity,
		Coverage:         coverage,
		Score:            score,
		Strand:           domain.StrandForward,
	}
}

// mockHitReader serves fixed hits per database, optionally with a delay per
// database to shuffle completion order.
type mockHitReader struct {
	queries []string
	hits    map[string][]domain.AlignmentHit
	delays  map[string]time.Duration
	fail    map[string]error

	mu    sync.Mutex
	reads []string
}

// readDatabases returns the databases ReadHits was called for, sorted.
func (m *mockHitReader) readDatabases() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(slices.Values(m.reads))
}

func (m *mockHitReader) Databases(_ context.Context) ([]string, error) {
	var dbs []string
	for db := range m.hits {
		dbs = append(dbs, db)
	}
	return dbs, nil
}

func (m *mockHitReader) ReadHits(ctx context.Context, databaseID string) ([]domain.AlignmentHit, error) {
	m.mu.Lock()
	m.reads = append(m.reads, databaseID)
	m.mu.Unlock()

	if d := m.delays[databaseID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := m.fail[databaseID]; err != nil {
		return nil, err
	}
	hits, ok := m.hits[databaseID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", databaseID, domain.ErrNotFound)
	}
	return hits, nil
}

func (m *mockHitReader) QueryIDs(_ context.Context) ([]string, error) {
	return m.queries, nil
}

// barkeMap is a cM map over two databases.
func barkeMap() domain.GeneticMap {
	return domain.GeneticMap{
		ID:          "barke",
		Name:        "Barke x Morex",
		HasCM:       true,
		DefaultSort: domain.SortCM,
		Chromosomes: []string{"1H", "2H", "3H"},
		Group:       domain.DatabaseGroup{Databases: []string{"dbA", "dbB"}},
	}
}

// morexMap is a bp map over a genomic database.
func morexMap() domain.GeneticMap {
	return domain.GeneticMap{
		ID:          "morex",
		HasBP:       true,
		DefaultSort: domain.SortBP,
		Chromosomes: []string{"1H", "2H", "3H"},
		Group:       domain.DatabaseGroup{Databases: []string{"genome"}},
	}
}

func testDatabases() []domain.Database {
	return []domain.Database{
		{ID: "dbA", Name: "Contigs A"},
		{ID: "dbB", Name: "Contigs B"},
		{ID: "genome", Name: "Morex genome", Genomic: true},
	}
}

func testAnchors() []domain.Anchor {
	return []domain.Anchor{
		{DatabaseID: "dbA", Contig: "ctgA", Coordinate: domain.Coordinate{Chromosome: "1H", CM: domain.CM(10)}},
		{DatabaseID: "dbB", Contig: "ctgB", Coordinate: domain.Coordinate{Chromosome: "1H", CM: domain.CM(10)}},
		{DatabaseID: "dbB", Contig: "ctgC", Coordinate: domain.Coordinate{Chromosome: "2H", CM: domain.CM(5)}},
		{DatabaseID: "dbA", Contig: "ctgD", Coordinate: domain.Coordinate{Chromosome: "1H", CM: domain.CM(20)}},
		{DatabaseID: "dbA", Contig: "ctgE", Coordinate: domain.Coordinate{Chromosome: "1H", CM: domain.CM(30)}},
	}
}

// setupLocate returns a locate service over the barke and morex maps.
func setupLocate(ctx context.Context) (*LocateService, *memory.ReferenceStore) {
	catalog := memory.NewCatalog([]domain.GeneticMap{barkeMap(), morexMap()}, testDatabases())
	store := memory.NewReferenceStore()
	_ = store.SaveAnchors(ctx, "barke", testAnchors())
	_ = store.SaveAnchors(ctx, "morex", []domain.Anchor{
		{DatabaseID: "genome", Contig: "chr1H", Coordinate: domain.Coordinate{Chromosome: "1H"}},
	})
	return NewLocateService(catalog, store), store
}
