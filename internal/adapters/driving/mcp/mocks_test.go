package mcp

import (
	"context"
	"testing"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// mockLocateService is a mock implementation of driving.LocateService.
type mockLocateService struct {
	report *domain.LocateReport
	err    error

	gotInput domain.LocateInput
	gotOpts  domain.LocateOptions
}

func (m *mockLocateService) Locate(
	_ context.Context,
	input domain.LocateInput,
	opts domain.LocateOptions,
) (*domain.LocateReport, error) {
	m.gotInput = input
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.LocateReport{RunID: "run-1", Options: opts, Queries: input.Queries}, nil
}

// mockMapService is a mock implementation of driving.MapService.
type mockMapService struct {
	maps      []domain.GeneticMap
	databases []domain.Database
	err       error
}

func (m *mockMapService) List(_ context.Context) ([]domain.GeneticMap, error) {
	return m.maps, m.err
}

func (m *mockMapService) Get(_ context.Context, id string) (*domain.GeneticMap, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.maps {
		if m.maps[i].ID == id {
			return &m.maps[i], nil
		}
	}
	return nil, domain.ErrUnknownMap
}

func (m *mockMapService) Databases(_ context.Context) ([]domain.Database, error) {
	return m.databases, m.err
}

func testMaps() *mockMapService {
	return &mockMapService{
		maps: []domain.GeneticMap{
			{
				ID: "morex", Name: "Morex genome", HasBP: true, DefaultSort: domain.SortBP,
				Chromosomes: []string{"chr1H", "chr2H"},
				Group:       domain.DatabaseGroup{Databases: []string{"morex_genome"}},
			},
			{
				ID: "barke", Name: "Barke POPSEQ", HasCM: true, DefaultSort: domain.SortCM,
				Group: domain.DatabaseGroup{Databases: []string{"barke_contigs", "morex_contigs"}, Hierarchical: true},
			},
		},
		databases: []domain.Database{
			{ID: "morex_genome", Name: "Morex genome", Genomic: true},
			{ID: "barke_contigs", Name: "Barke contigs"},
		},
	}
}

func newTestServer(t *testing.T, locate *mockLocateService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Locate: locate, Maps: testMaps()})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}
