package api

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

type mockLocateService struct {
	report *domain.LocateReport
	err    error

	calls    int
	gotInput domain.LocateInput
	gotOpts  domain.LocateOptions
}

func (m *mockLocateService) Locate(
	_ context.Context,
	input domain.LocateInput,
	opts domain.LocateOptions,
) (*domain.LocateReport, error) {
	m.calls++
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
		maps: []domain.GeneticMap{{
			ID: "barke", Name: "Barke POPSEQ", HasCM: true, DefaultSort: domain.SortCM,
			Chromosomes: []string{"1H", "2H"},
			Group:       domain.DatabaseGroup{Databases: []string{"barke_contigs", "morex_contigs"}, Hierarchical: true},
		}},
		databases: []domain.Database{{ID: "barke_contigs", Name: "Barke contigs"}},
	}
}
