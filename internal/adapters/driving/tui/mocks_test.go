package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

type mockLocateService struct {
	mu      sync.Mutex
	calls   int
	gotOpts domain.LocateOptions
	report  *domain.LocateReport
	err     error
}

func (m *mockLocateService) Locate(
	_ context.Context, _ domain.LocateInput, opts domain.LocateOptions,
) (*domain.LocateReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.LocateReport{RunID: "rerun", Options: opts}, nil
}

func cm(v float64) *float64 { return &v }

func testReport() *domain.LocateReport {
	return &domain.LocateReport{
		RunID:   "0123456789abcdef",
		Queries: []string{"q1", "q2", "q3"},
		Options: domain.DefaultLocateOptions(),
		Results: []domain.MapResult{
			{
				Map:  domain.GeneticMap{ID: "barke", Name: "Barke", HasCM: true},
				Unit: domain.SortCM,
				Positions: []domain.MapPosition{
					{MarkerName: "q1", Chromosome: "1H", CM: cm(5)},
					{MarkerName: "q2", Chromosome: "3H", CM: cm(41.2)},
				},
				Unaligned: []string{"q3"},
			},
			{
				Map: domain.GeneticMap{ID: "morex", Name: "Morex", HasBP: true},
				Err: &domain.MapError{MapID: "morex", Err: domain.ErrUnknownDatabase},
			},
		},
	}
}
