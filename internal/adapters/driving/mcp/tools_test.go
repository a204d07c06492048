package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

func TestServer_handleLocate(t *testing.T) {
	ctx := context.Background()

	t.Run("converts hits and applies defaults", func(t *testing.T) {
		locate := &mockLocateService{}
		server := newTestServer(t, locate)

		input := LocateInput{
			Queries: []string{"q1", "q2"},
			Hits: []HitInput{
				{Query: "q1", Database: "barke_contigs", Target: "ctg1", Start: 40, End: 10,
					Identity: 99, Coverage: 100, Score: 50, Reverse: true},
				{Query: "q2", Database: "barke_contigs", Target: "ctg2", Start: 7, Identity: 98, Coverage: 95},
			},
		}
		_, out, err := server.handleLocate(ctx, nil, input)
		require.NoError(t, err)
		assert.Equal(t, "run-1", out.RunID)
		assert.Equal(t, 2, out.Queries)

		require.Len(t, locate.gotInput.Hits, 2)
		h := locate.gotInput.Hits[0]
		assert.Equal(t, "q1", h.QueryID)
		assert.Equal(t, domain.StrandReverse, h.Strand)
		assert.Equal(t, int64(40), h.TargetStart)
		assert.Equal(t, int64(7), locate.gotInput.Hits[1].TargetEnd)

		opts := locate.gotOpts
		assert.Equal(t, domain.DefaultThreshold(), opts.Threshold)
		assert.Equal(t, domain.SelectionBestGlobal, opts.Selection)
		assert.Equal(t, domain.EnrichNone, opts.Enrichment)
		assert.Equal(t, domain.DefaultWindow, opts.Window)
		assert.Nil(t, opts.Hierarchical)
	})

	t.Run("overrides options", func(t *testing.T) {
		locate := &mockLocateService{}
		server := newTestServer(t, locate)

		identity, window := 90.0, 2.5
		hierarchical := false
		input := LocateInput{
			Maps:         []string{"barke"},
			MinIdentity:  &identity,
			BestScore:    "db",
			Hierarchical: &hierarchical,
			Sort:         "bp",
			Genes:        "between",
			Extend:       true,
			Window:       &window,
			Annotate:     true,
		}
		_, _, err := server.handleLocate(ctx, nil, input)
		require.NoError(t, err)

		opts := locate.gotOpts
		assert.Equal(t, []string{"barke"}, opts.Maps)
		assert.Equal(t, 90.0, opts.Threshold.MinIdentity)
		assert.Equal(t, domain.DefaultMinCoverage, opts.Threshold.MinCoverage)
		assert.Equal(t, domain.SelectionBestPerDatabase, opts.Selection)
		require.NotNil(t, opts.Hierarchical)
		assert.False(t, *opts.Hierarchical)
		assert.Equal(t, domain.SortBP, opts.Sort)
		assert.Equal(t, domain.EnrichGenes, opts.Enrichment)
		assert.Equal(t, domain.WindowBetweenMarkers, opts.WindowMode)
		assert.Equal(t, 2.5, opts.EffectiveWindow())
		assert.True(t, opts.Annotate)
	})

	t.Run("uses configured defaults", func(t *testing.T) {
		locate := &mockLocateService{}
		defaults := domain.DefaultAppSettings().Locate
		defaults.Selection = domain.SelectionNone
		defaults.ShowMultiples = true
		server, err := NewServer(&Ports{Locate: locate, Maps: testMaps(), Defaults: &defaults})
		require.NoError(t, err)

		_, _, err = server.handleLocate(ctx, nil, LocateInput{})
		require.NoError(t, err)
		assert.Equal(t, domain.SelectionNone, locate.gotOpts.Selection)
		assert.True(t, locate.gotOpts.ShowMultiples)
	})

	t.Run("policy errors are reported before locating", func(t *testing.T) {
		tests := []struct {
			name  string
			input LocateInput
		}{
			{"best score", LocateInput{BestScore: "maybe"}},
			{"genes", LocateInput{Genes: "flanking"}},
			{"threshold", LocateInput{MinIdentity: ptr(101.0)}},
			{"window", LocateInput{Window: ptr(-1.0)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				locate := &mockLocateService{}
				server := newTestServer(t, locate)

				_, _, err := server.handleLocate(ctx, nil, tt.input)
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrPolicy)
				assert.Contains(t, err.Error(), "check the locate options")
				assert.Empty(t, locate.gotInput.Hits)
			})
		}
	})

	t.Run("returns locate failure", func(t *testing.T) {
		server := newTestServer(t, &mockLocateService{err: errors.New("catalog unreadable")})

		_, _, err := server.handleLocate(ctx, nil, LocateInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog unreadable")
	})

	t.Run("renders map results", func(t *testing.T) {
		report := &domain.LocateReport{
			RunID:   "run-2",
			Queries: []string{"q1", "q2"},
			Results: []domain.MapResult{{
				Map:       domain.GeneticMap{ID: "barke", Name: "Barke POPSEQ"},
				Unit:      domain.SortCM,
				Positions: []domain.MapPosition{{MarkerName: "q1", Chromosome: "1H", CM: domain.CM(5)}},
				Unaligned: []string{"q2"},
			}},
		}
		server := newTestServer(t, &mockLocateService{report: report})

		_, out, err := server.handleLocate(ctx, nil, LocateInput{ShowUnmapped: true})
		require.NoError(t, err)
		require.Len(t, out.Maps, 1)
		assert.Equal(t, "barke", out.Maps[0].ID)
		require.Len(t, out.Maps[0].Positions, 1)
		assert.Equal(t, "q1", out.Maps[0].Positions[0].Marker)
		assert.Equal(t, []string{"q2"}, out.Maps[0].Unaligned)
	})
}

func TestServer_handleListMaps(t *testing.T) {
	ctx := context.Background()

	t.Run("returns catalog", func(t *testing.T) {
		server := newTestServer(t, &mockLocateService{})

		_, out, err := server.handleListMaps(ctx, nil, MapsInput{})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Count)
		assert.Equal(t, "barke", out.Maps[1].ID)
		assert.True(t, out.Maps[1].Hierarchical)
		assert.Equal(t, "cm", out.Maps[1].DefaultSort)
		assert.Equal(t, []string{"barke_contigs", "morex_contigs"}, out.Maps[1].Databases)
	})

	t.Run("returns error on catalog failure", func(t *testing.T) {
		maps := testMaps()
		maps.err = errors.New("yaml broken")
		server, err := NewServer(&Ports{Locate: &mockLocateService{}, Maps: maps})
		require.NoError(t, err)

		_, _, err = server.handleListMaps(ctx, nil, MapsInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "yaml broken")
	})
}

func TestServer_handleDescribeMap(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockLocateService{})

	t.Run("resolves databases", func(t *testing.T) {
		_, out, err := server.handleDescribeMap(ctx, nil, DescribeInput{ID: "barke"})
		require.NoError(t, err)
		assert.Equal(t, "Barke POPSEQ", out.Map.Name)
		require.Len(t, out.Databases, 2)
		assert.Equal(t, "Barke contigs", out.Databases[0].Name)
		// Databases missing from the registry fall back to their id.
		assert.Equal(t, "morex_contigs", out.Databases[1].Name)
	})

	t.Run("genomic flag", func(t *testing.T) {
		_, out, err := server.handleDescribeMap(ctx, nil, DescribeInput{ID: "morex"})
		require.NoError(t, err)
		require.Len(t, out.Databases, 1)
		assert.True(t, out.Databases[0].Genomic)
	})

	t.Run("unknown map", func(t *testing.T) {
		_, _, err := server.handleDescribeMap(ctx, nil, DescribeInput{ID: "ghost"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownMap)
		assert.Contains(t, err.Error(), "check the map and database identifiers")
	})
}

func TestExtractMapID(t *testing.T) {
	assert.Equal(t, "barke", extractMapID("bmap://maps/barke"))
	assert.Equal(t, "", extractMapID("bmap://sources/barke"))
}

func TestUserError(t *testing.T) {
	assert.Nil(t, userError(nil))

	err := userError(domain.ErrFeaturesUnsorted)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
	assert.Contains(t, err.Error(), "re-import")

	err = userError(domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "malformed input")

	plain := errors.New("disk full")
	assert.Equal(t, plain, userError(plain))
}

func ptr[T any](v T) *T {
	return &v
}
