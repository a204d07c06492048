package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/output"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// HitInput is one alignment reported by an aligner.
type HitInput struct {
	Query    string  `json:"query" jsonschema:"id of the aligned query sequence"`
	Database string  `json:"database" jsonschema:"id of the reference database"`
	Target   string  `json:"target" jsonschema:"contig or chromosome hit within the database"`
	Start    int64   `json:"start" jsonschema:"1-based leftmost aligned target position"`
	End      int64   `json:"end,omitempty" jsonschema:"1-based rightmost aligned target position"`
	Identity float64 `json:"identity" jsonschema:"percentage of identical positions"`
	Coverage float64 `json:"coverage" jsonschema:"percentage of the query covered"`
	Score    float64 `json:"score,omitempty" jsonschema:"aligner score, higher is better"`
	Reverse  bool    `json:"reverse,omitempty" jsonschema:"alignment is on the reverse strand"`
}

// LocateInput is the input schema for the locate_sequences tool.
type LocateInput struct {
	Hits         []HitInput `json:"hits" jsonschema:"alignments of the queries against the map databases"`
	Queries      []string   `json:"queries,omitempty" jsonschema:"all submitted query ids, including those without hits"`
	Maps         []string   `json:"maps,omitempty" jsonschema:"maps to locate on (default all)"`
	Databases    []string   `json:"databases,omitempty" jsonschema:"restrict each map to these databases"`
	MinIdentity  *float64   `json:"min_identity,omitempty" jsonschema:"minimum identity percentage (default 98)"`
	MinCoverage  *float64   `json:"min_coverage,omitempty" jsonschema:"minimum query coverage percentage (default 95)"`
	BestScore    string     `json:"best_score,omitempty" jsonschema:"keep best hits: yes (overall), db (per database) or no"`
	Hierarchical *bool      `json:"hierarchical,omitempty" jsonschema:"override the maps' hierarchical database search"`
	Sort         string     `json:"sort,omitempty" jsonschema:"sort unit: cm or bp (default per map)"`
	Multiples    bool       `json:"show_multiples,omitempty" jsonschema:"list queries with several positions"`
	Genes        string     `json:"genes,omitempty" jsonschema:"attach genes: marker, between or no"`
	Markers      bool       `json:"markers,omitempty" jsonschema:"attach markers of other datasets"`
	Extend       bool       `json:"extend,omitempty" jsonschema:"widen the feature search by window"`
	Window       *float64   `json:"window,omitempty" jsonschema:"feature search window in the sort unit"`
	Annotate     bool       `json:"annotate,omitempty" jsonschema:"attach functional annotation to genes"`
	ShowUnmapped bool       `json:"show_unmapped,omitempty" jsonschema:"include unmapped and unaligned queries"`
}

// MapsInput is the input schema for the list_maps tool.
type MapsInput struct{}

// MapsOutput is the output schema for the list_maps tool.
type MapsOutput struct {
	Maps  []MapInfo `json:"maps"`
	Count int       `json:"count"`
}

// MapInfo describes a catalogued map.
type MapInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	HasCM        bool     `json:"has_cm"`
	HasBP        bool     `json:"has_bp"`
	DefaultSort  string   `json:"default_sort"`
	Hierarchical bool     `json:"hierarchical"`
	Databases    []string `json:"databases"`
	Chromosomes  []string `json:"chromosomes,omitempty"`
}

// DescribeInput is the input schema for the describe_map tool.
type DescribeInput struct {
	ID string `json:"id" jsonschema:"the map id"`
}

// DescribeOutput is the output schema for the describe_map tool.
type DescribeOutput struct {
	Map       MapInfo        `json:"map"`
	Databases []DatabaseInfo `json:"databases"`
}

// DatabaseInfo describes a database of a map's group.
type DatabaseInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Genomic bool   `json:"genomic"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "locate_sequences",
		Description: "Place aligned query sequences on genetic maps",
	}, s.handleLocate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_maps",
		Description: "List the available genetic maps",
	}, s.handleListMaps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "describe_map",
		Description: "Show a genetic map and its database group",
	}, s.handleDescribeMap)
}

// handleLocate handles the locate_sequences tool invocation.
func (s *Server) handleLocate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LocateInput,
) (*mcp.CallToolResult, output.Report, error) {
	opts, err := input.options(s.defaults())
	if err != nil {
		return nil, output.Report{}, userError(err)
	}

	report, err := s.ports.Locate.Locate(ctx, input.locateInput(), opts)
	if err != nil {
		return nil, output.Report{}, userError(err)
	}
	return nil, output.NewReport(report, input.ShowUnmapped), nil
}

// handleListMaps handles the list_maps tool invocation.
func (s *Server) handleListMaps(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ MapsInput,
) (*mcp.CallToolResult, MapsOutput, error) {
	maps, err := s.ports.Maps.List(ctx)
	if err != nil {
		return nil, MapsOutput{}, fmt.Errorf("listing maps: %w", err)
	}

	out := MapsOutput{
		Maps:  make([]MapInfo, len(maps)),
		Count: len(maps),
	}
	for i := range maps {
		out.Maps[i] = newMapInfo(maps[i])
	}
	return nil, out, nil
}

// handleDescribeMap handles the describe_map tool invocation.
func (s *Server) handleDescribeMap(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DescribeInput,
) (*mcp.CallToolResult, DescribeOutput, error) {
	m, err := s.ports.Maps.Get(ctx, input.ID)
	if err != nil {
		return nil, DescribeOutput{}, userError(err)
	}
	registry, err := s.ports.Maps.Databases(ctx)
	if err != nil {
		return nil, DescribeOutput{}, fmt.Errorf("listing databases: %w", err)
	}

	byID := make(map[string]domain.Database, len(registry))
	for _, db := range registry {
		byID[db.ID] = db
	}
	out := DescribeOutput{
		Map:       newMapInfo(*m),
		Databases: make([]DatabaseInfo, 0, len(m.Group.Databases)),
	}
	for _, id := range m.Group.Databases {
		db, ok := byID[id]
		if !ok {
			db = domain.Database{ID: id, Name: id}
		}
		out.Databases = append(out.Databases, DatabaseInfo{ID: db.ID, Name: db.Name, Genomic: db.Genomic})
	}
	return nil, out, nil
}

func (s *Server) defaults() domain.LocateSettings {
	if s.ports.Defaults != nil {
		return *s.ports.Defaults
	}
	return domain.DefaultAppSettings().Locate
}

// options resolves the tool input over the configured defaults.
func (in LocateInput) options(defaults domain.LocateSettings) (domain.LocateOptions, error) {
	opts := defaults.Options()
	opts.Maps = in.Maps
	opts.Databases = in.Databases
	opts.Hierarchical = in.Hierarchical
	opts.ShowMultiples = opts.ShowMultiples || in.Multiples
	opts.Extend = in.Extend
	opts.Annotate = in.Annotate

	if in.MinIdentity != nil {
		opts.Threshold.MinIdentity = *in.MinIdentity
	}
	if in.MinCoverage != nil {
		opts.Threshold.MinCoverage = *in.MinCoverage
	}
	if in.Window != nil {
		opts.Window = *in.Window
	}
	if in.BestScore != "" {
		mode, err := domain.ParseSelectionMode(in.BestScore)
		if err != nil {
			return opts, err
		}
		opts.Selection = mode
	}
	if in.Sort != "" {
		unit, err := domain.ParseSortUnit(in.Sort)
		if err != nil {
			return opts, err
		}
		opts.Sort = unit
	}

	enrich, mode, err := domain.ParseEnrichment(in.Genes, in.Markers)
	if err != nil {
		return opts, err
	}
	opts.Enrichment = enrich
	opts.WindowMode = mode

	return opts, opts.Validate()
}

func (in LocateInput) locateInput() domain.LocateInput {
	hits := make([]domain.AlignmentHit, len(in.Hits))
	for i, h := range in.Hits {
		end := h.End
		if end == 0 {
			end = h.Start
		}
		strand := domain.StrandForward
		if h.Reverse {
			strand = domain.StrandReverse
		}
		hits[i] = domain.AlignmentHit{
			QueryID:          h.Query,
			DatabaseID:       h.Database,
			TargetChromosome: h.Target,
			TargetStart:      h.Start,
			TargetEnd:        end,
			Identity:         h.Identity,
			Coverage:         h.Coverage,
			Score:            h.Score,
			Strand:           strand,
		}
	}
	return domain.LocateInput{Queries: in.Queries, Hits: hits}
}

func newMapInfo(m domain.GeneticMap) MapInfo {
	return MapInfo{
		ID:           m.ID,
		Name:         m.Name,
		HasCM:        m.HasCM,
		HasBP:        m.HasBP,
		DefaultSort:  m.DefaultSort.String(),
		Hierarchical: m.Group.Hierarchical,
		Databases:    append([]string{}, m.Group.Databases...),
		Chromosomes:  m.Chromosomes,
	}
}
