package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure JSON implements the interface.
var _ driven.ReportWriter = (*JSON)(nil)

// JSON renders the report as an indented JSON document.
type JSON struct{}

// NewJSON creates the JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// Report is the JSON form of a locate report. The HTTP and MCP adapters
// return the same shape.
type Report struct {
	RunID     string      `json:"run_id"`
	StartedAt time.Time   `json:"started_at"`
	Options   Options     `json:"options"`
	Queries   int         `json:"queries"`
	Maps      []MapReport `json:"maps"`
}

// Options echoes the run parameters.
type Options struct {
	MinIdentity   float64 `json:"min_identity"`
	MinCoverage   float64 `json:"min_coverage"`
	Selection     string  `json:"selection"`
	Sort          string  `json:"sort,omitempty"`
	ShowMultiples bool    `json:"show_multiples"`
	Enrichment    string  `json:"enrichment,omitempty"`
	WindowMode    string  `json:"window_mode,omitempty"`
	Window        float64 `json:"window"`
	Annotate      bool    `json:"annotate"`
}

// MapReport is the result of one map.
type MapReport struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"`
	Unit      string           `json:"unit,omitempty"`
	Error     string           `json:"error,omitempty"`
	Positions []Position       `json:"positions"`
	Multiple  []string         `json:"multiple"`
	Unmapped  []UnmappedRecord `json:"unmapped,omitempty"`
	Unaligned []string         `json:"unaligned,omitempty"`
}

// Position is one mapped row.
type Position struct {
	Marker          string    `json:"marker"`
	Chromosome      string    `json:"chr"`
	CM              *float64  `json:"cm,omitempty"`
	BP              *int64    `json:"bp,omitempty"`
	Multiple        bool      `json:"multiple"`
	OtherAlignments bool      `json:"other_alignments"`
	Features        []Feature `json:"features,omitempty"`
}

// Feature is an attached marker or gene.
type Feature struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Class      string      `json:"class,omitempty"`
	Dataset    string      `json:"dataset,omitempty"`
	Chromosome string      `json:"chr"`
	CM         *float64    `json:"cm,omitempty"`
	BP         *int64      `json:"bp,omitempty"`
	Genes      []string    `json:"genes,omitempty"`
	Annotation *Annotation `json:"annotation,omitempty"`
}

// Annotation is the functional annotation of a gene.
type Annotation struct {
	Description string   `json:"description,omitempty"`
	InterPro    string   `json:"interpro,omitempty"`
	Pfam        string   `json:"pfam,omitempty"`
	GO          []string `json:"go,omitempty"`
}

// UnmappedRecord is an aligned query without a map coordinate.
type UnmappedRecord struct {
	Marker     string `json:"marker"`
	Contig     string `json:"contig"`
	HasPosMaps bool   `json:"has_pos_maps"`
}

// Write implements driven.ReportWriter. Unmapped and unaligned lists are
// included only when opts.ShowUnmapped is set.
func (j *JSON) Write(w io.Writer, report *domain.LocateReport, opts driven.RenderOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(report, opts.ShowUnmapped))
}

// NewReport converts a domain report.
func NewReport(report *domain.LocateReport, withUnmapped bool) Report {
	o := report.Options
	out := Report{
		RunID:     report.RunID,
		StartedAt: report.StartedAt,
		Queries:   len(report.Queries),
		Options: Options{
			MinIdentity:   o.Threshold.MinIdentity,
			MinCoverage:   o.Threshold.MinCoverage,
			Selection:     o.Selection.String(),
			Sort:          o.Sort.String(),
			ShowMultiples: o.ShowMultiples,
			Enrichment:    o.Enrichment.String(),
			WindowMode:    o.WindowMode.String(),
			Window:        o.EffectiveWindow(),
			Annotate:      o.Annotate,
		},
		Maps: make([]MapReport, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		out.Maps = append(out.Maps, newMapReport(res, withUnmapped))
	}
	return out
}

func newMapReport(res domain.MapResult, withUnmapped bool) MapReport {
	m := MapReport{
		ID:        res.Map.ID,
		Name:      res.Map.Name,
		Unit:      res.Unit.String(),
		Positions: make([]Position, 0, len(res.Positions)),
		Multiple:  append([]string{}, res.Multiple...),
	}
	if res.Err != nil {
		m.Error = res.Err.Err.Error()
		return m
	}

	for _, p := range res.Positions {
		pos := Position{
			Marker:          p.MarkerName,
			Chromosome:      p.Chromosome,
			CM:              p.CM,
			BP:              p.BP,
			Multiple:        p.IsMultiple,
			OtherAlignments: p.HasOtherAlignments,
		}
		for _, f := range p.Features {
			pos.Features = append(pos.Features, newFeature(f))
		}
		m.Positions = append(m.Positions, pos)
	}

	if withUnmapped {
		for _, u := range res.Unmapped {
			m.Unmapped = append(m.Unmapped, UnmappedRecord{Marker: u.QueryID, Contig: u.Contig, HasPosMaps: u.HasPosMaps})
		}
		m.Unaligned = res.Unaligned
	}
	return m
}

func newFeature(f domain.Feature) Feature {
	out := Feature{
		ID:         f.ID,
		Type:       f.Type.String(),
		Class:      f.Class,
		Dataset:    f.Dataset,
		Chromosome: f.Chromosome,
		CM:         f.CM,
		BP:         f.BP,
		Genes:      f.Genes,
	}
	if f.Annotation != nil {
		out.Annotation = &Annotation{
			Description: f.Annotation.Description,
			InterPro:    f.Annotation.InterPro,
			Pfam:        f.Annotation.Pfam,
			GO:          f.Annotation.GOTerms,
		}
	}
	return out
}
