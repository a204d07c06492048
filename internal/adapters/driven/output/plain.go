package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure Plain implements the interface.
var _ driven.ReportWriter = (*Plain)(nil)

const (
	none    = "-"
	yes     = "Yes"
	no      = "No"
	noHits  = "no hits"
	notDone = "nd"
)

// Section titles.
const (
	TitleMap            = "Map"
	TitleMapWithGenes   = "Map with genes"
	TitleMapWithMarkers = "Map with markers"
)

// Plain renders the tab-separated report.
type Plain struct{}

// NewPlain creates the tab-separated renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Write implements driven.ReportWriter.
func (p *Plain) Write(w io.Writer, report *domain.LocateReport, opts driven.RenderOptions) error {
	bw := bufio.NewWriter(w)
	for _, res := range report.Results {
		r := &mapRenderer{
			w:        bw,
			res:      res,
			opts:     opts,
			multiple: report.Options.ShowMultiples,
			annotate: report.Options.Annotate,
		}
		r.render(report.Options.Enrichment)
	}
	return bw.Flush()
}

type mapRenderer struct {
	w        *bufio.Writer
	res      domain.MapResult
	opts     driven.RenderOptions
	multiple bool
	annotate bool
}

func (r *mapRenderer) line(fields ...string) {
	r.w.WriteString(strings.Join(fields, "\t"))
	r.w.WriteByte('\n')
}

func (r *mapRenderer) header(fields ...string) {
	if r.opts.ShowHeaders {
		r.w.WriteByte('#')
		r.line(fields...)
	}
}

func (r *mapRenderer) render(enrichment domain.Enrichment) {
	fmt.Fprintf(r.w, ">%s\n", r.res.Map.ID)
	if r.res.Err != nil {
		fmt.Fprintf(r.w, "#error\t%s\n", r.res.Err.Err)
		return
	}

	switch enrichment {
	case domain.EnrichGenes:
		r.section(TitleMapWithGenes)
		r.header(append(r.baseHeader(), r.geneHeader()...)...)
		r.rows(r.geneFields, len(r.geneHeader()))
	case domain.EnrichMarkers:
		r.section(TitleMapWithMarkers)
		r.header(append(r.baseHeader(), r.markerHeader()...)...)
		r.rows(r.markerFields, len(r.markerHeader()))
	default:
		r.section(TitleMap)
		r.header(r.baseHeader()...)
		for _, p := range r.res.Positions {
			r.line(r.baseFields(p)...)
		}
	}

	if r.opts.ShowUnmapped {
		r.unmapped()
		r.unaligned()
	}
}

func (r *mapRenderer) section(title string) {
	if r.opts.ShowUnmapped {
		fmt.Fprintf(r.w, "##%s\n", title)
	}
}

// rows writes one row per attached feature, or a single row padded with
// width placeholders when a position has none.
func (r *mapRenderer) rows(fields func(domain.Feature) []string, width int) {
	for _, p := range r.res.Positions {
		base := r.baseFields(p)
		if len(p.Features) == 0 {
			r.line(append(base, placeholders(width)...)...)
			continue
		}
		for _, f := range p.Features {
			r.line(append(append([]string(nil), base...), fields(f)...)...)
		}
	}
}

func (r *mapRenderer) baseHeader() []string {
	h := []string{"marker", "chr"}
	h = append(h, r.unitHeader("cM", "bp")...)
	if r.multiple {
		h = append(h, "multiple_positions")
	}
	return append(h, "other_alignments")
}

func (r *mapRenderer) baseFields(p domain.MapPosition) []string {
	row := []string{p.MarkerName, p.Chromosome}
	row = append(row, r.coordinate(p.CM, p.BP)...)
	if r.multiple {
		row = append(row, flag(p.IsMultiple))
	}
	return append(row, flag(p.HasOtherAlignments))
}

func (r *mapRenderer) geneHeader() []string {
	h := []string{"gene", "class", "gene_chr"}
	h = append(h, r.unitHeader("gene_cM", "gene_bp")...)
	if r.annotate {
		h = append(h, "description", "InterPro", "PFAM", "GO")
	}
	return h
}

func (r *mapRenderer) geneFields(g domain.Feature) []string {
	row := []string{g.ID, orNone(g.Class), g.Chromosome}
	row = append(row, r.coordinate(g.CM, g.BP)...)
	if r.annotate {
		a := domain.Annotation{}
		if g.Annotation != nil {
			a = *g.Annotation
		}
		row = append(row,
			orNone(a.Description),
			orNone(a.InterPro),
			orNone(a.Pfam),
			orNone(strings.Join(a.GOTerms, ",")),
		)
	}
	return row
}

func (r *mapRenderer) markerHeader() []string {
	h := []string{"marker_id", "dataset", "marker_chr"}
	h = append(h, r.unitHeader("marker_cM", "marker_bp")...)
	return append(h, "genes")
}

func (r *mapRenderer) markerFields(m domain.Feature) []string {
	row := []string{m.ID, orNone(m.Dataset), m.Chromosome}
	row = append(row, r.coordinate(m.CM, m.BP)...)
	switch {
	case !m.GenesConfigured:
		row = append(row, notDone)
	case len(m.Genes) == 0:
		row = append(row, noHits)
	default:
		row = append(row, strings.Join(m.Genes, ","))
	}
	return row
}

func (r *mapRenderer) unitHeader(cm, bp string) []string {
	var h []string
	if r.res.Map.HasCM {
		h = append(h, cm)
	}
	if r.res.Map.HasBP {
		h = append(h, bp)
	}
	return h
}

func (r *mapRenderer) coordinate(cm *float64, bp *int64) []string {
	var row []string
	if r.res.Map.HasCM {
		row = append(row, FormatCM(cm))
	}
	if r.res.Map.HasBP {
		row = append(row, FormatBP(bp))
	}
	return row
}

func (r *mapRenderer) unmapped() {
	fmt.Fprintf(r.w, "##%s\n", domain.ClassUnmapped.Title())
	r.header("marker", "contig", "has_pos_maps")
	for _, u := range r.res.Unmapped {
		r.line(u.QueryID, u.Contig, flag(u.HasPosMaps))
	}
}

func (r *mapRenderer) unaligned() {
	fmt.Fprintf(r.w, "##%s\n", domain.ClassUnaligned.Title())
	r.header("marker")
	for _, id := range r.res.Unaligned {
		r.line(id)
	}
}

// FormatCM renders a centimorgan value with two decimals, or "-".
func FormatCM(cm *float64) string {
	if cm == nil {
		return none
	}
	return strconv.FormatFloat(*cm, 'f', 2, 64)
}

// FormatBP renders a basepair value, or "-".
func FormatBP(bp *int64) string {
	if bp == nil {
		return none
	}
	return strconv.FormatInt(*bp, 10)
}

func flag(b bool) string {
	if b {
		return yes
	}
	return no
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = none
	}
	return out
}
