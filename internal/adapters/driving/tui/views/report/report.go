// Package report provides the per-map table view of a locate report.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/output"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// Section selects which table of the current map is shown.
type Section int

const (
	// SectionPositions lists the mapped positions.
	SectionPositions Section = iota
	// SectionUnmapped lists unmapped and unaligned queries.
	SectionUnmapped
)

// chrome is the number of lines taken by tabs, title and detail pane.
const chrome = 12

// View browses the maps of a report.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	report *domain.LocateReport
	table  table.Model

	current int
	section Section
	width   int
	height  int
}

// NewView creates a report view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	t.SetStyles(s.Table())
	return &View{
		styles: s,
		keymap: km,
		table:  t,
		width:  80,
		height: 24,
	}
}

// SetReport replaces the browsed report, keeping the current map when it
// still exists.
func (v *View) SetReport(r *domain.LocateReport) {
	v.report = r
	if r == nil || v.current >= len(r.Results) {
		v.current = 0
	}
	v.refresh()
}

// Report returns the browsed report.
func (v *View) Report() *domain.LocateReport {
	return v.report
}

// Current returns the index of the shown map.
func (v *View) Current() int {
	return v.current
}

// Section returns the shown section.
func (v *View) Section() Section {
	return v.section
}

// Rows returns the rows of the shown table.
func (v *View) Rows() []table.Row {
	return v.table.Rows()
}

// Cursor returns the selected row index.
func (v *View) Cursor() int {
	return v.table.Cursor()
}

// SetDimensions sets the terminal dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.table.SetWidth(width)
	v.table.SetHeight(max(height-chrome, 3))
}

// Update handles navigation keys and forwards the rest to the table.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keymap.Matches(msg.String(), v.keymap.NextMap):
			v.move(1)
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.PrevMap):
			v.move(-1)
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.Unmapped):
			if v.section == SectionPositions {
				v.section = SectionUnmapped
			} else {
				v.section = SectionPositions
			}
			v.refresh()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *View) move(delta int) {
	if v.report == nil || len(v.report.Results) == 0 {
		return
	}
	n := len(v.report.Results)
	v.current = (v.current + delta + n) % n
	v.refresh()
}

// refresh rebuilds the table for the current map and section. Rows are
// cleared before the columns change so no row is rendered against a
// narrower column set.
func (v *View) refresh() {
	v.table.SetRows(nil)
	res, ok := v.result()
	if !ok || res.Err != nil {
		v.table.SetColumns(nil)
		return
	}
	multiples := v.report.Options.ShowMultiples
	if v.section == SectionUnmapped {
		v.table.SetColumns(UnmappedColumns())
		v.table.SetRows(UnmappedRows(res))
	} else {
		v.table.SetColumns(PositionColumns(res.Map, multiples))
		v.table.SetRows(PositionRows(res, multiples))
	}
	v.table.SetCursor(0)
}

func (v *View) result() (domain.MapResult, bool) {
	if v.report == nil || v.current >= len(v.report.Results) {
		return domain.MapResult{}, false
	}
	return v.report.Results[v.current], true
}

// Selected returns the position under the cursor.
func (v *View) Selected() (domain.MapPosition, bool) {
	res, ok := v.result()
	if !ok || v.section != SectionPositions {
		return domain.MapPosition{}, false
	}
	i := v.table.Cursor()
	if i < 0 || i >= len(res.Positions) {
		return domain.MapPosition{}, false
	}
	return res.Positions[i], true
}

// View renders tabs, the table and the detail pane.
func (v *View) View() string {
	if v.report == nil || len(v.report.Results) == 0 {
		return v.styles.Muted.Render("No maps in report.")
	}

	var b strings.Builder
	b.WriteString(v.tabs())
	b.WriteString("\n\n")

	res, _ := v.result()
	if res.Err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Map failed: %v", res.Err.Err)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(v.title(res)))
	b.WriteString("\n")
	b.WriteString(v.table.View())
	b.WriteString("\n\n")
	if v.section == SectionPositions {
		b.WriteString(v.detail(res))
	}
	return b.String()
}

func (v *View) tabs() string {
	tabs := make([]string, 0, len(v.report.Results))
	for i, res := range v.report.Results {
		label := res.Map.ID
		if res.Err != nil {
			label += " !"
		}
		if i == v.current {
			tabs = append(tabs, v.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, v.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v *View) title(res domain.MapResult) string {
	name := res.Map.Name
	if name == "" {
		name = res.Map.ID
	}
	if v.section == SectionUnmapped {
		return fmt.Sprintf("%s: %d unmapped, %d unaligned", name, len(res.Unmapped), len(res.Unaligned))
	}
	return fmt.Sprintf("%s: %d positions sorted by %s, %d multiple",
		name, len(res.Positions), res.Unit, len(res.Multiple))
}

// detail lists the features attached to the selected position.
func (v *View) detail(res domain.MapResult) string {
	p, ok := v.Selected()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s on %s", p.MarkerName, p.Chromosome)))
	b.WriteString("\n")
	if len(p.Features) == 0 {
		b.WriteString(v.styles.Muted.Render("  no features"))
		return b.String()
	}
	for _, f := range p.Features {
		b.WriteString("  ")
		b.WriteString(v.styles.Normal.Render(FeatureLine(res.Map, f)))
		b.WriteString("\n")
	}
	return b.String()
}

// PositionColumns returns the columns of the positions table of m.
func PositionColumns(m domain.GeneticMap, multiples bool) []table.Column {
	cols := []table.Column{
		{Title: "Marker", Width: 24},
		{Title: "Chr", Width: 6},
	}
	if m.HasCM {
		cols = append(cols, table.Column{Title: "cM", Width: 9})
	}
	if m.HasBP {
		cols = append(cols, table.Column{Title: "bp", Width: 12})
	}
	if multiples {
		cols = append(cols, table.Column{Title: "Multiple", Width: 8})
	}
	return append(cols,
		table.Column{Title: "Other", Width: 6},
		table.Column{Title: "Features", Width: 8},
	)
}

// PositionRows returns one row per position of res.
func PositionRows(res domain.MapResult, multiples bool) []table.Row {
	rows := make([]table.Row, 0, len(res.Positions))
	for _, p := range res.Positions {
		row := table.Row{p.MarkerName, p.Chromosome}
		if res.Map.HasCM {
			row = append(row, output.FormatCM(p.CM))
		}
		if res.Map.HasBP {
			row = append(row, output.FormatBP(p.BP))
		}
		if multiples {
			row = append(row, yesNo(p.IsMultiple))
		}
		rows = append(rows, append(row, yesNo(p.HasOtherAlignments), fmt.Sprint(len(p.Features))))
	}
	return rows
}

// UnmappedColumns returns the columns of the unmapped table.
func UnmappedColumns() []table.Column {
	return []table.Column{
		{Title: "Marker", Width: 24},
		{Title: "Class", Width: 10},
		{Title: "Contigs", Width: 30},
		{Title: "On other map", Width: 12},
	}
}

// UnmappedRows lists unmapped queries followed by unaligned ones.
func UnmappedRows(res domain.MapResult) []table.Row {
	rows := make([]table.Row, 0, len(res.Unmapped)+len(res.Unaligned))
	for _, u := range res.Unmapped {
		rows = append(rows, table.Row{u.QueryID, "unmapped", u.Contig, yesNo(u.HasPosMaps)})
	}
	for _, id := range res.Unaligned {
		rows = append(rows, table.Row{id, "unaligned", "-", "-"})
	}
	return rows
}

// FeatureLine renders a feature for the detail pane.
func FeatureLine(m domain.GeneticMap, f domain.Feature) string {
	parts := []string{f.ID}
	if f.Class != "" {
		parts = append(parts, "("+f.Class+")")
	}
	parts = append(parts, f.Chromosome)
	if m.HasCM {
		parts = append(parts, output.FormatCM(f.CM)+" cM")
	}
	if m.HasBP {
		parts = append(parts, output.FormatBP(f.BP)+" bp")
	}
	if f.Annotation != nil && f.Annotation.Description != "" {
		parts = append(parts, "- "+f.Annotation.Description)
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
