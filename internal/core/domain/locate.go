package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// WindowMode selects how windowed feature search anchors its range.
type WindowMode string

// Window modes.
const (
	// WindowOnMarker searches around the position itself.
	WindowOnMarker WindowMode = "on_marker"

	// WindowBetweenMarkers searches the interval between the flanking neighbours.
	WindowBetweenMarkers WindowMode = "between_markers"
)

// IsValid returns true if the window mode is recognised.
func (m WindowMode) IsValid() bool {
	return m == WindowOnMarker || m == WindowBetweenMarkers
}

// String returns the string representation.
func (m WindowMode) String() string {
	return string(m)
}

// Enrichment selects which features are attached to mapped positions.
type Enrichment string

// Enrichment kinds.
const (
	EnrichNone    Enrichment = "none"
	EnrichMarkers Enrichment = "markers"
	EnrichGenes   Enrichment = "genes"
)

// IsValid returns true if the enrichment kind is recognised.
func (e Enrichment) IsValid() bool {
	switch e {
	case EnrichNone, EnrichMarkers, EnrichGenes:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (e Enrichment) String() string {
	return string(e)
}

// ParseEnrichment resolves the --genes and --markers switches. Genes take
// precedence over markers; genes accepts "marker", "between" or "no".
func ParseEnrichment(genes string, markers bool) (Enrichment, WindowMode, error) {
	switch strings.ToLower(strings.TrimSpace(genes)) {
	case "marker", "on_marker":
		return EnrichGenes, WindowOnMarker, nil
	case "between", "between_markers":
		return EnrichGenes, WindowBetweenMarkers, nil
	case "no", "none", "":
		if markers {
			return EnrichMarkers, WindowOnMarker, nil
		}
		return EnrichNone, WindowOnMarker, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidWindowMode, genes)
	}
}

// DefaultWindow is the search window applied when extension is requested
// without an explicit value.
const DefaultWindow = 5.0

// LocateOptions configures a locate run.
type LocateOptions struct {
	// Maps lists the maps to locate on. Empty means every catalogued map.
	Maps []string

	// Databases restricts each map's group to these databases. Empty means all.
	Databases []string

	// Threshold is the validity cut applied to hits.
	Threshold Threshold

	// Selection is the best-score policy.
	Selection SelectionMode

	// Hierarchical overrides each map's hierarchical flag when set.
	Hierarchical *bool

	// Sort overrides each map's default sort unit when set.
	Sort SortUnit

	// ShowMultiples includes MULTIPLE queries in the primary table.
	ShowMultiples bool

	// Enrichment selects markers or genes to attach.
	Enrichment Enrichment

	// WindowMode anchors the feature search.
	WindowMode WindowMode

	// Extend applies Window; otherwise the search window is zero.
	Extend bool

	// Window is the search window in the active sort unit.
	Window float64

	// Annotate attaches annotations to genes.
	Annotate bool
}

// DefaultLocateOptions returns options matching the command line defaults.
func DefaultLocateOptions() LocateOptions {
	return LocateOptions{
		Threshold:  DefaultThreshold(),
		Selection:  SelectionBestGlobal,
		Enrichment: EnrichNone,
		WindowMode: WindowOnMarker,
		Window:     DefaultWindow,
	}
}

// Validate checks the options for policy errors.
func (o LocateOptions) Validate() error {
	if err := o.Threshold.Validate(); err != nil {
		return err
	}
	if !o.Selection.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSelectionMode, o.Selection)
	}
	if o.Window < 0 || math.IsNaN(o.Window) {
		return fmt.Errorf("%w: %g", ErrNegativeWindow, o.Window)
	}
	if o.Sort != "" && !o.Sort.IsValid() {
		return fmt.Errorf("%w: unknown sort unit %q", ErrConfiguration, o.Sort)
	}
	if o.Enrichment != "" && !o.Enrichment.IsValid() {
		return fmt.Errorf("%w: unknown enrichment %q", ErrPolicy, o.Enrichment)
	}
	if o.WindowMode != "" && !o.WindowMode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidWindowMode, o.WindowMode)
	}
	return nil
}

// EffectiveWindow returns the window used by feature search.
func (o LocateOptions) EffectiveWindow() float64 {
	if !o.Extend {
		return 0
	}
	return o.Window
}

// MapResult is the outcome of one map's pipeline.
type MapResult struct {
	// Map is the processed map.
	Map GeneticMap

	// Unit is the sort unit used for ordering and search.
	Unit SortUnit

	// Positions is the primary table: MAPPED rows, plus one row per distinct
	// coordinate of MULTIPLE queries when requested. Sorted.
	Positions []MapPosition

	// Multiple lists MULTIPLE query ids, whether or not their rows are shown.
	Multiple []string

	// Unmapped lists queries that aligned without a map coordinate.
	Unmapped []UnmappedRecord

	// Unaligned lists queries with no valid hit.
	Unaligned []string

	// Err is set when the map's pipeline failed. The other fields are then empty.
	Err *MapError
}

// Classes returns the classification of every query on this map.
func (r MapResult) Classes() map[string]Classification {
	classes := make(map[string]Classification)
	for _, p := range r.Positions {
		if !p.IsMultiple {
			classes[p.MarkerName] = ClassMapped
		}
	}
	for _, id := range r.Multiple {
		classes[id] = ClassMultiple
	}
	for _, u := range r.Unmapped {
		classes[u.QueryID] = ClassUnmapped
	}
	for _, id := range r.Unaligned {
		classes[id] = ClassUnaligned
	}
	return classes
}

// Count returns the number of queries in class c.
func (r MapResult) Count(c Classification) int {
	n := 0
	for _, got := range r.Classes() {
		if got == c {
			n++
		}
	}
	return n
}

// LocateReport is the result of a locate run over one or more maps.
type LocateReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Options echoes the options the run used.
	Options LocateOptions

	// Queries lists all submitted query ids.
	Queries []string

	// Results holds one entry per requested map, in request order.
	Results []MapResult
}

// Failed returns the per-map errors of the run.
func (r *LocateReport) Failed() []*MapError {
	var failed []*MapError
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res.Err)
		}
	}
	return failed
}
