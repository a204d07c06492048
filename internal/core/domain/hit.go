package domain

import (
	"fmt"
	"math"
)

// Strand is the orientation of an alignment on its target.
type Strand string

// Alignment strands.
const (
	StrandForward Strand = "+"
	StrandReverse Strand = "-"
)

// AlignmentHit is a single alignment between a query sequence and a
// position in one reference database. Hits are immutable once created.
type AlignmentHit struct {
	// QueryID is the id of the aligned query sequence.
	QueryID string

	// DatabaseID identifies the reference database the query was aligned to.
	DatabaseID string

	// TargetChromosome is the contig or chromosome hit within the database.
	TargetChromosome string

	// TargetStart is the 1-based leftmost aligned target coordinate.
	TargetStart int64

	// TargetEnd is the 1-based rightmost aligned target coordinate.
	TargetEnd int64

	// Identity is the percentage of identical positions.
	Identity float64

	// Coverage is the percentage of the query covered by the alignment.
	Coverage float64

	// Score is the aligner's score, higher is better.
	Score float64

	// Strand is the orientation on the target.
	Strand Strand
}

// Position returns the target coordinate used for map lookups.
func (h AlignmentHit) Position() int64 {
	return h.TargetStart
}

// Threshold is the minimum identity and coverage a hit needs to be valid.
type Threshold struct {
	// MinIdentity is the minimum identity percentage.
	MinIdentity float64

	// MinCoverage is the minimum query coverage percentage.
	MinCoverage float64
}

// Default threshold values.
const (
	DefaultMinIdentity = 98.0
	DefaultMinCoverage = 95.0
)

// DefaultThreshold returns the threshold used when none is configured.
func DefaultThreshold() Threshold {
	return Threshold{
		MinIdentity: DefaultMinIdentity,
		MinCoverage: DefaultMinCoverage,
	}
}

// Validate checks both bounds lie in [0,100]. NaN is out of range.
func (t Threshold) Validate() error {
	if !percentage(t.MinIdentity) {
		return fmt.Errorf("%w: identity %.2f", ErrInvalidThreshold, t.MinIdentity)
	}
	if !percentage(t.MinCoverage) {
		return fmt.Errorf("%w: coverage %.2f", ErrInvalidThreshold, t.MinCoverage)
	}
	return nil
}

func percentage(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

// Accepts reports whether the hit is valid under this threshold.
func (t Threshold) Accepts(h AlignmentHit) bool {
	return h.Identity >= t.MinIdentity && h.Coverage >= t.MinCoverage
}

// LocateInput is a materialised alignment run: every query id submitted and
// every hit the aligners reported for them.
type LocateInput struct {
	// Queries lists all query ids, including those without hits.
	Queries []string

	// Hits holds the raw hits across all databases.
	Hits []AlignmentHit
}
