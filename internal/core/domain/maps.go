package domain

import (
	"fmt"
	"strings"
)

// SortUnit is the coordinate system positions are sorted and searched by.
type SortUnit string

// Available sort units.
const (
	// SortCM sorts by centimorgans.
	SortCM SortUnit = "cm"

	// SortBP sorts by basepairs.
	SortBP SortUnit = "bp"
)

// IsValid returns true if the unit is recognised.
func (u SortUnit) IsValid() bool {
	return u == SortCM || u == SortBP
}

// String returns the string representation.
func (u SortUnit) String() string {
	return string(u)
}

// Description returns a human-readable description of the unit.
func (u SortUnit) Description() string {
	switch u {
	case SortCM:
		return "Centimorgans"
	case SortBP:
		return "Basepairs"
	default:
		return unknownDescription
	}
}

// ParseSortUnit parses "cm" or "bp". Empty input yields an empty unit,
// meaning the map's default.
func ParseSortUnit(s string) (SortUnit, error) {
	u := SortUnit(strings.ToLower(strings.TrimSpace(s)))
	if u == "" || u.IsValid() {
		return u, nil
	}
	return "", fmt.Errorf("%w: unknown sort unit %q", ErrConfiguration, s)
}

// Database is a reference sequence database queries are aligned against.
type Database struct {
	// ID is the identifier hits carry in DatabaseID.
	ID string

	// Name is the display name.
	Name string

	// Genomic marks databases whose targets are chromosomes of the map itself.
	// Hit positions on them are used directly as basepair coordinates.
	Genomic bool
}

// DatabaseGroup is the ordered list of databases belonging to one map.
type DatabaseGroup struct {
	// Databases are database ids in priority order.
	Databases []string

	// Hierarchical treats the order as a priority chain: a query resolved by an
	// earlier database is never evaluated against later ones.
	Hierarchical bool
}

// GeneticMap is a curated genetic reference.
type GeneticMap struct {
	// ID is the unique identifier of the map.
	ID string

	// Name is the display name.
	Name string

	// HasCM indicates the map carries centimorgan coordinates.
	HasCM bool

	// HasBP indicates the map carries basepair coordinates.
	HasBP bool

	// DefaultSort is the unit used when a run does not specify one.
	DefaultSort SortUnit

	// Chromosomes lists the map's chromosomes in display order.
	// An empty list accepts any chromosome.
	Chromosomes []string

	// Group is the ordered database group used to locate queries on this map.
	Group DatabaseGroup
}

// SupportsUnit reports whether the map carries coordinates in unit u.
func (m GeneticMap) SupportsUnit(u SortUnit) bool {
	switch u {
	case SortCM:
		return m.HasCM
	case SortBP:
		return m.HasBP
	default:
		return false
	}
}

// HasChromosome reports whether chr belongs to the map.
func (m GeneticMap) HasChromosome(chr string) bool {
	if len(m.Chromosomes) == 0 {
		return true
	}
	for _, c := range m.Chromosomes {
		if c == chr {
			return true
		}
	}
	return false
}

// ChromosomeRank returns the display index of chr. Unknown chromosomes rank
// after all declared ones.
func (m GeneticMap) ChromosomeRank(chr string) int {
	for i, c := range m.Chromosomes {
		if c == chr {
			return i
		}
	}
	return len(m.Chromosomes)
}

// Anchor places a target contig of one database on a map.
type Anchor struct {
	// DatabaseID is the database the contig belongs to.
	DatabaseID string

	// Contig is the target name as reported in hits.
	Contig string

	// Coordinate is the map position of the contig.
	Coordinate Coordinate
}
