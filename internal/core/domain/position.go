package domain

// Coordinate is a location on a genetic map. Either coordinate may be absent.
type Coordinate struct {
	// Chromosome is the map chromosome.
	Chromosome string

	// CM is the centimorgan position, nil when the map has none.
	CM *float64

	// BP is the basepair position, nil when the map has none.
	BP *int64
}

// Value returns the coordinate in unit u and whether it is present.
func (c Coordinate) Value(u SortUnit) (float64, bool) {
	switch u {
	case SortCM:
		if c.CM == nil {
			return 0, false
		}
		return *c.CM, true
	case SortBP:
		if c.BP == nil {
			return 0, false
		}
		return float64(*c.BP), true
	default:
		return 0, false
	}
}

// Equal compares two coordinates exactly. Values come from lookup tables,
// so float equality is the intended semantics for centimorgans.
func (c Coordinate) Equal(o Coordinate) bool {
	if c.Chromosome != o.Chromosome {
		return false
	}
	if (c.CM == nil) != (o.CM == nil) || (c.CM != nil && *c.CM != *o.CM) {
		return false
	}
	if (c.BP == nil) != (o.BP == nil) || (c.BP != nil && *c.BP != *o.BP) {
		return false
	}
	return true
}

// CM returns a pointer to v, for building coordinates.
func CM(v float64) *float64 {
	return &v
}

// BP returns a pointer to v, for building coordinates.
func BP(v int64) *int64 {
	return &v
}

// Classification is the terminal class of a query on one map.
type Classification string

// Query classes. Every query falls in exactly one per map.
const (
	// ClassMapped has exactly one distinct map coordinate.
	ClassMapped Classification = "mapped"

	// ClassMultiple has more than one distinct map coordinate.
	ClassMultiple Classification = "multiple"

	// ClassUnmapped aligned but no hit yields a map coordinate.
	ClassUnmapped Classification = "unmapped"

	// ClassUnaligned has no valid hit at all.
	ClassUnaligned Classification = "unaligned"
)

// String returns the string representation.
func (c Classification) String() string {
	return string(c)
}

// Title returns the section title used by renderers.
func (c Classification) Title() string {
	switch c {
	case ClassMapped:
		return "Map"
	case ClassMultiple:
		return "Multiple"
	case ClassUnmapped:
		return "Unmapped"
	case ClassUnaligned:
		return "Unaligned"
	default:
		return unknownDescription
	}
}

// MapPosition is the projected location of a query on one map.
// Enrichment only ever adds Features; base fields are fixed at projection.
type MapPosition struct {
	// MarkerName is the query id.
	MarkerName string

	// Chromosome is the map chromosome.
	Chromosome string

	// CM is the centimorgan position, nil when absent.
	CM *float64

	// BP is the basepair position, nil when absent.
	BP *int64

	// IsMultiple is set when the query resolved to several distinct coordinates.
	IsMultiple bool

	// HasOtherAlignments is set when selection discarded valid hits of the query.
	HasOtherAlignments bool

	// Features holds markers or genes attached by enrichment.
	Features []Feature
}

// Coordinate returns the position's coordinate.
func (p MapPosition) Coordinate() Coordinate {
	return Coordinate{Chromosome: p.Chromosome, CM: p.CM, BP: p.BP}
}

// UnmappedRecord describes a query that aligned but has no map coordinate.
type UnmappedRecord struct {
	// QueryID is the query id.
	QueryID string

	// Contig lists the hit targets, comma separated.
	Contig string

	// HasPosMaps is set when the query has a position on another requested map.
	HasPosMaps bool
}
