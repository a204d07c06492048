package services

import (
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure CoordinateTable implements the lookup port.
var _ driven.CoordinateLookup = (*CoordinateTable)(nil)

type contigKey struct {
	database string
	contig   string
}

// CoordinateTable is the read-only coordinate lookup of one map, built from
// its anchors before a run.
type CoordinateTable struct {
	anchors map[contigKey][]domain.Coordinate
	genomic map[string]bool
}

// NewCoordinateTable indexes anchors. Databases flagged genomic resolve hits
// by position: the anchor names the map chromosome and its basepair value,
// when set, is an offset added to the hit position.
func NewCoordinateTable(anchors []domain.Anchor, databases []domain.Database) *CoordinateTable {
	t := &CoordinateTable{
		anchors: make(map[contigKey][]domain.Coordinate, len(anchors)),
		genomic: make(map[string]bool),
	}
	for _, db := range databases {
		if db.Genomic {
			t.genomic[db.ID] = true
		}
	}
	for _, a := range anchors {
		k := contigKey{database: a.DatabaseID, contig: a.Contig}
		t.anchors[k] = append(t.anchors[k], a.Coordinate)
	}
	return t
}

// Lookup implements driven.CoordinateLookup.
func (t *CoordinateTable) Lookup(databaseID, contig string, position int64) []domain.Coordinate {
	coords := t.anchors[contigKey{database: databaseID, contig: contig}]
	if len(coords) == 0 {
		return nil
	}

	out := make([]domain.Coordinate, 0, len(coords))
	for _, c := range coords {
		if !t.genomic[databaseID] {
			out = append(out, c)
			continue
		}
		var offset int64
		if c.BP != nil {
			offset = *c.BP
		}
		out = append(out, domain.Coordinate{
			Chromosome: c.Chromosome,
			BP:         domain.BP(offset + position),
		})
	}
	return out
}

// Len returns the number of anchored contigs.
func (t *CoordinateTable) Len() int {
	return len(t.anchors)
}
