package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Projection is the classification of one query on one map.
type Projection struct {
	// Class is the terminal class of the query.
	Class domain.Classification

	// Positions holds one row per distinct coordinate: a single row for
	// MAPPED, several for MULTIPLE, none otherwise.
	Positions []domain.MapPosition

	// Unmapped is set for UNMAPPED queries.
	Unmapped *domain.UnmappedRecord
}

// MapProjector converts surviving hits into positions on one map.
type MapProjector struct {
	geneticMap domain.GeneticMap
	lookup     driven.CoordinateLookup
}

// NewMapProjector creates a projector for m.
func NewMapProjector(m domain.GeneticMap, lookup driven.CoordinateLookup) *MapProjector {
	return &MapProjector{geneticMap: m, lookup: lookup}
}

// Project classifies a query from its surviving hits. otherAlignments is
// carried to every position produced.
func (p *MapProjector) Project(queryID string, hits []domain.AlignmentHit, otherAlignments bool) (Projection, error) {
	if len(hits) == 0 {
		return Projection{Class: domain.ClassUnaligned}, nil
	}

	var distinct []domain.Coordinate
	for _, h := range hits {
		for _, c := range p.lookup.Lookup(h.DatabaseID, h.TargetChromosome, h.Position()) {
			if !p.geneticMap.HasChromosome(c.Chromosome) {
				return Projection{}, fmt.Errorf("%w: %q for %s:%s on map %s",
					domain.ErrChromosomeOutOfRange, c.Chromosome, h.DatabaseID, h.TargetChromosome, p.geneticMap.ID)
			}
			if !slices.ContainsFunc(distinct, c.Equal) {
				distinct = append(distinct, c)
			}
		}
	}

	if len(distinct) == 0 {
		return Projection{
			Class: domain.ClassUnmapped,
			Unmapped: &domain.UnmappedRecord{
				QueryID: queryID,
				Contig:  contigs(hits),
			},
		}, nil
	}

	multiple := len(distinct) > 1
	proj := Projection{Class: domain.ClassMapped}
	if multiple {
		proj.Class = domain.ClassMultiple
	}
	for _, c := range distinct {
		proj.Positions = append(proj.Positions, domain.MapPosition{
			MarkerName:         queryID,
			Chromosome:         c.Chromosome,
			CM:                 c.CM,
			BP:                 c.BP,
			IsMultiple:         multiple,
			HasOtherAlignments: otherAlignments,
		})
	}
	return proj, nil
}

// contigs lists the distinct hit targets of an unmapped query.
func contigs(hits []domain.AlignmentHit) string {
	var names []string
	for _, h := range hits {
		if !slices.Contains(names, h.TargetChromosome) {
			names = append(names, h.TargetChromosome)
		}
	}
	return strings.Join(names, ",")
}
