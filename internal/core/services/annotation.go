package services

import (
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// Ensure AnnotationTable implements the annotation port.
var _ driven.AnnotationSource = AnnotationTable(nil)

// AnnotationTable is an in-memory annotation source keyed by gene id.
type AnnotationTable map[string]domain.Annotation

// Annotation implements driven.AnnotationSource.
func (t AnnotationTable) Annotation(geneID string) (domain.Annotation, bool) {
	a, ok := t[geneID]
	return a, ok
}

// AnnotationMerger attaches annotations to genes.
type AnnotationMerger struct {
	source driven.AnnotationSource
}

// NewAnnotationMerger creates a merger reading from source. A nil source
// yields empty annotations for every gene.
func NewAnnotationMerger(source driven.AnnotationSource) *AnnotationMerger {
	return &AnnotationMerger{source: source}
}

// Merge returns copies of genes with Annotation set. Genes without an entry
// get an empty annotation block and are never dropped.
func (m *AnnotationMerger) Merge(genes []domain.Feature) []domain.Feature {
	out := make([]domain.Feature, len(genes))
	for i, g := range genes {
		annot := domain.Annotation{GeneID: g.ID}
		if m.source != nil {
			if found, ok := m.source.Annotation(g.ID); ok {
				annot = found
				annot.GeneID = g.ID
			}
		}
		g.Annotation = &annot
		out[i] = g
	}
	return out
}
