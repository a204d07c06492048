package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// absent is how a missing coordinate is written.
const absent = "-"

// table reads tab-separated records, skipping '#' lines, and calls fn with
// each record and its line number.
func table(r io.Reader, minFields int, fn func(line int, record []string) error) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) < minFields {
			return fmt.Errorf("%w: line %d: want at least %d columns, got %d",
				domain.ErrInvalidInput, line, minFields, len(record))
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if err := fn(line, record); err != nil {
			return fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
	}
}

// coordinate parses chromosome, cm and bp columns. Empty or "-" values are absent.
func coordinate(chr, cm, bp string) (domain.Coordinate, error) {
	c := domain.Coordinate{Chromosome: chr}
	if chr == "" {
		return c, errors.New("empty chromosome")
	}
	if cm != "" && cm != absent {
		v, err := strconv.ParseFloat(cm, 64)
		if err != nil {
			return c, fmt.Errorf("cm %q: %w", cm, err)
		}
		c.CM = domain.CM(v)
	}
	if bp != "" && bp != absent {
		v, err := strconv.ParseInt(bp, 10, 64)
		if err != nil {
			return c, fmt.Errorf("bp %q: %w", bp, err)
		}
		c.BP = domain.BP(v)
	}
	return c, nil
}

func column(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// list splits a comma or space separated column. "-" is an empty list.
func list(s string) []string {
	items := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(items) == 0 || s == absent {
		return nil
	}
	return items
}

// ReadAnchors parses lines of: database, contig, chromosome, cm, bp.
func ReadAnchors(r io.Reader) ([]domain.Anchor, error) {
	var anchors []domain.Anchor
	err := table(r, 3, func(_ int, rec []string) error {
		c, err := coordinate(rec[2], column(rec, 3), column(rec, 4))
		if err != nil {
			return err
		}
		anchors = append(anchors, domain.Anchor{DatabaseID: rec[0], Contig: rec[1], Coordinate: c})
		return nil
	})
	return anchors, err
}

// ReadMarkers parses lines of: id, chromosome, cm, bp, dataset, class, genes.
// The genes column is optional; when present the marker's gene links are
// configured, even if the list is empty.
func ReadMarkers(r io.Reader) ([]domain.Feature, error) {
	var markers []domain.Feature
	err := table(r, 4, func(_ int, rec []string) error {
		c, err := coordinate(rec[1], rec[2], rec[3])
		if err != nil {
			return err
		}
		f := domain.Feature{
			ID:         rec[0],
			Type:       domain.FeatureMarker,
			Dataset:    column(rec, 4),
			Class:      column(rec, 5),
			Chromosome: c.Chromosome,
			CM:         c.CM,
			BP:         c.BP,
		}
		if len(rec) > 6 {
			f.GenesConfigured = true
			f.Genes = list(rec[6])
		}
		markers = append(markers, f)
		return nil
	})
	return markers, err
}

// ReadGenes parses lines of: id, chromosome, cm, bp, class.
func ReadGenes(r io.Reader) ([]domain.Feature, error) {
	var genes []domain.Feature
	err := table(r, 4, func(_ int, rec []string) error {
		c, err := coordinate(rec[1], rec[2], rec[3])
		if err != nil {
			return err
		}
		genes = append(genes, domain.Feature{
			ID:         rec[0],
			Type:       domain.FeatureGene,
			Class:      column(rec, 4),
			Chromosome: c.Chromosome,
			CM:         c.CM,
			BP:         c.BP,
		})
		return nil
	})
	return genes, err
}

// ReadAnnotations parses lines of: gene, description, interpro, pfam, go terms.
func ReadAnnotations(r io.Reader) ([]domain.Annotation, error) {
	var annots []domain.Annotation
	err := table(r, 2, func(_ int, rec []string) error {
		annots = append(annots, domain.Annotation{
			GeneID:      rec[0],
			Description: rec[1],
			InterPro:    column(rec, 2),
			Pfam:        column(rec, 3),
			GOTerms:     list(column(rec, 4)),
		})
		return nil
	})
	return annots, err
}
