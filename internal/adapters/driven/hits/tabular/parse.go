package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// Columns is the number of fields in a hit line.
const Columns = 13

const (
	colQuery = iota
	colSubject
	colIdentity
	colLength
	colMismatch
	colGapOpen
	colQStart
	colQEnd
	colSStart
	colSEnd
	colEValue
	colBitScore
	colQCovs
)

// ParseHits reads hit lines reported against databaseID.
func ParseHits(r io.Reader, databaseID string) ([]domain.AlignmentHit, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var hits []domain.AlignmentHit
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return hits, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)

		h, err := parseHit(record, databaseID)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		hits = append(hits, h)
	}
}

func parseHit(record []string, databaseID string) (domain.AlignmentHit, error) {
	if len(record) < Columns {
		return domain.AlignmentHit{}, fmt.Errorf("want %d columns, got %d", Columns, len(record))
	}

	var errs []error
	float := func(col int) float64 {
		v, err := strconv.ParseFloat(record[col], 64)
		errs = append(errs, err)
		return v
	}
	integer := func(col int) int64 {
		v, err := strconv.ParseInt(record[col], 10, 64)
		errs = append(errs, err)
		return v
	}

	h := domain.AlignmentHit{
		QueryID:          record[colQuery],
		DatabaseID:       databaseID,
		TargetChromosome: record[colSubject],
		Identity:         float(colIdentity),
		Score:            float(colBitScore),
		Coverage:         float(colQCovs),
		Strand:           domain.StrandForward,
	}
	start, end := integer(colSStart), integer(colSEnd)
	if err := errors.Join(errs...); err != nil {
		return domain.AlignmentHit{}, err
	}
	if start > end {
		start, end = end, start
		h.Strand = domain.StrandReverse
	}
	h.TargetStart, h.TargetEnd = start, end
	if h.QueryID == "" || h.TargetChromosome == "" {
		return domain.AlignmentHit{}, errors.New("empty query or subject id")
	}
	return h, nil
}

// WriteHits writes hits in the same column layout. Columns the engine does
// not use are written as zero.
func WriteHits(w io.Writer, hits []domain.AlignmentHit) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	for _, h := range hits {
		sstart, send := h.TargetStart, h.TargetEnd
		if h.Strand == domain.StrandReverse {
			sstart, send = send, sstart
		}
		record := []string{
			h.QueryID,
			h.TargetChromosome,
			strconv.FormatFloat(h.Identity, 'f', -1, 64),
			"0", "0", "0", "0", "0",
			strconv.FormatInt(sstart, 10),
			strconv.FormatInt(send, 10),
			"0",
			strconv.FormatFloat(h.Score, 'f', -1, 64),
			strconv.FormatFloat(h.Coverage, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
