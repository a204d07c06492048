package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

func newFilter(t *testing.T, mode domain.SelectionMode) *SelectionFilter {
	t.Helper()
	f, err := NewSelectionFilter(domain.DefaultThreshold(), mode)
	require.NoError(t, err)
	return f
}

func TestNewSelectionFilter_Invalid(t *testing.T) {
	_, err := NewSelectionFilter(domain.DefaultThreshold(), "top")
	assert.ErrorIs(t, err, domain.ErrPolicy)

	_, err = NewSelectionFilter(domain.Threshold{MinIdentity: 120}, domain.SelectionNone)
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
}

func TestSelectionFilter_Threshold(t *testing.T) {
	hits := []domain.AlignmentHit{
		hit("q1", "dbA", "ctg1", 99, 97, 10),
		hit("q1", "dbA", "ctg2", 97.9, 99, 50),
		hit("q1", "dbA", "ctg3", 99, 94, 50),
		hit("q2", "dbA", "ctg1", 90, 100, 10),
	}

	sel := newFilter(t, domain.SelectionNone).Apply(hits)

	require.Len(t, sel.Hits, 1)
	assert.Equal(t, "ctg1", sel.Hits[0].TargetChromosome)
	assert.Equal(t, 1, sel.Valid["q1"])
	assert.Zero(t, sel.Valid["q2"])
	assert.Zero(t, sel.Suppressed["q1"])
}

func TestSelectionFilter_Modes(t *testing.T) {
	hits := []domain.AlignmentHit{
		hit("q1", "dbA", "ctg1", 100, 100, 100),
		hit("q1", "dbA", "ctg2", 100, 100, 90),
		hit("q1", "dbB", "ctg3", 100, 100, 80),
		hit("q1", "dbB", "ctg4", 100, 100, 80),
	}

	tests := []struct {
		mode       domain.SelectionMode
		contigs    []string
		suppressed int
	}{
		{domain.SelectionNone, []string{"ctg1", "ctg2", "ctg3", "ctg4"}, 0},
		{domain.SelectionBestPerDatabase, []string{"ctg1", "ctg3", "ctg4"}, 1},
		{domain.SelectionBestGlobal, []string{"ctg1"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			sel := newFilter(t, tt.mode).Apply(hits)

			var contigs []string
			for _, h := range sel.Hits {
				contigs = append(contigs, h.TargetChromosome)
			}
			assert.Equal(t, tt.contigs, contigs)
			assert.Equal(t, tt.suppressed, sel.Suppressed["q1"])
			assert.Equal(t, 4, sel.Valid["q1"])
		})
	}
}

func TestSelectionFilter_TiesSurvive(t *testing.T) {
	hits := []domain.AlignmentHit{
		hit("q1", "dbA", "ctg1", 99, 97, 100),
		hit("q1", "dbB", "ctg2", 99, 97, 100),
	}

	sel := newFilter(t, domain.SelectionBestGlobal).Apply(hits)

	assert.Len(t, sel.Hits, 2)
	assert.Zero(t, sel.Suppressed["q1"])
}

func TestSelectionFilter_EmptyResultIsValid(t *testing.T) {
	sel := newFilter(t, domain.SelectionBestGlobal).Apply(nil)
	assert.Empty(t, sel.Hits)
}

// randomHits draws hits with few distinct scores so ties are common.
func randomHits(r *rand.Rand, n int) []domain.AlignmentHit {
	hits := make([]domain.AlignmentHit, n)
	for i := range hits {
		hits[i] = domain.AlignmentHit{
			QueryID:          fmt.Sprintf("q%d", r.Intn(6)),
			DatabaseID:       fmt.Sprintf("db%d", r.Intn(3)),
			TargetChromosome: fmt.Sprintf("ctg%d", r.Intn(8)),
			TargetStart:      int64(r.Intn(5) * 100),
			Identity:         90 + float64(r.Intn(11)),
			Coverage:         90 + float64(r.Intn(11)),
			Score:            float64(r.Intn(4) * 10),
		}
	}
	return hits
}

func TestSelectionFilter_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for _, mode := range domain.AllSelectionModes() {
		f := newFilter(t, mode)
		for i := 0; i < 200; i++ {
			hits := randomHits(r, 1+r.Intn(40))
			once := f.Select(hits)
			twice := f.Select(once)
			assert.Equal(t, once, twice, "mode %s, trial %d", mode, i)
		}
	}
}

// Applying the per-database best before the global best gives the same
// survivors as the global best alone.
func TestSelectionFilter_GlobalAfterPerDatabaseEquivalence(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	perDB := newFilter(t, domain.SelectionBestPerDatabase)
	global := newFilter(t, domain.SelectionBestGlobal)

	for i := 0; i < 300; i++ {
		hits := randomHits(r, 1+r.Intn(40))
		assert.Equal(t, global.Select(hits), global.Select(perDB.Select(hits)), "trial %d", i)
	}
}

// Per-database best on its own is not the global best.
func TestSelectionFilter_PerDatabaseDiffersFromGlobal(t *testing.T) {
	hits := []domain.AlignmentHit{
		hit("q1", "dbA", "ctg1", 100, 100, 100),
		hit("q1", "dbB", "ctg2", 100, 100, 50),
	}

	assert.Len(t, newFilter(t, domain.SelectionBestPerDatabase).Select(hits), 2)
	assert.Len(t, newFilter(t, domain.SelectionBestGlobal).Select(hits), 1)
}
