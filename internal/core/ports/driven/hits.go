package driven

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

// HitReader produces the output of an alignment run.
// Implementations read precomputed aligner output; the engine never aligns.
type HitReader interface {
	// Databases lists the databases the reader has hits for.
	Databases(ctx context.Context) ([]string, error)

	// ReadHits returns every hit reported against one database.
	// Returns domain.ErrNotFound if the reader has no output for it.
	ReadHits(ctx context.Context, databaseID string) ([]domain.AlignmentHit, error)

	// QueryIDs returns all submitted query ids, including queries with no hits.
	// Returns nil when the reader has no query list of its own.
	QueryIDs(ctx context.Context) ([]string, error)
}
