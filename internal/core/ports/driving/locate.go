package driving

import (
	"context"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

// LocateService places queries on genetic maps.
type LocateService interface {
	// Locate runs the pipeline for every requested map. Map failures are
	// reported per map in the result; the returned error is reserved for
	// failures that prevent any map from running.
	Locate(ctx context.Context, input domain.LocateInput, opts domain.LocateOptions) (*domain.LocateReport, error)
}

// HitLoader materialises an alignment run before locating.
type HitLoader interface {
	// Load reads hits of the given databases (all when empty) with at most
	// threads concurrent reads.
	Load(ctx context.Context, reader driven.HitReader, databases []string, threads int) (domain.LocateInput, error)
}
