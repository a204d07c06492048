package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bmap-cli/internal/logger"
)

// Ensure HitLoaderService implements the interface.
var _ driving.HitLoader = (*HitLoaderService)(nil)

// HitLoaderService reads per-database aligner output into a HitStore.
type HitLoaderService struct{}

// NewHitLoaderService creates a hit loader.
func NewHitLoaderService() *HitLoaderService {
	return &HitLoaderService{}
}

// Load reads databases concurrently, at most threads at a time. Results are
// merged through a HitStore so completion order does not matter. When the
// reader has no query list, the queries are those seen in the loaded hits.
func (s *HitLoaderService) Load(
	ctx context.Context,
	reader driven.HitReader,
	databases []string,
	threads int,
) (domain.LocateInput, error) {
	if len(databases) == 0 {
		var err error
		databases, err = reader.Databases(ctx)
		if err != nil {
			return domain.LocateInput{}, fmt.Errorf("list databases: %w", err)
		}
	}
	if threads < 1 {
		threads = 1
	}

	queries, err := reader.QueryIDs(ctx)
	if err != nil {
		return domain.LocateInput{}, fmt.Errorf("read queries: %w", err)
	}

	store := NewHitStore()
	store.AddQueries(queries...)

	// Every database is attempted so the error lists all unreadable ones.
	errs := make([]error, len(databases))
	var g errgroup.Group
	g.SetLimit(threads)
	for i, db := range databases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			hits, err := reader.ReadHits(ctx, db)
			if err != nil {
				errs[i] = fmt.Errorf("read hits of %s: %w", db, err)
				return errs[i]
			}
			store.Add(hits...)
			logger.Debug("Loaded %d hits from %s", len(hits), db)
			return nil
		})
	}
	if g.Wait() != nil {
		return domain.LocateInput{}, errors.Join(errs...)
	}
	return store.Input(), nil
}
