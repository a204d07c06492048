package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bmap-cli/internal/logger"
)

// Ensure LocateService implements the interface.
var _ driving.LocateService = (*LocateService)(nil)

// LocateService runs the locate pipeline over the requested maps.
// Maps run concurrently and share only read-only data; a failing map is
// reported in its result and never affects the others.
type LocateService struct {
	catalog driven.MapCatalog
	store   driven.ReferenceStore
	now     func() time.Time
}

// NewLocateService creates a locate service.
func NewLocateService(catalog driven.MapCatalog, store driven.ReferenceStore) *LocateService {
	return &LocateService{
		catalog: catalog,
		store:   store,
		now:     time.Now,
	}
}

// Locate places every query of input on the maps requested by opts.
func (s *LocateService) Locate(ctx context.Context, input domain.LocateInput, opts domain.LocateOptions) (*domain.LocateReport, error) {
	maps, err := s.requestedMaps(ctx, opts.Maps)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	registry, err := s.catalog.Databases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}

	hits := NewHitStoreFromInput(input)
	report := &domain.LocateReport{
		RunID:     uuid.New().String(),
		StartedAt: s.now(),
		Options:   opts,
		Queries:   hits.Queries(),
		Results:   make([]domain.MapResult, len(maps)),
	}
	logger.Debug("Locate %s: %d queries, %d hits, %d maps", report.RunID, len(report.Queries), hits.Len(), len(maps))

	var wg sync.WaitGroup
	for i, m := range maps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Results[i] = s.runMap(ctx, m, registry, hits, opts)
		}()
	}
	wg.Wait()

	markPositionsOnOtherMaps(report.Results)

	for _, res := range report.Results {
		if res.Err != nil {
			logger.Warn("%v", res.Err)
			continue
		}
		logger.Debug("Map %s: mapped=%d multiple=%d unmapped=%d unaligned=%d", res.Map.ID,
			res.Count(domain.ClassMapped), len(res.Multiple), len(res.Unmapped), len(res.Unaligned))
	}
	return report, nil
}

// requestedMaps resolves map ids against the catalog. Unknown ids are kept as
// placeholders so they fail in their own result.
func (s *LocateService) requestedMaps(ctx context.Context, ids []string) ([]*domain.GeneticMap, error) {
	if len(ids) == 0 {
		all, err := s.catalog.Maps(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]*domain.GeneticMap, len(all))
		for i := range all {
			out[i] = &all[i]
		}
		return out, nil
	}

	out := make([]*domain.GeneticMap, 0, len(ids))
	for _, id := range ids {
		m, err := s.catalog.Map(ctx, id)
		if err != nil {
			m = &domain.GeneticMap{ID: id}
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *LocateService) runMap(
	ctx context.Context,
	m *domain.GeneticMap,
	registry []domain.Database,
	hits *HitStore,
	opts domain.LocateOptions,
) domain.MapResult {
	res, err := s.locateOnMap(ctx, m, registry, hits, opts)
	if err != nil {
		return domain.MapResult{Map: *m, Err: &domain.MapError{MapID: m.ID, Err: err}}
	}
	return res
}

func (s *LocateService) locateOnMap(
	ctx context.Context,
	m *domain.GeneticMap,
	registry []domain.Database,
	hits *HitStore,
	opts domain.LocateOptions,
) (domain.MapResult, error) {
	if _, err := s.catalog.Map(ctx, m.ID); err != nil {
		return domain.MapResult{}, err
	}
	if err := opts.Validate(); err != nil {
		return domain.MapResult{}, err
	}

	unit, err := sortUnit(m, opts.Sort)
	if err != nil {
		return domain.MapResult{}, err
	}
	group, err := databaseGroup(m, registry, opts)
	if err != nil {
		return domain.MapResult{}, err
	}

	anchors, err := s.store.Anchors(ctx, m.ID)
	if err != nil {
		return domain.MapResult{}, fmt.Errorf("load anchors: %w", err)
	}
	lookup := NewCoordinateTable(anchors, registry)

	filter, err := NewSelectionFilter(opts.Threshold, opts.Selection)
	if err != nil {
		return domain.MapResult{}, err
	}
	resolution := NewHierarchicalResolver(filter).Resolve(hits.Queries(), group, hits)

	res := domain.MapResult{Map: *m, Unit: unit}
	projector := NewMapProjector(*m, lookup)
	for _, id := range hits.Queries() {
		proj, err := projector.Project(id, resolution.Hits[id], resolution.OtherAlignments[id])
		if err != nil {
			return domain.MapResult{}, err
		}
		switch proj.Class {
		case domain.ClassMapped:
			res.Positions = append(res.Positions, proj.Positions...)
		case domain.ClassMultiple:
			res.Multiple = append(res.Multiple, id)
			if opts.ShowMultiples {
				res.Positions = append(res.Positions, proj.Positions...)
			}
		case domain.ClassUnmapped:
			res.Unmapped = append(res.Unmapped, *proj.Unmapped)
		case domain.ClassUnaligned:
			res.Unaligned = append(res.Unaligned, id)
		}
	}
	SortPositions(res.Positions, m, unit)

	if err := s.enrich(ctx, m, unit, res.Positions, opts); err != nil {
		return domain.MapResult{}, err
	}
	return res, nil
}

// enrich attaches markers or genes to positions in place.
func (s *LocateService) enrich(
	ctx context.Context,
	m *domain.GeneticMap,
	unit domain.SortUnit,
	positions []domain.MapPosition,
	opts domain.LocateOptions,
) error {
	kind := domain.FeatureGene
	switch opts.Enrichment {
	case domain.EnrichGenes:
	case domain.EnrichMarkers:
		kind = domain.FeatureMarker
	default:
		return nil
	}

	mode := opts.WindowMode
	if mode == "" {
		mode = domain.WindowOnMarker
	}
	search, err := NewWindowedFeatureSearch(unit, opts.EffectiveWindow(), mode)
	if err != nil {
		return err
	}

	rows, err := s.store.Features(ctx, m.ID, kind, unit)
	if err != nil {
		return fmt.Errorf("load %ss: %w", kind, err)
	}
	features, err := NewFeatureIndex(rows, unit)
	if err != nil {
		return err
	}
	anchors, err := NewFeatureIndex(positionFeatures(positions), unit)
	if err != nil {
		return err
	}

	found := make([][]domain.Feature, len(positions))
	var geneIDs []string
	for i, p := range positions {
		hits, err := search.Search(p, features, anchors)
		if err != nil {
			return err
		}
		if kind == domain.FeatureMarker {
			hits = slices.DeleteFunc(hits, func(f domain.Feature) bool { return f.ID == p.MarkerName })
		}
		found[i] = hits
		for _, f := range hits {
			geneIDs = append(geneIDs, f.ID)
		}
	}

	var merger *AnnotationMerger
	if kind == domain.FeatureGene && opts.Annotate {
		slices.Sort(geneIDs)
		annots, err := s.store.Annotations(ctx, slices.Compact(geneIDs))
		if err != nil {
			return fmt.Errorf("load annotations: %w", err)
		}
		merger = NewAnnotationMerger(AnnotationTable(annots))
	}

	for i := range positions {
		if merger != nil {
			found[i] = merger.Merge(found[i])
		}
		positions[i].Features = found[i]
	}
	logger.Debug("Map %s: %d %ss indexed for enrichment", m.ID, features.Len(), kind)
	return nil
}

// sortUnit picks the requested unit, the map default, or whichever unit the
// map carries.
func sortUnit(m *domain.GeneticMap, requested domain.SortUnit) (domain.SortUnit, error) {
	unit := cmp.Or(requested, m.DefaultSort)
	if unit == "" {
		unit = domain.SortCM
		if !m.HasCM {
			unit = domain.SortBP
		}
	}
	if !m.SupportsUnit(unit) {
		return "", fmt.Errorf("%w: %s on map %s", domain.ErrUnsupportedUnit, unit, m.ID)
	}
	return unit, nil
}

// databaseGroup applies the run's database restriction and hierarchical
// override to the map's group.
func databaseGroup(m *domain.GeneticMap, registry []domain.Database, opts domain.LocateOptions) (domain.DatabaseGroup, error) {
	known := make(map[string]bool, len(registry))
	for _, db := range registry {
		known[db.ID] = true
	}

	group := domain.DatabaseGroup{Hierarchical: m.Group.Hierarchical}
	if opts.Hierarchical != nil {
		group.Hierarchical = *opts.Hierarchical
	}
	for _, db := range m.Group.Databases {
		if !known[db] {
			return domain.DatabaseGroup{}, fmt.Errorf("%w: %s in map %s", domain.ErrUnknownDatabase, db, m.ID)
		}
		if len(opts.Databases) == 0 || slices.Contains(opts.Databases, db) {
			group.Databases = append(group.Databases, db)
		}
	}
	for _, db := range opts.Databases {
		if !known[db] {
			return domain.DatabaseGroup{}, fmt.Errorf("%w: %s", domain.ErrUnknownDatabase, db)
		}
	}
	return group, nil
}

// SortPositions orders positions by the map's chromosome order, then by the
// coordinate in unit, then by marker name. Positions without a coordinate in
// unit come last within their chromosome.
func SortPositions(positions []domain.MapPosition, m *domain.GeneticMap, unit domain.SortUnit) {
	slices.SortStableFunc(positions, func(a, b domain.MapPosition) int {
		if c := cmp.Compare(m.ChromosomeRank(a.Chromosome), m.ChromosomeRank(b.Chromosome)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Chromosome, b.Chromosome); c != 0 {
			return c
		}
		av, aok := a.Coordinate().Value(unit)
		bv, bok := b.Coordinate().Value(unit)
		switch {
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		}
		return cmp.Or(cmp.Compare(av, bv), cmp.Compare(a.MarkerName, b.MarkerName))
	})
}

// positionFeatures exposes sorted positions as anchors for between_markers search.
func positionFeatures(positions []domain.MapPosition) []domain.Feature {
	out := make([]domain.Feature, len(positions))
	for i, p := range positions {
		out[i] = domain.Feature{
			ID:         p.MarkerName,
			Type:       domain.FeatureMarker,
			Chromosome: p.Chromosome,
			CM:         p.CM,
			BP:         p.BP,
		}
	}
	return out
}

// markPositionsOnOtherMaps sets HasPosMaps on unmapped records of queries
// positioned on another map of the run.
func markPositionsOnOtherMaps(results []domain.MapResult) {
	positioned := make([]map[string]bool, len(results))
	for i, res := range results {
		positioned[i] = make(map[string]bool)
		for _, p := range res.Positions {
			positioned[i][p.MarkerName] = true
		}
		for _, id := range res.Multiple {
			positioned[i][id] = true
		}
	}

	for i := range results {
		for k := range results[i].Unmapped {
			id := results[i].Unmapped[k].QueryID
			for j := range results {
				if j != i && positioned[j][id] {
					results[i].Unmapped[k].HasPosMaps = true
					break
				}
			}
		}
	}
}
