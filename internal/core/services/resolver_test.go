package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

func resolverFixture() *HitStore {
	return NewHitStoreFromInput(domain.LocateInput{
		Queries: []string{"q1", "q2", "q3"},
		Hits: []domain.AlignmentHit{
			hit("q1", "dbA", "ctgA", 99, 99, 50),
			hit("q1", "dbB", "ctgB", 99, 99, 100),
			hit("q2", "dbB", "ctgC", 99, 99, 70),
			hit("q3", "dbA", "ctgA", 80, 99, 70),
		},
	})
}

func TestHierarchicalResolver_Priority(t *testing.T) {
	store := resolverFixture()
	resolver := NewHierarchicalResolver(newFilter(t, domain.SelectionBestGlobal))

	res := resolver.Resolve(store.Queries(), domain.DatabaseGroup{
		Databases:    []string{"dbA", "dbB"},
		Hierarchical: true,
	}, store)

	if assert.Len(t, res.Hits["q1"], 1) {
		assert.Equal(t, "dbA", res.Hits["q1"][0].DatabaseID)
	}
	if assert.Len(t, res.Hits["q2"], 1) {
		assert.Equal(t, "dbB", res.Hits["q2"][0].DatabaseID)
	}
	assert.Equal(t, []string{"q3"}, res.Unaligned)
	assert.False(t, res.OtherAlignments["q1"])
}

func TestHierarchicalResolver_NonHierarchicalConsidersAll(t *testing.T) {
	store := resolverFixture()
	group := domain.DatabaseGroup{Databases: []string{"dbA", "dbB"}}

	global := NewHierarchicalResolver(newFilter(t, domain.SelectionBestGlobal)).Resolve(store.Queries(), group, store)
	if assert.Len(t, global.Hits["q1"], 1) {
		assert.Equal(t, "dbB", global.Hits["q1"][0].DatabaseID)
	}
	assert.True(t, global.OtherAlignments["q1"])

	none := NewHierarchicalResolver(newFilter(t, domain.SelectionNone)).Resolve(store.Queries(), group, store)
	assert.Len(t, none.Hits["q1"], 2)
	assert.False(t, none.OtherAlignments["q1"])
	assert.Equal(t, []string{"q3"}, none.Unaligned)
}

func TestHierarchicalResolver_LaterTierNeverOverrides(t *testing.T) {
	store := NewHitStoreFromInput(domain.LocateInput{
		Queries: []string{"q1"},
		Hits: []domain.AlignmentHit{
			hit("q1", "dbA", "ctgA", 99, 99, 1),
			hit("q1", "dbB", "ctgB", 100, 100, 1000),
		},
	})

	res := NewHierarchicalResolver(newFilter(t, domain.SelectionNone)).Resolve(
		store.Queries(),
		domain.DatabaseGroup{Databases: []string{"dbA", "dbB"}, Hierarchical: true},
		store,
	)

	assert.Len(t, res.Hits["q1"], 1)
	assert.Equal(t, "ctgA", res.Hits["q1"][0].TargetChromosome)
}

func TestHierarchicalResolver_EmptyGroup(t *testing.T) {
	store := resolverFixture()
	res := NewHierarchicalResolver(newFilter(t, domain.SelectionNone)).Resolve(
		store.Queries(), domain.DatabaseGroup{Hierarchical: true}, store)

	assert.Empty(t, res.Hits)
	assert.Equal(t, []string{"q1", "q2", "q3"}, res.Unaligned)
}

func TestHierarchicalResolver_DeterministicAcrossArrivalOrder(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	hits := randomHits(r, 60)
	queries := []string{"q0", "q1", "q2", "q3", "q4", "q5"}
	group := domain.DatabaseGroup{Databases: []string{"db2", "db0", "db1"}, Hierarchical: true}
	resolver := NewHierarchicalResolver(newFilter(t, domain.SelectionBestPerDatabase))

	reference := NewHitStore()
	reference.AddQueries(queries...)
	reference.Add(hits...)
	want := resolver.Resolve(queries, group, reference)

	for i := 0; i < 20; i++ {
		shuffled := append([]domain.AlignmentHit(nil), hits...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		store := NewHitStore()
		store.AddQueries(queries...)
		store.Add(shuffled...)
		assert.Equal(t, want, resolver.Resolve(queries, group, store))
	}
}
