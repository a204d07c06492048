package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

func TestMapsList(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "maps", "list")

	require.NoError(t, err)
	assert.Equal(t,
		"barke\tBarke\tcM\tbarke_contigs,morex_contigs\nmorex\tMorex\tbp\tmorex_genome\n",
		out)
}

func TestMaps_DefaultsToList(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "maps")

	require.NoError(t, err)
	assert.Contains(t, out, "morex\tMorex")
}

func TestMapsList_Empty(t *testing.T) {
	svc := setupTestServices(t)
	svc.maps.maps = nil

	out, err := execute(t, "maps", "list")

	require.NoError(t, err)
	assert.Equal(t, "No maps configured.\n", out)
}

func TestMapsShow(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "maps", "show", "barke")

	require.NoError(t, err)
	assert.Contains(t, out, "Map: barke\n")
	assert.Contains(t, out, "  Units: cM\n")
	assert.Contains(t, out, "  Hierarchical: yes\n")
	assert.Contains(t, out, "  Chromosomes: 1H 2H\n")
	assert.Contains(t, out, "    1. barke_contigs - Barke contigs\n")
	assert.Contains(t, out, "    2. morex_contigs (not registered)\n")
}

func TestMapsShow_Genomic(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "maps", "show", "morex")

	require.NoError(t, err)
	assert.Contains(t, out, "    1. morex_genome - Morex genome (genomic)\n")
	assert.NotContains(t, out, "Chromosomes")
}

func TestMapsShow_Unknown(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "maps", "show", "ghost")

	assert.ErrorIs(t, err, domain.ErrUnknownMap)
}

func TestMaps_NotConfigured(t *testing.T) {
	setupTestServices(t)
	Configure(Config{})

	_, err := execute(t, "maps", "list")

	assert.EqualError(t, err, "map service not configured")
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "cM,bp", units(&domain.GeneticMap{HasCM: true, HasBP: true}))
	assert.Equal(t, "", units(&domain.GeneticMap{}))
}
