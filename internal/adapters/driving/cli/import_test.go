package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportAnchors(t *testing.T) {
	svc := setupTestServices(t)
	path := writeTemp(t, "anchors.tsv", "#database\tcontig\tchr\tcm\tbp\n"+
		"barke_contigs\tctg1\t1H\t5.0\t-\n"+
		"barke_contigs\tctg2\t2H\t12.5\t\n")

	out, err := execute(t, "import", "anchors", "barke", path)

	require.NoError(t, err)
	assert.Equal(t, "Imported 2 anchors into barke\n", out)
	assert.Equal(t, "barke", svc.imports.gotMap)
	require.Len(t, svc.imports.gotAnchors, 2)
	assert.Equal(t, "ctg1", svc.imports.gotAnchors[0].Contig)
}

func TestImportMarkers(t *testing.T) {
	svc := setupTestServices(t)
	path := writeTemp(t, "markers.tsv", "m1\t1H\t4.5\t-\tiSelect\n")

	out, err := execute(t, "import", "markers", "barke", path)

	require.NoError(t, err)
	assert.Equal(t, "Imported 1 features into barke\n", out)
	require.Len(t, svc.imports.gotFeatures, 1)
	assert.Equal(t, "m1", svc.imports.gotFeatures[0].ID)
}

func TestImportGenes(t *testing.T) {
	svc := setupTestServices(t)
	path := writeTemp(t, "genes.tsv", "g1\t1H\t4.5\t-\tHC_gene\n")

	out, err := execute(t, "import", "genes", "barke", path)

	require.NoError(t, err)
	assert.Equal(t, "Imported 1 features into barke\n", out)
	assert.Equal(t, "g1", svc.imports.gotFeatures[0].ID)
}

func TestImportGFF(t *testing.T) {
	svc := setupTestServices(t)
	path := writeTemp(t, "genes.gff3", "##gff-version 3\n"+
		"chr1H\tsrc\tgene\t100\t900\t.\t+\t.\tID=g1\n"+
		"chr1H\tsrc\tmRNA\t100\t900\t.\t+\t.\tID=g1.1\n")

	out, err := execute(t, "import", "gff", "morex", path, "--chrom", "chr1H=1H")

	require.NoError(t, err)
	assert.Equal(t, "Imported 1 features into morex\n", out)
	require.Len(t, svc.imports.gotFeatures, 1)
	g := svc.imports.gotFeatures[0]
	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, "1H", g.Chromosome)
	require.NotNil(t, g.BP)
	assert.Equal(t, int64(100), *g.BP)
}

func TestImportAnnotations(t *testing.T) {
	svc := setupTestServices(t)
	path := writeTemp(t, "annot.tsv", "g1\tkinase\tIPR000719\tPF00069\tGO:0004672\n")

	out, err := execute(t, "import", "annotations", path)

	require.NoError(t, err)
	assert.Equal(t, "Imported 1 annotations\n", out)
	require.Len(t, svc.imports.gotAnnotations, 1)
	assert.Equal(t, "kinase", svc.imports.gotAnnotations[0].Description)
}

func TestImport_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "import", "anchors", "barke", filepath.Join(t.TempDir(), "none.tsv"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImport_ServiceError(t *testing.T) {
	svc := setupTestServices(t)
	svc.imports.err = errors.New("locked")
	path := writeTemp(t, "annot.tsv", "g1\tkinase\t-\t-\t-\n")

	_, err := execute(t, "import", "annotations", path)

	assert.EqualError(t, err, "failed to import annotations: locked")
}

func TestImport_NotConfigured(t *testing.T) {
	setupTestServices(t)
	Configure(Config{})

	_, err := execute(t, "import", "annotations", "x.tsv")

	assert.EqualError(t, err, "import service not configured")
}
