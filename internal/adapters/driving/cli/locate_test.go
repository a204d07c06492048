package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

func cmValue(v float64) *float64 { return &v }

func barkeReport() *domain.LocateReport {
	return &domain.LocateReport{
		RunID:   "run-1",
		Options: domain.DefaultLocateOptions(),
		Queries: []string{"q1"},
		Results: []domain.MapResult{{
			Map:       testMaps()[0],
			Unit:      domain.SortCM,
			Positions: []domain.MapPosition{{MarkerName: "q1", Chromosome: "1H", CM: cmValue(5)}},
		}},
	}
}

func TestLocateCmd_Flags(t *testing.T) {
	for _, name := range []string{
		"hits", "queries", "maps", "databases", "thres-id", "thres-cov", "best-score",
		"hierarchical", "sort", "show-multiples", "genes", "markers", "annot", "extend",
		"genes-window", "show-unmapped", "threads", "format", "no-headers", "output",
	} {
		assert.NotNil(t, locateCmd.Flags().Lookup(name), name)
	}
	for _, cmd := range []string{"watch", "tui"} {
		c, _, err := rootCmd.Find([]string{cmd})
		require.NoError(t, err)
		assert.NotNil(t, c.Flags().Lookup("hits"), cmd)
	}
}

func TestLocate_RequiresHits(t *testing.T) {
	setupTestServices(t)
	cmd, _ := newLocateCmd(t)

	err := cmd.Execute()

	assert.EqualError(t, err, "--hits is required")
}

func TestLocate_NotConfigured(t *testing.T) {
	setupTestServices(t)
	Configure(Config{})
	cmd, _ := newLocateCmd(t, "--hits", t.TempDir())

	err := cmd.Execute()

	assert.EqualError(t, err, "locate service not configured")
}

func TestLocate_UsesStoredSettings(t *testing.T) {
	svc := setupTestServices(t)
	svc.settings.settings.Locate.Threshold = domain.Threshold{MinIdentity: 95, MinCoverage: 90}
	svc.settings.settings.Locate.Selection = domain.SelectionBestPerDatabase
	svc.settings.settings.Locate.Threads = 4
	svc.settings.settings.Locate.Window = 7
	cmd, _ := newLocateCmd(t, "--hits", t.TempDir())

	require.NoError(t, cmd.Execute())

	opts := svc.locate.gotOpts
	assert.Equal(t, domain.Threshold{MinIdentity: 95, MinCoverage: 90}, opts.Threshold)
	assert.Equal(t, domain.SelectionBestPerDatabase, opts.Selection)
	assert.Equal(t, 7.0, opts.Window)
	assert.Nil(t, opts.Hierarchical)
	assert.Equal(t, 4, svc.loader.gotThreads)
	assert.Equal(t, []string{"q1"}, svc.locate.gotInput.Queries)
}

func TestLocate_FlagsOverrideSettings(t *testing.T) {
	svc := setupTestServices(t)
	svc.settings.settings.Locate.Selection = domain.SelectionBestPerDatabase
	cmd, _ := newLocateCmd(t,
		"--hits", t.TempDir(),
		"--maps", "barke,morex",
		"--databases", "morex_genome",
		"--thres-id", "80",
		"--thres-cov", "70",
		"--best-score", "no",
		"--hierarchical=false",
		"--sort", "bp",
		"--show-multiples",
		"--genes", "between",
		"--extend",
		"--genes-window", "2.5",
		"--annot",
		"--threads", "3",
	)

	require.NoError(t, cmd.Execute())

	opts := svc.locate.gotOpts
	assert.Equal(t, []string{"barke", "morex"}, opts.Maps)
	assert.Equal(t, []string{"morex_genome"}, opts.Databases)
	assert.Equal(t, domain.Threshold{MinIdentity: 80, MinCoverage: 70}, opts.Threshold)
	assert.Equal(t, domain.SelectionNone, opts.Selection)
	require.NotNil(t, opts.Hierarchical)
	assert.False(t, *opts.Hierarchical)
	assert.Equal(t, domain.SortBP, opts.Sort)
	assert.True(t, opts.ShowMultiples)
	assert.Equal(t, domain.EnrichGenes, opts.Enrichment)
	assert.Equal(t, domain.WindowBetweenMarkers, opts.WindowMode)
	assert.True(t, opts.Extend)
	assert.Equal(t, 2.5, opts.EffectiveWindow())
	assert.True(t, opts.Annotate)
	assert.Equal(t, []string{"morex_genome"}, svc.loader.gotDatabases)
	assert.Equal(t, 3, svc.loader.gotThreads)
}

func TestLocate_Markers(t *testing.T) {
	svc := setupTestServices(t)
	cmd, _ := newLocateCmd(t, "--hits", t.TempDir(), "--markers")

	require.NoError(t, cmd.Execute())

	assert.Equal(t, domain.EnrichMarkers, svc.locate.gotOpts.Enrichment)
}

func TestLocate_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind error
	}{
		{"best score", []string{"--best-score", "maybe"}, domain.ErrPolicy},
		{"sort", []string{"--sort", "mb"}, domain.ErrConfiguration},
		{"genes", []string{"--genes", "nearby"}, domain.ErrPolicy},
		{"threshold", []string{"--thres-id", "120"}, domain.ErrPolicy},
		{"window", []string{"--genes-window=-1"}, domain.ErrPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setupTestServices(t)
			cmd, _ := newLocateCmd(t, append([]string{"--hits", t.TempDir()}, tt.args...)...)

			err := cmd.Execute()

			assert.ErrorIs(t, err, tt.kind)
			assert.Nil(t, svc.locate.gotOpts.Maps)
		})
	}
}

func TestLocate_UnknownFormat(t *testing.T) {
	setupTestServices(t)
	cmd, _ := newLocateCmd(t, "--hits", t.TempDir(), "--format", "xml")

	err := cmd.Execute()

	assert.EqualError(t, err, `unknown format "xml" (want plain or json)`)
}

func TestLocate_PlainOutput(t *testing.T) {
	svc := setupTestServices(t)
	svc.locate.report = barkeReport()
	cmd, buf := newLocateCmd(t, "--hits", t.TempDir())

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, ">barke\n")
	assert.Contains(t, out, "#marker\tchr\tcM\tother_alignments\n")
	assert.Contains(t, out, "q1\t1H\t5.00\tNo\n")
}

func TestLocate_NoHeaders(t *testing.T) {
	svc := setupTestServices(t)
	svc.locate.report = barkeReport()
	cmd, buf := newLocateCmd(t, "--hits", t.TempDir(), "--no-headers")

	require.NoError(t, cmd.Execute())

	assert.NotContains(t, buf.String(), "#marker")
}

func TestLocate_JSONOutput(t *testing.T) {
	svc := setupTestServices(t)
	svc.locate.report = barkeReport()
	cmd, buf := newLocateCmd(t, "--hits", t.TempDir(), "--format", "json")

	require.NoError(t, cmd.Execute())

	assert.True(t, json.Valid(buf.Bytes()), buf.String())
	assert.Contains(t, buf.String(), `"barke"`)
}

func TestLocate_OutputFile(t *testing.T) {
	svc := setupTestServices(t)
	svc.locate.report = barkeReport()
	path := filepath.Join(t.TempDir(), "report.tsv")
	cmd, buf := newLocateCmd(t, "--hits", t.TempDir(), "-o", path)

	require.NoError(t, cmd.Execute())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "q1\t1H\t5.00\tNo\n")
}

type failingCloser struct {
	bytes.Buffer
	err error
}

func (f *failingCloser) Close() error { return f.err }

func TestLocate_OutputFileCloseError(t *testing.T) {
	svc := setupTestServices(t)
	svc.locate.report = barkeReport()
	diskFull := errors.New("no space left on device")
	out := &failingCloser{err: diskFull}
	prev := createOutput
	createOutput = func(string) (io.WriteCloser, error) { return out, nil }
	t.Cleanup(func() { createOutput = prev })
	cmd, _ := newLocateCmd(t, "--hits", t.TempDir(), "-o", "report.tsv")

	err := cmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.Contains(t, err.Error(), "failed to close output file")
	assert.Contains(t, out.String(), "q1\t1H\t5.00\tNo\n")
}

func TestLocate_AllMapsFailed(t *testing.T) {
	svc := setupTestServices(t)
	report := barkeReport()
	report.Results[0] = domain.MapResult{
		Map: testMaps()[0],
		Err: &domain.MapError{MapID: "barke", Err: domain.ErrUnknownDatabase},
	}
	svc.locate.report = report
	cmd, buf := newLocateCmd(t, "--hits", t.TempDir())

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no map could be processed")
	assert.ErrorIs(t, err, domain.ErrUnknownDatabase)
	assert.Contains(t, buf.String(), "#error")
}

func TestLocate_LoaderError(t *testing.T) {
	svc := setupTestServices(t)
	svc.loader.err = errors.New("disk gone")
	cmd, _ := newLocateCmd(t, "--hits", t.TempDir())

	err := cmd.Execute()

	assert.EqualError(t, err, "failed to load hits: disk gone")
}

func TestLocate_ServiceError(t *testing.T) {
	svc := setupTestServices(t)
	svc.locate.err = errors.New("boom")
	cmd, _ := newLocateCmd(t, "--hits", t.TempDir())

	err := cmd.Execute()

	assert.EqualError(t, err, "locate failed: boom")
}

func TestCheckReport(t *testing.T) {
	failed := domain.MapResult{Err: &domain.MapError{MapID: "m", Err: domain.ErrUnknownMap}}
	ok := domain.MapResult{}

	assert.NoError(t, checkReport(&domain.LocateReport{}))
	assert.NoError(t, checkReport(&domain.LocateReport{Results: []domain.MapResult{ok, failed}}))
	assert.Error(t, checkReport(&domain.LocateReport{Results: []domain.MapResult{failed, failed}}))
}

func TestOrAll(t *testing.T) {
	assert.Equal(t, "all", orAll(nil))
	assert.Equal(t, "a,b", orAll([]string{"a", "b"}))
}
