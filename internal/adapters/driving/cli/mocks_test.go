package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
)

type mockHitLoader struct {
	gotDatabases []string
	gotThreads   int
	input        domain.LocateInput
	err          error
}

func (m *mockHitLoader) Load(
	_ context.Context, _ driven.HitReader, databases []string, threads int,
) (domain.LocateInput, error) {
	m.gotDatabases = databases
	m.gotThreads = threads
	return m.input, m.err
}

type mockLocateService struct {
	gotInput domain.LocateInput
	gotOpts  domain.LocateOptions
	report   *domain.LocateReport
	err      error
}

func (m *mockLocateService) Locate(
	_ context.Context, input domain.LocateInput, opts domain.LocateOptions,
) (*domain.LocateReport, error) {
	m.gotInput = input
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.LocateReport{RunID: "run-1", Options: opts}, nil
}

type mockMapService struct {
	maps []domain.GeneticMap
	dbs  []domain.Database
}

func (m *mockMapService) List(context.Context) ([]domain.GeneticMap, error) {
	return m.maps, nil
}

func (m *mockMapService) Get(_ context.Context, id string) (*domain.GeneticMap, error) {
	for i := range m.maps {
		if m.maps[i].ID == id {
			return &m.maps[i], nil
		}
	}
	return nil, domain.ErrUnknownMap
}

func (m *mockMapService) Databases(context.Context) ([]domain.Database, error) {
	return m.dbs, nil
}

type mockImportService struct {
	gotMap         string
	gotAnchors     []domain.Anchor
	gotFeatures    []domain.Feature
	gotAnnotations []domain.Annotation
	err            error
}

func (m *mockImportService) ImportAnchors(_ context.Context, mapID string, anchors []domain.Anchor) (int, error) {
	m.gotMap, m.gotAnchors = mapID, anchors
	return len(anchors), m.err
}

func (m *mockImportService) ImportFeatures(_ context.Context, mapID string, features []domain.Feature) (int, error) {
	m.gotMap, m.gotFeatures = mapID, features
	return len(features), m.err
}

func (m *mockImportService) ImportAnnotations(_ context.Context, annotations []domain.Annotation) (int, error) {
	m.gotAnnotations = annotations
	return len(annotations), m.err
}

type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return m.err
}

func (m *mockSettingsService) SetThreshold(threshold domain.Threshold) error {
	if err := threshold.Validate(); err != nil {
		return err
	}
	m.settings.Locate.Threshold = threshold
	return m.err
}

func (m *mockSettingsService) SetSelection(mode domain.SelectionMode) error {
	m.settings.Locate.Selection = mode
	return m.err
}

func (m *mockSettingsService) SetWindow(window float64) error {
	m.settings.Locate.Window = window
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

type testServices struct {
	locate   *mockLocateService
	loader   *mockHitLoader
	maps     *mockMapService
	imports  *mockImportService
	settings *mockSettingsService
}

// setupTestServices installs fresh mocks and restores the previous services
// when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	prev := Config{
		Locate:    locateService,
		HitLoader: hitLoader,
		Maps:      mapService,
		Import:    importService,
		Settings:  settingsService,
	}
	t.Cleanup(func() { Configure(prev) })

	s := &testServices{
		locate:   &mockLocateService{},
		loader:   &mockHitLoader{input: domain.LocateInput{Queries: []string{"q1"}}},
		maps:     &mockMapService{maps: testMaps(), dbs: testDatabases()},
		imports:  &mockImportService{},
		settings: newMockSettings(),
	}
	Configure(Config{
		Locate:    s.locate,
		HitLoader: s.loader,
		Maps:      s.maps,
		Import:    s.imports,
		Settings:  s.settings,
	})
	return s
}

func testMaps() []domain.GeneticMap {
	return []domain.GeneticMap{
		{
			ID: "barke", Name: "Barke", HasCM: true, DefaultSort: domain.SortCM,
			Chromosomes: []string{"1H", "2H"},
			Group: domain.DatabaseGroup{
				Databases:    []string{"barke_contigs", "morex_contigs"},
				Hierarchical: true,
			},
		},
		{
			ID: "morex", Name: "Morex", HasBP: true, DefaultSort: domain.SortBP,
			Group: domain.DatabaseGroup{Databases: []string{"morex_genome"}},
		},
	}
}

func testDatabases() []domain.Database {
	return []domain.Database{
		{ID: "barke_contigs", Name: "Barke contigs"},
		{ID: "morex_genome", Name: "Morex genome", Genomic: true},
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

// executeWithInput runs the root command reading input from stdin.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// newLocateCmd builds a locate command with fresh flag state. Slice flags
// accumulate across parses, so each test gets its own command.
func newLocateCmd(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "locate", RunE: runLocate, SilenceUsage: true}
	addLocateFlags(cmd)
	cmd.Flags().StringVarP(&locateArgs.outputFile, "output", "o", "", "")
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return cmd, buf
}
