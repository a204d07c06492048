package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/hits/tabular"
	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/output"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
	"github.com/custodia-labs/bmap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bmap-cli/internal/logger"
)

// locateFlags holds the flags shared by locate, watch and tui.
type locateFlags struct {
	hits          string
	queries       string
	maps          []string
	databases     []string
	identity      float64
	coverage      float64
	bestScore     string
	hierarchical  bool
	sort          string
	showMultiples bool
	genes         string
	markers       bool
	annotate      bool
	extend        bool
	window        float64
	showUnmapped  bool
	threads       int
	format        string
	noHeaders     bool
	outputFile    string
}

var locateArgs locateFlags

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate aligned queries on genetic maps",
	Long: `Reads tabular alignment output (one file per database, named after the
database, with BLAST outfmt 6 columns plus qcovs) and places every query
on the requested maps.

Queries are classified per map as mapped, multiple, unmapped or unaligned.
Mapped positions can be enriched with the genes or markers around them.

Examples:
  bmap locate --hits ./aln --queries queries.fa --maps barke
  bmap locate --hits ./aln --genes between --extend --genes-window 2 --annot
  bmap locate --hits ./aln --best-score db --format json`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

func init() {
	addLocateFlags(locateCmd)
	locateCmd.Flags().StringVarP(&locateArgs.outputFile, "output", "o", "", "write the report to a file")
	rootCmd.AddCommand(locateCmd)
}

func addLocateFlags(cmd *cobra.Command) {
	defaults := domain.DefaultAppSettings().Locate
	f := cmd.Flags()
	f.StringVar(&locateArgs.hits, "hits", "", "directory of tabular hit files, one per database")
	f.StringVar(&locateArgs.queries, "queries", "", "FASTA file listing every submitted query")
	f.StringSliceVar(&locateArgs.maps, "maps", nil, "maps to locate on (default all)")
	f.StringSliceVar(&locateArgs.databases, "databases", nil, "restrict each map to these databases")
	f.Float64Var(&locateArgs.identity, "thres-id", defaults.Threshold.MinIdentity, "minimum identity percentage")
	f.Float64Var(&locateArgs.coverage, "thres-cov", defaults.Threshold.MinCoverage, "minimum query coverage percentage")
	f.StringVar(&locateArgs.bestScore, "best-score", "yes", "keep best hits: yes (overall), db (per database) or no")
	f.BoolVar(&locateArgs.hierarchical, "hierarchical", false, "search databases in priority order (default per map)")
	f.StringVar(&locateArgs.sort, "sort", "", "sort unit: cm or bp (default per map)")
	f.BoolVar(&locateArgs.showMultiples, "show-multiples", false, "list queries with several positions")
	f.StringVar(&locateArgs.genes, "genes", "no", "attach genes: marker, between or no")
	f.BoolVar(&locateArgs.markers, "markers", false, "attach markers of other datasets")
	f.BoolVar(&locateArgs.annotate, "annot", false, "attach functional annotation to genes")
	f.BoolVar(&locateArgs.extend, "extend", false, "widen the feature search by --genes-window")
	f.Float64Var(&locateArgs.window, "genes-window", defaults.Window, "feature search window in the sort unit")
	f.BoolVar(&locateArgs.showUnmapped, "show-unmapped", false, "print unmapped and unaligned queries")
	f.IntVar(&locateArgs.threads, "threads", defaults.Threads, "hit files read concurrently")
	f.StringVar(&locateArgs.format, "format", "plain", "output format: plain or json")
	f.BoolVar(&locateArgs.noHeaders, "no-headers", false, "omit column headers")
}

// locateRun is a resolved locate invocation.
type locateRun struct {
	reader  driven.HitReader
	options domain.LocateOptions
	render  driven.RenderOptions
	writer  driven.ReportWriter
	threads int
}

// prepareLocate resolves flags over the stored settings. Flags only
// override settings when given explicitly.
func prepareLocate(cmd *cobra.Command) (*locateRun, error) {
	if locateService == nil || hitLoader == nil {
		return nil, errors.New("locate service not configured")
	}
	if locateArgs.hits == "" {
		return nil, errors.New("--hits is required")
	}

	settings := domain.DefaultAppSettings().Locate
	if settingsService != nil {
		stored, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		settings = stored.Locate
	}

	f := cmd.Flags()
	opts := settings.Options()
	opts.Maps = locateArgs.maps
	opts.Databases = locateArgs.databases
	opts.Extend = locateArgs.extend
	opts.Annotate = locateArgs.annotate

	if f.Changed("thres-id") {
		opts.Threshold.MinIdentity = locateArgs.identity
	}
	if f.Changed("thres-cov") {
		opts.Threshold.MinCoverage = locateArgs.coverage
	}
	if f.Changed("best-score") {
		mode, err := domain.ParseSelectionMode(locateArgs.bestScore)
		if err != nil {
			return nil, err
		}
		opts.Selection = mode
	}
	if f.Changed("hierarchical") {
		h := locateArgs.hierarchical
		opts.Hierarchical = &h
	}
	if f.Changed("sort") {
		unit, err := domain.ParseSortUnit(locateArgs.sort)
		if err != nil {
			return nil, err
		}
		opts.Sort = unit
	}
	if f.Changed("show-multiples") {
		opts.ShowMultiples = locateArgs.showMultiples
	}
	if f.Changed("genes-window") {
		opts.Window = locateArgs.window
	}

	enrich, mode, err := domain.ParseEnrichment(locateArgs.genes, locateArgs.markers)
	if err != nil {
		return nil, err
	}
	opts.Enrichment = enrich
	opts.WindowMode = mode
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	run := &locateRun{
		reader:  tabular.NewDirReader(locateArgs.hits, locateArgs.queries),
		options: opts,
		render: driven.RenderOptions{
			ShowUnmapped: settings.ShowUnmapped,
			ShowHeaders:  !locateArgs.noHeaders,
		},
		threads: settings.Threads,
	}
	if f.Changed("show-unmapped") {
		run.render.ShowUnmapped = locateArgs.showUnmapped
	}
	if f.Changed("threads") {
		run.threads = locateArgs.threads
	}

	switch strings.ToLower(locateArgs.format) {
	case "plain", "":
		run.writer = output.NewPlain()
	case "json":
		run.writer = output.NewJSON()
	default:
		return nil, fmt.Errorf("unknown format %q (want plain or json)", locateArgs.format)
	}

	echoParameters(run)
	return run, nil
}

// echoParameters prints the resolved run parameters in verbose mode.
func echoParameters(run *locateRun) {
	if !logger.IsVerbose() {
		return
	}
	o := run.options
	logger.Section("Parameters")
	logger.Info("hits: %s", locateArgs.hits)
	if locateArgs.queries != "" {
		logger.Info("queries: %s", locateArgs.queries)
	}
	logger.Info("maps: %s", orAll(o.Maps))
	logger.Info("databases: %s", orAll(o.Databases))
	logger.Info("threshold: identity %.2f, coverage %.2f", o.Threshold.MinIdentity, o.Threshold.MinCoverage)
	logger.Info("selection: %s", o.Selection.Description())
	if o.Hierarchical != nil {
		logger.Info("hierarchical: %t", *o.Hierarchical)
	}
	if o.Sort != "" {
		logger.Info("sort: %s", o.Sort.Description())
	}
	logger.Info("enrichment: %s (%s, window %g)", o.Enrichment, o.WindowMode, o.EffectiveWindow())
	logger.Info("annotate: %t, show multiples: %t, show unmapped: %t",
		o.Annotate, o.ShowMultiples, run.render.ShowUnmapped)
	logger.Info("threads: %d", run.threads)
}

func orAll(ids []string) string {
	if len(ids) == 0 {
		return "all"
	}
	return strings.Join(ids, ",")
}

// executeLocate loads the hits and runs the engine.
func executeLocate(ctx context.Context, run *locateRun) (*domain.LocateReport, error) {
	input, err := loadHits(ctx, run)
	if err != nil {
		return nil, err
	}
	return locateHits(ctx, run.options, input)
}

func loadHits(ctx context.Context, run *locateRun) (domain.LocateInput, error) {
	done := logger.Timed("load hits")
	defer done()
	input, err := hitLoader.Load(ctx, run.reader, run.options.Databases, run.threads)
	if err != nil {
		return domain.LocateInput{}, fmt.Errorf("failed to load hits: %w", err)
	}
	return input, nil
}

func locateHits(ctx context.Context, opts domain.LocateOptions, input domain.LocateInput) (*domain.LocateReport, error) {
	done := logger.Timed("locate")
	defer done()
	report, err := locateService.Locate(ctx, input, opts)
	if err != nil {
		return nil, fmt.Errorf("locate failed: %w", err)
	}
	return report, nil
}

// checkReport returns an error when no map could be processed.
func checkReport(report *domain.LocateReport) error {
	failed := report.Failed()
	if len(report.Results) == 0 || len(failed) < len(report.Results) {
		return nil
	}
	errs := make([]error, len(failed))
	for i, f := range failed {
		errs[i] = f
	}
	return fmt.Errorf("no map could be processed: %w", errors.Join(errs...))
}

func runLocate(cmd *cobra.Command, _ []string) error {
	run, err := prepareLocate(cmd)
	if err != nil {
		return err
	}

	report, err := executeLocate(cmd.Context(), run)
	if err != nil {
		return err
	}

	if locateArgs.outputFile == "" {
		if err := run.writer.Write(cmd.OutOrStdout(), report, run.render); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return checkReport(report)
	}

	if err := writeReportFile(locateArgs.outputFile, run, report); err != nil {
		return err
	}
	return checkReport(report)
}

// createOutput opens the --output file.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeReportFile writes the report to path. A failed close is reported,
// since buffered data may not have reached the disk.
func writeReportFile(path string, run *locateRun, report *domain.LocateReport) error {
	f, err := createOutput(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := run.writer.Write(f, report, run.render); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
