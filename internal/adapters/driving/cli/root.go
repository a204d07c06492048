// Package cli implements the bmap command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmap-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bmap-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services wired by the composition root.
var (
	locateService   driving.LocateService
	hitLoader       driving.HitLoader
	mapService      driving.MapService
	importService   driving.ImportService
	settingsService driving.SettingsService
)

var (
	verbose     bool
	profileMode string
	profiler    interface{ Stop() }
)

var rootCmd = &cobra.Command{
	Use:   "bmap",
	Short: "Locate aligned sequences on genetic maps",
	Long: `bmap consolidates alignments of query sequences against reference
databases and projects them onto curated genetic maps.

Hits are read from tabular aligner output, filtered by identity and
coverage, reduced to the best scoring alignments and placed on each
requested map. Positions can be enriched with nearby markers or genes.`,
	SilenceUsage:       true,
	PersistentPreRunE:  startRun,
	PersistentPostRunE: stopRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress to stderr")
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the current directory")
}

// Config holds the services used by the commands.
type Config struct {
	Locate    driving.LocateService
	HitLoader driving.HitLoader
	Maps      driving.MapService
	Import    driving.ImportService
	Settings  driving.SettingsService
}

// Configure installs the services used by the commands.
func Configure(cfg Config) {
	locateService = cfg.Locate
	hitLoader = cfg.HitLoader
	mapService = cfg.Maps
	importService = cfg.Import
	settingsService = cfg.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	// Post-run hooks are skipped when a command fails.
	_ = stopRun(nil, nil)
	return err
}

func startRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	switch profileMode {
	case "":
		return nil
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	default:
		return fmt.Errorf("unknown profile mode %q (want cpu or mem)", profileMode)
	}
	logger.Info("Writing %s profile", profileMode)
	return nil
}

func stopRun(_ *cobra.Command, _ []string) error {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
	return nil
}
