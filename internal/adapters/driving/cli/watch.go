package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driven/hits/tabular"
	"github.com/custodia-labs/bmap-cli/internal/logger"
)

const clearScreen = "\033[H\033[2J"

var (
	watchDebounce    time.Duration
	watchMinInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run locate whenever the hit directory changes",
	Long: `Locate once, then watch the --hits directory and locate again each time
a hit file is created, rewritten or removed. Bursts of changes are
coalesced, and runs are spaced by at least --min-interval.

Accepts the same flags as locate.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addLocateFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before re-running")
	watchCmd.Flags().DurationVar(&watchMinInterval, "min-interval", 2*time.Second, "minimum time between runs")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	run, err := prepareLocate(cmd)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(locateArgs.hits); err != nil {
		return fmt.Errorf("failed to watch %s: %w", locateArgs.hits, err)
	}

	out := cmd.OutOrStdout()
	clearFirst := isTerminal(cmd)

	ctx := cmd.Context()
	once := func() {
		if clearFirst {
			io.WriteString(out, clearScreen) //nolint:errcheck
		}
		report, err := executeLocate(ctx, run)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		if err := run.writer.Write(out, report, run.render); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: failed to write report: %v\n", err)
		}
		for _, failed := range report.Failed() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", failed)
		}
	}

	once()
	logger.Info("Watching %s", locateArgs.hits)
	limiter := rate.NewLimiter(rate.Every(watchMinInterval), 1)
	return watchLoop(ctx, watcher.Events, watcher.Errors, watchDebounce, limiter, once)
}

// relevantEvent reports whether ev touches a hit file.
func relevantEvent(ev fsnotify.Event) bool {
	if _, ok := tabular.DatabaseOf(filepath.Base(ev.Name)); !ok {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// watchLoop calls rerun once events have been quiet for debounce, waiting
// on limiter before each call. It returns nil when ctx is cancelled.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	debounce time.Duration,
	limiter *rate.Limiter,
	rerun func(),
) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev) {
				continue
			}
			logger.Debug("Hit file changed: %s", ev)
			timer.Reset(debounce)
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case <-timer.C:
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			rerun()
		}
	}
}
