package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse a locate report interactively",
	Long: `Locate the hits, then browse the report in the terminal.

Accepts the same flags as locate. Inside the browser the run can be
repeated with another sort unit or with multiple positions shown.

Controls:
  ↑/k, ↓/j      - Move between positions
  tab/shift+tab - Switch map
  u             - Toggle unmapped and unaligned queries
  s             - Re-run sorted by the other unit
  m             - Re-run toggling multiple positions
  r             - Re-run
  ?             - Toggle help
  q             - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	addLocateFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !isTerminal(cmd) {
		return errors.New("the report browser needs an interactive terminal; use locate instead")
	}

	run, err := prepareLocate(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	input, err := loadHits(ctx, run)
	if err != nil {
		return err
	}
	report, err := locateHits(ctx, run.options, input)
	if err != nil {
		return err
	}
	if err := checkReport(report); err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(locateService), tui.Session{
		Input:   input,
		Options: run.options,
		Report:  report,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// isTerminal reports whether the command writes to a terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
