package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the defaults of locate runs.

Settings are stored in config.toml under ~/.bmap (or $BMAP_HOME).
Command line flags override them per run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the locate defaults step by step.`,
	RunE:  runSettingsWizard,
}

var settingsThresholdCmd = &cobra.Command{
	Use:   "threshold [identity] [coverage]",
	Short: "Set the default identity and coverage threshold",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsThreshold,
}

var settingsSelectionCmd = &cobra.Command{
	Use:   "selection [mode]",
	Short: "Set the default selection mode",
	Long: `Set which alignments survive selection.

Available modes:
  best_global        - Best scoring hits over all databases (yes)
  best_per_database  - Best scoring hits of each database (db)
  none               - Keep every valid hit (no)

Without an argument, choose interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsSelection,
}

var settingsWindowCmd = &cobra.Command{
	Use:   "window [size]",
	Short: "Set the default feature search window",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsWindow,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsThresholdCmd)
	settingsCmd.AddCommand(settingsSelectionCmd)
	settingsCmd.AddCommand(settingsWindowCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	l := settings.Locate
	cmd.Println("[Locate]")
	cmd.Printf("  Identity: %.2f\n", l.Threshold.MinIdentity)
	cmd.Printf("  Coverage: %.2f\n", l.Threshold.MinCoverage)
	cmd.Printf("  Selection: %s\n", l.Selection.Description())
	if l.Sort != "" {
		cmd.Printf("  Sort: %s\n", l.Sort.Description())
	} else {
		cmd.Printf("  Sort: (map default)\n")
	}
	cmd.Printf("  Window: %g\n", l.Window)
	cmd.Printf("  Threads: %d\n", l.Threads)
	cmd.Printf("  Show multiples: %s\n", yesNo(l.ShowMultiples))
	cmd.Printf("  Show unmapped: %s\n", yesNo(l.ShowUnmapped))
	cmd.Println()

	cmd.Println("[Reference]")
	cmd.Printf("  Catalog: %s\n", orDefault(settings.Reference.CatalogPath))
	cmd.Printf("  Database: %s\n", orDefault(settings.Reference.DatabasePath))
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Requests per second: %g\n", settings.Server.RequestsPerSecond)

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return errors.New("the wizard needs an interactive terminal; use the settings subcommands instead")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	l := settings.Locate

	cmd.Println("bmap Settings Wizard")
	cmd.Println("====================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Threshold")
	cmd.Println("-----------------")
	cmd.Printf("Minimum identity [%.2f]: ", l.Threshold.MinIdentity)
	identity := parseFloatOr(readLine(reader), l.Threshold.MinIdentity)
	cmd.Printf("Minimum coverage [%.2f]: ", l.Threshold.MinCoverage)
	coverage := parseFloatOr(readLine(reader), l.Threshold.MinCoverage)
	threshold := domain.Threshold{MinIdentity: identity, MinCoverage: coverage}
	if err := settingsService.SetThreshold(threshold); err != nil {
		return fmt.Errorf("failed to set threshold: %w", err)
	}
	cmd.Println()

	cmd.Println("Step 2: Selection Mode")
	cmd.Println("----------------------")
	mode := chooseSelection(cmd, reader, l.Selection)
	if err := settingsService.SetSelection(mode); err != nil {
		return fmt.Errorf("failed to set selection mode: %w", err)
	}
	cmd.Printf("Set selection mode to: %s\n\n", mode.Description())

	cmd.Println("Step 3: Feature Window")
	cmd.Println("----------------------")
	cmd.Printf("Window [%g]: ", l.Window)
	window := parseFloatOr(readLine(reader), l.Window)
	if err := settingsService.SetWindow(window); err != nil {
		return fmt.Errorf("failed to set window: %w", err)
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	return nil
}

func runSettingsThreshold(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	identity, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid identity %q: %w", args[0], err)
	}
	coverage, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid coverage %q: %w", args[1], err)
	}

	threshold := domain.Threshold{MinIdentity: identity, MinCoverage: coverage}
	if err := settingsService.SetThreshold(threshold); err != nil {
		return fmt.Errorf("failed to set threshold: %w", err)
	}
	cmd.Printf("Threshold set to identity %.2f, coverage %.2f\n", identity, coverage)
	return nil
}

func runSettingsSelection(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var mode domain.SelectionMode
	if len(args) == 1 {
		parsed, err := domain.ParseSelectionMode(args[0])
		if err != nil {
			return err
		}
		mode = parsed
	} else {
		reader := bufio.NewReader(cmd.InOrStdin())
		cmd.Println("Select Selection Mode")
		cmd.Println("---------------------")
		mode = chooseSelection(cmd, reader, "")
		if mode == "" {
			return errors.New("invalid selection")
		}
	}

	if err := settingsService.SetSelection(mode); err != nil {
		return fmt.Errorf("failed to set selection mode: %w", err)
	}
	cmd.Printf("Selection mode set to: %s\n", mode.Description())
	return nil
}

func runSettingsWindow(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	window, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid window %q: %w", args[0], err)
	}
	if err := settingsService.SetWindow(window); err != nil {
		return fmt.Errorf("failed to set window: %w", err)
	}
	cmd.Printf("Window set to %g\n", window)
	return nil
}

// chooseSelection lists the selection modes and reads a choice. An empty
// or invalid answer yields current.
func chooseSelection(cmd *cobra.Command, reader *bufio.Reader, current domain.SelectionMode) domain.SelectionMode {
	modes := domain.AllSelectionModes()
	def := 0
	for i, mode := range modes {
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
		if mode == current {
			def = i + 1
		}
	}
	if def > 0 {
		cmd.Printf("\nEnter choice [%d]: ", def)
	} else {
		cmd.Print("\nEnter choice: ")
	}

	idx := parseChoice(readLine(reader), len(modes), def)
	if idx == 0 {
		return current
	}
	return modes[idx-1]
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseFloatOr(input string, defaultVal float64) float64 {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return defaultVal
	}
	return val
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
