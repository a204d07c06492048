package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "Inspect the map catalog",
	RunE:  runMapsList,
}

var mapsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued maps",
	Args:  cobra.NoArgs,
	RunE:  runMapsList,
}

var mapsShowCmd = &cobra.Command{
	Use:   "show [map]",
	Short: "Show a map and its database group",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapsShow,
}

func init() {
	mapsCmd.AddCommand(mapsListCmd)
	mapsCmd.AddCommand(mapsShowCmd)
	rootCmd.AddCommand(mapsCmd)
}

func runMapsList(cmd *cobra.Command, _ []string) error {
	if mapService == nil {
		return errors.New("map service not configured")
	}

	maps, err := mapService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list maps: %w", err)
	}
	if len(maps) == 0 {
		cmd.Println("No maps configured.")
		return nil
	}

	for i := range maps {
		m := &maps[i]
		cmd.Printf("%s\t%s\t%s\t%s\n", m.ID, m.Name, units(m), strings.Join(m.Group.Databases, ","))
	}
	return nil
}

func runMapsShow(cmd *cobra.Command, args []string) error {
	if mapService == nil {
		return errors.New("map service not configured")
	}

	m, err := mapService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get map: %w", err)
	}
	registry, err := mapService.Databases(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}
	byID := make(map[string]domain.Database, len(registry))
	for _, db := range registry {
		byID[db.ID] = db
	}

	cmd.Printf("Map: %s\n", m.ID)
	cmd.Printf("  Name: %s\n", m.Name)
	cmd.Printf("  Units: %s\n", units(m))
	cmd.Printf("  Default sort: %s\n", m.DefaultSort.Description())
	cmd.Printf("  Hierarchical: %s\n", yesNo(m.Group.Hierarchical))
	if len(m.Chromosomes) > 0 {
		cmd.Printf("  Chromosomes: %s\n", strings.Join(m.Chromosomes, " "))
	}
	cmd.Println("  Databases:")
	for i, id := range m.Group.Databases {
		db, ok := byID[id]
		switch {
		case !ok:
			cmd.Printf("    %d. %s (not registered)\n", i+1, id)
		case db.Genomic:
			cmd.Printf("    %d. %s - %s (genomic)\n", i+1, id, db.Name)
		default:
			cmd.Printf("    %d. %s - %s\n", i+1, id, db.Name)
		}
	}
	return nil
}

func units(m *domain.GeneticMap) string {
	var u []string
	if m.HasCM {
		u = append(u, "cM")
	}
	if m.HasBP {
		u = append(u, "bp")
	}
	return strings.Join(u, ",")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
