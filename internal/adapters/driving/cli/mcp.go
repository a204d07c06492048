package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can locate
sequences and browse the map catalog.

Tools:
  locate_sequences  place aligned queries on genetic maps
  list_maps         list the catalogued maps
  describe_map      show a map and its database group

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  bmap mcp serve

  # HTTP mode
  bmap mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// storedLocateSettings returns the persisted locate defaults, or nil when
// no settings service is configured.
func storedLocateSettings() (*domain.LocateSettings, error) {
	if settingsService == nil {
		return nil, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings.Locate, nil
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	defaults, err := storedLocateSettings()
	if err != nil {
		return err
	}

	ports := &mcp.Ports{
		Locate:   locateService,
		Maps:     mapService,
		Defaults: defaults,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
