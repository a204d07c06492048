package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bmap-cli/internal/adapters/driving/api"
	"github.com/custodia-labs/bmap-cli/internal/core/domain"
)

var (
	serveAddr  string
	serveRate  float64
	serveBurst int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the locate engine and map catalog over HTTP.

Routes:
  POST /v1/locate      locate hits on maps (?format=plain for tabular output)
  GET  /v1/maps        list the catalog
  GET  /v1/maps/{id}   show one map
  GET  /healthz        liveness

Requests are logged as JSON to stderr; LOG_LEVEL sets the level.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := domain.DefaultAppSettings().Server
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaults.Addr, "listen address")
	serveCmd.Flags().Float64Var(&serveRate, "rps", defaults.RequestsPerSecond, "locate requests per second (0 = unlimited)")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 10, "locate request burst")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, rps := serveAddr, serveRate
	var defaults *domain.LocateSettings
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		defaults = &settings.Locate
		if !cmd.Flags().Changed("addr") {
			addr = settings.Server.Addr
		}
		if !cmd.Flags().Changed("rps") {
			rps = settings.Server.RequestsPerSecond
		}
	}

	log, err := api.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	server, err := api.NewServer(&api.Ports{
		Locate:   locateService,
		Maps:     mapService,
		Defaults: defaults,
	}, api.WithLogger(log), api.WithRateLimit(rps, serveBurst))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}
