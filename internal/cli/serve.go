package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dhcpdash/internal/server"
)

// serveCommand runs the preview API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview HTTP API",
		Long: `Run the preview HTTP API.

Endpoints:
  GET  /health
  GET  /metrics
  POST /api/v1/options/serialize
  POST /api/v1/options/decode
  POST /api/v1/tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			metrics := server.NewMetrics()
			metrics.Install()

			printListening(cmd.ErrOrStderr(), cfg.Listen)
			logger := loggerFromContext(cmd.Context())
			return server.New(cfg, logger, metrics).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default: from the settings, then 127.0.0.1:8080)")

	return cmd
}
