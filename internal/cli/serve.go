package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stf-simulator/internal/server"
)

func addServeCommand(rootCmd *cobra.Command, app *App) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator JSON API over HTTP",
		Long: `Start the HTTP API. Endpoints live under /api/v1 (payoff, scenario,
hedge, exposure, casestudy, presets) with a /health check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			presets, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			output := NewOutput(cmd)
			if !output.IsJSON() {
				output.Info("Listening on %s (Ctrl+C to stop)", cfg.Addr)
			}
			return server.New(cfg, app.Engine, presets, app.Logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(cmd)
}
