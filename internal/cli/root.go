// Package cli provides the command-line interface for the simulator.
package cli

import (
	"context"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stf-simulator/internal/config"
	"stf-simulator/internal/engine"
	"stf-simulator/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Engine    *engine.Engine

	store *store.SQLiteStore
}

// Store opens the preset library on first use and seeds the built-in
// presets into an empty database.
func (a *App) Store(ctx context.Context) (store.PresetStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := store.NewSQLiteStore(a.Config.Storage.Path)
	if err != nil {
		return nil, err
	}
	existing, err := s.ListPresets(ctx, store.PresetFilter{Limit: 1})
	if err != nil {
		s.Close()
		return nil, err
	}
	if len(existing) == 0 {
		n, err := s.SeedDefaults(ctx)
		if err != nil {
			s.Close()
			return nil, err
		}
		a.Logger.Debug().Int("count", n).Msg("Seeded built-in presets")
	}
	a.store = s
	a.Logger.Debug().Str("path", a.Config.Storage.Path).Msg("Preset store opened")
	return s, nil
}

// CloseStore closes the preset library if it was opened.
func (a *App) CloseStore() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close preset store")
	}
	a.store = nil
}

// ConfigDirFromArgs returns the value of --config in args, or "" when the
// flag is absent. The config is loaded before the command tree is built.
func ConfigDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, configDir string, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		Logger:    logger,
	}
	if app.ConfigDir == "" {
		app.ConfigDir = config.DefaultConfigDir()
	}
	if !cfg.UI.ColorEnabled {
		color.NoColor = true
	}

	rootCmd := &cobra.Command{
		Use:   "stfsim",
		Short: "Sell target forward simulator",
		Long: `stfsim simulates the losses of a sell target forward (STF) contract
on BRL/USD, generates exchange-rate scenarios, and assesses hedging
positions against the optimal hedge.

It reproduces the Aracruz Celulose 2008 case: a US$15M contract struck
at 1.65 replayed along the observed 2008 real depreciation.

Use 'stfsim <command> --help' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true
			}

			eng, err := engine.New(app.Config, app.Logger)
			if err != nil {
				return err
			}
			app.Engine = eng
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.CloseStore()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stf-simulator)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	addCoreCommands(rootCmd, app)
	addSimulationCommands(rootCmd, app)
	addHedgeCommands(rootCmd, app)
	addCaseStudyCommands(rootCmd, app)
	addPresetCommands(rootCmd, app)
	addServeCommand(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("STF Simulator v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the simulator configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := config.ConfigPath(app.ConfigDir)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Input Limits")
	output.Printf("  Notional:        %s to %s\n", FormatMoney(cfg.Limits.NotionalMin), FormatMoney(cfg.Limits.NotionalMax))
	output.Printf("  Rates:           %.2f to %.2f BRL/USD\n", cfg.Limits.RateMin, cfg.Limits.RateMax)
	output.Printf("  Max Duration:    %d months\n", cfg.Limits.DurationMax)
	output.Printf("  Max Horizon:     %d months\n", cfg.Limits.HorizonMax)
	output.Printf("  Max Noise:       %.2f\n", cfg.Limits.NoiseMax)
	output.Printf("  Shock:           %.2f to %.2f\n", cfg.Limits.ShockMin, cfg.Limits.ShockMax)
	output.Println()

	output.Bold("Hedge Classification")
	output.Printf("  Tolerance:       %.2f\n", cfg.Hedge.Tolerance)
	output.Printf("  Speculation:     %.2f\n", cfg.Hedge.SpeculationThreshold)
	output.Printf("  Ratio Range:     [%.2f, %.2f]\n", cfg.Hedge.MinRatio, cfg.Hedge.MaxRatio)
	output.Printf("  Amount Bands:    %.2f / %.2f / %.2f\n", cfg.Hedge.UnderHedged, cfg.Hedge.Appropriate, cfg.Hedge.OverHedged)
	output.Println()

	output.Bold("Loss Profile")
	output.Printf("  Points:          %d\n", cfg.Profile.Points)
	output.Printf("  Strike Factors:  %.2f to %.2f (floor %.2f)\n", cfg.Profile.LowFactor, cfg.Profile.HighFactor, cfg.Profile.RateFloor)
	output.Println()

	output.Bold("Server & Storage")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Printf("  Mode:            %s\n", cfg.Server.Mode)
	output.Printf("  Presets DB:      %s\n", cfg.Storage.Path)
	output.Printf("  Log Level:       %s\n", cfg.Logging.Level)
	output.Printf("  Log File:        %v\n", cfg.Logging.File)
}
