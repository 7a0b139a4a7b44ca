package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stf-simulator/internal/engine"
	"stf-simulator/internal/logging"
	"stf-simulator/internal/models"
	"stf-simulator/internal/store"
)

// addPresetCommands adds the preset library commands.
func addPresetCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets"},
		Short:   "Manage stored contract and scenario presets",
	}

	cmd.AddCommand(newPresetListCmd(app))
	cmd.AddCommand(newPresetShowCmd(app))
	cmd.AddCommand(newPresetSaveCmd(app))
	cmd.AddCommand(newPresetDeleteCmd(app))
	cmd.AddCommand(newPresetSeedCmd(app))
	cmd.AddCommand(newPresetRunCmd(app))

	rootCmd.AddCommand(cmd)
}

func newPresetListCmd(app *App) *cobra.Command {
	var (
		kind    string
		builtIn bool
		query   string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			presets, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}

			filter := store.PresetFilter{NameLike: query, Limit: limit}
			if kind != "" {
				filter.Kind = models.ParseScenarioKind(kind)
			}
			if cmd.Flags().Changed("built-in") {
				filter.BuiltIn = &builtIn
			}

			list, err := presets.ListPresets(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				if list == nil {
					list = []models.Preset{}
				}
				return output.JSON(list)
			}
			if len(list) == 0 {
				output.Info("No presets found")
				return nil
			}

			table := NewTable(output, "NAME", "SCENARIO", "NOTIONAL", "STRIKE", "HORIZON", "BUILT-IN")
			for _, p := range list {
				mark := ""
				if p.BuiltIn {
					mark = "yes"
				}
				table.AddRow(p.Name, p.Scenario.Kind.Label(), FormatMoney(p.Terms.Notional),
					FormatRate(p.Terms.StrikeRate), fmt.Sprintf("%dm", p.Scenario.HorizonMonths), mark)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by scenario kind")
	cmd.Flags().BoolVar(&builtIn, "built-in", false, "filter by built-in flag")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of presets")
	return cmd
}

func newPresetShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			presets, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			p, err := presets.GetPreset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(p)
			}

			s := p.Scenario
			lines := []string{
				fmt.Sprintf("Description:  %s", p.Description),
				fmt.Sprintf("Notional:     %s", FormatMoney(p.Terms.Notional)),
				fmt.Sprintf("Initial:      %s", FormatRate(p.Terms.InitialRate)),
				fmt.Sprintf("Strike:       %s", FormatRate(p.Terms.StrikeRate)),
				fmt.Sprintf("Duration:     %d months (%d elapsed)", p.Terms.DurationMonths, p.Terms.MonthsElapsed),
				fmt.Sprintf("Scenario:     %s over %d months", s.Kind.Label(), s.HorizonMonths),
			}
			if s.StartRate != 0 {
				lines = append(lines, fmt.Sprintf("Start Rate:   %s", FormatRate(s.StartRate)))
			}
			if s.EndRate != 0 {
				lines = append(lines, fmt.Sprintf("End Rate:     %s", FormatRate(s.EndRate)))
			}
			if s.Kind == models.ScenarioSuddenShock {
				lines = append(lines, fmt.Sprintf("Shock:        %s at month %d", FormatPercent(s.ShockMagnitude*100), s.ShockMonth))
			}
			if s.NoiseAmplitude != 0 {
				lines = append(lines, fmt.Sprintf("Noise:        %.3f (seed %d)", s.NoiseAmplitude, s.Seed))
			}
			lines = append(lines, fmt.Sprintf("Updated:      %s", p.UpdatedAt.Format("2006-01-02 15:04")))
			output.Box(p.Name, lines)
			return nil
		},
	}
}

func newPresetSaveCmd(app *App) *cobra.Command {
	var tf termsFlags
	var sf scenarioFlags
	var description string

	cmd := &cobra.Command{
		Use:   "save <name> <kind>",
		Short: "Save or update a preset",
		Example: `  stfsim preset save my-crisis crisis_2008 --notional 50 --strike 1.70 --end 2.50
  stfsim preset save shock-q2 sudden_shock --shock 0.35 --shock-month 4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			name := args[0]
			spec := sf.overlay(cmd, baseSpec(models.ParseScenarioKind(args[1])))
			terms := tf.terms()

			v := app.Engine.Validator()
			if err := v.ValidatePresetName(name); err != nil {
				return err
			}
			if err := v.ValidateTerms(terms); err != nil {
				return err
			}
			if err := v.ValidateScenario(spec); err != nil {
				return err
			}

			presets, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			p := &models.Preset{Name: name, Description: description, Terms: terms, Scenario: spec}
			if err := presets.SavePreset(cmd.Context(), p); err != nil {
				return err
			}
			logging.LogPreset(app.Logger, "save", name)

			if output.IsJSON() {
				return output.JSON(p)
			}
			output.Success("✓ Preset %s saved", name)
			return nil
		},
	}

	tf.register(cmd)
	sf.register(cmd)
	cmd.Flags().StringVar(&description, "description", "", "preset description")
	return cmd
}

func newPresetDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			presets, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			if err := presets.DeletePreset(cmd.Context(), args[0]); err != nil {
				return err
			}
			logging.LogPreset(app.Logger, "delete", args[0])

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Preset %s deleted", args[0])
			return nil
		},
	}
}

func newPresetSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Restore missing built-in presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			presets, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			n, err := presets.SeedDefaults(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]int{"seeded": n})
			}
			if n == 0 {
				output.Info("All built-in presets are present")
				return nil
			}
			output.Success("✓ Restored %d built-in preset(s)", n)
			return nil
		},
	}
}

func newPresetRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <name>",
		Short: "Run the scenario of a stored preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			presets, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			p, err := presets.GetPreset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report, err := app.Engine.RunScenario(cmd.Context(), engine.ScenarioRequest{
				Terms:    p.Terms,
				Scenario: p.Scenario,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(report)
			}
			renderScenario(output, report)
			return nil
		},
	}
}
