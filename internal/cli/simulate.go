package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stf-simulator/internal/engine"
	"stf-simulator/internal/models"
)

// addSimulationCommands adds the payoff, profile and scenario commands.
func addSimulationCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPayoffCmd(app))
	rootCmd.AddCommand(newProfileCmd(app))
	rootCmd.AddCommand(newScenarioCmd(app))
}

func newPayoffCmd(app *App) *cobra.Command {
	var tf termsFlags
	var rate float64

	cmd := &cobra.Command{
		Use:   "payoff",
		Short: "Loss of the contract at a single exchange rate",
		Long: `Compute the loss of a sell target forward at the given BRL/USD rate.

The loss is notional x max(0, rate - strike) / initial. The leveraged
figure doubles the exposure over the remaining months.`,
		Example: `  stfsim payoff --rate 2.0
  stfsim payoff --notional 15 --initial 1.60 --strike 1.65 --rate 2.34 --elapsed 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			report, err := app.Engine.EvaluatePayoff(cmd.Context(), engine.PayoffRequest{
				Terms:       tf.terms(),
				CurrentRate: rate,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(report)
			}

			direction := "unchanged"
			switch report.Change.Direction {
			case models.DirectionDepreciation:
				direction = "BRL depreciation"
			case models.DirectionAppreciation:
				direction = "BRL appreciation"
			}

			output.Box("Sell Target Forward", []string{
				fmt.Sprintf("Notional:          %s", FormatMoney(report.Terms.Notional)),
				fmt.Sprintf("Initial / Strike:  %s / %s", FormatRate(report.Terms.InitialRate), FormatRate(report.Terms.StrikeRate)),
				fmt.Sprintf("Current Rate:      %s (%s, %s)", FormatRate(report.CurrentRate), FormatPercent(report.Change.Percent), direction),
				fmt.Sprintf("Months Remaining:  %d", report.MonthsRemaining),
				fmt.Sprintf("Loss:              %s", output.Loss(report.Loss)),
				fmt.Sprintf("Leveraged Loss:    %s (%.2f%% of notional)", output.Loss(report.LeveragedLoss), report.LeveragedPercent),
			})
			if report.HighRisk {
				output.Println()
				output.Warning("⚠ High risk: leveraged loss exceeds 50%% of notional")
			}
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().Float64Var(&rate, "rate", 0, "current BRL/USD rate")
	cmd.MarkFlagRequired("rate")
	return cmd
}

func newProfileCmd(app *App) *cobra.Command {
	var tf termsFlags
	var step int
	var rate float64

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Loss profile over a grid of rates around the current rate",
		Example: `  stfsim profile
  stfsim profile --rate 2.34 --step 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			terms := tf.terms()
			if !cmd.Flags().Changed("rate") {
				rate = terms.StrikeRate
			}
			report, err := app.Engine.EvaluatePayoff(cmd.Context(), engine.PayoffRequest{
				Terms:       terms,
				CurrentRate: rate,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(report.Profile)
			}

			var maxLoss float64
			for _, p := range report.Profile {
				if p.Loss > maxLoss {
					maxLoss = p.Loss
				}
			}

			output.Bold("Loss Profile around %s (strike %s)", FormatRate(rate), FormatRate(terms.StrikeRate))
			output.Println()
			table := NewTable(output, "RATE", "LOSS", "LEVERAGED", "LEV %", "")
			for _, i := range sampleEvery(len(report.Profile), step) {
				p := report.Profile[i]
				table.AddRow(
					FormatRate(p.Rate),
					output.Loss(p.Loss),
					output.Loss(p.LeveragedLoss),
					fmt.Sprintf("%.2f%%", p.LeveragedPercent),
					Bar(p.Loss, maxLoss, 30),
				)
			}
			table.Render()
			return nil
		},
	}

	tf.register(cmd)
	cmd.Flags().IntVar(&step, "step", 5, "print every n-th grid point")
	cmd.Flags().Float64Var(&rate, "rate", 0, "rate the grid is centred on (default: the strike)")
	return cmd
}

func newScenarioCmd(app *App) *cobra.Command {
	var tf termsFlags
	var sf scenarioFlags
	var presetName string

	cmd := &cobra.Command{
		Use:   "scenario [kind]",
		Short: "Simulate contract losses along a generated rate path",
		Long: `Generate a BRL/USD path and accumulate the monthly contract losses.

Kinds: gradual_change, sudden_shock, typical_pre_2008, crisis_2008.
With --preset the stored contract and scenario are used and any flag
given explicitly overrides the stored value.`,
		Example: `  stfsim scenario crisis_2008
  stfsim scenario sudden_shock --shock 0.4 --shock-month 3
  stfsim scenario gradual --start 1.6 --end 2.4 --noise 0.02 --seed 7
  stfsim scenario --preset aracruz-2008`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			var terms models.ContractTerms
			var spec models.ScenarioSpec
			switch {
			case presetName != "":
				presets, err := app.Store(cmd.Context())
				if err != nil {
					return err
				}
				preset, err := presets.GetPreset(cmd.Context(), presetName)
				if err != nil {
					return err
				}
				terms = tf.overlay(cmd, preset.Terms)
				spec = preset.Scenario
				if len(args) == 1 {
					spec.Kind = models.ParseScenarioKind(args[0])
				}
				spec = sf.overlay(cmd, spec)
			case len(args) == 1:
				terms = tf.terms()
				spec = sf.overlay(cmd, baseSpec(models.ParseScenarioKind(args[0])))
			default:
				return fmt.Errorf("scenario kind or --preset required")
			}

			report, err := app.Engine.RunScenario(cmd.Context(), engine.ScenarioRequest{
				Terms:    terms,
				Scenario: spec,
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

	tf.register(cmd)
	sf.register(cmd)
	cmd.Flags().StringVar(&presetName, "preset", "", "run a stored preset")
	return cmd
}

func renderScenario(output *Output, report *engine.ScenarioReport) {
	output.Bold("%s", report.Label)
	output.Dim("%s", report.Description)
	output.Println()

	table := NewTable(output, "MONTH", "RATE", "MONTHLY LOSS", "CUMULATIVE")
	for _, p := range report.Losses {
		table.AddRow(
			fmt.Sprintf("%d", p.Month),
			FormatRate(p.Rate),
			output.Loss(p.MonthlyLoss),
			FormatMoney(p.CumulativeLoss),
		)
	}
	table.Render()
	output.Println()

	output.Printf("  Final Rate:        %s\n", FormatRate(report.FinalRate))
	output.Printf("  Total Loss:        %s (%.2f%% of notional)\n", output.Loss(report.TotalLoss), report.TotalPercent)
	if report.ElapsedLoss > 0 {
		output.Printf("  Already Settled:   %s\n", output.Loss(report.ElapsedLoss))
	}
	output.Printf("  Max Monthly Loss:  %s in month %d\n", output.Loss(report.MaxMonthlyLoss), report.MaxLossMonth)
	if report.TotalLoss == 0 {
		output.Success("  ✓ Rate never closed above the strike")
	}
}
