package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stf-simulator/internal/engine"
	"stf-simulator/internal/models"
)

// addHedgeCommands adds the hedge ratio and exposure commands.
func addHedgeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newHedgeCmd(app))
	rootCmd.AddCommand(newExposureCmd(app))
}

func newHedgeCmd(app *App) *cobra.Command {
	var in models.HedgeInputs

	cmd := &cobra.Command{
		Use:   "hedge",
		Short: "Optimal hedge ratio and classification of the actual hedge",
		Long: `Compute the optimal hedge ratio h* = rho*sigma_e/sigma_h + mu_h/(lambda*sigma_h^2),
clip it to the configured range, and classify the actual hedge ratio as
under-hedged, appropriately hedged, over-hedged or speculative.

The risk aversion term only moves the optimum when --mu is non-zero.`,
		Example: `  stfsim hedge --vol 0.2 --corr 0.5 --lambda 2 --actual 1.0
  stfsim hedge --vol 0.25 --corr 0.9 --lambda 3 --actual 4.85 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			report, err := app.Engine.OptimizeHedge(cmd.Context(), in)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(report)
			}

			r := report.Result
			optimal := FormatRatio(r.OptimalRatio)
			if r.Clipped {
				optimal = fmt.Sprintf("%s (raw %s, clipped)", optimal, FormatRatio(r.RawRatio))
			}
			output.Box("Hedge Ratio", []string{
				fmt.Sprintf("Optimal Ratio:   %s", optimal),
				fmt.Sprintf("Actual Ratio:    %s", FormatRatio(r.ActualRatio)),
				fmt.Sprintf("Deviation:       %+.3f", r.Deviation),
				fmt.Sprintf("Stance:          %s", output.Stance(r.Stance)),
			})
			output.Dim("Tolerance +/-%.2f, speculative beyond +%.2f", report.Tolerance, report.SpeculationThreshold)
			if report.Note != "" {
				output.Dim("Note: %s", report.Note)
			}
			if r.Stance == models.StanceSpeculative {
				output.Warning("⚠ The position exceeds any hedging need and amounts to a currency bet")
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.ExposureVolatility, "vol", 0.2, "volatility of the exposure being hedged")
	cmd.Flags().Float64Var(&in.CashflowCorrelation, "corr", 0.5, "correlation between cash flows and the rate, in [-1, 1]")
	cmd.Flags().Float64Var(&in.RiskAversion, "lambda", 2.0, "risk aversion coefficient, > 0 (used only with --mu)")
	cmd.Flags().Float64Var(&in.ActualHedgeRatio, "actual", 0, "hedge ratio actually held")
	cmd.Flags().Float64Var(&in.HedgeVolatility, "hedge-vol", 0, "volatility of the hedge instrument (default: --vol)")
	cmd.Flags().Float64Var(&in.ExpectedHedgeReturn, "mu", 0, "expected return of the hedge instrument")
	return cmd
}

func newExposureCmd(app *App) *cobra.Command {
	var (
		profile models.ExposureProfile
		ebitM   float64
		actualM float64
		points  int
		step    int
	)

	cmd := &cobra.Command{
		Use:   "exposure",
		Short: "Bodnar-Marston optimal hedge amount and comparison with the actual hedge",
		Long: `Compute the exposure coefficient delta = h1 + (h1 - h2)(1/r - 1), where h1 is
the foreign share of revenue, h2 the foreign share of costs and r the
profit margin. The optimal hedge amount is delta x EBIT. Amounts are in
US$ millions.`,
		Example: `  stfsim exposure
  stfsim exposure --h1 0.95 --h2 0.25 --margin 0.25 --ebit 500 --actual 6300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			profile.EBIT = ebitM * 1e6
			report, err := app.Engine.AnalyzeExposure(cmd.Context(), engine.ExposureRequest{
				Profile:           profile,
				ActualHedgeAmount: actualM * 1e6,
				SensitivityPoints: points,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(report)
			}

			r := report.Result
			output.Box("Optimal Hedge (Bodnar-Marston)", []string{
				fmt.Sprintf("Exposure δ:       %.2f (%.2f%% of EBIT)", r.Delta, r.Delta*100),
				fmt.Sprintf("Optimal Amount:   %s", FormatMoney(r.OptimalAmount)),
				fmt.Sprintf("Actual Amount:    %s", FormatMoney(r.ActualAmount)),
				fmt.Sprintf("Actual/Optimal:   %s", FormatMultiple(r.ActualToOptimal)),
				fmt.Sprintf("Stance:           %s", output.Stance(r.Stance)),
			})
			output.Println()

			output.Bold("Sensitivity to Profit Margin")
			table := NewTable(output, "MARGIN", "DELTA")
			for _, i := range sampleEvery(len(report.Sensitivity), step) {
				p := report.Sensitivity[i]
				table.AddRow(fmt.Sprintf("%.1f%%", p.ProfitMargin*100), fmt.Sprintf("%.2f", p.Delta))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Float64Var(&profile.ForeignRevenueShare, "h1", 0.95, "foreign currency share of revenue, in [0, 1]")
	cmd.Flags().Float64Var(&profile.ForeignCostShare, "h2", 0.25, "foreign currency share of costs, in [0, 1]")
	cmd.Flags().Float64Var(&profile.ProfitMargin, "margin", 0.25, "profit margin EBIT/revenue, in (0, 1]")
	cmd.Flags().Float64Var(&ebitM, "ebit", 500, "EBIT in US$ millions")
	cmd.Flags().Float64Var(&actualM, "actual", 1000, "actual hedged amount in US$ millions")
	cmd.Flags().IntVar(&points, "points", 0, "sensitivity curve points (default from config)")
	cmd.Flags().IntVar(&step, "step", 10, "print every n-th sensitivity point")
	return cmd
}
