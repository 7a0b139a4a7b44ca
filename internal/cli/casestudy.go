package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stf-simulator/internal/casestudy"
	"stf-simulator/internal/engine"
)

// addCaseStudyCommands adds the Aracruz case study commands.
func addCaseStudyCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "casestudy",
		Aliases: []string{"aracruz"},
		Short:   "Aracruz Celulose 2008 case study",
	}
	cmd.AddCommand(newCaseStudyShowCmd(app))
	cmd.AddCommand(newCaseStudyReplayCmd(app))
	rootCmd.AddCommand(cmd)
}

func newCaseStudyShowCmd(app *App) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the reference tables",
		Long:  "Show the case study tables. Sections: headline, metrics, exposure, market, timeline, all.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			data := app.Engine.CaseStudy()
			if output.IsJSON() {
				return output.JSON(data)
			}

			render := map[string]func(*Output, casestudy.Dataset){
				"headline": renderHeadline,
				"metrics":  renderMetrics,
				"exposure": renderExposure,
				"market":   renderMarket,
				"timeline": renderTimeline,
			}
			if section == "all" {
				for _, name := range []string{"headline", "metrics", "exposure", "market", "timeline"} {
					render[name](output, data)
					output.Println()
				}
				return nil
			}
			fn, ok := render[section]
			if !ok {
				return fmt.Errorf("unknown section %q", section)
			}
			fn(output, data)
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "all", "section to show")
	return cmd
}

func renderHeadline(output *Output, data casestudy.Dataset) {
	h := data.Headline
	output.Box("Aracruz Celulose, 2008", []string{
		fmt.Sprintf("Derivative Loss:   %s", FormatMoney(h.TotalLoss)),
		fmt.Sprintf("EBIT 2007:         %s", FormatMoney(h.EBIT2007)),
		fmt.Sprintf("Market Cap (Jul):  %s", FormatMoney(h.MarketCapJul2008)),
		fmt.Sprintf("Actual Hedge:      %s", FormatMoney(h.ActualHedge)),
		fmt.Sprintf("Optimal Hedge:     %s", FormatMoney(h.OptimalHedge)),
		fmt.Sprintf("Typical Strike:    %s", FormatRate(h.TypicalStrike)),
	})
}

func renderMetrics(output *Output, data casestudy.Dataset) {
	output.Bold("Financial Metrics (US$ millions)")
	table := NewTable(output, "YEAR", "EBIT", "MARGIN")
	for _, m := range data.Metrics {
		year := m.Year
		if m.PartialPeriod {
			year += "*"
		}
		table.AddRow(year, fmt.Sprintf("%.0f", m.EBIT), fmt.Sprintf("%.1f%%", m.ProfitMargin))
	}
	table.Render()
}

func renderExposure(output *Output, data casestudy.Dataset) {
	output.Bold("Derivative Exposure (US$ millions)")
	table := NewTable(output, "QUARTER", "LIABILITIES", "ASSETS", "EXCHANGE", "STF", "EXOTIC SWAP", "OTHER OTC", "EFFECTIVE")
	for _, q := range data.Exposure {
		table.AddRow(q.Quarter,
			fmt.Sprintf("%.0f", q.Liabilities),
			fmt.Sprintf("%.0f", q.Assets),
			fmt.Sprintf("%.0f", q.ExchangeTraded),
			fmt.Sprintf("%.0f", q.SellTargetForward),
			fmt.Sprintf("%.0f", q.ExoticSwap),
			fmt.Sprintf("%.0f", q.OtherOTC),
			fmt.Sprintf("%.0f", q.EffectiveHedge),
		)
	}
	table.Render()

	output.Println()
	output.Bold("Q3 2008 Breakdown")
	for _, b := range data.Breakdown {
		output.Printf("  %s %.0f\n", PadRight(b.Instrument, 24), b.Amount)
	}
}

func renderMarket(output *Output, data casestudy.Dataset) {
	output.Bold("2008 Market Path")
	table := NewTable(output, "MONTH", "BRL/USD", "STOCK (BRL)", "")
	for _, m := range data.Market {
		table.AddRow(m.Month, FormatRate(m.Rate), fmt.Sprintf("%.2f", m.StockPrice), m.Annotation)
	}
	table.Render()
}

func renderTimeline(output *Output, data casestudy.Dataset) {
	output.Bold("Timeline")
	table := NewTable(output, "FROM", "TO", "CATEGORY", "EVENT")
	for _, e := range data.Events {
		table.AddRow(e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"), string(e.Category), e.Description)
	}
	table.Render()
}

func newCaseStudyReplayCmd(app *App) *cobra.Command {
	var tf termsFlags

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a contract along the observed 2008 BRL/USD path",
		Example: `  stfsim casestudy replay
  stfsim casestudy replay --notional 100 --strike 1.75`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			terms := tf.terms()
			report, err := app.Engine.ReplayCaseStudy(cmd.Context(), engine.ReplayRequest{Terms: &terms})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(report)
			}

			output.Bold("Replay: %s at strike %s", FormatMoney(terms.Notional), FormatRate(terms.StrikeRate))
			output.Println()
			table := NewTable(output, "MONTH", "BRL/USD", "MONTHLY LOSS", "CUMULATIVE")
			for _, p := range report.Losses {
				table.AddRow(casestudy.MonthLabel(p.Month), FormatRate(p.Rate), output.Loss(p.MonthlyLoss), FormatMoney(p.CumulativeLoss))
			}
			table.Render()
			output.Println()

			output.Printf("  Total Loss:        %s\n", output.Loss(report.TotalLoss))
			output.Printf("  Max Monthly Loss:  %s (%s)\n", output.Loss(report.MaxMonthlyLoss), report.MaxLossLabel)
			if report.FirstLossMonth < 0 {
				output.Success("✓ The rate never closed above the strike in 2008")
			} else {
				output.Warning("First loss in %s", report.FirstLossLabel)
			}
			return nil
		},
	}

	tf.register(cmd)
	return cmd
}
