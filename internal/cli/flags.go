package cli

import (
	"github.com/spf13/cobra"

	"stf-simulator/internal/casestudy"
	"stf-simulator/internal/models"
)

// termsFlags binds the contract term flags shared by several commands.
// Notional is entered in US$ millions, as on the dashboard.
type termsFlags struct {
	notionalM float64
	initial   float64
	strike    float64
	duration  int
	elapsed   int
}

func (f *termsFlags) register(cmd *cobra.Command) {
	d := casestudy.DefaultTerms()
	cmd.Flags().Float64Var(&f.notionalM, "notional", d.Notional/1e6, "notional amount in US$ millions")
	cmd.Flags().Float64Var(&f.initial, "initial", d.InitialRate, "initial spot rate (BRL/USD)")
	cmd.Flags().Float64Var(&f.strike, "strike", d.StrikeRate, "strike rate (BRL/USD)")
	cmd.Flags().IntVar(&f.duration, "duration", d.DurationMonths, "contract duration in months")
	cmd.Flags().IntVar(&f.elapsed, "elapsed", 0, "months already elapsed")
}

func (f *termsFlags) terms() models.ContractTerms {
	return models.ContractTerms{
		Notional:       f.notionalM * 1e6,
		InitialRate:    f.initial,
		StrikeRate:     f.strike,
		DurationMonths: f.duration,
		MonthsElapsed:  f.elapsed,
	}
}

// overlay replaces the fields of base whose flags were set explicitly.
func (f *termsFlags) overlay(cmd *cobra.Command, base models.ContractTerms) models.ContractTerms {
	flags := cmd.Flags()
	if flags.Changed("notional") {
		base.Notional = f.notionalM * 1e6
	}
	if flags.Changed("initial") {
		base.InitialRate = f.initial
	}
	if flags.Changed("strike") {
		base.StrikeRate = f.strike
	}
	if flags.Changed("duration") {
		base.DurationMonths = f.duration
	}
	if flags.Changed("elapsed") {
		base.MonthsElapsed = f.elapsed
	}
	return base
}

// scenarioFlags binds the scenario generator flags.
type scenarioFlags struct {
	start      float64
	end        float64
	shock      float64
	shockMonth int
	horizon    int
	noise      float64
	seed       int64
	calmMonths int
	calmDrift  float64
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.start, "start", 0, "starting rate in BRL/USD (default depends on kind)")
	cmd.Flags().Float64Var(&f.end, "end", 0, "final rate for gradual, pre-2008 and crisis paths")
	cmd.Flags().Float64Var(&f.shock, "shock", 0, "relative shock size, 0.25 is +25% (default 0.25)")
	cmd.Flags().IntVar(&f.shockMonth, "shock-month", 0, "month of the shock (default: horizon/2)")
	cmd.Flags().IntVar(&f.horizon, "horizon", 0, "simulation horizon in months (default 12)")
	cmd.Flags().Float64Var(&f.noise, "noise", 0, "noise amplitude added to each month")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for the noise generator")
	cmd.Flags().IntVar(&f.calmMonths, "calm-months", 0, "crisis calm phase length, 0 means two-thirds of horizon")
	cmd.Flags().Float64Var(&f.calmDrift, "calm-drift", 0, "crisis calm phase monthly appreciation, 0 means 0.02")
}

// baseSpec is the dashboard's starting point for each scenario kind.
func baseSpec(kind models.ScenarioKind) models.ScenarioSpec {
	s := models.ScenarioSpec{Kind: kind, HorizonMonths: 12}
	switch kind {
	case models.ScenarioGradualChange:
		s.StartRate, s.EndRate = 1.60, 2.00
	case models.ScenarioSuddenShock:
		s.StartRate, s.ShockMagnitude = 1.60, 0.25
	case models.ScenarioCrisis2008:
		s.StartRate, s.EndRate = 1.77, 2.34
	}
	return s
}

// overlay replaces the fields of base whose flags were set explicitly.
func (f *scenarioFlags) overlay(cmd *cobra.Command, base models.ScenarioSpec) models.ScenarioSpec {
	flags := cmd.Flags()
	if flags.Changed("start") {
		base.StartRate = f.start
	}
	if flags.Changed("end") {
		base.EndRate = f.end
	}
	if flags.Changed("shock") {
		base.ShockMagnitude = f.shock
	}
	if flags.Changed("shock-month") {
		base.ShockMonth = f.shockMonth
	}
	if flags.Changed("horizon") {
		base.HorizonMonths = f.horizon
	}
	if flags.Changed("noise") {
		base.NoiseAmplitude = f.noise
	}
	if flags.Changed("seed") {
		base.Seed = f.seed
	}
	if flags.Changed("calm-months") {
		base.CalmMonths = f.calmMonths
	}
	if flags.Changed("calm-drift") {
		base.CalmDrift = f.calmDrift
	}
	return base
}
