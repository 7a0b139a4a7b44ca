package validation

import (
	"math"
	"testing"

	"stf-simulator/internal/config"
	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
)

func newValidator() *Validator {
	return NewValidator(config.Default().Limits)
}

func validTerms() models.ContractTerms {
	return models.ContractTerms{
		Notional:       1_000_000,
		InitialRate:    2.0,
		StrikeRate:     1.8,
		DurationMonths: 12,
		MonthsElapsed:  6,
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	ce, ok := errors.IsConfigError(err)
	if !ok || ce == nil {
		t.Fatalf("expected config error, got %v", err)
	}
	return ce.Field
}

func TestValidateTerms(t *testing.T) {
	v := newValidator()
	if err := v.ValidateTerms(validTerms()); err != nil {
		t.Fatalf("valid terms rejected: %v", err)
	}

	testCases := []struct {
		name  string
		mut   func(*models.ContractTerms)
		field string
	}{
		{"negative notional", func(c *models.ContractTerms) { c.Notional = -1 }, "notional"},
		{"huge notional", func(c *models.ContractTerms) { c.Notional = 6e9 }, "notional"},
		{"rate below widget", func(c *models.ContractTerms) { c.InitialRate = 0.5 }, "initial_rate"},
		{"NaN strike", func(c *models.ContractTerms) { c.StrikeRate = math.NaN() }, "strike_rate"},
		{"duration too long", func(c *models.ContractTerms) { c.DurationMonths = 24 }, "duration_months"},
		{"elapsed past end", func(c *models.ContractTerms) { c.MonthsElapsed = 13 }, "months_elapsed"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			terms := validTerms()
			tc.mut(&terms)
			if got := fieldOf(t, v.ValidateTerms(terms)); got != tc.field {
				t.Errorf("field = %s, want %s", got, tc.field)
			}
		})
	}
}

func TestValidateScenario(t *testing.T) {
	v := newValidator()

	ok := []models.ScenarioSpec{
		{Kind: models.ScenarioGradualChange, StartRate: 1.6, EndRate: 2.4, HorizonMonths: 12},
		{Kind: models.ScenarioSuddenShock, StartRate: 1.6, ShockMagnitude: 0.4, HorizonMonths: 12},
		{Kind: models.ScenarioTypicalPre2008, HorizonMonths: 12},
		{Kind: models.ScenarioCrisis2008, StartRate: 1.77, EndRate: 2.34, HorizonMonths: 12, NoiseAmplitude: 0.01, Seed: 7},
	}
	for _, s := range ok {
		if err := v.ValidateScenario(s); err != nil {
			t.Errorf("%s rejected: %v", s.Kind, err)
		}
	}

	testCases := []struct {
		name  string
		spec  models.ScenarioSpec
		field string
	}{
		{"unknown kind", models.ScenarioSpec{Kind: "sideways", HorizonMonths: 12}, "kind"},
		{"zero horizon", models.ScenarioSpec{Kind: models.ScenarioGradualChange, StartRate: 2, EndRate: 2}, "horizon_months"},
		{"horizon too long", models.ScenarioSpec{Kind: models.ScenarioGradualChange, StartRate: 2, EndRate: 2, HorizonMonths: 61}, "horizon_months"},
		{"noise too large", models.ScenarioSpec{Kind: models.ScenarioGradualChange, StartRate: 2, EndRate: 2, HorizonMonths: 12, NoiseAmplitude: 0.3}, "noise_amplitude"},
		{"missing end rate", models.ScenarioSpec{Kind: models.ScenarioCrisis2008, StartRate: 2, HorizonMonths: 12}, "end_rate"},
		{"shock too large", models.ScenarioSpec{Kind: models.ScenarioSuddenShock, StartRate: 2, ShockMagnitude: 2, HorizonMonths: 12}, "shock_magnitude"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fieldOf(t, v.ValidateScenario(tc.spec)); got != tc.field {
				t.Errorf("field = %s, want %s", got, tc.field)
			}
		})
	}
}

func TestValidateHedge(t *testing.T) {
	v := newValidator()
	if err := v.ValidateHedgeInputs(models.HedgeInputs{RiskAversion: 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := fieldOf(t, v.ValidateHedgeInputs(models.HedgeInputs{RiskAversion: 1000})); got != "risk_aversion_coefficient" {
		t.Errorf("field = %s", got)
	}
	if got := fieldOf(t, v.ValidateHedgeAmount(-5)); got != "actual_hedge_amount" {
		t.Errorf("field = %s", got)
	}
	if got := fieldOf(t, v.ValidateSensitivityPoints(1)); got != "points" {
		t.Errorf("field = %s", got)
	}
}

func TestValidatePresetName(t *testing.T) {
	v := newValidator()
	for _, name := range []string{"aracruz-2008", "Base case", "v1.2_test"} {
		if err := v.ValidatePresetName(name); err != nil {
			t.Errorf("%q rejected: %v", name, err)
		}
	}
	for _, name := range []string{"", "  ", "-leading", "semi;colon", "a/b"} {
		if err := v.ValidatePresetName(name); !errors.Is(err, errors.ErrConfigInvalid) {
			t.Errorf("%q accepted", name)
		}
	}
}
