package hedge

import (
	"math"
	"testing"

	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
)

func newTestOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	o, err := NewOptimizer(DefaultPolicy())
	if err != nil {
		t.Fatalf("NewOptimizer: %v", err)
	}
	return o
}

func TestOptimalHedgeRatioExample(t *testing.T) {
	o := newTestOptimizer(t)
	res, err := o.OptimalHedgeRatio(models.HedgeInputs{
		ExposureVolatility:  0.2,
		CashflowCorrelation: 0.5,
		RiskAversion:        2.0,
		ActualHedgeRatio:    1.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	// σh = σe and μh = 0, so h* = ρ.
	if res.OptimalRatio != 0.5 || res.RawRatio != 0.5 || res.Clipped {
		t.Errorf("optimal = %v raw = %v clipped = %v, want 0.5 0.5 false", res.OptimalRatio, res.RawRatio, res.Clipped)
	}
	if res.Deviation != 0.5 {
		t.Errorf("deviation = %v, want 0.5", res.Deviation)
	}
	if res.Stance != models.StanceOverHedged {
		t.Errorf("stance = %v, want over-hedged", res.Stance)
	}
}

func TestSpeculativeTermUsesRiskAversion(t *testing.T) {
	in := models.HedgeInputs{
		ExposureVolatility:  0.2,
		CashflowCorrelation: 0.5,
		RiskAversion:        2.0,
		HedgeVolatility:     0.25,
		ExpectedHedgeReturn: -0.01,
	}
	got, err := RawRatio(in)
	if err != nil {
		t.Fatal(err)
	}
	want := 0.5*0.2/0.25 + (-0.01)/(2.0*0.25*0.25)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("RawRatio = %v, want %v", got, want)
	}

	in.RiskAversion = 20
	lessSpeculative, err := RawRatio(in)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lessSpeculative-0.4) >= math.Abs(got-0.4) {
		t.Error("higher risk aversion should pull the ratio towards the minimum-variance hedge")
	}
}

func TestRatioIsClipped(t *testing.T) {
	o := newTestOptimizer(t)
	res, err := o.OptimalHedgeRatio(models.HedgeInputs{
		ExposureVolatility:  0.2,
		CashflowCorrelation: -1,
		RiskAversion:        1,
		ActualHedgeRatio:    0.3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.OptimalRatio != 0 || res.RawRatio != -1 || !res.Clipped {
		t.Errorf("got %+v, want clipped to 0 from -1", res)
	}
}

func TestCorrelationBoundsAreInclusive(t *testing.T) {
	o := newTestOptimizer(t)
	for _, rho := range []float64{-1, 1} {
		if _, err := o.OptimalHedgeRatio(models.HedgeInputs{ExposureVolatility: 0.2, CashflowCorrelation: rho, RiskAversion: 1}); err != nil {
			t.Errorf("correlation %v must be accepted: %v", rho, err)
		}
	}
	for _, rho := range []float64{-1.0000001, 1.0000001, math.NaN()} {
		_, err := o.OptimalHedgeRatio(models.HedgeInputs{ExposureVolatility: 0.2, CashflowCorrelation: rho, RiskAversion: 1})
		ce, ok := errors.IsConfigError(err)
		if !ok || ce == nil || ce.Field != "cashflow_correlation" {
			t.Errorf("correlation %v: expected cashflow_correlation error, got %v", rho, err)
		}
	}
}

func TestRiskAversionMustBePositive(t *testing.T) {
	o := newTestOptimizer(t)
	for _, lambda := range []float64{0, -2} {
		_, err := o.OptimalHedgeRatio(models.HedgeInputs{ExposureVolatility: 0.2, CashflowCorrelation: 0.5, RiskAversion: lambda})
		ce, ok := errors.IsConfigError(err)
		if !ok || ce == nil || ce.Field != "risk_aversion_coefficient" {
			t.Errorf("risk aversion %v: expected config error, got %v", lambda, err)
		}
	}
}

func TestClassify(t *testing.T) {
	o := newTestOptimizer(t)
	testCases := []struct {
		deviation float64
		want      models.HedgeStance
	}{
		{-0.5, models.StanceUnderHedged},
		{-0.1, models.StanceAppropriate},
		{0, models.StanceAppropriate},
		{0.1, models.StanceAppropriate},
		{0.3, models.StanceOverHedged},
		{0.5, models.StanceOverHedged},
		{0.51, models.StanceSpeculative},
	}
	for _, tc := range testCases {
		if got := o.Classify(tc.deviation); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.deviation, got, tc.want)
		}
	}
}

func TestPolicyValidation(t *testing.T) {
	bad := DefaultPolicy()
	bad.SpeculationThreshold = 0.05
	if _, err := NewOptimizer(bad); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
	bad = DefaultPolicy()
	bad.MinRatio, bad.MaxRatio = 1, 1
	if _, err := NewOptimizer(bad); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}
