package engine

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"stf-simulator/internal/config"
	"stf-simulator/internal/errors"
	"stf-simulator/internal/logging"
	"stf-simulator/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(config.Default(), zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func exampleTerms() models.ContractTerms {
	return models.ContractTerms{
		Notional:       1_000_000,
		InitialRate:    2.0,
		StrikeRate:     1.8,
		DurationMonths: 12,
		MonthsElapsed:  6,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Hedge.MaxRatio = -1
	if _, err := New(cfg, zerolog.Nop()); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestEvaluatePayoff(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.EvaluatePayoff(context.Background(), PayoffRequest{
		Terms:       exampleTerms(),
		CurrentRate: 2.2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(report.Loss-200_000) > 1e-6 {
		t.Errorf("loss = %v, want 200000", report.Loss)
	}
	if report.MonthsRemaining != 6 {
		t.Errorf("months remaining = %d", report.MonthsRemaining)
	}
	wantPct := 2 * 6 * (2.2 - 1.8) * 100 / 2.2
	if math.Abs(report.LeveragedPercent-wantPct) > 1e-9 || !report.HighRisk {
		t.Errorf("leveraged percent = %v (high risk %v), want %v", report.LeveragedPercent, report.HighRisk, wantPct)
	}
	if report.Change.Direction != models.DirectionDepreciation {
		t.Errorf("direction = %s", report.Change.Direction)
	}
	if len(report.Profile) != 100 {
		t.Fatalf("profile points = %d", len(report.Profile))
	}
	first, last := report.Profile[0], report.Profile[len(report.Profile)-1]
	if math.Abs(first.Rate-2.2*0.7) > 1e-12 || math.Abs(last.Rate-2.2*1.3) > 1e-12 {
		t.Errorf("profile grid = %v..%v, want centred on the current rate", first.Rate, last.Rate)
	}
}

func TestEvaluatePayoffProfileFollowsCurrentRate(t *testing.T) {
	e := newTestEngine(t)
	for _, rate := range []float64{1.5, 2.0, 3.0} {
		report, err := e.EvaluatePayoff(context.Background(), PayoffRequest{Terms: exampleTerms(), CurrentRate: rate})
		if err != nil {
			t.Fatal(err)
		}
		first, last := report.Profile[0], report.Profile[len(report.Profile)-1]
		if first.Rate > rate || last.Rate < rate {
			t.Errorf("rate %v outside profile grid %v..%v", rate, first.Rate, last.Rate)
		}
	}
}

func TestEvaluatePayoffRejectsOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.EvaluatePayoff(context.Background(), PayoffRequest{Terms: exampleTerms(), CurrentRate: 4})
	ce, ok := errors.IsConfigError(err)
	if !ok || ce.Field != "current_rate" {
		t.Errorf("expected current_rate error, got %v", err)
	}
}

func TestProfileGridFloor(t *testing.T) {
	e := newTestEngine(t)
	grid := e.ProfileGrid(1.2)
	if grid[0] != 1.0 {
		t.Errorf("grid should start at the floor, got %v", grid[0])
	}
	if math.Abs(grid[len(grid)-1]-1.56) > 1e-12 {
		t.Errorf("grid end = %v", grid[len(grid)-1])
	}
}

func TestRunScenario(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.RunScenario(context.Background(), ScenarioRequest{
		Terms: exampleTerms(),
		Scenario: models.ScenarioSpec{
			Kind:          models.ScenarioGradualChange,
			StartRate:     1.8,
			EndRate:       2.4,
			HorizonMonths: 12,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Rates) != 13 || len(report.Losses) != 13 {
		t.Fatalf("series lengths = %d/%d, want 13", len(report.Rates), len(report.Losses))
	}
	// the twelve-month contract fixes on months 0..11
	if report.MaxLossMonth != 11 {
		t.Errorf("max month = %d, want 11", report.MaxLossMonth)
	}
	if report.Losses[12].MonthlyLoss != 0 {
		t.Errorf("month 12 settled %v after maturity", report.Losses[12].MonthlyLoss)
	}
	if report.FinalRate != 2.4 {
		t.Errorf("final rate = %v, want 2.4", report.FinalRate)
	}
	if math.Abs(report.TotalPercent-report.TotalLoss/1_000_000*100) > 1e-9 {
		t.Errorf("total percent = %v", report.TotalPercent)
	}
	if report.Label != "Gradual Change" || report.Description == "" {
		t.Errorf("missing labels: %+v", report)
	}
}

func TestRunScenarioStopsAtMaturity(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.RunScenario(context.Background(), ScenarioRequest{
		Terms: exampleTerms(),
		Scenario: models.ScenarioSpec{
			Kind:           models.ScenarioSuddenShock,
			StartRate:      2.0,
			ShockMagnitude: 0.1,
			ShockMonth:     1,
			HorizonMonths:  60,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Losses) != 61 {
		t.Fatalf("losses = %d, want 61", len(report.Losses))
	}
	var settlements int
	for _, p := range report.Losses {
		if p.MonthlyLoss > 0 {
			settlements++
		}
	}
	// months 1..11 close at 2.2 above the 1.8 strike
	if settlements != 11 {
		t.Errorf("settlements = %d, want 11", settlements)
	}
	if math.Abs(report.TotalLoss-11*200_000) > 0.01 {
		t.Errorf("total = %v, want 2200000", report.TotalLoss)
	}
	// months 0..5 are already settled: month 0 at 2.0, months 1..5 at 2.2
	if math.Abs(report.ElapsedLoss-5*200_000-100_000) > 0.01 {
		t.Errorf("elapsed loss = %v, want 1100000", report.ElapsedLoss)
	}
}

func TestRunScenarioResolvesDefaults(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.RunScenario(context.Background(), ScenarioRequest{
		Terms:    exampleTerms(),
		Scenario: models.ScenarioSpec{Kind: models.ScenarioTypicalPre2008, HorizonMonths: 12},
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Spec.StartRate != 2.2 || report.Spec.EndRate != 1.6 {
		t.Errorf("defaults not resolved: %+v", report.Spec)
	}
}

func TestRunScenarioUnknownKind(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.RunScenario(context.Background(), ScenarioRequest{
		Terms:    exampleTerms(),
		Scenario: models.ScenarioSpec{Kind: "sideways", HorizonMonths: 12},
	})
	if !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestOptimizeHedge(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.OptimizeHedge(context.Background(), models.HedgeInputs{
		ExposureVolatility:  0.2,
		CashflowCorrelation: 0.5,
		RiskAversion:        2.0,
		ActualHedgeRatio:    1.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Result.OptimalRatio != 0.5 {
		t.Errorf("optimal = %v, want 0.5", report.Result.OptimalRatio)
	}
	if report.Result.Deviation != 0.5 {
		t.Errorf("deviation = %v, want 0.5", report.Result.Deviation)
	}
	if report.Result.Stance != models.StanceOverHedged {
		t.Errorf("stance = %s", report.Result.Stance)
	}
	if report.Tolerance != 0.1 || report.SpeculationThreshold != 0.5 {
		t.Errorf("policy not reported: %+v", report)
	}
}

func TestOptimizeHedgeRiskAversionNote(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		name    string
		lambda  float64
		mu      float64
		optimal float64
		note    string
	}{
		{"no expected return, low aversion", 0.5, 0, 0.5, RiskAversionNote},
		{"no expected return, high aversion", 50, 0, 0.5, RiskAversionNote},
		{"expected return", 2, 0.02, 0.75, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := e.OptimizeHedge(context.Background(), models.HedgeInputs{
				ExposureVolatility:  0.2,
				CashflowCorrelation: 0.5,
				RiskAversion:        tt.lambda,
				ExpectedHedgeReturn: tt.mu,
				ActualHedgeRatio:    0.5,
			})
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(report.Result.OptimalRatio-tt.optimal) > 1e-12 {
				t.Errorf("optimal = %v, want %v", report.Result.OptimalRatio, tt.optimal)
			}
			if report.Note != tt.note {
				t.Errorf("note = %q, want %q", report.Note, tt.note)
			}
		})
	}
}

func TestOptimizeHedgeRejectsCorrelation(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.OptimizeHedge(context.Background(), models.HedgeInputs{
		ExposureVolatility:  0.2,
		CashflowCorrelation: 1.5,
		RiskAversion:        2.0,
	})
	ce, ok := errors.IsConfigError(err)
	if !ok || ce.Field != "cashflow_correlation" {
		t.Errorf("expected cashflow_correlation error, got %v", err)
	}
}

func TestAnalyzeExposure(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.AnalyzeExposure(context.Background(), ExposureRequest{
		Profile: models.ExposureProfile{
			ForeignRevenueShare: 0.95,
			ForeignCostShare:    0.25,
			ProfitMargin:        0.25,
			EBIT:                500_000_000,
		},
		ActualHedgeAmount: 1_000_000_000,
	})
	if err != nil {
		t.Fatal(err)
	}
	wantDelta := 0.95 + 0.7*3
	if math.Abs(report.Result.Delta-wantDelta) > 1e-12 {
		t.Errorf("delta = %v, want %v", report.Result.Delta, wantDelta)
	}
	if report.Result.Stance != models.StanceUnderHedged {
		t.Errorf("stance = %s", report.Result.Stance)
	}
	if len(report.Sensitivity) != 100 {
		t.Errorf("sensitivity = %d points", len(report.Sensitivity))
	}
}

func TestReplayCaseStudy(t *testing.T) {
	e := newTestEngine(t)
	report, err := e.ReplayCaseStudy(context.Background(), ReplayRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if report.MaxLossLabel != "Dec 2008" || report.FirstLossLabel != "Jan 2008" {
		t.Errorf("labels = %s / %s", report.MaxLossLabel, report.FirstLossLabel)
	}

	terms := exampleTerms()
	terms.DurationMonths = 48
	if _, err := e.ReplayCaseStudy(context.Background(), ReplayRequest{Terms: &terms}); !errors.Is(err, errors.ErrConfigInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestComputationLoggedWithContextLogger(t *testing.T) {
	e := newTestEngine(t)
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), zerolog.New(&buf))

	_, _ = e.OptimizeHedge(ctx, models.HedgeInputs{ExposureVolatility: 0.2, RiskAversion: -1})
	if !strings.Contains(buf.String(), `"operation":"hedge"`) {
		t.Errorf("expected computation log, got %q", buf.String())
	}
}

func TestConcurrentRequests(t *testing.T) {
	e := newTestEngine(t)
	spec := models.ScenarioSpec{
		Kind:           models.ScenarioCrisis2008,
		StartRate:      1.77,
		EndRate:        2.34,
		HorizonMonths:  12,
		NoiseAmplitude: 0.05,
		Seed:           42,
	}
	want, err := e.RunScenario(context.Background(), ScenarioRequest{Terms: exampleTerms(), Scenario: spec})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.RunScenario(context.Background(), ScenarioRequest{Terms: exampleTerms(), Scenario: spec})
			if err != nil || got.TotalLoss != want.TotalLoss {
				t.Errorf("concurrent run diverged: %v", err)
			}
		}()
	}
	wg.Wait()
}
