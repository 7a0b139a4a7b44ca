// Package engine answers dashboard requests: each request carries the full
// parameter set, is validated against the configured limits, computed and
// returned as a render payload of scalars and ordered series.
package engine

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"stf-simulator/internal/casestudy"
	"stf-simulator/internal/config"
	"stf-simulator/internal/hedge"
	"stf-simulator/internal/logging"
	"stf-simulator/internal/models"
	"stf-simulator/internal/payoff"
	"stf-simulator/internal/scenario"
	"stf-simulator/internal/validation"
	"stf-simulator/pkg/utils"
)

// Engine is stateless apart from its configuration and is safe for
// concurrent use.
type Engine struct {
	validator *validation.Validator
	optimizer *hedge.Optimizer
	bands     hedge.AmountBands
	profile   config.ProfileConfig
	logger    zerolog.Logger
}

// New creates an engine from the configuration.
func New(cfg *config.Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	optimizer, err := hedge.NewOptimizer(hedge.Policy{
		Tolerance:            cfg.Hedge.Tolerance,
		SpeculationThreshold: cfg.Hedge.SpeculationThreshold,
		MinRatio:             cfg.Hedge.MinRatio,
		MaxRatio:             cfg.Hedge.MaxRatio,
	})
	if err != nil {
		return nil, err
	}

	bands := hedge.AmountBands{
		Under:       cfg.Hedge.UnderHedged,
		Appropriate: cfg.Hedge.Appropriate,
		Over:        cfg.Hedge.OverHedged,
	}
	if err := bands.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		validator: validation.NewValidator(cfg.Limits),
		optimizer: optimizer,
		bands:     bands,
		profile:   cfg.Profile,
		logger:    logger,
	}, nil
}

// Validator returns the engine's input validator.
func (e *Engine) Validator() *validation.Validator {
	return e.validator
}

// PayoffRequest evaluates a contract at one market rate.
type PayoffRequest struct {
	Terms       models.ContractTerms `json:"terms"`
	CurrentRate float64              `json:"current_rate"`
}

// PayoffReport is the payoff calculator render payload.
type PayoffReport struct {
	Terms            models.ContractTerms  `json:"terms"`
	CurrentRate      float64               `json:"current_rate"`
	MonthsRemaining  int                   `json:"months_remaining"`
	Loss             float64               `json:"loss"`
	LeveragedLoss    float64               `json:"leveraged_loss"`
	LeveragedPercent float64               `json:"leveraged_percent"`
	HighRisk         bool                  `json:"high_risk"`
	Change           models.RateChange     `json:"change"`
	Profile          []models.ProfilePoint `json:"profile"`
}

// EvaluatePayoff computes the settlement loss, the leveraged paper figures
// and the loss profile around the current rate.
func (e *Engine) EvaluatePayoff(ctx context.Context, req PayoffRequest) (report *PayoffReport, err error) {
	defer e.track(ctx, "payoff", time.Now(), &err)

	if err := e.validator.ValidateTerms(req.Terms); err != nil {
		return nil, err
	}
	if err := e.validator.ValidateRate("current_rate", req.CurrentRate); err != nil {
		return nil, err
	}

	loss, err := payoff.Loss(req.Terms, req.CurrentRate)
	if err != nil {
		return nil, err
	}
	leveraged, err := payoff.LeveragedLoss(req.Terms, req.CurrentRate)
	if err != nil {
		return nil, err
	}
	pct, err := payoff.LeveragedPercent(req.Terms, req.CurrentRate)
	if err != nil {
		return nil, err
	}
	change, err := payoff.Change(req.Terms, req.CurrentRate)
	if err != nil {
		return nil, err
	}
	profile, err := payoff.Profile(req.Terms, e.ProfileGrid(req.CurrentRate))
	if err != nil {
		return nil, err
	}

	return &PayoffReport{
		Terms:            req.Terms,
		CurrentRate:      req.CurrentRate,
		MonthsRemaining:  req.Terms.MonthsRemaining(),
		Loss:             loss,
		LeveragedLoss:    leveraged,
		LeveragedPercent: pct,
		HighRisk:         payoff.IsHighRisk(pct),
		Change:           change,
		Profile:          profile,
	}, nil
}

// ProfileGrid returns the loss profile rates around center:
// max(floor, low·center) to high·center.
func (e *Engine) ProfileGrid(center float64) []float64 {
	low := math.Max(e.profile.RateFloor, e.profile.LowFactor*center)
	high := e.profile.HighFactor * center
	if high <= low {
		high = low + center*(e.profile.HighFactor-e.profile.LowFactor)
	}
	return utils.Linspace(low, high, e.profile.Points)
}

// ScenarioRequest runs a contract along a generated rate path.
type ScenarioRequest struct {
	Terms    models.ContractTerms `json:"terms"`
	Scenario models.ScenarioSpec  `json:"scenario"`
}

// ScenarioReport is the scenario analysis render payload. The headline
// amounts are rounded to cents; the series carry exact values.
type ScenarioReport struct {
	Spec        models.ScenarioSpec `json:"spec"`
	Label       string              `json:"label"`
	Description string              `json:"description"`
	Rates       models.RateSeries   `json:"rates"`
	Losses      models.LossSeries   `json:"losses"`
	FinalRate   float64             `json:"final_rate"`
	TotalLoss   float64             `json:"total_loss"`
	// ElapsedLoss is the amount already settled in the months before
	// MonthsElapsed.
	ElapsedLoss    float64 `json:"elapsed_loss"`
	TotalPercent   float64 `json:"total_percent_of_notional"`
	MaxMonthlyLoss float64 `json:"max_monthly_loss"`
	MaxLossMonth   int     `json:"max_loss_month"`
}

// RunScenario generates the rate path and accumulates the contract loss
// along it.
func (e *Engine) RunScenario(ctx context.Context, req ScenarioRequest) (report *ScenarioReport, err error) {
	defer e.track(ctx, "scenario", time.Now(), &err)

	if err := e.validator.ValidateTerms(req.Terms); err != nil {
		return nil, err
	}
	if err := e.validator.ValidateScenario(req.Scenario); err != nil {
		return nil, err
	}

	resolved, err := scenario.Resolve(req.Scenario)
	if err != nil {
		return nil, err
	}
	rates, err := scenario.Generate(resolved)
	if err != nil {
		return nil, err
	}
	losses, err := payoff.PathLoss(req.Terms, rates)
	if err != nil {
		return nil, err
	}

	elapsed, err := payoff.AccumulatedLoss(req.Terms, rates, req.Terms.MonthsElapsed-1)
	if err != nil {
		return nil, err
	}
	final, _ := rates.Last()

	total := utils.RoundCents(losses.Total())
	var pct float64
	if req.Terms.Notional > 0 {
		pct = total / req.Terms.Notional * 100
	}
	maxLoss, maxMonth := losses.Max()

	return &ScenarioReport{
		Spec:           resolved,
		Label:          resolved.Kind.Label(),
		Description:    scenario.Description(resolved.Kind),
		Rates:          rates,
		Losses:         losses,
		FinalRate:      final.Rate,
		TotalLoss:      total,
		ElapsedLoss:    utils.RoundCents(elapsed),
		TotalPercent:   pct,
		MaxMonthlyLoss: utils.RoundCents(maxLoss),
		MaxLossMonth:   maxMonth,
	}, nil
}

// HedgeReport is the hedge optimizer render payload.
type HedgeReport struct {
	Inputs               models.HedgeInputs `json:"inputs"`
	Result               models.HedgeResult `json:"result"`
	StanceLabel          string             `json:"stance_label"`
	Tolerance            float64            `json:"tolerance"`
	SpeculationThreshold float64            `json:"speculation_threshold"`
	// Note explains which inputs did not affect the optimum.
	Note string `json:"note,omitempty"`
}

// RiskAversionNote is set on a HedgeReport when the expected hedge return
// is zero and h* reduces to the minimum-variance ratio.
const RiskAversionNote = "risk aversion only affects the optimum when expected_hedge_return is non-zero; h* is the minimum-variance ratio"

// OptimizeHedge computes the optimal hedge ratio and classifies the actual
// ratio against it.
func (e *Engine) OptimizeHedge(ctx context.Context, in models.HedgeInputs) (report *HedgeReport, err error) {
	defer e.track(ctx, "hedge", time.Now(), &err)

	if err := e.validator.ValidateHedgeInputs(in); err != nil {
		return nil, err
	}
	res, err := e.optimizer.OptimalHedgeRatio(in)
	if err != nil {
		return nil, err
	}

	policy := e.optimizer.Policy()
	return &HedgeReport{
		Inputs:               in,
		Result:               res,
		StanceLabel:          res.Stance.Label(),
		Tolerance:            policy.Tolerance,
		SpeculationThreshold: policy.SpeculationThreshold,
		Note:                 hedgeNote(in),
	}, nil
}

func hedgeNote(in models.HedgeInputs) string {
	if in.ExpectedHedgeReturn == 0 {
		return RiskAversionNote
	}
	return ""
}

// ExposureRequest compares an actual hedge amount with the Bodnar-Marston
// optimum.
type ExposureRequest struct {
	Profile           models.ExposureProfile `json:"profile"`
	ActualHedgeAmount float64                `json:"actual_hedge_amount"`
	// SensitivityPoints defaults to the configured count when zero.
	SensitivityPoints int `json:"sensitivity_points,omitempty"`
}

// ExposureReport is the exposure analysis render payload.
type ExposureReport struct {
	Profile     models.ExposureProfile    `json:"profile"`
	Result      models.ExposureResult     `json:"result"`
	StanceLabel string                    `json:"stance_label"`
	Sensitivity []models.SensitivityPoint `json:"sensitivity"`
}

// AnalyzeExposure computes δ, the optimal hedge amount, the stance of the
// actual amount and the profit margin sensitivity curve.
func (e *Engine) AnalyzeExposure(ctx context.Context, req ExposureRequest) (report *ExposureReport, err error) {
	defer e.track(ctx, "exposure", time.Now(), &err)

	if err := e.validator.ValidateHedgeAmount(req.ActualHedgeAmount); err != nil {
		return nil, err
	}
	points := req.SensitivityPoints
	if points == 0 {
		points = e.validator.Limits().SensitivityPoints
	}
	if err := e.validator.ValidateSensitivityPoints(points); err != nil {
		return nil, err
	}

	res, err := hedge.CompareHedgeAmount(req.Profile, req.ActualHedgeAmount, e.bands)
	if err != nil {
		return nil, err
	}
	curve, err := hedge.MarginSensitivity(req.Profile, points)
	if err != nil {
		return nil, err
	}

	return &ExposureReport{
		Profile:     req.Profile,
		Result:      res,
		StanceLabel: res.Stance.Label(),
		Sensitivity: curve,
	}, nil
}

// ReplayRequest replays a contract along the 2008 path. Nil terms use the
// dashboard defaults.
type ReplayRequest struct {
	Terms *models.ContractTerms `json:"terms,omitempty"`
}

// ReplayReport is the case study replay render payload.
type ReplayReport struct {
	casestudy.ReplayResult
	MaxLossLabel   string `json:"max_loss_label"`
	FirstLossLabel string `json:"first_loss_label,omitempty"`
}

// ReplayCaseStudy evaluates the contract along the observed 2008 rates.
func (e *Engine) ReplayCaseStudy(ctx context.Context, req ReplayRequest) (report *ReplayReport, err error) {
	defer e.track(ctx, "casestudy_replay", time.Now(), &err)

	terms := casestudy.DefaultTerms()
	if req.Terms != nil {
		terms = *req.Terms
	}
	if err := e.validator.ValidateTerms(terms); err != nil {
		return nil, err
	}

	res, err := casestudy.Replay(terms)
	if err != nil {
		return nil, err
	}
	return &ReplayReport{
		ReplayResult:   res,
		MaxLossLabel:   casestudy.MonthLabel(res.MaxLossMonth),
		FirstLossLabel: casestudy.MonthLabel(res.FirstLossMonth),
	}, nil
}

// CaseStudy returns the static reference dataset.
func (e *Engine) CaseStudy() casestudy.Dataset {
	return casestudy.Load()
}

// track logs the outcome of an operation with the request-scoped logger
// when one is present.
func (e *Engine) track(ctx context.Context, operation string, start time.Time, err *error) {
	logger := e.logger
	if ctxLogger := logging.FromContext(ctx); ctxLogger.GetLevel() != zerolog.Disabled {
		logger = ctxLogger
	}
	logging.LogComputation(logger, operation, time.Since(start), *err)
}
