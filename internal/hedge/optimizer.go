// Package hedge computes optimal hedge ratios and classifies how far an
// actual position sits from them.
//
// The ratio follows the mean-variance expected-utility hedge:
//
//	h* = ρ·σe/σh + μh/(λ·σh²)
//
// The first term is the minimum-variance hedge, the second the speculative
// demand of an investor with risk aversion λ facing drift μh on the hedge
// instrument. With the defaults σh = σe and μh = 0 the ratio reduces to ρ.
// Results are clipped to a configurable band, [0, 1] by default, and the raw
// value is reported alongside.
package hedge

import (
	"math"

	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
)

// Policy holds the classification thresholds and clip band.
type Policy struct {
	// Tolerance is the absolute deviation still considered appropriate.
	Tolerance float64
	// SpeculationThreshold is the deviation above which an over-hedge is
	// treated as a speculative position.
	SpeculationThreshold float64
	MinRatio             float64
	MaxRatio             float64
}

// DefaultPolicy returns the thresholds used when none are configured.
func DefaultPolicy() Policy {
	return Policy{
		Tolerance:            0.1,
		SpeculationThreshold: 0.5,
		MinRatio:             0,
		MaxRatio:             1,
	}
}

// Validate checks that the thresholds are ordered.
func (p Policy) Validate() error {
	if p.Tolerance < 0 {
		return errors.NewConfigError("hedge.tolerance", p.Tolerance, "must be non-negative")
	}
	if p.SpeculationThreshold <= p.Tolerance {
		return errors.NewConfigError("hedge.speculation_threshold", p.SpeculationThreshold, "must exceed tolerance")
	}
	if p.MinRatio >= p.MaxRatio {
		return errors.NewConfigError("hedge.min_ratio", p.MinRatio, "must be below max_ratio")
	}
	return nil
}

// Optimizer evaluates hedge ratios under a fixed policy.
type Optimizer struct {
	policy Policy
}

// NewOptimizer creates an optimizer. An invalid policy is rejected.
func NewOptimizer(policy Policy) (*Optimizer, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{policy: policy}, nil
}

// Policy returns the optimizer's thresholds.
func (o *Optimizer) Policy() Policy {
	return o.policy
}

// ValidateInputs rejects inputs the formula cannot evaluate.
func ValidateInputs(in models.HedgeInputs) error {
	if !isFinite(in.CashflowCorrelation) || in.CashflowCorrelation < -1 || in.CashflowCorrelation > 1 {
		return errors.NewConfigError("cashflow_correlation", in.CashflowCorrelation, "must be within [-1, 1]")
	}
	if !isFinite(in.RiskAversion) || in.RiskAversion <= 0 {
		return errors.NewConfigError("risk_aversion_coefficient", in.RiskAversion, "must be positive")
	}
	if !isFinite(in.ExposureVolatility) || in.ExposureVolatility <= 0 {
		return errors.NewConfigError("exposure_volatility", in.ExposureVolatility, "must be positive")
	}
	if !isFinite(in.HedgeVolatility) || in.HedgeVolatility < 0 {
		return errors.NewConfigError("hedge_volatility", in.HedgeVolatility, "must be non-negative")
	}
	if !isFinite(in.ExpectedHedgeReturn) {
		return errors.NewConfigError("expected_hedge_return", in.ExpectedHedgeReturn, "must be a finite number")
	}
	if !isFinite(in.ActualHedgeRatio) {
		return errors.NewConfigError("actual_hedge_ratio", in.ActualHedgeRatio, "must be a finite number")
	}
	return nil
}

// RawRatio evaluates the unclipped hedge formula.
func RawRatio(in models.HedgeInputs) (float64, error) {
	if err := ValidateInputs(in); err != nil {
		return 0, err
	}
	return rawRatio(in), nil
}

// OptimalHedgeRatio returns the clipped optimal ratio, the signed deviation
// actual − optimal and the resulting stance.
func (o *Optimizer) OptimalHedgeRatio(in models.HedgeInputs) (models.HedgeResult, error) {
	if err := ValidateInputs(in); err != nil {
		return models.HedgeResult{}, err
	}
	raw := rawRatio(in)
	optimal := math.Min(math.Max(raw, o.policy.MinRatio), o.policy.MaxRatio)
	deviation := in.ActualHedgeRatio - optimal
	return models.HedgeResult{
		OptimalRatio: optimal,
		RawRatio:     raw,
		Clipped:      optimal != raw,
		ActualRatio:  in.ActualHedgeRatio,
		Deviation:    deviation,
		Stance:       o.Classify(deviation),
	}, nil
}

// Classify maps a signed deviation onto a stance.
func (o *Optimizer) Classify(deviation float64) models.HedgeStance {
	switch {
	case deviation < -o.policy.Tolerance:
		return models.StanceUnderHedged
	case deviation <= o.policy.Tolerance:
		return models.StanceAppropriate
	case deviation <= o.policy.SpeculationThreshold:
		return models.StanceOverHedged
	default:
		return models.StanceSpeculative
	}
}

func rawRatio(in models.HedgeInputs) float64 {
	sigmaH := in.HedgeVolatility
	if sigmaH == 0 {
		sigmaH = in.ExposureVolatility
	}
	minVariance := in.CashflowCorrelation * in.ExposureVolatility / sigmaH
	speculative := in.ExpectedHedgeReturn / (in.RiskAversion * sigmaH * sigmaH)
	return minVariance + speculative
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
