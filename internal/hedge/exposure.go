package hedge

import (
	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
	"stf-simulator/pkg/utils"
)

// Sensitivity grid of the margin analysis.
const (
	sensitivityMinMargin = 0.05
	sensitivityMaxMargin = 0.50
)

// AmountBands are the actual/optimal amount ratios separating the stances
// of the Bodnar–Marston comparison.
type AmountBands struct {
	Under       float64
	Appropriate float64
	Over        float64
}

// DefaultAmountBands returns 0.8 / 1.2 / 2.0.
func DefaultAmountBands() AmountBands {
	return AmountBands{Under: 0.8, Appropriate: 1.2, Over: 2.0}
}

// Validate checks the bands are positive and increasing.
func (b AmountBands) Validate() error {
	if b.Under <= 0 || b.Under >= b.Appropriate || b.Appropriate >= b.Over {
		return errors.NewConfigError("hedge.amount_bands", []float64{b.Under, b.Appropriate, b.Over}, "must be positive and increasing")
	}
	return nil
}

// ValidateProfile rejects firm parameters outside the model's domain.
func ValidateProfile(p models.ExposureProfile) error {
	if !isFinite(p.ForeignRevenueShare) || p.ForeignRevenueShare < 0 || p.ForeignRevenueShare > 1 {
		return errors.NewConfigError("foreign_revenue_share", p.ForeignRevenueShare, "must be within [0, 1]")
	}
	if !isFinite(p.ForeignCostShare) || p.ForeignCostShare < 0 || p.ForeignCostShare > 1 {
		return errors.NewConfigError("foreign_cost_share", p.ForeignCostShare, "must be within [0, 1]")
	}
	if !isFinite(p.ProfitMargin) || p.ProfitMargin <= 0 || p.ProfitMargin > 1 {
		return errors.NewConfigError("profit_margin", p.ProfitMargin, "must be within (0, 1]")
	}
	if !isFinite(p.EBIT) || p.EBIT < 0 {
		return errors.NewConfigError("ebit", p.EBIT, "must be non-negative")
	}
	return nil
}

// ExposureDelta returns the Bodnar–Marston exposure δ = h1 + (h1 − h2)(1/r − 1).
func ExposureDelta(p models.ExposureProfile) (float64, error) {
	if err := ValidateProfile(p); err != nil {
		return 0, err
	}
	return delta(p.ForeignRevenueShare, p.ForeignCostShare, p.ProfitMargin), nil
}

// CompareHedgeAmount sizes the optimal hedge as δ × EBIT and classifies the
// actual hedged amount against it. A zero optimum yields a zero ratio.
func CompareHedgeAmount(p models.ExposureProfile, actual float64, bands AmountBands) (models.ExposureResult, error) {
	if err := ValidateProfile(p); err != nil {
		return models.ExposureResult{}, err
	}
	if !isFinite(actual) || actual < 0 {
		return models.ExposureResult{}, errors.NewConfigError("actual_hedge_amount", actual, "must be non-negative")
	}
	if err := bands.Validate(); err != nil {
		return models.ExposureResult{}, err
	}

	d := delta(p.ForeignRevenueShare, p.ForeignCostShare, p.ProfitMargin)
	optimal := d * p.EBIT
	var ratio float64
	if optimal > 0 {
		ratio = actual / optimal
	}

	return models.ExposureResult{
		Delta:           d,
		OptimalAmount:   optimal,
		ActualAmount:    actual,
		ActualToOptimal: ratio,
		Stance:          bands.classify(ratio),
	}, nil
}

// MarginSensitivity evaluates δ across profit margins from 5% to 50%.
func MarginSensitivity(p models.ExposureProfile, points int) ([]models.SensitivityPoint, error) {
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}
	if points < 2 {
		return nil, errors.NewConfigError("points", points, "must be at least 2")
	}
	margins := utils.Linspace(sensitivityMinMargin, sensitivityMaxMargin, points)
	out := make([]models.SensitivityPoint, len(margins))
	for i, r := range margins {
		out[i] = models.SensitivityPoint{
			ProfitMargin: r,
			Delta:        delta(p.ForeignRevenueShare, p.ForeignCostShare, r),
		}
	}
	return out, nil
}

func (b AmountBands) classify(ratio float64) models.HedgeStance {
	switch {
	case ratio < b.Under:
		return models.StanceUnderHedged
	case ratio <= b.Appropriate:
		return models.StanceAppropriate
	case ratio <= b.Over:
		return models.StanceOverHedged
	default:
		return models.StanceSpeculative
	}
}

func delta(h1, h2, r float64) float64 {
	return h1 + (h1-h2)*(1/r-1)
}
