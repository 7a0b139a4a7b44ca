// Package payoff computes the seller's loss on a sell target forward.
//
// The scaling convention is fixed across the package: a single settlement
// loses notional × max(0, S − X) / S0, where S is the spot rate, X the strike
// and S0 the rate at inception. Path losses sum that settlement loss month by
// month. The leveraged figures reproduce the published formula
// l = n·2t(S − X)/S and are reported alongside, never mixed into path losses.
package payoff

import (
	"math"

	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
)

// leverageFactor is the double exposure of the NDF plus the sold option.
const leverageFactor = 2.0

// highRiskPercent is the leveraged percentage loss above which a position is
// flagged as threatening to the company's financial stability.
const highRiskPercent = 50.0

// ValidateTerms rejects contract terms that cannot be priced. A zero notional
// is accepted and yields zero loss everywhere.
func ValidateTerms(t models.ContractTerms) error {
	if !isFinite(t.Notional) || t.Notional < 0 {
		return errors.NewConfigError("notional", t.Notional, "must be a non-negative number")
	}
	if !isFinite(t.InitialRate) || t.InitialRate <= 0 {
		return errors.NewConfigError("initial_rate", t.InitialRate, "must be positive")
	}
	if !isFinite(t.StrikeRate) || t.StrikeRate <= 0 {
		return errors.NewConfigError("strike_rate", t.StrikeRate, "must be positive")
	}
	if t.DurationMonths <= 0 {
		return errors.NewConfigError("duration_months", t.DurationMonths, "must be positive")
	}
	if t.MonthsElapsed < 0 || t.MonthsElapsed > t.DurationMonths {
		return errors.NewConfigError("months_elapsed", t.MonthsElapsed, "must be between 0 and duration_months")
	}
	return nil
}

func validateRate(rate float64) error {
	if !isFinite(rate) || rate <= 0 {
		return errors.NewConfigError("current_rate", rate, "must be positive")
	}
	return nil
}

// Loss returns the seller's loss for one settlement at currentRate.
func Loss(t models.ContractTerms, currentRate float64) (float64, error) {
	if err := ValidateTerms(t); err != nil {
		return 0, err
	}
	if err := validateRate(currentRate); err != nil {
		return 0, err
	}
	return settlementLoss(t, currentRate), nil
}

// LeveragedLoss returns n·2t·max(0, S − X)/S with t the months remaining.
func LeveragedLoss(t models.ContractTerms, currentRate float64) (float64, error) {
	if err := ValidateTerms(t); err != nil {
		return 0, err
	}
	if err := validateRate(currentRate); err != nil {
		return 0, err
	}
	return leveragedLoss(t, currentRate), nil
}

// LeveragedPercent returns the leveraged loss as a percentage of notional:
// 2t·max(0, S − X)·100/S.
func LeveragedPercent(t models.ContractTerms, currentRate float64) (float64, error) {
	if err := ValidateTerms(t); err != nil {
		return 0, err
	}
	if err := validateRate(currentRate); err != nil {
		return 0, err
	}
	return leveragedPercent(t, currentRate), nil
}

// IsHighRisk reports whether the leveraged percentage loss crosses the
// warning level.
func IsHighRisk(leveragedPct float64) bool {
	return leveragedPct > highRiskPercent
}

// Change returns the move of currentRate relative to the initial rate.
func Change(t models.ContractTerms, currentRate float64) (models.RateChange, error) {
	if err := ValidateTerms(t); err != nil {
		return models.RateChange{}, err
	}
	if err := validateRate(currentRate); err != nil {
		return models.RateChange{}, err
	}
	pct := (currentRate - t.InitialRate) / t.InitialRate * 100
	change := models.RateChange{Percent: pct, Direction: models.DirectionUnchanged}
	switch {
	case pct > 0:
		change.Direction = models.DirectionDepreciation
	case pct < 0:
		change.Direction = models.DirectionAppreciation
	}
	return change, nil
}

// Profile evaluates the loss curve over the given rate grid.
func Profile(t models.ContractTerms, rates []float64) ([]models.ProfilePoint, error) {
	if err := ValidateTerms(t); err != nil {
		return nil, err
	}
	points := make([]models.ProfilePoint, 0, len(rates))
	for _, r := range rates {
		if err := validateRate(r); err != nil {
			return nil, err
		}
		points = append(points, models.ProfilePoint{
			Rate:             r,
			Loss:             settlementLoss(t, r),
			LeveragedLoss:    leveragedLoss(t, r),
			LeveragedPercent: leveragedPercent(t, r),
		})
	}
	return points, nil
}

// PathLoss applies Loss to every point of series and accumulates the result.
// The contract fixes on months 0 through DurationMonths-1; points past
// maturity are kept in the series but settle nothing.
func PathLoss(t models.ContractTerms, series models.RateSeries) (models.LossSeries, error) {
	if err := ValidateTerms(t); err != nil {
		return nil, err
	}
	out := make(models.LossSeries, 0, len(series))
	var cumulative float64
	for _, p := range series {
		if err := validateRate(p.Rate); err != nil {
			return nil, err
		}
		var monthly float64
		if p.Month < t.DurationMonths {
			monthly = settlementLoss(t, p.Rate)
		}
		cumulative += monthly
		out = append(out, models.LossPoint{
			Month:          p.Month,
			Rate:           p.Rate,
			MonthlyLoss:    monthly,
			CumulativeLoss: cumulative,
		})
	}
	return out, nil
}

// AccumulatedLoss returns the cumulative loss along series up to and
// including throughMonth.
func AccumulatedLoss(t models.ContractTerms, series models.RateSeries, throughMonth int) (float64, error) {
	losses, err := PathLoss(t, series)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, p := range losses {
		if p.Month > throughMonth {
			break
		}
		total = p.CumulativeLoss
	}
	return total, nil
}

func settlementLoss(t models.ContractTerms, rate float64) float64 {
	if rate <= t.StrikeRate {
		return 0
	}
	return t.Notional * (rate - t.StrikeRate) / t.InitialRate
}

func leveragedLoss(t models.ContractTerms, rate float64) float64 {
	if rate <= t.StrikeRate {
		return 0
	}
	return t.Notional * leverageFactor * float64(t.MonthsRemaining()) * (rate - t.StrikeRate) / rate
}

func leveragedPercent(t models.ContractTerms, rate float64) float64 {
	if rate <= t.StrikeRate {
		return 0
	}
	return leverageFactor * float64(t.MonthsRemaining()) * (rate - t.StrikeRate) * 100 / rate
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
