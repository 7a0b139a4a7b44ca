package payoff

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"stf-simulator/internal/models"
)

// Property: the seller never loses while the spot rate is at or below the
// strike, and the loss never decreases as the rate rises.
func TestProperty_LossShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	termsFor := func(notional, initial, strike float64) models.ContractTerms {
		return models.ContractTerms{
			Notional:       notional,
			InitialRate:    initial,
			StrikeRate:     strike,
			DurationMonths: 12,
			MonthsElapsed:  0,
		}
	}

	properties.Property("loss is zero at or below strike", prop.ForAll(
		func(notional, initial, strike, frac float64) bool {
			terms := termsFor(notional, initial, strike)
			rate := strike * frac
			if rate <= 0 {
				return true
			}
			loss, err := Loss(terms, rate)
			return err == nil && loss == 0
		},
		gen.Float64Range(0, 1e10),
		gen.Float64Range(0.1, 10),
		gen.Float64Range(0.1, 10),
		gen.Float64Range(0.01, 1.0),
	))

	properties.Property("loss is non-decreasing in the spot rate", prop.ForAll(
		func(notional, initial, strike, r1, r2 float64) bool {
			terms := termsFor(notional, initial, strike)
			lo, hi := r1, r2
			if lo > hi {
				lo, hi = hi, lo
			}
			l1, err1 := Loss(terms, lo)
			l2, err2 := Loss(terms, hi)
			return err1 == nil && err2 == nil && l1 <= l2
		},
		gen.Float64Range(0, 1e10),
		gen.Float64Range(0.1, 10),
		gen.Float64Range(0.1, 10),
		gen.Float64Range(0.01, 20),
		gen.Float64Range(0.01, 20),
	))

	properties.Property("loss is strictly positive above strike for positive notional", prop.ForAll(
		func(notional, initial, strike, excess float64) bool {
			terms := termsFor(notional, initial, strike)
			loss, err := Loss(terms, strike+excess)
			return err == nil && loss > 0
		},
		gen.Float64Range(1, 1e10),
		gen.Float64Range(0.1, 10),
		gen.Float64Range(0.1, 10),
		gen.Float64Range(0.001, 10),
	))

	properties.Property("cumulative path loss equals the sum of monthly losses", prop.ForAll(
		func(rates []float64) bool {
			terms := termsFor(1_000_000, 2.0, 1.8)
			series := make(models.RateSeries, len(rates))
			for i, r := range rates {
				series[i] = models.RatePoint{Month: i, Rate: r}
			}
			losses, err := PathLoss(terms, series)
			if err != nil {
				return false
			}
			var sum float64
			for _, p := range losses {
				sum += p.MonthlyLoss
			}
			return almostEqual(losses.Total(), sum)
		},
		gen.SliceOf(gen.Float64Range(1.0, 3.0)),
	))

	properties.Property("nothing settles after maturity", prop.ForAll(
		func(rates []float64, duration int) bool {
			terms := termsFor(1_000_000, 2.0, 1.8)
			terms.DurationMonths = duration
			series := make(models.RateSeries, len(rates))
			for i, r := range rates {
				series[i] = models.RatePoint{Month: i, Rate: r}
			}
			losses, err := PathLoss(terms, series)
			if err != nil {
				return false
			}
			for _, p := range losses {
				if p.Month >= duration && p.MonthlyLoss != 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(1.0, 3.0)),
		gen.IntRange(1, 36),
	))

	properties.TestingRun(t)
}
