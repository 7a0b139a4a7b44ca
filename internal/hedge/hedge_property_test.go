package hedge

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"stf-simulator/internal/models"
)

func TestProperty_HedgeRatio(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	o, err := NewOptimizer(DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}

	properties.Property("deviation is exactly actual minus optimal", prop.ForAll(
		func(vol, rho, lambda, actual float64) bool {
			res, err := o.OptimalHedgeRatio(models.HedgeInputs{
				ExposureVolatility:  vol,
				CashflowCorrelation: rho,
				RiskAversion:        lambda,
				ActualHedgeRatio:    actual,
			})
			return err == nil && res.Deviation == actual-res.OptimalRatio
		},
		gen.Float64Range(0.01, 1),
		gen.Float64Range(-1, 1),
		gen.Float64Range(0.01, 50),
		gen.Float64Range(-2, 5),
	))

	properties.Property("optimal ratio stays inside the clip band", prop.ForAll(
		func(vol, hedgeVol, rho, lambda, mu float64) bool {
			res, err := o.OptimalHedgeRatio(models.HedgeInputs{
				ExposureVolatility:  vol,
				HedgeVolatility:     hedgeVol,
				CashflowCorrelation: rho,
				RiskAversion:        lambda,
				ExpectedHedgeReturn: mu,
			})
			if err != nil {
				return false
			}
			inBand := res.OptimalRatio >= 0 && res.OptimalRatio <= 1
			return inBand && res.Clipped == (res.OptimalRatio != res.RawRatio)
		},
		gen.Float64Range(0.01, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(-1, 1),
		gen.Float64Range(0.01, 50),
		gen.Float64Range(-0.2, 0.2),
	))

	properties.Property("correlation outside [-1, 1] is rejected", prop.ForAll(
		func(excess float64, negative bool) bool {
			rho := 1 + excess
			if negative {
				rho = -rho
			}
			_, err := o.OptimalHedgeRatio(models.HedgeInputs{
				ExposureVolatility:  0.2,
				CashflowCorrelation: rho,
				RiskAversion:        1,
			})
			return err != nil
		},
		gen.Float64Range(1e-9, 100),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
