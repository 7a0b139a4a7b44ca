// Package scenario generates monthly spot-rate paths for stress-testing a
// sell target forward.
//
// Every generator is a pure function of its ScenarioSpec. Noise, where a
// variant supports it, is drawn from a source seeded with spec.Seed, so two
// calls with the same spec always return the same series.
package scenario

import (
	"math"
	"math/rand"

	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
)

// Defaults reproducing the classroom case.
const (
	DefaultPre2008Start = 2.2
	DefaultPre2008End   = 1.6
	DefaultCalmDrift    = 0.02
	MaxNoiseAmplitude   = 0.5
)

// Resolve validates spec and fills every optional field the selected variant
// reads with its default. The returned spec fully determines the path.
func Resolve(spec models.ScenarioSpec) (models.ScenarioSpec, error) {
	if !spec.Kind.IsValid() {
		return spec, errors.NewConfigError("kind", string(spec.Kind), "unknown scenario variant")
	}
	if spec.HorizonMonths <= 0 {
		return spec, errors.NewConfigError("horizon_months", spec.HorizonMonths, "must be positive")
	}
	if !isFinite(spec.NoiseAmplitude) || spec.NoiseAmplitude < 0 || spec.NoiseAmplitude >= MaxNoiseAmplitude {
		return spec, errors.NewConfigError("noise_amplitude", spec.NoiseAmplitude, "must be in [0, 0.5)")
	}

	if spec.Kind == models.ScenarioTypicalPre2008 {
		if spec.StartRate == 0 {
			spec.StartRate = DefaultPre2008Start
		}
		if spec.EndRate == 0 {
			spec.EndRate = DefaultPre2008End
		}
	}
	if err := positiveRate("start_rate", spec.StartRate); err != nil {
		return spec, err
	}

	switch spec.Kind {
	case models.ScenarioGradualChange, models.ScenarioTypicalPre2008:
		if err := positiveRate("end_rate", spec.EndRate); err != nil {
			return spec, err
		}

	case models.ScenarioSuddenShock:
		if !isFinite(spec.ShockMagnitude) || spec.ShockMagnitude <= -1 {
			return spec, errors.NewConfigError("shock_magnitude", spec.ShockMagnitude, "must be greater than -1")
		}
		if spec.ShockMonth == 0 {
			spec.ShockMonth = defaultShockMonth(spec.HorizonMonths)
		}
		if spec.ShockMonth < 1 || spec.ShockMonth > spec.HorizonMonths {
			return spec, errors.NewConfigError("shock_month", spec.ShockMonth, "must be between 1 and horizon_months")
		}

	case models.ScenarioCrisis2008:
		if err := positiveRate("end_rate", spec.EndRate); err != nil {
			return spec, err
		}
		if spec.CalmMonths == 0 {
			spec.CalmMonths = defaultCalmMonths(spec.HorizonMonths)
		} else if spec.CalmMonths < 0 || spec.CalmMonths >= spec.HorizonMonths {
			return spec, errors.NewConfigError("calm_months", spec.CalmMonths, "must be between 1 and horizon_months-1")
		}
		if spec.CalmDrift == 0 {
			spec.CalmDrift = DefaultCalmDrift
		}
		if !isFinite(spec.CalmDrift) {
			return spec, errors.NewConfigError("calm_drift", spec.CalmDrift, "must be a finite number")
		}
		if spec.StartRate-spec.CalmDrift*float64(spec.CalmMonths) <= 0 {
			return spec, errors.NewConfigError("calm_drift", spec.CalmDrift, "drives the calm-phase rate to zero")
		}
	}
	return spec, nil
}

// Generate returns the rate path for spec: horizon_months+1 points with
// month indices 0..horizon_months.
func Generate(spec models.ScenarioSpec) (models.RateSeries, error) {
	resolved, err := Resolve(spec)
	if err != nil {
		return nil, err
	}

	var noise *rand.Rand
	if resolved.NoiseAmplitude > 0 {
		noise = rand.New(rand.NewSource(resolved.Seed))
	}

	var rates []float64
	switch resolved.Kind {
	case models.ScenarioGradualChange:
		rates = linear(resolved.StartRate, resolved.EndRate, resolved.HorizonMonths)
	case models.ScenarioSuddenShock:
		rates = shock(resolved.StartRate, resolved.ShockMagnitude, resolved.ShockMonth, resolved.HorizonMonths)
	case models.ScenarioTypicalPre2008:
		rates = drift(resolved.StartRate, resolved.EndRate, resolved.HorizonMonths, resolved.NoiseAmplitude, noise)
	case models.ScenarioCrisis2008:
		rates = crisis(resolved, noise)
	}

	series := make(models.RateSeries, len(rates))
	for i, r := range rates {
		series[i] = models.RatePoint{Month: i, Rate: r}
	}
	return series, nil
}

// Description returns a one-line summary of what the variant models.
func Description(kind models.ScenarioKind) string {
	switch kind {
	case models.ScenarioGradualChange:
		return "Steady linear move from the start rate to the end rate."
	case models.ScenarioSuddenShock:
		return "Flat rate until the shock month, then an instantaneous jump that persists."
	case models.ScenarioTypicalPre2008:
		return "Slow, low-volatility drift as the local currency appreciated before 2008."
	case models.ScenarioCrisis2008:
		return "Calm appreciation followed by a sharp, sustained depreciation as the crisis hit."
	default:
		return ""
	}
}

func defaultShockMonth(horizon int) int {
	m := horizon / 2
	if m < 1 {
		m = 1
	}
	return m
}

// defaultCalmMonths keeps the calm phase at two thirds of the horizon, which
// is eight months of a one-year contract.
func defaultCalmMonths(horizon int) int {
	c := int(math.Round(float64(horizon) * 2 / 3))
	if c > horizon-1 {
		c = horizon - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func positiveRate(field string, v float64) error {
	if !isFinite(v) || v <= 0 {
		return errors.NewConfigError(field, v, "must be positive")
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
