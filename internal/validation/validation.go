// Package validation checks user inputs against the configured widget ranges
// before they reach the computation packages.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"stf-simulator/internal/config"
	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
)

// Preset name pattern: alphanumeric with spaces, dots, underscores and dashes
var presetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_. -]{0,63}$`)

// Validator enforces input ranges.
type Validator struct {
	limits config.LimitsConfig
}

// NewValidator creates a validator for the given limits.
func NewValidator(limits config.LimitsConfig) *Validator {
	return &Validator{limits: limits}
}

// Limits returns the configured limits.
func (v *Validator) Limits() config.LimitsConfig {
	return v.limits
}

// ValidateTerms checks contract terms against the limits.
func (v *Validator) ValidateTerms(t models.ContractTerms) error {
	if err := v.inRange("notional", t.Notional, v.limits.NotionalMin, v.limits.NotionalMax); err != nil {
		return err
	}
	if err := v.ValidateRate("initial_rate", t.InitialRate); err != nil {
		return err
	}
	if err := v.ValidateRate("strike_rate", t.StrikeRate); err != nil {
		return err
	}
	if t.DurationMonths < 1 || t.DurationMonths > v.limits.DurationMax {
		return errors.NewConfigError("duration_months", t.DurationMonths,
			fmt.Sprintf("must be between 1 and %d", v.limits.DurationMax))
	}
	if t.MonthsElapsed < 0 || t.MonthsElapsed > t.DurationMonths {
		return errors.NewConfigError("months_elapsed", t.MonthsElapsed,
			fmt.Sprintf("must be between 0 and %d", t.DurationMonths))
	}
	return nil
}

// ValidateRate checks an exchange rate against the limits.
func (v *Validator) ValidateRate(field string, rate float64) error {
	return v.inRange(field, rate, v.limits.RateMin, v.limits.RateMax)
}

// ValidateScenario checks the user-supplied fields of a scenario spec. Zero
// values for fields with built-in defaults are accepted.
func (v *Validator) ValidateScenario(s models.ScenarioSpec) error {
	if !s.Kind.IsValid() {
		return errors.NewConfigError("kind", string(s.Kind), "unknown scenario kind")
	}
	if s.HorizonMonths < 1 || s.HorizonMonths > v.limits.HorizonMax {
		return errors.NewConfigError("horizon_months", s.HorizonMonths,
			fmt.Sprintf("must be between 1 and %d", v.limits.HorizonMax))
	}
	if err := v.inRange("noise_amplitude", s.NoiseAmplitude, 0, v.limits.NoiseMax); err != nil {
		return err
	}

	defaultsRates := s.Kind == models.ScenarioTypicalPre2008
	if s.StartRate != 0 || !defaultsRates {
		if err := v.ValidateRate("start_rate", s.StartRate); err != nil {
			return err
		}
	}

	switch s.Kind {
	case models.ScenarioGradualChange, models.ScenarioCrisis2008:
		if err := v.ValidateRate("end_rate", s.EndRate); err != nil {
			return err
		}
	case models.ScenarioTypicalPre2008:
		if s.EndRate != 0 {
			if err := v.ValidateRate("end_rate", s.EndRate); err != nil {
				return err
			}
		}
	case models.ScenarioSuddenShock:
		if err := v.inRange("shock_magnitude", s.ShockMagnitude, v.limits.ShockMin, v.limits.ShockMax); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHedgeInputs checks hedge optimizer inputs against the limits. The
// optimizer enforces the mathematical domain itself.
func (v *Validator) ValidateHedgeInputs(in models.HedgeInputs) error {
	if isFinite(in.RiskAversion) && in.RiskAversion > v.limits.RiskAversionMax {
		return errors.NewConfigError("risk_aversion_coefficient", in.RiskAversion,
			fmt.Sprintf("must not exceed %g", v.limits.RiskAversionMax))
	}
	return nil
}

// ValidateHedgeAmount checks an actual hedge amount in USD.
func (v *Validator) ValidateHedgeAmount(amount float64) error {
	return v.inRange("actual_hedge_amount", amount, 0, v.limits.HedgeAmountMax)
}

// ValidateSensitivityPoints checks the number of sensitivity curve points.
func (v *Validator) ValidateSensitivityPoints(points int) error {
	if points < 2 || points > v.limits.SensitivityPoints*10 {
		return errors.NewConfigError("points", points,
			fmt.Sprintf("must be between 2 and %d", v.limits.SensitivityPoints*10))
	}
	return nil
}

// ValidatePresetName validates a preset name.
func (v *Validator) ValidatePresetName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return errors.NewConfigError("name", name, "preset name cannot be empty")
	}
	if len(name) > 64 {
		return errors.NewConfigError("name", name, "preset name too long (max 64 characters)")
	}
	if !presetNamePattern.MatchString(name) {
		return errors.NewConfigError("name", name, "invalid preset name format")
	}
	return nil
}

func (v *Validator) inRange(field string, value, min, max float64) error {
	if !isFinite(value) {
		return errors.NewConfigError(field, value, "must be a finite number")
	}
	if value < min || value > max {
		return errors.NewConfigError(field, value, fmt.Sprintf("must be between %g and %g", min, max))
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
