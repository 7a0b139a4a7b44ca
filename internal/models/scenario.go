package models

import (
	"strings"
)

// ScenarioKind selects the shape of a generated rate path.
type ScenarioKind string

const (
	ScenarioGradualChange  ScenarioKind = "gradual_change"
	ScenarioSuddenShock    ScenarioKind = "sudden_shock"
	ScenarioTypicalPre2008 ScenarioKind = "typical_pre_2008"
	ScenarioCrisis2008     ScenarioKind = "crisis_2008"
)

// ScenarioKinds lists every supported scenario in display order.
var ScenarioKinds = []ScenarioKind{
	ScenarioGradualChange,
	ScenarioSuddenShock,
	ScenarioTypicalPre2008,
	ScenarioCrisis2008,
}

// String returns the canonical name.
func (k ScenarioKind) String() string {
	return string(k)
}

// Label returns a human readable name.
func (k ScenarioKind) Label() string {
	switch k {
	case ScenarioGradualChange:
		return "Gradual Change"
	case ScenarioSuddenShock:
		return "Sudden Shock"
	case ScenarioTypicalPre2008:
		return "Typical Pre-2008 Pattern"
	case ScenarioCrisis2008:
		return "2008 Crisis Pattern"
	default:
		return string(k)
	}
}

// IsValid reports whether k is one of the known scenario kinds.
func (k ScenarioKind) IsValid() bool {
	for _, known := range ScenarioKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseScenarioKind accepts the canonical name or a loose spelling such as
// "sudden-shock", "Gradual Change" or "crisis2008". Unknown input is
// returned unchanged so the generator can reject it with the field named.
func ParseScenarioKind(s string) ScenarioKind {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "gradual", "gradualchange":
		return ScenarioGradualChange
	case "shock", "suddenshock":
		return ScenarioSuddenShock
	case "pre2008", "typicalpre2008", "typicalpre2008pattern":
		return ScenarioTypicalPre2008
	case "crisis", "crisis2008", "2008crisis", "2008crisispattern":
		return ScenarioCrisis2008
	}
	return ScenarioKind(s)
}

// ScenarioSpec parameterizes a rate path. Kind selects which of the
// variant-specific fields are read:
//
//	GradualChange:  StartRate, EndRate
//	SuddenShock:    StartRate, ShockMagnitude, ShockMonth
//	TypicalPre2008: StartRate, EndRate, NoiseAmplitude, Seed
//	Crisis2008:     StartRate, EndRate, CalmMonths, CalmDrift, NoiseAmplitude, Seed
//
// Zero-valued optional fields fall back to the generator defaults, so an
// explicit zero cannot be requested. CalmMonths 0 resolves to two thirds of
// the horizon and CalmDrift 0 to 0.02 a month. A near-flat calm phase needs
// a small non-zero CalmDrift; a crisis with no calm phase is a GradualChange.
type ScenarioSpec struct {
	Kind           ScenarioKind `json:"kind"`
	StartRate      float64      `json:"start_rate"`
	EndRate        float64      `json:"end_rate,omitempty"`
	ShockMagnitude float64      `json:"shock_magnitude,omitempty"`
	ShockMonth     int          `json:"shock_month,omitempty"`
	HorizonMonths  int          `json:"horizon_months"`
	NoiseAmplitude float64      `json:"noise_amplitude,omitempty"`
	Seed           int64        `json:"seed,omitempty"`
	CalmMonths     int          `json:"calm_months,omitempty"`
	CalmDrift      float64      `json:"calm_drift,omitempty"`
}

// RatePoint is the spot rate observed at a month index.
type RatePoint struct {
	Month int     `json:"month"`
	Rate  float64 `json:"rate"`
}

// RateSeries is an ordered rate path starting at month 0.
type RateSeries []RatePoint

// Last returns the final point of the series.
func (s RateSeries) Last() (RatePoint, bool) {
	if len(s) == 0 {
		return RatePoint{}, false
	}
	return s[len(s)-1], true
}

// LossPoint is the seller's loss at one month of a rate path.
type LossPoint struct {
	Month          int     `json:"month"`
	Rate           float64 `json:"rate"`
	MonthlyLoss    float64 `json:"monthly_loss"`
	CumulativeLoss float64 `json:"cumulative_loss"`
}

// LossSeries is an ordered sequence of losses along a rate path.
type LossSeries []LossPoint

// Total returns the cumulative loss at the end of the series.
func (s LossSeries) Total() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].CumulativeLoss
}

// Max returns the largest monthly loss and the month it occurred in. Ties
// resolve to the earliest month.
func (s LossSeries) Max() (float64, int) {
	var maxLoss float64
	month := 0
	for i, p := range s {
		if i == 0 || p.MonthlyLoss > maxLoss {
			maxLoss = p.MonthlyLoss
			month = p.Month
		}
	}
	return maxLoss, month
}
