// Package models provides domain models for the sell target forward simulator.
package models

// ContractTerms describes a sell target forward position.
type ContractTerms struct {
	Notional       float64 `json:"notional"`
	InitialRate    float64 `json:"initial_rate"`
	StrikeRate     float64 `json:"strike_rate"`
	DurationMonths int     `json:"duration_months"`
	MonthsElapsed  int     `json:"months_elapsed"`
}

// MonthsRemaining returns the number of monthly settlements left.
func (t ContractTerms) MonthsRemaining() int {
	remaining := t.DurationMonths - t.MonthsElapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RateDirection describes how the local currency moved against the
// contract's reference currency.
type RateDirection string

const (
	DirectionUnchanged    RateDirection = "unchanged"
	DirectionDepreciation RateDirection = "depreciation"
	DirectionAppreciation RateDirection = "appreciation"
)

// RateChange is the move of the spot rate relative to the contract's
// initial rate.
type RateChange struct {
	Percent   float64       `json:"percent"`
	Direction RateDirection `json:"direction"`
}

// ProfilePoint is one point of a loss-versus-rate curve.
type ProfilePoint struct {
	Rate             float64 `json:"rate"`
	Loss             float64 `json:"loss"`
	LeveragedLoss    float64 `json:"leveraged_loss"`
	LeveragedPercent float64 `json:"leveraged_percent"`
}
