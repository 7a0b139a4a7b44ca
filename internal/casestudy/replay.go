package casestudy

import (
	"stf-simulator/internal/models"
	"stf-simulator/internal/payoff"
)

// DefaultTerms returns the dashboard's default contract: US$15M notional,
// initial rate 1.60, strike 1.65, twelve months.
func DefaultTerms() models.ContractTerms {
	return models.ContractTerms{
		Notional:       15_000_000,
		InitialRate:    1.60,
		StrikeRate:     HeadlineFigures().TypicalStrike,
		DurationMonths: 12,
	}
}

// ReplayResult is a contract evaluated along the observed 2008 path.
type ReplayResult struct {
	Terms          models.ContractTerms `json:"terms"`
	Rates          models.RateSeries    `json:"rates"`
	Losses         models.LossSeries    `json:"losses"`
	TotalLoss      float64              `json:"total_loss"`
	MaxMonthlyLoss float64              `json:"max_monthly_loss"`
	MaxLossMonth   int                  `json:"max_loss_month"`
	// FirstLossMonth is the first month the rate closed above the strike,
	// or -1 when it never did.
	FirstLossMonth int `json:"first_loss_month"`
}

// Replay runs the payoff calculator along ObservedRates2008.
func Replay(terms models.ContractTerms) (ReplayResult, error) {
	rates := ObservedRates2008()
	losses, err := payoff.PathLoss(terms, rates)
	if err != nil {
		return ReplayResult{}, err
	}

	maxLoss, maxMonth := losses.Max()
	first := -1
	for _, p := range losses {
		if p.MonthlyLoss > 0 {
			first = p.Month
			break
		}
	}

	return ReplayResult{
		Terms:          terms,
		Rates:          rates,
		Losses:         losses,
		TotalLoss:      losses.Total(),
		MaxMonthlyLoss: maxLoss,
		MaxLossMonth:   maxMonth,
		FirstLossMonth: first,
	}, nil
}

// MonthLabel returns the calendar label of a replay month index.
func MonthLabel(month int) string {
	market := Market2008()
	if month < 0 || month >= len(market) {
		return ""
	}
	return market[month].Month
}
