package models

// HedgeInputs feeds the minimum-variance / expected-utility hedge ratio.
//
// HedgeVolatility and ExpectedHedgeReturn are optional; zero means the hedge
// instrument moves with the exposure (σh = σe) and carries no drift.
type HedgeInputs struct {
	ExposureVolatility  float64 `json:"exposure_volatility"`
	CashflowCorrelation float64 `json:"cashflow_correlation"`
	RiskAversion        float64 `json:"risk_aversion_coefficient"`
	ActualHedgeRatio    float64 `json:"actual_hedge_ratio"`
	HedgeVolatility     float64 `json:"hedge_volatility,omitempty"`
	ExpectedHedgeReturn float64 `json:"expected_hedge_return,omitempty"`
}

// HedgeStance classifies a position against its optimal hedge.
type HedgeStance string

const (
	StanceUnderHedged HedgeStance = "under_hedged"
	StanceAppropriate HedgeStance = "appropriately_hedged"
	StanceOverHedged  HedgeStance = "over_hedged"
	StanceSpeculative HedgeStance = "speculative"
)

// Label returns a human readable description of the stance.
func (s HedgeStance) Label() string {
	switch s {
	case StanceUnderHedged:
		return "Under-hedged"
	case StanceAppropriate:
		return "Appropriately hedged"
	case StanceOverHedged:
		return "Moderately over-hedged"
	case StanceSpeculative:
		return "Significantly over-hedged (potential speculation)"
	default:
		return string(s)
	}
}

// HedgeResult is the optimizer output. RawRatio is the unclipped formula
// value; Clipped is set when OptimalRatio differs from it.
type HedgeResult struct {
	OptimalRatio float64     `json:"optimal_ratio"`
	RawRatio     float64     `json:"raw_ratio"`
	Clipped      bool        `json:"clipped"`
	ActualRatio  float64     `json:"actual_ratio"`
	Deviation    float64     `json:"deviation"`
	Stance       HedgeStance `json:"stance"`
}

// ExposureProfile holds the firm-level inputs of the Bodnar–Marston model.
// Shares and margin are fractions in [0, 1].
type ExposureProfile struct {
	ForeignRevenueShare float64 `json:"foreign_revenue_share"`
	ForeignCostShare    float64 `json:"foreign_cost_share"`
	ProfitMargin        float64 `json:"profit_margin"`
	EBIT                float64 `json:"ebit"`
}

// ExposureResult compares an actual hedged amount with the model optimum.
type ExposureResult struct {
	Delta           float64     `json:"delta"`
	OptimalAmount   float64     `json:"optimal_amount"`
	ActualAmount    float64     `json:"actual_amount"`
	ActualToOptimal float64     `json:"actual_to_optimal"`
	Stance          HedgeStance `json:"stance"`
}

// SensitivityPoint is δ evaluated at one profit margin.
type SensitivityPoint struct {
	ProfitMargin float64 `json:"profit_margin"`
	Delta        float64 `json:"delta"`
}
