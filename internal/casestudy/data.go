// Package casestudy holds the Aracruz Celulose 2008 reference data and
// replays contracts along the observed BRL/USD path.
package casestudy

import (
	"time"

	"stf-simulator/internal/models"
)

// Amounts are in US$ millions unless noted.

// FinancialMetric is one year of reported results.
type FinancialMetric struct {
	Year          string  `json:"year"`
	EBIT          float64 `json:"ebit_usd_millions"`
	ProfitMargin  float64 `json:"profit_margin_percent"`
	PartialPeriod bool    `json:"partial_period,omitempty"`
}

// ExposureQuarter is the derivative exposure breakdown at a quarter end.
type ExposureQuarter struct {
	Quarter           string  `json:"quarter"`
	Liabilities       float64 `json:"liabilities"`
	Assets            float64 `json:"assets"`
	ExchangeTraded    float64 `json:"exchange_traded"`
	SellTargetForward float64 `json:"sell_target_forward"`
	ExoticSwap        float64 `json:"exotic_swap"`
	OtherOTC          float64 `json:"other_otc"`
	EffectiveHedge    float64 `json:"effective_hedge"`
}

// MarketMonth is one month of the 2008 market path.
type MarketMonth struct {
	Month      string  `json:"month"`
	Rate       float64 `json:"brl_per_usd"`
	StockPrice float64 `json:"stock_price_brl"`
	Annotation string  `json:"annotation,omitempty"`
}

// EventCategory groups timeline events.
type EventCategory string

const (
	CategoryMarket  EventCategory = "Market"
	CategoryCompany EventCategory = "Company"
	CategoryLegal   EventCategory = "Legal"
)

// Event is a dated entry in the crisis timeline.
type Event struct {
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Description string        `json:"description"`
	Category    EventCategory `json:"category"`
}

// Headline holds the summary figures of the case, in US dollars.
type Headline struct {
	TotalLoss        float64 `json:"total_loss"`
	EBIT2007         float64 `json:"ebit_2007"`
	MarketCapJul2008 float64 `json:"market_cap_jul_2008"`
	ActualHedge      float64 `json:"actual_hedge"`
	OptimalHedge     float64 `json:"optimal_hedge"`
	TypicalStrike    float64 `json:"typical_strike"`
}

// Breakdown is the composition of the Q3 2008 derivative position.
type Breakdown struct {
	Instrument string  `json:"instrument"`
	Amount     float64 `json:"amount_usd_millions"`
}

// Dataset bundles the reference tables.
type Dataset struct {
	Headline  Headline          `json:"headline"`
	Metrics   []FinancialMetric `json:"financial_metrics"`
	Exposure  []ExposureQuarter `json:"exposure"`
	Breakdown []Breakdown       `json:"q3_2008_breakdown"`
	Market    []MarketMonth     `json:"market_2008"`
	Events    []Event           `json:"timeline"`
}

// OptimalHedgeMillions is the Bodnar-Marston optimum for Aracruz.
const OptimalHedgeMillions = 1300.0

// Metrics returns reported EBIT and margins, 2003 to Q2 2008.
func Metrics() []FinancialMetric {
	return []FinancialMetric{
		{Year: "2003", EBIT: 423, ProfitMargin: 36.4},
		{Year: "2004", EBIT: 456, ProfitMargin: 31.3},
		{Year: "2005", EBIT: 442, ProfitMargin: 27.3},
		{Year: "2006", EBIT: 502, ProfitMargin: 24.5},
		{Year: "2007", EBIT: 571, ProfitMargin: 23.2},
		{Year: "2008 Q2", EBIT: 245, ProfitMargin: 13.9, PartialPeriod: true},
	}
}

// Exposure returns quarterly derivative exposure, Q4 2007 to Q4 2008.
func Exposure() []ExposureQuarter {
	return []ExposureQuarter{
		{Quarter: "Q4 2007", Liabilities: 929, Assets: 370, ExchangeTraded: 150, SellTargetForward: 0, ExoticSwap: 0, OtherOTC: 334, EffectiveHedge: 1043},
		{Quarter: "Q1 2008", Liabilities: 929, Assets: 403, ExchangeTraded: 270, SellTargetForward: 0, ExoticSwap: 0, OtherOTC: 346, EffectiveHedge: 1143},
		{Quarter: "Q2 2008", Liabilities: 1110, Assets: 451, ExchangeTraded: 0, SellTargetForward: 5280, ExoticSwap: 600, OtherOTC: 559, EffectiveHedge: 7098},
		{Quarter: "Q3 2008", Liabilities: 1578, Assets: 418, ExchangeTraded: 538, SellTargetForward: 8640, ExoticSwap: 2400, OtherOTC: 305, EffectiveHedge: 11967},
		{Quarter: "Q4 2008", Liabilities: 2888, Assets: 375, ExchangeTraded: 0, SellTargetForward: 0, ExoticSwap: 3600, OtherOTC: 215, EffectiveHedge: 6329},
	}
}

// BreakdownQ32008 returns the composition of the peak position.
func BreakdownQ32008() []Breakdown {
	return []Breakdown{
		{Instrument: "Sell target forwards", Amount: 8640},
		{Instrument: "Exotic swaps", Amount: 2400},
		{Instrument: "Exchange-traded", Amount: 538},
		{Instrument: "Other OTC", Amount: 305},
		{Instrument: "Net liabilities", Amount: 1160},
	}
}

// Market2008 returns the monthly BRL/USD rate and Aracruz share price.
func Market2008() []MarketMonth {
	return []MarketMonth{
		{Month: "Jan 2008", Rate: 1.77, StockPrice: 12.2},
		{Month: "Feb 2008", Rate: 1.73, StockPrice: 11.9},
		{Month: "Mar 2008", Rate: 1.75, StockPrice: 11.7},
		{Month: "Apr 2008", Rate: 1.69, StockPrice: 11.8},
		{Month: "May 2008", Rate: 1.63, StockPrice: 11.9},
		{Month: "Jun 2008", Rate: 1.61, StockPrice: 12.1},
		{Month: "Jul 2008", Rate: 1.57, StockPrice: 12.0},
		{Month: "Aug 2008", Rate: 1.63, StockPrice: 11.8},
		{Month: "Sep 2008", Rate: 1.91, StockPrice: 8.2, Annotation: "Lehman Brothers bankruptcy"},
		{Month: "Oct 2008", Rate: 2.18, StockPrice: 1.5, Annotation: "Aracruz announces losses"},
		{Month: "Nov 2008", Rate: 2.33, StockPrice: 1.4},
		{Month: "Dec 2008", Rate: 2.34, StockPrice: 1.4},
	}
}

// Timeline returns the crisis events in chronological order of start date.
func Timeline() []Event {
	return []Event{
		event("2003-01-01", "2007-12-31", "Brazilian Real steadily appreciates against USD", CategoryMarket),
		event("2003-01-01", "2007-12-31", "Aracruz begins increasing its hedging activity", CategoryCompany),
		event("2008-01-01", "2008-03-31", "Aracruz starts using sell target forwards and exotic swaps", CategoryCompany),
		event("2008-04-01", "2008-06-30", "Derivative exposure jumps from about US$1B to about US$7B", CategoryCompany),
		event("2008-09-01", "2008-09-30", "BRL depreciates sharply against USD", CategoryMarket),
		event("2008-09-15", "2008-09-15", "Lehman Brothers bankruptcy triggers global financial crisis", CategoryMarket),
		event("2008-09-25", "2008-09-30", "Aracruz announces losses from currency derivatives", CategoryCompany),
		event("2008-10-01", "2008-10-31", "Aracruz stock plunges from R$12 to less than R$1.5", CategoryMarket),
		event("2008-10-03", "2008-10-08", "Aracruz announces total loss of US$1.95B, later amended to US$2.13B", CategoryCompany),
		event("2008-11-01", "2008-11-30", "Brazilian stockholders sue the former CFO", CategoryLegal),
		event("2008-11-15", "2008-11-30", "American stockholders join class action against the Board", CategoryLegal),
		event("2009-01-01", "2009-03-31", "Aracruz is acquired by Votorantim Papel e Celulose (VCP)", CategoryCompany),
		event("2009-06-01", "2009-06-30", "Resulting company is renamed Fibria", CategoryCompany),
	}
}

// HeadlineFigures returns the summary figures of the case.
func HeadlineFigures() Headline {
	return Headline{
		TotalLoss:        2_130_000_000,
		EBIT2007:         570_000_000,
		MarketCapJul2008: 7_100_000_000,
		ActualHedge:      6_300_000_000,
		OptimalHedge:     OptimalHedgeMillions * 1_000_000,
		TypicalStrike:    1.65,
	}
}

// Load returns the full reference dataset.
func Load() Dataset {
	return Dataset{
		Headline:  HeadlineFigures(),
		Metrics:   Metrics(),
		Exposure:  Exposure(),
		Breakdown: BreakdownQ32008(),
		Market:    Market2008(),
		Events:    Timeline(),
	}
}

// ObservedRates2008 returns the 2008 monthly rates as a series indexed from
// month 0 (January).
func ObservedRates2008() models.RateSeries {
	market := Market2008()
	series := make(models.RateSeries, len(market))
	for i, m := range market {
		series[i] = models.RatePoint{Month: i, Rate: m.Rate}
	}
	return series
}

func event(start, end, description string, category EventCategory) Event {
	return Event{
		Start:       mustDate(start),
		End:         mustDate(end),
		Description: description,
		Category:    category,
	}
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
