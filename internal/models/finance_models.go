package models

import "github.com/shopspring/decimal"

// Well-known assumption names.
const (
	AssumptionDefaultVariableCost = "Costo variable por evento (MXN)"
	AssumptionMonthlyFixedCost    = "Gastos fijos mensuales (MXN)"
	AssumptionFixedCostFromMonth  = "Mes inicio gastos fijos"
)

// Assumption is a row of the Assumptions sheet. Value is kept as written so
// that non-numeric entries survive a save.
type Assumption struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

// AdsMonth is a row of the Ads sheet.
type AdsMonth struct {
	Month          string          `json:"month"`
	Spend          decimal.Decimal `json:"spend"`
	Impressions    int64           `json:"impressions"`
	Clicks         int64           `json:"clicks"`
	Messages       int64           `json:"messages"`
	CostPerMessage decimal.Decimal `json:"cost_per_message"`
	CTRPct         decimal.Decimal `json:"ctr_pct"`
}

// FunnelMonth is a row of the Funnel sheet.
type FunnelMonth struct {
	Month                 string          `json:"month"`
	Messages              int64           `json:"messages"`
	AppointmentsOffered   int64           `json:"appointments_offered"`
	ConfirmedReservations int64           `json:"confirmed_reservations"`
	CloseRatePct          decimal.Decimal `json:"close_rate_pct"`
}

// MonthlySummary is one computed row of the monthly financial rollup.
type MonthlySummary struct {
	Month             string          `json:"month"`
	EventsCount       int             `json:"events_count"`
	AvgPrice          decimal.Decimal `json:"avg_price"`
	Revenue           decimal.Decimal `json:"revenue"`
	VariableCostTotal decimal.Decimal `json:"variable_cost_total"`
	FixedCost         decimal.Decimal `json:"fixed_cost"`
	PizzaAddonsCount  int             `json:"pizza_addons_count"`
	PizzaMarginTotal  decimal.Decimal `json:"pizza_margin_total"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	RealARPU          decimal.Decimal `json:"real_arpu"`
	BookingRatioPct   decimal.Decimal `json:"booking_ratio_pct"`
	RetroAdoptionPct  decimal.Decimal `json:"retro_adoption_pct"`
	NewReviewsCount   decimal.Decimal `json:"new_reviews_count"`
}

// KPISummary holds the year-to-date headline numbers of the dashboard.
type KPISummary struct {
	AsOfMonth   int             `json:"as_of_month"`
	EventsCount int             `json:"events_count"`
	Revenue     decimal.Decimal `json:"revenue"`
	NetProfit   decimal.Decimal `json:"net_profit"`
}
