package model

import (
	"github.com/shopspring/decimal"

	"PortfolioPulse/internal/dates"
)

// Side is the direction of a portfolio transaction.
type Side string

const (
	Buy  Side = "Buy"
	Sell Side = "Sell"
)

// Transaction is one buy or sell of an HK equity, as recorded in the
// portfolio CSV export. Units and price use decimal arithmetic so running
// cost-basis math does not drift.
type Transaction struct {
	Date   dates.Date
	Ticker string
	Side   Side
	Units  decimal.Decimal
	Price  decimal.Decimal // per unit, HKD
}

// Performance summarizes one position's return versus its weighted-average
// cost, plus the per-day history used for charting.
type Performance struct {
	Ticker        string
	EntryDate     dates.Date // first buy
	AvgCost       decimal.Decimal
	Units         decimal.Decimal
	CurrentPrice  float64
	PctChange     float64 // percent vs average cost
	DailyChange   float64 // today's return minus yesterday's
	UnrealizedPnL decimal.Decimal
	History       []PerformancePoint
}

// PerformancePoint is one charted point: percent change from entry on a date.
type PerformancePoint struct {
	Date dates.Date
	Pct  float64
}
