package portfolio

import (
	"github.com/shopspring/decimal"

	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/series"
)

// Return caps: a hand-typed ledger row with a misplaced decimal point would
// otherwise blow the chart's scale.
var (
	maxReturnPct = decimal.NewFromInt(1000)
	minReturnPct = decimal.NewFromInt(-100)
	hundred      = decimal.NewFromInt(100)
)

// position tracks a running cost basis over buys and sells. Sells relieve
// cost proportionally at the current average, they never realize a cost
// change for the remaining units.
type position struct {
	cost  decimal.Decimal
	units decimal.Decimal
}

func (p *position) apply(tx model.Transaction) {
	switch tx.Side {
	case model.Buy:
		p.cost = p.cost.Add(tx.Units.Mul(tx.Price))
		p.units = p.units.Add(tx.Units)
	case model.Sell:
		if p.units.IsPositive() {
			perUnit := p.cost.Div(p.units)
			p.cost = p.cost.Sub(perUnit.Mul(tx.Units))
			p.units = p.units.Sub(tx.Units)
		}
	}
}

func (p *position) avgCost() (decimal.Decimal, bool) {
	if !p.units.IsPositive() {
		return decimal.Zero, false
	}
	return p.cost.Div(p.units), true
}

// Compute derives performance for every ledger position present in the
// table. Dates where the ticker has no close are left out of the history
// rather than guessed at.
func Compute(ledger *Ledger, tbl *series.Table) []*model.Performance {
	var out []*model.Performance
	for _, ticker := range ledger.Tickers() {
		if perf := computeOne(ledger, tbl, ticker); perf != nil {
			out = append(out, perf)
		}
	}
	return out
}

func computeOne(ledger *Ledger, tbl *series.Table, ticker string) *model.Performance {
	entry, ok := ledger.FirstBuy(ticker)
	if !ok || tbl.Column(ticker) < 0 {
		return nil
	}
	txs := ledger.Transactions(ticker)

	var pos position
	next := 0 // next transaction to apply
	var history []model.PerformancePoint

	for row, d := range tbl.Dates {
		if d.Before(entry) {
			continue
		}
		cell := tbl.At(row, ticker)
		if !cell.Valid {
			continue
		}
		for next < len(txs) && !txs[next].Date.After(d) {
			pos.apply(txs[next])
			next++
		}
		avg, held := pos.avgCost()
		switch {
		case held:
			history = append(history, model.PerformancePoint{Date: d, Pct: returnPct(cell.Price, avg)})
		case len(history) > 0:
			// position fully closed mid-chart; hold the line at 0
			history = append(history, model.PerformancePoint{Date: d, Pct: 0})
		}
	}
	if len(history) == 0 {
		return nil
	}
	// The chart starts at the entry point, by definition a 0% return.
	history[0].Pct = 0

	// Final basis over the full ledger (later transactions may not be
	// reachable from the price table yet).
	var final position
	for _, tx := range txs {
		final.apply(tx)
	}
	avg, held := final.avgCost()
	if !held {
		return nil
	}

	_, current, ok := tbl.Last(ticker)
	if !ok {
		return nil
	}
	perf := &model.Performance{
		Ticker:        ticker,
		EntryDate:     entry,
		AvgCost:       avg,
		Units:         final.units,
		CurrentPrice:  current,
		PctChange:     uncappedReturnPct(current, avg),
		UnrealizedPnL: decimal.NewFromFloat(current).Sub(avg).Mul(final.units),
		History:       history,
	}
	if n := len(history); n >= 2 {
		perf.DailyChange = history[n-1].Pct - history[n-2].Pct
	}
	return perf
}

func returnPct(price float64, avg decimal.Decimal) float64 {
	// A zero average cost happens when every buy price failed currency
	// cleaning; there is no meaningful basis to measure against.
	if !avg.IsPositive() {
		return 0
	}
	pct := decimal.NewFromFloat(price).Sub(avg).Div(avg).Mul(hundred)
	if pct.GreaterThan(maxReturnPct) {
		pct = maxReturnPct
	} else if pct.LessThan(minReturnPct) {
		pct = minReturnPct
	}
	return pct.InexactFloat64()
}

func uncappedReturnPct(price float64, avg decimal.Decimal) float64 {
	if !avg.IsPositive() {
		return 0
	}
	return decimal.NewFromFloat(price).Sub(avg).Div(avg).Mul(hundred).InexactFloat64()
}
