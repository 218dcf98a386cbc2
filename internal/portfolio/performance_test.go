package portfolio

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/series"
)

func ledgerWith(txs ...model.Transaction) *Ledger {
	l := &Ledger{transactions: make(map[string][]model.Transaction)}
	for _, tx := range txs {
		l.transactions[tx.Ticker] = append(l.transactions[tx.Ticker], tx)
	}
	return l
}

func tx(date string, ticker string, side model.Side, units, price int64) model.Transaction {
	return model.Transaction{
		Date:   dates.MustParse(date),
		Ticker: ticker,
		Side:   side,
		Units:  decimal.NewFromInt(units),
		Price:  decimal.NewFromInt(price),
	}
}

func tableFor(ticker string, closes map[string]float64) *series.Table {
	doc := model.NewCacheDocument()
	s := make(model.PriceSeries)
	for d, p := range closes {
		s[dates.MustParse(d)] = p
	}
	doc.Stocks[ticker] = s
	return series.Assemble(doc, []string{ticker}, dates.NewRange(
		dates.MustParse("2021-01-01"), dates.MustParse("2021-12-31")))
}

func approx(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func TestComputeSingleBuy(t *testing.T) {
	l := ledgerWith(tx("2021-03-15", "9988", model.Buy, 100, 200))
	tbl := tableFor("9988", map[string]float64{
		"2021-03-15": 200,
		"2021-03-16": 220,
		"2021-03-17": 210,
	})

	perfs := Compute(l, tbl)
	if len(perfs) != 1 {
		t.Fatalf("expected 1 performance, got %d", len(perfs))
	}
	p := perfs[0]

	if p.History[0].Pct != 0 {
		t.Errorf("first point must be forced to 0%%, got %v", p.History[0].Pct)
	}
	approx(t, p.History[1].Pct, 10, "day 2 return")
	approx(t, p.History[2].Pct, 5, "day 3 return")
	approx(t, p.PctChange, 5, "current return")
	approx(t, p.DailyChange, -5, "daily change")
	if !p.UnrealizedPnL.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("pnl = %s, want 1000", p.UnrealizedPnL)
	}
}

func TestComputeWeightedAverageWithSell(t *testing.T) {
	// Buy 100 @ 200, buy 100 @ 100 -> avg 150. Sell 50 relieves cost at the
	// 150 average, leaving 150 units at avg 150.
	l := ledgerWith(
		tx("2021-03-01", "9988", model.Buy, 100, 200),
		tx("2021-03-02", "9988", model.Buy, 100, 100),
		tx("2021-03-03", "9988", model.Sell, 50, 180),
	)
	tbl := tableFor("9988", map[string]float64{
		"2021-03-01": 200,
		"2021-03-02": 150,
		"2021-03-03": 180,
	})

	p := Compute(l, tbl)[0]
	if !p.AvgCost.Equal(decimal.NewFromInt(150)) {
		t.Errorf("avg cost = %s, want 150", p.AvgCost)
	}
	if !p.Units.Equal(decimal.NewFromInt(150)) {
		t.Errorf("units = %s, want 150", p.Units)
	}
	approx(t, p.PctChange, 20, "return vs 150 avg at close 180")
}

func TestComputeTransactionsApplyOnTheirDate(t *testing.T) {
	l := ledgerWith(
		tx("2021-03-01", "9988", model.Buy, 100, 100),
		tx("2021-03-03", "9988", model.Buy, 100, 200),
	)
	tbl := tableFor("9988", map[string]float64{
		"2021-03-01": 100,
		"2021-03-02": 200, // only the first buy counts here: +100%
		"2021-03-03": 200, // avg is now 150: +33.33%
	})

	p := Compute(l, tbl)[0]
	approx(t, p.History[1].Pct, 100, "before second buy")
	approx(t, p.History[2].Pct, 100.0/3.0, "after second buy")
}

func TestComputeCapsExtremeReturns(t *testing.T) {
	l := ledgerWith(tx("2021-03-01", "9988", model.Buy, 100, 1))
	tbl := tableFor("9988", map[string]float64{
		"2021-03-01": 1,
		"2021-03-02": 500,
	})
	p := Compute(l, tbl)[0]
	approx(t, p.History[1].Pct, 1000, "history capped at +1000%")
	// The headline number stays uncapped.
	approx(t, p.PctChange, 49900, "headline return uncapped")
}

func TestComputeSkipsDatesBeforeEntryAndInvalidCells(t *testing.T) {
	l := ledgerWith(tx("2021-03-02", "9988", model.Buy, 10, 100))
	tbl := tableFor("9988", map[string]float64{
		"2021-03-01": 90, // pre-entry
		"2021-03-02": 100,
		"2021-03-04": 110,
	})
	p := Compute(l, tbl)[0]
	if len(p.History) != 2 {
		t.Fatalf("history = %v, want 2 points", p.History)
	}
	if p.History[0].Date.String() != "2021-03-02" {
		t.Errorf("history starts at %s, want entry date", p.History[0].Date)
	}
}

func TestComputeZeroCostBasisReturnsZero(t *testing.T) {
	// A buy whose price failed currency cleaning carries price 0, so the
	// position has units but no cost basis. Returns must come back as 0
	// rather than dividing by the zero average.
	l := ledgerWith(tx("2021-03-01", "9988", model.Buy, 100, 0))
	tbl := tableFor("9988", map[string]float64{
		"2021-03-01": 100,
		"2021-03-02": 120,
	})

	perfs := Compute(l, tbl)
	if len(perfs) != 1 {
		t.Fatalf("expected 1 performance, got %d", len(perfs))
	}
	p := perfs[0]
	approx(t, p.PctChange, 0, "headline return with no cost basis")
	for _, pt := range p.History {
		approx(t, pt.Pct, 0, "history point "+pt.Date.String())
	}
	if !p.AvgCost.IsZero() {
		t.Errorf("avg cost = %s, want 0", p.AvgCost)
	}
}

func TestComputeIgnoresTickersWithoutPrices(t *testing.T) {
	l := ledgerWith(
		tx("2021-03-01", "9988", model.Buy, 10, 100),
		tx("2021-03-01", "0728", model.Buy, 10, 4),
	)
	tbl := tableFor("9988", map[string]float64{"2021-03-01": 100})
	perfs := Compute(l, tbl)
	if len(perfs) != 1 || perfs[0].Ticker != "9988" {
		t.Errorf("expected only 9988, got %v", perfs)
	}
}
