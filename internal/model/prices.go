package model

import (
	"slices"

	"PortfolioPulse/internal/dates"
)

// PriceSeries maps calendar dates to daily close prices for one ticker.
// Keys are unique by construction; prices are always positive (Merge in the
// pricecache package enforces this on the way in).
type PriceSeries map[dates.Date]float64

// Dates returns the series' dates sorted ascending.
func (s PriceSeries) Dates() []dates.Date {
	out := make([]dates.Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	slices.SortFunc(out, dates.Date.Compare)
	return out
}

// LastDate returns the most recent date in the series, or false if empty.
func (s PriceSeries) LastDate() (dates.Date, bool) {
	var last dates.Date
	for d := range s {
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	return last, !last.IsZero()
}

// Clone returns a deep copy of the series.
func (s PriceSeries) Clone() PriceSeries {
	out := make(PriceSeries, len(s))
	for d, p := range s {
		out[d] = p
	}
	return out
}

// CacheDocument is the persisted price cache: one PriceSeries per tracked
// ticker plus the sorted union of dates seen across all tickers. The JSON
// shape is stable and additive-only; there is no version field.
type CacheDocument struct {
	Dates  []dates.Date           `json:"dates"`
	Stocks map[string]PriceSeries `json:"stocks"`
}

// NewCacheDocument returns an empty document, the expected first-run state.
func NewCacheDocument() *CacheDocument {
	return &CacheDocument{Stocks: make(map[string]PriceSeries)}
}

// Series returns the ticker's series, or an empty one if untracked so far.
func (c *CacheDocument) Series(ticker string) PriceSeries {
	return c.Stocks[ticker]
}

// RefreshDates recomputes the observed-date union across all tickers.
// Called on save so the persisted document stays self-describing.
func (c *CacheDocument) RefreshDates() {
	seen := make(map[dates.Date]struct{})
	for _, series := range c.Stocks {
		for d := range series {
			seen[d] = struct{}{}
		}
	}
	all := make([]dates.Date, 0, len(seen))
	for d := range seen {
		all = append(all, d)
	}
	slices.SortFunc(all, dates.Date.Compare)
	c.Dates = all
}
