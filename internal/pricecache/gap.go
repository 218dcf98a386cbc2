package pricecache

import (
	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
)

// MissingRange computes the dates still to fetch for a series given the
// desired window. The cache only ever trails behind the present: an empty
// series is missing the whole window, otherwise the gap runs from the day
// after the last cached date through the end of the window. Dates before
// the last cached date are never re-checked, so interior gaps (non-trading
// days, a sparse remote response) are not refetched. Returns ok=false when
// the series already covers the window and no fetch is needed.
func MissingRange(series model.PriceSeries, want dates.Range) (missing dates.Range, ok bool) {
	if want.IsEmpty() {
		return dates.Range{}, false
	}
	last, found := series.LastDate()
	if !found {
		return want, true
	}
	if !last.Before(want.To) {
		return dates.Range{}, false
	}
	from := last.Add(1)
	if from.Before(want.From) {
		from = want.From
	}
	return dates.NewRange(from, want.To), true
}
