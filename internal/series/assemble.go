// Package series turns the per-ticker price cache into a date-aligned table
// for downstream performance math and charting.
package series

import (
	"slices"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
)

// Cell is one table entry. Valid is false when the ticker has no close for
// that date; prices are never interpolated or carried forward here.
type Cell struct {
	Price float64
	Valid bool
}

// Table is a date-aligned view of the cache: rows are the sorted union of
// dates known for at least one ticker within the range, columns follow the
// ticker order given to Assemble.
type Table struct {
	Dates   []dates.Date
	Tickers []string
	Cells   [][]Cell // Cells[row][col]
}

// Assemble builds the table for the given tickers over rng. Dates outside
// rng are excluded even when cached.
func Assemble(doc *model.CacheDocument, tickers []string, rng dates.Range) *Table {
	union := make(map[dates.Date]struct{})
	for _, ticker := range tickers {
		for d := range doc.Series(ticker) {
			if rng.Contains(d) {
				union[d] = struct{}{}
			}
		}
	}
	all := make([]dates.Date, 0, len(union))
	for d := range union {
		all = append(all, d)
	}
	slices.SortFunc(all, dates.Date.Compare)

	t := &Table{
		Dates:   all,
		Tickers: slices.Clone(tickers),
		Cells:   make([][]Cell, len(all)),
	}
	for i, d := range all {
		row := make([]Cell, len(tickers))
		for j, ticker := range tickers {
			if price, ok := doc.Series(ticker)[d]; ok {
				row[j] = Cell{Price: price, Valid: true}
			}
		}
		t.Cells[i] = row
	}
	return t
}

// Column returns the index of ticker, or -1 if absent.
func (t *Table) Column(ticker string) int {
	return slices.Index(t.Tickers, ticker)
}

// At returns the cell for a row index and ticker. Missing tickers read as
// an invalid cell.
func (t *Table) At(row int, ticker string) Cell {
	col := t.Column(ticker)
	if col < 0 {
		return Cell{}
	}
	return t.Cells[row][col]
}

// Last returns the most recent valid price for ticker, or false if the
// ticker has no data in the table.
func (t *Table) Last(ticker string) (dates.Date, float64, bool) {
	col := t.Column(ticker)
	if col < 0 {
		return dates.Date{}, 0, false
	}
	for i := len(t.Dates) - 1; i >= 0; i-- {
		if c := t.Cells[i][col]; c.Valid {
			return t.Dates[i], c.Price, true
		}
	}
	return dates.Date{}, 0, false
}
