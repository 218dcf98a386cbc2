// Package portfolio loads the transaction ledger and computes per-position
// performance against the assembled price table.
package portfolio

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
)

// CSV column headers of the broker's portfolio export.
const (
	colDate     = "Date"
	colStock    = "Stock"
	colType     = "Type"
	colUnits    = "Transacted Units"
	colPrice    = "Transacted Price (per unit)"
	colCategory = "Investment Category"
)

// Ledger holds buy/sell transactions per HK ticker, chronologically sorted.
type Ledger struct {
	transactions map[string][]model.Transaction
}

// LoadLedger reads the portfolio CSV export, keeping only HK-stock rows with
// a 4-digit numeric code. Rows with unparsable dates are skipped.
func LoadLedger(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("ledger %s: empty file", path)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{colDate, colStock, colType, colUnits, colPrice} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("ledger %s: missing column %q", path, col)
		}
	}

	l := &Ledger{transactions: make(map[string][]model.Transaction)}
	for _, row := range rows[1:] {
		field := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if cat, ok := idx[colCategory]; ok && cat < len(row) && !strings.Contains(row[cat], "HK Stock") {
			continue
		}
		code := field(colStock)
		if !isHKCode(code) {
			continue
		}
		date, ok := parseLedgerDate(field(colDate))
		if !ok {
			continue
		}
		side := model.Side(field(colType))
		if side != model.Buy && side != model.Sell {
			continue
		}
		units := cleanCurrency(field(colUnits))
		price := cleanCurrency(field(colPrice))
		if !units.IsPositive() {
			continue
		}

		l.transactions[code] = append(l.transactions[code], model.Transaction{
			Date:   date,
			Ticker: code,
			Side:   side,
			Units:  units,
			Price:  price,
		})
	}

	for code := range l.transactions {
		slices.SortStableFunc(l.transactions[code], func(a, b model.Transaction) int {
			return a.Date.Compare(b.Date)
		})
	}
	return l, nil
}

// Tickers returns the codes with a positive net position, sorted.
func (l *Ledger) Tickers() []string {
	out := make([]string, 0, len(l.transactions))
	for code, txs := range l.transactions {
		net := decimal.Zero
		for _, tx := range txs {
			if tx.Side == model.Buy {
				net = net.Add(tx.Units)
			} else {
				net = net.Sub(tx.Units)
			}
		}
		if net.IsPositive() {
			out = append(out, code)
		}
	}
	slices.Sort(out)
	return out
}

// Transactions returns the ticker's transactions in date order.
func (l *Ledger) Transactions(ticker string) []model.Transaction {
	return l.transactions[ticker]
}

// FirstBuy returns the date of the ticker's first buy, or false.
func (l *Ledger) FirstBuy(ticker string) (dates.Date, bool) {
	for _, tx := range l.transactions[ticker] {
		if tx.Side == model.Buy {
			return tx.Date, true
		}
	}
	return dates.Date{}, false
}

func isHKCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// cleanCurrency strips currency decoration ("$", ",", "HK") and reads
// parenthesised values as negative. Unparsable values become zero, matching
// the forgiving treatment of hand-maintained broker exports.
func cleanCurrency(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	for _, junk := range []string{"$", ",", "HK"} {
		s = strings.ReplaceAll(s, junk, "")
	}
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		return d.Neg()
	}
	return d
}

var ledgerDateFormats = []string{"2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006"}

func parseLedgerDate(s string) (dates.Date, bool) {
	for _, layout := range ledgerDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return dates.FromTime(t), true
		}
	}
	return dates.Date{}, false
}
