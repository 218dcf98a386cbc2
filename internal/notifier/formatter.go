// Package notifier delivers run results to Telegram.
package notifier

import (
	"fmt"
	"strings"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/reconciler"
)

// FormatCaption builds the photo caption: one line per position plus any
// tickers whose fetch failed this run.
func FormatCaption(today dates.Date, perfs []*model.Performance, failures []reconciler.Failure) string {
	var b strings.Builder
	fmt.Fprintf(&b, "HK Portfolio Update %s\n", today)

	for _, p := range perfs {
		fmt.Fprintf(&b, "%s %+.2f%% (%+.2f%% today, avg HK$%s)\n",
			p.Ticker, p.PctChange, p.DailyChange, p.AvgCost.StringFixed(2))
	}

	if len(failures) > 0 {
		tickers := make([]string, len(failures))
		for i, f := range failures {
			tickers[i] = f.Ticker
		}
		fmt.Fprintf(&b, "⚠️ stale data for: %s", strings.Join(tickers, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRunFailure builds the message sent when a run dies before producing
// a chart.
func FormatRunFailure(today dates.Date, err error) string {
	return fmt.Sprintf("❌ Portfolio run %s failed: %v", today, err)
}
