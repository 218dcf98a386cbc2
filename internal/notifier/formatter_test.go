package notifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/reconciler"
)

func TestFormatCaption(t *testing.T) {
	perfs := []*model.Performance{
		{Ticker: "9988", PctChange: 12.5, DailyChange: -0.8, AvgCost: decimal.RequireFromString("205.50")},
		{Ticker: "0388", PctChange: -3.25, DailyChange: 0.4, AvgCost: decimal.RequireFromString("460.00")},
	}
	failures := []reconciler.Failure{{Ticker: "0728", Err: errors.New("status 429")}}

	got := FormatCaption(dates.MustParse("2025-10-24"), perfs, failures)

	for _, want := range []string{
		"HK Portfolio Update 2025-10-24",
		"9988 +12.50% (-0.80% today, avg HK$205.50)",
		"0388 -3.25% (+0.40% today, avg HK$460.00)",
		"stale data for: 0728",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("caption missing %q:\n%s", want, got)
		}
	}
}

func TestFormatCaptionNoFailures(t *testing.T) {
	got := FormatCaption(dates.MustParse("2025-10-24"), nil, nil)
	if strings.Contains(got, "stale data") {
		t.Errorf("no failure line expected:\n%s", got)
	}
}
