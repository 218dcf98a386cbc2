// Package reconciler brings the price cache up to date with the remote
// source for every tracked ticker.
package reconciler

import (
	"context"
	"fmt"
	"log"

	"PortfolioPulse/internal/collector"
	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/pricecache"
)

// Failure records a single ticker whose fetch failed this run. Its cached
// data is untouched; the run continues with the remaining tickers.
type Failure struct {
	Ticker string
	Err    error
}

func (f Failure) String() string { return fmt.Sprintf("%s: %v", f.Ticker, f.Err) }

// Result is the outcome of one reconciliation run.
type Result struct {
	Doc      *model.CacheDocument
	Window   dates.Range
	Fetched  int            // price points merged into the cache this run
	Merged   map[string]int // per-ticker share of Fetched
	Failures []Failure
}

// Reconciler walks the ticker list once per run, fetching only the dates
// the cache is missing and persisting the merged document at the end.
type Reconciler struct {
	Store   *pricecache.Store
	Fetcher collector.Fetcher
	Tickers []string
	Start   dates.Date // beginning of the desired window; end is "today" per run
}

// New creates a Reconciler.
func New(store *pricecache.Store, fetcher collector.Fetcher, tickers []string, start dates.Date) *Reconciler {
	return &Reconciler{Store: store, Fetcher: fetcher, Tickers: tickers, Start: start}
}

// Run reconciles all tickers against the window [Start, today]. today is
// fixed by the caller for the whole run so mid-run clock reads cannot move
// the boundary. A store-level error aborts the run; per-ticker fetch
// failures are collected and returned alongside the merged document.
func (r *Reconciler) Run(ctx context.Context, today dates.Date) (*Result, error) {
	doc, err := r.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}

	window := dates.NewRange(r.Start, today)
	res := &Result{Doc: doc, Window: window, Merged: make(map[string]int)}

	for _, ticker := range r.Tickers {
		missing, ok := pricecache.MissingRange(doc.Series(ticker), window)
		if !ok {
			log.Printf("[INFO] %s is up to date", ticker)
			continue
		}

		fragment, err := r.Fetcher.FetchCloses(ctx, ticker, missing)
		if err != nil {
			log.Printf("[ERROR] fetch %s %s: %v", ticker, missing, err)
			res.Failures = append(res.Failures, Failure{Ticker: ticker, Err: err})
			continue
		}
		if len(fragment) == 0 {
			// Range fell entirely on non-trading days; nothing new.
			log.Printf("[INFO] %s: no data for %s", ticker, missing)
			continue
		}

		n := pricecache.Merge(doc, ticker, fragment)
		res.Fetched += n
		res.Merged[ticker] = n
		log.Printf("[INFO] %s: merged %d points for %s", ticker, n, missing)
	}

	if err := r.Store.Save(doc); err != nil {
		return nil, fmt.Errorf("save cache: %w", err)
	}
	return res, nil
}
