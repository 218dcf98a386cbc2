// Package collector fetches daily close prices from the remote price API.
package collector

import (
	"context"
	"errors"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
)

// ErrRemoteUnavailable marks a failed fetch: network, auth, rate limit or a
// malformed response. Callers skip the ticker for this run and keep its
// cached data untouched.
var ErrRemoteUnavailable = errors.New("remote price source unavailable")

// Fetcher retrieves close prices for a ticker over a date range. An empty
// fragment on success means the range held no trading data (weekends,
// holidays) and is not an error.
type Fetcher interface {
	FetchCloses(ctx context.Context, ticker string, rng dates.Range) (model.PriceSeries, error)
	Name() string
}
