package collector

import (
	"context"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Fragments maps ticker to the series returned for any range; Errs maps
// ticker to a forced failure. Calls records every requested range per ticker.
type MockFetcher struct {
	Fragments map[string]model.PriceSeries
	Errs      map[string]error
	Calls     map[string][]dates.Range
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Fragments: make(map[string]model.PriceSeries),
		Errs:      make(map[string]error),
		Calls:     make(map[string][]dates.Range),
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCloses(_ context.Context, ticker string, rng dates.Range) (model.PriceSeries, error) {
	m.Calls[ticker] = append(m.Calls[ticker], rng)
	if err := m.Errs[ticker]; err != nil {
		return nil, err
	}
	// Only return the points inside the requested range, like the real API.
	out := make(model.PriceSeries)
	for d, p := range m.Fragments[ticker] {
		if rng.Contains(d) {
			out[d] = p
		}
	}
	return out, nil
}
