package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"PortfolioPulse/internal/dates"
	"PortfolioPulse/internal/model"
)

const defaultFMPBaseURL = "https://financialmodelingprep.com"

// FMPFetcher implements Fetcher against the Financial Modeling Prep
// historical-price-full endpoint.
type FMPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFMPFetcher creates a fetcher with optional proxy support. baseURL may
// be empty to use the public endpoint.
func NewFMPFetcher(baseURL, apiKey, proxyURL string) *FMPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = defaultFMPBaseURL
	}
	return &FMPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FMPFetcher) Name() string { return "fmp" }

// hkSymbol maps an HK stock code to FMP's exchange-qualified form,
// e.g. "9988" -> "9988.HK".
func hkSymbol(code string) string { return code + ".HK" }

// fmpHistorical is the response shape of /api/v3/historical-price-full.
type fmpHistorical struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	} `json:"historical"`
}

// FetchCloses retrieves daily closes for the range. The response may be
// sparse relative to the request (non-trading days); an empty series is a
// valid result.
func (f *FMPFetcher) FetchCloses(ctx context.Context, ticker string, rng dates.Range) (model.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/api/v3/historical-price-full/%s?from=%s&to=%s&apikey=%s",
		f.BaseURL, url.PathEscape(hkSymbol(ticker)), rng.From, rng.To, url.QueryEscape(f.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRemoteUnavailable, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrRemoteUnavailable, hkSymbol(ticker), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body for %s: %v", ErrRemoteUnavailable, hkSymbol(ticker), err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d: %s", ErrRemoteUnavailable, hkSymbol(ticker), resp.StatusCode, truncate(body, 200))
	}

	var payload fmpHistorical
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrRemoteUnavailable, hkSymbol(ticker), err)
	}

	// FMP omits "historical" entirely when there is no data for the range.
	series := make(model.PriceSeries, len(payload.Historical))
	for _, bar := range payload.Historical {
		d, err := dates.Parse(bar.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date in %s response: %v", ErrRemoteUnavailable, hkSymbol(ticker), err)
		}
		if bar.Close <= 0 {
			log.Printf("[WARN] fmp: skipping non-positive close %s %s=%.4f", ticker, bar.Date, bar.Close)
			continue
		}
		series[d] = bar.Close
	}
	return series, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
