package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"PortfolioPulse/internal/dates"
)

func window(t *testing.T) dates.Range {
	t.Helper()
	return dates.NewRange(dates.MustParse("2021-01-01"), dates.MustParse("2021-01-05"))
}

func TestFMPFetchCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/historical-price-full/9988.HK" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("from") != "2021-01-01" || q.Get("to") != "2021-01-05" {
			t.Errorf("unexpected range %s..%s", q.Get("from"), q.Get("to"))
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("missing apikey")
		}
		w.Write([]byte(`{"symbol":"9988.HK","historical":[
			{"date":"2021-01-05","close":231.0},
			{"date":"2021-01-04","close":228.2},
			{"date":"2021-01-01","close":0}
		]}`))
	}))
	defer srv.Close()

	f := NewFMPFetcher(srv.URL, "test-key", "")
	series, err := f.FetchCloses(context.Background(), "9988", window(t))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 points (zero close dropped), got %d", len(series))
	}
	if series[dates.MustParse("2021-01-04")] != 228.2 {
		t.Errorf("wrong close for 2021-01-04: %v", series)
	}
}

func TestFMPNoHistoricalKeyMeansNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"9988.HK"}`))
	}))
	defer srv.Close()

	series, err := NewFMPFetcher(srv.URL, "k", "").FetchCloses(context.Background(), "9988", window(t))
	if err != nil {
		t.Fatalf("empty result must be success, got %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %v", series)
	}
}

func TestFMPErrorsWrapRemoteUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"rate limited", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"historical": "nope"`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewFMPFetcher(srv.URL, "k", "").FetchCloses(context.Background(), "0388", window(t))
			if !errors.Is(err, ErrRemoteUnavailable) {
				t.Errorf("expected ErrRemoteUnavailable, got %v", err)
			}
		})
	}
}
