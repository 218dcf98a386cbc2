// Package pricecache owns the durable per-ticker close-price cache and the
// logic deciding which dates still need to be fetched.
package pricecache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"PortfolioPulse/internal/model"
)

// Store reads and writes the cache document at a fixed path.
type Store struct {
	Path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store { return &Store{Path: path} }

// Load reads the persisted cache. A missing file is the expected first-run
// state and yields an empty document; an unreadable or corrupt file is an
// error (the caller must not reconcile against state it cannot trust).
func (s *Store) Load() (*model.CacheDocument, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewCacheDocument(), nil
		}
		return nil, fmt.Errorf("read price cache %s: %w", s.Path, err)
	}
	doc := model.NewCacheDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse price cache %s: %w", s.Path, err)
	}
	if doc.Stocks == nil {
		doc.Stocks = make(map[string]model.PriceSeries)
	}
	return doc, nil
}

// Save persists the full document, replacing prior content. The write goes
// to a temp file in the same directory followed by a rename, so an
// interrupted run never leaves a half-written cache behind.
func (s *Store) Save(doc *model.CacheDocument) error {
	doc.RefreshDates()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode price cache: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace price cache %s: %w", s.Path, err)
	}
	return nil
}

// Merge inserts each date→price pair from fragment into the document's
// series for ticker. Existing dates are overwritten (last write wins).
// Non-positive prices are dropped with a warning; the remote feed sometimes
// emits junk bars and they must never reach the cache. Returns the number
// of points actually merged.
func Merge(doc *model.CacheDocument, ticker string, fragment model.PriceSeries) int {
	if len(fragment) == 0 {
		return 0
	}
	series := doc.Stocks[ticker]
	if series == nil {
		series = make(model.PriceSeries, len(fragment))
		doc.Stocks[ticker] = series
	}
	merged := 0
	for d, price := range fragment {
		if price <= 0 {
			log.Printf("[WARN] dropping non-positive close %s %s=%.4f", ticker, d, price)
			continue
		}
		series[d] = price
		merged++
	}
	return merged
}
