// Package market provides current prices, exchange rates and historical
// candles for tickers, minimizing calls to the external providers with an
// in-memory TTL cache.
package market

import (
	"context"
	"strings"
	"time"
)

// Quote is a spot price in its native quoted currency.
type Quote struct {
	Price    float64
	Currency string
}

// Candle is a single OHLC bar keyed by calendar date.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// QuoteProvider is the external price provider contract. Implementations
// must return apperrors.ErrTickerNotFound when the provider explicitly
// reports an unknown symbol, so upstream input validation can tell
// permanent rejections from transient failures.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
	Candles(ctx context.Context, symbol, candleRange string) ([]Candle, error)
}

// RateProvider is the external exchange-rate provider contract.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// PriceData is the enriched price lookup result.
type PriceData struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached"`
}

// RateData is the enriched exchange-rate lookup result.
type RateData struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      float64   `json:"rate"`
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached"`
}

// StatusData is the liveness/introspection payload for the market data
// layer. Status is "operational" whenever the service is reachable; no
// deeper health check is performed.
type StatusData struct {
	Status          string    `json:"status"`
	LastUpdated     time.Time `json:"last_updated"`
	CacheTTLSeconds int       `json:"cache_ttl_seconds"`
	NextRefresh     time.Time `json:"next_refresh"`
}

// validRanges are the accepted candle range identifiers.
var validRanges = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true, "1y": true,
}

// ValidRange reports whether r is an accepted candle range.
func ValidRange(r string) bool {
	return validRanges[r]
}

// NormalizeTicker canonicalizes a ticker symbol for cache keys and
// provider calls.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
