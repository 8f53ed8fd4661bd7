package market

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/logger"
)

// DefaultCacheTTL is how long a cached price or rate stays fresh.
const DefaultCacheTTL = time.Hour

type priceEntry struct {
	price     float64
	currency  string
	fetchedAt time.Time
}

type rateEntry struct {
	rate      float64
	fetchedAt time.Time
}

// Service caches price and exchange-rate lookups in memory for the
// process lifetime. One Service per running server; construct it
// explicitly and inject it where needed so tests can substitute fake
// providers and clocks.
//
// The mutex only guards map integrity. Two requests racing on the same
// cold key may both miss and both fetch; redundant but harmless since
// reads are idempotent.
type Service struct {
	quotes QuoteProvider
	rates  RateProvider
	ttl    time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	priceCache map[string]priceEntry
	rateCache  map[string]rateEntry
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the cache freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a market data service backed by the given providers.
func NewService(quotes QuoteProvider, rates RateProvider, opts ...Option) *Service {
	s := &Service{
		quotes:     quotes,
		rates:      rates,
		ttl:        DefaultCacheTTL,
		now:        time.Now,
		priceCache: make(map[string]priceEntry),
		rateCache:  make(map[string]rateEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPrice returns the current price for a ticker in its native quoted
// currency. Fresh cache entries are served directly. On a miss the quote
// provider is called and the result cached. If the provider call fails
// and any cache entry exists, even one past its TTL, the stale entry is
// served instead of the error. With no entry at all, an unknown symbol
// surfaces as ErrTickerNotFound and anything else as ErrMarketUnavailable.
func (s *Service) GetPrice(ctx context.Context, ticker string) (PriceData, error) {
	symbol := NormalizeTicker(ticker)
	if symbol == "" {
		return PriceData{}, apperrors.WithField(apperrors.ErrInvalidInput, "Ticker is required", "ticker")
	}

	now := s.now()

	s.mu.RLock()
	entry, found := s.priceCache[symbol]
	s.mu.RUnlock()

	if found && now.Sub(entry.fetchedAt) < s.ttl {
		return priceData(symbol, entry, true), nil
	}

	quote, err := s.quotes.Quote(ctx, symbol)
	if err != nil {
		if found {
			logger.Get().Warnw("serving stale price after provider failure",
				"ticker", symbol,
				"fetched_at", entry.fetchedAt,
				"error", err.Error(),
			)
			return priceData(symbol, entry, true), nil
		}
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			return PriceData{}, apperrors.ErrTickerNotFound
		}
		return PriceData{}, apperrors.Wrap(apperrors.ErrMarketUnavailable, err)
	}

	fresh := priceEntry{price: quote.Price, currency: quote.Currency, fetchedAt: now}
	s.mu.Lock()
	s.priceCache[symbol] = fresh
	s.mu.Unlock()

	return priceData(symbol, fresh, false), nil
}

// GetExchangeRate returns the conversion rate between two currencies.
// Identical currencies short-circuit to rate 1 with no external call.
// Rates share the price cache's TTL and mirror its stale-on-error
// fallback so both lookups degrade the same way.
func (s *Service) GetExchangeRate(ctx context.Context, from, to string) (RateData, error) {
	from = NormalizeTicker(from)
	to = NormalizeTicker(to)
	if from == "" || to == "" {
		return RateData{}, apperrors.WithField(apperrors.ErrInvalidInput, "Currency pair is required", "currency")
	}

	now := s.now()
	if from == to {
		return RateData{From: from, To: to, Rate: 1, Timestamp: now, Cached: true}, nil
	}

	key := from + "/" + to

	s.mu.RLock()
	entry, found := s.rateCache[key]
	s.mu.RUnlock()

	if found && now.Sub(entry.fetchedAt) < s.ttl {
		return RateData{From: from, To: to, Rate: entry.rate, Timestamp: entry.fetchedAt, Cached: true}, nil
	}

	rate, err := s.rates.Rate(ctx, from, to)
	if err != nil {
		if found {
			logger.Get().Warnw("serving stale exchange rate after provider failure",
				"pair", key,
				"fetched_at", entry.fetchedAt,
				"error", err.Error(),
			)
			return RateData{From: from, To: to, Rate: entry.rate, Timestamp: entry.fetchedAt, Cached: true}, nil
		}
		return RateData{}, apperrors.Wrap(apperrors.ErrMarketUnavailable, err)
	}

	s.mu.Lock()
	s.rateCache[key] = rateEntry{rate: rate, fetchedAt: now}
	s.mu.Unlock()

	return RateData{From: from, To: to, Rate: rate, Timestamp: now, Cached: false}, nil
}

// GetCandles returns the historical OHLC series for a ticker. Candles
// are always fetched live, never cached, and are returned in ascending
// chronological order regardless of provider ordering.
func (s *Service) GetCandles(ctx context.Context, ticker, candleRange string) ([]Candle, error) {
	symbol := NormalizeTicker(ticker)
	if symbol == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "Ticker is required", "ticker")
	}
	if !ValidRange(candleRange) {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "Invalid candle range", "range")
	}

	candles, err := s.quotes.Candles(ctx, symbol, candleRange)
	if err != nil {
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			return nil, apperrors.ErrTickerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrMarketUnavailable, err)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Date < candles[j].Date })
	return candles, nil
}

// Status reports the market data layer as operational along with the
// configured cache TTL and a rough next-refresh estimate.
func (s *Service) Status() StatusData {
	now := s.now()
	return StatusData{
		Status:          "operational",
		LastUpdated:     now,
		CacheTTLSeconds: int(s.ttl.Seconds()),
		NextRefresh:     now.Add(s.ttl),
	}
}

func priceData(symbol string, entry priceEntry, cached bool) PriceData {
	return PriceData{
		Ticker:    symbol,
		Price:     entry.price,
		Currency:  entry.currency,
		Timestamp: entry.fetchedAt,
		Cached:    cached,
	}
}
