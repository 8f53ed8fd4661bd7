package services

import (
	"context"
	"time"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/market"
)

// stubMarket is a canned MarketDataProvider for service tests. Prices
// are keyed by ticker, rates by "FROM/TO". Unknown tickers return the
// ticker-not-found error; unknown pairs default to rate 1.
type stubMarket struct {
	prices     map[string]float64
	currencies map[string]string
	rates      map[string]float64
	priceErrs  map[string]error
	rateErr    error

	priceCalls int
	rateCalls  int
}

func newStubMarket() *stubMarket {
	return &stubMarket{
		prices:     make(map[string]float64),
		currencies: make(map[string]string),
		rates:      make(map[string]float64),
		priceErrs:  make(map[string]error),
	}
}

func (m *stubMarket) setPrice(ticker string, price float64, currency string) {
	m.prices[ticker] = price
	m.currencies[ticker] = currency
}

func (m *stubMarket) GetPrice(_ context.Context, ticker string) (market.PriceData, error) {
	m.priceCalls++
	if err, ok := m.priceErrs[ticker]; ok {
		return market.PriceData{}, err
	}
	price, ok := m.prices[ticker]
	if !ok {
		return market.PriceData{}, apperrors.ErrTickerNotFound
	}
	currency := m.currencies[ticker]
	if currency == "" {
		currency = "USD"
	}
	return market.PriceData{
		Ticker:    ticker,
		Price:     price,
		Currency:  currency,
		Timestamp: time.Now(),
	}, nil
}

func (m *stubMarket) GetExchangeRate(_ context.Context, from, to string) (market.RateData, error) {
	m.rateCalls++
	if from == to {
		return market.RateData{From: from, To: to, Rate: 1, Timestamp: time.Now()}, nil
	}
	if m.rateErr != nil {
		return market.RateData{}, m.rateErr
	}
	rate, ok := m.rates[from+"/"+to]
	if !ok {
		rate = 1
	}
	return market.RateData{From: from, To: to, Rate: rate, Timestamp: time.Now()}, nil
}
