package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"myfunds/internal/config"
	apperrors "myfunds/internal/errors"
	"myfunds/internal/logger"
)

// YahooClient fetches quotes and candles from a Yahoo-style chart API.
type YahooClient struct {
	client *resty.Client
}

// NewYahooClient creates a quote provider against cfg.QuoteAPIURL with a
// bounded request timeout.
func NewYahooClient(cfg *config.Config) *YahooClient {
	client := resty.New().
		SetBaseURL(cfg.QuoteAPIURL).
		SetTimeout(cfg.MarketTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; myfunds/1.0)")
	return &YahooClient{client: client}
}

// chartResponse mirrors the relevant slice of the chart API payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote returns the regular market price and native currency for a symbol.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (Quote, error) {
	body, err := c.fetchChart(ctx, symbol, "1d")
	if err != nil {
		return Quote{}, err
	}

	meta := body.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return Quote{}, apperrors.ErrTickerNotFound
	}

	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}
	return Quote{Price: meta.RegularMarketPrice, Currency: currency}, nil
}

// Candles returns daily OHLC bars for the given range. Bars with no
// close price (market holidays, half-filled sessions) are skipped.
func (c *YahooClient) Candles(ctx context.Context, symbol, candleRange string) ([]Candle, error) {
	body, err := c.fetchChart(ctx, symbol, candleRange)
	if err != nil {
		return nil, err
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart API returned no quote series for %s", symbol)
	}

	series := result.Indicators.Quote[0]
	candles := make([]Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(series.Close) || series.Close[i] == 0 {
			continue
		}
		candle := Candle{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: series.Close[i],
		}
		if i < len(series.Open) {
			candle.Open = series.Open[i]
		}
		if i < len(series.High) {
			candle.High = series.High[i]
		}
		if i < len(series.Low) {
			candle.Low = series.Low[i]
		}
		if i < len(series.Volume) {
			candle.Volume = series.Volume[i]
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol, candleRange string) (*chartResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"range":    candleRange,
			"interval": "1d",
		}).
		Get("/v8/finance/chart/" + symbol)
	if err != nil {
		logger.Get().Errorw("quote provider request failed", "symbol", symbol, "error", err.Error())
		return nil, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, apperrors.ErrTickerNotFound
	}

	var body chartResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("chart API returned malformed payload: %w", err)
	}

	if body.Chart.Error != nil {
		if body.Chart.Error.Code == "Not Found" {
			return nil, apperrors.ErrTickerNotFound
		}
		return nil, fmt.Errorf("chart API error: %s", body.Chart.Error.Description)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chart API error: %s", resp.Status())
	}
	if len(body.Chart.Result) == 0 {
		return nil, apperrors.ErrTickerNotFound
	}
	return &body, nil
}
