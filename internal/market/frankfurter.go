package market

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"myfunds/internal/config"
	"myfunds/internal/logger"
)

// FrankfurterClient fetches currency conversion rates from a
// Frankfurter-style exchange-rate API.
type FrankfurterClient struct {
	client *resty.Client
}

// NewFrankfurterClient creates a rate provider against cfg.RateAPIURL
// with a bounded request timeout.
func NewFrankfurterClient(cfg *config.Config) *FrankfurterClient {
	client := resty.New().
		SetBaseURL(cfg.RateAPIURL).
		SetTimeout(cfg.MarketTimeout).
		SetHeader("Accept", "application/json")
	return &FrankfurterClient{client: client}
}

// Rate returns the latest conversion rate from one currency to another.
func (c *FrankfurterClient) Rate(ctx context.Context, from, to string) (float64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from": from,
			"to":   to,
		}).
		Get("/latest")
	if err != nil {
		logger.Get().Errorw("rate provider request failed", "from", from, "to", to, "error", err.Error())
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("exchange rate API error: %s", resp.Status())
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("exchange rate API returned malformed payload: %w", err)
	}

	rate, ok := body.Rates[to]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("exchange rate API response missing rate for %s", to)
	}
	return rate, nil
}
