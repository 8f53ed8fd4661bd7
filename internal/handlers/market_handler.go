package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/market"
)

// MarketServicer is the slice of the market data layer the HTTP surface
// exposes directly.
type MarketServicer interface {
	GetCandles(ctx context.Context, ticker, candleRange string) ([]market.Candle, error)
	Status() market.StatusData
}

// MarketHandler handles market data requests
type MarketHandler struct {
	marketService MarketServicer
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService MarketServicer) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// Status reports market data layer health and cache settings
// @Summary     Market data status
// @Description Report the market data layer status and cache configuration
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} market.StatusData "Status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /market/status [get]
func (h *MarketHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.marketService.Status())
}

// GetCandles returns daily OHLCV history for a ticker
// @Summary     Price history
// @Description Daily OHLCV candles for a ticker over the requested range
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       ticker path string true "Ticker symbol"
// @Param       range query string false "History range: 1d, 5d, 1mo, 3mo, 6mo or 1y" default(1mo)
// @Success     200 {array} market.Candle "Candles sorted by date ascending"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown ticker"
// @Failure     503 {object} ErrorResponse "Market data unavailable"
// @Router      /market/candles/{ticker} [get]
func (h *MarketHandler) GetCandles(c *gin.Context) {
	ticker := market.NormalizeTicker(c.Param("ticker"))
	if ticker == "" {
		respondWithError(c, apperrors.WithField(apperrors.ErrInvalidInput, "Ticker is required", "ticker"))
		return
	}

	candleRange := c.DefaultQuery("range", "1mo")

	candles, err := h.marketService.GetCandles(c.Request.Context(), ticker, candleRange)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":  ticker,
		"range":   candleRange,
		"candles": candles,
		"total":   len(candles),
	})
}
