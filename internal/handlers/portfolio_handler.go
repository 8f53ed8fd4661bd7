package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/models"
	"myfunds/internal/services"
)

// PortfolioHandler handles portfolio holding requests
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// CreateAssetRequest represents the payload for adding a holding
type CreateAssetRequest struct {
	Ticker   string  `json:"ticker" binding:"required,ticker"`
	Quantity string  `json:"quantity" binding:"required"`
	SectorID *string `json:"sector_id"`
}

// UpdateAssetRequest represents the payload for a partial holding update.
// An explicit "sector_id": null clears the sector; omitting it leaves the
// sector untouched.
type UpdateAssetRequest struct {
	Quantity *string `json:"quantity"`
	SectorID *string `json:"sector_id"`
}

// parseFilter builds the listing filter from query parameters.
func parseFilter(c *gin.Context) (services.PortfolioFilter, error) {
	filter := services.PortfolioFilter{SectorID: c.Query("sector_id")}
	switch currency := c.Query("currency"); currency {
	case "":
	case "USD", "PLN":
		filter.Currency = models.Currency(currency)
	default:
		return filter, apperrors.WithField(apperrors.ErrInvalidInput, "Currency must be USD or PLN", "currency")
	}
	return filter, nil
}

// GetAssets returns the user's enriched holdings
// @Summary     List portfolio holdings
// @Description List holdings enriched with current prices and values in the target currency
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       currency  query string false "Display currency (USD or PLN)"
// @Param       sector_id query string false "Filter by sector; the literal null selects unassigned holdings"
// @Success     200 {object} services.PortfolioList "Enriched holdings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	list, err := h.portfolioService.GetAssets(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetSummary returns the sector value breakdown
// @Summary     Portfolio summary
// @Description Aggregate the portfolio value by sector with percentages
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       currency query string false "Display currency (USD or PLN)"
// @Success     200 {object} services.PortfolioSummary "Sector breakdown"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.portfolioService.GetSummary(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// CreateAsset adds a holding
// @Summary     Add a holding
// @Description Add a ticker with a quantity to the portfolio
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Holding details"
// @Success     201 {object} services.AssetDTO "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sector not found"
// @Failure     409 {object} ErrorResponse "Duplicate ticker"
// @Failure     503 {object} ErrorResponse "Market data unavailable"
// @Router      /portfolio [post]
func (h *PortfolioHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.portfolioService.CreateAsset(c.Request.Context(), userID, req.Ticker, req.Quantity, req.SectorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// UpdateAsset applies a partial update to a holding
// @Summary     Update a holding
// @Description Change a holding's quantity and/or sector assignment
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Holding ID"
// @Param       request body UpdateAssetRequest true "Changes"
// @Success     200 {object} services.AssetDTO "Holding updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding or sector not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/{id} [patch]
func (h *PortfolioHandler) UpdateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// A second pass over the cached body distinguishes "sector_id": null
	// from an absent sector_id.
	var raw map[string]interface{}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	_, sectorIDSet := raw["sector_id"]

	cmd := services.UpdateAssetCommand{
		Quantity:    req.Quantity,
		SectorID:    req.SectorID,
		SectorIDSet: sectorIDSet,
	}

	asset, err := h.portfolioService.UpdateAsset(c.Request.Context(), userID, c.Param("id"), cmd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset removes a holding
// @Summary     Remove a holding
// @Description Remove a holding from the portfolio
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Holding ID"
// @Success     200 {object} map[string]string "Holding removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/{id} [delete]
func (h *PortfolioHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.portfolioService.DeleteAsset(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}
