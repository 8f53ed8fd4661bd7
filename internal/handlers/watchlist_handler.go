package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/services"
)

// WatchlistHandler handles watchlist grid requests
type WatchlistHandler struct {
	watchlistService services.WatchlistServicer
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(watchlistService services.WatchlistServicer) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// CreateWatchlistItemRequest represents the payload for adding an item
type CreateWatchlistItemRequest struct {
	Ticker       string `json:"ticker" binding:"required,ticker"`
	GridPosition *int   `json:"grid_position" binding:"required"`
}

// BatchUpdateRequest represents the payload for a batch grid update
type BatchUpdateRequest struct {
	Updates []WatchlistItemUpdateRequest `json:"updates" binding:"required,min=1,dive"`
}

// WatchlistItemUpdateRequest represents one entry of a batch update
type WatchlistItemUpdateRequest struct {
	ID           string  `json:"id" binding:"required"`
	GridPosition *int    `json:"grid_position"`
	Ticker       *string `json:"ticker" binding:"omitempty,ticker"`
}

// GetWatchlist returns the user's watchlist grid
// @Summary     Get watchlist
// @Description List watchlist items ordered by grid position with current prices
// @Tags        watchlist
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WatchlistList "Watchlist items"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /watchlist [get]
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	list, err := h.watchlistService.GetWatchlist(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateItem adds a ticker to the watchlist grid
// @Summary     Add watchlist item
// @Description Add a ticker at a free grid position (0-15)
// @Tags        watchlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWatchlistItemRequest true "Item details"
// @Success     201 {object} services.WatchlistItemDTO "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate ticker, occupied position, or full grid"
// @Failure     503 {object} ErrorResponse "Market data unavailable"
// @Router      /watchlist [post]
func (h *WatchlistHandler) CreateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWatchlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.watchlistService.CreateItem(c.Request.Context(), userID, req.Ticker, *req.GridPosition)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// BatchUpdate applies a set of position/ticker changes atomically
// @Summary     Batch update watchlist
// @Description Apply position and ticker changes as one unit; the whole batch is rejected if the resulting grid would be invalid
// @Tags        watchlist
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BatchUpdateRequest true "Batch of changes"
// @Success     200 {object} services.WatchlistList "Updated items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown item in batch"
// @Failure     409 {object} ErrorResponse "Resulting grid has duplicate tickers or positions"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /watchlist [patch]
func (h *WatchlistHandler) BatchUpdate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updates := make([]services.WatchlistItemUpdate, 0, len(req.Updates))
	for _, update := range req.Updates {
		updates = append(updates, services.WatchlistItemUpdate{
			ID:           update.ID,
			GridPosition: update.GridPosition,
			Ticker:       update.Ticker,
		})
	}

	items, err := h.watchlistService.BatchUpdateItems(c.Request.Context(), userID, updates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

// DeleteItem removes an item from the grid
// @Summary     Remove watchlist item
// @Description Remove an item; remaining items keep their positions
// @Tags        watchlist
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Item ID"
// @Success     200 {object} map[string]string "Item removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /watchlist/{id} [delete]
func (h *WatchlistHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.watchlistService.DeleteItem(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Watchlist item deleted successfully"})
}
