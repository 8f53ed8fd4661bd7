package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/services"
)

// SectorHandler handles sector-related requests
type SectorHandler struct {
	sectorService services.SectorServicer
}

// NewSectorHandler creates a new SectorHandler
func NewSectorHandler(sectorService services.SectorServicer) *SectorHandler {
	return &SectorHandler{sectorService: sectorService}
}

// SectorRequest represents the payload for creating or renaming a sector
type SectorRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SectorResponse represents a sector in the response
type SectorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListSectors returns the user's sectors
// @Summary     List sectors
// @Description List the authenticated user's sectors ordered by name
// @Tags        sectors
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} SectorResponse "Sectors"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sectors [get]
func (h *SectorHandler) ListSectors(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sectors, err := h.sectorService.ListSectors(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sectors": sectors, "total": len(sectors)})
}

// CreateSector creates a new sector
// @Summary     Create a sector
// @Description Create a new sector for grouping portfolio holdings
// @Tags        sectors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SectorRequest true "Sector details"
// @Success     201 {object} SectorResponse "Sector created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate name or limit reached"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sectors [post]
func (h *SectorHandler) CreateSector(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sector, err := h.sectorService.CreateSector(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sector": sector})
}

// UpdateSector renames a sector
// @Summary     Rename a sector
// @Description Rename an existing sector
// @Tags        sectors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sector ID"
// @Param       request body SectorRequest true "New name"
// @Success     200 {object} SectorResponse "Sector updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sector not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sectors/{id} [patch]
func (h *SectorHandler) UpdateSector(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sector, err := h.sectorService.UpdateSector(userID, c.Param("id"), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sector": sector})
}

// DeleteSector deletes a sector
// @Summary     Delete a sector
// @Description Delete a sector; holdings assigned to it become unassigned
// @Tags        sectors
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sector ID"
// @Success     200 {object} map[string]string "Sector deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sector not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sectors/{id} [delete]
func (h *SectorHandler) DeleteSector(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sectorService.DeleteSector(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sector deleted successfully"})
}
