package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/models"
	"myfunds/internal/services"
)

// --- mock sector service ---

type mockSectorService struct {
	listSectorsFn  func(userID string) ([]models.Sector, error)
	createSectorFn func(userID, name string) (*models.Sector, error)
	updateSectorFn func(userID, sectorID, name string) (*models.Sector, error)
	deleteSectorFn func(userID, sectorID string) error
}

func (m *mockSectorService) ListSectors(userID string) ([]models.Sector, error) {
	if m.listSectorsFn != nil {
		return m.listSectorsFn(userID)
	}
	return []models.Sector{}, nil
}

func (m *mockSectorService) CreateSector(userID, name string) (*models.Sector, error) {
	if m.createSectorFn != nil {
		return m.createSectorFn(userID, name)
	}
	return &models.Sector{}, nil
}

func (m *mockSectorService) UpdateSector(userID, sectorID, name string) (*models.Sector, error) {
	if m.updateSectorFn != nil {
		return m.updateSectorFn(userID, sectorID, name)
	}
	return &models.Sector{}, nil
}

func (m *mockSectorService) DeleteSector(userID, sectorID string) error {
	if m.deleteSectorFn != nil {
		return m.deleteSectorFn(userID, sectorID)
	}
	return nil
}

var _ services.SectorServicer = (*mockSectorService)(nil)

func setupSectorRouter(handler *SectorHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.GET("/sectors", handler.ListSectors)
	auth.POST("/sectors", handler.CreateSector)
	auth.PATCH("/sectors/:id", handler.UpdateSector)
	auth.DELETE("/sectors/:id", handler.DeleteSector)
	return r
}

func TestSectorHandler_CreateSector(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockSectorService{
			createSectorFn: func(_, name string) (*models.Sector, error) {
				return &models.Sector{ID: "sector-1", Name: name}, nil
			},
		}
		r := setupSectorRouter(NewSectorHandler(svc))

		rec := doRequest(r, "POST", "/sectors", `{"name":"Technology"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		sector := parseJSON(t, rec)["sector"].(map[string]interface{})
		if sector["name"] != "Technology" {
			t.Errorf("expected Technology, got %v", sector["name"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupSectorRouter(NewSectorHandler(&mockSectorService{}))

		rec := doRequest(r, "POST", "/sectors", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		svc := &mockSectorService{
			createSectorFn: func(_, _ string) (*models.Sector, error) {
				return nil, apperrors.ErrDuplicateSector
			},
		}
		r := setupSectorRouter(NewSectorHandler(svc))

		rec := doRequest(r, "POST", "/sectors", `{"name":"Energy"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_SECTOR")
	})

	t.Run("returns 409 at limit", func(t *testing.T) {
		svc := &mockSectorService{
			createSectorFn: func(_, _ string) (*models.Sector, error) {
				return nil, apperrors.ErrSectorLimitReached
			},
		}
		r := setupSectorRouter(NewSectorHandler(svc))

		rec := doRequest(r, "POST", "/sectors", `{"name":"One Too Many"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SECTOR_LIMIT_REACHED")
	})
}

func TestSectorHandler_ListSectors(t *testing.T) {
	t.Run("returns sectors", func(t *testing.T) {
		svc := &mockSectorService{
			listSectorsFn: func(_ string) ([]models.Sector, error) {
				return []models.Sector{
					{ID: "sector-1", Name: "Energy"},
					{ID: "sector-2", Name: "Technology"},
				}, nil
			},
		}
		r := setupSectorRouter(NewSectorHandler(svc))

		rec := doRequest(r, "GET", "/sectors", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["total"] != float64(2) {
			t.Errorf("expected total 2, got %v", result["total"])
		}
	})
}

func TestSectorHandler_UpdateSector(t *testing.T) {
	t.Run("returns 404 on foreign sector", func(t *testing.T) {
		svc := &mockSectorService{
			updateSectorFn: func(_, _, _ string) (*models.Sector, error) {
				return nil, apperrors.ErrSectorNotFound
			},
		}
		r := setupSectorRouter(NewSectorHandler(svc))

		rec := doRequest(r, "PATCH", "/sectors/sector-1", `{"name":"Utilities"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSectorHandler_DeleteSector(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupSectorRouter(NewSectorHandler(&mockSectorService{}))

		rec := doRequest(r, "DELETE", "/sectors/sector-1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
