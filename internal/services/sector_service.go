package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/models"
)

// sectorService handles sector business logic.
type sectorService struct {
	db *gorm.DB
}

// NewSectorService creates a new SectorServicer.
func NewSectorService(db *gorm.DB) SectorServicer {
	return &sectorService{db: db}
}

// ListSectors returns all sectors for a user ordered by name.
func (s *sectorService) ListSectors(userID string) ([]models.Sector, error) {
	var sectors []models.Sector
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&sectors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sectors, nil
}

// CreateSector creates a new sector. Names are unique per user
// (case-insensitive) and each user is capped at 32 sectors.
func (s *sectorService) CreateSector(userID, name string) (*models.Sector, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "Sector name is required", "name")
	}

	var count int64
	if err := s.db.Model(&models.Sector{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count >= models.MaxSectorsPerUser {
		return nil, apperrors.ErrSectorLimitReached
	}

	var duplicates int64
	if err := s.db.Model(&models.Sector{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		Count(&duplicates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if duplicates > 0 {
		return nil, apperrors.ErrDuplicateSector
	}

	sector := &models.Sector{UserID: userID, Name: name}
	if err := s.db.Create(sector).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sector, nil
}

// UpdateSector renames a sector, keeping names unique per user
// (case-insensitive, excluding the sector itself).
func (s *sectorService) UpdateSector(userID, sectorID, name string) (*models.Sector, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "Sector name is required", "name")
	}

	sector, err := s.getOwnedSector(userID, sectorID)
	if err != nil {
		return nil, err
	}

	var duplicates int64
	if err := s.db.Model(&models.Sector{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", userID, name, sectorID).
		Count(&duplicates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if duplicates > 0 {
		return nil, apperrors.ErrDuplicateSector
	}

	if err := s.db.Model(sector).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sector.Name = name
	return sector, nil
}

// DeleteSector removes a sector. Holdings referencing it survive with
// their sector_id cleared, moving them to the implicit "Other" group.
func (s *sectorService) DeleteSector(userID, sectorID string) error {
	sector, err := s.getOwnedSector(userID, sectorID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PortfolioAsset{}).
			Where("sector_id = ?", sector.ID).
			Update("sector_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(sector).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *sectorService) getOwnedSector(userID, sectorID string) (*models.Sector, error) {
	var sector models.Sector
	if err := s.db.Where("id = ? AND user_id = ?", sectorID, userID).First(&sector).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSectorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sector, nil
}
