package models

import (
	"time"

	"myfunds/internal/uuid"

	"gorm.io/gorm"
)

// MaxSectorsPerUser caps the number of user-defined sectors.
const MaxSectorsPerUser = 32

// Sector is a user-defined category grouping portfolio assets for
// reporting. Sectors live independently of holdings: deleting a sector
// nulls the holdings' sector_id (store-level FK), it never deletes them.
type Sector struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUIDv7 primary key.
func (s *Sector) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
