package models

import (
	"time"

	"myfunds/internal/uuid"

	"gorm.io/gorm"
)

// Watchlist grid bounds. The grid is 4x4, positions 0-15.
const (
	MaxWatchlistItems = 16
	MinGridPosition   = 0
	MaxGridPosition   = 15
)

// WatchlistItem is a stock tracked on the 4x4 display grid. For a given
// user all grid positions are distinct, all tickers are distinct, and at
// most 16 items exist. That invariant must hold before and after every
// mutation, including batch updates.
type WatchlistItem struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Ticker       string    `gorm:"not null" json:"ticker"`
	GridPosition int       `gorm:"not null" json:"grid_position"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate generates a UUIDv7 primary key.
func (w *WatchlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New()
	}
	return nil
}
