package models

import "time"

// Currency is a display currency supported by the application.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyPLN Currency = "PLN"
)

// ValidCurrency reports whether c is a supported display currency.
func ValidCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencyPLN
}

// User represents the user model in the database. It also carries the
// profile settings (preferred display currency).
type User struct {
	Base
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"not null" json:"-"`
	PreferredCurrency Currency   `gorm:"not null;default:'USD'" json:"preferred_currency"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash  string     `gorm:"size:64" json:"-"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	Sectors        []Sector         `gorm:"foreignKey:UserID" json:"sectors,omitempty"`
	Assets         []PortfolioAsset `gorm:"foreignKey:UserID" json:"assets,omitempty"`
	WatchlistItems []WatchlistItem  `gorm:"foreignKey:UserID" json:"watchlist_items,omitempty"`
}
