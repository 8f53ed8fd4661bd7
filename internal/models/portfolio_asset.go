package models

// PortfolioAsset represents a priced holding in a user's portfolio.
// Quantity is stored as text to avoid floating-point precision loss; it
// is parsed into a decimal only at computation time.
type PortfolioAsset struct {
	Base
	UserID   string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Ticker   string  `gorm:"not null" json:"ticker"`
	Quantity string  `gorm:"not null" json:"quantity"`
	SectorID *string `gorm:"type:uuid" json:"sector_id"`

	// Relationships
	Sector *Sector `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
}
