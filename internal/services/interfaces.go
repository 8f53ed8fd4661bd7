package services

import (
	"context"
	"time"

	"myfunds/internal/market"
	"myfunds/internal/models"
)

// MarketDataProvider is the slice of the market data layer the services
// consume. Implemented by *market.Service; tests substitute a stub.
type MarketDataProvider interface {
	GetPrice(ctx context.Context, ticker string) (market.PriceData, error)
	GetExchangeRate(ctx context.Context, from, to string) (market.RateData, error)
}

// UserServicer defines the contract for user and profile business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdatePreferredCurrency(userID string, currency models.Currency) (*models.User, error)
}

// SectorServicer defines the contract for sector business logic.
type SectorServicer interface {
	ListSectors(userID string) ([]models.Sector, error)
	CreateSector(userID, name string) (*models.Sector, error)
	UpdateSector(userID, sectorID, name string) (*models.Sector, error)
	DeleteSector(userID, sectorID string) error
}

// AssetDTO is a portfolio asset enriched with market data.
type AssetDTO struct {
	models.PortfolioAsset
	SectorName   string          `json:"sector_name"`
	CurrentPrice float64         `json:"current_price"`
	CurrentValue float64         `json:"current_value"`
	Currency     models.Currency `json:"currency"`
}

// PortfolioList is the enriched asset listing for a user.
type PortfolioList struct {
	Assets      []AssetDTO      `json:"assets"`
	TotalValue  float64         `json:"total_value"`
	Currency    models.Currency `json:"currency"`
	LastUpdated time.Time       `json:"last_updated"`
	Total       int             `json:"total"`
}

// SectorBreakdown is one sector's share of the portfolio value.
// A nil SectorID is the implicit "Other" group.
type SectorBreakdown struct {
	SectorID   *string `json:"sector_id"`
	SectorName string  `json:"sector_name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// PortfolioSummary is the sector-level aggregation of a portfolio.
type PortfolioSummary struct {
	TotalValue  float64           `json:"total_value"`
	Currency    models.Currency   `json:"currency"`
	Sectors     []SectorBreakdown `json:"sectors"`
	LastUpdated time.Time         `json:"last_updated"`
}

// PortfolioFilter holds optional filter parameters for asset listings.
// SectorID may be a sector UUID or the literal "null" to select holdings
// without a sector.
type PortfolioFilter struct {
	Currency models.Currency
	SectorID string
}

// UpdateAssetCommand is a partial asset update. SectorIDSet distinguishes
// "leave the sector alone" from "move to Other" (explicit null).
type UpdateAssetCommand struct {
	Quantity    *string
	SectorID    *string
	SectorIDSet bool
}

// PortfolioServicer defines the contract for portfolio business logic.
type PortfolioServicer interface {
	GetAssets(ctx context.Context, userID string, filter PortfolioFilter) (*PortfolioList, error)
	GetSummary(ctx context.Context, userID string, filter PortfolioFilter) (*PortfolioSummary, error)
	CreateAsset(ctx context.Context, userID, ticker, quantity string, sectorID *string) (*AssetDTO, error)
	UpdateAsset(ctx context.Context, userID, assetID string, cmd UpdateAssetCommand) (*AssetDTO, error)
	DeleteAsset(userID, assetID string) error
}

// WatchlistItemDTO is a watchlist item enriched with its current price.
type WatchlistItemDTO struct {
	models.WatchlistItem
	CurrentPrice float64 `json:"current_price"`
}

// WatchlistList is the enriched watchlist for a user.
type WatchlistList struct {
	Items       []WatchlistItemDTO `json:"items"`
	LastUpdated time.Time          `json:"last_updated"`
	Total       int                `json:"total"`
	MaxItems    int                `json:"max_items"`
}

// WatchlistItemUpdate is one entry of a batch update; nil fields are
// left untouched.
type WatchlistItemUpdate struct {
	ID           string  `json:"id"`
	GridPosition *int    `json:"grid_position,omitempty"`
	Ticker       *string `json:"ticker,omitempty"`
}

// WatchlistServicer defines the contract for watchlist business logic.
type WatchlistServicer interface {
	GetWatchlist(ctx context.Context, userID string) (*WatchlistList, error)
	CreateItem(ctx context.Context, userID, ticker string, gridPosition int) (*WatchlistItemDTO, error)
	BatchUpdateItems(ctx context.Context, userID string, updates []WatchlistItemUpdate) ([]WatchlistItemDTO, error)
	DeleteItem(userID, itemID string) error
}
