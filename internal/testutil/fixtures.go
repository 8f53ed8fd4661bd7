package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"myfunds/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:             email,
		Password:          string(hash),
		PreferredCurrency: models.CurrencyUSD,
		IsActive:          true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSector creates a sector with a unique name.
func CreateTestSector(t *testing.T, db *gorm.DB, userID string) *models.Sector {
	t.Helper()
	return CreateTestSectorWithName(t, db, userID, fmt.Sprintf("Test Sector %d", nextID()))
}

// CreateTestSectorWithName creates a sector with the given name.
func CreateTestSectorWithName(t *testing.T, db *gorm.DB, userID, name string) *models.Sector {
	t.Helper()

	sector := &models.Sector{
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(sector).Error; err != nil {
		t.Fatalf("failed to create test sector: %v", err)
	}
	return sector
}

// CreateTestAsset creates a portfolio holding for the given ticker and quantity.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID, ticker, quantity string) *models.PortfolioAsset {
	t.Helper()

	asset := &models.PortfolioAsset{
		UserID:   userID,
		Ticker:   ticker,
		Quantity: quantity,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestAssetInSector creates a holding assigned to the given sector.
func CreateTestAssetInSector(t *testing.T, db *gorm.DB, userID, ticker, quantity, sectorID string) *models.PortfolioAsset {
	t.Helper()

	asset := &models.PortfolioAsset{
		UserID:   userID,
		Ticker:   ticker,
		Quantity: quantity,
		SectorID: &sectorID,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestWatchlistItem creates a watchlist item at the given grid position.
func CreateTestWatchlistItem(t *testing.T, db *gorm.DB, userID, ticker string, gridPosition int) *models.WatchlistItem {
	t.Helper()

	item := &models.WatchlistItem{
		UserID:       userID,
		Ticker:       ticker,
		GridPosition: gridPosition,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test watchlist item: %v", err)
	}
	return item
}
