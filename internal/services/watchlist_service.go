package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/logger"
	"myfunds/internal/market"
	"myfunds/internal/models"
)

// watchlistService maintains the 4x4 grid invariant: per user, distinct
// tickers, distinct positions, at most 16 items.
type watchlistService struct {
	db     *gorm.DB
	market MarketDataProvider
}

// NewWatchlistService creates a new WatchlistServicer.
func NewWatchlistService(db *gorm.DB, marketData MarketDataProvider) WatchlistServicer {
	return &watchlistService{db: db, market: marketData}
}

// GetWatchlist returns the user's items ordered by grid position, each
// enriched best-effort with its current price.
func (s *watchlistService) GetWatchlist(ctx context.Context, userID string) (*WatchlistList, error) {
	if userID == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "User ID is required", "user_id")
	}

	var items []models.WatchlistItem
	if err := s.db.Where("user_id = ?", userID).Order("grid_position ASC").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &WatchlistList{
		Items:       s.enrichItems(ctx, items),
		LastUpdated: time.Now(),
		Total:       len(items),
		MaxItems:    models.MaxWatchlistItems,
	}, nil
}

// CreateItem adds a ticker to the grid. Capacity, ticker uniqueness and
// position occupancy are checked before the external ticker validation;
// a price fetch failure after the insert does not fail the creation.
func (s *watchlistService) CreateItem(ctx context.Context, userID, ticker string, gridPosition int) (*WatchlistItemDTO, error) {
	if userID == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "User ID is required", "user_id")
	}
	if gridPosition < models.MinGridPosition || gridPosition > models.MaxGridPosition {
		return nil, apperrors.ErrInvalidGridPosition
	}

	symbol := market.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "Ticker is required", "ticker")
	}

	var count int64
	if err := s.db.Model(&models.WatchlistItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count >= models.MaxWatchlistItems {
		return nil, apperrors.ErrWatchlistFull
	}

	var tickerCount int64
	if err := s.db.Model(&models.WatchlistItem{}).
		Where("user_id = ? AND ticker = ?", userID, symbol).
		Count(&tickerCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if tickerCount > 0 {
		return nil, apperrors.ErrDuplicateTicker
	}

	var positionCount int64
	if err := s.db.Model(&models.WatchlistItem{}).
		Where("user_id = ? AND grid_position = ?", userID, gridPosition).
		Count(&positionCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if positionCount > 0 {
		return nil, apperrors.ErrPositionOccupied
	}

	if _, err := s.market.GetPrice(ctx, symbol); err != nil {
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			return nil, apperrors.WithField(apperrors.ErrInvalidInput, "Invalid ticker symbol: "+symbol, "ticker")
		}
		return nil, err
	}

	item := &models.WatchlistItem{
		UserID:       userID,
		Ticker:       symbol,
		GridPosition: gridPosition,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dto := s.enrichItem(ctx, *item)
	return &dto, nil
}

// BatchUpdateItems applies position/ticker updates as a unit. The full
// current set is loaded, all updates applied to a working copy, and the
// complete resulting set validated before anything is persisted. Swaps
// and rotations therefore pass, while per-item validation would have
// rejected their transient duplicate states. On any failure persisted
// state is unchanged.
func (s *watchlistService) BatchUpdateItems(ctx context.Context, userID string, updates []WatchlistItemUpdate) ([]WatchlistItemDTO, error) {
	if userID == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "User ID is required", "user_id")
	}
	if len(updates) == 0 {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "No updates provided", "updates")
	}

	var current []models.WatchlistItem
	if err := s.db.Where("user_id = ?", userID).Find(&current).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	working, err := applyUpdates(current, updates)
	if err != nil {
		return nil, err
	}

	if err := validateGridState(working); err != nil {
		return nil, err
	}

	// Single transaction replacing the whole set; created_at stays stable
	// because rows are updated in place, never recreated.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range working {
			if err := tx.Model(&models.WatchlistItem{}).
				Where("id = ? AND user_id = ?", working[i].ID, userID).
				Updates(map[string]interface{}{
					"ticker":        working[i].Ticker,
					"grid_position": working[i].GridPosition,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sort.Slice(working, func(i, j int) bool {
		return working[i].GridPosition < working[j].GridPosition
	})
	return s.enrichItems(ctx, working), nil
}

// DeleteItem removes an owned item. Remaining positions keep their gaps;
// no renumbering happens.
func (s *watchlistService) DeleteItem(userID, itemID string) error {
	result := s.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.WatchlistItem{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrWatchlistItemNotFound
	}
	return nil
}

// applyUpdates copies the current set and applies each update to it.
// An update referencing an unknown item id fails the whole batch.
func applyUpdates(current []models.WatchlistItem, updates []WatchlistItemUpdate) ([]models.WatchlistItem, error) {
	working := make([]models.WatchlistItem, len(current))
	copy(working, current)

	index := make(map[string]int, len(working))
	for i := range working {
		index[working[i].ID] = i
	}

	for _, update := range updates {
		i, ok := index[update.ID]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrWatchlistItemNotFound, "Watchlist item "+update.ID+" not found")
		}
		if update.GridPosition != nil {
			working[i].GridPosition = *update.GridPosition
		}
		if update.Ticker != nil {
			working[i].Ticker = market.NormalizeTicker(*update.Ticker)
		}
	}
	return working, nil
}

// validateGridState checks the complete resulting set: every position in
// range, no duplicate positions, no duplicate tickers.
func validateGridState(items []models.WatchlistItem) error {
	usedPositions := make(map[int]bool, len(items))
	usedTickers := make(map[string]bool, len(items))

	for _, item := range items {
		if item.GridPosition < models.MinGridPosition || item.GridPosition > models.MaxGridPosition {
			return apperrors.ErrInvalidGridPosition
		}
		if usedPositions[item.GridPosition] {
			return apperrors.WithMessage(apperrors.ErrPositionOccupied, "Grid position is duplicated in the resulting set")
		}
		usedPositions[item.GridPosition] = true

		if usedTickers[item.Ticker] {
			return apperrors.WithMessage(apperrors.ErrDuplicateTicker, "Ticker "+item.Ticker+" is duplicated in the resulting set")
		}
		usedTickers[item.Ticker] = true
	}
	return nil
}

func (s *watchlistService) enrichItems(ctx context.Context, items []models.WatchlistItem) []WatchlistItemDTO {
	dtos := make([]WatchlistItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, s.enrichItem(ctx, item))
	}
	return dtos
}

// enrichItem attaches the current price best-effort; a fetch failure
// yields price 0 without failing the operation.
func (s *watchlistService) enrichItem(ctx context.Context, item models.WatchlistItem) WatchlistItemDTO {
	dto := WatchlistItemDTO{WatchlistItem: item}
	priceData, err := s.market.GetPrice(ctx, item.Ticker)
	if err != nil {
		logger.Get().Warnw("price lookup failed for watchlist item",
			"ticker", item.Ticker,
			"error", err.Error(),
		)
		return dto
	}
	dto.CurrentPrice = priceData.Price
	return dto
}
