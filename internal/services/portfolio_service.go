package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "myfunds/internal/errors"
	"myfunds/internal/logger"
	"myfunds/internal/market"
	"myfunds/internal/models"
)

// otherSectorName labels holdings without a sector.
const otherSectorName = "Other"

// portfolioService joins stored holdings with sector metadata and live
// market data to produce value-bearing DTOs.
type portfolioService struct {
	db     *gorm.DB
	market MarketDataProvider
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB, marketData MarketDataProvider) PortfolioServicer {
	return &portfolioService{db: db, market: marketData}
}

// GetAssets returns a user's holdings enriched with current prices and
// values in the target currency (default USD). A market-data failure for
// one holding zeroes that holding's price and value instead of failing
// the whole listing.
func (s *portfolioService) GetAssets(ctx context.Context, userID string, filter PortfolioFilter) (*PortfolioList, error) {
	if userID == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "User ID is required", "user_id")
	}

	query := s.db.Preload("Sector").Where("user_id = ?", userID)
	switch filter.SectorID {
	case "":
	case "null":
		// The literal "null" selects holdings without a sector.
		query = query.Where("sector_id IS NULL")
	default:
		query = query.Where("sector_id = ?", filter.SectorID)
	}

	var assets []models.PortfolioAsset
	if err := query.Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	currency := filter.Currency
	if currency == "" {
		currency = models.CurrencyUSD
	}

	enriched := make([]AssetDTO, 0, len(assets))
	total := decimal.Zero
	for i := range assets {
		dto := s.enrichAsset(ctx, &assets[i], currency)
		total = total.Add(decimal.NewFromFloat(dto.CurrentValue))
		enriched = append(enriched, dto)
	}

	return &PortfolioList{
		Assets:      enriched,
		TotalValue:  total.InexactFloat64(),
		Currency:    currency,
		LastUpdated: time.Now(),
		Total:       len(enriched),
	}, nil
}

// GetSummary aggregates the enriched holdings by sector, expressing each
// group as a percentage of the total value. All percentages are zero
// when the total is zero.
func (s *portfolioService) GetSummary(ctx context.Context, userID string, filter PortfolioFilter) (*PortfolioSummary, error) {
	list, err := s.GetAssets(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	type group struct {
		breakdown SectorBreakdown
		order     int
	}
	groups := make(map[string]*group)
	ordered := make([]string, 0)

	for _, asset := range list.Assets {
		key := "null"
		if asset.SectorID != nil {
			key = *asset.SectorID
		}
		g, ok := groups[key]
		if !ok {
			g = &group{breakdown: SectorBreakdown{
				SectorID:   asset.SectorID,
				SectorName: asset.SectorName,
			}}
			groups[key] = g
			ordered = append(ordered, key)
		}
		g.breakdown.Value += asset.CurrentValue
	}

	sectors := make([]SectorBreakdown, 0, len(ordered))
	for _, key := range ordered {
		b := groups[key].breakdown
		if list.TotalValue > 0 {
			b.Percentage = b.Value / list.TotalValue * 100
		}
		sectors = append(sectors, b)
	}

	return &PortfolioSummary{
		TotalValue:  list.TotalValue,
		Currency:    list.Currency,
		Sectors:     sectors,
		LastUpdated: list.LastUpdated,
	}, nil
}

// CreateAsset adds a holding after checking ticker uniqueness (cheap,
// before any external call), validating the ticker against the market
// provider, and verifying sector ownership.
func (s *portfolioService) CreateAsset(ctx context.Context, userID, ticker, quantity string, sectorID *string) (*AssetDTO, error) {
	if userID == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "User ID is required", "user_id")
	}

	symbol := market.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "Ticker is required", "ticker")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.PortfolioAsset{}).
		Where("user_id = ? AND ticker = ?", userID, symbol).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAsset
	}

	if err := s.validateTicker(ctx, symbol); err != nil {
		return nil, err
	}

	if sectorID != nil {
		if err := s.checkSectorOwnership(userID, *sectorID); err != nil {
			return nil, err
		}
	}

	asset := &models.PortfolioAsset{
		UserID:   userID,
		Ticker:   symbol,
		Quantity: quantity,
		SectorID: sectorID,
	}
	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Preload("Sector").First(asset, "id = ?", asset.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dto := s.enrichAsset(ctx, asset, models.CurrencyUSD)
	return &dto, nil
}

// UpdateAsset applies a partial update (quantity and/or sector) to an
// owned holding and returns the enriched result.
func (s *portfolioService) UpdateAsset(ctx context.Context, userID, assetID string, cmd UpdateAssetCommand) (*AssetDTO, error) {
	var asset models.PortfolioAsset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})
	if cmd.Quantity != nil {
		if err := validateQuantity(*cmd.Quantity); err != nil {
			return nil, err
		}
		updates["quantity"] = *cmd.Quantity
	}
	if cmd.SectorIDSet {
		if cmd.SectorID != nil {
			if err := s.checkSectorOwnership(userID, *cmd.SectorID); err != nil {
				return nil, err
			}
		}
		updates["sector_id"] = cmd.SectorID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&asset).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if err := s.db.Preload("Sector").First(&asset, "id = ?", asset.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dto := s.enrichAsset(ctx, &asset, models.CurrencyUSD)
	return &dto, nil
}

// DeleteAsset removes an owned holding.
func (s *portfolioService) DeleteAsset(userID, assetID string) error {
	result := s.db.Where("id = ? AND user_id = ?", assetID, userID).Delete(&models.PortfolioAsset{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

// enrichAsset computes the converted price and value for one holding.
// Any market failure zeroes the holding's price and value so a single
// bad ticker never breaks the portfolio view.
func (s *portfolioService) enrichAsset(ctx context.Context, asset *models.PortfolioAsset, currency models.Currency) AssetDTO {
	dto := AssetDTO{
		PortfolioAsset: *asset,
		SectorName:     otherSectorName,
		Currency:       currency,
	}
	if asset.Sector != nil {
		dto.SectorName = asset.Sector.Name
	}
	dto.PortfolioAsset.Sector = nil

	priceData, err := s.market.GetPrice(ctx, asset.Ticker)
	if err != nil {
		logger.Get().Warnw("price lookup failed during enrichment, zeroing value",
			"ticker", asset.Ticker,
			"error", err.Error(),
		)
		return dto
	}

	rate := 1.0
	if priceData.Currency != string(currency) {
		rateData, err := s.market.GetExchangeRate(ctx, priceData.Currency, string(currency))
		if err != nil {
			logger.Get().Warnw("rate lookup failed during enrichment, zeroing value",
				"ticker", asset.Ticker,
				"from", priceData.Currency,
				"to", currency,
				"error", err.Error(),
			)
			return dto
		}
		rate = rateData.Rate
	}

	quantity, err := decimal.NewFromString(asset.Quantity)
	if err != nil {
		logger.Get().Warnw("stored quantity is not parseable, zeroing value",
			"asset_id", asset.ID,
			"quantity", asset.Quantity,
		)
		return dto
	}

	price := decimal.NewFromFloat(priceData.Price).Mul(decimal.NewFromFloat(rate))
	dto.CurrentPrice = price.InexactFloat64()
	dto.CurrentValue = quantity.Mul(price).InexactFloat64()
	return dto
}

// validateTicker rejects unknown symbols as a field-level validation
// error. Transient provider failures propagate untouched: when the
// provider is down the ticker cannot be validated, and the caller sees
// a retryable service condition instead of a permanent rejection.
func (s *portfolioService) validateTicker(ctx context.Context, symbol string) error {
	if _, err := s.market.GetPrice(ctx, symbol); err != nil {
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			return apperrors.WithField(apperrors.ErrInvalidInput, "Invalid ticker symbol: "+symbol, "ticker")
		}
		return err
	}
	return nil
}

func (s *portfolioService) checkSectorOwnership(userID, sectorID string) error {
	var count int64
	if err := s.db.Model(&models.Sector{}).
		Where("id = ? AND user_id = ?", sectorID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrSectorNotFound
	}
	return nil
}

// validateQuantity parses the decimal-as-string quantity and requires a
// positive value.
func validateQuantity(quantity string) error {
	q, err := decimal.NewFromString(quantity)
	if err != nil {
		return apperrors.WithField(apperrors.ErrInvalidInput, "Quantity must be a decimal number", "quantity")
	}
	if q.Sign() <= 0 {
		return apperrors.WithField(apperrors.ErrInvalidInput, "Quantity must be positive", "quantity")
	}
	return nil
}
