// Package errors provides custom error types for the MyFunds API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional offending field,
// and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether err carries the same error code as the target
// sentinel, so errors.Is works against the sentinels below even after
// WithMessage/WithField/Wrap.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Field:      sentinel.Field,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Field:      sentinel.Field,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithField creates a new AppError with a custom message tagged with the
// offending request field.
func WithField(sentinel *AppError, message, field string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Field:      field,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User & profile errors.
var (
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail  = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrInvalidCurrency = &AppError{Code: "INVALID_CURRENCY", Message: "Currency must be USD or PLN", StatusCode: http.StatusBadRequest, Field: "preferred_currency"}
)

// Sector errors.
var (
	ErrSectorNotFound     = &AppError{Code: "SECTOR_NOT_FOUND", Message: "Sector not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSector    = &AppError{Code: "DUPLICATE_SECTOR", Message: "A sector with this name already exists", StatusCode: http.StatusConflict, Field: "name"}
	ErrSectorLimitReached = &AppError{Code: "SECTOR_LIMIT_REACHED", Message: "Maximum limit of 32 sectors reached", StatusCode: http.StatusConflict}
)

// Portfolio errors.
var (
	ErrAssetNotFound  = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAsset = &AppError{Code: "DUPLICATE_ASSET", Message: "An asset with this ticker already exists", StatusCode: http.StatusConflict, Field: "ticker"}
)

// Watchlist errors.
var (
	ErrWatchlistItemNotFound = &AppError{Code: "WATCHLIST_ITEM_NOT_FOUND", Message: "Watchlist item not found", StatusCode: http.StatusNotFound}
	ErrWatchlistFull         = &AppError{Code: "WATCHLIST_FULL", Message: "Maximum limit of 16 watchlist items reached", StatusCode: http.StatusConflict}
	ErrDuplicateTicker       = &AppError{Code: "DUPLICATE_TICKER", Message: "Ticker is already in the watchlist", StatusCode: http.StatusConflict, Field: "ticker"}
	ErrPositionOccupied      = &AppError{Code: "POSITION_OCCUPIED", Message: "Grid position is already occupied", StatusCode: http.StatusConflict, Field: "grid_position"}
	ErrInvalidGridPosition   = &AppError{Code: "INVALID_GRID_POSITION", Message: "Grid position must be between 0 and 15", StatusCode: http.StatusBadRequest, Field: "grid_position"}
)

// Market data errors. ErrTickerNotFound means the provider explicitly
// reported an unknown symbol; ErrMarketUnavailable covers transient
// provider failures. The distinction changes user-facing behavior:
// unknown symbols reject ticker input permanently, transient failures
// are retryable.
var (
	ErrTickerNotFound    = &AppError{Code: "TICKER_NOT_FOUND", Message: "Ticker symbol not found", StatusCode: http.StatusNotFound}
	ErrMarketUnavailable = &AppError{Code: "MARKET_UNAVAILABLE", Message: "Market data provider is unavailable", StatusCode: http.StatusServiceUnavailable}
)
