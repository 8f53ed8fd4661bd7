// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches exchange ticker symbols like AAPL, BRK.B or CDR.WA.
var tickerRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-]{0,11}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("display_currency", validateDisplayCurrency)
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("candle_range", validateCandleRange)
	}
}

func validateDisplayCurrency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "USD", "PLN":
		return true
	}
	return false
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

func validateCandleRange(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "1d", "5d", "1mo", "3mo", "6mo", "1y":
		return true
	}
	return false
}
