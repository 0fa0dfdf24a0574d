package util

import (
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"

	"github.com/shopspring/decimal"
)

// maxAmount caps single amounts at ten million to catch fat-finger input.
var maxAmount = decimal.NewFromInt(10_000_000)

// ParseAmount parses a decimal money amount and checks it is positive
// and below the sanity cap.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validationf("invalid amount %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, apperr.Validationf("amount must be positive, got %s", s)
	}
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, apperr.Validationf("amount too large, got %s", s)
	}
	return d.Round(2), nil
}

// ParseSignedAmount parses a decimal money amount that may be
// negative, for fields like an initial balance, within the sanity cap.
func ParseSignedAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Validationf("invalid amount %q", s)
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, apperr.Validationf("amount too large, got %s", s)
	}
	return d.Round(2), nil
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, apperr.Validationf("date is empty")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
