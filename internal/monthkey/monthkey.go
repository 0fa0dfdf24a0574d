// Package monthkey handles the integer YYYYMM encoding used to key
// budgets to a calendar month.
package monthkey

import (
	"fmt"
	"strconv"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
)

// Valid keys span January 2000 through December 2099.
const (
	Min = 200001
	Max = 209912
)

// Validate checks that key is a well-formed YYYYMM value in range.
func Validate(key int) error {
	if key < Min || key > Max {
		return apperr.Validationf("month %d outside valid range %d-%d", key, Min, Max)
	}
	if m := key % 100; m < 1 || m > 12 {
		return apperr.Validationf("month %d has invalid month-of-year %02d", key, m)
	}
	return nil
}

// Parse converts a 6-digit "YYYYMM" string into a validated key.
func Parse(s string) (int, error) {
	if len(s) != 6 {
		return 0, apperr.Validationf("month %q is not a 6-digit YYYYMM value", s)
	}
	key, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validationf("month %q is not a 6-digit YYYYMM value", s)
	}
	if err := Validate(key); err != nil {
		return 0, err
	}
	return key, nil
}

// FromTime returns the key for the month containing t.
func FromTime(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

// Prev returns the key of the month immediately before key.
func Prev(key int) int {
	year, month := key/100, key%100
	if month == 1 {
		return (year-1)*100 + 12
	}
	return key - 1
}

// Bounds returns the half-open interval [first day, first day of the
// next month) covering key, in UTC.
func Bounds(key int) (start, end time.Time) {
	year, month := key/100, key%100
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// Label formats key as "YYYY-MM" for display.
func Label(key int) string {
	return fmt.Sprintf("%04d-%02d", key/100, key%100)
}
