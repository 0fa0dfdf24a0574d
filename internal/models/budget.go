package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending cap for one expense category. Month is
// an integer YYYYMM key; at most one budget may exist per
// (user, category, month). Spent and remaining amounts are never
// stored here; the budget engine computes them per request.
type Budget struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"uniqueIndex:uq_user_category_month;index:idx_budget_user_month;not null"`
	CategoryID uint            `gorm:"uniqueIndex:uq_user_category_month;not null"`
	Month      int             `gorm:"uniqueIndex:uq_user_category_month;index:idx_budget_user_month;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
