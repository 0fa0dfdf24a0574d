package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer moves money between two of the owner's accounts. It is not
// spending: transfers never show up in income/expense aggregates or
// category budgets.
type Transfer struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index:idx_transfer_user_date;not null"`
	FromAccountID uint            `gorm:"index;not null"`
	ToAccountID   uint            `gorm:"index;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date          time.Time       `gorm:"type:date;index:idx_transfer_user_date;not null"`
	Description   string          `gorm:"size:200"`
	CreatedAt     time.Time
}
