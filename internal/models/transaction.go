package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense against one account.
// Amount is strictly positive; Type carries the direction. Date is a
// calendar date stored at midnight UTC.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index:idx_transaction_user_date;not null"`
	AccountID   uint            `gorm:"index;not null"`
	CategoryID  uint            `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Type        TransactionType `gorm:"size:16;index:idx_transaction_type_date;not null"`
	Date        time.Time       `gorm:"type:date;index:idx_transaction_user_date;index:idx_transaction_type_date;not null"`
	Description string          `gorm:"size:200"`
	SyncStatus  SyncStatus      `gorm:"size:16;default:local"`
	SyncID      *string         `gorm:"size:100;uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
