package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named balance-bearing container. CurrentBalance is a
// cached running total: it always equals InitialBalance plus the net
// effect of every live transaction and transfer touching the account,
// and only the ledger engine may move it. Version is the
// compare-and-swap column guarding balance writes against lost
// updates.
type Account struct {
	ID             uint            `gorm:"primaryKey"`
	UserID         uint            `gorm:"index;index:idx_account_user_active;not null"`
	Name           string          `gorm:"size:100;not null"`
	Type           AccountType     `gorm:"size:16;not null"`
	Currency       string          `gorm:"size:3;default:USD"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive       bool            `gorm:"index:idx_account_user_active;default:true"`
	Version        int64           `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
