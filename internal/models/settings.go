package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserSettings holds per-user preference state, one row per user.
// It lives entirely outside the ledger; the core only reads
// DefaultCurrency for display formatting.
type UserSettings struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex;not null"`

	DefaultCurrency string `gorm:"size:3;default:USD"`
	DateFormat      string `gorm:"size:20;default:MM/DD/YYYY"`
	FirstDayOfWeek  int    `gorm:"default:0"` // 0=Sunday, 1=Monday
	Theme           string `gorm:"size:10;default:dark"`

	ShowCharts  bool `gorm:"default:true"`
	ShowRecent  bool `gorm:"default:true"`
	ShowBudgets bool `gorm:"default:true"`

	AutoCategorize     bool `gorm:"default:true"`
	DuplicateDetection bool `gorm:"default:true"`
	RequireDescription bool `gorm:"default:false"`

	BudgetAlerts      bool `gorm:"default:true"`
	LargeTransactions bool `gorm:"default:true"`
	WeeklySummary     bool `gorm:"default:true"`
	MonthlyReport     bool `gorm:"default:true"`

	LargeTransactionThreshold decimal.Decimal `gorm:"type:decimal(5,2);default:20.0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSettings returns the settings row seeded at registration.
func DefaultSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:                    userID,
		DefaultCurrency:           "USD",
		DateFormat:                "MM/DD/YYYY",
		FirstDayOfWeek:            0,
		Theme:                     "dark",
		ShowCharts:                true,
		ShowRecent:                true,
		ShowBudgets:               true,
		AutoCategorize:            true,
		DuplicateDetection:        true,
		RequireDescription:        false,
		BudgetAlerts:              true,
		LargeTransactions:         true,
		WeeklySummary:             true,
		MonthlyReport:             true,
		LargeTransactionThreshold: decimal.NewFromInt(20),
	}
}
