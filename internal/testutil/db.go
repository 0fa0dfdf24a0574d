// Package testutil provides shared test fixtures.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/database"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens a migrated SQLite database in a per-test temp dir.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// SeedUser creates a bare user row.
func SeedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedAccount creates an active checking account with the given
// starting balance.
func SeedAccount(t *testing.T, db *gorm.DB, userID uint, name string, balance decimal.Decimal) *models.Account {
	t.Helper()

	acc := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           models.AccountChecking,
		Currency:       "USD",
		InitialBalance: balance,
		CurrentBalance: balance,
		IsActive:       true,
	}
	require.NoError(t, db.Create(acc).Error)
	return acc
}

// SeedCategory creates an active user category of the given type.
func SeedCategory(t *testing.T, db *gorm.DB, userID uint, name string, typ models.TransactionType) *models.Category {
	t.Helper()

	cat := &models.Category{
		UserID:   userID,
		Name:     name,
		Type:     typ,
		Icon:     "📁",
		Color:    "#808080",
		IsActive: true,
	}
	require.NoError(t, db.Create(cat).Error)
	return cat
}
