// Package account manages the owner's balance-bearing containers.
// Balance mutation stays inside the ledger engine; re-basing an
// account's initial balance goes through the same guarded writer.
package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/ledger"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Input carries the caller-editable account fields.
type Input struct {
	Name           string
	Type           models.AccountType
	Currency       string
	InitialBalance decimal.Decimal
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validationf("account name is required")
	}
	if len(in.Name) > 100 {
		return apperr.Validationf("account name too long (max 100 characters)")
	}
	if _, err := models.ParseAccountType(string(in.Type)); err != nil {
		return err
	}
	if in.Currency != "" && len(in.Currency) != 3 {
		return apperr.Validationf("currency must be a 3-letter ISO code")
	}
	return nil
}

// Create opens a new account; the current balance starts equal to the
// initial balance.
func (s *Service) Create(userID uint, in Input) (*models.Account, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = "USD"
	}

	acc := models.Account{
		UserID:         userID,
		Name:           strings.TrimSpace(in.Name),
		Type:           in.Type,
		Currency:       currency,
		InitialBalance: in.InitialBalance.Round(2),
		CurrentBalance: in.InitialBalance.Round(2),
		IsActive:       true,
	}
	if err := s.DB.Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acc, nil
}

// Get fetches one owner-scoped account.
func (s *Service) Get(userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	err := s.DB.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("account")
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &acc, nil
}

// List returns the owner's accounts, newest first.
func (s *Service) List(userID uint, activeOnly bool) ([]models.Account, error) {
	q := s.DB.Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var accounts []models.Account
	if err := q.Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// TotalBalance sums current balances across the owner's active
// accounts.
func (s *Service) TotalBalance(userID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.DB.Model(&models.Account{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Select("COALESCE(SUM(current_balance), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum balances: %w", err)
	}
	return total, nil
}

// Update edits name, type and currency. A changed initial balance is
// re-applied to the current balance as a delta, so transaction history
// stays intact.
func (s *Service) Update(userID, accountID uint, in Input) (*models.Account, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var acc models.Account
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("account")
		}
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}

		newInitial := in.InitialBalance.Round(2)
		delta := newInitial.Sub(acc.InitialBalance)

		acc.Name = strings.TrimSpace(in.Name)
		acc.Type = in.Type
		if in.Currency != "" {
			acc.Currency = strings.ToUpper(in.Currency)
		}
		acc.InitialBalance = newInitial
		if err := tx.Save(&acc).Error; err != nil {
			return fmt.Errorf("save account: %w", err)
		}

		if !delta.IsZero() {
			if err := ledger.ApplyBalance(tx, acc.ID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// re-read so the caller sees the CAS-updated balance
	return s.Get(userID, accountID)
}

// Archive soft-deletes an account. It refuses while any transaction
// or transfer leg still references the account, since those entries
// are what the balance invariant is built from.
func (s *Service) Archive(userID, accountID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var acc models.Account
		err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("account")
		}
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}

		var txnCount int64
		if err := tx.Model(&models.Transaction{}).
			Where("account_id = ? AND user_id = ?", accountID, userID).
			Count(&txnCount).Error; err != nil {
			return fmt.Errorf("count transactions: %w", err)
		}
		var trCount int64
		if err := tx.Model(&models.Transfer{}).
			Where("user_id = ? AND (from_account_id = ? OR to_account_id = ?)",
				userID, accountID, accountID).
			Count(&trCount).Error; err != nil {
			return fmt.Errorf("count transfers: %w", err)
		}
		if txnCount > 0 || trCount > 0 {
			return apperr.Conflictf("account has ledger entries; archive is blocked until they are removed")
		}

		acc.IsActive = false
		if err := tx.Save(&acc).Error; err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		return nil
	})
}

// Restore reactivates an archived account.
func (s *Service) Restore(userID, accountID uint) error {
	res := s.DB.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Update("is_active", true)
	if res.Error != nil {
		return fmt.Errorf("restore account: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("account")
	}
	return nil
}
