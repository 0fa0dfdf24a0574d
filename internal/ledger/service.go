// Package ledger is the only code path allowed to move account
// balances. Every mutation runs inside one storage transaction: the
// balance update and the record write commit together or not at all.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service applies and reverses transactions and transfers against
// account balances.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// TransactionInput carries validated-at-boundary fields for creating
// or editing a transaction.
type TransactionInput struct {
	AccountID   uint
	CategoryID  uint
	Amount      decimal.Decimal
	Type        models.TransactionType
	Date        time.Time
	Description string
}

// TransferInput carries the fields for creating a transfer.
type TransferInput struct {
	FromAccountID uint
	ToAccountID   uint
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
}

// balanceRetries bounds the optimistic-lock retry loop. SQLite
// serializes writers so the first attempt normally wins; the loop is
// for backends where two requests can race on the same account row.
const balanceRetries = 3

// ApplyBalance moves an account's cached balance by delta using a
// compare-and-swap on the version column. It must be called inside
// the same storage transaction as the ledger record write.
func ApplyBalance(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	for i := 0; i < balanceRetries; i++ {
		var acc models.Account
		if err := tx.First(&acc, accountID).Error; err != nil {
			return fmt.Errorf("load account %d: %w", accountID, err)
		}

		res := tx.Model(&models.Account{}).
			Where("id = ? AND version = ?", acc.ID, acc.Version).
			Updates(map[string]interface{}{
				"current_balance": acc.CurrentBalance.Add(delta),
				"version":         acc.Version + 1,
				"updated_at":      time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("update balance of account %d: %w", accountID, res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return apperr.Conflictf("account %d balance contended, retry", accountID)
}

// signedEffect returns the balance delta a transaction applies:
// positive for income, negative for expense.
func signedEffect(t models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == models.TypeIncome {
		return amount
	}
	return amount.Neg()
}

// today truncates now to a calendar date in UTC.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalizeDate strips any time-of-day component. A zero time means
// the caller omitted the date, which defaults to today.
func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return today()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateTransactionInput(in TransactionInput) error {
	if !in.Amount.IsPositive() {
		return apperr.Validationf("amount must be positive")
	}
	if len(in.Description) > 200 {
		return apperr.Validationf("description too long (max 200 characters)")
	}
	if normalizeDate(in.Date).After(today()) {
		return apperr.Validationf("date cannot be in the future")
	}
	if in.Type != models.TypeIncome && in.Type != models.TypeExpense {
		return apperr.Validationf("invalid transaction type %q", string(in.Type))
	}
	return nil
}

// loadOwnedAccount fetches an account scoped to its owner. A row
// owned by someone else reads the same as a missing row.
func loadOwnedAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("account")
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &acc, nil
}

func loadOwnedCategory(tx *gorm.DB, userID, categoryID uint) (*models.Category, error) {
	var cat models.Category
	err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category")
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &cat, nil
}

// RecordTransaction creates a transaction and applies its effect to
// the owning account's balance. No check prevents the balance going
// negative; credit-card style accounts do that by design.
func (s *Service) RecordTransaction(userID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	var txn models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnedAccount(tx, userID, in.AccountID); err != nil {
			return err
		}
		cat, err := loadOwnedCategory(tx, userID, in.CategoryID)
		if err != nil {
			return err
		}
		if cat.Type != in.Type {
			return apperr.Validationf("category %q is %s, transaction is %s",
				cat.Name, cat.Type, in.Type)
		}

		syncID := uuid.NewString()
		txn = models.Transaction{
			UserID:      userID,
			AccountID:   in.AccountID,
			CategoryID:  in.CategoryID,
			Amount:      in.Amount.Round(2),
			Type:        in.Type,
			Date:        normalizeDate(in.Date),
			Description: in.Description,
			SyncStatus:  models.SyncLocal,
			SyncID:      &syncID,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		return ApplyBalance(tx, in.AccountID, signedEffect(in.Type, txn.Amount))
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// EditTransaction reverses the old balance effect and applies the new
// one. When the account is unchanged the two are collapsed into a
// single net delta so no invalid intermediate balance is ever written.
func (s *Service) EditTransaction(userID, transactionID uint, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(in); err != nil {
		return nil, err
	}

	var txn models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&txn).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("transaction")
		}
		if err != nil {
			return fmt.Errorf("load transaction: %w", err)
		}

		if _, err := loadOwnedAccount(tx, userID, in.AccountID); err != nil {
			return err
		}
		cat, err := loadOwnedCategory(tx, userID, in.CategoryID)
		if err != nil {
			return err
		}
		if cat.Type != in.Type {
			return apperr.Validationf("category %q is %s, transaction is %s",
				cat.Name, cat.Type, in.Type)
		}

		oldEffect := signedEffect(txn.Type, txn.Amount)
		newEffect := signedEffect(in.Type, in.Amount.Round(2))

		if txn.AccountID == in.AccountID {
			net := newEffect.Sub(oldEffect)
			if !net.IsZero() {
				if err := ApplyBalance(tx, in.AccountID, net); err != nil {
					return err
				}
			}
		} else {
			if err := ApplyBalance(tx, txn.AccountID, oldEffect.Neg()); err != nil {
				return err
			}
			if err := ApplyBalance(tx, in.AccountID, newEffect); err != nil {
				return err
			}
		}

		txn.AccountID = in.AccountID
		txn.CategoryID = in.CategoryID
		txn.Amount = in.Amount.Round(2)
		txn.Type = in.Type
		txn.Date = normalizeDate(in.Date)
		txn.Description = in.Description
		if err := tx.Save(&txn).Error; err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// DeleteTransaction reverses the transaction's balance effect and
// removes the record. The original was valid, so nothing is
// re-validated.
func (s *Service) DeleteTransaction(userID, transactionID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&txn).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("transaction")
		}
		if err != nil {
			return fmt.Errorf("load transaction: %w", err)
		}

		if err := ApplyBalance(tx, txn.AccountID, signedEffect(txn.Type, txn.Amount).Neg()); err != nil {
			return err
		}
		if err := tx.Delete(&txn).Error; err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	})
}

// BulkDeleteTransactions reverses and removes several transactions in
// a single transaction boundary: a failure midway leaves no partial
// reversal behind. Returns the number deleted.
func (s *Service) BulkDeleteTransactions(userID uint, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, apperr.Validationf("no transactions selected")
	}

	deleted := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txns []models.Transaction
		if err := tx.Where("id IN ? AND user_id = ?", ids, userID).Find(&txns).Error; err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		for i := range txns {
			t := &txns[i]
			if err := ApplyBalance(tx, t.AccountID, signedEffect(t.Type, t.Amount).Neg()); err != nil {
				return err
			}
			if err := tx.Delete(t).Error; err != nil {
				return fmt.Errorf("delete transaction %d: %w", t.ID, err)
			}
		}
		deleted = len(txns)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// RecordTransfer moves money between two of the owner's accounts.
// The debit, the credit and the record commit together. The
// insufficient-balance check is a UX guard, not an accounting
// constraint.
func (s *Service) RecordTransfer(userID uint, in TransferInput) (*models.Transfer, error) {
	if !in.Amount.IsPositive() {
		return nil, apperr.Validationf("amount must be positive")
	}
	if in.FromAccountID == in.ToAccountID {
		return nil, apperr.Validationf("cannot transfer to the same account")
	}
	if len(in.Description) > 200 {
		return nil, apperr.Validationf("description too long (max 200 characters)")
	}
	if normalizeDate(in.Date).After(today()) {
		return nil, apperr.Validationf("date cannot be in the future")
	}

	var tr models.Transfer
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		from, err := loadOwnedAccount(tx, userID, in.FromAccountID)
		if err != nil {
			return err
		}
		if _, err := loadOwnedAccount(tx, userID, in.ToAccountID); err != nil {
			return err
		}
		amount := in.Amount.Round(2)
		if from.CurrentBalance.LessThan(amount) {
			return apperr.Validationf("insufficient balance in source account")
		}

		tr = models.Transfer{
			UserID:        userID,
			FromAccountID: in.FromAccountID,
			ToAccountID:   in.ToAccountID,
			Amount:        amount,
			Date:          normalizeDate(in.Date),
			Description:   in.Description,
		}
		if err := tx.Create(&tr).Error; err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}

		if err := ApplyBalance(tx, in.FromAccountID, amount.Neg()); err != nil {
			return err
		}
		return ApplyBalance(tx, in.ToAccountID, amount)
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

// DeleteTransfer reverses both legs exactly and removes the record.
func (s *Service) DeleteTransfer(userID, transferID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var tr models.Transfer
		err := tx.Where("id = ? AND user_id = ?", transferID, userID).First(&tr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("transfer")
		}
		if err != nil {
			return fmt.Errorf("load transfer: %w", err)
		}

		if err := ApplyBalance(tx, tr.FromAccountID, tr.Amount); err != nil {
			return err
		}
		if err := ApplyBalance(tx, tr.ToAccountID, tr.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.Delete(&tr).Error; err != nil {
			return fmt.Errorf("delete transfer: %w", err)
		}
		return nil
	})
}
