package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Filter narrows a transaction listing. Zero values mean "no filter".
type Filter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	AccountID  uint
	CategoryID uint
	Type       models.TransactionType
	Search     string
	Page       int
	PerPage    int
}

// Summary totals the filtered transactions by direction.
type Summary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.DateFrom != nil {
		q = q.Where("date >= ?", normalizeDate(*f.DateFrom))
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", normalizeDate(*f.DateTo))
	}
	if f.AccountID != 0 {
		q = q.Where("account_id = ?", f.AccountID)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Search != "" {
		q = q.Where("description LIKE ?", "%"+f.Search+"%")
	}
	return q
}

// GetTransaction fetches one owner-scoped transaction.
func (s *Service) GetTransaction(userID, transactionID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.DB.Where("id = ? AND user_id = ?", transactionID, userID).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction")
	}
	if err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	return &txn, nil
}

// ListTransactions returns a page of filtered transactions plus the
// total row count and income/expense sums over the whole filter.
func (s *Service) ListTransactions(userID uint, f Filter) ([]models.Transaction, int64, Summary, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 || f.PerPage > 100 {
		f.PerPage = 25
	}

	base := f.apply(s.DB.Model(&models.Transaction{}).Where("user_id = ?", userID))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, Summary{}, fmt.Errorf("count transactions: %w", err)
	}

	var txns []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(f.PerPage).
		Offset((f.Page - 1) * f.PerPage).
		Find(&txns).Error; err != nil {
		return nil, 0, Summary{}, fmt.Errorf("list transactions: %w", err)
	}

	sum := Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	type row struct {
		Type  models.TransactionType
		Total decimal.Decimal
	}
	var rows []row
	if err := base.Session(&gorm.Session{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, 0, Summary{}, fmt.Errorf("sum transactions: %w", err)
	}
	for _, r := range rows {
		if r.Type == models.TypeIncome {
			sum.TotalIncome = r.Total
		} else {
			sum.TotalExpense = r.Total
		}
	}

	return txns, total, sum, nil
}

// ListTransfers returns a page of the owner's transfers, newest first.
func (s *Service) ListTransfers(userID uint, page, perPage int) ([]models.Transfer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	base := s.DB.Model(&models.Transfer{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}

	var transfers []models.Transfer
	if err := base.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&transfers).Error; err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, total, nil
}
