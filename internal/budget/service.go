// Package budget manages monthly per-category spending limits and the
// derived status view (spent, remaining, percentage). Spent is always
// computed from the transaction table, never stored.
package budget

import (
	"errors"
	"fmt"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/monthkey"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Status is the read model for one budget: the stored limit plus the
// values derived from the month's expense transactions.
type Status struct {
	Budget     models.Budget   `json:"budget"`
	Category   models.Category `json:"category"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

func (s *Service) loadOwnedExpenseCategory(tx *gorm.DB, userID, categoryID uint) (*models.Category, error) {
	var cat models.Category
	err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category")
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if cat.Type != models.TypeExpense {
		return nil, apperr.Validationf("budgets apply to expense categories only")
	}
	return &cat, nil
}

// Create sets a limit for (category, month). At most one budget may
// exist per category and month for a user.
func (s *Service) Create(userID, categoryID uint, month int, amount decimal.Decimal) (*models.Budget, error) {
	if err := monthkey.Validate(month); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperr.Validationf("budget amount cannot be negative")
	}

	var b models.Budget
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadOwnedExpenseCategory(tx, userID, categoryID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Budget{}).
			Where("user_id = ? AND category_id = ? AND month = ?", userID, categoryID, month).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check budget uniqueness: %w", err)
		}
		if existing > 0 {
			return apperr.Duplicatef("a budget for this category and month already exists")
		}

		b = models.Budget{
			UserID:     userID,
			CategoryID: categoryID,
			Month:      month,
			Amount:     amount.Round(2),
		}
		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("create budget: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Update changes a budget's limit, category or month. Moving it onto a
// (category, month) pair already taken by another budget is rejected.
func (s *Service) Update(userID, budgetID, categoryID uint, month int, amount decimal.Decimal) (*models.Budget, error) {
	if err := monthkey.Validate(month); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, apperr.Validationf("budget amount cannot be negative")
	}

	var b models.Budget
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", budgetID, userID).First(&b).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("budget")
		}
		if err != nil {
			return fmt.Errorf("load budget: %w", err)
		}

		if _, err := s.loadOwnedExpenseCategory(tx, userID, categoryID); err != nil {
			return err
		}

		var clash int64
		if err := tx.Model(&models.Budget{}).
			Where("user_id = ? AND category_id = ? AND month = ? AND id <> ?",
				userID, categoryID, month, budgetID).
			Count(&clash).Error; err != nil {
			return fmt.Errorf("check budget uniqueness: %w", err)
		}
		if clash > 0 {
			return apperr.Duplicatef("a budget for this category and month already exists")
		}

		b.CategoryID = categoryID
		b.Month = month
		b.Amount = amount.Round(2)
		if err := tx.Save(&b).Error; err != nil {
			return fmt.Errorf("save budget: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a budget. Transactions are untouched.
func (s *Service) Delete(userID, budgetID uint) error {
	res := s.DB.Where("id = ? AND user_id = ?", budgetID, userID).Delete(&models.Budget{})
	if res.Error != nil {
		return fmt.Errorf("delete budget: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("budget")
	}
	return nil
}

// ComputeSpent sums the user's expense transactions for one category
// within the month.
func (s *Service) ComputeSpent(userID, categoryID uint, month int) (decimal.Decimal, error) {
	if err := monthkey.Validate(month); err != nil {
		return decimal.Zero, err
	}
	start, end := monthkey.Bounds(month)
	var row struct {
		Total decimal.Decimal
	}
	err := s.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date < ?",
			userID, categoryID, models.TypeExpense, start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum spending: %w", err)
	}
	return row.Total, nil
}

func (s *Service) status(b models.Budget, cat models.Category) (Status, error) {
	spent, err := s.ComputeSpent(b.UserID, b.CategoryID, b.Month)
	if err != nil {
		return Status{}, err
	}
	st := Status{
		Budget:    b,
		Category:  cat,
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
	}
	if b.Amount.IsPositive() {
		pct, _ := spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		st.Percentage = pct
	}
	return st, nil
}

// Get returns one budget with its derived status.
func (s *Service) Get(userID, budgetID uint) (*Status, error) {
	var b models.Budget
	err := s.DB.Where("id = ? AND user_id = ?", budgetID, userID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("budget")
	}
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	var cat models.Category
	if err := s.DB.First(&cat, b.CategoryID).Error; err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	st, err := s.status(b, cat)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListMonth returns all of the user's budgets for one month, each with
// its derived status.
func (s *Service) ListMonth(userID uint, month int) ([]Status, error) {
	if err := monthkey.Validate(month); err != nil {
		return nil, err
	}
	var budgets []models.Budget
	if err := s.DB.Where("user_id = ? AND month = ?", userID, month).
		Order("category_id").Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]Status, 0, len(budgets))
	for _, b := range budgets {
		var cat models.Category
		if err := s.DB.First(&cat, b.CategoryID).Error; err != nil {
			return nil, fmt.Errorf("load category: %w", err)
		}
		st, err := s.status(b, cat)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Progress aggregates one month: total budgeted, total spent against
// those budgets, and the per-budget statuses.
type Progress struct {
	Month         int             `json:"month"`
	MonthLabel    string          `json:"month_label"`
	TotalBudgeted decimal.Decimal `json:"total_budgeted"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	Remaining     decimal.Decimal `json:"remaining"`
	Percentage    float64         `json:"percentage"`
	Budgets       []Status        `json:"budgets"`
}

func (s *Service) MonthProgress(userID uint, month int) (*Progress, error) {
	statuses, err := s.ListMonth(userID, month)
	if err != nil {
		return nil, err
	}

	p := Progress{
		Month:      month,
		MonthLabel: monthkey.Label(month),
		Budgets:    statuses,
	}
	p.TotalBudgeted = decimal.Zero
	p.TotalSpent = decimal.Zero
	for _, st := range statuses {
		p.TotalBudgeted = p.TotalBudgeted.Add(st.Budget.Amount)
		p.TotalSpent = p.TotalSpent.Add(st.Spent)
	}
	p.Remaining = p.TotalBudgeted.Sub(p.TotalSpent)
	if p.TotalBudgeted.IsPositive() {
		pct, _ := p.TotalSpent.Div(p.TotalBudgeted).Mul(decimal.NewFromInt(100)).Round(1).Float64()
		p.Percentage = pct
	}
	return &p, nil
}

// QuickSetup proposes budgets for a month from the previous month's
// actual spending: each expense category that saw spending gets a
// budget of 90% of that amount. Categories that already have a budget
// for the month are skipped. Returns the number created.
func (s *Service) QuickSetup(userID uint, month int) (int, error) {
	if err := monthkey.Validate(month); err != nil {
		return 0, err
	}
	prev := monthkey.Prev(month)
	start, end := monthkey.Bounds(prev)

	created := 0
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var rows []struct {
			CategoryID uint
			Total      decimal.Decimal
		}
		err := tx.Model(&models.Transaction{}).
			Select("category_id, COALESCE(SUM(amount), 0) AS total").
			Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
				userID, models.TypeExpense, start, end).
			Group("category_id").
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("aggregate prior month spending: %w", err)
		}

		ninety := decimal.NewFromFloat(0.9)
		for _, r := range rows {
			if !r.Total.IsPositive() {
				continue
			}
			var existing int64
			if err := tx.Model(&models.Budget{}).
				Where("user_id = ? AND category_id = ? AND month = ?", userID, r.CategoryID, month).
				Count(&existing).Error; err != nil {
				return fmt.Errorf("check budget uniqueness: %w", err)
			}
			if existing > 0 {
				continue
			}
			b := models.Budget{
				UserID:     userID,
				CategoryID: r.CategoryID,
				Month:      month,
				Amount:     r.Total.Mul(ninety).Round(2),
			}
			if err := tx.Create(&b).Error; err != nil {
				return fmt.Errorf("create budget: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
