// Package report builds read-only aggregations over the ledger:
// dashboard summary, category breakdowns, trends and budget
// comparisons. Transfers never appear in any report; they move money
// between accounts without changing net worth.
package report

import (
	"fmt"
	"time"

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

// CategoryAmount is one slice of a category breakdown.
type CategoryAmount struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Icon         string          `json:"icon"`
	Color        string          `json:"color"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
	Percentage   float64         `json:"percentage"`
}

// Summary is the dashboard read model.
type Summary struct {
	TotalBalance      decimal.Decimal      `json:"total_balance"`
	Month             int                  `json:"month"`
	MonthLabel        string               `json:"month_label"`
	MonthIncome       decimal.Decimal      `json:"month_income"`
	MonthExpense      decimal.Decimal      `json:"month_expense"`
	MonthSavings      decimal.Decimal      `json:"month_savings"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	ExpenseByCategory []CategoryAmount     `json:"expense_by_category"`
}

func (s *Service) sumByType(userID uint, t models.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := s.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, t, start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return row.Total, nil
}

// categoryBreakdown groups one type's transactions by category within
// a window. Each slice's percentage is taken against the window total;
// an empty window yields percentages of zero.
func (s *Service) categoryBreakdown(userID uint, t models.TransactionType, start, end time.Time) ([]CategoryAmount, error) {
	var rows []CategoryAmount
	err := s.DB.Model(&models.Transaction{}).
		Select(`categories.id AS category_id,
			categories.name AS category_name,
			categories.icon AS icon,
			categories.color AS color,
			COALESCE(SUM(transactions.amount), 0) AS total,
			COUNT(transactions.id) AS count`).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, t, start, end).
		Group("categories.id, categories.name, categories.icon, categories.color").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("group transactions by category: %w", err)
	}

	grand := decimal.Zero
	for _, r := range rows {
		grand = grand.Add(r.Total)
	}
	if grand.IsPositive() {
		for i := range rows {
			pct, _ := rows[i].Total.Div(grand).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			rows[i].Percentage = pct
		}
	}
	return rows, nil
}

// BuildSummary assembles the dashboard for one month: total balance
// across active accounts, the month's income/expense/savings, the ten
// most recent transactions and the month's expense breakdown.
func (s *Service) BuildSummary(userID uint, month int) (*Summary, error) {
	if err := monthkey.Validate(month); err != nil {
		return nil, err
	}
	start, end := monthkey.Bounds(month)

	var balanceRow struct {
		Total decimal.Decimal
	}
	err := s.DB.Model(&models.Account{}).
		Select("COALESCE(SUM(current_balance), 0) AS total").
		Where("user_id = ? AND is_active = ?", userID, true).
		Scan(&balanceRow).Error
	if err != nil {
		return nil, fmt.Errorf("sum account balances: %w", err)
	}

	income, err := s.sumByType(userID, models.TypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expense, err := s.sumByType(userID, models.TypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	var recent []models.Transaction
	if err := s.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").Limit(10).Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("load recent transactions: %w", err)
	}

	byCategory, err := s.categoryBreakdown(userID, models.TypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalBalance:       balanceRow.Total,
		Month:              month,
		MonthLabel:         monthkey.Label(month),
		MonthIncome:        income,
		MonthExpense:       expense,
		MonthSavings:       income.Sub(expense),
		RecentTransactions: recent,
		ExpenseByCategory:  byCategory,
	}, nil
}

// SpendingByCategory breaks one type's transactions down by category
// over an arbitrary date window.
func (s *Service) SpendingByCategory(userID uint, t models.TransactionType, start, end time.Time) ([]CategoryAmount, error) {
	return s.categoryBreakdown(userID, t, start, end)
}

// MonthTotals is one point of the income-versus-expense trend.
type MonthTotals struct {
	Month    int             `json:"month"`
	Label    string          `json:"label"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Savings  decimal.Decimal `json:"savings"`
}

// IncomeVsExpense returns monthly totals for the trailing months
// window ending at the given month, oldest first.
func (s *Service) IncomeVsExpense(userID uint, month, months int) ([]MonthTotals, error) {
	if err := monthkey.Validate(month); err != nil {
		return nil, err
	}
	if months < 1 || months > 36 {
		months = 6
	}

	keys := make([]int, months)
	k := month
	for i := months - 1; i >= 0; i-- {
		keys[i] = k
		k = monthkey.Prev(k)
	}

	out := make([]MonthTotals, 0, months)
	for _, key := range keys {
		start, end := monthkey.Bounds(key)
		income, err := s.sumByType(userID, models.TypeIncome, start, end)
		if err != nil {
			return nil, err
		}
		expense, err := s.sumByType(userID, models.TypeExpense, start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, MonthTotals{
			Month:   key,
			Label:   monthkey.Label(key),
			Income:  income,
			Expense: expense,
			Savings: income.Sub(expense),
		})
	}
	return out, nil
}

// DayTotals is one point of the daily trend.
type DayTotals struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DailyStats returns per-day totals for the trailing days window
// ending today, oldest first. Days without activity appear as zeros.
func (s *Service) DailyStats(userID uint, days int) ([]DayTotals, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	var rows []struct {
		Day     time.Time
		Type    models.TransactionType
		Total   decimal.Decimal
	}
	err := s.DB.Model(&models.Transaction{}).
		Select("date AS day, type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("date, type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("group transactions by day: %w", err)
	}

	byDay := make(map[string]*DayTotals, days)
	out := make([]DayTotals, 0, days)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		out = append(out, DayTotals{Date: key, Income: decimal.Zero, Expense: decimal.Zero})
		byDay[key] = &out[len(out)-1]
	}
	for _, r := range rows {
		dt, ok := byDay[r.Day.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		switch r.Type {
		case models.TypeIncome:
			dt.Income = dt.Income.Add(r.Total)
		case models.TypeExpense:
			dt.Expense = dt.Expense.Add(r.Total)
		}
	}
	return out, nil
}

// BudgetActual pairs one budget with the month's actual spending.
type BudgetActual struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Budgeted     decimal.Decimal `json:"budgeted"`
	Actual       decimal.Decimal `json:"actual"`
	Difference   decimal.Decimal `json:"difference"`
	Percentage   float64         `json:"percentage"`
}

// BudgetVsActual compares each of the month's budgets to that
// category's actual expense total.
func (s *Service) BudgetVsActual(userID uint, month int) ([]BudgetActual, error) {
	if err := monthkey.Validate(month); err != nil {
		return nil, err
	}
	start, end := monthkey.Bounds(month)

	var budgets []models.Budget
	if err := s.DB.Where("user_id = ? AND month = ?", userID, month).
		Order("category_id").Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]BudgetActual, 0, len(budgets))
	for _, b := range budgets {
		var cat models.Category
		if err := s.DB.First(&cat, b.CategoryID).Error; err != nil {
			return nil, fmt.Errorf("load category: %w", err)
		}
		var row struct {
			Total decimal.Decimal
		}
		err := s.DB.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0) AS total").
			Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date < ?",
				userID, b.CategoryID, models.TypeExpense, start, end).
			Scan(&row).Error
		if err != nil {
			return nil, fmt.Errorf("sum spending: %w", err)
		}
		ba := BudgetActual{
			CategoryID:   b.CategoryID,
			CategoryName: cat.Name,
			Budgeted:     b.Amount,
			Actual:       row.Total,
			Difference:   b.Amount.Sub(row.Total),
		}
		if b.Amount.IsPositive() {
			pct, _ := row.Total.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(1).Float64()
			ba.Percentage = pct
		}
		out = append(out, ba)
	}
	return out, nil
}
