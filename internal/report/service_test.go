package report

import (
	"testing"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/ledger"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/monthkey"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	db     *gorm.DB
	ledger *ledger.Service
	report *Service
	user   *models.User
	acc    *models.Account
	salary *models.Category
	food   *models.Category
	travel *models.Category
	month  int
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "a@example.com")
	return &fixture{
		db:     db,
		ledger: ledger.NewService(db),
		report: NewService(db),
		user:   user,
		acc:    testutil.SeedAccount(t, db, user.ID, "Checking", dec("500")),
		salary: testutil.SeedCategory(t, db, user.ID, "Salary", models.TypeIncome),
		food:   testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense),
		travel: testutil.SeedCategory(t, db, user.ID, "Travel", models.TypeExpense),
		month:  monthkey.Prev(monthkey.FromTime(time.Now().UTC())),
	}
}

func (f *fixture) record(t *testing.T, catID uint, typ models.TransactionType, amount string, month int) {
	t.Helper()
	start, _ := monthkey.Bounds(month)
	_, err := f.ledger.RecordTransaction(f.user.ID, ledger.TransactionInput{
		AccountID:  f.acc.ID,
		CategoryID: catID,
		Amount:     dec(amount),
		Type:       typ,
		Date:       start,
	})
	require.NoError(t, err)
}

func TestBuildSummary(t *testing.T) {
	f := setup(t)

	f.record(t, f.salary.ID, models.TypeIncome, "1000", f.month)
	f.record(t, f.food.ID, models.TypeExpense, "200", f.month)
	f.record(t, f.travel.ID, models.TypeExpense, "300", f.month)

	s, err := f.report.BuildSummary(f.user.ID, f.month)
	require.NoError(t, err)

	// 500 starting + 1000 - 200 - 300
	assert.True(t, s.TotalBalance.Equal(dec("1000")))
	assert.True(t, s.MonthIncome.Equal(dec("1000")))
	assert.True(t, s.MonthExpense.Equal(dec("500")))
	assert.True(t, s.MonthSavings.Equal(dec("500")))
	assert.Len(t, s.RecentTransactions, 3)
	assert.Len(t, s.ExpenseByCategory, 2)
}

func TestSummaryExcludesTransfers(t *testing.T) {
	f := setup(t)
	other := testutil.SeedAccount(t, f.db, f.user.ID, "Savings", dec("0"))

	f.record(t, f.salary.ID, models.TypeIncome, "100", f.month)

	_, err := f.ledger.RecordTransfer(f.user.ID, ledger.TransferInput{
		FromAccountID: f.acc.ID, ToAccountID: other.ID, Amount: dec("50"),
	})
	require.NoError(t, err)

	s, err := f.report.BuildSummary(f.user.ID, f.month)
	require.NoError(t, err)

	// The transfer moved money between accounts but is neither income
	// nor expense, and net worth is unchanged.
	assert.True(t, s.MonthIncome.Equal(dec("100")))
	assert.True(t, s.MonthExpense.IsZero())
	assert.True(t, s.TotalBalance.Equal(dec("600")))
}

func TestSpendingByCategoryPercentages(t *testing.T) {
	f := setup(t)

	f.record(t, f.food.ID, models.TypeExpense, "75", f.month)
	f.record(t, f.travel.ID, models.TypeExpense, "25", f.month)

	start, end := monthkey.Bounds(f.month)
	rows, err := f.report.SpendingByCategory(f.user.ID, models.TypeExpense, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// ordered by total descending
	assert.Equal(t, f.food.ID, rows[0].CategoryID)
	assert.InDelta(t, 75.0, rows[0].Percentage, 0.01)
	assert.InDelta(t, 25.0, rows[1].Percentage, 0.01)
}

func TestSpendingByCategoryEmptyWindow(t *testing.T) {
	f := setup(t)

	start, end := monthkey.Bounds(f.month)
	rows, err := f.report.SpendingByCategory(f.user.ID, models.TypeExpense, start, end)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestIncomeVsExpenseTrend(t *testing.T) {
	f := setup(t)
	prev := monthkey.Prev(f.month)

	f.record(t, f.salary.ID, models.TypeIncome, "100", prev)
	f.record(t, f.salary.ID, models.TypeIncome, "200", f.month)
	f.record(t, f.food.ID, models.TypeExpense, "50", f.month)

	trend, err := f.report.IncomeVsExpense(f.user.ID, f.month, 3)
	require.NoError(t, err)
	require.Len(t, trend, 3)

	// oldest first, ending at the requested month
	assert.Equal(t, f.month, trend[2].Month)
	assert.Equal(t, prev, trend[1].Month)
	assert.True(t, trend[0].Income.IsZero())
	assert.True(t, trend[1].Income.Equal(dec("100")))
	assert.True(t, trend[2].Income.Equal(dec("200")))
	assert.True(t, trend[2].Savings.Equal(dec("150")))
}

func TestDailyStatsZeroFilled(t *testing.T) {
	f := setup(t)

	// yesterday, safely inside a 7 day window
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	_, err := f.ledger.RecordTransaction(f.user.ID, ledger.TransactionInput{
		AccountID:  f.acc.ID,
		CategoryID: f.food.ID,
		Amount:     dec("40"),
		Type:       models.TypeExpense,
		Date:       yesterday,
	})
	require.NoError(t, err)

	stats, err := f.report.DailyStats(f.user.ID, 7)
	require.NoError(t, err)
	require.Len(t, stats, 7)

	key := yesterday.Format("2006-01-02")
	var found bool
	for _, d := range stats {
		if d.Date == key {
			found = true
			assert.True(t, d.Expense.Equal(dec("40")))
		} else {
			assert.True(t, d.Expense.IsZero())
		}
		assert.True(t, d.Income.IsZero())
	}
	assert.True(t, found)
}

func TestBudgetVsActual(t *testing.T) {
	f := setup(t)

	b := models.Budget{
		UserID:     f.user.ID,
		CategoryID: f.food.ID,
		Month:      f.month,
		Amount:     dec("100"),
	}
	require.NoError(t, f.db.Create(&b).Error)

	f.record(t, f.food.ID, models.TypeExpense, "130", f.month)

	rows, err := f.report.BudgetVsActual(f.user.ID, f.month)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Budgeted.Equal(dec("100")))
	assert.True(t, rows[0].Actual.Equal(dec("130")))
	assert.True(t, rows[0].Difference.Equal(dec("-30")))
	assert.InDelta(t, 130.0, rows[0].Percentage, 0.01)
}
