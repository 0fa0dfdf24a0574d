package ledger

import (
	"testing"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func accountBalance(t *testing.T, s *Service, accountID uint) decimal.Decimal {
	t.Helper()
	var acc models.Account
	require.NoError(t, s.DB.First(&acc, accountID).Error)
	return acc.CurrentBalance
}

func TestRecordTransactionMovesBalance(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	salary := testutil.SeedCategory(t, db, user.ID, "Salary", models.TypeIncome)
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	_, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID:  acc.ID,
		CategoryID: salary.ID,
		Amount:     dec("250.50"),
		Type:       models.TypeIncome,
	})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("350.50")))

	_, err = s.RecordTransaction(user.ID, TransactionInput{
		AccountID:  acc.ID,
		CategoryID: food.ID,
		Amount:     dec("50.50"),
		Type:       models.TypeExpense,
	})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("300")))
}

func TestRecordTransactionDefaultsDateToToday(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	txn, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID:  acc.ID,
		CategoryID: food.ID,
		Amount:     dec("10"),
		Type:       models.TypeExpense,
	})
	require.NoError(t, err)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, txn.Date.Format("2006-01-02"))
}

func TestRecordTransactionValidation(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	// non-positive amount
	_, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: food.ID,
		Amount: decimal.Zero, Type: models.TypeExpense,
	})
	assert.True(t, apperr.IsValidation(err))

	// future date
	_, err = s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: food.ID,
		Amount: dec("10"), Type: models.TypeExpense,
		Date: time.Now().UTC().AddDate(0, 0, 2),
	})
	assert.True(t, apperr.IsValidation(err))

	// type mismatch against the category
	_, err = s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: food.ID,
		Amount: dec("10"), Type: models.TypeIncome,
	})
	assert.True(t, apperr.IsValidation(err))

	// nothing above may have moved the balance
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("100")))
}

func TestRecordTransactionCrossOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	alice := testutil.SeedUser(t, db, "alice@example.com")
	bob := testutil.SeedUser(t, db, "bob@example.com")
	bobAcc := testutil.SeedAccount(t, db, bob.ID, "Bob Checking", dec("100"))
	aliceCat := testutil.SeedCategory(t, db, alice.ID, "Food", models.TypeExpense)

	// Bob's account reads as missing for Alice, not as forbidden.
	_, err := s.RecordTransaction(alice.ID, TransactionInput{
		AccountID: bobAcc.ID, CategoryID: aliceCat.ID,
		Amount: dec("10"), Type: models.TypeExpense,
	})
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, accountBalance(t, s, bobAcc.ID).Equal(dec("100")))
}

func TestDeleteTransactionReversesEffect(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	txn, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: food.ID,
		Amount: dec("33.33"), Type: models.TypeExpense,
	})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("66.67")))

	require.NoError(t, s.DeleteTransaction(user.ID, txn.ID))
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("100")))

	err = s.DeleteTransaction(user.ID, txn.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestEditTransactionSameAccountNetDelta(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	txn, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: food.ID,
		Amount: dec("30"), Type: models.TypeExpense,
	})
	require.NoError(t, err)

	// 100 - 30 = 70, then the edit raises the expense to 45: 55.
	_, err = s.EditTransaction(user.ID, txn.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: food.ID,
		Amount: dec("45"), Type: models.TypeExpense,
	})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("55")))
}

func TestEditTransactionAcrossAccounts(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc1 := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	acc2 := testutil.SeedAccount(t, db, user.ID, "Savings", dec("200"))
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	txn, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc1.ID, CategoryID: food.ID,
		Amount: dec("40"), Type: models.TypeExpense,
	})
	require.NoError(t, err)

	// Moving the expense to the other account restores the first and
	// charges the second.
	_, err = s.EditTransaction(user.ID, txn.ID, TransactionInput{
		AccountID: acc2.ID, CategoryID: food.ID,
		Amount: dec("40"), Type: models.TypeExpense,
	})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, s, acc1.ID).Equal(dec("100")))
	assert.True(t, accountBalance(t, s, acc2.ID).Equal(dec("160")))
}

func TestEditTransactionFlipType(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)
	salary := testutil.SeedCategory(t, db, user.ID, "Salary", models.TypeIncome)

	txn, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: food.ID,
		Amount: dec("25"), Type: models.TypeExpense,
	})
	require.NoError(t, err)

	// -25 becomes +25: net delta of +50 over the post-record balance.
	_, err = s.EditTransaction(user.ID, txn.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: salary.ID,
		Amount: dec("25"), Type: models.TypeIncome,
	})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("125")))
}

func TestBulkDeleteTransactions(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	var ids []uint
	for i := 0; i < 3; i++ {
		txn, err := s.RecordTransaction(user.ID, TransactionInput{
			AccountID: acc.ID, CategoryID: food.ID,
			Amount: dec("10"), Type: models.TypeExpense,
		})
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("70")))

	// Unknown IDs and rows of other users are silently skipped.
	deleted, err := s.BulkDeleteTransactions(user.ID, append(ids, 9999))
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.True(t, accountBalance(t, s, acc.ID).Equal(dec("100")))

	_, err = s.BulkDeleteTransactions(user.ID, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestRecordTransferMovesBothBalances(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	from := testutil.SeedAccount(t, db, user.ID, "Checking", dec("100"))
	to := testutil.SeedAccount(t, db, user.ID, "Savings", dec("50"))

	tr, err := s.RecordTransfer(user.ID, TransferInput{
		FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec("30"),
	})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, s, from.ID).Equal(dec("70")))
	assert.True(t, accountBalance(t, s, to.ID).Equal(dec("80")))

	// Deleting the transfer restores both legs exactly.
	require.NoError(t, s.DeleteTransfer(user.ID, tr.ID))
	assert.True(t, accountBalance(t, s, from.ID).Equal(dec("100")))
	assert.True(t, accountBalance(t, s, to.ID).Equal(dec("50")))
}

func TestRecordTransferRejections(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	from := testutil.SeedAccount(t, db, user.ID, "Checking", dec("20"))
	to := testutil.SeedAccount(t, db, user.ID, "Savings", dec("0"))

	_, err := s.RecordTransfer(user.ID, TransferInput{
		FromAccountID: from.ID, ToAccountID: from.ID, Amount: dec("10"),
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = s.RecordTransfer(user.ID, TransferInput{
		FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec("100"),
	})
	assert.True(t, apperr.IsValidation(err), "insufficient balance")

	_, err = s.RecordTransfer(user.ID, TransferInput{
		FromAccountID: from.ID, ToAccountID: to.ID, Amount: dec("10"),
		Date: time.Now().UTC().AddDate(0, 0, 3),
	})
	assert.True(t, apperr.IsValidation(err), "future date")

	assert.True(t, accountBalance(t, s, from.ID).Equal(dec("20")))
	assert.True(t, accountBalance(t, s, to.ID).Equal(dec("0")))
}

func TestListTransactionsFilterAndSummary(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")
	acc := testutil.SeedAccount(t, db, user.ID, "Checking", dec("0"))
	salary := testutil.SeedCategory(t, db, user.ID, "Salary", models.TypeIncome)
	food := testutil.SeedCategory(t, db, user.ID, "Food", models.TypeExpense)

	_, err := s.RecordTransaction(user.ID, TransactionInput{
		AccountID: acc.ID, CategoryID: salary.ID,
		Amount: dec("1000"), Type: models.TypeIncome, Description: "paycheck",
	})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := s.RecordTransaction(user.ID, TransactionInput{
			AccountID: acc.ID, CategoryID: food.ID,
			Amount: dec("25"), Type: models.TypeExpense, Description: "groceries",
		})
		require.NoError(t, err)
	}

	txns, total, summary, err := s.ListTransactions(user.ID, Filter{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, txns, 3)
	assert.True(t, summary.TotalIncome.Equal(dec("1000")))
	assert.True(t, summary.TotalExpense.Equal(dec("50")))

	txns, total, summary, err = s.ListTransactions(user.ID, Filter{
		Type: models.TypeExpense, Page: 1, PerPage: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpense.Equal(dec("50")))

	txns, total, _, err = s.ListTransactions(user.ID, Filter{
		Search: "paycheck", Page: 1, PerPage: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txns, 1)
	assert.Equal(t, "paycheck", txns[0].Description)
}
