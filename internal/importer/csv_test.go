package importer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestImportCSV(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	csv := strings.Join([]string{
		"Date,Type,Amount,Category,Account,Description",
		"2024-03-01,income,1000,Salary,Checking,March pay",
		"2024-03-02,expense,50,Food,Checking,groceries",
		// no type column value: the sign decides, stored as absolute
		"2024-03-03,,-25,Food,Checking,lunch",
		// zero amount is rejected
		"2024-03-04,expense,0,Food,Checking,noop",
		// bad amount is rejected
		"2024-03-05,expense,abc,Food,Checking,bad",
	}, "\n")

	res, err := s.ImportCSV(user.ID, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)

	// The unknown account and categories were created on the fly.
	var acc models.Account
	require.NoError(t, db.Where("user_id = ? AND name = ?", user.ID, "Checking").First(&acc).Error)
	assert.Equal(t, models.AccountChecking, acc.Type)
	// 1000 - 50 - 25
	assert.True(t, acc.CurrentBalance.Equal(dec("925")))

	var catCount int64
	require.NoError(t, db.Model(&models.Category{}).Where("user_id = ?", user.ID).Count(&catCount).Error)
	assert.Equal(t, int64(2), catCount, "Salary and Food")

	var txn models.Transaction
	require.NoError(t, db.Where("user_id = ? AND description = ?", user.ID, "lunch").First(&txn).Error)
	assert.Equal(t, models.TypeExpense, txn.Type)
	assert.True(t, txn.Amount.Equal(dec("25")), "absolute value stored")
}

func TestImportCSVBadDateFallsBackToToday(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	csv := "Date,Type,Amount,Category,Account,Description\n" +
		"not-a-date,expense,10,Food,Checking,mystery\n"

	res, err := s.ImportCSV(user.ID, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	var txn models.Transaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&txn).Error)
	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, txn.Date.Format("2006-01-02"))
}

func TestImportCSVAcceptsByteOrderMark(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	// files saved by spreadsheet tools often lead with a UTF-8 BOM
	csv := "\ufeffDate,Type,Amount,Category,Account,Description\n" +
		"2024-03-01,expense,10,Food,Checking,coffee\n"

	res, err := s.ImportCSV(user.ID, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 0, res.Skipped)
}

func TestImportCSVRejectsWrongHeader(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	_, err := s.ImportCSV(user.ID, strings.NewReader("Foo,Bar\n1,2\n"))
	assert.Error(t, err)

	_, err = s.ImportCSV(user.ID, strings.NewReader(""))
	assert.Error(t, err)
}

func TestExportImportJSONRoundTrip(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	// seed via CSV import so balances come from the recording path
	csv := strings.Join([]string{
		"Date,Type,Amount,Category,Account,Description",
		"2024-03-01,income,500,Salary,Checking,pay",
		"2024-03-02,expense,120,Food,Checking,groceries",
	}, "\n")
	_, err := s.ImportCSV(user.ID, strings.NewReader(csv))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(user.ID, &buf))

	// restore into a brand new user
	fresh := testutil.SeedUser(t, db, "b@example.com")
	res, err := s.ImportJSON(fresh.ID, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Accounts)
	assert.Equal(t, 2, res.Categories)
	assert.Equal(t, 2, res.Transactions)

	// the restored account ends at the same balance
	var acc models.Account
	require.NoError(t, db.Where("user_id = ? AND name = ?", fresh.ID, "Checking").First(&acc).Error)
	assert.True(t, acc.CurrentBalance.Equal(dec("380")))
}

func TestImportJSONSkipsTypeMismatchedTransactions(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	snap := Snapshot{
		Version: 1,
		Accounts: []AccountRecord{
			{ID: 1, Name: "Checking", Type: "checking", Currency: "USD", IsActive: true},
		},
		Categories: []CategoryRecord{
			{ID: 10, Name: "Salary", Type: "income", IsActive: true},
		},
		Txns: []TransactionRecord{
			// expense on an income category must not be restored
			{ID: 100, AccountID: 1, CategoryID: 10, Amount: dec("80"), Type: "expense", Date: "2024-03-01"},
			{ID: 101, AccountID: 1, CategoryID: 10, Amount: dec("500"), Type: "income", Date: "2024-03-02"},
		},
	}
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	res, err := s.ImportJSON(user.ID, bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Transactions)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", user.ID, models.TypeExpense).Count(&count).Error)
	assert.Zero(t, count)

	// the recomputed balance only reflects the surviving row
	var acc models.Account
	require.NoError(t, db.Where("user_id = ? AND name = ?", user.ID, "Checking").First(&acc).Error)
	assert.True(t, acc.CurrentBalance.Equal(dec("500")))
}

func TestExportCSV(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	in := "Date,Type,Amount,Category,Account,Description\n" +
		"2024-03-01,income,500,Salary,Checking,pay\n"
	_, err := s.ImportCSV(user.ID, strings.NewReader(in))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(user.ID, &buf))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Type,Amount,Category,Account,Description", lines[0])
	assert.Contains(t, lines[1], "2024-03-01,income,500.00,Salary,Checking,pay")
}

func TestExportXLSX(t *testing.T) {
	db := testutil.OpenDB(t)
	s := NewService(db)
	user := testutil.SeedUser(t, db, "a@example.com")

	in := "Date,Type,Amount,Category,Account,Description\n" +
		"2024-03-01,expense,42,Food,Checking,snacks\n"
	_, err := s.ImportCSV(user.ID, strings.NewReader(in))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportXLSX(user.ID, &buf))
	// XLSX files are zip archives
	assert.Equal(t, "PK", buf.String()[:2])

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	cat, err := f.GetCellValue("Transactions", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Food", cat)
	acc, err := f.GetCellValue("Transactions", "E2")
	require.NoError(t, err)
	assert.Equal(t, "Checking", acc)
}
