// Package importer moves ledger data across the system boundary as
// CSV, JSON and XLSX. Imported rows go through the same recording
// path as interactive entry so balances stay consistent.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/account"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/category"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/ledger"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	DB         *gorm.DB
	Ledger     *ledger.Service
	Accounts   *account.Service
	Categories *category.Service
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:         db,
		Ledger:     ledger.NewService(db),
		Accounts:   account.NewService(db),
		Categories: category.NewService(db),
	}
}

// RowError reports one rejected import row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// CSVResult summarizes an import run.
type CSVResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

var csvHeader = []string{"Date", "Type", "Amount", "Category", "Account", "Description"}

func headerMatches(got []string) bool {
	if len(got) < len(csvHeader) {
		return false
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(got[i], "\uFEFF")), want) {
			return false
		}
	}
	return true
}

// findOrCreateAccount resolves an account by name, creating a checking
// account on first sight of an unknown name.
func (s *Service) findOrCreateAccount(userID uint, name string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Main Account"
	}
	var acc models.Account
	err := s.DB.Where("user_id = ? AND name = ?", userID, name).First(&acc).Error
	if err == nil {
		return &acc, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	return s.Accounts.Create(userID, account.Input{
		Name:           name,
		Type:           models.AccountChecking,
		Currency:       "USD",
		InitialBalance: decimal.Zero,
	})
}

// findOrCreateCategory resolves a category by name and type, creating
// one with default styling when the name is unknown.
func (s *Service) findOrCreateCategory(userID uint, name string, t models.TransactionType) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if t == models.TypeIncome {
			name = "Other Income"
		} else {
			name = "Other Expense"
		}
	}
	var cat models.Category
	err := s.DB.Where("user_id = ? AND name = ? AND type = ?", userID, name, t).First(&cat).Error
	if err == nil {
		return &cat, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("look up category: %w", err)
	}
	return s.Categories.Create(userID, category.Input{Name: name, Type: t})
}

// parseRowType decides the row's direction. An explicit Type column
// wins; otherwise a negative amount means expense. The stored amount
// is always the absolute value.
func parseRowType(typeField string, amount decimal.Decimal) (models.TransactionType, decimal.Decimal, error) {
	abs := amount.Abs()
	typeField = strings.ToLower(strings.TrimSpace(typeField))
	if typeField != "" {
		t, err := models.ParseTransactionType(typeField)
		if err != nil {
			return "", decimal.Zero, err
		}
		return t, abs, nil
	}
	if amount.IsNegative() {
		return models.TypeExpense, abs, nil
	}
	return models.TypeIncome, abs, nil
}

// ImportCSV reads transactions from r and records them one by one.
// Bad rows are collected, not fatal; a malformed date falls back to
// today.
func (s *Service) ImportCSV(userID uint, r io.Reader) (*CSVResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !headerMatches(header) {
		return nil, fmt.Errorf("unexpected header, want %s", strings.Join(csvHeader, ","))
	}

	res := &CSVResult{Errors: []RowError{}}
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if len(record) < 6 {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: "too few columns"})
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: "invalid amount"})
			continue
		}
		if amount.IsZero() {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: "amount cannot be zero"})
			continue
		}

		t, abs, err := parseRowType(record[1], amount)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		date, err := util.ParseDate(strings.TrimSpace(record[0]))
		if err != nil {
			now := time.Now().UTC()
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}

		acc, err := s.findOrCreateAccount(userID, record[4])
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		cat, err := s.findOrCreateCategory(userID, record[3], t)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		_, err = s.Ledger.RecordTransaction(userID, ledger.TransactionInput{
			AccountID:   acc.ID,
			CategoryID:  cat.ID,
			Amount:      abs,
			Type:        t,
			Date:        date,
			Description: strings.TrimSpace(record[5]),
		})
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		res.Imported++
	}
	return res, nil
}

// exportNames loads the user's category and account names keyed by ID
// so export loops resolve rows without per-row queries.
func (s *Service) exportNames(userID uint) (map[uint]string, map[uint]string, error) {
	var cats []models.Category
	if err := s.DB.Where("user_id = ?", userID).Find(&cats).Error; err != nil {
		return nil, nil, fmt.Errorf("load categories: %w", err)
	}
	catNames := make(map[uint]string, len(cats))
	for _, c := range cats {
		catNames[c.ID] = c.Name
	}

	var accs []models.Account
	if err := s.DB.Where("user_id = ?", userID).Find(&accs).Error; err != nil {
		return nil, nil, fmt.Errorf("load accounts: %w", err)
	}
	accNames := make(map[uint]string, len(accs))
	for _, a := range accs {
		accNames[a.ID] = a.Name
	}
	return catNames, accNames, nil
}

// ExportCSV streams all of the user's transactions to w, newest first.
func (s *Service) ExportCSV(userID uint, w io.Writer) error {
	var txns []models.Transaction
	if err := s.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	catNames, accNames, err := s.exportNames(userID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range txns {
		if err := writer.Write([]string{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Amount.StringFixed(2),
			catNames[t.CategoryID],
			accNames[t.AccountID],
			t.Description,
		}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
