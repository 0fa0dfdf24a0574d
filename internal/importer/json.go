package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/monthkey"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Snapshot is the full-fidelity export format. IDs are the exporting
// system's; the importer remaps them onto fresh rows.
type Snapshot struct {
	Version    int                  `json:"version"`
	ExportedAt time.Time            `json:"exported_at"`
	Accounts   []AccountRecord      `json:"accounts"`
	Categories []CategoryRecord     `json:"categories"`
	Txns       []TransactionRecord  `json:"transactions"`
	Transfers  []TransferRecord     `json:"transfers"`
	Budgets    []BudgetRecord       `json:"budgets"`
}

type AccountRecord struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
}

type CategoryRecord struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID *uint  `json:"parent_id"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	IsSystem bool   `json:"is_system"`
	IsActive bool   `json:"is_active"`
}

type TransactionRecord struct {
	ID          uint            `json:"id"`
	AccountID   uint            `json:"account_id"`
	CategoryID  uint            `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

type TransferRecord struct {
	ID            uint            `json:"id"`
	FromAccountID uint            `json:"from_account_id"`
	ToAccountID   uint            `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
}

type BudgetRecord struct {
	ID         uint            `json:"id"`
	CategoryID uint            `json:"category_id"`
	Month      int             `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
}

// JSONResult counts what an ImportJSON run created.
type JSONResult struct {
	Accounts     int `json:"accounts"`
	Categories   int `json:"categories"`
	Transactions int `json:"transactions"`
	Transfers    int `json:"transfers"`
	Budgets      int `json:"budgets"`
}

// ExportJSON writes the user's complete data set to w.
func (s *Service) ExportJSON(userID uint, w io.Writer) error {
	snap := Snapshot{Version: 1, ExportedAt: time.Now().UTC()}

	var accounts []models.Account
	if err := s.DB.Where("user_id = ?", userID).Order("id").Find(&accounts).Error; err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	for _, a := range accounts {
		snap.Accounts = append(snap.Accounts, AccountRecord{
			ID: a.ID, Name: a.Name, Type: string(a.Type), Currency: a.Currency,
			InitialBalance: a.InitialBalance, CurrentBalance: a.CurrentBalance,
			IsActive: a.IsActive,
		})
	}

	var categories []models.Category
	if err := s.DB.Where("user_id = ?", userID).Order("id").Find(&categories).Error; err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	for _, c := range categories {
		snap.Categories = append(snap.Categories, CategoryRecord{
			ID: c.ID, Name: c.Name, Type: string(c.Type), ParentID: c.ParentID,
			Icon: c.Icon, Color: c.Color, IsSystem: c.IsSystem, IsActive: c.IsActive,
		})
	}

	var txns []models.Transaction
	if err := s.DB.Where("user_id = ?", userID).Order("id").Find(&txns).Error; err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	for _, t := range txns {
		snap.Txns = append(snap.Txns, TransactionRecord{
			ID: t.ID, AccountID: t.AccountID, CategoryID: t.CategoryID,
			Amount: t.Amount, Type: string(t.Type),
			Date: t.Date.Format("2006-01-02"), Description: t.Description,
		})
	}

	var transfers []models.Transfer
	if err := s.DB.Where("user_id = ?", userID).Order("id").Find(&transfers).Error; err != nil {
		return fmt.Errorf("load transfers: %w", err)
	}
	for _, t := range transfers {
		snap.Transfers = append(snap.Transfers, TransferRecord{
			ID: t.ID, FromAccountID: t.FromAccountID, ToAccountID: t.ToAccountID,
			Amount: t.Amount, Date: t.Date.Format("2006-01-02"), Description: t.Description,
		})
	}

	var budgets []models.Budget
	if err := s.DB.Where("user_id = ?", userID).Order("id").Find(&budgets).Error; err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	for _, b := range budgets {
		snap.Budgets = append(snap.Budgets, BudgetRecord{
			ID: b.ID, CategoryID: b.CategoryID, Month: b.Month, Amount: b.Amount,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func parseSnapshotDate(s string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return d
}

// ImportJSON restores a snapshot into the user's workspace. Old IDs
// are remapped to the new rows; records pointing at unknown old IDs
// are skipped. Everything lands in one storage transaction, with
// account balances recomputed from the imported history rather than
// trusted from the file.
func (s *Service) ImportJSON(userID uint, r io.Reader) (*JSONResult, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	res := &JSONResult{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		accountIDs := make(map[uint]uint, len(snap.Accounts))
		categoryIDs := make(map[uint]uint, len(snap.Categories))

		for _, rec := range snap.Accounts {
			accType, err := models.ParseAccountType(rec.Type)
			if err != nil {
				accType = models.AccountChecking
			}
			currency := rec.Currency
			if len(currency) != 3 {
				currency = "USD"
			}
			acc := models.Account{
				UserID:         userID,
				Name:           rec.Name,
				Type:           accType,
				Currency:       currency,
				InitialBalance: rec.InitialBalance.Round(2),
				CurrentBalance: rec.InitialBalance.Round(2),
				IsActive:       rec.IsActive,
			}
			if err := tx.Create(&acc).Error; err != nil {
				return fmt.Errorf("create account: %w", err)
			}
			accountIDs[rec.ID] = acc.ID
			res.Accounts++
		}

		// Parents are remapped in a second pass so order inside the
		// file does not matter.
		parentOf := make(map[uint]*uint, len(snap.Categories))
		categoryTypes := make(map[uint]models.TransactionType, len(snap.Categories))
		for _, rec := range snap.Categories {
			catType, err := models.ParseTransactionType(rec.Type)
			if err != nil {
				continue
			}
			cat := models.Category{
				UserID:   userID,
				Name:     rec.Name,
				Type:     catType,
				Icon:     rec.Icon,
				Color:    rec.Color,
				IsSystem: rec.IsSystem,
				IsActive: rec.IsActive,
			}
			if cat.Icon == "" {
				cat.Icon = "📁"
			}
			if cat.Color == "" {
				cat.Color = "#808080"
			}
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("create category: %w", err)
			}
			categoryIDs[rec.ID] = cat.ID
			categoryTypes[rec.ID] = catType
			parentOf[cat.ID] = rec.ParentID
		}
		for newID, oldParent := range parentOf {
			if oldParent == nil {
				continue
			}
			newParent, ok := categoryIDs[*oldParent]
			if !ok {
				continue
			}
			if err := tx.Model(&models.Category{}).Where("id = ?", newID).
				Update("parent_id", newParent).Error; err != nil {
				return fmt.Errorf("link category parent: %w", err)
			}
		}
		res.Categories = len(categoryIDs)

		deltas := make(map[uint]decimal.Decimal, len(accountIDs))

		for _, rec := range snap.Txns {
			accID, okA := accountIDs[rec.AccountID]
			catID, okC := categoryIDs[rec.CategoryID]
			if !okA || !okC {
				continue
			}
			txnType, err := models.ParseTransactionType(rec.Type)
			if err != nil {
				continue
			}
			// A transaction's type must agree with its category's type.
			if txnType != categoryTypes[rec.CategoryID] {
				continue
			}
			amount := rec.Amount.Abs().Round(2)
			if amount.IsZero() {
				continue
			}
			txn := models.Transaction{
				UserID:      userID,
				AccountID:   accID,
				CategoryID:  catID,
				Amount:      amount,
				Type:        txnType,
				Date:        parseSnapshotDate(rec.Date),
				Description: rec.Description,
				SyncStatus:  models.SyncLocal,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return fmt.Errorf("create transaction: %w", err)
			}
			if txnType == models.TypeIncome {
				deltas[accID] = deltas[accID].Add(amount)
			} else {
				deltas[accID] = deltas[accID].Sub(amount)
			}
			res.Transactions++
		}

		for _, rec := range snap.Transfers {
			fromID, okF := accountIDs[rec.FromAccountID]
			toID, okT := accountIDs[rec.ToAccountID]
			if !okF || !okT || fromID == toID {
				continue
			}
			amount := rec.Amount.Abs().Round(2)
			if amount.IsZero() {
				continue
			}
			tr := models.Transfer{
				UserID:        userID,
				FromAccountID: fromID,
				ToAccountID:   toID,
				Amount:        amount,
				Date:          parseSnapshotDate(rec.Date),
				Description:   rec.Description,
			}
			if err := tx.Create(&tr).Error; err != nil {
				return fmt.Errorf("create transfer: %w", err)
			}
			deltas[fromID] = deltas[fromID].Sub(amount)
			deltas[toID] = deltas[toID].Add(amount)
			res.Transfers++
		}

		for _, rec := range snap.Budgets {
			catID, ok := categoryIDs[rec.CategoryID]
			if !ok || rec.Amount.IsNegative() {
				continue
			}
			if monthkey.Validate(rec.Month) != nil {
				continue
			}
			var clash int64
			if err := tx.Model(&models.Budget{}).
				Where("user_id = ? AND category_id = ? AND month = ?", userID, catID, rec.Month).
				Count(&clash).Error; err != nil {
				return fmt.Errorf("check budget uniqueness: %w", err)
			}
			if clash > 0 {
				continue
			}
			b := models.Budget{
				UserID:     userID,
				CategoryID: catID,
				Month:      rec.Month,
				Amount:     rec.Amount.Round(2),
			}
			if err := tx.Create(&b).Error; err != nil {
				return fmt.Errorf("create budget: %w", err)
			}
			res.Budgets++
		}

		for accID, delta := range deltas {
			if delta.IsZero() {
				continue
			}
			if err := tx.Model(&models.Account{}).Where("id = ?", accID).
				Updates(map[string]any{
					"current_balance": gorm.Expr("current_balance + ?", delta),
					"version":         gorm.Expr("version + 1"),
				}).Error; err != nil {
				return fmt.Errorf("apply imported balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
