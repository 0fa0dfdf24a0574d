package models

import "github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"

// TransactionType tags both transactions and categories as money
// coming in or going out. The direction of a transaction is carried
// here, never by the sign of its amount.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType is the single boundary conversion from loose
// input to a canonical type tag.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	}
	return "", apperr.Validationf("invalid transaction type %q", s)
}

// AccountType enumerates the kinds of balance-bearing containers.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountCash       AccountType = "cash"
	AccountWallet     AccountType = "wallet"
	AccountInvestment AccountType = "investment"
	AccountLoan       AccountType = "loan"
)

func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountChecking, AccountSavings, AccountCreditCard,
		AccountCash, AccountWallet, AccountInvestment, AccountLoan:
		return AccountType(s), nil
	}
	return "", apperr.Validationf("invalid account type %q", s)
}

// SyncStatus is reserved for future mobile sync; everything created
// locally stays SyncLocal.
type SyncStatus string

const (
	SyncLocal   SyncStatus = "local"
	SyncSynced  SyncStatus = "synced"
	SyncPending SyncStatus = "pending"
)
