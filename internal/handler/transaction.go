package handler

import (
	"net/http"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/ledger"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TransactionHandler struct {
	Ledger   *ledger.Service
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{Ledger: ledger.NewService(db), PageSize: pageSize}
}

type transactionReq struct {
	AccountID   uint   `json:"account_id" binding:"required"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Date        string `json:"date"`
	Description string `json:"description" binding:"max=200"`
}

func (r transactionReq) toInput() (ledger.TransactionInput, error) {
	amount, err := util.ParseAmount(r.Amount)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	var date time.Time
	if r.Date != "" {
		date, err = util.ParseDate(r.Date)
		if err != nil {
			return ledger.TransactionInput{}, err
		}
	}
	return ledger.TransactionInput{
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		Amount:      amount,
		Type:        models.TransactionType(r.Type),
		Date:        date,
		Description: r.Description,
	}, nil
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		util.Fail(c, err)
		return
	}
	txn, err := h.Ledger.RecordTransaction(user.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": txn})
}

// List supports filtering by date window, account, category, type and
// a description substring, with pagination and window totals.
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var f ledger.Filter
	f.Page, f.PerPage = pagination(c, h.PageSize)

	if s := c.Query("date_from"); s != "" {
		d, err := util.ParseDate(s)
		if err != nil {
			util.Fail(c, err)
			return
		}
		f.DateFrom = &d
	}
	if s := c.Query("date_to"); s != "" {
		d, err := util.ParseDate(s)
		if err != nil {
			util.Fail(c, err)
			return
		}
		f.DateTo = &d
	}
	if s := c.Query("type"); s != "" {
		t, err := models.ParseTransactionType(s)
		if err != nil {
			util.Fail(c, err)
			return
		}
		f.Type = t
	}
	if id, ok := queryID(c, "account_id"); ok {
		f.AccountID = id
	}
	if id, ok := queryID(c, "category_id"); ok {
		f.CategoryID = id
	}
	f.Search = c.Query("search")

	txns, total, summary, err := h.Ledger.ListTransactions(user.ID, f)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"transactions":  txns,
		"total":         total,
		"page":          f.Page,
		"per_page":      f.PerPage,
		"total_income":  summary.TotalIncome,
		"total_expense": summary.TotalExpense,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	txn, err := h.Ledger.GetTransaction(user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": txn})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		util.Fail(c, err)
		return
	}
	txn, err := h.Ledger.EditTransaction(user.ID, id, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": txn})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Ledger.DeleteTransaction(user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "transaction deleted"})
}

type bulkDeleteReq struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// BulkDelete removes a batch of transactions in one storage
// transaction; either the whole batch goes or none of it.
func (h *TransactionHandler) BulkDelete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req bulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	deleted, err := h.Ledger.BulkDeleteTransactions(user.ID, req.IDs)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": deleted})
}
