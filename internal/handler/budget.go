package handler

import (
	"net/http"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/budget"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/monthkey"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BudgetHandler struct {
	Budgets *budget.Service
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{Budgets: budget.NewService(db)}
}

// monthParam reads the month query parameter as YYYYMM, defaulting to
// the current month.
func monthParam(c *gin.Context) (int, error) {
	s := c.Query("month")
	if s == "" {
		return monthkey.FromTime(time.Now().UTC()), nil
	}
	return monthkey.Parse(s)
}

type budgetReq struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Month      string `json:"month" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	month, err := monthkey.Parse(req.Month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	amount, err := util.ParseSignedAmount(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	b, err := h.Budgets.Create(user.ID, req.CategoryID, month, amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"budget": b})
}

func (h *BudgetHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	st, err := h.Budgets.Get(user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"budget": st})
}

// List returns the month's budgets with derived spent/remaining.
func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	statuses, err := h.Budgets.ListMonth(user.ID, month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"month":   month,
		"budgets": statuses,
	})
}

func (h *BudgetHandler) Progress(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	progress, err := h.Budgets.MonthProgress(user.ID, month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"progress": progress})
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	month, err := monthkey.Parse(req.Month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	amount, err := util.ParseSignedAmount(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	b, err := h.Budgets.Update(user.ID, id, req.CategoryID, month, amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"budget": b})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Budgets.Delete(user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "budget deleted"})
}

// QuickSetup seeds the month's budgets from last month's spending.
func (h *BudgetHandler) QuickSetup(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	created, err := h.Budgets.QuickSetup(user.ID, month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"month":   month,
		"created": created,
	})
}
