package handler

import (
	"strconv"
	"time"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/report"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportHandler struct {
	Reports *report.Service
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{Reports: report.NewService(db)}
}

// Summary is the dashboard endpoint: balances, month totals, recent
// activity and the expense breakdown.
func (h *ReportHandler) Summary(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	summary, err := h.Reports.BuildSummary(user.ID, month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"summary": summary})
}

// SpendingByCategory breaks a date window down by category. Defaults
// to the trailing 30 days of expenses.
func (h *ReportHandler) SpendingByCategory(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	t := models.TypeExpense
	if s := c.Query("type"); s != "" {
		parsed, err := models.ParseTransactionType(s)
		if err != nil {
			util.Fail(c, err)
			return
		}
		t = parsed
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -30)
	if s := c.Query("date_from"); s != "" {
		d, err := util.ParseDate(s)
		if err != nil {
			util.Fail(c, err)
			return
		}
		start = d
	}
	if s := c.Query("date_to"); s != "" {
		d, err := util.ParseDate(s)
		if err != nil {
			util.Fail(c, err)
			return
		}
		// Inclusive end date.
		end = d.AddDate(0, 0, 1)
	}

	breakdown, err := h.Reports.SpendingByCategory(user.ID, t, start, end)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"categories": breakdown})
}

// IncomeVsExpense returns the monthly trend for the trailing months.
func (h *ReportHandler) IncomeVsExpense(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))
	trend, err := h.Reports.IncomeVsExpense(user.ID, month, months)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"months": trend})
}

// DailyStats returns per-day totals for the trailing days.
func (h *ReportHandler) DailyStats(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	stats, err := h.Reports.DailyStats(user.ID, days)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"days": stats})
}

// BudgetVsActual compares the month's budgets to actual spending.
func (h *ReportHandler) BudgetVsActual(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	rows, err := h.Reports.BudgetVsActual(user.ID, month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"month":   month,
		"budgets": rows,
	})
}
