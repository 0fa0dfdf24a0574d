package handler

import (
	"net/http"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	DB *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{DB: db}
}

// Get returns the user's settings row, creating the default row if it
// is missing.
func (h *SettingsHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var settings models.UserSettings
	err := h.DB.Where("user_id = ?", user.ID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.DefaultSettings(user.ID)
		if err := h.DB.Create(&settings).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create settings")
			return
		}
	} else if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load settings")
		return
	}
	util.Success(c, util.Response{"settings": settings})
}

// Pointer fields so absent keys leave the stored value alone.
type settingsReq struct {
	DefaultCurrency *string `json:"default_currency"`
	DateFormat      *string `json:"date_format"`
	FirstDayOfWeek  *int    `json:"first_day_of_week"`
	Theme           *string `json:"theme"`

	ShowCharts  *bool `json:"show_charts"`
	ShowRecent  *bool `json:"show_recent"`
	ShowBudgets *bool `json:"show_budgets"`

	AutoCategorize     *bool `json:"auto_categorize"`
	DuplicateDetection *bool `json:"duplicate_detection"`
	RequireDescription *bool `json:"require_description"`

	BudgetAlerts      *bool `json:"budget_alerts"`
	LargeTransactions *bool `json:"large_transactions"`
	WeeklySummary     *bool `json:"weekly_summary"`
	MonthlyReport     *bool `json:"monthly_report"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	var settings models.UserSettings
	err := h.DB.Where("user_id = ?", user.ID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.DefaultSettings(user.ID)
		if err := h.DB.Create(&settings).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create settings")
			return
		}
	} else if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load settings")
		return
	}

	if req.DefaultCurrency != nil {
		if len(*req.DefaultCurrency) != 3 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "currency must be a 3-letter ISO code")
			return
		}
		settings.DefaultCurrency = *req.DefaultCurrency
	}
	if req.DateFormat != nil {
		settings.DateFormat = *req.DateFormat
	}
	if req.FirstDayOfWeek != nil {
		if *req.FirstDayOfWeek < 0 || *req.FirstDayOfWeek > 6 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "first_day_of_week must be 0-6")
			return
		}
		settings.FirstDayOfWeek = *req.FirstDayOfWeek
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.ShowCharts != nil {
		settings.ShowCharts = *req.ShowCharts
	}
	if req.ShowRecent != nil {
		settings.ShowRecent = *req.ShowRecent
	}
	if req.ShowBudgets != nil {
		settings.ShowBudgets = *req.ShowBudgets
	}
	if req.AutoCategorize != nil {
		settings.AutoCategorize = *req.AutoCategorize
	}
	if req.DuplicateDetection != nil {
		settings.DuplicateDetection = *req.DuplicateDetection
	}
	if req.RequireDescription != nil {
		settings.RequireDescription = *req.RequireDescription
	}
	if req.BudgetAlerts != nil {
		settings.BudgetAlerts = *req.BudgetAlerts
	}
	if req.LargeTransactions != nil {
		settings.LargeTransactions = *req.LargeTransactions
	}
	if req.WeeklySummary != nil {
		settings.WeeklySummary = *req.WeeklySummary
	}
	if req.MonthlyReport != nil {
		settings.MonthlyReport = *req.MonthlyReport
	}

	if err := h.DB.Save(&settings).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save settings")
		return
	}
	util.Success(c, util.Response{"settings": settings})
}

type deleteAccountReq struct {
	Password string `json:"password" binding:"required"`
}

// DeleteUser erases the user and everything they own. Child tables go
// first so no row is ever orphaned, all inside one transaction.
func (h *SettingsHandler) DeleteUser(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req deleteAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "incorrect password")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.Transaction{},
			&models.Transfer{},
			&models.Budget{},
			&models.Category{},
			&models.Account{},
			&models.UserSettings{},
		} {
			if err := tx.Where("user_id = ?", user.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete account")
		return
	}
	util.Success(c, util.Response{"message": "account deleted"})
}
