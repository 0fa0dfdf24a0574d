package router

import (
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/config"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/handler"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/me", authHandler.Me)

	accountHandler := handler.NewAccountHandler(db)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.GET("/accounts/:id", accountHandler.Get)
	protected.PUT("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Archive)
	protected.POST("/accounts/:id/restore", accountHandler.Restore)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.PUT("/categories/:id", categoryHandler.Update)
	protected.PUT("/categories/:id/parent", categoryHandler.Reparent)
	protected.DELETE("/categories/:id", categoryHandler.Delete)
	protected.POST("/categories/:id/restore", categoryHandler.Restore)

	transactionHandler := handler.NewTransactionHandler(db, cfg.App.PageSize)
	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.GET("/transactions/:id", transactionHandler.Get)
	protected.PUT("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)
	protected.POST("/transactions/bulk-delete", transactionHandler.BulkDelete)

	transferHandler := handler.NewTransferHandler(db, cfg.App.PageSize)
	protected.POST("/transfers", transferHandler.Create)
	protected.GET("/transfers", transferHandler.List)
	protected.DELETE("/transfers/:id", transferHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(db)
	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.List)
	protected.GET("/budgets/progress", budgetHandler.Progress)
	protected.GET("/budgets/:id", budgetHandler.Get)
	protected.PUT("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)
	protected.POST("/budgets/quick-setup", budgetHandler.QuickSetup)

	reportHandler := handler.NewReportHandler(db)
	protected.GET("/reports/summary", reportHandler.Summary)
	protected.GET("/reports/spending-by-category", reportHandler.SpendingByCategory)
	protected.GET("/reports/income-vs-expense", reportHandler.IncomeVsExpense)
	protected.GET("/reports/daily", reportHandler.DailyStats)
	protected.GET("/reports/budget-vs-actual", reportHandler.BudgetVsActual)

	settingsHandler := handler.NewSettingsHandler(db)
	protected.GET("/settings", settingsHandler.Get)
	protected.PUT("/settings", settingsHandler.Update)
	protected.POST("/settings/delete-account", settingsHandler.DeleteUser)

	importExportHandler := handler.NewImportExportHandler(db)
	protected.POST("/import/csv", importExportHandler.ImportCSV)
	protected.POST("/import/json", importExportHandler.ImportJSON)
	protected.GET("/export/csv", importExportHandler.ExportCSV)
	protected.GET("/export/json", importExportHandler.ExportJSON)
	protected.GET("/export/xlsx", importExportHandler.ExportXLSX)

	return r
}
