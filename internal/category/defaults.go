package category

import (
	"fmt"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"

	"gorm.io/gorm"
)

type defaultCategory struct {
	Name  string
	Type  models.TransactionType
	Icon  string
	Color string
}

var defaultCategories = []defaultCategory{
	{"Salary", models.TypeIncome, "💰", "#4CAF50"},
	{"Freelance", models.TypeIncome, "💼", "#2196F3"},
	{"Investment", models.TypeIncome, "📈", "#FF9800"},
	{"Gift", models.TypeIncome, "🎁", "#E91E63"},
	{"Other Income", models.TypeIncome, "📥", "#9C27B0"},
	{"Food & Dining", models.TypeExpense, "🍔", "#FF5722"},
	{"Transportation", models.TypeExpense, "🚗", "#3F51B5"},
	{"Shopping", models.TypeExpense, "🛍️", "#673AB7"},
	{"Entertainment", models.TypeExpense, "🎬", "#00BCD4"},
	{"Bills & Utilities", models.TypeExpense, "💡", "#009688"},
	{"Healthcare", models.TypeExpense, "🏥", "#F44336"},
	{"Education", models.TypeExpense, "📚", "#795548"},
	{"Travel", models.TypeExpense, "✈️", "#FF9800"},
	{"Other Expense", models.TypeExpense, "📤", "#607D8B"},
}

// SeedDefaults creates the starter category set for a new user.
// Runs inside the caller's transaction.
func SeedDefaults(tx *gorm.DB, userID uint) error {
	cats := make([]models.Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		cats = append(cats, models.Category{
			UserID:   userID,
			Name:     d.Name,
			Type:     d.Type,
			Icon:     d.Icon,
			Color:    d.Color,
			IsSystem: true,
			IsActive: true,
		})
	}
	if err := tx.Create(&cats).Error; err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}
	return nil
}
