// Package category manages the per-user income/expense taxonomy.
package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"
	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Input carries the caller-editable category fields.
type Input struct {
	Name     string
	Type     models.TransactionType
	ParentID *uint
	Icon     string
	Color    string
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validationf("category name is required")
	}
	if len(in.Name) > 100 {
		return apperr.Validationf("category name too long (max 100 characters)")
	}
	if in.Type != models.TypeIncome && in.Type != models.TypeExpense {
		return apperr.Validationf("invalid category type %q", string(in.Type))
	}
	if in.Color != "" && (len(in.Color) != 7 || in.Color[0] != '#') {
		return apperr.Validationf("color must be a #RRGGBB hex value")
	}
	return nil
}

// Create adds a category. A parent, if given, must belong to the same
// owner; cycles are impossible on creation since the new node has no
// descendants yet.
func (s *Service) Create(userID uint, in Input) (*models.Category, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var cat models.Category
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if in.ParentID != nil {
			var parent models.Category
			err := tx.Where("id = ? AND user_id = ?", *in.ParentID, userID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("parent category")
			}
			if err != nil {
				return fmt.Errorf("load parent category: %w", err)
			}
		}

		icon := in.Icon
		if icon == "" {
			icon = "📁"
		}
		color := in.Color
		if color == "" {
			color = "#808080"
		}

		cat = models.Category{
			UserID:   userID,
			Name:     strings.TrimSpace(in.Name),
			Type:     in.Type,
			ParentID: in.ParentID,
			Icon:     icon,
			Color:    color,
			IsSystem: false,
			IsActive: true,
		}
		if err := tx.Create(&cat).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Get fetches one owner-scoped category.
func (s *Service) Get(userID, categoryID uint) (*models.Category, error) {
	var cat models.Category
	err := s.DB.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("category")
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &cat, nil
}

// ListByType returns the owner's categories of one type, by name.
func (s *Service) ListByType(userID uint, t models.TransactionType, activeOnly bool) ([]models.Category, error) {
	q := s.DB.Where("user_id = ? AND type = ?", userID, t)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var cats []models.Category
	if err := q.Order("name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// List returns all of the owner's categories.
func (s *Service) List(userID uint, activeOnly bool) ([]models.Category, error) {
	q := s.DB.Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var cats []models.Category
	if err := q.Order("type, name").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// isSelfOrDescendant walks the parent chain from candidate upward and
// reports whether it passes through target.
func isSelfOrDescendant(tx *gorm.DB, userID, candidateID, targetID uint) (bool, error) {
	currentID := candidateID
	for {
		if currentID == targetID {
			return true, nil
		}
		var cat models.Category
		err := tx.Where("id = ? AND user_id = ?", currentID, userID).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walk category chain: %w", err)
		}
		if cat.ParentID == nil {
			return false, nil
		}
		currentID = *cat.ParentID
	}
}

// Reparent moves a category under a new parent (nil for top level).
// The new parent must not be the category itself or any of its
// descendants; otherwise the tree would cycle.
func (s *Service) Reparent(userID, categoryID uint, newParentID *uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category")
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if cat.IsSystem {
			return apperr.Conflictf("system categories cannot be modified")
		}

		if newParentID != nil {
			var parent models.Category
			err := tx.Where("id = ? AND user_id = ?", *newParentID, userID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("parent category")
			}
			if err != nil {
				return fmt.Errorf("load parent category: %w", err)
			}

			cyclic, err := isSelfOrDescendant(tx, userID, *newParentID, categoryID)
			if err != nil {
				return err
			}
			if cyclic {
				return apperr.Validationf("cannot move a category under itself or its descendants")
			}
		}

		return tx.Model(&cat).Update("parent_id", newParentID).Error
	})
}

// Update edits a non-system category's fields, including its parent
// (same cycle rule as Reparent).
func (s *Service) Update(userID, categoryID uint, in Input) (*models.Category, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var cat models.Category
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category")
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if cat.IsSystem {
			return apperr.Conflictf("system categories cannot be modified")
		}

		if in.ParentID != nil {
			var parent models.Category
			err := tx.Where("id = ? AND user_id = ?", *in.ParentID, userID).First(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("parent category")
			}
			if err != nil {
				return fmt.Errorf("load parent category: %w", err)
			}
			cyclic, err := isSelfOrDescendant(tx, userID, *in.ParentID, categoryID)
			if err != nil {
				return err
			}
			if cyclic {
				return apperr.Validationf("cannot move a category under itself or its descendants")
			}
		}

		cat.Name = strings.TrimSpace(in.Name)
		cat.Type = in.Type
		cat.ParentID = in.ParentID
		if in.Icon != "" {
			cat.Icon = in.Icon
		}
		if in.Color != "" {
			cat.Color = in.Color
		}
		if err := tx.Save(&cat).Error; err != nil {
			return fmt.Errorf("save category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// SoftDelete deactivates a category. System categories are protected,
// and a category still referenced by transactions conflicts. Children
// are flattened one level onto the deleted node's own parent first.
func (s *Service) SoftDelete(userID, categoryID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category")
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}
		if cat.IsSystem {
			return apperr.Conflictf("system categories cannot be deleted")
		}

		var txnCount int64
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ? AND user_id = ?", categoryID, userID).
			Count(&txnCount).Error; err != nil {
			return fmt.Errorf("count transactions: %w", err)
		}
		if txnCount > 0 {
			return apperr.Conflictf("category has transactions; archive them first")
		}

		if err := tx.Model(&models.Category{}).
			Where("parent_id = ? AND user_id = ?", categoryID, userID).
			Update("parent_id", cat.ParentID).Error; err != nil {
			return fmt.Errorf("reparent children: %w", err)
		}

		cat.IsActive = false
		if err := tx.Save(&cat).Error; err != nil {
			return fmt.Errorf("save category: %w", err)
		}
		return nil
	})
}

// Restore reactivates a soft-deleted category.
func (s *Service) Restore(userID, categoryID uint) error {
	res := s.DB.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Update("is_active", true)
	if res.Error != nil {
		return fmt.Errorf("restore category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("category")
	}
	return nil
}
