package models

import "time"

// Category is a type-tagged label in a per-user taxonomy. ParentID
// gives single-level nesting in the UI, though the model itself allows
// deeper trees. System categories are seeded at registration and are
// neither editable nor deletable.
type Category struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index:idx_category_user_type;not null"`
	Name      string          `gorm:"size:100;not null"`
	Type      TransactionType `gorm:"size:16;index:idx_category_user_type;not null"`
	ParentID  *uint           `gorm:"index"`
	Icon      string          `gorm:"size:50;default:📁"`
	Color     string          `gorm:"size:7;default:#808080"`
	IsSystem  bool            `gorm:"default:false"`
	IsActive  bool            `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
