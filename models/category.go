package models

import "time"

const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// ValidCategoryType reports whether t is "income" or "expense".
func ValidCategoryType(t string) bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category labels transactions. (user, name, type) is unique case-insensitively,
// enforced by the handlers. Default categories are seeded at registration and
// cannot be edited or deleted.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"not null;index:idx_categories_user_type" json:"userId"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      string    `gorm:"size:16;not null;index:idx_categories_user_type" json:"type"`
	Icon      string    `gorm:"size:64" json:"icon"`
	Color     string    `gorm:"size:16" json:"color"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
}
