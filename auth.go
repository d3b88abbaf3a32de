package main

import (
	"fmt"
	"strings"

	"fintrack/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedCategory struct {
	Name  string
	Color string
	Icon  string
}

// Starter categories created for every new user at registration.
var defaultExpenseCategories = []seedCategory{
	{"Food & Dining", "#EF4444", "utensils"},
	{"Groceries", "#F59E0B", "shopping-cart"},
	{"Transportation", "#3B82F6", "car"},
	{"Traveling", "#06B6D4", "plane"},
	{"Shopping", "#8B5CF6", "shopping-bag"},
	{"Entertainment", "#EC4899", "film"},
	{"Bills & Utilities", "#F97316", "zap"},
	{"Healthcare", "#10B981", "heart"},
	{"Education", "#6366F1", "graduation-cap"},
	{"Rent", "#14B8A6", "home"},
	{"Insurance", "#84CC16", "shield"},
	{"Personal Care", "#D946EF", "user"},
	{"Gifts", "#F43F5E", "gift"},
	{"Other Expense", "#6B7280", "more-horizontal"},
}

var defaultIncomeCategories = []seedCategory{
	{"Salary", "#10B981", "briefcase"},
	{"Freelance", "#3B82F6", "laptop"},
	{"Business", "#8B5CF6", "building"},
	{"Investments", "#F59E0B", "trending-up"},
	{"Rental Income", "#14B8A6", "home"},
	{"Gifts Received", "#EC4899", "gift"},
	{"Refunds", "#06B6D4", "refresh-cw"},
	{"Other Income", "#6B7280", "more-horizontal"},
}

// RegisterUser creates a user plus its starter category set in one DB transaction.
func RegisterUser(name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email required")
	}
	if len(password) < 6 { // basic password policy
		return nil, fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("user already exists")
	}
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{Name: name, Email: email, HashedPassword: hashedPassword, Currency: "INR"}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(defaultCategoriesFor(user.ID)).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return nil, fmt.Errorf("user already exists")
		}
		return nil, err
	}
	return &user, nil
}

func defaultCategoriesFor(userID uint) []models.Category {
	cats := make([]models.Category, 0, len(defaultExpenseCategories)+len(defaultIncomeCategories))
	for _, s := range defaultExpenseCategories {
		cats = append(cats, models.Category{
			UserID: userID, Name: s.Name, Type: models.CategoryTypeExpense,
			Color: s.Color, Icon: s.Icon, IsDefault: true, IsActive: true,
		})
	}
	for _, s := range defaultIncomeCategories {
		cats = append(cats, models.Category{
			UserID: userID, Name: s.Name, Type: models.CategoryTypeIncome,
			Color: s.Color, Icon: s.Icon, IsDefault: true, IsActive: true,
		})
	}
	return cats
}

// Authenticate checks email/password and returns the matching user.
func Authenticate(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint") || strings.Contains(s, "already exists")
}
