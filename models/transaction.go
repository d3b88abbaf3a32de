package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Recurring frequencies accepted when IsRecurring is set.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// ValidFrequency reports whether f is a known recurring frequency.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Transaction is the single source mutation event of the ledger: every
// create, update and delete triggers exactly one compensating account-balance
// adjustment and, for expenses, a budget accrual adjustment. Amount is always
// non-negative; the sign of the balance effect comes from Type.
type Transaction struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	UserID             uint            `gorm:"not null;index:idx_transactions_user_date" json:"userId"`
	Type               string          `gorm:"size:16;not null;index" json:"type"`
	CategoryID         uint            `gorm:"not null;index" json:"categoryId"`
	Category           *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AccountID          uint            `gorm:"not null;index" json:"accountId"`
	Account            *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Amount             decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description        string          `gorm:"size:500" json:"description,omitempty"`
	Date               time.Time       `gorm:"not null;index:idx_transactions_user_date" json:"date"`
	Tags               []string        `gorm:"serializer:json" json:"tags,omitempty"`
	IsRecurring        bool            `gorm:"not null;default:false" json:"isRecurring"`
	RecurringFrequency string          `gorm:"size:16" json:"recurringFrequency,omitempty"`
}
