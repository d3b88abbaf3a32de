package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types mirror the kinds of real-world money holdings a user tracks.
const (
	AccountTypeCash       = "cash"
	AccountTypeBank       = "bank"
	AccountTypeCreditCard = "credit_card"
	AccountTypeInvestment = "investment"
	AccountTypeLoan       = "loan"
	AccountTypeOther      = "other"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCreditCard,
		AccountTypeInvestment, AccountTypeLoan, AccountTypeOther:
		return true
	}
	return false
}

// Account holds a denormalized running balance. The balance is mutated by
// transaction create/update/delete and by transfers, never recomputed on read.
// It may go negative (credit card, loan); only transfers guard against that.
type Account struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	UserID      uint            `gorm:"not null;index:idx_accounts_user_active" json:"userId"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Type        string          `gorm:"size:32;not null" json:"type"`
	Balance     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"balance"`
	Currency    string          `gorm:"size:8;not null" json:"currency"`
	Color       string          `gorm:"size:16" json:"color"`
	Icon        string          `gorm:"size:64" json:"icon"`
	IsActive    bool            `gorm:"not null;default:true;index:idx_accounts_user_active" json:"isActive"`
	Description string          `gorm:"size:200" json:"description,omitempty"`
}
