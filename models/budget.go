package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// ValidPeriod reports whether p is a known budget period.
func ValidPeriod(p string) bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Budget caps spending for one category over an inclusive [StartDate, EndDate]
// window. Spent is a denormalized accumulator maintained by the transaction
// handlers; Remaining and PercentageUsed are derived on read, never stored.
// At most one active budget may overlap a given (user, category) window,
// checked at creation time.
type Budget struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	UserID         uint            `gorm:"not null;index:idx_budgets_user_window" json:"userId"`
	CategoryID     uint            `gorm:"not null;index" json:"categoryId"`
	Category       *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Spent          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"spent"`
	Period         string          `gorm:"size:16;not null" json:"period"`
	StartDate      time.Time       `gorm:"not null;index:idx_budgets_user_window" json:"startDate"`
	EndDate        time.Time       `gorm:"not null;index:idx_budgets_user_window" json:"endDate"`
	AlertThreshold float64         `gorm:"not null;default:80" json:"alertThreshold"`
	IsActive       bool            `gorm:"not null;default:true" json:"isActive"`
}

// Remaining is the budget amount not yet spent. May be negative when overspent.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Amount.Sub(b.Spent)
}

// PercentageUsed returns spent/amount*100, or 0 for a zero-amount budget.
func (b *Budget) PercentageUsed() float64 {
	if b.Amount.IsZero() {
		return 0
	}
	pct, _ := b.Spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// InWindow reports whether t falls inside the inclusive budget window.
func (b *Budget) InWindow(t time.Time) bool {
	return !t.Before(b.StartDate) && !t.After(b.EndDate)
}
