package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Goal categories are a free-form enumeration, not Category references.
var goalCategories = map[string]bool{
	"savings":    true,
	"investment": true,
	"emergency":  true,
	"vacation":   true,
	"education":  true,
	"home":       true,
	"car":        true,
	"other":      true,
}

// ValidGoalCategory reports whether c is a known goal category.
func ValidGoalCategory(c string) bool {
	return goalCategories[c]
}

// Goal tracks saving toward a target amount by a deadline. CurrentAmount only
// grows, via explicit contributions or direct edits. Once it reaches
// TargetAmount the goal flips to completed and stays completed; there is no
// withdraw operation and no re-opening.
type Goal struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	UserID        uint            `gorm:"not null;index:idx_goals_user_completed" json:"userId"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"targetAmount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"currentAmount"`
	Deadline      time.Time       `gorm:"not null" json:"deadline"`
	Category      string          `gorm:"size:32;not null" json:"category"`
	Color         string          `gorm:"size:16" json:"color"`
	Icon          string          `gorm:"size:64" json:"icon"`
	IsCompleted   bool            `gorm:"not null;default:false;index:idx_goals_user_completed" json:"isCompleted"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	Notes         string          `gorm:"size:500" json:"notes,omitempty"`
}

// Progress returns the percentage saved toward the target, clamped at 100.
// The stored CurrentAmount itself is never clamped.
func (g *Goal) Progress() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	pct, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

// Remaining is the amount still to save, floored at zero.
func (g *Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// DaysRemaining is the number of days until the deadline, rounded up.
// Negative when the deadline has passed.
func (g *Goal) DaysRemaining(now time.Time) int {
	return int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
}

// Complete marks the goal completed once CurrentAmount reaches TargetAmount.
// The transition is one-way; calling it again is a no-op.
func (g *Goal) Complete(now time.Time) {
	if !g.IsCompleted && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.IsCompleted = true
		g.CompletedAt = &now
	}
}
