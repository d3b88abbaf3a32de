package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestGoalProgressClamps(t *testing.T) {
	g := Goal{
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.NewFromInt(4800),
	}
	require.InDelta(t, 96.0, g.Progress(), 1e-9)
	require.True(t, g.Remaining().Equal(decimal.NewFromInt(200)))

	g.CurrentAmount = decimal.NewFromInt(5150)
	require.Equal(t, 100.0, g.Progress())
	require.True(t, g.Remaining().IsZero())

	g.TargetAmount = decimal.Zero
	require.Equal(t, 0.0, g.Progress())
}

func TestGoalCompleteIsOneWay(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	g := Goal{
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(999),
	}
	g.Complete(now)
	require.False(t, g.IsCompleted)
	require.Nil(t, g.CompletedAt)

	g.CurrentAmount = decimal.NewFromInt(1000)
	g.Complete(now)
	require.True(t, g.IsCompleted)
	require.Equal(t, now, *g.CompletedAt)

	// raising the target later never reopens the goal
	later := now.Add(time.Hour)
	g.TargetAmount = decimal.NewFromInt(2000)
	g.Complete(later)
	require.True(t, g.IsCompleted)
	require.Equal(t, now, *g.CompletedAt)
}

func TestGoalDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	g := Goal{Deadline: now.AddDate(0, 0, 10)}
	require.Equal(t, 10, g.DaysRemaining(now))

	g.Deadline = now.Add(36 * time.Hour)
	require.Equal(t, 2, g.DaysRemaining(now))

	g.Deadline = now.AddDate(0, 0, -3)
	require.Equal(t, -3, g.DaysRemaining(now))
}
