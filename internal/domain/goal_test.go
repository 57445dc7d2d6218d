package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestNewGoal_Validation(t *testing.T) {
	_, err := NewGoal("goal-1", GoalPagesMonthly, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = NewGoal("goal-1", GoalPagesMonthly, -5)
	require.Error(t, err)

	_, err = NewGoal("goal-1", "pages_hourly", 10)
	require.Error(t, err)

	goal, err := NewGoal("goal-1", GoalMinutesDaily, 30)
	require.NoError(t, err)
	assert.True(t, goal.IsActive)
}

func TestNewMonthlyPagesGoal(t *testing.T) {
	goal, err := NewMonthlyPagesGoal("goal-1", 2026, 3, 200)
	require.NoError(t, err)
	require.NotNil(t, goal.PeriodYear)
	require.NotNil(t, goal.PeriodMonth)
	assert.Equal(t, 2026, *goal.PeriodYear)
	assert.Equal(t, 3, *goal.PeriodMonth)

	_, err = NewMonthlyPagesGoal("goal-1", 2026, 0, 200)
	require.Error(t, err)

	_, err = NewMonthlyPagesGoal("goal-1", 2026, 13, 200)
	require.Error(t, err)
}

func TestNewYearlyBooksGoal(t *testing.T) {
	goal, err := NewYearlyBooksGoal("goal-1", 2026, 24)
	require.NoError(t, err)
	require.NotNil(t, goal.PeriodYear)
	assert.Equal(t, 2026, *goal.PeriodYear)
	assert.Nil(t, goal.PeriodMonth)
}

func TestNewGoalProgress(t *testing.T) {
	goal, err := NewMonthlyPagesGoal("goal-1", 2026, 3, 200)
	require.NoError(t, err)

	progress := NewGoalProgress(goal, 50)
	assert.Equal(t, 50, progress.Current)
	assert.Equal(t, 25.0, progress.Percentage)

	// Overshooting the target is capped at 100.
	progress = NewGoalProgress(goal, 170)
	assert.Equal(t, 170, progress.Current)
	assert.Equal(t, 85.0, progress.Percentage)

	progress = NewGoalProgress(goal, 500)
	assert.Equal(t, 100.0, progress.Percentage)
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2026, 2)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), last)

	// December rolls into January of the next year.
	first, last = MonthBounds(2026, 12)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), last)

	// Leap year February.
	_, last = MonthBounds(2028, 2)
	assert.Equal(t, 29, last.Day())
}
