package domain

import (
	"time"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

// GoalType identifies what a goal measures and over what period.
type GoalType string

const (
	GoalPagesMonthly GoalType = "pages_monthly"
	GoalBooksYearly  GoalType = "books_yearly"
	GoalMinutesDaily GoalType = "minutes_daily"
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	switch t {
	case GoalPagesMonthly, GoalBooksYearly, GoalMinutesDaily:
		return true
	}
	return false
}

// Goal is a reading target. Monthly goals carry a year and month, yearly
// goals a year, and daily goals neither.
type Goal struct {
	ID          string    `json:"id"`
	GoalType    GoalType  `json:"goal_type"`
	TargetValue int       `json:"target_value"`
	PeriodYear  *int      `json:"period_year,omitempty"`
	PeriodMonth *int      `json:"period_month,omitempty"` // 1-12
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewGoal creates a goal with a positive target.
func NewGoal(id string, goalType GoalType, targetValue int) (*Goal, error) {
	if !goalType.Valid() {
		return nil, errors.Validationf("unknown goal type %q", goalType)
	}
	if targetValue <= 0 {
		return nil, errors.Validation("target value must be greater than 0")
	}
	now := time.Now().UTC()
	return &Goal{
		ID:          id,
		GoalType:    goalType,
		TargetValue: targetValue,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewMonthlyPagesGoal creates a pages goal scoped to a calendar month.
func NewMonthlyPagesGoal(id string, year, month, targetPages int) (*Goal, error) {
	if month < 1 || month > 12 {
		return nil, errors.Validation("month must be between 1 and 12")
	}
	goal, err := NewGoal(id, GoalPagesMonthly, targetPages)
	if err != nil {
		return nil, err
	}
	goal.PeriodYear = &year
	goal.PeriodMonth = &month
	return goal, nil
}

// NewYearlyBooksGoal creates a books goal scoped to a calendar year.
func NewYearlyBooksGoal(id string, year, targetBooks int) (*Goal, error) {
	goal, err := NewGoal(id, GoalBooksYearly, targetBooks)
	if err != nil {
		return nil, err
	}
	goal.PeriodYear = &year
	return goal, nil
}

// NewDailyMinutesGoal creates a minutes goal evaluated against the current day.
func NewDailyMinutesGoal(id string, targetMinutes int) (*Goal, error) {
	return NewGoal(id, GoalMinutesDaily, targetMinutes)
}

// GoalProgress is the evaluated state of a goal at a point in time.
type GoalProgress struct {
	Goal       *Goal   `json:"goal"`
	Current    int     `json:"current"`
	Percentage float64 `json:"percentage"` // capped at 100
}

// NewGoalProgress computes the capped completion percentage.
func NewGoalProgress(goal *Goal, current int) GoalProgress {
	pct := 0.0
	if goal.TargetValue > 0 {
		pct = float64(current) / float64(goal.TargetValue) * 100
		if pct > 100 {
			pct = 100
		}
	}
	return GoalProgress{Goal: goal, Current: current, Percentage: pct}
}

// MonthBounds returns the first and last day of the given calendar month.
// The last day is found by rolling December into January of the next year.
func MonthBounds(year, month int) (first, last time.Time) {
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	if month == 12 {
		last = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	} else {
		last = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	}
	return first, last
}
