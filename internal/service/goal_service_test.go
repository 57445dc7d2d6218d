package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestGoalService_CreateGoal(t *testing.T) {
	st := newTestStore(t)
	svc := NewGoalService(st, testLogger())
	ctx := context.Background()

	goal, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalPagesMonthly,
		TargetValue: 200,
		PeriodYear:  intPtr(2026),
		PeriodMonth: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalPagesMonthly, goal.GoalType)
	assert.True(t, goal.IsActive)

	// Missing period fields are rejected.
	_, err = svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalPagesMonthly,
		TargetValue: 200,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalBooksYearly,
		TargetValue: 12,
	})
	require.Error(t, err)

	// Zero target is rejected.
	_, err = svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalMinutesDaily,
		TargetValue: 0,
	})
	require.Error(t, err)
}

func TestGoalService_EvaluateMonthlyPages(t *testing.T) {
	st := newTestStore(t)
	logger := testLogger()
	sessions := NewSessionService(st, logger)
	svc := NewGoalService(st, logger)

	// Pin evaluation time to mid-March 2026.
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	createTestBook(t, st, "book-1", 500)

	// 170 pages inside March, 40 outside it.
	_, err := sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 5),
		StartPage: intPtr(0), EndPage: intPtr(100),
	})
	require.NoError(t, err)
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 12),
		StartPage: intPtr(100), EndPage: intPtr(170),
	})
	require.NoError(t, err)
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 2, 20),
		StartPage: intPtr(200), EndPage: intPtr(240),
	})
	require.NoError(t, err)

	goal, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalPagesMonthly,
		TargetValue: 200,
		PeriodYear:  intPtr(2026),
		PeriodMonth: intPtr(3),
	})
	require.NoError(t, err)

	progress, err := svc.EvaluateGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 170, progress.Current)
	assert.Equal(t, 85.0, progress.Percentage)
}

func TestGoalService_EvaluateMonthlyPages_WrongPeriod(t *testing.T) {
	st := newTestStore(t)
	logger := testLogger()
	sessions := NewSessionService(st, logger)
	svc := NewGoalService(st, logger)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	createTestBook(t, st, "book-1", 500)

	_, err := sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 2, 10),
		StartPage: intPtr(0), EndPage: intPtr(80),
	})
	require.NoError(t, err)

	// A February goal evaluated in March reports zero, not February's pages.
	goal, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalPagesMonthly,
		TargetValue: 100,
		PeriodYear:  intPtr(2026),
		PeriodMonth: intPtr(2),
	})
	require.NoError(t, err)

	progress, err := svc.EvaluateGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Current)
	assert.Equal(t, 0.0, progress.Percentage)
}

func TestGoalService_EvaluateYearlyBooks(t *testing.T) {
	st := newTestStore(t)
	svc := NewGoalService(st, testLogger())
	ctx := context.Background()

	year := time.Now().UTC().Year()

	// One book completed this year, one completed last year.
	thisYear := createTestBook(t, st, "book-1", 100)
	thisYear.MarkAsCompleted()
	require.NoError(t, st.UpdateBook(ctx, thisYear))

	lastYear := createTestBook(t, st, "book-2", 100)
	lastYear.MarkAsCompleted()
	past := time.Now().UTC().AddDate(-1, 0, 0)
	lastYear.StatusChangedAt = &past
	require.NoError(t, st.UpdateBook(ctx, lastYear))

	goal, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalBooksYearly,
		TargetValue: 4,
		PeriodYear:  intPtr(year),
	})
	require.NoError(t, err)

	progress, err := svc.EvaluateGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Current)
	assert.Equal(t, 25.0, progress.Percentage)
}

func TestGoalService_EvaluateDailyMinutes(t *testing.T) {
	st := newTestStore(t)
	logger := testLogger()
	sessions := NewSessionService(st, logger)
	svc := NewGoalService(st, logger)
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	today := domain.DateOnly(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	_, err := sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: today, MinutesRead: intPtr(25),
	})
	require.NoError(t, err)
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: yesterday, MinutesRead: intPtr(40),
	})
	require.NoError(t, err)

	goal, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType:    domain.GoalMinutesDaily,
		TargetValue: 50,
	})
	require.NoError(t, err)

	progress, err := svc.EvaluateGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, progress.Current, "only today's minutes count")
	assert.Equal(t, 50.0, progress.Percentage)
}

func TestGoalService_EvaluateActiveGoals(t *testing.T) {
	st := newTestStore(t)
	svc := NewGoalService(st, testLogger())
	ctx := context.Background()

	_, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType: domain.GoalMinutesDaily, TargetValue: 30,
	})
	require.NoError(t, err)

	inactive, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType: domain.GoalMinutesDaily, TargetValue: 60,
	})
	require.NoError(t, err)
	_, err = svc.UpdateGoal(ctx, inactive.ID, UpdateGoalInput{IsActive: domain.SetTo(false)})
	require.NoError(t, err)

	progress, err := svc.EvaluateActiveGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, progress, 1)
}

func TestGoalService_UpdateGoal_Validation(t *testing.T) {
	st := newTestStore(t)
	svc := NewGoalService(st, testLogger())
	ctx := context.Background()

	goal, err := svc.CreateGoal(ctx, CreateGoalInput{
		GoalType: domain.GoalMinutesDaily, TargetValue: 30,
	})
	require.NoError(t, err)

	_, err = svc.UpdateGoal(ctx, goal.ID, UpdateGoalInput{TargetValue: domain.SetTo(0)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	updated, err := svc.UpdateGoal(ctx, goal.ID, UpdateGoalInput{TargetValue: domain.SetTo(45)})
	require.NoError(t, err)
	assert.Equal(t, 45, updated.TargetValue)
}
