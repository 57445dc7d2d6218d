package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestCreateAndGetGoal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goal, err := domain.NewMonthlyPagesGoal("goal-1", 2026, 3, 200)
	if err != nil {
		t.Fatalf("new goal: %v", err)
	}
	if err := s.CreateGoal(ctx, goal); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	got, err := s.GetGoal(ctx, "goal-1")
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if got.GoalType != domain.GoalPagesMonthly {
		t.Errorf("expected pages_monthly, got %s", got.GoalType)
	}
	if got.TargetValue != 200 {
		t.Errorf("expected target 200, got %d", got.TargetValue)
	}
	if got.PeriodYear == nil || *got.PeriodYear != 2026 {
		t.Errorf("period year not round-tripped: %v", got.PeriodYear)
	}
	if got.PeriodMonth == nil || *got.PeriodMonth != 3 {
		t.Errorf("period month not round-tripped: %v", got.PeriodMonth)
	}
	if !got.IsActive {
		t.Error("expected goal to be active")
	}
}

func TestGetActiveGoals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	active, _ := domain.NewDailyMinutesGoal("goal-1", 30)
	if err := s.CreateGoal(ctx, active); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	inactive, _ := domain.NewYearlyBooksGoal("goal-2", 2026, 24)
	inactive.IsActive = false
	if err := s.CreateGoal(ctx, inactive); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	goals, err := s.GetActiveGoals(ctx)
	if err != nil {
		t.Fatalf("get active goals: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != "goal-1" {
		t.Errorf("expected only goal-1 active, got %v", goals)
	}

	all, err := s.ListGoals(ctx)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 goals total, got %d", len(all))
	}
}

func TestUpdateAndDeleteGoal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goal, _ := domain.NewDailyMinutesGoal("goal-1", 30)
	if err := s.CreateGoal(ctx, goal); err != nil {
		t.Fatalf("create goal: %v", err)
	}

	goal.TargetValue = 60
	goal.IsActive = false
	if err := s.UpdateGoal(ctx, goal); err != nil {
		t.Fatalf("update goal: %v", err)
	}

	got, err := s.GetGoal(ctx, "goal-1")
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if got.TargetValue != 60 || got.IsActive {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := s.DeleteGoal(ctx, "goal-1"); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
	if _, err := s.GetGoal(ctx, "goal-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
