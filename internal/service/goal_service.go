package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// GoalService manages reading goals and evaluates their progress.
type GoalService struct {
	store  *sqlite.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewGoalService creates a new goal service.
func NewGoalService(st *sqlite.Store, logger *slog.Logger) *GoalService {
	return &GoalService{store: st, logger: logger, now: time.Now}
}

// CreateGoalInput carries the caller-supplied fields for a new goal.
type CreateGoalInput struct {
	GoalType    domain.GoalType
	TargetValue int
	PeriodYear  *int
	PeriodMonth *int
}

// CreateGoal creates a goal of the requested type. Monthly goals require a
// year and month, yearly goals a year, daily goals neither.
func (s *GoalService) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	goalID, err := id.Generate("goal")
	if err != nil {
		return nil, fmt.Errorf("generate goal id: %w", err)
	}

	var goal *domain.Goal
	switch input.GoalType {
	case domain.GoalPagesMonthly:
		if input.PeriodYear == nil || input.PeriodMonth == nil {
			return nil, errors.Validation("monthly goal requires a year and month")
		}
		goal, err = domain.NewMonthlyPagesGoal(goalID, *input.PeriodYear, *input.PeriodMonth, input.TargetValue)
	case domain.GoalBooksYearly:
		if input.PeriodYear == nil {
			return nil, errors.Validation("yearly goal requires a year")
		}
		goal, err = domain.NewYearlyBooksGoal(goalID, *input.PeriodYear, input.TargetValue)
	case domain.GoalMinutesDaily:
		goal, err = domain.NewDailyMinutesGoal(goalID, input.TargetValue)
	default:
		return nil, errors.Validationf("unknown goal type %q", input.GoalType)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	s.logger.Info("goal created", "goal_id", goal.ID, "goal_type", goal.GoalType, "target", goal.TargetValue)

	return goal, nil
}

// UpdateGoalInput carries partial updates for a goal.
type UpdateGoalInput struct {
	TargetValue domain.Patch[int]
	IsActive    domain.Patch[bool]
}

// UpdateGoal applies a partial update to a goal.
func (s *GoalService) UpdateGoal(ctx context.Context, goalID string, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := s.getGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if target, ok := input.TargetValue.Value(); ok {
		if target <= 0 {
			return nil, errors.Validation("target value must be greater than 0")
		}
		goal.TargetValue = target
	}
	if active, ok := input.IsActive.Value(); ok {
		goal.IsActive = active
	}
	goal.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	return goal, nil
}

// GetGoal returns a goal by ID.
func (s *GoalService) GetGoal(ctx context.Context, goalID string) (*domain.Goal, error) {
	return s.getGoal(ctx, goalID)
}

// ListGoals returns all goals; when activeOnly is set, inactive goals are
// filtered out.
func (s *GoalService) ListGoals(ctx context.Context, activeOnly bool) ([]*domain.Goal, error) {
	var goals []*domain.Goal
	var err error
	if activeOnly {
		goals, err = s.store.GetActiveGoals(ctx)
	} else {
		goals, err = s.store.ListGoals(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// DeleteGoal removes a goal.
func (s *GoalService) DeleteGoal(ctx context.Context, goalID string) error {
	if err := s.store.DeleteGoal(ctx, goalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("goal %s not found", goalID)
		}
		return fmt.Errorf("delete goal: %w", err)
	}

	s.logger.Info("goal deleted", "goal_id", goalID)

	return nil
}

// EvaluateGoal computes a goal's current progress against its period.
// Goals scoped to a period other than the current one report zero progress
// rather than an error.
func (s *GoalService) EvaluateGoal(ctx context.Context, goalID string) (domain.GoalProgress, error) {
	goal, err := s.getGoal(ctx, goalID)
	if err != nil {
		return domain.GoalProgress{}, err
	}
	return s.evaluate(ctx, goal)
}

// EvaluateActiveGoals computes progress for every active goal.
func (s *GoalService) EvaluateActiveGoals(ctx context.Context) ([]domain.GoalProgress, error) {
	goals, err := s.store.GetActiveGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active goals: %w", err)
	}

	progress := make([]domain.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		p, err := s.evaluate(ctx, goal)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, nil
}

func (s *GoalService) evaluate(ctx context.Context, goal *domain.Goal) (domain.GoalProgress, error) {
	now := s.now().UTC()

	current := 0
	switch goal.GoalType {
	case domain.GoalPagesMonthly:
		// Only counts while the goal's month is the current one.
		if goal.PeriodYear != nil && goal.PeriodMonth != nil &&
			*goal.PeriodYear == now.Year() && *goal.PeriodMonth == int(now.Month()) {
			first, last := domain.MonthBounds(*goal.PeriodYear, *goal.PeriodMonth)
			pages, err := s.store.SumPagesReadInRange(ctx, first, last)
			if err != nil {
				return domain.GoalProgress{}, fmt.Errorf("sum pages in range: %w", err)
			}
			current = pages
		}

	case domain.GoalBooksYearly:
		// Only counts while the goal's year is the current one.
		if goal.PeriodYear != nil && *goal.PeriodYear == now.Year() {
			count, err := s.store.CountBooksCompletedInYear(ctx, *goal.PeriodYear)
			if err != nil {
				return domain.GoalProgress{}, fmt.Errorf("count completed books: %w", err)
			}
			current = count
		}

	case domain.GoalMinutesDaily:
		minutes, err := s.store.SumMinutesReadOnDate(ctx, domain.DateOnly(now))
		if err != nil {
			return domain.GoalProgress{}, fmt.Errorf("sum minutes today: %w", err)
		}
		current = minutes
	}

	return domain.NewGoalProgress(goal, current), nil
}

func (s *GoalService) getGoal(ctx context.Context, goalID string) (*domain.Goal, error) {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("goal %s not found", goalID)
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return goal, nil
}
