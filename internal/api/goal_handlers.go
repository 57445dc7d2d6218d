package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals",
		Summary:     "List goals",
		Description: "Returns goals with computed progress for each",
		Tags:        []string{"Goals"},
	}, s.handleListGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGoal",
		Method:      http.MethodPost,
		Path:        "/api/v1/goals",
		Summary:     "Create goal",
		Description: "Creates a reading goal; monthly goals need a year and month, yearly goals a year",
		Tags:        []string{"Goals"},
	}, s.handleCreateGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGoal",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Get goal",
		Description: "Returns a goal with its computed progress",
		Tags:        []string{"Goals"},
	}, s.handleGetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGoal",
		Method:      http.MethodPatch,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Update goal",
		Description: "Updates a goal's target or active flag",
		Tags:        []string{"Goals"},
	}, s.handleUpdateGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGoal",
		Method:      http.MethodDelete,
		Path:        "/api/v1/goals/{id}",
		Summary:     "Delete goal",
		Description: "Deletes a goal",
		Tags:        []string{"Goals"},
	}, s.handleDeleteGoal)
}

// === DTOs ===

// GoalResponse contains goal data with computed progress.
type GoalResponse struct {
	ID          string    `json:"id" doc:"Goal ID"`
	GoalType    string    `json:"goal_type" doc:"Goal type: pages_monthly, books_yearly, or minutes_daily"`
	TargetValue int       `json:"target_value" doc:"Target to reach"`
	PeriodYear  *int      `json:"period_year,omitempty" doc:"Scoped year (monthly and yearly goals)"`
	PeriodMonth *int      `json:"period_month,omitempty" doc:"Scoped month 1-12 (monthly goals)"`
	IsActive    bool      `json:"is_active" doc:"Whether the goal is evaluated"`
	Current     int       `json:"current" doc:"Progress inside the goal's period"`
	Percentage  float64   `json:"percentage" doc:"Completion percentage, capped at 100"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func goalProgressToResponse(p domain.GoalProgress) GoalResponse {
	return GoalResponse{
		ID:          p.Goal.ID,
		GoalType:    string(p.Goal.GoalType),
		TargetValue: p.Goal.TargetValue,
		PeriodYear:  p.Goal.PeriodYear,
		PeriodMonth: p.Goal.PeriodMonth,
		IsActive:    p.Goal.IsActive,
		Current:     p.Current,
		Percentage:  p.Percentage,
		CreatedAt:   p.Goal.CreatedAt,
		UpdatedAt:   p.Goal.UpdatedAt,
	}
}

// ListGoalsInput contains filter parameters for listing goals.
type ListGoalsInput struct {
	Active bool `query:"active" doc:"Only return active goals"`
}

// ListGoalsResponse contains goals with computed progress.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals" doc:"Goals with progress"`
}

// ListGoalsOutput wraps the list goals response for Huma.
type ListGoalsOutput struct {
	Body ListGoalsResponse
}

// CreateGoalRequest is the request body for creating a goal.
type CreateGoalRequest struct {
	GoalType    string `json:"goal_type" validate:"required,oneof=pages_monthly books_yearly minutes_daily" doc:"Goal type"`
	TargetValue int    `json:"target_value" validate:"required,gt=0" doc:"Target to reach"`
	PeriodYear  *int   `json:"period_year,omitempty" validate:"omitempty,gte=1" doc:"Scoped year"`
	PeriodMonth *int   `json:"period_month,omitempty" validate:"omitempty,gte=1,lte=12" doc:"Scoped month 1-12"`
}

// CreateGoalInput wraps the create goal request for Huma.
type CreateGoalInput struct {
	Body CreateGoalRequest
}

// GoalOutput wraps the goal response for Huma.
type GoalOutput struct {
	Body GoalResponse
}

// GoalIDInput contains parameters addressing a goal.
type GoalIDInput struct {
	ID string `path:"id" doc:"Goal ID"`
}

// UpdateGoalRequest is the request body for updating a goal.
type UpdateGoalRequest struct {
	TargetValue *int  `json:"target_value,omitempty" validate:"omitempty,gt=0" doc:"Target to reach"`
	IsActive    *bool `json:"is_active,omitempty" doc:"Whether the goal is evaluated"`
}

// UpdateGoalInput wraps the update goal request for Huma.
type UpdateGoalInput struct {
	ID   string `path:"id" doc:"Goal ID"`
	Body UpdateGoalRequest
}

// === Handlers ===

func (s *Server) handleListGoals(ctx context.Context, input *ListGoalsInput) (*ListGoalsOutput, error) {
	goals, err := s.services.Goal.ListGoals(ctx, input.Active)
	if err != nil {
		return nil, err
	}

	resp := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		progress, err := s.services.Goal.EvaluateGoal(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, goalProgressToResponse(progress))
	}

	return &ListGoalsOutput{Body: ListGoalsResponse{Goals: resp}}, nil
}

func (s *Server) handleCreateGoal(ctx context.Context, input *CreateGoalInput) (*GoalOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	goal, err := s.services.Goal.CreateGoal(ctx, service.CreateGoalInput{
		GoalType:    domain.GoalType(input.Body.GoalType),
		TargetValue: input.Body.TargetValue,
		PeriodYear:  input.Body.PeriodYear,
		PeriodMonth: input.Body.PeriodMonth,
	})
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Goal.EvaluateGoal(ctx, goal.ID)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: goalProgressToResponse(progress)}, nil
}

func (s *Server) handleGetGoal(ctx context.Context, input *GoalIDInput) (*GoalOutput, error) {
	progress, err := s.services.Goal.EvaluateGoal(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GoalOutput{Body: goalProgressToResponse(progress)}, nil
}

func (s *Server) handleUpdateGoal(ctx context.Context, input *UpdateGoalInput) (*GoalOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var update service.UpdateGoalInput
	if input.Body.TargetValue != nil {
		update.TargetValue = domain.SetTo(*input.Body.TargetValue)
	}
	if input.Body.IsActive != nil {
		update.IsActive = domain.SetTo(*input.Body.IsActive)
	}

	if _, err := s.services.Goal.UpdateGoal(ctx, input.ID, update); err != nil {
		return nil, err
	}

	progress, err := s.services.Goal.EvaluateGoal(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GoalOutput{Body: goalProgressToResponse(progress)}, nil
}

func (s *Server) handleDeleteGoal(ctx context.Context, input *GoalIDInput) (*struct{}, error) {
	if err := s.services.Goal.DeleteGoal(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
