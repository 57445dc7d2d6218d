package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStatistics",
		Method:      http.MethodGet,
		Path:        "/api/v1/statistics",
		Summary:     "Dashboard statistics",
		Description: "Returns today's and this month's activity plus the book currently being read",
		Tags:        []string{"Statistics"},
	}, s.handleGetStatistics)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGoalStatistics",
		Method:      http.MethodGet,
		Path:        "/api/v1/statistics/goals",
		Summary:     "Goal statistics",
		Description: "Returns the extended aggregates backing the goals screen, including the 12-month page rollup",
		Tags:        []string{"Statistics"},
	}, s.handleGetGoalStatistics)
}

// === DTOs ===

// PeriodStatsResponse summarizes activity over a period.
type PeriodStatsResponse struct {
	PagesRead       int `json:"pages_read" doc:"Pages read in the period"`
	MinutesRead     int `json:"minutes_read" doc:"Minutes read or listened in the period"`
	SessionCount    int `json:"session_count" doc:"Sessions logged in the period"`
	DurationSeconds int `json:"duration_seconds" doc:"Total timed duration in the period"`
}

// CurrentBookResponse is the in-progress book projected for display.
type CurrentBookResponse struct {
	Book            BookResponse `json:"book" doc:"The book"`
	ProgressPercent float64      `json:"progress_percent" doc:"Completion on the authoritative axis"`
}

// StatisticsResponse contains the dashboard view.
type StatisticsResponse struct {
	Today       PeriodStatsResponse  `json:"today" doc:"Today's activity"`
	ThisMonth   PeriodStatsResponse  `json:"this_month" doc:"This month's activity so far"`
	CurrentBook *CurrentBookResponse `json:"current_book,omitempty" doc:"Book currently being read"`
}

// StatisticsOutput wraps the statistics response for Huma.
type StatisticsOutput struct {
	Body StatisticsResponse
}

// MonthBucketResponse is one month's page total in the history rollup.
type MonthBucketResponse struct {
	Year  int `json:"year" doc:"Calendar year"`
	Month int `json:"month" doc:"Calendar month 1-12"`
	Pages int `json:"pages" doc:"Pages read in the month"`
}

// GoalStatisticsResponse contains the aggregates backing the goals screen.
type GoalStatisticsResponse struct {
	PagesReadThisMonth     int                   `json:"pages_read_this_month" doc:"Pages read this calendar month"`
	TotalPagesRead         int                   `json:"total_pages_read" doc:"Pages read across all sessions"`
	BooksCompleted         int                   `json:"books_completed" doc:"Books marked completed"`
	SessionsThisMonth      int                   `json:"sessions_this_month" doc:"Sessions logged this calendar month"`
	AveragePagesPerSession float64               `json:"average_pages_per_session" doc:"Total pages divided by total sessions"`
	PagesPerMonth          []MonthBucketResponse `json:"pages_per_month" doc:"Page totals for the trailing 12 months, oldest first"`
}

// GoalStatisticsOutput wraps the goal statistics response for Huma.
type GoalStatisticsOutput struct {
	Body GoalStatisticsResponse
}

func periodToResponse(p domain.PeriodStats) PeriodStatsResponse {
	return PeriodStatsResponse{
		PagesRead:       p.PagesRead,
		MinutesRead:     p.MinutesRead,
		SessionCount:    p.SessionCount,
		DurationSeconds: p.DurationSeconds,
	}
}

// === Handlers ===

func (s *Server) handleGetStatistics(ctx context.Context, _ *struct{}) (*StatisticsOutput, error) {
	snapshot, err := s.services.Stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	resp := StatisticsResponse{
		Today:     periodToResponse(snapshot.Today),
		ThisMonth: periodToResponse(snapshot.ThisMonth),
	}
	if snapshot.CurrentBook != nil {
		resp.CurrentBook = &CurrentBookResponse{
			Book:            bookToResponse(snapshot.CurrentBook.Book),
			ProgressPercent: snapshot.CurrentBook.ProgressPercent,
		}
	}

	return &StatisticsOutput{Body: resp}, nil
}

func (s *Server) handleGetGoalStatistics(ctx context.Context, _ *struct{}) (*GoalStatisticsOutput, error) {
	stats, err := s.services.Stats.GoalStatistics(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make([]MonthBucketResponse, len(stats.PagesPerMonth))
	for i, b := range stats.PagesPerMonth {
		buckets[i] = MonthBucketResponse{Year: b.Year, Month: b.Month, Pages: b.Pages}
	}

	return &GoalStatisticsOutput{
		Body: GoalStatisticsResponse{
			PagesReadThisMonth:     stats.PagesReadThisMonth,
			TotalPagesRead:         stats.TotalPagesRead,
			BooksCompleted:         stats.BooksCompleted,
			SessionsThisMonth:      stats.SessionsThisMonth,
			AveragePagesPerSession: stats.AveragePagesPerSession,
			PagesPerMonth:          buckets,
		},
	}, nil
}
