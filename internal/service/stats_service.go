package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// StatsService produces the dashboard and goal-screen aggregates.
type StatsService struct {
	store  *sqlite.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewStatsService creates a new statistics service.
func NewStatsService(st *sqlite.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: st, logger: logger, now: time.Now}
}

// Snapshot builds the dashboard view: today's activity, this month's
// activity from the first of the month through today, and the current book.
func (s *StatsService) Snapshot(ctx context.Context) (*domain.StatsSnapshot, error) {
	today := domain.DateOnly(s.now())
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	todayStats, err := s.aggregateRange(ctx, today, today)
	if err != nil {
		return nil, err
	}
	monthStats, err := s.aggregateRange(ctx, firstOfMonth, today)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.StatsSnapshot{
		Today:     todayStats,
		ThisMonth: monthStats,
	}

	current, err := s.currentBook(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.CurrentBook = current

	return snapshot, nil
}

// aggregateRange sums session activity over [from, to] inclusive.
func (s *StatsService) aggregateRange(ctx context.Context, from, to time.Time) (domain.PeriodStats, error) {
	sessions, err := s.store.GetSessionsInRange(ctx, from, to)
	if err != nil {
		return domain.PeriodStats{}, fmt.Errorf("get sessions in range: %w", err)
	}

	var stats domain.PeriodStats
	stats.SessionCount = len(sessions)
	for _, session := range sessions {
		if session.PagesRead != nil {
			stats.PagesRead += *session.PagesRead
		}
		if session.MinutesRead != nil {
			stats.MinutesRead += *session.MinutesRead
		}
		if session.DurationSeconds != nil {
			stats.DurationSeconds += *session.DurationSeconds
		}
	}
	return stats, nil
}

// currentBook picks the book being read right now: the reading-status book
// whose status changed most recently, ties broken by ID. Nil when nothing
// is in progress.
func (s *StatsService) currentBook(ctx context.Context) (*domain.CurrentBook, error) {
	books, err := s.store.GetBooksByStatus(ctx, domain.StatusReading)
	if err != nil {
		return nil, fmt.Errorf("get reading books: %w", err)
	}
	if len(books) == 0 {
		return nil, nil
	}

	book := books[0]
	return &domain.CurrentBook{
		Book:            book,
		ProgressPercent: book.ProgressPercent(),
	}, nil
}

// GoalStatistics builds the extended aggregates for the goals screen,
// including a twelve-month page rollup. The rollup walks back in 30-day
// steps from today, expands each landing date to its full calendar month,
// and returns the buckets in chronological order.
func (s *StatsService) GoalStatistics(ctx context.Context) (*domain.GoalStatistics, error) {
	now := domain.DateOnly(s.now())
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	_, lastOfMonth := domain.MonthBounds(now.Year(), int(now.Month()))

	pagesThisMonth, err := s.store.SumPagesReadInRange(ctx, firstOfMonth, lastOfMonth)
	if err != nil {
		return nil, fmt.Errorf("sum pages this month: %w", err)
	}

	totalPages, err := s.store.SumPagesRead(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum total pages: %w", err)
	}

	booksCompleted, err := s.store.CountBooksCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("count completed books: %w", err)
	}

	sessionsThisMonth, err := s.store.CountSessionsInRange(ctx, firstOfMonth, lastOfMonth)
	if err != nil {
		return nil, fmt.Errorf("count sessions this month: %w", err)
	}

	totalSessions, err := s.store.CountSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	avgPages := 0.0
	if totalSessions > 0 {
		avgPages = float64(totalPages) / float64(totalSessions)
	}

	perMonth, err := s.pagesPerMonth(ctx, now)
	if err != nil {
		return nil, err
	}

	return &domain.GoalStatistics{
		PagesReadThisMonth:     pagesThisMonth,
		TotalPagesRead:         totalPages,
		BooksCompleted:         booksCompleted,
		SessionsThisMonth:      sessionsThisMonth,
		AveragePagesPerSession: avgPages,
		PagesPerMonth:          perMonth,
	}, nil
}

func (s *StatsService) pagesPerMonth(ctx context.Context, now time.Time) ([]domain.MonthBucket, error) {
	buckets := make([]domain.MonthBucket, 0, 12)
	for i := 0; i < 12; i++ {
		anchor := now.AddDate(0, 0, -30*i)
		first, last := domain.MonthBounds(anchor.Year(), int(anchor.Month()))

		pages, err := s.store.SumPagesReadInRange(ctx, first, last)
		if err != nil {
			return nil, fmt.Errorf("sum pages for month %d-%d: %w", anchor.Year(), anchor.Month(), err)
		}
		buckets = append(buckets, domain.MonthBucket{
			Year:  anchor.Year(),
			Month: int(anchor.Month()),
			Pages: pages,
		})
	}

	// Oldest first.
	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets, nil
}
