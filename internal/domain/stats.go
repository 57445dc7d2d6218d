package domain

// PeriodStats aggregates session activity over a window of days.
type PeriodStats struct {
	PagesRead       int `json:"pages_read"`
	MinutesRead     int `json:"minutes_read"`
	SessionCount    int `json:"session_count"`
	DurationSeconds int `json:"duration_seconds"`
}

// CurrentBook is the in-progress book projected for display.
type CurrentBook struct {
	Book            *Book   `json:"book"`
	ProgressPercent float64 `json:"progress_percent"`
}

// StatsSnapshot is the dashboard view: today's activity, this month's
// activity, and the book currently being read (if any).
type StatsSnapshot struct {
	Today       PeriodStats  `json:"today"`
	ThisMonth   PeriodStats  `json:"this_month"`
	CurrentBook *CurrentBook `json:"current_book,omitempty"`
}

// MonthBucket is one month's page total in the reading history rollup.
type MonthBucket struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
	Pages int `json:"pages"`
}

// GoalStatistics is the extended aggregate view backing the goals screen.
type GoalStatistics struct {
	PagesReadThisMonth     int           `json:"pages_read_this_month"`
	TotalPagesRead         int           `json:"total_pages_read"`
	BooksCompleted         int           `json:"books_completed"`
	SessionsThisMonth      int           `json:"sessions_this_month"`
	AveragePagesPerSession float64       `json:"average_pages_per_session"`
	PagesPerMonth          []MonthBucket `json:"pages_per_month"`
}
