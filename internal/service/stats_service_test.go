package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func TestStatsService_Snapshot(t *testing.T) {
	st := newTestStore(t)
	logger := testLogger()
	sessions := NewSessionService(st, logger)
	svc := NewStatsService(st, logger)

	// Pin "now" to mid-March 2026.
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	createTestBook(t, st, "book-1", 500)

	start, err := domain.ParseTimeOfDay("18:00")
	require.NoError(t, err)
	end, err := domain.ParseTimeOfDay("19:00")
	require.NoError(t, err)

	// Today: one session with pages, minutes, and a timed hour.
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 15),
		StartPage: intPtr(100), EndPage: intPtr(140),
		MinutesRead: intPtr(60),
		StartTime:   &start, EndTime: &end,
	})
	require.NoError(t, err)

	// Earlier this month.
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 2),
		StartPage: intPtr(0), EndPage: intPtr(100), MinutesRead: intPtr(90),
	})
	require.NoError(t, err)

	// Last month: excluded from both buckets.
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 2, 20),
		StartPage: intPtr(200), EndPage: intPtr(230),
	})
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 40, snapshot.Today.PagesRead)
	assert.Equal(t, 60, snapshot.Today.MinutesRead)
	assert.Equal(t, 1, snapshot.Today.SessionCount)
	assert.Equal(t, 3600, snapshot.Today.DurationSeconds)

	assert.Equal(t, 140, snapshot.ThisMonth.PagesRead)
	assert.Equal(t, 150, snapshot.ThisMonth.MinutesRead)
	assert.Equal(t, 2, snapshot.ThisMonth.SessionCount)
}

func TestStatsService_Snapshot_CurrentBook(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())
	ctx := context.Background()

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot.CurrentBook, "no reading book means no current book")

	// Two reading books; the more recently started one wins.
	older := createTestBook(t, st, "book-a", 200)
	older.MarkAsReading()
	earlier := time.Now().UTC().Add(-2 * time.Hour)
	older.StatusChangedAt = &earlier
	older.CurrentPage = 50
	require.NoError(t, st.UpdateBook(ctx, older))

	newer := createTestBook(t, st, "book-b", 400)
	newer.MarkAsReading()
	newer.CurrentPage = 100
	require.NoError(t, st.UpdateBook(ctx, newer))

	snapshot, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot.CurrentBook)
	assert.Equal(t, "book-b", snapshot.CurrentBook.Book.ID)
	assert.Equal(t, 25.0, snapshot.CurrentBook.ProgressPercent)
}

func TestStatsService_Snapshot_AudiobookProgressAxis(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())
	ctx := context.Background()

	audiobook, err := domain.NewBook("book-1", "Project Hail Mary", domain.BookTypeAudiobook, nil, intPtr(960))
	require.NoError(t, err)
	audiobook.MarkAsReading()
	audiobook.CurrentMinutes = 480
	require.NoError(t, st.CreateBook(ctx, audiobook))
	require.NoError(t, st.UpdateBook(ctx, audiobook))

	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot.CurrentBook)
	assert.Equal(t, 50.0, snapshot.CurrentBook.ProgressPercent)
}

func TestStatsService_GoalStatistics(t *testing.T) {
	st := newTestStore(t)
	logger := testLogger()
	sessions := NewSessionService(st, logger)
	svc := NewStatsService(st, logger)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	createTestBook(t, st, "book-1", 1000)

	completed := createTestBook(t, st, "book-2", 100)
	completed.MarkAsCompleted()
	require.NoError(t, st.UpdateBook(ctx, completed))

	// 150 pages in March over two sessions, 50 in January.
	_, err := sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 3),
		StartPage: intPtr(0), EndPage: intPtr(100),
	})
	require.NoError(t, err)
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(100), EndPage: intPtr(150),
	})
	require.NoError(t, err)
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 1, 10),
		StartPage: intPtr(150), EndPage: intPtr(200),
	})
	require.NoError(t, err)

	stats, err := svc.GoalStatistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 150, stats.PagesReadThisMonth)
	assert.Equal(t, 200, stats.TotalPagesRead)
	assert.Equal(t, 1, stats.BooksCompleted)
	assert.Equal(t, 2, stats.SessionsThisMonth)
	assert.InDelta(t, 200.0/3.0, stats.AveragePagesPerSession, 0.001)

	require.Len(t, stats.PagesPerMonth, 12)
	// Chronological order: the last bucket is the current month.
	last := stats.PagesPerMonth[len(stats.PagesPerMonth)-1]
	assert.Equal(t, 2026, last.Year)
	assert.Equal(t, 3, last.Month)
	assert.Equal(t, 150, last.Pages)

	// January appears in an earlier bucket with its 50 pages.
	foundJanuary := false
	for _, bucket := range stats.PagesPerMonth {
		if bucket.Year == 2026 && bucket.Month == 1 {
			foundJanuary = true
			assert.Equal(t, 50, bucket.Pages)
		}
	}
	assert.True(t, foundJanuary, "january bucket present in the rollup")
}

func TestStatsService_GoalStatistics_Empty(t *testing.T) {
	st := newTestStore(t)
	svc := NewStatsService(st, testLogger())

	stats, err := svc.GoalStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPagesRead)
	assert.Equal(t, 0.0, stats.AveragePagesPerSession, "no sessions means zero average, not NaN")
	assert.Len(t, stats.PagesPerMonth, 12)
}
