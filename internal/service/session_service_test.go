package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

// createTestBook inserts a paged book directly through the store.
func createTestBook(t *testing.T, st *sqlite.Store, id string, totalPages int) *domain.Book {
	t.Helper()
	book, err := domain.NewBook(id, "Book "+id, domain.BookTypePhysical, intPtr(totalPages), nil)
	require.NoError(t, err)
	require.NoError(t, st.CreateBook(context.Background(), book))
	return book
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSessionService_CreateSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	session, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID:      "book-1",
		SessionDate: date(2026, 3, 14),
		StartPage:   intPtr(10),
		EndPage:     intPtr(50),
		MinutesRead: intPtr(45),
	})
	require.NoError(t, err)
	require.NotNil(t, session.PagesRead)
	assert.Equal(t, 40, *session.PagesRead)

	// Progress is reconciled immediately.
	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 50, book.CurrentPage)
	assert.Equal(t, 45, book.CurrentMinutes)
}

func TestSessionService_CreateSession_BookMissing(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())

	_, err := svc.CreateSession(context.Background(), CreateSessionInput{
		BookID:      "book-ghost",
		SessionDate: date(2026, 3, 14),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSessionService_CreateSession_InvalidRange(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())

	createTestBook(t, st, "book-1", 300)

	_, err := svc.CreateSession(context.Background(), CreateSessionInput{
		BookID:      "book-1",
		SessionDate: date(2026, 3, 14),
		StartPage:   intPtr(80),
		EndPage:     intPtr(40),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestSessionService_CreateSession_EndPageBeyondTotal(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())

	createTestBook(t, st, "book-1", 100)

	_, err := svc.CreateSession(context.Background(), CreateSessionInput{
		BookID:      "book-1",
		SessionDate: date(2026, 3, 14),
		StartPage:   intPtr(90),
		EndPage:     intPtr(150),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBounds))
}

func TestSessionService_Reconcile_LatestEndPageWins(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	// Log sessions out of chronological order; the latest date still wins.
	_, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 20),
		StartPage: intPtr(50), EndPage: intPtr(120),
	})
	require.NoError(t, err)

	_, err = svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(0), EndPage: intPtr(50),
	})
	require.NoError(t, err)

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 120, book.CurrentPage, "latest session date decides the page, not insertion order")
}

func TestSessionService_Reconcile_SameDayTieBreak(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)
	day := date(2026, 3, 14)

	// Same session date; the one created later wins.
	early, err := domain.NewReadingSession("sess-early", "book-1", day, intPtr(0), intPtr(40))
	require.NoError(t, err)
	early.CreatedAt = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, st.CreateSession(ctx, early))

	late, err := domain.NewReadingSession("sess-late", "book-1", day, intPtr(40), intPtr(75))
	require.NoError(t, err)
	late.CreatedAt = time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	require.NoError(t, st.CreateSession(ctx, late))

	require.NoError(t, svc.Reconcile(ctx, "book-1"))

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 75, book.CurrentPage)
}

func TestSessionService_Reconcile_SubSecondTieBreak(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)
	day := date(2026, 3, 14)

	// Both sessions created within the same second; fractional parts
	// chosen so that trimming trailing zeros would reverse the text order.
	early, err := domain.NewReadingSession("sess-early", "book-1", day, intPtr(0), intPtr(40))
	require.NoError(t, err)
	early.CreatedAt = time.Date(2026, 3, 14, 9, 0, 0, 100_000_000, time.UTC)
	require.NoError(t, st.CreateSession(ctx, early))

	late, err := domain.NewReadingSession("sess-late", "book-1", day, intPtr(40), intPtr(75))
	require.NoError(t, err)
	late.CreatedAt = time.Date(2026, 3, 14, 9, 0, 0, 120_000_000, time.UTC)
	require.NoError(t, st.CreateSession(ctx, late))

	require.NoError(t, svc.Reconcile(ctx, "book-1"))

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 75, book.CurrentPage)
}

func TestSessionService_Reconcile_SkipsSessionsWithoutEndPage(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	_, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(0), EndPage: intPtr(60),
	})
	require.NoError(t, err)

	// A later minutes-only session must not disturb the page position.
	_, err = svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 15),
		MinutesRead: intPtr(30),
	})
	require.NoError(t, err)

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 60, book.CurrentPage)
	assert.Equal(t, 30, book.CurrentMinutes)
}

func TestSessionService_DeleteRestoresPriorPosition(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	_, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(0), EndPage: intPtr(50),
	})
	require.NoError(t, err)

	second, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 12),
		StartPage: intPtr(50), EndPage: intPtr(120),
	})
	require.NoError(t, err)

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	require.Equal(t, 120, book.CurrentPage)

	// Deleting the newest session rolls the position back to 50.
	require.NoError(t, svc.DeleteSession(ctx, second.ID))

	book, err = st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 50, book.CurrentPage)
}

func TestSessionService_DeleteLastSessionResetsToZero(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	session, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(0), EndPage: intPtr(50), MinutesRead: intPtr(30),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, session.ID))

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 0, book.CurrentPage, "no sessions left resets the position")
	assert.Equal(t, 0, book.CurrentMinutes)
}

func TestSessionService_Reconcile_Idempotent(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	_, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(0), EndPage: intPtr(80), MinutesRead: intPtr(25),
	})
	require.NoError(t, err)

	// Running reconciliation repeatedly must not change the result.
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Reconcile(ctx, "book-1"))
	}

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 80, book.CurrentPage)
	assert.Equal(t, 25, book.CurrentMinutes)
}

func TestSessionService_MinutesSumUnconditionally(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	for _, minutes := range []int{20, 35, 15} {
		_, err := svc.CreateSession(ctx, CreateSessionInput{
			BookID: "book-1", SessionDate: date(2026, 3, 10),
			MinutesRead: intPtr(minutes),
		})
		require.NoError(t, err)
	}

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 70, book.CurrentMinutes)
}

func TestSessionService_UpdateSession(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	session, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(0), EndPage: intPtr(50),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSession(ctx, session.ID, UpdateSessionInput{
		EndPage: domain.SetTo(90),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.PagesRead)
	assert.Equal(t, 90, *updated.PagesRead, "pages_read re-derived from the new end page")

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 90, book.CurrentPage, "update reconciles the book")
}

func TestSessionService_UpdateSession_ClearEndPage(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	session, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartPage: intPtr(0), EndPage: intPtr(50),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSession(ctx, session.ID, UpdateSessionInput{
		EndPage: domain.Clear[int](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.EndPage)
	assert.Nil(t, updated.PagesRead, "clearing an endpoint clears the derived count")
}

func TestSessionService_UpdateSession_ClearTimes(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	start, err := domain.ParseTimeOfDay("18:00")
	require.NoError(t, err)
	end, err := domain.ParseTimeOfDay("19:00")
	require.NoError(t, err)

	session, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartTime: &start, EndTime: &end,
	})
	require.NoError(t, err)
	require.NotNil(t, session.DurationSeconds)

	updated, err := svc.UpdateSession(ctx, session.ID, UpdateSessionInput{
		EndTime: domain.Clear[domain.TimeOfDay](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.EndTime)
	assert.Nil(t, updated.DurationSeconds)
	assert.NotNil(t, updated.StartTime, "untouched field survives the update")
}

func TestSessionService_NegativeDurationAccepted(t *testing.T) {
	st := newTestStore(t)
	svc := NewSessionService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	start, err := domain.ParseTimeOfDay("23:00")
	require.NoError(t, err)
	end, err := domain.ParseTimeOfDay("01:30")
	require.NoError(t, err)

	session, err := svc.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 10),
		StartTime: &start, EndTime: &end,
	})
	require.NoError(t, err, "an inverted time range is stored, not rejected")
	require.NotNil(t, session.DurationSeconds)
	assert.Negative(t, *session.DurationSeconds)
}

func TestSessionService_OrderIndependence(t *testing.T) {
	type entry struct {
		day       time.Time
		startPage *int
		endPage   *int
		minutes   *int
	}
	entries := []entry{
		{date(2026, 3, 10), intPtr(0), intPtr(40), intPtr(20)},
		{date(2026, 3, 12), intPtr(40), intPtr(95), intPtr(30)},
		{date(2026, 3, 11), nil, nil, intPtr(15)},
	}
	permutations := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}}

	for _, perm := range permutations {
		st := newTestStore(t)
		svc := NewSessionService(st, testLogger())
		ctx := context.Background()
		createTestBook(t, st, "book-1", 300)

		for _, idx := range perm {
			e := entries[idx]
			_, err := svc.CreateSession(ctx, CreateSessionInput{
				BookID: "book-1", SessionDate: e.day,
				StartPage: e.startPage, EndPage: e.endPage, MinutesRead: e.minutes,
			})
			require.NoError(t, err)
		}

		book, err := st.GetBook(ctx, "book-1")
		require.NoError(t, err)
		assert.Equal(t, 95, book.CurrentPage, "permutation %v", perm)
		assert.Equal(t, 65, book.CurrentMinutes, "permutation %v", perm)
	}
}
