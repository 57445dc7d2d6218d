package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func TestIntegrityService_Check(t *testing.T) {
	st := newTestStore(t)
	logger := testLogger()
	sessions := NewSessionService(st, logger)
	books := NewBookService(st, logger)
	svc := NewIntegrityService(st, logger)
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	report, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.True(t, report.IsValid)

	// Create a session, then delete the book: the session becomes an orphan.
	_, err = sessions.CreateSession(ctx, CreateSessionInput{
		BookID: "book-1", SessionDate: date(2026, 3, 14),
		StartPage: intPtr(0), EndPage: intPtr(30),
	})
	require.NoError(t, err)
	require.NoError(t, books.DeleteBook(ctx, "book-1"))

	report, err = svc.Check(ctx)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, domain.IssueOrphanedForeignKey, report.Issues[0].IssueType)
	assert.Equal(t, "reading_sessions", report.Issues[0].Table)
}
