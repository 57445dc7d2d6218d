package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func TestReadingService_StartReading(t *testing.T) {
	st := newTestStore(t)
	svc := NewReadingService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	first, err := svc.StartReading(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ReadingNumber)
	assert.Equal(t, domain.ReadingInProgress, first.Status)
	assert.NotNil(t, first.StartedAt)

	// First read does not flip the book to rereading.
	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.NotEqual(t, domain.StatusRereading, book.Status)
}

func TestReadingService_StartReread(t *testing.T) {
	st := newTestStore(t)
	svc := NewReadingService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	_, err := svc.StartReading(ctx, "book-1")
	require.NoError(t, err)

	second, err := svc.StartReading(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ReadingNumber)

	book, err := st.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRereading, book.Status)
}

func TestReadingService_StartReading_BookMissing(t *testing.T) {
	st := newTestStore(t)
	svc := NewReadingService(st, testLogger())

	_, err := svc.StartReading(context.Background(), "book-ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestReadingService_CompleteReading(t *testing.T) {
	st := newTestStore(t)
	svc := NewReadingService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	reading, err := svc.StartReading(ctx, "book-1")
	require.NoError(t, err)

	completed, err := svc.CompleteReading(ctx, reading.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReadingCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
}

func TestReadingService_ListReadings(t *testing.T) {
	st := newTestStore(t)
	svc := NewReadingService(st, testLogger())
	ctx := context.Background()

	createTestBook(t, st, "book-1", 300)

	for i := 0; i < 3; i++ {
		_, err := svc.StartReading(ctx, "book-1")
		require.NoError(t, err)
	}

	readings, err := svc.ListReadings(ctx, "book-1")
	require.NoError(t, err)
	require.Len(t, readings, 3)
	for i, r := range readings {
		assert.Equal(t, i+1, r.ReadingNumber)
	}
}
