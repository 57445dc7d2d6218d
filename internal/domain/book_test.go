package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

func intPtr(v int) *int { return &v }

func TestNewBook(t *testing.T) {
	book, err := NewBook("book-1", "Piranesi", BookTypePhysical, intPtr(245), nil)

	require.NoError(t, err)
	assert.Equal(t, "book-1", book.ID)
	assert.Equal(t, StatusNotStarted, book.Status)
	assert.Equal(t, 0, book.CurrentPage)
	assert.Equal(t, 0, book.CurrentMinutes)
	assert.Nil(t, book.StatusChangedAt)
	assert.False(t, book.AddedAt.IsZero())
}

func TestNewBook_Validation(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		bookType     BookType
		totalPages   *int
		totalMinutes *int
	}{
		{name: "empty title", title: "  ", bookType: BookTypePhysical, totalPages: intPtr(100)},
		{name: "unknown type", title: "Dune", bookType: "scroll", totalPages: intPtr(100)},
		{name: "paged book without pages", title: "Dune", bookType: BookTypeEbook},
		{name: "paged book with zero pages", title: "Dune", bookType: BookTypeEbook, totalPages: intPtr(0)},
		{name: "audiobook without minutes", title: "Dune", bookType: BookTypeAudiobook, totalPages: intPtr(100)},
		{name: "audiobook with zero minutes", title: "Dune", bookType: BookTypeAudiobook, totalMinutes: intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBook("book-1", tt.title, tt.bookType, tt.totalPages, tt.totalMinutes)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))
		})
	}
}

func TestBook_UpdateCurrentPage(t *testing.T) {
	book, err := NewBook("book-1", "Piranesi", BookTypePhysical, intPtr(245), nil)
	require.NoError(t, err)

	require.NoError(t, book.UpdateCurrentPage(120))
	assert.Equal(t, 120, book.CurrentPage)

	err = book.UpdateCurrentPage(300)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBounds))
	assert.Equal(t, 120, book.CurrentPage, "rejected update must not change state")

	err = book.UpdateCurrentPage(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBounds))
}

func TestBook_UpdateCurrentMinutes(t *testing.T) {
	book, err := NewBook("book-1", "Project Hail Mary", BookTypeAudiobook, nil, intPtr(960))
	require.NoError(t, err)

	require.NoError(t, book.UpdateCurrentMinutes(480))
	assert.Equal(t, 480, book.CurrentMinutes)

	err = book.UpdateCurrentMinutes(1000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBounds))
}

func TestBook_ProgressPercent(t *testing.T) {
	book, err := NewBook("book-1", "Piranesi", BookTypePhysical, intPtr(200), nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, book.ProgressPercent())

	book.CurrentPage = 50
	assert.Equal(t, 25.0, book.ProgressPercent())

	// Capped at 100 even if current somehow exceeds total.
	book.CurrentPage = 250
	assert.Equal(t, 100.0, book.ProgressPercent())
}

func TestBook_ProgressPercent_Audiobook(t *testing.T) {
	book, err := NewBook("book-1", "Project Hail Mary", BookTypeAudiobook, nil, intPtr(960))
	require.NoError(t, err)

	book.CurrentMinutes = 240
	book.CurrentPage = 999 // irrelevant axis for audiobooks
	assert.Equal(t, 25.0, book.ProgressPercent())
}

func TestBook_StatusTransitions(t *testing.T) {
	book, err := NewBook("book-1", "Piranesi", BookTypePhysical, intPtr(245), nil)
	require.NoError(t, err)

	book.MarkAsReading()
	require.NotNil(t, book.StatusChangedAt)
	first := *book.StatusChangedAt

	// Repeated MarkAsReading is a no-op.
	book.MarkAsReading()
	assert.Equal(t, first, *book.StatusChangedAt)

	book.MarkAsCompleted()
	assert.Equal(t, StatusCompleted, book.Status)
	assert.True(t, book.StatusChangedAt.After(first) || book.StatusChangedAt.Equal(first))
}

func TestBook_SetStatus_OnlyBumpsOnChange(t *testing.T) {
	book, err := NewBook("book-1", "Piranesi", BookTypePhysical, intPtr(245), nil)
	require.NoError(t, err)

	require.NoError(t, book.SetStatus(StatusPaused))
	require.NotNil(t, book.StatusChangedAt)
	stamp := *book.StatusChangedAt

	require.NoError(t, book.SetStatus(StatusPaused))
	assert.Equal(t, stamp, *book.StatusChangedAt, "same status must not bump the timestamp")

	err = book.SetStatus("daydreaming")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestBook_ArchiveWishlistExclusive(t *testing.T) {
	book, err := NewBook("book-1", "Piranesi", BookTypePhysical, intPtr(245), nil)
	require.NoError(t, err)

	book.SetWishlist(true)
	assert.True(t, book.IsWishlist)
	assert.False(t, book.IsArchived)

	book.SetArchived(true)
	assert.True(t, book.IsArchived)
	assert.False(t, book.IsWishlist, "archiving must clear the wishlist flag")

	book.SetWishlist(true)
	assert.False(t, book.IsArchived, "wishlisting must clear the archive flag")
}
