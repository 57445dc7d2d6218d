package domain

import (
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

// BookType identifies the medium of a book, which also decides the
// authoritative progress axis (pages for everything except audiobooks).
type BookType string

const (
	BookTypePhysical  BookType = "physical"
	BookTypeEbook     BookType = "ebook"
	BookTypeAudiobook BookType = "audiobook"
	BookTypeArticle   BookType = "article"
	BookTypePDF       BookType = "pdf"
	BookTypeComic     BookType = "comic"
)

// Valid reports whether t is a known book type.
func (t BookType) Valid() bool {
	switch t {
	case BookTypePhysical, BookTypeEbook, BookTypeAudiobook, BookTypeArticle, BookTypePDF, BookTypeComic:
		return true
	}
	return false
}

// BookStatus is the reading lifecycle state of a book.
type BookStatus string

const (
	StatusNotStarted BookStatus = "not_started"
	StatusReading    BookStatus = "reading"
	StatusPaused     BookStatus = "paused"
	StatusAbandoned  BookStatus = "abandoned"
	StatusCompleted  BookStatus = "completed"
	StatusRereading  BookStatus = "rereading"
)

// Valid reports whether s is a known book status.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusReading, StatusPaused, StatusAbandoned, StatusCompleted, StatusRereading:
		return true
	}
	return false
}

// Book is a tracked item in the library. Progress lives on two axes:
// CurrentPage for paged media and CurrentMinutes for audiobooks. Both are
// kept in sync with the session log by reconciliation.
type Book struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Author          *string    `json:"author,omitempty"`
	Genre           *string    `json:"genre,omitempty"`
	BookType        BookType   `json:"book_type"`
	ISBN            *string    `json:"isbn,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	TotalPages      *int       `json:"total_pages,omitempty"`
	TotalMinutes    *int       `json:"total_minutes,omitempty"`
	CurrentPage     int        `json:"current_page"`
	CurrentMinutes  int        `json:"current_minutes"`
	Status          BookStatus `json:"status"`
	IsArchived      bool       `json:"is_archived"`
	IsWishlist      bool       `json:"is_wishlist"`
	CoverURL        *string    `json:"cover_url,omitempty"`
	URL             *string    `json:"url,omitempty"`
	AddedAt         time.Time  `json:"added_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
}

// NewBook creates a book with the invariants enforced: non-empty title, a
// known type, and a positive extent on the type's authoritative axis.
func NewBook(id, title string, bookType BookType, totalPages, totalMinutes *int) (*Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.Validation("title cannot be empty")
	}
	if !bookType.Valid() {
		return nil, errors.Validationf("unknown book type %q", bookType)
	}

	if bookType == BookTypeAudiobook {
		if totalMinutes == nil || *totalMinutes <= 0 {
			return nil, errors.Validation("audiobook must have total_minutes > 0")
		}
	} else {
		if totalPages == nil || *totalPages <= 0 {
			return nil, errors.Validation("book must have total_pages > 0")
		}
	}

	now := time.Now().UTC()
	return &Book{
		ID:           id,
		Title:        title,
		BookType:     bookType,
		TotalPages:   totalPages,
		TotalMinutes: totalMinutes,
		Status:       StatusNotStarted,
		AddedAt:      now,
		UpdatedAt:    now,
	}, nil
}

// ProgressAmount returns the progress on the authoritative axis for the
// book's type: current minutes for audiobooks, current page otherwise.
func (b *Book) ProgressAmount() int {
	if b.BookType == BookTypeAudiobook {
		return b.CurrentMinutes
	}
	return b.CurrentPage
}

// TotalAmount returns the extent on the authoritative axis, or nil if unset.
func (b *Book) TotalAmount() *int {
	if b.BookType == BookTypeAudiobook {
		return b.TotalMinutes
	}
	return b.TotalPages
}

// ProgressPercent computes completion on the authoritative axis, capped at 100.
func (b *Book) ProgressPercent() float64 {
	total := b.TotalAmount()
	if total == nil || *total <= 0 {
		return 0
	}
	pct := float64(b.ProgressAmount()) / float64(*total) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// UpdateCurrentPage sets the page position, rejecting values outside
// [0, total_pages] when total_pages is known.
func (b *Book) UpdateCurrentPage(page int) error {
	if b.TotalPages != nil {
		if page > *b.TotalPages {
			return errors.Boundsf("current page (%d) cannot exceed total pages (%d)", page, *b.TotalPages)
		}
		if page < 0 {
			return errors.Bounds("current page cannot be negative")
		}
	}
	b.CurrentPage = page
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateCurrentMinutes sets the audio position, rejecting values outside
// [0, total_minutes] when total_minutes is known.
func (b *Book) UpdateCurrentMinutes(minutes int) error {
	if b.TotalMinutes != nil {
		if minutes > *b.TotalMinutes {
			return errors.Boundsf("current minutes (%d) cannot exceed total minutes (%d)", minutes, *b.TotalMinutes)
		}
		if minutes < 0 {
			return errors.Bounds("current minutes cannot be negative")
		}
	}
	b.CurrentMinutes = minutes
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkAsReading transitions to Reading if not already there.
func (b *Book) MarkAsReading() {
	if b.Status != StatusReading {
		b.setStatus(StatusReading)
	}
}

// MarkAsCompleted transitions to Completed unconditionally, stamping
// status_changed_at even on a repeat call.
func (b *Book) MarkAsCompleted() {
	b.setStatus(StatusCompleted)
}

// SetStatus applies an explicitly requested status. The status timestamp
// only moves on an actual change.
func (b *Book) SetStatus(status BookStatus) error {
	if !status.Valid() {
		return errors.Validationf("unknown book status %q", status)
	}
	if b.Status != status {
		b.setStatus(status)
	}
	return nil
}

func (b *Book) setStatus(status BookStatus) {
	now := time.Now().UTC()
	b.Status = status
	b.StatusChangedAt = &now
	b.UpdatedAt = now
}

// SetArchived flags the book archived. Archived and wishlist are mutually
// exclusive, so archiving clears the wishlist flag.
func (b *Book) SetArchived(archived bool) {
	b.IsArchived = archived
	if archived {
		b.IsWishlist = false
	}
	b.UpdatedAt = time.Now().UTC()
}

// SetWishlist flags the book as wishlist-only, clearing the archive flag.
func (b *Book) SetWishlist(wishlist bool) {
	b.IsWishlist = wishlist
	if wishlist {
		b.IsArchived = false
	}
	b.UpdatedAt = time.Now().UTC()
}
