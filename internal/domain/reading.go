package domain

import (
	"time"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

// ReadingStatus is the lifecycle state of a single pass through a book.
type ReadingStatus string

const (
	ReadingNotStarted ReadingStatus = "not_started"
	ReadingInProgress ReadingStatus = "reading"
	ReadingPaused     ReadingStatus = "paused"
	ReadingAbandoned  ReadingStatus = "abandoned"
	ReadingCompleted  ReadingStatus = "completed"
)

// Valid reports whether s is a known reading status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case ReadingNotStarted, ReadingInProgress, ReadingPaused, ReadingAbandoned, ReadingCompleted:
		return true
	}
	return false
}

// Reading is one numbered pass through a book. The first read is number 1,
// the first reread 2, and so on. Sessions can attach to a reading so rereads
// keep their own history.
type Reading struct {
	ID            string        `json:"id"`
	BookID        string        `json:"book_id"`
	ReadingNumber int           `json:"reading_number"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	Status        ReadingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// NewReading creates a reading pass for a book.
func NewReading(id, bookID string, readingNumber int) (*Reading, error) {
	if readingNumber < 1 {
		return nil, errors.Validation("reading number must be >= 1")
	}
	return &Reading{
		ID:            id,
		BookID:        bookID,
		ReadingNumber: readingNumber,
		Status:        ReadingNotStarted,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// MarkAsStarted transitions a fresh reading to in progress.
func (r *Reading) MarkAsStarted() {
	if r.Status == ReadingNotStarted {
		now := time.Now().UTC()
		r.Status = ReadingInProgress
		r.StartedAt = &now
	}
}

// MarkAsCompleted finishes the reading pass.
func (r *Reading) MarkAsCompleted() {
	now := time.Now().UTC()
	r.Status = ReadingCompleted
	r.CompletedAt = &now
}
