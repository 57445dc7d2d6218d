package domain

import (
	"time"

	"github.com/inkwellapp/inkwell-server/internal/errors"
)

// ReadingSession is a single logged stretch of reading. Pages and times are
// optional; the derived fields (PagesRead, DurationSeconds) are recomputed
// whenever their inputs change and never accepted from callers directly.
type ReadingSession struct {
	ID              string     `json:"id"`
	BookID          string     `json:"book_id"`
	ReadingID       *string    `json:"reading_id,omitempty"` // set for rereads
	SessionDate     time.Time  `json:"session_date"`         // date only, midnight UTC
	StartTime       *TimeOfDay `json:"start_time,omitempty"`
	EndTime         *TimeOfDay `json:"end_time,omitempty"`
	StartPage       *int       `json:"start_page,omitempty"`
	EndPage         *int       `json:"end_page,omitempty"`
	PagesRead       *int       `json:"pages_read,omitempty"`
	MinutesRead     *int       `json:"minutes_read,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	PhotoPath       *string    `json:"photo_path,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewReadingSession creates a session with the page invariants enforced.
func NewReadingSession(id, bookID string, sessionDate time.Time, startPage, endPage *int) (*ReadingSession, error) {
	if err := validatePages(startPage, endPage); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &ReadingSession{
		ID:          id,
		BookID:      bookID,
		SessionDate: DateOnly(sessionDate),
		StartPage:   startPage,
		EndPage:     endPage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.derivePagesRead()
	return s, nil
}

func validatePages(startPage, endPage *int) error {
	if startPage != nil && endPage != nil {
		if *endPage < *startPage {
			return errors.Validationf("end page (%d) cannot be less than start page (%d)", *endPage, *startPage)
		}
		if *startPage < 0 || *endPage < 0 {
			return errors.Validation("page numbers cannot be negative")
		}
	}
	return nil
}

// derivePagesRead recomputes PagesRead from the page range. With either
// endpoint missing the derived value is cleared.
func (s *ReadingSession) derivePagesRead() {
	if s.StartPage != nil && s.EndPage != nil {
		pages := *s.EndPage - *s.StartPage
		s.PagesRead = &pages
		return
	}
	s.PagesRead = nil
}

// deriveDuration recomputes DurationSeconds from the start and end times.
// Both times belong to the session's calendar day, so an end before the
// start produces a negative duration; it is stored as-is and surfaced by
// the integrity checker rather than silently dropped.
func (s *ReadingSession) deriveDuration() {
	if s.StartTime != nil && s.EndTime != nil {
		d := s.StartTime.SecondsUntil(*s.EndTime)
		s.DurationSeconds = &d
		return
	}
	s.DurationSeconds = nil
}

// SetPages updates the page range and re-derives PagesRead.
func (s *ReadingSession) SetPages(startPage, endPage *int) error {
	if err := validatePages(startPage, endPage); err != nil {
		return err
	}
	s.StartPage = startPage
	s.EndPage = endPage
	s.derivePagesRead()
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetTimes updates the start and end times and re-derives DurationSeconds.
func (s *ReadingSession) SetTimes(start, end *TimeOfDay) {
	s.StartTime = start
	s.EndTime = end
	s.deriveDuration()
	s.UpdatedAt = time.Now().UTC()
}

// DateOnly truncates t to midnight UTC, keeping only the calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
