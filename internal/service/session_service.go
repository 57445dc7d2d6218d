package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// SessionService manages reading sessions and keeps book progress
// reconciled with the session log.
type SessionService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(st *sqlite.Store, logger *slog.Logger) *SessionService {
	return &SessionService{store: st, logger: logger}
}

// CreateSessionInput carries the caller-supplied fields for a new session.
// PagesRead and DurationSeconds are derived, never accepted.
type CreateSessionInput struct {
	BookID      string
	ReadingID   *string
	SessionDate time.Time
	StartTime   *domain.TimeOfDay
	EndTime     *domain.TimeOfDay
	StartPage   *int
	EndPage     *int
	MinutesRead *int
	PhotoPath   *string
}

// CreateSession logs a new session and reconciles the book's progress.
func (s *SessionService) CreateSession(ctx context.Context, input CreateSessionInput) (*domain.ReadingSession, error) {
	if _, err := s.getBook(ctx, input.BookID); err != nil {
		return nil, err
	}
	if input.ReadingID != nil {
		if _, err := s.store.GetReading(ctx, *input.ReadingID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, errors.NotFoundf("reading %s not found", *input.ReadingID)
			}
			return nil, fmt.Errorf("get reading: %w", err)
		}
	}
	if input.MinutesRead != nil && *input.MinutesRead < 0 {
		return nil, errors.Validation("minutes read cannot be negative")
	}

	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	session, err := domain.NewReadingSession(sessionID, input.BookID, input.SessionDate, input.StartPage, input.EndPage)
	if err != nil {
		return nil, err
	}
	session.ReadingID = input.ReadingID
	session.MinutesRead = input.MinutesRead
	session.PhotoPath = input.PhotoPath
	session.SetTimes(input.StartTime, input.EndTime)

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.Reconcile(ctx, input.BookID); err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		"session_id", session.ID,
		"book_id", session.BookID,
		"session_date", session.SessionDate.Format(time.DateOnly))

	return session, nil
}

// UpdateSessionInput carries partial updates. Each field is a three-state
// patch: absent leaves the stored value, clear removes it, set replaces it.
type UpdateSessionInput struct {
	SessionDate domain.Patch[time.Time]
	StartTime   domain.Patch[domain.TimeOfDay]
	EndTime     domain.Patch[domain.TimeOfDay]
	StartPage   domain.Patch[int]
	EndPage     domain.Patch[int]
	MinutesRead domain.Patch[int]
	ReadingID   domain.Patch[string]
	PhotoPath   domain.Patch[string]
}

// UpdateSession applies a partial update, re-derives the computed fields,
// and reconciles the book's progress.
func (s *SessionService) UpdateSession(ctx context.Context, sessionID string, input UpdateSessionInput) (*domain.ReadingSession, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if date, ok := input.SessionDate.Value(); ok {
		session.SessionDate = domain.DateOnly(date)
	}

	if input.StartPage.IsSet() || input.EndPage.IsSet() {
		startPage := input.StartPage.ApplyPtr(session.StartPage)
		endPage := input.EndPage.ApplyPtr(session.EndPage)
		if err := session.SetPages(startPage, endPage); err != nil {
			return nil, err
		}
	}

	if input.StartTime.IsSet() || input.EndTime.IsSet() || input.SessionDate.IsSet() {
		startTime := input.StartTime.ApplyPtr(session.StartTime)
		endTime := input.EndTime.ApplyPtr(session.EndTime)
		session.SetTimes(startTime, endTime)
	}

	if input.MinutesRead.IsSet() {
		minutes := input.MinutesRead.ApplyPtr(session.MinutesRead)
		if minutes != nil && *minutes < 0 {
			return nil, errors.Validation("minutes read cannot be negative")
		}
		session.MinutesRead = minutes
	}

	if input.ReadingID.IsSet() {
		readingID := input.ReadingID.ApplyPtr(session.ReadingID)
		if readingID != nil {
			if _, err := s.store.GetReading(ctx, *readingID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, errors.NotFoundf("reading %s not found", *readingID)
				}
				return nil, fmt.Errorf("get reading: %w", err)
			}
		}
		session.ReadingID = readingID
	}

	if input.PhotoPath.IsSet() {
		session.PhotoPath = input.PhotoPath.ApplyPtr(session.PhotoPath)
	}

	session.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if err := s.Reconcile(ctx, session.BookID); err != nil {
		return nil, err
	}

	s.logger.Info("session updated", "session_id", session.ID, "book_id", session.BookID)

	return session, nil
}

// DeleteSession removes a session and reconciles the book's progress.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if err := s.Reconcile(ctx, session.BookID); err != nil {
		return err
	}

	s.logger.Info("session deleted", "session_id", sessionID, "book_id", session.BookID)

	return nil
}

// GetSession returns a session by ID.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*domain.ReadingSession, error) {
	return s.getSession(ctx, sessionID)
}

// ListSessions returns sessions matching the filter, newest first.
func (s *SessionService) ListSessions(ctx context.Context, filter sqlite.SessionFilter) ([]*domain.ReadingSession, error) {
	sessions, err := s.store.ListSessions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Reconcile rebuilds a book's progress from its full session log. The rules:
// the latest session with an end page (by session date, then creation time)
// decides the current page; with no sessions at all the page resets to zero;
// sessions that never recorded an end page leave the page alone. Minutes are
// always the plain sum over every session. The result is identical no matter
// what order the sessions were written in.
func (s *SessionService) Reconcile(ctx context.Context, bookID string) error {
	book, err := s.getBook(ctx, bookID)
	if err != nil {
		return err
	}

	sessions, err := s.store.GetSessionsForBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("get sessions for book: %w", err)
	}

	var lastEndPage *int
	totalMinutes := 0
	for _, session := range sessions {
		if lastEndPage == nil && session.EndPage != nil {
			lastEndPage = session.EndPage
		}
		if session.MinutesRead != nil {
			totalMinutes += *session.MinutesRead
		}
	}

	switch {
	case lastEndPage != nil:
		if err := book.UpdateCurrentPage(*lastEndPage); err != nil {
			return err
		}
	case len(sessions) == 0:
		if err := book.UpdateCurrentPage(0); err != nil {
			return err
		}
	}

	if err := book.UpdateCurrentMinutes(totalMinutes); err != nil {
		return err
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	s.logger.Debug("book progress reconciled",
		"book_id", bookID,
		"sessions", len(sessions),
		"current_page", book.CurrentPage,
		"current_minutes", book.CurrentMinutes)

	return nil
}

func (s *SessionService) getSession(ctx context.Context, sessionID string) (*domain.ReadingSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("session %s not found", sessionID)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *SessionService) getBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}
