package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, book_id, reading_id, session_date, start_time, end_time,
	start_page, end_page, pages_read, minutes_read, duration_seconds,
	photo_path, created_at, updated_at`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.ReadingSession.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingSession, error) {
	var rs domain.ReadingSession

	var (
		readingID       sql.NullString
		sessionDate     string
		startTime       sql.NullString
		endTime         sql.NullString
		startPage       sql.NullInt64
		endPage         sql.NullInt64
		pagesRead       sql.NullInt64
		minutesRead     sql.NullInt64
		durationSeconds sql.NullInt64
		photoPath       sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := scanner.Scan(
		&rs.ID,
		&rs.BookID,
		&readingID,
		&sessionDate,
		&startTime,
		&endTime,
		&startPage,
		&endPage,
		&pagesRead,
		&minutesRead,
		&durationSeconds,
		&photoPath,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rs.ReadingID = fromNullString(readingID)
	rs.StartPage = fromNullInt(startPage)
	rs.EndPage = fromNullInt(endPage)
	rs.PagesRead = fromNullInt(pagesRead)
	rs.MinutesRead = fromNullInt(minutesRead)
	rs.DurationSeconds = fromNullInt(durationSeconds)
	rs.PhotoPath = fromNullString(photoPath)

	rs.SessionDate, err = parseDate(sessionDate)
	if err != nil {
		return nil, err
	}
	rs.StartTime, err = parseNullableTimeOfDay(startTime)
	if err != nil {
		return nil, err
	}
	rs.EndTime, err = parseNullableTimeOfDay(endTime)
	if err != nil {
		return nil, err
	}
	rs.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	rs.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &rs, nil
}

// CreateSession inserts a new reading session into the database.
// Returns store.ErrAlreadyExists if the session ID already exists.
func (s *Store) CreateSession(ctx context.Context, session *domain.ReadingSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_sessions (
			id, book_id, reading_id, session_date, start_time, end_time,
			start_page, end_page, pages_read, minutes_read, duration_seconds,
			photo_path, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.BookID,
		nullableString(session.ReadingID),
		formatDate(session.SessionDate),
		nullTimeOfDay(session.StartTime),
		nullTimeOfDay(session.EndTime),
		nullableInt(session.StartPage),
		nullableInt(session.EndPage),
		nullableInt(session.PagesRead),
		nullableInt(session.MinutesRead),
		nullableInt(session.DurationSeconds),
		nullableString(session.PhotoPath),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateSession performs a full row update on an existing reading session.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.ReadingSession) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reading_sessions SET
			book_id = ?,
			reading_id = ?,
			session_date = ?,
			start_time = ?,
			end_time = ?,
			start_page = ?,
			end_page = ?,
			pages_read = ?,
			minutes_read = ?,
			duration_seconds = ?,
			photo_path = ?,
			updated_at = ?
		WHERE id = ?`,
		session.BookID,
		nullableString(session.ReadingID),
		formatDate(session.SessionDate),
		nullTimeOfDay(session.StartTime),
		nullTimeOfDay(session.EndTime),
		nullableInt(session.StartPage),
		nullableInt(session.EndPage),
		nullableInt(session.PagesRead),
		nullableInt(session.MinutesRead),
		nullableInt(session.DurationSeconds),
		nullableString(session.PhotoPath),
		formatTime(session.UpdatedAt),
		session.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetSession retrieves a single reading session by ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.ReadingSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions WHERE id = ?`, id)

	rs, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// DeleteSession deletes a reading session by ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM reading_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetSessionsForBook returns every session logged against a book, ordered by
// session date then creation time descending. This is the reconciliation
// ordering: the newest session with an end page decides the book's position.
func (s *Store) GetSessionsForBook(ctx context.Context, bookID string) ([]*domain.ReadingSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions
		WHERE book_id = ?
		ORDER BY session_date DESC, created_at DESC`,
		bookID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

// SessionFilter narrows ListSessions results. Nil fields are ignored.
type SessionFilter struct {
	BookID    *string
	ReadingID *string
	From      *time.Time // inclusive session_date lower bound
	To        *time.Time // inclusive session_date upper bound
	Limit     int
}

// ListSessions returns sessions matching the filter, newest first.
func (s *Store) ListSessions(ctx context.Context, filter SessionFilter) ([]*domain.ReadingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM reading_sessions`

	var conds []string
	var args []any

	if filter.BookID != nil {
		conds = append(conds, "book_id = ?")
		args = append(args, *filter.BookID)
	}
	if filter.ReadingID != nil {
		conds = append(conds, "reading_id = ?")
		args = append(args, *filter.ReadingID)
	}
	if filter.From != nil {
		conds = append(conds, "session_date >= ?")
		args = append(args, formatDate(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "session_date <= ?")
		args = append(args, formatDate(*filter.To))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY session_date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

// GetSessionsInRange returns sessions with session_date in [from, to], both
// inclusive.
func (s *Store) GetSessionsInRange(ctx context.Context, from, to time.Time) ([]*domain.ReadingSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM reading_sessions
		WHERE session_date >= ? AND session_date <= ?
		ORDER BY session_date DESC, created_at DESC`,
		formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows *sql.Rows) ([]*domain.ReadingSession, error) {
	var sessions []*domain.ReadingSession
	for rows.Next() {
		rs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SumPagesRead sums pages_read over all sessions.
func (s *Store) SumPagesRead(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(pages_read), 0) FROM reading_sessions`,
	).Scan(&total)
	return total, err
}

// SumPagesReadInRange sums pages_read over sessions dated within [from, to].
func (s *Store) SumPagesReadInRange(ctx context.Context, from, to time.Time) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(pages_read), 0) FROM reading_sessions
		WHERE session_date >= ? AND session_date <= ?`,
		formatDate(from), formatDate(to),
	).Scan(&total)
	return total, err
}

// SumMinutesReadOnDate sums minutes_read over sessions on a single date.
func (s *Store) SumMinutesReadOnDate(ctx context.Context, date time.Time) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(minutes_read), 0) FROM reading_sessions
		WHERE session_date = ?`,
		formatDate(date),
	).Scan(&total)
	return total, err
}

// CountSessionsInRange counts sessions dated within [from, to].
func (s *Store) CountSessionsInRange(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reading_sessions
		WHERE session_date >= ? AND session_date <= ?`,
		formatDate(from), formatDate(to),
	).Scan(&count)
	return count, err
}

// CountSessions counts all sessions.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reading_sessions`).Scan(&count)
	return count, err
}
