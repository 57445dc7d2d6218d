package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// readingColumns is the ordered list of columns selected in reading queries.
// Must match the scan order in scanReading.
const readingColumns = `id, book_id, reading_number, started_at, completed_at, status, created_at`

// scanReading scans a sql.Row (or sql.Rows via its Scan method) into a domain.Reading.
func scanReading(scanner interface{ Scan(dest ...any) error }) (*domain.Reading, error) {
	var r domain.Reading

	var (
		startedAt   sql.NullString
		completedAt sql.NullString
		createdAt   string
	)

	err := scanner.Scan(
		&r.ID,
		&r.BookID,
		&r.ReadingNumber,
		&startedAt,
		&completedAt,
		&r.Status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.StartedAt, err = parseNullableTime(startedAt)
	if err != nil {
		return nil, err
	}
	r.CompletedAt, err = parseNullableTime(completedAt)
	if err != nil {
		return nil, err
	}
	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateReading inserts a new reading pass into the database.
// Returns store.ErrAlreadyExists if the reading ID already exists.
func (s *Store) CreateReading(ctx context.Context, reading *domain.Reading) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO readings (
			id, book_id, reading_number, started_at, completed_at, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reading.ID,
		reading.BookID,
		reading.ReadingNumber,
		nullTimeString(reading.StartedAt),
		nullTimeString(reading.CompletedAt),
		string(reading.Status),
		formatTime(reading.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateReading performs a full row update on an existing reading pass.
// Returns store.ErrNotFound if the reading does not exist.
func (s *Store) UpdateReading(ctx context.Context, reading *domain.Reading) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE readings SET
			book_id = ?,
			reading_number = ?,
			started_at = ?,
			completed_at = ?,
			status = ?
		WHERE id = ?`,
		reading.BookID,
		reading.ReadingNumber,
		nullTimeString(reading.StartedAt),
		nullTimeString(reading.CompletedAt),
		string(reading.Status),
		reading.ID,
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

// GetReading retrieves a single reading pass by ID.
// Returns store.ErrNotFound if the reading does not exist.
func (s *Store) GetReading(ctx context.Context, id string) (*domain.Reading, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+readingColumns+` FROM readings WHERE id = ?`, id)

	r, err := scanReading(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReading deletes a reading pass by ID.
// Returns store.ErrNotFound if the reading does not exist.
func (s *Store) DeleteReading(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM readings WHERE id = ?`, id)
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

// GetReadingsForBook returns all reading passes for a book, ordered by
// reading number ascending.
func (s *Store) GetReadingsForBook(ctx context.Context, bookID string) ([]*domain.Reading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+readingColumns+` FROM readings
		WHERE book_id = ?
		ORDER BY reading_number ASC`,
		bookID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*domain.Reading
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}

// MaxReadingNumber returns the highest reading number recorded for a book,
// or 0 if the book has no readings.
func (s *Store) MaxReadingNumber(ctx context.Context, bookID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(reading_number), 0) FROM readings WHERE book_id = ?`,
		bookID,
	).Scan(&n)
	return n, err
}
