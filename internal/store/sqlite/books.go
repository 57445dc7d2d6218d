package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, genre, book_type, isbn, publication_year,
	total_pages, total_minutes, current_page, current_minutes, status,
	is_archived, is_wishlist, cover_url, url, added_at, updated_at, status_changed_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		author          sql.NullString
		genre           sql.NullString
		isbn            sql.NullString
		publicationYear sql.NullInt64
		totalPages      sql.NullInt64
		totalMinutes    sql.NullInt64
		isArchived      int
		isWishlist      int
		coverURL        sql.NullString
		url             sql.NullString
		addedAt         string
		updatedAt       string
		statusChangedAt sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&author,
		&genre,
		&b.BookType,
		&isbn,
		&publicationYear,
		&totalPages,
		&totalMinutes,
		&b.CurrentPage,
		&b.CurrentMinutes,
		&b.Status,
		&isArchived,
		&isWishlist,
		&coverURL,
		&url,
		&addedAt,
		&updatedAt,
		&statusChangedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Author = fromNullString(author)
	b.Genre = fromNullString(genre)
	b.ISBN = fromNullString(isbn)
	b.PublicationYear = fromNullInt(publicationYear)
	b.TotalPages = fromNullInt(totalPages)
	b.TotalMinutes = fromNullInt(totalMinutes)
	b.IsArchived = isArchived != 0
	b.IsWishlist = isWishlist != 0
	b.CoverURL = fromNullString(coverURL)
	b.URL = fromNullString(url)

	b.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.StatusChangedAt, err = parseNullableTime(statusChangedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new book into the database.
// Returns store.ErrAlreadyExists if the book ID already exists.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, title, author, genre, book_type, isbn, publication_year,
			total_pages, total_minutes, current_page, current_minutes, status,
			is_archived, is_wishlist, cover_url, url, added_at, updated_at, status_changed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		nullableString(book.Author),
		nullableString(book.Genre),
		string(book.BookType),
		nullableString(book.ISBN),
		nullableInt(book.PublicationYear),
		nullableInt(book.TotalPages),
		nullableInt(book.TotalMinutes),
		book.CurrentPage,
		book.CurrentMinutes,
		string(book.Status),
		boolToInt(book.IsArchived),
		boolToInt(book.IsWishlist),
		nullableString(book.CoverURL),
		nullableString(book.URL),
		formatTime(book.AddedAt),
		formatTime(book.UpdatedAt),
		nullTimeString(book.StatusChangedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateBook performs a full row update on an existing book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			title = ?,
			author = ?,
			genre = ?,
			book_type = ?,
			isbn = ?,
			publication_year = ?,
			total_pages = ?,
			total_minutes = ?,
			current_page = ?,
			current_minutes = ?,
			status = ?,
			is_archived = ?,
			is_wishlist = ?,
			cover_url = ?,
			url = ?,
			updated_at = ?,
			status_changed_at = ?
		WHERE id = ?`,
		book.Title,
		nullableString(book.Author),
		nullableString(book.Genre),
		string(book.BookType),
		nullableString(book.ISBN),
		nullableInt(book.PublicationYear),
		nullableInt(book.TotalPages),
		nullableInt(book.TotalMinutes),
		book.CurrentPage,
		book.CurrentMinutes,
		string(book.Status),
		boolToInt(book.IsArchived),
		boolToInt(book.IsWishlist),
		nullableString(book.CoverURL),
		nullableString(book.URL),
		formatTime(book.UpdatedAt),
		nullTimeString(book.StatusChangedAt),
		book.ID,
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

// GetBook retrieves a single book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBook deletes a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
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

// BookFilter narrows ListBooks results. Nil fields are ignored.
type BookFilter struct {
	Status   *domain.BookStatus
	BookType *domain.BookType
	Archived *bool
	Wishlist *bool
	Search   string // matches title or author, case-insensitive
}

// ListBooks returns books matching the filter, ordered by added_at descending.
func (s *Store) ListBooks(ctx context.Context, filter BookFilter) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`

	var conds []string
	var args []any

	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.BookType != nil {
		conds = append(conds, "book_type = ?")
		args = append(args, string(*filter.BookType))
	}
	if filter.Archived != nil {
		conds = append(conds, "is_archived = ?")
		args = append(args, boolToInt(*filter.Archived))
	}
	if filter.Wishlist != nil {
		conds = append(conds, "is_wishlist = ?")
		args = append(args, boolToInt(*filter.Wishlist))
	}
	if filter.Search != "" {
		conds = append(conds, "(title LIKE ? COLLATE NOCASE OR author LIKE ? COLLATE NOCASE)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY added_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBooksByStatus returns books with the given status, most recently
// status-changed first. Books that never changed status sort last, then by ID
// so the order is stable.
func (s *Store) GetBooksByStatus(ctx context.Context, status domain.BookStatus) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books
		WHERE status = ?
		ORDER BY status_changed_at IS NULL, status_changed_at DESC, id`,
		string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooksCompletedInYear counts books whose status is completed and whose
// status change landed inside the given calendar year.
func (s *Store) CountBooksCompletedInYear(ctx context.Context, year int) (int, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM books
		WHERE status = ? AND status_changed_at IS NOT NULL
		AND status_changed_at >= ? AND status_changed_at < ?`,
		string(domain.StatusCompleted), formatTime(start), formatTime(end),
	).Scan(&count)
	return count, err
}

// CountBooksCompleted counts all completed books.
func (s *Store) CountBooksCompleted(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE status = ?`,
		string(domain.StatusCompleted),
	).Scan(&count)
	return count, err
}
