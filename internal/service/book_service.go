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

// BookService manages the library: book CRUD, lifecycle status, and the
// archive/wishlist flags.
type BookService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st *sqlite.Store, logger *slog.Logger) *BookService {
	return &BookService{store: st, logger: logger}
}

// CreateBookInput carries the caller-supplied fields for a new book.
type CreateBookInput struct {
	Title           string
	Author          *string
	Genre           *string
	BookType        domain.BookType
	ISBN            *string
	PublicationYear *int
	TotalPages      *int
	TotalMinutes    *int
	CoverURL        *string
	URL             *string
	IsWishlist      bool
}

// CreateBook adds a book to the library.
func (s *BookService) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book id: %w", err)
	}

	book, err := domain.NewBook(bookID, input.Title, input.BookType, input.TotalPages, input.TotalMinutes)
	if err != nil {
		return nil, err
	}
	book.Author = input.Author
	book.Genre = input.Genre
	book.ISBN = input.ISBN
	book.PublicationYear = input.PublicationYear
	book.CoverURL = input.CoverURL
	book.URL = input.URL
	if input.IsWishlist {
		book.SetWishlist(true)
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)

	return book, nil
}

// UpdateBookInput carries partial updates for a book. The progress fields
// and status interact: when Status is absent, the service derives status
// changes from the new progress instead.
type UpdateBookInput struct {
	Title           domain.Patch[string]
	Author          domain.Patch[string]
	Genre           domain.Patch[string]
	BookType        domain.Patch[domain.BookType]
	ISBN            domain.Patch[string]
	PublicationYear domain.Patch[int]
	TotalPages      domain.Patch[int]
	TotalMinutes    domain.Patch[int]
	CurrentPage     domain.Patch[int]
	CurrentMinutes  domain.Patch[int]
	Status          domain.Patch[domain.BookStatus]
	IsArchived      domain.Patch[bool]
	IsWishlist      domain.Patch[bool]
	CoverURL        domain.Patch[string]
	URL             domain.Patch[string]
}

// UpdateBook applies a partial update. When the caller does not name a
// status explicitly, the new progress can move the book forward on its own:
// reaching the end of the authoritative axis completes it, and any progress
// on a not-started book marks it reading.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, input UpdateBookInput) (*domain.Book, error) {
	book, err := s.getBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	priorStatus := book.Status

	if title, ok := input.Title.Value(); ok {
		if title == "" {
			return nil, errors.Validation("title cannot be empty")
		}
		book.Title = title
	}
	book.Author = input.Author.ApplyPtr(book.Author)
	book.Genre = input.Genre.ApplyPtr(book.Genre)
	book.ISBN = input.ISBN.ApplyPtr(book.ISBN)
	book.PublicationYear = input.PublicationYear.ApplyPtr(book.PublicationYear)
	book.CoverURL = input.CoverURL.ApplyPtr(book.CoverURL)
	book.URL = input.URL.ApplyPtr(book.URL)

	if bookType, ok := input.BookType.Value(); ok {
		if !bookType.Valid() {
			return nil, errors.Validationf("unknown book type %q", bookType)
		}
		book.BookType = bookType
	}

	book.TotalPages = input.TotalPages.ApplyPtr(book.TotalPages)
	book.TotalMinutes = input.TotalMinutes.ApplyPtr(book.TotalMinutes)

	if page, ok := input.CurrentPage.Value(); ok {
		if err := book.UpdateCurrentPage(page); err != nil {
			return nil, err
		}
	}
	if minutes, ok := input.CurrentMinutes.Value(); ok {
		if err := book.UpdateCurrentMinutes(minutes); err != nil {
			return nil, err
		}
	}

	if status, ok := input.Status.Value(); ok {
		if err := book.SetStatus(status); err != nil {
			return nil, err
		}
	} else {
		s.deriveStatus(book, priorStatus)
	}

	if archived, ok := input.IsArchived.Value(); ok {
		book.SetArchived(archived)
	}
	if wishlist, ok := input.IsWishlist.Value(); ok {
		book.SetWishlist(wishlist)
	}

	book.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated", "book_id", book.ID, "status", book.Status)

	return book, nil
}

// deriveStatus moves a book's status forward from its progress when no
// explicit status was requested.
func (s *BookService) deriveStatus(book *domain.Book, priorStatus domain.BookStatus) {
	total := book.TotalAmount()
	progress := book.ProgressAmount()

	if total != nil && progress >= *total && priorStatus != domain.StatusCompleted {
		book.MarkAsCompleted()
		return
	}
	if progress > 0 && priorStatus == domain.StatusNotStarted {
		book.MarkAsReading()
	}
}

// GetBook returns a book by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.getBook(ctx, bookID)
}

// ListBooks returns books matching the filter. Books that carry both the
// archive and wishlist flags are repaired on the way out: the wishlist flag
// wins, except when the caller asked specifically for archived books.
func (s *BookService) ListBooks(ctx context.Context, filter sqlite.BookFilter) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	archivedWins := filter.Archived != nil && *filter.Archived &&
		(filter.Wishlist == nil || !*filter.Wishlist)

	for _, book := range books {
		if !book.IsArchived || !book.IsWishlist {
			continue
		}
		if archivedWins {
			book.SetArchived(true)
		} else {
			book.SetWishlist(true)
		}
		if err := s.store.UpdateBook(ctx, book); err != nil {
			return nil, fmt.Errorf("repair book flags: %w", err)
		}
		s.logger.Warn("repaired conflicting archive/wishlist flags", "book_id", book.ID)
	}

	return books, nil
}

// DeleteBook removes a book. Sessions and notes that reference it are left
// in place; the integrity checker reports them as orphans.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("book %s not found", bookID)
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "book_id", bookID)

	return nil
}

func (s *BookService) getBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}
