package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns books matching the optional filters",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Adds a book to the library",
		Tags:        []string{"Books"},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Applies a partial update to a book",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book; its sessions and notes are left behind for the integrity scan",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID              string     `json:"id" doc:"Book ID"`
	Title           string     `json:"title" doc:"Title"`
	Author          *string    `json:"author,omitempty" doc:"Author"`
	Genre           *string    `json:"genre,omitempty" doc:"Genre"`
	BookType        string     `json:"book_type" doc:"Medium: physical, ebook, audiobook, article, pdf, or comic"`
	ISBN            *string    `json:"isbn,omitempty" doc:"ISBN"`
	PublicationYear *int       `json:"publication_year,omitempty" doc:"Publication year"`
	TotalPages      *int       `json:"total_pages,omitempty" doc:"Total pages"`
	TotalMinutes    *int       `json:"total_minutes,omitempty" doc:"Total minutes (audiobooks)"`
	CurrentPage     int        `json:"current_page" doc:"Current page position"`
	CurrentMinutes  int        `json:"current_minutes" doc:"Current listening position in minutes"`
	Status          string     `json:"status" doc:"Reading lifecycle status"`
	ProgressPercent float64    `json:"progress_percent" doc:"Completion on the book's authoritative axis, capped at 100"`
	IsArchived      bool       `json:"is_archived" doc:"Archived flag"`
	IsWishlist      bool       `json:"is_wishlist" doc:"Wishlist flag"`
	CoverURL        *string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	URL             *string    `json:"url,omitempty" doc:"External URL"`
	AddedAt         time.Time  `json:"added_at" doc:"Creation time"`
	UpdatedAt       time.Time  `json:"updated_at" doc:"Last update time"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty" doc:"Last status transition time"`
}

func bookToResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		BookType:        string(b.BookType),
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		TotalPages:      b.TotalPages,
		TotalMinutes:    b.TotalMinutes,
		CurrentPage:     b.CurrentPage,
		CurrentMinutes:  b.CurrentMinutes,
		Status:          string(b.Status),
		ProgressPercent: b.ProgressPercent(),
		IsArchived:      b.IsArchived,
		IsWishlist:      b.IsWishlist,
		CoverURL:        b.CoverURL,
		URL:             b.URL,
		AddedAt:         b.AddedAt,
		UpdatedAt:       b.UpdatedAt,
		StatusChangedAt: b.StatusChangedAt,
	}
}

// ListBooksInput contains filter parameters for listing books.
type ListBooksInput struct {
	Status   string `query:"status" doc:"Filter by lifecycle status"`
	BookType string `query:"book_type" doc:"Filter by medium"`
	Archived string `query:"archived" enum:"true,false" doc:"Filter by archived flag"`
	Wishlist string `query:"wishlist" enum:"true,false" doc:"Filter by wishlist flag"`
	Search   string `query:"search" doc:"Match against title or author, case-insensitive"`
}

// ListBooksResponse contains a list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Matching books"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=500" doc:"Title"`
	Author          *string `json:"author,omitempty" validate:"omitempty,max=200" doc:"Author"`
	Genre           *string `json:"genre,omitempty" validate:"omitempty,max=100" doc:"Genre"`
	BookType        string  `json:"book_type" validate:"required,oneof=physical ebook audiobook article pdf comic" doc:"Medium"`
	ISBN            *string `json:"isbn,omitempty" validate:"omitempty,max=20" doc:"ISBN"`
	PublicationYear *int    `json:"publication_year,omitempty" validate:"omitempty,gte=0" doc:"Publication year"`
	TotalPages      *int    `json:"total_pages,omitempty" validate:"omitempty,gt=0" doc:"Total pages"`
	TotalMinutes    *int    `json:"total_minutes,omitempty" validate:"omitempty,gt=0" doc:"Total minutes (required for audiobooks)"`
	CoverURL        *string `json:"cover_url,omitempty" doc:"Cover image URL"`
	URL             *string `json:"url,omitempty" doc:"External URL"`
	IsWishlist      bool    `json:"is_wishlist,omitempty" doc:"Create as a wishlist entry"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// BookOutput wraps the book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for updating a book. Absent fields
// are left untouched. For optional text fields an empty string clears the
// value; for optional numeric fields a zero clears it.
type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Title"`
	Author          *string `json:"author,omitempty" validate:"omitempty,max=200" doc:"Author; empty string clears"`
	Genre           *string `json:"genre,omitempty" validate:"omitempty,max=100" doc:"Genre; empty string clears"`
	BookType        *string `json:"book_type,omitempty" validate:"omitempty,oneof=physical ebook audiobook article pdf comic" doc:"Medium"`
	ISBN            *string `json:"isbn,omitempty" validate:"omitempty,max=20" doc:"ISBN; empty string clears"`
	PublicationYear *int    `json:"publication_year,omitempty" validate:"omitempty,gte=0" doc:"Publication year; zero clears"`
	TotalPages      *int    `json:"total_pages,omitempty" validate:"omitempty,gte=0" doc:"Total pages; zero clears"`
	TotalMinutes    *int    `json:"total_minutes,omitempty" validate:"omitempty,gte=0" doc:"Total minutes; zero clears"`
	CurrentPage     *int    `json:"current_page,omitempty" validate:"omitempty,gte=0" doc:"Current page position"`
	CurrentMinutes  *int    `json:"current_minutes,omitempty" validate:"omitempty,gte=0" doc:"Current listening position in minutes"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=not_started reading paused abandoned completed rereading" doc:"Lifecycle status"`
	IsArchived      *bool   `json:"is_archived,omitempty" doc:"Archived flag; setting true clears the wishlist flag"`
	IsWishlist      *bool   `json:"is_wishlist,omitempty" doc:"Wishlist flag; setting true clears the archived flag"`
	CoverURL        *string `json:"cover_url,omitempty" doc:"Cover image URL; empty string clears"`
	URL             *string `json:"url,omitempty" doc:"External URL; empty string clears"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	filter := sqlite.BookFilter{
		Search: input.Search,
	}
	if input.Archived != "" {
		archived := input.Archived == "true"
		filter.Archived = &archived
	}
	if input.Wishlist != "" {
		wishlist := input.Wishlist == "true"
		filter.Wishlist = &wishlist
	}
	if input.Status != "" {
		status := domain.BookStatus(input.Status)
		filter.Status = &status
	}
	if input.BookType != "" {
		bookType := domain.BookType(input.BookType)
		filter.BookType = &bookType
	}

	books, err := s.services.Book.ListBooks(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = bookToResponse(b)
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, service.CreateBookInput{
		Title:           input.Body.Title,
		Author:          input.Body.Author,
		Genre:           input.Body.Genre,
		BookType:        domain.BookType(input.Body.BookType),
		ISBN:            input.Body.ISBN,
		PublicationYear: input.Body.PublicationYear,
		TotalPages:      input.Body.TotalPages,
		TotalMinutes:    input.Body.TotalMinutes,
		CoverURL:        input.Body.CoverURL,
		URL:             input.Body.URL,
		IsWishlist:      input.Body.IsWishlist,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: bookToResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: bookToResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	update := service.UpdateBookInput{
		Author:          clearableString(input.Body.Author),
		Genre:           clearableString(input.Body.Genre),
		ISBN:            clearableString(input.Body.ISBN),
		PublicationYear: clearableInt(input.Body.PublicationYear),
		TotalPages:      clearableInt(input.Body.TotalPages),
		TotalMinutes:    clearableInt(input.Body.TotalMinutes),
		CoverURL:        clearableString(input.Body.CoverURL),
		URL:             clearableString(input.Body.URL),
	}
	if input.Body.Title != nil {
		update.Title = domain.SetTo(*input.Body.Title)
	}
	if input.Body.BookType != nil {
		update.BookType = domain.SetTo(domain.BookType(*input.Body.BookType))
	}
	if input.Body.CurrentPage != nil {
		update.CurrentPage = domain.SetTo(*input.Body.CurrentPage)
	}
	if input.Body.CurrentMinutes != nil {
		update.CurrentMinutes = domain.SetTo(*input.Body.CurrentMinutes)
	}
	if input.Body.Status != nil {
		update.Status = domain.SetTo(domain.BookStatus(*input.Body.Status))
	}
	if input.Body.IsArchived != nil {
		update.IsArchived = domain.SetTo(*input.Body.IsArchived)
	}
	if input.Body.IsWishlist != nil {
		update.IsWishlist = domain.SetTo(*input.Body.IsWishlist)
	}

	book, err := s.services.Book.UpdateBook(ctx, input.ID, update)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: bookToResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*struct{}, error) {
	if err := s.services.Book.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

// clearableString maps an optional text field onto a patch: absent leaves
// the value alone, empty string clears it, anything else sets it.
func clearableString(v *string) domain.Patch[string] {
	if v == nil {
		return domain.Patch[string]{}
	}
	if *v == "" {
		return domain.Clear[string]()
	}
	return domain.SetTo(*v)
}

// clearableInt maps an optional numeric field onto a patch: absent leaves
// the value alone, zero clears it, anything else sets it.
func clearableInt(v *int) domain.Patch[int] {
	if v == nil {
		return domain.Patch[int]{}
	}
	if *v == 0 {
		return domain.Clear[int]()
	}
	return domain.SetTo(*v)
}
