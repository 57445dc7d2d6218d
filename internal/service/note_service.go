package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// NoteService manages notes attached to books.
type NoteService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(st *sqlite.Store, logger *slog.Logger) *NoteService {
	return &NoteService{store: st, logger: logger}
}

// CreateNoteInput carries the caller-supplied fields for a new note.
type CreateNoteInput struct {
	BookID    string
	ReadingID *string
	Page      *int
	Content   string
}

// CreateNote attaches a note to a book.
func (s *NoteService) CreateNote(ctx context.Context, input CreateNoteInput) (*domain.Note, error) {
	if _, err := s.store.GetBook(ctx, input.BookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", input.BookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note id: %w", err)
	}

	note, err := domain.NewNote(noteID, input.BookID, input.Content)
	if err != nil {
		return nil, err
	}
	note.ReadingID = input.ReadingID
	note.Page = input.Page

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.logger.Info("note created", "note_id", note.ID, "book_id", note.BookID)

	return note, nil
}

// UpdateNoteInput carries partial updates for a note.
type UpdateNoteInput struct {
	Content domain.Patch[string]
	Page    domain.Patch[int]
}

// UpdateNote applies a partial update to a note.
func (s *NoteService) UpdateNote(ctx context.Context, noteID string, input UpdateNoteInput) (*domain.Note, error) {
	note, err := s.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if content, ok := input.Content.Value(); ok {
		if err := note.SetContent(content); err != nil {
			return nil, err
		}
	}
	note.Page = input.Page.ApplyPtr(note.Page)

	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	return note, nil
}

// GetNote returns a note by ID.
func (s *NoteService) GetNote(ctx context.Context, noteID string) (*domain.Note, error) {
	return s.getNote(ctx, noteID)
}

// ListNotes returns all notes for a book, newest first.
func (s *NoteService) ListNotes(ctx context.Context, bookID string) ([]*domain.Note, error) {
	notes, err := s.store.GetNotesForBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get notes for book: %w", err)
	}
	return notes, nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("note %s not found", noteID)
		}
		return fmt.Errorf("delete note: %w", err)
	}

	s.logger.Info("note deleted", "note_id", noteID)

	return nil
}

func (s *NoteService) getNote(ctx context.Context, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("note %s not found", noteID)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}
