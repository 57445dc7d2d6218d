package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Returns the notes attached to a book, newest first",
		Tags:        []string{"Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes",
		Summary:     "Create note",
		Description: "Attaches a note to a book",
		Tags:        []string{"Notes"},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note by ID",
		Tags:        []string{"Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Applies a partial update to a note",
		Tags:        []string{"Notes"},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes a note",
		Tags:        []string{"Notes"},
	}, s.handleDeleteNote)
}

// === DTOs ===

// NoteResponse contains note data in API responses.
type NoteResponse struct {
	ID        string    `json:"id" doc:"Note ID"`
	BookID    string    `json:"book_id" doc:"Book ID"`
	ReadingID *string   `json:"reading_id,omitempty" doc:"Reading pass ID"`
	Page      *int      `json:"page,omitempty" doc:"Page the note refers to"`
	Content   string    `json:"content" doc:"Note text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

func noteToResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		BookID:    n.BookID,
		ReadingID: n.ReadingID,
		Page:      n.Page,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// ListNotesInput contains parameters for listing notes.
type ListNotesInput struct {
	BookID string `query:"book_id" doc:"Book ID"`
}

// ListNotesResponse contains a book's notes.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes" doc:"Notes, newest first"`
}

// ListNotesOutput wraps the list notes response for Huma.
type ListNotesOutput struct {
	Body ListNotesResponse
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	BookID    string  `json:"book_id" validate:"required" doc:"Book ID"`
	ReadingID *string `json:"reading_id,omitempty" doc:"Reading pass ID"`
	Page      *int    `json:"page,omitempty" validate:"omitempty,gte=0" doc:"Page the note refers to"`
	Content   string  `json:"content" validate:"required,min=1" doc:"Note text"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Body CreateNoteRequest
}

// NoteOutput wraps the note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// NoteIDInput contains parameters addressing a note.
type NoteIDInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// UpdateNoteRequest is the request body for updating a note. Absent fields
// are left untouched; the page clears through the explicit flag.
type UpdateNoteRequest struct {
	Content   *string `json:"content,omitempty" validate:"omitempty,min=1" doc:"Note text"`
	Page      *int    `json:"page,omitempty" validate:"omitempty,gte=0" doc:"Page the note refers to"`
	ClearPage bool    `json:"clear_page,omitempty" doc:"Clear the page reference"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateNoteRequest
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	if input.BookID == "" {
		return nil, errors.Validation("book_id is required")
	}

	notes, err := s.services.Note.ListNotes(ctx, input.BookID)
	if err != nil {
		return nil, err
	}

	resp := make([]NoteResponse, len(notes))
	for i, n := range notes {
		resp[i] = noteToResponse(n)
	}

	return &ListNotesOutput{Body: ListNotesResponse{Notes: resp}}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.CreateNote(ctx, service.CreateNoteInput{
		BookID:    input.Body.BookID,
		ReadingID: input.Body.ReadingID,
		Page:      input.Body.Page,
		Content:   input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: noteToResponse(note)}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	note, err := s.services.Note.GetNote(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: noteToResponse(note)}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var update service.UpdateNoteInput
	if input.Body.Content != nil {
		update.Content = domain.SetTo(*input.Body.Content)
	}
	switch {
	case input.Body.ClearPage:
		update.Page = domain.Clear[int]()
	case input.Body.Page != nil:
		update.Page = domain.SetTo(*input.Body.Page)
	}

	note, err := s.services.Note.UpdateNote(ctx, input.ID, update)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: noteToResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*struct{}, error) {
	if err := s.services.Note.DeleteNote(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
