package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func (s *Server) registerReadingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "startReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/readings",
		Summary:     "Start reading pass",
		Description: "Starts a new numbered pass through a book; a second or later pass marks the book rereading",
		Tags:        []string{"Readings"},
	}, s.handleStartReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReadings",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/readings",
		Summary:     "List reading passes",
		Description: "Returns all passes through a book in reading order",
		Tags:        []string{"Readings"},
	}, s.handleListReadings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReading",
		Method:      http.MethodGet,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Get reading pass",
		Description: "Returns a reading pass by ID",
		Tags:        []string{"Readings"},
	}, s.handleGetReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeReading",
		Method:      http.MethodPatch,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Complete reading pass",
		Description: "Marks a reading pass completed",
		Tags:        []string{"Readings"},
	}, s.handleCompleteReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReading",
		Method:      http.MethodDelete,
		Path:        "/api/v1/readings/{id}",
		Summary:     "Delete reading pass",
		Description: "Deletes a reading pass",
		Tags:        []string{"Readings"},
	}, s.handleDeleteReading)
}

// === DTOs ===

// ReadingResponse contains reading pass data in API responses.
type ReadingResponse struct {
	ID            string     `json:"id" doc:"Reading pass ID"`
	BookID        string     `json:"book_id" doc:"Book ID"`
	ReadingNumber int        `json:"reading_number" doc:"Pass number, starting at 1"`
	StartedAt     *time.Time `json:"started_at,omitempty" doc:"Start time"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" doc:"Completion time"`
	Status        string     `json:"status" doc:"Pass lifecycle status"`
	CreatedAt     time.Time  `json:"created_at" doc:"Creation time"`
}

func readingToResponse(r *domain.Reading) ReadingResponse {
	return ReadingResponse{
		ID:            r.ID,
		BookID:        r.BookID,
		ReadingNumber: r.ReadingNumber,
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

// StartReadingInput contains parameters for starting a reading pass.
type StartReadingInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ReadingOutput wraps the reading response for Huma.
type ReadingOutput struct {
	Body ReadingResponse
}

// ListReadingsInput contains parameters for listing reading passes.
type ListReadingsInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ListReadingsResponse contains a book's reading passes.
type ListReadingsResponse struct {
	Readings []ReadingResponse `json:"readings" doc:"Passes in reading order"`
}

// ListReadingsOutput wraps the list readings response for Huma.
type ListReadingsOutput struct {
	Body ListReadingsResponse
}

// ReadingIDInput contains parameters addressing a reading pass.
type ReadingIDInput struct {
	ID string `path:"id" doc:"Reading pass ID"`
}

// === Handlers ===

func (s *Server) handleStartReading(ctx context.Context, input *StartReadingInput) (*ReadingOutput, error) {
	reading, err := s.services.Reading.StartReading(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReadingOutput{Body: readingToResponse(reading)}, nil
}

func (s *Server) handleListReadings(ctx context.Context, input *ListReadingsInput) (*ListReadingsOutput, error) {
	readings, err := s.services.Reading.ListReadings(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]ReadingResponse, len(readings))
	for i, r := range readings {
		resp[i] = readingToResponse(r)
	}

	return &ListReadingsOutput{Body: ListReadingsResponse{Readings: resp}}, nil
}

func (s *Server) handleGetReading(ctx context.Context, input *ReadingIDInput) (*ReadingOutput, error) {
	reading, err := s.services.Reading.GetReading(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReadingOutput{Body: readingToResponse(reading)}, nil
}

func (s *Server) handleCompleteReading(ctx context.Context, input *ReadingIDInput) (*ReadingOutput, error) {
	reading, err := s.services.Reading.CompleteReading(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ReadingOutput{Body: readingToResponse(reading)}, nil
}

func (s *Server) handleDeleteReading(ctx context.Context, input *ReadingIDInput) (*struct{}, error) {
	if err := s.services.Reading.DeleteReading(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
