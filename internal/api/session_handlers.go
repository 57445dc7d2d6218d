package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions",
		Summary:     "List sessions",
		Description: "Returns reading sessions matching the optional filters, newest first",
		Tags:        []string{"Sessions"},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "createSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Log session",
		Description: "Logs a reading session and reconciles the book's progress",
		Tags:        []string{"Sessions"},
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session",
		Description: "Returns a reading session by ID",
		Tags:        []string{"Sessions"},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSession",
		Method:      http.MethodPatch,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Update session",
		Description: "Applies a partial update, re-derives computed fields, and reconciles the book's progress",
		Tags:        []string{"Sessions"},
	}, s.handleUpdateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Delete session",
		Description: "Deletes a reading session and reconciles the book's progress",
		Tags:        []string{"Sessions"},
	}, s.handleDeleteSession)
}

// === DTOs ===

// SessionResponse contains reading session data in API responses.
type SessionResponse struct {
	ID              string    `json:"id" doc:"Session ID"`
	BookID          string    `json:"book_id" doc:"Book ID"`
	ReadingID       *string   `json:"reading_id,omitempty" doc:"Reading pass ID (rereads)"`
	SessionDate     string    `json:"session_date" doc:"Session date (YYYY-MM-DD)"`
	StartTime       *string   `json:"start_time,omitempty" doc:"Start time of day (HH:MM:SS)"`
	EndTime         *string   `json:"end_time,omitempty" doc:"End time of day (HH:MM:SS)"`
	StartPage       *int      `json:"start_page,omitempty" doc:"Page at session start"`
	EndPage         *int      `json:"end_page,omitempty" doc:"Page at session end"`
	PagesRead       *int      `json:"pages_read,omitempty" doc:"Derived: end page minus start page"`
	MinutesRead     *int      `json:"minutes_read,omitempty" doc:"Minutes read or listened"`
	DurationSeconds *int      `json:"duration_seconds,omitempty" doc:"Derived: seconds between start and end time"`
	PhotoPath       *string   `json:"photo_path,omitempty" doc:"Attached photo path"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

func sessionToResponse(sess *domain.ReadingSession) SessionResponse {
	resp := SessionResponse{
		ID:              sess.ID,
		BookID:          sess.BookID,
		ReadingID:       sess.ReadingID,
		SessionDate:     sess.SessionDate.Format(time.DateOnly),
		StartPage:       sess.StartPage,
		EndPage:         sess.EndPage,
		PagesRead:       sess.PagesRead,
		MinutesRead:     sess.MinutesRead,
		DurationSeconds: sess.DurationSeconds,
		PhotoPath:       sess.PhotoPath,
		CreatedAt:       sess.CreatedAt,
		UpdatedAt:       sess.UpdatedAt,
	}
	if sess.StartTime != nil {
		v := sess.StartTime.String()
		resp.StartTime = &v
	}
	if sess.EndTime != nil {
		v := sess.EndTime.String()
		resp.EndTime = &v
	}
	return resp
}

// ListSessionsInput contains filter parameters for listing sessions.
type ListSessionsInput struct {
	BookID    string `query:"book_id" doc:"Filter by book"`
	ReadingID string `query:"reading_id" doc:"Filter by reading pass"`
	From      string `query:"from" doc:"Inclusive lower session date bound (YYYY-MM-DD)"`
	To        string `query:"to" doc:"Inclusive upper session date bound (YYYY-MM-DD)"`
	Limit     int    `query:"limit" doc:"Maximum number of sessions to return"`
}

// ListSessionsResponse contains a list of sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions" doc:"Matching sessions, newest first"`
}

// ListSessionsOutput wraps the list sessions response for Huma.
type ListSessionsOutput struct {
	Body ListSessionsResponse
}

// CreateSessionRequest is the request body for logging a session.
type CreateSessionRequest struct {
	BookID      string  `json:"book_id" validate:"required" doc:"Book ID"`
	ReadingID   *string `json:"reading_id,omitempty" doc:"Reading pass ID (rereads)"`
	SessionDate string  `json:"session_date" validate:"required,datetime=2006-01-02" doc:"Session date (YYYY-MM-DD)"`
	StartTime   *string `json:"start_time,omitempty" doc:"Start time of day (HH:MM:SS)"`
	EndTime     *string `json:"end_time,omitempty" doc:"End time of day (HH:MM:SS)"`
	StartPage   *int    `json:"start_page,omitempty" validate:"omitempty,gte=0" doc:"Page at session start"`
	EndPage     *int    `json:"end_page,omitempty" validate:"omitempty,gte=0" doc:"Page at session end"`
	MinutesRead *int    `json:"minutes_read,omitempty" validate:"omitempty,gte=0" doc:"Minutes read or listened"`
	PhotoPath   *string `json:"photo_path,omitempty" doc:"Attached photo path"`
}

// CreateSessionInput wraps the create session request for Huma.
type CreateSessionInput struct {
	Body CreateSessionRequest
}

// SessionOutput wraps the session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// GetSessionInput contains parameters for getting a session.
type GetSessionInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// UpdateSessionRequest is the request body for updating a session. Absent
// fields are left untouched. Time fields clear on an empty string; page and
// minute fields clear through the explicit clear flags, since zero is a
// meaningful page number.
type UpdateSessionRequest struct {
	SessionDate *string `json:"session_date,omitempty" validate:"omitempty,datetime=2006-01-02" doc:"Session date (YYYY-MM-DD)"`
	StartTime   *string `json:"start_time,omitempty" doc:"Start time of day (HH:MM:SS); empty string clears"`
	EndTime     *string `json:"end_time,omitempty" doc:"End time of day (HH:MM:SS); empty string clears"`
	StartPage   *int    `json:"start_page,omitempty" validate:"omitempty,gte=0" doc:"Page at session start"`
	EndPage     *int    `json:"end_page,omitempty" validate:"omitempty,gte=0" doc:"Page at session end"`
	MinutesRead *int    `json:"minutes_read,omitempty" validate:"omitempty,gte=0" doc:"Minutes read or listened"`
	ReadingID   *string `json:"reading_id,omitempty" doc:"Reading pass ID; empty string clears"`
	PhotoPath   *string `json:"photo_path,omitempty" doc:"Attached photo path; empty string clears"`

	ClearStartPage   bool `json:"clear_start_page,omitempty" doc:"Clear the start page"`
	ClearEndPage     bool `json:"clear_end_page,omitempty" doc:"Clear the end page"`
	ClearMinutesRead bool `json:"clear_minutes_read,omitempty" doc:"Clear the minutes read"`
}

// UpdateSessionInput wraps the update session request for Huma.
type UpdateSessionInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body UpdateSessionRequest
}

// DeleteSessionInput contains parameters for deleting a session.
type DeleteSessionInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// === Handlers ===

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	filter := sqlite.SessionFilter{Limit: input.Limit}
	if input.BookID != "" {
		filter.BookID = &input.BookID
	}
	if input.ReadingID != "" {
		filter.ReadingID = &input.ReadingID
	}
	if input.From != "" {
		from, err := parseDateParam("from", input.From)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if input.To != "" {
		to, err := parseDateParam("to", input.To)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}

	sessions, err := s.services.Session.ListSessions(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		resp[i] = sessionToResponse(sess)
	}

	return &ListSessionsOutput{Body: ListSessionsResponse{Sessions: resp}}, nil
}

func (s *Server) handleCreateSession(ctx context.Context, input *CreateSessionInput) (*SessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	sessionDate, err := parseDateParam("session_date", input.Body.SessionDate)
	if err != nil {
		return nil, err
	}
	startTime, err := parseTimeParam("start_time", input.Body.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := parseTimeParam("end_time", input.Body.EndTime)
	if err != nil {
		return nil, err
	}

	sess, err := s.services.Session.CreateSession(ctx, service.CreateSessionInput{
		BookID:      input.Body.BookID,
		ReadingID:   input.Body.ReadingID,
		SessionDate: sessionDate,
		StartTime:   startTime,
		EndTime:     endTime,
		StartPage:   input.Body.StartPage,
		EndPage:     input.Body.EndPage,
		MinutesRead: input.Body.MinutesRead,
		PhotoPath:   input.Body.PhotoPath,
	})
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: sessionToResponse(sess)}, nil
}

func (s *Server) handleGetSession(ctx context.Context, input *GetSessionInput) (*SessionOutput, error) {
	sess, err := s.services.Session.GetSession(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: sessionToResponse(sess)}, nil
}

func (s *Server) handleUpdateSession(ctx context.Context, input *UpdateSessionInput) (*SessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	update := service.UpdateSessionInput{
		ReadingID: clearableString(input.Body.ReadingID),
		PhotoPath: clearableString(input.Body.PhotoPath),
	}
	if input.Body.SessionDate != nil {
		sessionDate, err := parseDateParam("session_date", *input.Body.SessionDate)
		if err != nil {
			return nil, err
		}
		update.SessionDate = domain.SetTo(sessionDate)
	}
	var err error
	if update.StartTime, err = clearableTime("start_time", input.Body.StartTime); err != nil {
		return nil, err
	}
	if update.EndTime, err = clearableTime("end_time", input.Body.EndTime); err != nil {
		return nil, err
	}

	switch {
	case input.Body.ClearStartPage:
		update.StartPage = domain.Clear[int]()
	case input.Body.StartPage != nil:
		update.StartPage = domain.SetTo(*input.Body.StartPage)
	}
	switch {
	case input.Body.ClearEndPage:
		update.EndPage = domain.Clear[int]()
	case input.Body.EndPage != nil:
		update.EndPage = domain.SetTo(*input.Body.EndPage)
	}
	switch {
	case input.Body.ClearMinutesRead:
		update.MinutesRead = domain.Clear[int]()
	case input.Body.MinutesRead != nil:
		update.MinutesRead = domain.SetTo(*input.Body.MinutesRead)
	}

	sess, err := s.services.Session.UpdateSession(ctx, input.ID, update)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: sessionToResponse(sess)}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *DeleteSessionInput) (*struct{}, error) {
	if err := s.services.Session.DeleteSession(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

// === Helpers ===

// parseDateParam parses a YYYY-MM-DD value into a midnight-UTC date.
func parseDateParam(field, value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errors.Validationf("%s must be a date in YYYY-MM-DD form", field)
	}
	return t, nil
}

// parseTimeParam parses an optional HH:MM:SS value into a time of day.
func parseTimeParam(field string, value *string) (*domain.TimeOfDay, error) {
	if value == nil {
		return nil, nil
	}
	tod, err := domain.ParseTimeOfDay(*value)
	if err != nil {
		return nil, errors.Validationf("%s must be a time in HH:MM:SS form", field)
	}
	return &tod, nil
}

// clearableTime maps an optional time-of-day field onto a patch: absent
// leaves the value alone, empty string clears it, anything else sets it.
func clearableTime(field string, value *string) (domain.Patch[domain.TimeOfDay], error) {
	if value == nil {
		return domain.Patch[domain.TimeOfDay]{}, nil
	}
	if *value == "" {
		return domain.Clear[domain.TimeOfDay](), nil
	}
	tod, err := domain.ParseTimeOfDay(*value)
	if err != nil {
		return domain.Patch[domain.TimeOfDay]{}, errors.Validationf("%s must be a time in HH:MM:SS form", field)
	}
	return domain.SetTo(tod), nil
}
