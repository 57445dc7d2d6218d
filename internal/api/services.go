package api

import (
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Book      *service.BookService
	Session   *service.SessionService
	Reading   *service.ReadingService
	Note      *service.NoteService
	Goal      *service.GoalService
	Stats     *service.StatsService
	Integrity *service.IntegrityService
}
