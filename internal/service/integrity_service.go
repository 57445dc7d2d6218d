package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// IntegrityService runs read-only consistency scans over the database.
type IntegrityService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewIntegrityService creates a new integrity service.
func NewIntegrityService(st *sqlite.Store, logger *slog.Logger) *IntegrityService {
	return &IntegrityService{store: st, logger: logger}
}

// Check scans the database for orphaned references and per-row
// inconsistencies. The scan never modifies data.
func (s *IntegrityService) Check(ctx context.Context) (domain.IntegrityReport, error) {
	report, err := s.store.CheckIntegrity(ctx)
	if err != nil {
		return domain.IntegrityReport{}, fmt.Errorf("check integrity: %w", err)
	}

	if report.IsValid {
		s.logger.Info("integrity check passed")
	} else {
		s.logger.Warn("integrity check found issues", "count", len(report.Issues))
	}

	return report, nil
}
