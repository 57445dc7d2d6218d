package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerIntegrityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "checkIntegrity",
		Method:      http.MethodGet,
		Path:        "/api/v1/integrity",
		Summary:     "Integrity check",
		Description: "Runs the read-only consistency scan and reports every issue found",
		Tags:        []string{"Integrity"},
	}, s.handleCheckIntegrity)
}

// IntegrityIssueResponse describes one inconsistency found by the scan.
type IntegrityIssueResponse struct {
	IssueType   string  `json:"issue_type" doc:"Issue class: orphaned_foreign_key or data_inconsistency"`
	Table       string  `json:"table" doc:"Table the offending record lives in"`
	RecordID    *string `json:"record_id,omitempty" doc:"Offending record ID"`
	Description string  `json:"description" doc:"Human-readable description"`
}

// IntegrityResponse contains the result of a consistency scan.
type IntegrityResponse struct {
	IsValid bool                     `json:"is_valid" doc:"True when no issues were found"`
	Issues  []IntegrityIssueResponse `json:"issues" doc:"Every issue found"`
}

// IntegrityOutput wraps the integrity response for Huma.
type IntegrityOutput struct {
	Body IntegrityResponse
}

func (s *Server) handleCheckIntegrity(ctx context.Context, _ *struct{}) (*IntegrityOutput, error) {
	report, err := s.services.Integrity.Check(ctx)
	if err != nil {
		return nil, err
	}

	issues := make([]IntegrityIssueResponse, len(report.Issues))
	for i, issue := range report.Issues {
		issues[i] = IntegrityIssueResponse{
			IssueType:   issue.IssueType,
			Table:       issue.Table,
			RecordID:    issue.RecordID,
			Description: issue.Description,
		}
	}

	return &IntegrityOutput{
		Body: IntegrityResponse{
			IsValid: report.IsValid,
			Issues:  issues,
		},
	}, nil
}
