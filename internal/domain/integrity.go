package domain

// Integrity issue classifications.
const (
	IssueOrphanedForeignKey = "orphaned_foreign_key"
	IssueDataInconsistency  = "data_inconsistency"
)

// IntegrityIssue describes one problem found by a consistency scan.
type IntegrityIssue struct {
	IssueType   string  `json:"issue_type"`
	Table       string  `json:"table"`
	RecordID    *string `json:"record_id,omitempty"`
	Description string  `json:"description"`
}

// IntegrityReport is the result of a full read-only consistency scan.
type IntegrityReport struct {
	IsValid bool             `json:"is_valid"`
	Issues  []IntegrityIssue `json:"issues"`
}

// NewIntegrityReport builds a report; the scan is valid when nothing was found.
func NewIntegrityReport(issues []IntegrityIssue) IntegrityReport {
	return IntegrityReport{IsValid: len(issues) == 0, Issues: issues}
}
