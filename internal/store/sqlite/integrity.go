package sqlite

import (
	"context"
	"fmt"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// CheckIntegrity runs the full read-only consistency scan: orphaned foreign
// keys first, then per-row data inconsistencies. Nothing is modified.
func (s *Store) CheckIntegrity(ctx context.Context) (domain.IntegrityReport, error) {
	var issues []domain.IntegrityIssue

	checks := []func(context.Context) ([]domain.IntegrityIssue, error){
		s.findOrphanedSessions,
		s.findOrphanedNotes,
		s.findOrphanedSessionReadings,
		s.findBooksPastLastPage,
		s.findInvertedSessionRanges,
		s.findNegativeDurations,
	}
	for _, check := range checks {
		found, err := check(ctx)
		if err != nil {
			return domain.IntegrityReport{}, err
		}
		issues = append(issues, found...)
	}

	return domain.NewIntegrityReport(issues), nil
}

// findOrphanedSessions finds sessions whose book no longer exists.
func (s *Store) findOrphanedSessions(ctx context.Context) ([]domain.IntegrityIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rs.id, rs.book_id FROM reading_sessions rs
		WHERE rs.book_id NOT IN (SELECT id FROM books)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.IntegrityIssue
	for rows.Next() {
		var id, bookID string
		if err := rows.Scan(&id, &bookID); err != nil {
			return nil, err
		}
		issues = append(issues, domain.IntegrityIssue{
			IssueType:   domain.IssueOrphanedForeignKey,
			Table:       "reading_sessions",
			RecordID:    &id,
			Description: fmt.Sprintf("session references missing book %s", bookID),
		})
	}
	return issues, rows.Err()
}

// findOrphanedNotes finds notes whose book no longer exists.
func (s *Store) findOrphanedNotes(ctx context.Context) ([]domain.IntegrityIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.book_id FROM notes n
		WHERE n.book_id NOT IN (SELECT id FROM books)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.IntegrityIssue
	for rows.Next() {
		var id, bookID string
		if err := rows.Scan(&id, &bookID); err != nil {
			return nil, err
		}
		issues = append(issues, domain.IntegrityIssue{
			IssueType:   domain.IssueOrphanedForeignKey,
			Table:       "notes",
			RecordID:    &id,
			Description: fmt.Sprintf("note references missing book %s", bookID),
		})
	}
	return issues, rows.Err()
}

// findOrphanedSessionReadings finds sessions attached to a reading pass that
// no longer exists.
func (s *Store) findOrphanedSessionReadings(ctx context.Context) ([]domain.IntegrityIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rs.id, rs.reading_id FROM reading_sessions rs
		WHERE rs.reading_id IS NOT NULL
		AND rs.reading_id NOT IN (SELECT id FROM readings)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.IntegrityIssue
	for rows.Next() {
		var id, readingID string
		if err := rows.Scan(&id, &readingID); err != nil {
			return nil, err
		}
		issues = append(issues, domain.IntegrityIssue{
			IssueType:   domain.IssueOrphanedForeignKey,
			Table:       "reading_sessions",
			RecordID:    &id,
			Description: fmt.Sprintf("session references missing reading %s", readingID),
		})
	}
	return issues, rows.Err()
}

// findBooksPastLastPage finds books whose current page overshoots their total.
func (s *Store) findBooksPastLastPage(ctx context.Context) ([]domain.IntegrityIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, current_page, total_pages FROM books
		WHERE total_pages IS NOT NULL AND current_page > total_pages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.IntegrityIssue
	for rows.Next() {
		var id string
		var current, total int
		if err := rows.Scan(&id, &current, &total); err != nil {
			return nil, err
		}
		issues = append(issues, domain.IntegrityIssue{
			IssueType:   domain.IssueDataInconsistency,
			Table:       "books",
			RecordID:    &id,
			Description: fmt.Sprintf("current page (%d) exceeds total pages (%d)", current, total),
		})
	}
	return issues, rows.Err()
}

// findInvertedSessionRanges finds sessions where the end page precedes the
// start page.
func (s *Store) findInvertedSessionRanges(ctx context.Context) ([]domain.IntegrityIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_page, end_page FROM reading_sessions
		WHERE start_page IS NOT NULL AND end_page IS NOT NULL
		AND end_page < start_page`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.IntegrityIssue
	for rows.Next() {
		var id string
		var startPage, endPage int
		if err := rows.Scan(&id, &startPage, &endPage); err != nil {
			return nil, err
		}
		issues = append(issues, domain.IntegrityIssue{
			IssueType:   domain.IssueDataInconsistency,
			Table:       "reading_sessions",
			RecordID:    &id,
			Description: fmt.Sprintf("end page (%d) is before start page (%d)", endPage, startPage),
		})
	}
	return issues, rows.Err()
}

// findNegativeDurations finds sessions whose end time precedes their start
// time. Such sessions are accepted at write time and flagged here.
func (s *Store) findNegativeDurations(ctx context.Context) ([]domain.IntegrityIssue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, duration_seconds FROM reading_sessions
		WHERE duration_seconds IS NOT NULL AND duration_seconds < 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.IntegrityIssue
	for rows.Next() {
		var id string
		var duration int
		if err := rows.Scan(&id, &duration); err != nil {
			return nil, err
		}
		issues = append(issues, domain.IntegrityIssue{
			IssueType:   domain.IssueDataInconsistency,
			Table:       "reading_sessions",
			RecordID:    &id,
			Description: fmt.Sprintf("session has negative duration (%d seconds)", duration),
		})
	}
	return issues, rows.Err()
}
