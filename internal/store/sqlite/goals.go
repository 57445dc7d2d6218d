package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// goalColumns is the ordered list of columns selected in goal queries.
// Must match the scan order in scanGoal.
const goalColumns = `id, goal_type, target_value, period_year, period_month, is_active, created_at, updated_at`

// scanGoal scans a sql.Row (or sql.Rows via its Scan method) into a domain.Goal.
func scanGoal(scanner interface{ Scan(dest ...any) error }) (*domain.Goal, error) {
	var g domain.Goal

	var (
		periodYear  sql.NullInt64
		periodMonth sql.NullInt64
		isActive    int
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&g.ID,
		&g.GoalType,
		&g.TargetValue,
		&periodYear,
		&periodMonth,
		&isActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.PeriodYear = fromNullInt(periodYear)
	g.PeriodMonth = fromNullInt(periodMonth)
	g.IsActive = isActive != 0

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// CreateGoal inserts a new goal into the database.
// Returns store.ErrAlreadyExists if the goal ID already exists.
func (s *Store) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (
			id, goal_type, target_value, period_year, period_month, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID,
		string(goal.GoalType),
		goal.TargetValue,
		nullableInt(goal.PeriodYear),
		nullableInt(goal.PeriodMonth),
		boolToInt(goal.IsActive),
		formatTime(goal.CreatedAt),
		formatTime(goal.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateGoal performs a full row update on an existing goal.
// Returns store.ErrNotFound if the goal does not exist.
func (s *Store) UpdateGoal(ctx context.Context, goal *domain.Goal) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE goals SET
			goal_type = ?,
			target_value = ?,
			period_year = ?,
			period_month = ?,
			is_active = ?,
			updated_at = ?
		WHERE id = ?`,
		string(goal.GoalType),
		goal.TargetValue,
		nullableInt(goal.PeriodYear),
		nullableInt(goal.PeriodMonth),
		boolToInt(goal.IsActive),
		formatTime(goal.UpdatedAt),
		goal.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetGoal retrieves a single goal by ID.
// Returns store.ErrNotFound if the goal does not exist.
func (s *Store) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGoal deletes a goal by ID.
// Returns store.ErrNotFound if the goal does not exist.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetActiveGoals returns all active goals, oldest first.
func (s *Store) GetActiveGoals(ctx context.Context) ([]*domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE is_active = 1 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}

// ListGoals returns all goals, oldest first.
func (s *Store) ListGoals(ctx context.Context) ([]*domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}
