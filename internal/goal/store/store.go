package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/goal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, kind, status, created_at, updated_at`

func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	var kindStr, statusStr string

	if err := s.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline,
		&kindStr, &statusStr, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}

	g.Kind = goal.Kind(kindStr)
	g.Status = goal.Status(statusStr)

	return &g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, deadline, kind, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline,
		g.Kind, g.Status, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID, statuses ...goal.Status) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1`
	args := []any{userID}

	if len(statuses) > 0 {
		query += " AND status = ANY($2)"

		strs := make([]string, len(statuses))
		for i, st := range statuses {
			strs[i] = string(st)
		}

		args = append(args, strs)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goal rows: %w", err)
	}

	return goals, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, status = $5, updated_at = $6
		WHERE id = $7
	`

	_, err := s.db.ExecContext(ctx, query,
		g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Status, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	return nil
}
