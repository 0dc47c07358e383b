package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
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

const budgetColumns = `id, user_id, category, limit_cents, period, period_start, period_end, current_spend, status, created_at, updated_at`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var categoryStr, periodStr, statusStr string

	if err := s.Scan(
		&b.ID, &b.UserID, &categoryStr, &b.Limit, &periodStr, &b.PeriodStart, &b.PeriodEnd,
		&b.CurrentSpend, &statusStr, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Category = transaction.Category(categoryStr)
	b.Period = budget.Period(periodStr)
	b.Status = budget.Status(statusStr)

	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (id, user_id, category, limit_cents, period, period_start, period_end, current_spend, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Category, b.Limit, b.Period, b.PeriodStart, b.PeriodEnd,
		b.CurrentSpend, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating budget: %w", err)
	}

	return nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) FindActiveByUserAndCategory(ctx context.Context, userID uuid.UUID, category transaction.Category) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets
		WHERE user_id = $1 AND category = $2 AND status != $3`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, userID, category, budget.StatusArchived))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("finding budget: %w", err)
	}

	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	return budgets, nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET limit_cents = $1, current_spend = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	_, err := s.db.ExecContext(ctx, query, b.Limit, b.CurrentSpend, b.Status, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("updating budget: %w", err)
	}

	return nil
}
