package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
	"github.com/MrJamesThe3rd/kitty/internal/ledger"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

// Store implements ledger.Repository on Postgres. Units of work are database
// transactions holding a per-user advisory lock, so coordinator calls for the
// same user are fully serialized and incremental budget/goal totals cannot be
// lost to interleaved writes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return getTransaction(ctx, s.db, id)
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter ledger.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}
	argIdx := 2

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", argIdx)

		args = append(args, *filter.Active)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

// userLockKey derives the advisory lock key for a user's unit of work.
func userLockKey(userID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(userID[:])

	return int64(h.Sum64())
}

func (s *Store) Begin(ctx context.Context, userID uuid.UUID) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning unit of work: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", userLockKey(userID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring user lock: %w", err)
	}

	return &ledgerTx{tx: dbTx}, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (l *ledgerTx) Commit() error   { return l.tx.Commit() }
func (l *ledgerTx) Rollback() error { return l.tx.Rollback() }

func (l *ledgerTx) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return getTransaction(ctx, l.tx, id)
}

func (l *ledgerTx) SaveTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, description, category, date, kind, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			amount = EXCLUDED.amount,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`

	_, err := l.tx.ExecContext(ctx, query,
		t.ID, t.UserID, t.Amount, t.Description, t.Category, t.Date, t.Kind, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}

	return nil
}

func (l *ledgerTx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := l.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (l *ledgerTx) FindActiveBudget(ctx context.Context, userID uuid.UUID, category transaction.Category) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets
		WHERE user_id = $1 AND category = $2 AND status != $3`

	b, err := scanBudget(l.tx.QueryRowContext(ctx, query, userID, category, budget.StatusArchived))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("finding budget: %w", err)
	}

	return b, nil
}

func (l *ledgerTx) SaveBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET limit_cents = $1, current_spend = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	_, err := l.tx.ExecContext(ctx, query, b.Limit, b.CurrentSpend, b.Status, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}

	return nil
}

func (l *ledgerTx) GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(l.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (l *ledgerTx) ListGoals(ctx context.Context, userID uuid.UUID, statuses ...goal.Status) ([]*goal.Goal, error) {
	return listGoals(ctx, l.tx, userID, statuses...)
}

func (l *ledgerTx) ListContributions(ctx context.Context, transactionID uuid.UUID) ([]ledger.Contribution, error) {
	query := `SELECT transaction_id, goal_id, amount FROM goal_contributions WHERE transaction_id = $1`

	rows, err := l.tx.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer rows.Close()

	var contributions []ledger.Contribution

	for rows.Next() {
		var c ledger.Contribution
		if err := rows.Scan(&c.TransactionID, &c.GoalID, &c.Amount); err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}

		contributions = append(contributions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contribution rows: %w", err)
	}

	return contributions, nil
}

func (l *ledgerTx) SaveContribution(ctx context.Context, c ledger.Contribution) error {
	query := `
		INSERT INTO goal_contributions (transaction_id, goal_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (transaction_id, goal_id) DO UPDATE SET amount = EXCLUDED.amount
	`

	if _, err := l.tx.ExecContext(ctx, query, c.TransactionID, c.GoalID, c.Amount); err != nil {
		return fmt.Errorf("saving contribution: %w", err)
	}

	return nil
}

func (l *ledgerTx) DeleteContributions(ctx context.Context, transactionID uuid.UUID) error {
	if _, err := l.tx.ExecContext(ctx, `DELETE FROM goal_contributions WHERE transaction_id = $1`, transactionID); err != nil {
		return fmt.Errorf("deleting contributions: %w", err)
	}

	return nil
}

func (l *ledgerTx) SaveGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET current_amount = $1, status = $2, updated_at = $3
		WHERE id = $4
	`

	_, err := l.tx.ExecContext(ctx, query, g.CurrentAmount, g.Status, g.UpdatedAt, g.ID)
	if err != nil {
		return fmt.Errorf("saving goal: %w", err)
	}

	return nil
}

const transactionColumns = `id, user_id, amount, description, category, date, kind, active, created_at, updated_at`

func getTransaction(ctx context.Context, q querier, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var t transaction.Transaction

	var kindStr, categoryStr string

	if err := s.Scan(
		&t.ID, &t.UserID, &t.Amount, &t.Description, &categoryStr, &t.Date,
		&kindStr, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Kind = transaction.Kind(kindStr)
	t.Category = transaction.Category(categoryStr)

	return &t, nil
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

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, kind, status, created_at, updated_at`

func listGoals(ctx context.Context, q querier, userID uuid.UUID, statuses ...goal.Status) ([]*goal.Goal, error) {
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

	rows, err := q.QueryContext(ctx, query, args...)
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
