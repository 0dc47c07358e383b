// Package ledger coordinates transaction mutations with the derived
// budget-spend and goal-progress totals. Budgets and goals never see
// transactions; they only receive signed deltas from the coordinators here,
// and every coordinator call runs as one atomic unit of work.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
	"github.com/MrJamesThe3rd/kitty/internal/user"
)

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=ledger
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*transaction.Transaction, error)

	// Begin opens a unit of work serialized per user: concurrent coordinator
	// calls touching the same user's budgets and goals never interleave.
	Begin(ctx context.Context, userID uuid.UUID) (Tx, error)
}

// Tx is a transactional view of the stores. All reads and writes inside one
// coordinator call go through a single Tx, so partial states (effect reverted
// but not yet reapplied) are never visible outside it.
type Tx interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	SaveTransaction(ctx context.Context, t *transaction.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	FindActiveBudget(ctx context.Context, userID uuid.UUID, category transaction.Category) (*budget.Budget, error)
	SaveBudget(ctx context.Context, b *budget.Budget) error

	GetGoal(ctx context.Context, id uuid.UUID) (*goal.Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID, statuses ...goal.Status) ([]*goal.Goal, error)
	SaveGoal(ctx context.Context, g *goal.Goal) error

	ListContributions(ctx context.Context, transactionID uuid.UUID) ([]Contribution, error)
	SaveContribution(ctx context.Context, c Contribution) error
	DeleteContributions(ctx context.Context, transactionID uuid.UUID) error

	Commit() error
	Rollback() error
}

// Contribution records the exact progress one transaction added to one goal.
// Reverts and reactivations operate on these records rather than inferring
// the affected goals from their current status, so a goal that completed,
// paused or went overdue after receiving progress still gives back exactly
// what it received, and goals that never received anything are never touched.
type Contribution struct {
	TransactionID uuid.UUID
	GoalID        uuid.UUID
	Amount        int64
}

// Notifier receives threshold and completion events. Calls are fire-and-forget
// and run after the unit of work commits; a failing notifier never rolls a
// coordinator call back.
type Notifier interface {
	NearLimit(ctx context.Context, b *budget.Budget)
	Exceeded(ctx context.Context, b *budget.Budget)
	GoalReached(ctx context.Context, g *goal.Goal)
}

type Service struct {
	users    user.Repository
	repo     Repository
	notifier Notifier
	eligible GoalEligibility
}

// NewService wires the coordinators. A nil eligible falls back to
// DefaultGoalEligibility.
func NewService(users user.Repository, repo Repository, notifier Notifier, eligible GoalEligibility) *Service {
	if eligible == nil {
		eligible = DefaultGoalEligibility
	}

	return &Service{
		users:    users,
		repo:     repo,
		notifier: notifier,
		eligible: eligible,
	}
}

type CreateParams struct {
	Amount      int64
	Description string
	Category    transaction.Category
	Date        time.Time
	Kind        transaction.Kind
}

type UpdateParams struct {
	Amount      *int64
	Description *string
	Category    *transaction.Category
}

type ListFilter struct {
	Kind      *transaction.Kind
	Category  *transaction.Category
	Active    *bool
	StartDate *time.Time
	EndDate   *time.Time
}

// CreateTransaction validates the user and the fields, persists the new
// transaction and applies its effect to the matching budget and the user's
// active goals.
func (s *Service) CreateTransaction(ctx context.Context, userID uuid.UUID, params CreateParams) (*transaction.Transaction, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	t, err := transaction.New(userID, params.Amount, params.Description, params.Category, params.Date, params.Kind)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("beginning unit of work: %w", err)
	}
	defer tx.Rollback()

	if err := tx.SaveTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}

	notes, err := s.applyEffect(ctx, tx, t)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing unit of work: %w", err)
	}

	s.fire(ctx, notes)

	return t, nil
}

// UpdateTransaction edits an active transaction's amount, description or
// category. The transaction's current effect is reverted before the mutation
// and its new effect reapplied after it, all inside one unit of work, so
// derived totals end up exactly as if the transaction had always held the new
// values.
func (s *Service) UpdateTransaction(ctx context.Context, id, userID uuid.UUID, params UpdateParams) (*transaction.Transaction, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("beginning unit of work: %w", err)
	}
	defer tx.Rollback()

	t, err := s.getOwned(ctx, tx, id, userID)
	if err != nil {
		return nil, err
	}

	if !t.Active {
		return nil, domain.Statef("cannot update an inactive transaction")
	}

	if err := s.revertEffect(ctx, tx, t); err != nil {
		return nil, err
	}

	if err := tx.DeleteContributions(ctx, t.ID); err != nil {
		return nil, fmt.Errorf("clearing contributions: %w", err)
	}

	if params.Amount != nil {
		if err := t.UpdateAmount(*params.Amount); err != nil {
			return nil, err
		}
	}

	if params.Description != nil {
		if err := t.UpdateDescription(*params.Description); err != nil {
			return nil, err
		}
	}

	if params.Category != nil {
		if err := t.UpdateCategory(*params.Category); err != nil {
			return nil, err
		}
	}

	if err := tx.SaveTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}

	notes, err := s.applyEffect(ctx, tx, t)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing unit of work: %w", err)
	}

	s.fire(ctx, notes)

	return t, nil
}

// DeleteTransaction soft-deletes: the transaction's current effect is
// reverted and the record kept with Active=false, preserving the audit trail.
func (s *Service) DeleteTransaction(ctx context.Context, id, userID uuid.UUID) error {
	return s.remove(ctx, id, userID, false)
}

// HardDeleteTransaction reverts the effect and removes the record physically.
// Administrative cleanup only; soft delete is the user-facing action.
func (s *Service) HardDeleteTransaction(ctx context.Context, id, userID uuid.UUID) error {
	return s.remove(ctx, id, userID, true)
}

func (s *Service) remove(ctx context.Context, id, userID uuid.UUID, hard bool) error {
	if err := s.checkUser(ctx, userID); err != nil {
		return err
	}

	tx, err := s.repo.Begin(ctx, userID)
	if err != nil {
		return fmt.Errorf("beginning unit of work: %w", err)
	}
	defer tx.Rollback()

	t, err := s.getOwned(ctx, tx, id, userID)
	if err != nil {
		return err
	}

	// Inactive transactions have no live effect, so hard delete is pure
	// cleanup; soft-deleting twice is still an error.
	if !t.Active && !hard {
		return domain.Statef("transaction is already inactive")
	}

	if t.Active {
		if err := s.revertEffect(ctx, tx, t); err != nil {
			return err
		}
	}

	if hard {
		if err := tx.DeleteContributions(ctx, t.ID); err != nil {
			return fmt.Errorf("clearing contributions: %w", err)
		}

		if err := tx.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("deleting transaction: %w", err)
		}
	} else {
		// Contribution records survive the soft delete so a later
		// reactivation rebuilds goal progress exactly.
		if err := t.Deactivate(); err != nil {
			return err
		}

		if err := tx.SaveTransaction(ctx, t); err != nil {
			return fmt.Errorf("saving transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing unit of work: %w", err)
	}

	return nil
}

// ReactivateTransaction is the exact inverse of a soft delete: the record is
// re-admitted and its effect reapplied, restoring budget spend and goal
// progress to their pre-delete values.
func (s *Service) ReactivateTransaction(ctx context.Context, id, userID uuid.UUID) (*transaction.Transaction, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("beginning unit of work: %w", err)
	}
	defer tx.Rollback()

	t, err := s.getOwned(ctx, tx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := t.Reactivate(); err != nil {
		return nil, err
	}

	if err := tx.SaveTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}

	notes, err := s.restoreEffect(ctx, tx, t)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing unit of work: %w", err)
	}

	s.fire(ctx, notes)

	return t, nil
}

// GetTransaction returns one transaction after validating ownership.
func (s *Service) GetTransaction(ctx context.Context, id, userID uuid.UUID) (*transaction.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.UserID != userID {
		return nil, transaction.ErrNotFound
	}

	return t, nil
}

// ListTransactions returns the user's transactions matching the filter.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*transaction.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

// applyEffect adds the transaction's contribution to the matching budget and,
// for goal-eligible income, to every active goal, recording a Contribution
// per goal touched. It returns the notifications to fire once the unit of
// work commits.
func (s *Service) applyEffect(ctx context.Context, tx Tx, t *transaction.Transaction) ([]func(context.Context), error) {
	var notes []func(context.Context)

	note, err := s.applyBudget(ctx, tx, t)
	if err != nil {
		return nil, err
	}

	if note != nil {
		notes = append(notes, note)
	}

	if t.Active && s.eligible(t) {
		goals, err := tx.ListGoals(ctx, t.UserID, goal.StatusActive)
		if err != nil {
			return nil, fmt.Errorf("listing active goals: %w", err)
		}

		now := time.Now()

		for _, g := range goals {
			if g.CheckOverdue(now) {
				if err := tx.SaveGoal(ctx, g); err != nil {
					return nil, fmt.Errorf("saving goal: %w", err)
				}

				continue
			}

			if err := g.AddProgress(t.Amount); err != nil {
				return nil, err
			}

			if err := tx.SaveGoal(ctx, g); err != nil {
				return nil, fmt.Errorf("saving goal: %w", err)
			}

			contribution := Contribution{TransactionID: t.ID, GoalID: g.ID, Amount: t.Amount}
			if err := tx.SaveContribution(ctx, contribution); err != nil {
				return nil, fmt.Errorf("recording contribution: %w", err)
			}

			if g.Status == goal.StatusCompleted {
				reached := g
				notes = append(notes, func(ctx context.Context) { s.notifier.GoalReached(ctx, reached) })
			}
		}
	}

	return notes, nil
}

// revertEffect removes the transaction's current contribution from the
// matching budget and gives back exactly the recorded per-goal contributions,
// whatever status those goals hold now. Callers decide whether the records
// survive the revert: updates and hard deletes clear them, soft deletes keep
// them for reactivation.
func (s *Service) revertEffect(ctx context.Context, tx Tx, t *transaction.Transaction) error {
	if t.AffectsBudget() {
		b, err := s.findBudget(ctx, tx, t)
		if err != nil {
			return err
		}

		if b != nil {
			if t.Amount > b.CurrentSpend {
				slog.WarnContext(ctx, "spend revert exceeds tracked total, clamping at zero",
					"budget_id", b.ID, "transaction_id", t.ID,
					"revert", t.Amount, "current_spend", b.CurrentSpend)
			}

			if err := b.RemoveSpend(t.Amount); err != nil {
				return err
			}

			if err := tx.SaveBudget(ctx, b); err != nil {
				return fmt.Errorf("saving budget: %w", err)
			}
		}
	}

	contributions, err := tx.ListContributions(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("listing contributions: %w", err)
	}

	for _, c := range contributions {
		g, err := tx.GetGoal(ctx, c.GoalID)
		if err != nil {
			return fmt.Errorf("loading goal: %w", err)
		}

		if g.Status == goal.StatusCancelled {
			slog.WarnContext(ctx, "skipping progress revert on cancelled goal",
				"goal_id", g.ID, "transaction_id", t.ID, "revert", c.Amount)

			continue
		}

		if c.Amount > g.CurrentAmount {
			slog.WarnContext(ctx, "progress revert exceeds tracked total, clamping at zero",
				"goal_id", g.ID, "transaction_id", t.ID,
				"revert", c.Amount, "current_amount", g.CurrentAmount)
		}

		if err := g.RemoveProgress(c.Amount); err != nil {
			return err
		}

		if err := tx.SaveGoal(ctx, g); err != nil {
			return fmt.Errorf("saving goal: %w", err)
		}
	}

	return nil
}

// restoreEffect is the inverse of a soft delete's revert: the budget effect
// is reapplied from the transaction and goal progress is rebuilt from the
// contribution records kept through the delete, so goals that completed or
// went overdue in the meantime still recover their exact pre-delete totals.
func (s *Service) restoreEffect(ctx context.Context, tx Tx, t *transaction.Transaction) ([]func(context.Context), error) {
	var notes []func(context.Context)

	note, err := s.applyBudget(ctx, tx, t)
	if err != nil {
		return nil, err
	}

	if note != nil {
		notes = append(notes, note)
	}

	contributions, err := tx.ListContributions(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}

	for _, c := range contributions {
		g, err := tx.GetGoal(ctx, c.GoalID)
		if err != nil {
			return nil, fmt.Errorf("loading goal: %w", err)
		}

		if g.Status == goal.StatusCancelled {
			slog.WarnContext(ctx, "skipping progress restore on cancelled goal",
				"goal_id", g.ID, "transaction_id", t.ID, "restore", c.Amount)

			continue
		}

		prev := g.Status

		if err := g.RestoreProgress(c.Amount); err != nil {
			return nil, err
		}

		if err := tx.SaveGoal(ctx, g); err != nil {
			return nil, fmt.Errorf("saving goal: %w", err)
		}

		if prev != goal.StatusCompleted && g.Status == goal.StatusCompleted {
			reached := g
			notes = append(notes, func(ctx context.Context) { s.notifier.GoalReached(ctx, reached) })
		}
	}

	return notes, nil
}

func (s *Service) applyBudget(ctx context.Context, tx Tx, t *transaction.Transaction) (func(context.Context), error) {
	if !t.AffectsBudget() {
		return nil, nil
	}

	b, err := s.findBudget(ctx, tx, t)
	if err != nil || b == nil {
		return nil, err
	}

	prev := b.Status

	if err := b.AddSpend(t.Amount); err != nil {
		return nil, err
	}

	if err := tx.SaveBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("saving budget: %w", err)
	}

	return thresholdNote(s.notifier, prev, b), nil
}

func (s *Service) findBudget(ctx context.Context, tx Tx, t *transaction.Transaction) (*budget.Budget, error) {
	b, err := tx.FindActiveBudget(ctx, t.UserID, t.Category)
	if err != nil {
		if errors.Is(err, budget.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding budget: %w", err)
	}

	return b, nil
}

func (s *Service) getOwned(ctx context.Context, tx Tx, id, userID uuid.UUID) (*transaction.Transaction, error) {
	t, err := tx.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.UserID != userID {
		return nil, transaction.ErrNotFound
	}

	return t, nil
}

func (s *Service) checkUser(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !u.IsActive() {
		return domain.Statef("user account is inactive")
	}

	return nil
}

func (s *Service) fire(ctx context.Context, notes []func(context.Context)) {
	for _, note := range notes {
		note(ctx)
	}
}

// thresholdNote returns the notification for a status threshold crossed by
// the latest spend, or nil if none was crossed.
func thresholdNote(n Notifier, prev budget.Status, b *budget.Budget) func(context.Context) {
	if b.Status == prev {
		return nil
	}

	switch b.Status {
	case budget.StatusExceeded:
		return func(ctx context.Context) { n.Exceeded(ctx, b) }
	case budget.StatusNearLimit:
		return func(ctx context.Context) { n.NearLimit(ctx, b) }
	}

	return nil
}
