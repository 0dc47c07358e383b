package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	FindActiveByUserAndCategory(ctx context.Context, userID uuid.UUID, category transaction.Category) (*Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	UpdateBudget(ctx context.Context, b *Budget) error
}

// Service manages the budget lifecycle: creation, limit changes and
// archiving. Spend mutation is the ledger coordinators' job.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a new budget for the period containing now. At most one
// non-archived budget may exist per user and category.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, category transaction.Category, limit int64, period Period) (*Budget, error) {
	b, err := New(userID, category, limit, period)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindActiveByUserAndCategory(ctx, userID, category)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking for existing budget: %w", err)
	}

	if existing != nil {
		return nil, domain.Statef("an active budget for category %q already exists", category)
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}

	return b, nil
}

// Get returns a budget after validating ownership.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Budget, error) {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, ErrNotFound
	}

	return b, nil
}

// List returns all budgets owned by the user.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, userID)
}

// UpdateLimit changes a budget's cap and persists the recomputed status.
func (s *Service) UpdateLimit(ctx context.Context, id, userID uuid.UUID, limit int64) (*Budget, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := b.UpdateLimit(limit); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("updating budget: %w", err)
	}

	return b, nil
}

// Archive ends a budget.
func (s *Service) Archive(ctx context.Context, id, userID uuid.UUID) error {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := b.Archive(); err != nil {
		return err
	}

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("archiving budget: %w", err)
	}

	return nil
}

// ArchiveExpired archives every budget of the user whose period has ended.
// Callers invoke it opportunistically; there is no background timer.
func (s *Service) ArchiveExpired(ctx context.Context, userID uuid.UUID) (int, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing budgets: %w", err)
	}

	now := time.Now().UTC()
	archived := 0

	for _, b := range budgets {
		if b.Status == StatusArchived || !b.Expired(now) {
			continue
		}

		if err := b.Archive(); err != nil {
			return archived, err
		}

		if err := s.repo.UpdateBudget(ctx, b); err != nil {
			return archived, fmt.Errorf("archiving budget %s: %w", b.ID, err)
		}

		archived++
	}

	return archived, nil
}
