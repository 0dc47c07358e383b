package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID, statuses ...Status) ([]*Goal, error)
	UpdateGoal(ctx context.Context, g *Goal) error
}

// Service manages the goal lifecycle. Progress mutation is the ledger
// coordinators' job; pause, resume and cancel are explicit user actions.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name         string
	TargetAmount int64
	Deadline     time.Time
	Kind         Kind
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Goal, error) {
	g, err := New(userID, params.Name, params.TargetAmount, params.Deadline, params.Kind)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	return g, nil
}

// Get returns a goal after validating ownership, running the opportunistic
// overdue check first.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Goal, error) {
	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if g.UserID != userID {
		return nil, ErrNotFound
	}

	if g.CheckOverdue(time.Now()) {
		if err := s.repo.UpdateGoal(ctx, g); err != nil {
			return nil, fmt.Errorf("marking goal overdue: %w", err)
		}
	}

	return g, nil
}

// List returns the user's goals, optionally filtered by status.
func (s *Service) List(ctx context.Context, userID uuid.UUID, statuses ...Status) ([]*Goal, error) {
	return s.repo.ListGoals(ctx, userID, statuses...)
}

func (s *Service) Pause(ctx context.Context, id, userID uuid.UUID) error {
	return s.transition(ctx, id, userID, (*Goal).Pause)
}

func (s *Service) Resume(ctx context.Context, id, userID uuid.UUID) error {
	return s.transition(ctx, id, userID, (*Goal).Resume)
}

func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	return s.transition(ctx, id, userID, (*Goal).Cancel)
}

func (s *Service) transition(ctx context.Context, id, userID uuid.UUID, fn func(*Goal) error) error {
	g, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := fn(g); err != nil {
		return err
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	return nil
}
