package goal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
)

// Status represents the lifecycle state of a savings goal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

// Kind categorizes what the goal is saving towards.
type Kind string

const (
	KindSavings       Kind = "savings"
	KindEmergencyFund Kind = "emergency_fund"
	KindPurchase      Kind = "purchase"
	KindTravel        Kind = "travel"
)

// ErrNotFound is returned by stores when no goal matches the lookup.
var ErrNotFound = domain.Statef("goal not found")

// Goal is a savings target with incrementally tracked progress. Progress is
// mutated only through AddProgress/RemoveProgress; completion and reversion
// checks run after every mutation.
type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	TargetAmount  int64 // cents
	CurrentAmount int64 // cents
	Deadline      time.Time
	Kind          Kind
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New validates all invariants and returns a new active goal.
func New(userID uuid.UUID, name string, target int64, deadline time.Time, kind Kind) (*Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validationf("goal name is required")
	}

	if target <= 0 {
		return nil, domain.Validationf("goal target must be positive, got %d", target)
	}

	switch kind {
	case KindSavings, KindEmergencyFund, KindPurchase, KindTravel:
	default:
		return nil, domain.Validationf("unknown goal kind %q", kind)
	}

	if !deadline.After(time.Now()) {
		return nil, domain.Validationf("goal deadline must be in the future")
	}

	now := time.Now().UTC()

	return &Goal{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		TargetAmount: target,
		Deadline:     deadline,
		Kind:         kind,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AddProgress records a contribution towards the goal. Only active goals
// accept contributions. Reaching the target transitions the goal to
// completed; the amount is kept as-is, so CurrentAmount may exceed the target
// on the completing contribution.
func (g *Goal) AddProgress(amount int64) error {
	if amount <= 0 {
		return domain.Validationf("progress delta must be positive, got %d", amount)
	}

	if g.Status != StatusActive {
		return domain.Statef("goal is %s, not active", g.Status)
	}

	g.CurrentAmount += amount
	if g.CurrentAmount >= g.TargetAmount {
		g.Status = StatusCompleted
	}

	g.touch()

	return nil
}

// RemoveProgress reverses a prior contribution. Unlike AddProgress it is
// permitted on any non-cancelled goal: a goal that completed, paused or went
// overdue after receiving progress must still give the contribution back when
// its transaction is reverted. Dropping a completed goal back below the
// target reverts it to active. The total is clamped at zero.
func (g *Goal) RemoveProgress(amount int64) error {
	if amount <= 0 {
		return domain.Validationf("progress delta must be positive, got %d", amount)
	}

	if g.Status == StatusCancelled {
		return domain.Statef("goal is cancelled")
	}

	g.CurrentAmount -= amount
	if g.CurrentAmount < 0 {
		g.CurrentAmount = 0
	}

	if g.Status == StatusCompleted && g.CurrentAmount < g.TargetAmount {
		g.Status = StatusActive
	}

	g.touch()

	return nil
}

// RestoreProgress re-adds a previously reverted contribution. Unlike
// AddProgress it is permitted on completed, paused and overdue goals, so
// reactivating a soft-deleted transaction rebuilds the total exactly no
// matter what the goal did in the meantime. Completion still only triggers
// from active.
func (g *Goal) RestoreProgress(amount int64) error {
	if amount <= 0 {
		return domain.Validationf("progress delta must be positive, got %d", amount)
	}

	if g.Status == StatusCancelled {
		return domain.Statef("goal is cancelled")
	}

	g.CurrentAmount += amount
	if g.Status == StatusActive && g.CurrentAmount >= g.TargetAmount {
		g.Status = StatusCompleted
	}

	g.touch()

	return nil
}

// Pause suspends an active goal.
func (g *Goal) Pause() error {
	if g.Status != StatusActive {
		return domain.Statef("only active goals can be paused, goal is %s", g.Status)
	}

	g.Status = StatusPaused
	g.touch()

	return nil
}

// Resume reactivates a paused goal.
func (g *Goal) Resume() error {
	if g.Status != StatusPaused {
		return domain.Statef("only paused goals can be resumed, goal is %s", g.Status)
	}

	g.Status = StatusActive
	g.touch()

	return nil
}

// Cancel abandons the goal. Completed goals cannot be cancelled.
func (g *Goal) Cancel() error {
	if g.Status == StatusCompleted {
		return domain.Statef("completed goals cannot be cancelled")
	}

	if g.Status == StatusCancelled {
		return domain.Statef("goal is already cancelled")
	}

	g.Status = StatusCancelled
	g.touch()

	return nil
}

// CheckOverdue transitions an active goal past its deadline to overdue. There
// is no background timer; callers invoke this opportunistically on access and
// mutation. Returns true if the status changed.
func (g *Goal) CheckOverdue(now time.Time) bool {
	if g.Status != StatusActive || now.Before(g.Deadline) {
		return false
	}

	g.Status = StatusOverdue
	g.touch()

	return true
}

func (g *Goal) touch() {
	g.UpdatedAt = time.Now().UTC()
}
