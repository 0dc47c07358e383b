package budget

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

// Status represents the lifecycle state of a budget. Apart from Archived it is
// a pure function of CurrentSpend versus Limit.
type Status string

const (
	StatusActive    Status = "active"
	StatusNearLimit Status = "near_limit"
	StatusExceeded  Status = "exceeded"
	StatusArchived  Status = "archived"
)

// ErrNotFound is returned by stores when no budget matches the lookup.
var ErrNotFound = domain.Statef("budget not found")

// Budget is a spending cap for one expense category over one period.
// CurrentSpend is maintained incrementally by the ledger coordinators, never
// recomputed from the transaction set.
type Budget struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Category     transaction.Category
	Limit        int64 // cents
	Period       Period
	PeriodStart  time.Time
	PeriodEnd    time.Time
	CurrentSpend int64 // cents
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New validates all invariants and returns a budget covering the period that
// contains now.
func New(userID uuid.UUID, category transaction.Category, limit int64, period Period) (*Budget, error) {
	if !category.ExpenseEligible() {
		return nil, domain.Validationf("category %q is not an expense category", category)
	}

	if limit <= 0 {
		return nil, domain.Validationf("budget limit must be positive, got %d", limit)
	}

	if !period.Valid() {
		return nil, domain.Validationf("unknown budget period %q", period)
	}

	now := time.Now().UTC()
	start, end := period.Range(now)

	return &Budget{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    category,
		Limit:       limit,
		Period:      period,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddSpend records amount cents of additional spend against the budget.
func (b *Budget) AddSpend(amount int64) error {
	if err := b.checkMutable(amount); err != nil {
		return err
	}

	b.CurrentSpend += amount
	b.recomputeStatus()
	b.touch()

	return nil
}

// RemoveSpend reverses amount cents of previously recorded spend. The total is
// clamped at zero: a revert larger than the tracked spend is an anomaly the
// caller should log, not a reason to go negative.
func (b *Budget) RemoveSpend(amount int64) error {
	if err := b.checkMutable(amount); err != nil {
		return err
	}

	b.CurrentSpend -= amount
	if b.CurrentSpend < 0 {
		b.CurrentSpend = 0
	}

	b.recomputeStatus()
	b.touch()

	return nil
}

// UpdateLimit changes the cap and recomputes status against the new limit.
func (b *Budget) UpdateLimit(limit int64) error {
	if b.Status == StatusArchived {
		return domain.Statef("budget is archived")
	}

	if limit <= 0 {
		return domain.Validationf("budget limit must be positive, got %d", limit)
	}

	b.Limit = limit
	b.recomputeStatus()
	b.touch()

	return nil
}

// Archive ends the budget. Archived is terminal: every mutator rejects
// afterwards.
func (b *Budget) Archive() error {
	if b.Status == StatusArchived {
		return domain.Statef("budget is already archived")
	}

	b.Status = StatusArchived
	b.touch()

	return nil
}

// Expired reports whether the budget's period has ended.
func (b *Budget) Expired(now time.Time) bool {
	return !now.Before(b.PeriodEnd)
}

// Ratio returns spend as a fraction of the limit.
func (b *Budget) Ratio() float64 {
	return float64(b.CurrentSpend) / float64(b.Limit)
}

func (b *Budget) checkMutable(amount int64) error {
	if b.Status == StatusArchived {
		return domain.Statef("budget is archived")
	}

	if amount <= 0 {
		return domain.Validationf("spend delta must be positive, got %d", amount)
	}

	return nil
}

// recomputeStatus derives status from the spend/limit ratio: >=100% exceeded,
// >=80% near limit, otherwise active. Integer arithmetic so cent amounts
// compare exactly.
func (b *Budget) recomputeStatus() {
	switch {
	case b.CurrentSpend >= b.Limit:
		b.Status = StatusExceeded
	case b.CurrentSpend*5 >= b.Limit*4:
		b.Status = StatusNearLimit
	default:
		b.Status = StatusActive
	}
}

func (b *Budget) touch() {
	b.UpdatedAt = time.Now().UTC()
}
