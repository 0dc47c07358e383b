package transaction

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
)

// Kind represents the direction of a transaction (income or expense).
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

const (
	minDescriptionLen = 3
	maxDescriptionLen = 200
)

// ErrNotFound is returned by stores when no transaction matches the lookup.
var ErrNotFound = domain.Statef("transaction not found")

// Transaction represents a financial transaction owned by one user. Identity
// and CreatedAt are immutable; amount, description and category may change
// while the transaction is active. Soft deletion flips Active instead of
// removing the record, preserving the audit trail.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      int64 // Amount in cents, always positive
	Description string
	Category    Category
	Date        time.Time
	Kind        Kind
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New validates all invariants and returns a new active transaction.
func New(userID uuid.UUID, amount int64, description string, category Category, date time.Time, kind Kind) (*Transaction, error) {
	if kind != KindIncome && kind != KindExpense {
		return nil, domain.Validationf("unknown transaction kind %q", kind)
	}

	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	if err := validateDescription(description); err != nil {
		return nil, err
	}

	if err := validateCategory(category, kind); err != nil {
		return nil, err
	}

	if date.After(time.Now()) {
		return nil, domain.Validationf("transaction date cannot be in the future")
	}

	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Category:    category,
		Date:        date,
		Kind:        kind,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateAmount changes the amount of an active transaction.
func (t *Transaction) UpdateAmount(amount int64) error {
	if !t.Active {
		return domain.Statef("cannot update an inactive transaction")
	}

	if err := validateAmount(amount); err != nil {
		return err
	}

	t.Amount = amount
	t.touch()

	return nil
}

// UpdateDescription changes the description of an active transaction.
func (t *Transaction) UpdateDescription(description string) error {
	if !t.Active {
		return domain.Statef("cannot update an inactive transaction")
	}

	if err := validateDescription(description); err != nil {
		return err
	}

	t.Description = strings.TrimSpace(description)
	t.touch()

	return nil
}

// UpdateCategory changes the category of an active transaction. The new
// category is re-validated against the transaction's kind.
func (t *Transaction) UpdateCategory(category Category) error {
	if !t.Active {
		return domain.Statef("cannot update an inactive transaction")
	}

	if err := validateCategory(category, t.Kind); err != nil {
		return err
	}

	t.Category = category
	t.touch()

	return nil
}

// Deactivate soft-deletes the transaction.
func (t *Transaction) Deactivate() error {
	if !t.Active {
		return domain.Statef("transaction is already inactive")
	}

	t.Active = false
	t.touch()

	return nil
}

// Reactivate re-admits a soft-deleted transaction to downstream totals.
func (t *Transaction) Reactivate() error {
	if t.Active {
		return domain.Statef("transaction is already active")
	}

	t.Active = true
	t.touch()

	return nil
}

// SignedAmount returns +amount for income and -amount for expenses.
func (t *Transaction) SignedAmount() int64 {
	if t.Kind == KindExpense {
		return -t.Amount
	}

	return t.Amount
}

// AffectsBudget reports whether this transaction contributes to budget spend.
func (t *Transaction) AffectsBudget() bool {
	return t.Active && t.Kind == KindExpense
}

func (t *Transaction) touch() {
	t.UpdatedAt = time.Now().UTC()
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return domain.Validationf("amount must be positive, got %d", amount)
	}

	return nil
}

func validateDescription(description string) error {
	length := utf8.RuneCountInString(strings.TrimSpace(description))
	if length < minDescriptionLen {
		return domain.Validationf("description must be at least %d characters", minDescriptionLen)
	}

	if length > maxDescriptionLen {
		return domain.Validationf("description must be at most %d characters", maxDescriptionLen)
	}

	return nil
}

func validateCategory(category Category, kind Kind) error {
	categoryKind, ok := category.Kind()
	if !ok {
		return domain.Validationf("unknown category %q", category)
	}

	if categoryKind != kind {
		return domain.Validationf("category %q cannot be used on %s transactions", category, kind)
	}

	return nil
}
