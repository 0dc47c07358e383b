package budget_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

func TestNew(t *testing.T) {
	userID := uuid.New()

	t.Run("Valid", func(t *testing.T) {
		b, err := budget.New(userID, transaction.CategoryGroceries, 50000, budget.PeriodMonthly)
		require.NoError(t, err)

		assert.Equal(t, budget.StatusActive, b.Status)
		assert.Zero(t, b.CurrentSpend)
		assert.True(t, b.PeriodStart.Before(b.PeriodEnd))
	})

	t.Run("IncomeCategory", func(t *testing.T) {
		_, err := budget.New(userID, transaction.CategorySalary, 50000, budget.PeriodMonthly)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("NonPositiveLimit", func(t *testing.T) {
		_, err := budget.New(userID, transaction.CategoryGroceries, 0, budget.PeriodMonthly)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("UnknownPeriod", func(t *testing.T) {
		_, err := budget.New(userID, transaction.CategoryGroceries, 50000, budget.Period("quarterly"))
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})
}

// Status is a pure function of the spend/limit ratio: >=100% exceeded, >=80%
// near limit, otherwise active.
func TestBudget_StatusThresholds(t *testing.T) {
	b := newBudget(t, 50000)

	require.NoError(t, b.AddSpend(10000)) // 20%
	assert.Equal(t, int64(10000), b.CurrentSpend)
	assert.Equal(t, budget.StatusActive, b.Status)

	require.NoError(t, b.AddSpend(35000)) // 90%
	assert.Equal(t, int64(45000), b.CurrentSpend)
	assert.Equal(t, budget.StatusNearLimit, b.Status)

	require.NoError(t, b.AddSpend(10000)) // 110%
	assert.Equal(t, int64(55000), b.CurrentSpend)
	assert.Equal(t, budget.StatusExceeded, b.Status)

	require.NoError(t, b.RemoveSpend(15000)) // back to 80% exactly
	assert.Equal(t, budget.StatusNearLimit, b.Status)

	require.NoError(t, b.RemoveSpend(1)) // just below 80%
	assert.Equal(t, budget.StatusActive, b.Status)
}

func TestBudget_RemoveSpendClampsAtZero(t *testing.T) {
	b := newBudget(t, 50000)
	require.NoError(t, b.AddSpend(1000))

	require.NoError(t, b.RemoveSpend(5000))
	assert.Zero(t, b.CurrentSpend)
	assert.Equal(t, budget.StatusActive, b.Status)
}

func TestBudget_SpendDeltaMustBePositive(t *testing.T) {
	b := newBudget(t, 50000)

	assert.True(t, domain.IsValidation(b.AddSpend(0)))
	assert.True(t, domain.IsValidation(b.AddSpend(-100)))
	assert.True(t, domain.IsValidation(b.RemoveSpend(0)))
}

func TestBudget_UpdateLimitRecomputesStatus(t *testing.T) {
	b := newBudget(t, 50000)
	require.NoError(t, b.AddSpend(45000))
	require.Equal(t, budget.StatusNearLimit, b.Status)

	require.NoError(t, b.UpdateLimit(100000))
	assert.Equal(t, budget.StatusActive, b.Status)

	require.NoError(t, b.UpdateLimit(40000))
	assert.Equal(t, budget.StatusExceeded, b.Status)
}

func TestBudget_ArchiveIsTerminal(t *testing.T) {
	b := newBudget(t, 50000)
	require.NoError(t, b.Archive())

	assert.True(t, domain.IsState(b.Archive()))
	assert.True(t, domain.IsState(b.AddSpend(100)))
	assert.True(t, domain.IsState(b.RemoveSpend(100)))
	assert.True(t, domain.IsState(b.UpdateLimit(60000)))
	assert.Equal(t, budget.StatusArchived, b.Status)
}

func TestPeriod_Range(t *testing.T) {
	anchor := time.Date(2026, time.August, 26, 15, 30, 0, 0, time.UTC) // a Wednesday

	tests := []struct {
		name      string
		period    budget.Period
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "Monthly",
			period:    budget.PeriodMonthly,
			wantStart: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Weekly",
			period:    budget.PeriodWeekly,
			wantStart: time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Yearly",
			period:    budget.PeriodYearly,
			wantStart: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.period.Range(anchor)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestBudget_Expired(t *testing.T) {
	b := newBudget(t, 50000)

	assert.False(t, b.Expired(b.PeriodEnd.Add(-time.Minute)))
	assert.True(t, b.Expired(b.PeriodEnd))
	assert.True(t, b.Expired(b.PeriodEnd.Add(time.Hour)))
}

func newBudget(t *testing.T, limit int64) *budget.Budget {
	t.Helper()

	b, err := budget.New(uuid.New(), transaction.CategoryGroceries, limit, budget.PeriodMonthly)
	require.NoError(t, err)

	return b
}
