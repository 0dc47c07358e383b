package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/ledger"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

func TestDefaultGoalEligibility(t *testing.T) {
	tests := []struct {
		name        string
		kind        transaction.Kind
		category    transaction.Category
		description string
		want        bool
	}{
		{
			name:        "SavingsCategory",
			kind:        transaction.KindIncome,
			category:    transaction.CategorySavings,
			description: "Monthly transfer",
			want:        true,
		},
		{
			name:        "InvestmentCategory",
			kind:        transaction.KindIncome,
			category:    transaction.CategoryInvestment,
			description: "Dividend payout",
			want:        true,
		},
		{
			name:        "SavingsKeyword",
			kind:        transaction.KindIncome,
			category:    transaction.CategorySalary,
			description: "Automatic Savings transfer",
			want:        true,
		},
		{
			name:        "ReserveKeyword",
			kind:        transaction.KindIncome,
			category:    transaction.CategorySalary,
			description: "topping up the reserve",
			want:        true,
		},
		{
			name:        "PlainSalary",
			kind:        transaction.KindIncome,
			category:    transaction.CategorySalary,
			description: "October paycheck",
			want:        false,
		},
		{
			name:        "ExpenseNeverEligible",
			kind:        transaction.KindExpense,
			category:    transaction.CategoryGroceries,
			description: "savings on groceries",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := transaction.New(uuid.New(), 1000, tt.description, tt.category, time.Now().Add(-time.Hour), tt.kind)
			require.NoError(t, err)

			assert.Equal(t, tt.want, ledger.DefaultGoalEligibility(tx))
		})
	}
}
