package transaction_test

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

func TestNew(t *testing.T) {
	userID := uuid.New()
	yesterday := time.Now().Add(-24 * time.Hour)

	type args struct {
		amount      int64
		description string
		category    transaction.Category
		date        time.Time
		kind        transaction.Kind
	}

	tests := []struct {
		name       string
		args       args
		wantErr    bool
		validation bool
	}{
		{
			name: "ValidExpense",
			args: args{1000, "Weekly groceries", transaction.CategoryGroceries, yesterday, transaction.KindExpense},
		},
		{
			name: "ValidIncome",
			args: args{250000, "October salary", transaction.CategorySalary, yesterday, transaction.KindIncome},
		},
		{
			name:       "ZeroAmount",
			args:       args{0, "Weekly groceries", transaction.CategoryGroceries, yesterday, transaction.KindExpense},
			wantErr:    true,
			validation: true,
		},
		{
			name:       "NegativeAmount",
			args:       args{-500, "Weekly groceries", transaction.CategoryGroceries, yesterday, transaction.KindExpense},
			wantErr:    true,
			validation: true,
		},
		{
			name:       "DescriptionTooShort",
			args:       args{1000, "ab", transaction.CategoryGroceries, yesterday, transaction.KindExpense},
			wantErr:    true,
			validation: true,
		},
		{
			name:       "FutureDate",
			args:       args{1000, "Weekly groceries", transaction.CategoryGroceries, time.Now().Add(48 * time.Hour), transaction.KindExpense},
			wantErr:    true,
			validation: true,
		},
		{
			name:       "ExpenseCategoryOnIncome",
			args:       args{1000, "October salary", transaction.CategoryGroceries, yesterday, transaction.KindIncome},
			wantErr:    true,
			validation: true,
		},
		{
			name:       "IncomeCategoryOnExpense",
			args:       args{1000, "Weekly groceries", transaction.CategorySalary, yesterday, transaction.KindExpense},
			wantErr:    true,
			validation: true,
		},
		{
			name:       "UnknownCategory",
			args:       args{1000, "Weekly groceries", transaction.Category("crypto"), yesterday, transaction.KindExpense},
			wantErr:    true,
			validation: true,
		},
		{
			name:       "UnknownKind",
			args:       args{1000, "Weekly groceries", transaction.CategoryGroceries, yesterday, transaction.Kind("transfer")},
			wantErr:    true,
			validation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := transaction.New(userID, tt.args.amount, tt.args.description, tt.args.category, tt.args.date, tt.args.kind)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.validation, domain.IsValidation(err))
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, userID, got.UserID)
			assert.True(t, got.Active)
			assert.Equal(t, got.CreatedAt, got.UpdatedAt)
		})
	}
}

// Description length limits count characters, not bytes, so multibyte text
// gets the full 200 characters.
func TestTransaction_DescriptionLengthInRunes(t *testing.T) {
	userID := uuid.New()
	yesterday := time.Now().Add(-24 * time.Hour)

	// 150 characters but 300 bytes.
	long := strings.Repeat("é", 150)
	tx, err := transaction.New(userID, 1000, long, transaction.CategoryGroceries, yesterday, transaction.KindExpense)
	require.NoError(t, err)
	assert.Equal(t, long, tx.Description)

	_, err = transaction.New(userID, 1000, strings.Repeat("é", 201), transaction.CategoryGroceries, yesterday, transaction.KindExpense)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestTransaction_UpdatesRejectInactive(t *testing.T) {
	tx := newExpense(t, 1000)
	require.NoError(t, tx.Deactivate())

	assert.True(t, domain.IsState(tx.UpdateAmount(2000)))
	assert.True(t, domain.IsState(tx.UpdateDescription("New description")))
	assert.True(t, domain.IsState(tx.UpdateCategory(transaction.CategoryDining)))
	assert.Equal(t, int64(1000), tx.Amount)
}

func TestTransaction_UpdateBumpsUpdatedAtOnly(t *testing.T) {
	tx := newExpense(t, 1000)
	created := tx.CreatedAt

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, tx.UpdateAmount(2500))

	assert.Equal(t, int64(2500), tx.Amount)
	assert.Equal(t, created, tx.CreatedAt)
	assert.True(t, tx.UpdatedAt.After(created))
}

func TestTransaction_UpdateCategoryRevalidatesKind(t *testing.T) {
	tx := newExpense(t, 1000)

	err := tx.UpdateCategory(transaction.CategorySalary)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, transaction.CategoryGroceries, tx.Category)

	require.NoError(t, tx.UpdateCategory(transaction.CategoryDining))
	assert.Equal(t, transaction.CategoryDining, tx.Category)
}

func TestTransaction_DeactivateReactivate(t *testing.T) {
	tx := newExpense(t, 1000)

	require.NoError(t, tx.Deactivate())
	assert.False(t, tx.Active)
	assert.True(t, domain.IsState(tx.Deactivate()))

	require.NoError(t, tx.Reactivate())
	assert.True(t, tx.Active)
	assert.True(t, domain.IsState(tx.Reactivate()))
}

func TestTransaction_SignedAmount(t *testing.T) {
	expense := newExpense(t, 1000)
	assert.Equal(t, int64(-1000), expense.SignedAmount())

	income, err := transaction.New(uuid.New(), 2000, "October salary", transaction.CategorySalary, time.Now().Add(-time.Hour), transaction.KindIncome)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), income.SignedAmount())
}

func TestTransaction_AffectsBudget(t *testing.T) {
	expense := newExpense(t, 1000)
	assert.True(t, expense.AffectsBudget())

	require.NoError(t, expense.Deactivate())
	assert.False(t, expense.AffectsBudget())

	income, err := transaction.New(uuid.New(), 2000, "October salary", transaction.CategorySalary, time.Now().Add(-time.Hour), transaction.KindIncome)
	require.NoError(t, err)
	assert.False(t, income.AffectsBudget())
}

// The signed-sum balance of a set of transactions is a commutative reduction:
// any processing order yields the same total.
func TestSignedSum_OrderIndependent(t *testing.T) {
	userID := uuid.New()
	date := time.Now().Add(-time.Hour)

	txs := make([]*transaction.Transaction, 0, 20)

	for i := 0; i < 10; i++ {
		e, err := transaction.New(userID, int64(100*(i+1)), "Weekly groceries", transaction.CategoryGroceries, date, transaction.KindExpense)
		require.NoError(t, err)

		in, err := transaction.New(userID, int64(75*(i+1)), "Freelance invoice", transaction.CategoryFreelance, date, transaction.KindIncome)
		require.NoError(t, err)

		txs = append(txs, e, in)
	}

	sum := func(txs []*transaction.Transaction) int64 {
		var total int64
		for _, tx := range txs {
			total += tx.SignedAmount()
		}

		return total
	}

	want := sum(txs)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		rng.Shuffle(len(txs), func(a, b int) { txs[a], txs[b] = txs[b], txs[a] })
		assert.Equal(t, want, sum(txs))
	}
}

func newExpense(t *testing.T, amount int64) *transaction.Transaction {
	t.Helper()

	tx, err := transaction.New(uuid.New(), amount, "Weekly groceries", transaction.CategoryGroceries, time.Now().Add(-time.Hour), transaction.KindExpense)
	require.NoError(t, err)

	return tx
}
