package ledger

import (
	"strings"

	"github.com/MrJamesThe3rd/kitty/internal/transaction"
)

// GoalEligibility decides whether an income transaction counts as a savings
// contribution and should feed the user's active goals. It is injectable
// because the default keyword heuristic is deliberately narrow.
type GoalEligibility func(t *transaction.Transaction) bool

var goalKeywords = []string{"savings", "goal", "reserve"}

// DefaultGoalEligibility matches income in the dedicated savings or
// investment categories, or whose description mentions one of a small set of
// savings keywords.
func DefaultGoalEligibility(t *transaction.Transaction) bool {
	if t.Kind != transaction.KindIncome {
		return false
	}

	if t.Category == transaction.CategorySavings || t.Category == transaction.CategoryInvestment {
		return true
	}

	description := strings.ToLower(t.Description)
	for _, keyword := range goalKeywords {
		if strings.Contains(description, keyword) {
			return true
		}
	}

	return false
}
