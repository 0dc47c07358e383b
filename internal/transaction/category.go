package transaction

// Category is an enum-like tag on a transaction. Every category is eligible
// for exactly one transaction kind: expense categories cannot appear on income
// transactions and vice versa.
type Category string

const (
	CategoryGroceries     Category = "groceries"
	CategoryDining        Category = "dining"
	CategoryTransport     Category = "transport"
	CategoryUtilities     Category = "utilities"
	CategoryRent          Category = "rent"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"

	CategorySalary     Category = "salary"
	CategoryFreelance  Category = "freelance"
	CategoryInvestment Category = "investment"
	CategorySavings    Category = "savings"
	CategoryGift       Category = "gift"
)

var categoryKinds = map[Category]Kind{
	CategoryGroceries:     KindExpense,
	CategoryDining:        KindExpense,
	CategoryTransport:     KindExpense,
	CategoryUtilities:     KindExpense,
	CategoryRent:          KindExpense,
	CategoryHealth:        KindExpense,
	CategoryEntertainment: KindExpense,
	CategoryShopping:      KindExpense,
	CategorySalary:        KindIncome,
	CategoryFreelance:     KindIncome,
	CategoryInvestment:    KindIncome,
	CategorySavings:       KindIncome,
	CategoryGift:          KindIncome,
}

// Kind returns the transaction kind this category is eligible for, and false
// if the category is unknown.
func (c Category) Kind() (Kind, bool) {
	k, ok := categoryKinds[c]
	return k, ok
}

// ExpenseEligible reports whether the category may appear on expense
// transactions, and therefore on budgets.
func (c Category) ExpenseEligible() bool {
	k, ok := categoryKinds[c]
	return ok && k == KindExpense
}
