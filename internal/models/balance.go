package models

// Balance is one person's signed net position across all expenses.
// Positive means the group owes this person money; negative means this
// person owes the group. Balances are derived, never persisted.
type Balance struct {
	Person string  `json:"person"`
	Amount float64 `json:"amount"`
}

// Settlement is a directed payment: From pays To the given amount to
// move both balances toward zero. Settlements are derived, never persisted.
type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
