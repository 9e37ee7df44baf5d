// Package calculator computes net balances from a list of expenses and a
// greedy minimal sequence of settlements that zeroes them.
package calculator

import (
	"sort"

	"github.com/splitsms/splitsms/internal/models"
)

// CalculateBalances computes each person's signed net position across
// all expenses. Positive means the group owes the person; negative means
// the person owes the group.
//
// Algorithm:
//   - every roster member plus Self starts at zero
//   - for each expense: the payer is credited the full amount, and each
//     person in the split is debited an equal share
//   - the payer may be in its own split, in which case it also carries a
//     share (net: amount minus one share)
//
// For expenses touching only roster members the balances sum to zero,
// modulo floating rounding. The result is sorted by balance descending,
// ties by name ascending.
func CalculateBalances(expenses []models.Expense, friends []string) []models.Balance {
	balances := make(map[string]float64, len(friends)+1)
	balances[models.Self] = 0
	for _, friend := range friends {
		balances[friend] = 0
	}

	for _, expense := range expenses {
		if len(expense.SplitBetween) == 0 {
			continue
		}
		share := expense.Amount / float64(len(expense.SplitBetween))

		balances[expense.PaidBy] += expense.Amount
		for _, person := range expense.SplitBetween {
			balances[person] -= share
		}
	}

	result := make([]models.Balance, 0, len(balances))
	for person, amount := range balances {
		result = append(result, models.Balance{Person: person, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Amount != result[j].Amount {
			return result[i].Amount > result[j].Amount
		}
		return result[i].Person < result[j].Person
	})

	return result
}
