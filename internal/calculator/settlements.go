package calculator

import (
	"math"
	"sort"

	"github.com/splitsms/splitsms/internal/models"
)

// epsilon is the floating-noise tolerance: a balance within epsilon of
// zero counts as settled.
const epsilon = 0.01

// CalculateSettlements computes a greedy sequence of payments that
// drives every balance to within epsilon of zero.
//
// Each step matches the largest creditor with the largest debtor and
// transfers the smaller of the two magnitudes, settling at least one of
// them. Ties are broken by name ascending, so the output is fully
// deterministic. N people with non-zero balances need at most N-1
// settlements.
func CalculateSettlements(balances []models.Balance) []models.Settlement {
	remaining := make(map[string]float64, len(balances))
	names := make([]string, 0, len(balances))
	for _, b := range balances {
		if _, ok := remaining[b.Person]; !ok {
			names = append(names, b.Person)
		}
		remaining[b.Person] = b.Amount
	}
	sort.Strings(names)

	var settlements []models.Settlement
	for anyUnsettled(remaining) {
		creditor, debtor := pickExtremes(names, remaining)
		if math.Abs(remaining[creditor]) < epsilon || math.Abs(remaining[debtor]) < epsilon {
			break
		}

		amount := math.Min(remaining[creditor], -remaining[debtor])
		settlements = append(settlements, models.Settlement{
			From:   debtor,
			To:     creditor,
			Amount: amount,
		})

		remaining[creditor] -= amount
		remaining[debtor] += amount
	}

	return settlements
}

func anyUnsettled(remaining map[string]float64) bool {
	for _, amount := range remaining {
		if math.Abs(amount) > epsilon {
			return true
		}
	}
	return false
}

// pickExtremes returns the current maximum and minimum balance holders.
// names is iterated in sorted order so equal balances resolve to the
// alphabetically first name.
func pickExtremes(names []string, remaining map[string]float64) (creditor, debtor string) {
	creditor, debtor = names[0], names[0]
	for _, name := range names[1:] {
		if remaining[name] > remaining[creditor] {
			creditor = name
		}
		if remaining[name] < remaining[debtor] {
			debtor = name
		}
	}
	return creditor, debtor
}
