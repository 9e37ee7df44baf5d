package parser

import (
	"strings"

	"github.com/splitsms/splitsms/internal/models"
)

// incomingKeywords signal money received by the account owner.
var incomingKeywords = []string{
	"credited to", "credited in", "credited",
	"received from", "received in", "received",
	"refund", "refunded", "cashback",
	"you received", "got money", "incoming",
	"deposited", "deposit to",
}

// outgoingKeywords signal money paid out.
var outgoingKeywords = []string{
	"debited from", "debited",
	"paid to", "paid for", "paid",
	"sent to", "sent",
	"transferred to", "transferred",
	"you paid", "you sent",
	"purchase", "withdrawn", "spent",
}

// detectTransactionType classifies a message as INCOMING or OUTGOING by
// counting which keywords from each set appear in the lower-cased text.
// The default, including on ties, is OUTGOING. The second branch below is
// implied by the first; the asymmetric rule is kept as-is because callers
// depend on OUTGOING winning every tie.
func detectTransactionType(text string) models.TransactionType {
	lower := strings.ToLower(text)

	incoming := countKeywords(lower, incomingKeywords)
	outgoing := countKeywords(lower, outgoingKeywords)

	switch {
	case incoming > outgoing:
		return models.Incoming
	case incoming > 0 && outgoing == 0:
		return models.Incoming
	default:
		return models.Outgoing
	}
}

// countKeywords returns how many of the given keywords occur in text.
// Each keyword counts at most once regardless of repetitions.
func countKeywords(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}
