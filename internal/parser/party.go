package parser

import (
	"strings"

	"github.com/splitsms/splitsms/internal/models"
)

// selfPaymentPhrases force the payer to Self for outgoing messages.
// They are checked before any roster scan.
var selfPaymentPhrases = []string{
	"debited", "you sent", "you paid",
	"your payment", "your account", "withdrawn from",
	"i paid", "i spent",
}

// everyonePhrases expand the split to the full roster plus Self.
var everyonePhrases = []string{
	"all of us", "everyone", "split between all", "split equally",
}

// detectPayer resolves the counterparty of a transaction.
//
// For INCOMING messages the sender is the first roster member that
// appears as "from {name}", "{name} sent" or "{name} paid", in roster
// order; otherwise "Unknown". For OUTGOING messages self-payment phrases
// win first, then the first roster member followed by "paid" or "spent";
// the default is Self.
func detectPayer(text string, friends []string, txType models.TransactionType) string {
	lower := strings.ToLower(text)

	if txType == models.Incoming {
		for _, friend := range friends {
			name := strings.ToLower(friend)
			if strings.Contains(lower, "from "+name) ||
				strings.Contains(lower, name+" sent") ||
				strings.Contains(lower, name+" paid") {
				return friend
			}
		}
		return "Unknown"
	}

	for _, phrase := range selfPaymentPhrases {
		if strings.Contains(lower, phrase) {
			return models.Self
		}
	}

	for _, friend := range friends {
		name := strings.ToLower(friend)
		if strings.Contains(lower, name+" paid") || strings.Contains(lower, name+" spent") {
			return friend
		}
	}

	return models.Self
}

// detectSplitBetween resolves who shares the transaction.
//
// INCOMING money benefits only Self. For OUTGOING payments an
// everyone-phrase selects the full roster plus Self; otherwise every
// roster member mentioned anywhere in the text is included, the payer is
// added when the text says "me and"/"myself and", and an empty result
// defaults to just the payer.
func detectSplitBetween(text string, friends []string, paidBy string, txType models.TransactionType) []string {
	if txType == models.Incoming {
		return []string{models.Self}
	}

	lower := strings.ToLower(text)

	for _, phrase := range everyonePhrases {
		if strings.Contains(lower, phrase) {
			split := []string{models.Self}
			return appendUnique(split, friends...)
		}
	}

	var split []string
	for _, friend := range friends {
		if strings.Contains(lower, strings.ToLower(friend)) {
			split = appendUnique(split, friend)
		}
	}

	if strings.Contains(lower, "me and") ||
		strings.Contains(lower, "for me and") ||
		strings.Contains(lower, "myself and") {
		split = appendUnique(split, paidBy)
	}

	if len(split) == 0 {
		split = []string{paidBy}
	}

	return split
}

// appendUnique appends names not already present, preserving order.
func appendUnique(split []string, names ...string) []string {
	for _, name := range names {
		seen := false
		for _, existing := range split {
			if existing == name {
				seen = true
				break
			}
		}
		if !seen {
			split = append(split, name)
		}
	}
	return split
}
