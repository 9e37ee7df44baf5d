package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numeric matches digits with optional comma-separated thousands groups
// and up to two decimal places, e.g. "1,250.50".
const numeric = `(\d+(?:,\d+)*(?:\.\d{1,2})?)`

// amountPatterns is the currency-marker cascade, in priority order.
// The first pattern class that matches decides the outcome.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Rr][Ss]\.?\s*` + numeric),
	regexp.MustCompile(`₹\s*` + numeric),
	regexp.MustCompile(`[Ii][Nn][Rr]\s*` + numeric),
	regexp.MustCompile(`\$\s*` + numeric),
	regexp.MustCompile(`(?i)(?:paid|debited|sent|transferred|credited|received)\s+(?:Rs\.?|₹|INR)?\s*` + numeric),
}

// extractAmount returns the first positive amount found in text.
// A match that fails numeric conversion, or converts to a non-positive
// value, is an extraction failure rather than a reason to try the next
// pattern class.
func extractAmount(text string) (float64, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			return 0, false
		}
		amount, _ := d.Float64()
		if amount <= 0 {
			return 0, false
		}
		return amount, true
	}
	return 0, false
}
