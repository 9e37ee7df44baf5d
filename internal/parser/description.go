package parser

import (
	"regexp"
	"strings"

	"github.com/splitsms/splitsms/internal/models"
)

// Name capture after a to/from marker, terminated by a currency marker,
// a connective, or end of text.
var (
	incomingNamePattern = regexp.MustCompile(`(?i)(?:from|received from)\s+([A-Za-z\s]+?)(?:\s+(?:Rs|INR|₹|for|on|via|using)|$)`)
	outgoingNamePattern = regexp.MustCompile(`(?i)(?:to|paid to|sent to)\s+([A-Za-z\s]+?)(?:\s+(?:Rs|INR|₹|for|on|via|using)|$)`)
)

// categoryRule maps substring keywords to a category label.
type categoryRule struct {
	keywords []string
	label    string
}

// categoryRules is ordered: the first matching row wins, and later rows
// are intentionally masked by earlier ones (a message mentioning both
// "swiggy" and "upi" is Food Delivery, not a UPI payment).
var categoryRules = []categoryRule{
	{[]string{"movie", "ticket"}, "Movie Tickets"},
	{[]string{"dinner", "restaurant"}, "Dinner"},
	{[]string{"lunch"}, "Lunch"},
	{[]string{"breakfast"}, "Breakfast"},
	{[]string{"coffee", "cafe"}, "Coffee"},
	{[]string{"grocery", "groceries"}, "Groceries"},
	{[]string{"uber", "ola", "taxi", "cab"}, "Transportation"},
	{[]string{"swiggy", "zomato"}, "Food Delivery"},
	{[]string{"amazon"}, "Shopping"},
	{[]string{"flipkart"}, "Shopping"},
	{[]string{"gas", "petrol", "fuel"}, "Fuel"},
	{[]string{"rent"}, "Rent"},
	{[]string{"electricity", "water", "utilities"}, "Utilities"},
	{[]string{"internet", "wifi", "broadband"}, "Internet"},
	{[]string{"pizza"}, "Pizza"},
	{[]string{"drinks", "bar"}, "Drinks"},
	{[]string{"hotel"}, "Hotel"},
	{[]string{"flight", "airline"}, "Flight"},
	{[]string{"medicine", "pharmacy"}, "Medicine"},
	{[]string{"recharge"}, "Recharge"},
	{[]string{"cashback"}, "Cashback"},
	{[]string{"refund"}, "Refund"},
	{[]string{"salary"}, "Salary"},
}

// extractDescription derives a short label for the expense.
//
// A counterparty name captured from the text wins ("Paid to Raju Kirana",
// "Received from Alice") when it is longer than two characters and is not
// an account reference. Otherwise the category table decides; incoming
// category labels get a "Received: " prefix except for the UPI rows,
// which already encode direction. The final defaults are "Money Received"
// and "Payment".
func extractDescription(text string, txType models.TransactionType) string {
	namePattern := outgoingNamePattern
	if txType == models.Incoming {
		namePattern = incomingNamePattern
	}

	if m := namePattern.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(m[1])
		if len(name) > 2 && !strings.Contains(strings.ToLower(name), "account") {
			if txType == models.Incoming {
				return "Received from " + name
			}
			return "Paid to " + name
		}
	}

	lower := strings.ToLower(text)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				if txType == models.Incoming {
					return "Received: " + rule.label
				}
				return rule.label
			}
		}
	}

	if strings.Contains(lower, "upi") {
		if txType == models.Incoming {
			return "UPI Received"
		}
		return "UPI Payment"
	}

	if txType == models.Incoming {
		return "Money Received"
	}
	return "Payment"
}
