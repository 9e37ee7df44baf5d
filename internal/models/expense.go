package models

// Self is the reserved display name identifying the account owner.
// It is a virtual roster member: balances and splits always include it
// even when the stored friend list does not.
const Self = "Me"

// TransactionType marks the direction of money flow in an expense.
type TransactionType string

const (
	// Incoming means money was received by the account owner.
	Incoming TransactionType = "INCOMING"

	// Outgoing means money was paid out by the account owner or a friend.
	Outgoing TransactionType = "OUTGOING"
)

// Expense represents a single shared transaction.
// It is immutable once created: callers delete and re-create rather than edit.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is a short human-readable label, either extracted from
	// the message text ("Paid to Raju Kirana") or a category ("Dinner").
	Description string `json:"description"`

	// Amount is the transaction amount. Always positive; direction is
	// carried by Type, not by sign.
	Amount float64 `json:"amount"`

	// PaidBy is the counterparty: the payer for OUTGOING expenses, the
	// sender for INCOMING ones, or Self. "Unknown" when an incoming
	// message names no roster member.
	PaidBy string `json:"paidBy"`

	// SplitBetween is the set of people sharing this expense. Order is
	// irrelevant. For INCOMING expenses this is always exactly {Self}.
	// The payer may appear in its own split (a self-share).
	SplitBetween []string `json:"splitBetween"`

	// Timestamp is the effective transaction time in epoch milliseconds.
	// For auto-detected expenses this may be a date recovered from the
	// message text rather than the receipt time.
	Timestamp int64 `json:"timestampMs"`

	// DetectedFromMessage is true when the expense was parsed out of a
	// payment message, false when entered manually.
	DetectedFromMessage bool `json:"detectedFromMessage"`

	// Type is the direction of the transaction.
	Type TransactionType `json:"type"`
}
