package models

// Message is a raw payment notification as received from the client
// (bank/wallet SMS body or manually typed text). Messages are stored
// whether or not they parse, so unrecognized ones remain available for
// manual follow-up.
type Message struct {
	// ID is the unique identifier for the message (UUID format).
	ID string `json:"id"`

	// Text is the raw message body.
	Text string `json:"text"`

	// Processed is true once the message has been turned into an expense.
	Processed bool `json:"processed"`

	// Timestamp is the message receipt time in epoch milliseconds.
	// It is the fallback transaction time when the text carries no date.
	Timestamp int64 `json:"timestampMs"`
}
