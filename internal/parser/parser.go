// Package parser extracts structured expenses from free-text payment
// notifications (bank/wallet SMS or manually typed messages).
//
// Parsing is a single deterministic pass over the text: extract an
// amount, classify the direction, resolve the payer and split, derive a
// description, and recover an embedded transaction date. Every step after
// amount extraction is total, with explicit defaults; only a missing
// amount fails the parse. The package is pure and holds no cross-call
// state, so concurrent Parse calls need no synchronization.
package parser

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/splitsms/splitsms/internal/models"
)

// ErrNoAmount is returned when no currency pattern matches the text.
// The message is not a recognizable transaction.
var ErrNoAmount = errors.New("no amount found in message")

// Parser turns raw message text into expenses. The zero value is not
// usable; construct with New or NewInLocation.
type Parser struct {
	loc *time.Location
}

// New creates a parser that interprets embedded dates in local time.
func New() *Parser {
	return NewInLocation(time.Local)
}

// NewInLocation creates a parser that interprets embedded dates in the
// given location. Injecting the location keeps parsing fully
// deterministic for a fixed fallback timestamp.
func NewInLocation(loc *time.Location) *Parser {
	return &Parser{loc: loc}
}

// Parse extracts an expense from a payment message.
//
// friends is the participant roster (Self is implicit) and
// messageTimestamp is the receipt time in epoch milliseconds, used as the
// transaction time whenever the text carries no usable date. Parse never
// reads the system clock: identical inputs always produce the same result
// apart from the generated ID.
//
// It returns ErrNoAmount when the text contains no recognizable amount;
// all other extraction steps default rather than fail.
func (p *Parser) Parse(text string, friends []string, messageTimestamp int64) (*models.Expense, error) {
	amount, ok := extractAmount(text)
	if !ok {
		return nil, ErrNoAmount
	}

	txType := detectTransactionType(text)
	paidBy := detectPayer(text, friends, txType)
	description := extractDescription(text, txType)
	splitBetween := detectSplitBetween(text, friends, paidBy, txType)
	timestamp := extractPaymentDate(text, messageTimestamp, p.loc)

	return &models.Expense{
		ID:                  uuid.New().String(),
		Description:         description,
		Amount:              amount,
		PaidBy:              paidBy,
		SplitBetween:        splitBetween,
		Timestamp:           timestamp,
		DetectedFromMessage: true,
		Type:                txType,
	}, nil
}
