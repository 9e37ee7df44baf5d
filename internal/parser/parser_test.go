package parser

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/splitsms/splitsms/internal/models"
)

func testParser() *Parser {
	return NewInLocation(time.UTC)
}

func containsAll(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestParse(t *testing.T) {
	receipt := time.Date(2025, time.June, 15, 10, 45, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		name     string
		text     string
		friends  []string
		wantErr  bool
		validate func(t *testing.T, e *models.Expense)
	}{
		{
			name:    "pizza for everyone",
			text:    "Paid ₹50 for pizza for everyone",
			friends: []string{"Alice", "Bob"},
			validate: func(t *testing.T, e *models.Expense) {
				if e.Type != models.Outgoing {
					t.Errorf("type = %s, want OUTGOING", e.Type)
				}
				if math.Abs(e.Amount-50) > 1e-9 {
					t.Errorf("amount = %v, want 50", e.Amount)
				}
				if e.Description != "Pizza" {
					t.Errorf("description = %q, want Pizza", e.Description)
				}
				if !containsAll(e.SplitBetween, "Me", "Alice", "Bob") {
					t.Errorf("splitBetween = %v, want Me+Alice+Bob", e.SplitBetween)
				}
				if e.PaidBy != "Me" {
					t.Errorf("paidBy = %q, want Me", e.PaidBy)
				}
			},
		},
		{
			name:    "incoming from friend",
			text:    "Received ₹200 from Alice",
			friends: []string{"Alice"},
			validate: func(t *testing.T, e *models.Expense) {
				if e.Type != models.Incoming {
					t.Errorf("type = %s, want INCOMING", e.Type)
				}
				if e.PaidBy != "Alice" {
					t.Errorf("paidBy = %q, want Alice", e.PaidBy)
				}
				if !containsAll(e.SplitBetween, "Me") {
					t.Errorf("splitBetween = %v, want exactly Me", e.SplitBetween)
				}
				if e.Description != "Received from Alice" {
					t.Errorf("description = %q, want Received from Alice", e.Description)
				}
			},
		},
		{
			name:    "incoming from stranger",
			text:    "INR 350 credited to your account via IMPS",
			friends: []string{"Alice", "Bob"},
			validate: func(t *testing.T, e *models.Expense) {
				if e.Type != models.Incoming {
					t.Errorf("type = %s, want INCOMING", e.Type)
				}
				if e.PaidBy != "Unknown" {
					t.Errorf("paidBy = %q, want Unknown", e.PaidBy)
				}
				if !containsAll(e.SplitBetween, "Me") {
					t.Errorf("splitBetween = %v, want exactly Me", e.SplitBetween)
				}
			},
		},
		{
			name:    "bank debit defaults to self",
			text:    "Rs 1,200.00 debited from your account for Swiggy order",
			friends: []string{"Alice"},
			validate: func(t *testing.T, e *models.Expense) {
				if e.Type != models.Outgoing {
					t.Errorf("type = %s, want OUTGOING", e.Type)
				}
				if e.PaidBy != "Me" {
					t.Errorf("paidBy = %q, want Me", e.PaidBy)
				}
				if math.Abs(e.Amount-1200) > 1e-9 {
					t.Errorf("amount = %v, want 1200", e.Amount)
				}
				if e.Description != "Food Delivery" {
					t.Errorf("description = %q, want Food Delivery", e.Description)
				}
				// No friend mentioned: split defaults to the payer.
				if !containsAll(e.SplitBetween, "Me") {
					t.Errorf("splitBetween = %v, want exactly Me", e.SplitBetween)
				}
			},
		},
		{
			name:    "friend paid with me-and inclusion",
			text:    "Bob paid Rs 600 for dinner for me and Alice",
			friends: []string{"Alice", "Bob"},
			validate: func(t *testing.T, e *models.Expense) {
				if e.PaidBy != "Bob" {
					t.Errorf("paidBy = %q, want Bob", e.PaidBy)
				}
				// Alice and Bob appear in the text; "me and" adds the payer
				// (already present), so the split is the two friends.
				if !containsAll(e.SplitBetween, "Alice", "Bob") {
					t.Errorf("splitBetween = %v, want Alice+Bob", e.SplitBetween)
				}
			},
		},
		{
			name:    "paid to named merchant",
			text:    "You paid Rs 450 to Raju Kirana Store via UPI",
			friends: []string{"Alice"},
			validate: func(t *testing.T, e *models.Expense) {
				if e.Description != "Paid to Raju Kirana Store" {
					t.Errorf("description = %q, want Paid to Raju Kirana Store", e.Description)
				}
				if e.PaidBy != "Me" {
					t.Errorf("paidBy = %q, want Me", e.PaidBy)
				}
			},
		},
		{
			name:    "spent without currency marker fails gracefully",
			text:    "Spent 120 on dinner with John and Sarah",
			friends: []string{"John", "Sarah"},
			wantErr: true,
		},
		{
			name:    "no amount at all",
			text:    "hello, are you free tonight?",
			friends: []string{"Alice"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense, err := testParser().Parse(tt.text, tt.friends, receipt)
			if tt.wantErr {
				if !errors.Is(err, ErrNoAmount) {
					t.Fatalf("Parse(%q) error = %v, want ErrNoAmount", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.text, err)
			}
			if expense.ID == "" {
				t.Error("expected a generated ID")
			}
			if !expense.DetectedFromMessage {
				t.Error("expected DetectedFromMessage to be set")
			}
			if tt.validate != nil {
				tt.validate(t, expense)
			}
		})
	}
}

func TestParseEmbeddedDate(t *testing.T) {
	receipt := time.Date(2025, time.June, 15, 10, 45, 0, 0, time.UTC).UnixMilli()

	expense, err := testParser().Parse("Rs 500 debited on 25-Dec-2024", []string{"Alice"}, receipt)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC).UnixMilli()
	if expense.Timestamp != want {
		t.Errorf("timestamp = %d, want %d (25-Dec-2024 midnight)", expense.Timestamp, want)
	}
}

// The direction tie-break is asymmetric on purpose: incoming wins only
// with strictly more keyword hits, so a message containing both a credit
// and a debit keyword classifies as OUTGOING.
func TestParseDirectionTieBreak(t *testing.T) {
	receipt := time.Date(2025, time.June, 15, 10, 45, 0, 0, time.UTC).UnixMilli()

	tests := []struct {
		text string
		want models.TransactionType
	}{
		{"Rs 100 credited to your account", models.Incoming},
		{"Rs 100 debited from your account", models.Outgoing},
		{"Rs 100 credited after card purchase", models.Outgoing}, // one hit each side
		{"Rs 100 refund received from store", models.Incoming},
		{"Rs 100 moved", models.Outgoing}, // no keywords at all
	}

	for _, tt := range tests {
		expense, err := testParser().Parse(tt.text, nil, receipt)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.text, err)
		}
		if expense.Type != tt.want {
			t.Errorf("Parse(%q) type = %s, want %s", tt.text, expense.Type, tt.want)
		}
	}
}
