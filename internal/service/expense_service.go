package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/splitsms/splitsms/internal/calculator"
	"github.com/splitsms/splitsms/internal/models"
	"github.com/splitsms/splitsms/internal/parser"
	"github.com/splitsms/splitsms/internal/storage"
)

var messagesParsed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "splitsms",
		Name:      "messages_parsed_total",
		Help:      "Ingested messages by parse outcome.",
	},
	[]string{"outcome"},
)

// ExpenseService handles expenses, messages, the friend roster, and the
// derived balance/settlement views.
type ExpenseService struct {
	store  storage.Store
	parser *parser.Parser
}

// NewExpenseService creates an ExpenseService with the given storage
// backend and message parser.
func NewExpenseService(store storage.Store, p *parser.Parser) *ExpenseService {
	return &ExpenseService{store: store, parser: p}
}

// RegisterRoutes sets up the expense, message, friend and settlement routes.
func (s *ExpenseService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/messages", s.handleAddMessage)
	mux.HandleFunc("POST /api/messages/scan", s.handleScanMessages)

	mux.HandleFunc("GET /api/friends", s.handleListFriends)
	mux.HandleFunc("POST /api/friends", s.handleAddFriend)
	mux.HandleFunc("DELETE /api/friends/{id}", s.handleDeleteFriend)

	mux.HandleFunc("GET /api/balances", s.handleBalances)
	mux.HandleFunc("GET /api/settlements", s.handleSettlements)
}

// roster returns the current friend names.
func (s *ExpenseService) roster(ctx context.Context) ([]string, error) {
	friends, err := s.store.ListFriends(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(friends))
	for i, f := range friends {
		names[i] = f.Name
	}
	return names, nil
}

// ingestResult is the outcome of parsing one stored message.
type ingestResult struct {
	Message *models.Message `json:"message"`
	Expense *models.Expense `json:"expense,omitempty"`
	Parsed  bool            `json:"parsed"`
}

// ingestMessage stores a raw message, attempts to parse it against the
// roster, and creates an expense on success. A parse failure is not an
// error: the message stays stored unprocessed for manual follow-up.
func (s *ExpenseService) ingestMessage(ctx context.Context, text string, timestamp int64, roster []string) (*ingestResult, error) {
	message := &models.Message{
		ID:        uuid.New().String(),
		Text:      text,
		Timestamp: timestamp,
	}
	if err := s.store.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	expense, err := s.parser.Parse(text, roster, timestamp)
	if err != nil {
		if !errors.Is(err, parser.ErrNoAmount) {
			return nil, err
		}
		messagesParsed.WithLabelValues("unrecognized").Inc()
		slog.Debug("Message not recognized as a transaction", "message_id", message.ID)
		return &ingestResult{Message: message, Parsed: false}, nil
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	if err := s.store.MarkMessageProcessed(ctx, message.ID, true); err != nil {
		return nil, err
	}
	message.Processed = true

	messagesParsed.WithLabelValues("parsed").Inc()
	slog.Info("Expense detected from message",
		"message_id", message.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"type", expense.Type,
	)

	return &ingestResult{Message: message, Expense: expense, Parsed: true}, nil
}

func (s *ExpenseService) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text        string `json:"text"`
		TimestampMs int64  `json:"timestampMs"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.TimestampMs == 0 {
		req.TimestampMs = time.Now().UnixMilli()
	}

	roster, err := s.roster(r.Context())
	if err != nil {
		s.internalError(w, "list friends", err)
		return
	}

	result, err := s.ingestMessage(r.Context(), req.Text, req.TimestampMs, roster)
	if err != nil {
		s.internalError(w, "ingest message", err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *ExpenseService) handleScanMessages(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Text        string `json:"text"`
			TimestampMs int64  `json:"timestampMs"`
		} `json:"messages"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages is required")
		return
	}

	roster, err := s.roster(r.Context())
	if err != nil {
		s.internalError(w, "list friends", err)
		return
	}

	// Each message is an independent unit of work; one storage failure
	// aborts the scan, but parse failures are per-item outcomes.
	results := make([]*ingestResult, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Text == "" {
			continue
		}
		ts := m.TimestampMs
		if ts == 0 {
			ts = time.Now().UnixMilli()
		}
		result, err := s.ingestMessage(r.Context(), m.Text, ts, roster)
		if err != nil {
			s.internalError(w, "ingest message", err)
			return
		}
		results = append(results, result)
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *ExpenseService) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListMessages(r.Context())
	if err != nil {
		s.internalError(w, "list messages", err)
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *ExpenseService) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description  string   `json:"description"`
		Amount       float64  `json:"amount"`
		PaidBy       string   `json:"paidBy"`
		SplitBetween []string `json:"splitBetween"`
		TimestampMs  int64    `json:"timestampMs"`
		Type         string   `json:"type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.PaidBy == "" {
		writeError(w, http.StatusBadRequest, "paidBy is required")
		return
	}

	txType := models.Outgoing
	if req.Type != "" {
		txType = models.TransactionType(req.Type)
		if txType != models.Incoming && txType != models.Outgoing {
			writeError(w, http.StatusBadRequest, "type must be INCOMING or OUTGOING")
			return
		}
	}

	split := req.SplitBetween
	if txType == models.Incoming {
		// Incoming money benefits only the account owner.
		split = []string{models.Self}
	}
	if len(split) == 0 {
		writeError(w, http.StatusBadRequest, "splitBetween is required")
		return
	}

	if req.TimestampMs == 0 {
		req.TimestampMs = time.Now().UnixMilli()
	}
	if req.Description == "" {
		req.Description = "Payment"
	}

	expense := &models.Expense{
		ID:           uuid.New().String(),
		Description:  req.Description,
		Amount:       req.Amount,
		PaidBy:       req.PaidBy,
		SplitBetween: split,
		Timestamp:    req.TimestampMs,
		Type:         txType,
	}

	if err := s.store.CreateExpense(r.Context(), expense); err != nil {
		s.internalError(w, "create expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

func (s *ExpenseService) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		s.internalError(w, "list expenses", err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *ExpenseService) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *ExpenseService) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Name == models.Self {
		writeError(w, http.StatusBadRequest, "\"Me\" is reserved")
		return
	}

	friend, err := s.store.AddFriend(r.Context(), req.Name)
	if err != nil {
		s.internalError(w, "add friend", err)
		return
	}

	writeJSON(w, http.StatusCreated, friend)
}

func (s *ExpenseService) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.store.ListFriends(r.Context())
	if err != nil {
		s.internalError(w, "list friends", err)
		return
	}
	if friends == nil {
		friends = []*models.Friend{}
	}
	writeJSON(w, http.StatusOK, friends)
}

func (s *ExpenseService) handleDeleteFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteFriend(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// currentBalances recomputes balances from scratch: stored expenses plus
// the current roster. Never persisted.
func (s *ExpenseService) currentBalances(ctx context.Context) ([]models.Balance, error) {
	roster, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	expenses := make([]models.Expense, len(stored))
	for i, e := range stored {
		expenses[i] = *e
	}

	return calculator.CalculateBalances(expenses, roster), nil
}

func (s *ExpenseService) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.currentBalances(r.Context())
	if err != nil {
		s.internalError(w, "compute balances", err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *ExpenseService) handleSettlements(w http.ResponseWriter, r *http.Request) {
	balances, err := s.currentBalances(r.Context())
	if err != nil {
		s.internalError(w, "compute balances", err)
		return
	}

	settlements := calculator.CalculateSettlements(balances)
	if settlements == nil {
		settlements = []models.Settlement{}
	}
	writeJSON(w, http.StatusOK, settlements)
}

func (s *ExpenseService) internalError(w http.ResponseWriter, op string, err error) {
	slog.Error("Request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
