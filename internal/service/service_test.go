package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitsms/splitsms/internal/auth"
	"github.com/splitsms/splitsms/internal/middleware"
	"github.com/splitsms/splitsms/internal/models"
	"github.com/splitsms/splitsms/internal/parser"
	"github.com/splitsms/splitsms/internal/storage/sqlite"
)

// newTestServer wires the full API the way cmd/server does, over a
// throwaway sqlite database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitsms-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	api := http.NewServeMux()
	NewExpenseService(store, parser.New()).RegisterRoutes(api)

	mux := http.NewServeMux()
	NewAuthService(authenticator, jwtManager).RegisterRoutes(mux)
	mux.Handle("/api/", middleware.RequireAuth(jwtManager, api))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// doRequest issues a JSON request, optionally with a Bearer token, and
// decodes the response body into out when out is non-nil.
func doRequest(t *testing.T, server *httptest.Server, method, path, token string, body any, out any) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response body: %v", err)
		}
	}
	return resp
}

// register creates an account and returns its token.
func register(t *testing.T, server *httptest.Server, email string) string {
	t.Helper()

	var result struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}
	resp := doRequest(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":       email,
		"displayName": "Tester",
		"password":    "correct horse battery",
	}, &result)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned status %d", resp.StatusCode)
	}
	if result.Token == "" {
		t.Fatal("register returned an empty token")
	}
	return result.Token
}

func TestAuthFlow(t *testing.T) {
	server := newTestServer(t)

	register(t, server, "alice@example.com")

	t.Run("duplicate email is rejected", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":       "alice@example.com",
			"displayName": "Alice",
			"password":    "another password",
		}, nil)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("short password is rejected", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":       "bob@example.com",
			"displayName": "Bob",
			"password":    "short",
		}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("login with correct password", func(t *testing.T) {
		var result struct {
			Token string `json:"token"`
		}
		resp := doRequest(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct horse battery",
		}, &result)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if result.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		}, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("api routes require a token", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodGet, "/api/expenses", "", nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestFriendRoutes(t *testing.T) {
	server := newTestServer(t)
	token := register(t, server, "user@example.com")

	var alice models.Friend
	resp := doRequest(t, server, http.MethodPost, "/api/friends", token, map[string]string{"name": "Alice"}, &alice)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if alice.Name != "Alice" || alice.ID == "" {
		t.Errorf("unexpected friend: %+v", alice)
	}

	t.Run("reserved name is rejected", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/friends", token, map[string]string{"name": "Me"}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		var friends []models.Friend
		doRequest(t, server, http.MethodGet, "/api/friends", token, nil, &friends)
		if len(friends) != 1 {
			t.Fatalf("expected 1 friend, got %d", len(friends))
		}

		resp := doRequest(t, server, http.MethodDelete, "/api/friends/"+alice.ID, token, nil, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("expected 204, got %d", resp.StatusCode)
		}

		doRequest(t, server, http.MethodGet, "/api/friends", token, nil, &friends)
		if len(friends) != 0 {
			t.Errorf("expected empty roster, got %v", friends)
		}
	})
}

func TestMessageIngestion(t *testing.T) {
	server := newTestServer(t)
	token := register(t, server, "user@example.com")

	doRequest(t, server, http.MethodPost, "/api/friends", token, map[string]string{"name": "Alice"}, nil)

	t.Run("recognized message yields an expense", func(t *testing.T) {
		var result struct {
			Message *models.Message `json:"message"`
			Expense *models.Expense `json:"expense"`
			Parsed  bool            `json:"parsed"`
		}
		resp := doRequest(t, server, http.MethodPost, "/api/messages", token, map[string]any{
			"text":        "Received Rs 500 from Alice for lunch",
			"timestampMs": 1718448000000,
		}, &result)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if !result.Parsed {
			t.Fatal("expected the message to be parsed")
		}
		if !result.Message.Processed {
			t.Error("expected the message to be marked processed")
		}
		if result.Expense.Amount != 500 {
			t.Errorf("expected amount 500, got %v", result.Expense.Amount)
		}
		if result.Expense.Type != models.Incoming {
			t.Errorf("expected INCOMING, got %s", result.Expense.Type)
		}
		if result.Expense.PaidBy != "Alice" {
			t.Errorf("expected payer Alice, got %q", result.Expense.PaidBy)
		}
		if !result.Expense.DetectedFromMessage {
			t.Error("expected DetectedFromMessage")
		}
	})

	t.Run("unrecognized message is stored unprocessed", func(t *testing.T) {
		var result struct {
			Message *models.Message `json:"message"`
			Parsed  bool            `json:"parsed"`
		}
		resp := doRequest(t, server, http.MethodPost, "/api/messages", token, map[string]any{
			"text": "Your OTP is 482913. Do not share it with anyone.",
		}, &result)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if result.Parsed {
			t.Error("expected the message not to parse")
		}
		if result.Message.Processed {
			t.Error("expected the message to stay unprocessed")
		}
	})

	t.Run("scan handles a batch with mixed outcomes", func(t *testing.T) {
		var result struct {
			Results []struct {
				Parsed bool `json:"parsed"`
			} `json:"results"`
		}
		resp := doRequest(t, server, http.MethodPost, "/api/messages/scan", token, map[string]any{
			"messages": []map[string]any{
				{"text": "Rs 1,200 debited for Swiggy order", "timestampMs": 1718448000000},
				{"text": "Reminder: your appointment is tomorrow", "timestampMs": 1718448000000},
			},
		}, &result)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if len(result.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(result.Results))
		}
		if !result.Results[0].Parsed || result.Results[1].Parsed {
			t.Errorf("unexpected outcomes: %+v", result.Results)
		}
	})

	t.Run("messages are listed", func(t *testing.T) {
		var messages []models.Message
		doRequest(t, server, http.MethodGet, "/api/messages", token, nil, &messages)
		if len(messages) != 4 {
			t.Errorf("expected 4 stored messages, got %d", len(messages))
		}
	})
}

func TestExpenseRoutesAndSettlements(t *testing.T) {
	server := newTestServer(t)
	token := register(t, server, "user@example.com")

	doRequest(t, server, http.MethodPost, "/api/friends", token, map[string]string{"name": "Alice"}, nil)
	doRequest(t, server, http.MethodPost, "/api/friends", token, map[string]string{"name": "Bob"}, nil)

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodPost, "/api/expenses", token, map[string]any{
			"amount": 0,
			"paidBy": "Me",
		}, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("incoming expense splits to the owner only", func(t *testing.T) {
		var expense models.Expense
		resp := doRequest(t, server, http.MethodPost, "/api/expenses", token, map[string]any{
			"amount":       250,
			"paidBy":       "Alice",
			"type":         "INCOMING",
			"splitBetween": []string{"Alice", "Bob"},
		}, &expense)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if len(expense.SplitBetween) != 1 || expense.SplitBetween[0] != models.Self {
			t.Errorf("expected split [Me], got %v", expense.SplitBetween)
		}

		// Remove it again so the settlement scenario below is clean.
		resp = doRequest(t, server, http.MethodDelete, "/api/expenses/"+expense.ID, token, nil, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}
	})

	var created models.Expense
	resp := doRequest(t, server, http.MethodPost, "/api/expenses", token, map[string]any{
		"description":  "Dinner",
		"amount":       600,
		"paidBy":       "Me",
		"splitBetween": []string{"Me", "Alice", "Bob"},
		"timestampMs":  1718448000000,
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	t.Run("balances reflect the stored expense", func(t *testing.T) {
		var balances []models.Balance
		doRequest(t, server, http.MethodGet, "/api/balances", token, nil, &balances)
		if len(balances) != 3 {
			t.Fatalf("expected 3 balances, got %d", len(balances))
		}
		want := []models.Balance{
			{Person: "Me", Amount: 400},
			{Person: "Alice", Amount: -200},
			{Person: "Bob", Amount: -200},
		}
		for i, b := range want {
			if balances[i].Person != b.Person || balances[i].Amount != b.Amount {
				t.Errorf("balance %d = %+v, want %+v", i, balances[i], b)
			}
		}
	})

	t.Run("settlements pay the creditor", func(t *testing.T) {
		var settlements []models.Settlement
		doRequest(t, server, http.MethodGet, "/api/settlements", token, nil, &settlements)
		want := []models.Settlement{
			{From: "Alice", To: "Me", Amount: 200},
			{From: "Bob", To: "Me", Amount: 200},
		}
		if len(settlements) != len(want) {
			t.Fatalf("expected %d settlements, got %d: %+v", len(want), len(settlements), settlements)
		}
		for i, s := range want {
			if settlements[i] != s {
				t.Errorf("settlement %d = %+v, want %+v", i, settlements[i], s)
			}
		}
	})

	t.Run("deleting an unknown expense is a 404", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodDelete, "/api/expenses/does-not-exist", token, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("delete then list", func(t *testing.T) {
		resp := doRequest(t, server, http.MethodDelete, "/api/expenses/"+created.ID, token, nil, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}

		var expenses []models.Expense
		doRequest(t, server, http.MethodGet, "/api/expenses", token, nil, &expenses)
		if len(expenses) != 0 {
			t.Errorf("expected no expenses, got %d", len(expenses))
		}
	})
}
