package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitsms/splitsms/internal/auth"
	"github.com/splitsms/splitsms/internal/middleware"
	"github.com/splitsms/splitsms/internal/parser"
	"github.com/splitsms/splitsms/internal/service"
	"github.com/splitsms/splitsms/internal/storage/sqlite"
	"github.com/splitsms/splitsms/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()
	logging.Setup()

	port := getEnv("PORT", "8080")
	dbPath := getEnv("DB_PATH", "./data/splitsms.db")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	// Expense/message/friend/settlement routes sit behind auth;
	// auth, health and metrics do not.
	api := http.NewServeMux()
	service.NewExpenseService(store, parser.New()).RegisterRoutes(api)

	mux := http.NewServeMux()
	service.NewAuthService(authenticator, jwtManager).RegisterRoutes(mux)
	mux.Handle("/api/", middleware.RequireAuth(jwtManager, api))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	handler := middleware.Logging(middleware.Metrics(middleware.CORS(mux)))

	// h2c supports HTTP/2 clients without TLS termination in front.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
