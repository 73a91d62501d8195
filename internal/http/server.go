// Package http exposes the account store and expense ledger as a JSON API.
// The server is stateless: clients keep track of the logged-in user and
// pass owner ids explicitly on ledger requests.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gastos/internal/accounts"
	"gastos/internal/ledger"
)

type Server struct {
	http.Server
	accounts *accounts.Service
	ledger   *ledger.Service
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, accountSvc *accounts.Service, ledgerSvc *ledger.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		accounts: accountSvc,
		ledger:   ledgerSvc,
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /api/register", s.withRequestLog(s.handleRegister))
	mux.HandleFunc("POST /api/login", s.withRequestLog(s.handleLogin))
	mux.HandleFunc("GET /api/users", s.withRequestLog(s.handleListUsers))
	mux.HandleFunc("DELETE /api/users/{id}", s.withRequestLog(s.handleDeleteUser))

	mux.HandleFunc("GET /api/categories", s.withRequestLog(s.handleCategories))
	mux.HandleFunc("POST /api/expenses", s.withRequestLog(s.handleAddExpense))
	mux.HandleFunc("GET /api/expenses", s.withRequestLog(s.handleListExpenses))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withRequestLog(s.handleRemoveExpense))
	mux.HandleFunc("GET /api/expenses/sum", s.withRequestLog(s.handleSumInRange))
	mux.HandleFunc("GET /api/dashboard", s.withRequestLog(s.handleDashboard))

	return s
}

// withRequestLog adds security headers, a request id and request logging.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(r.Context(), "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
