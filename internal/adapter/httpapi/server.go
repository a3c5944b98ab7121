// Package httpapi exposes the webhook endpoint plus health, readiness, and
// metrics routes. The webhook always answers HTTP 200 with a reply string in
// the body so the chat platform relays errors to the user instead of
// retrying.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brastec/rep-locator/internal/domain"
	"github.com/brastec/rep-locator/internal/reply"
)

// Resolver runs the CEP resolution pipeline.
type Resolver interface {
	Resolve(ctx context.Context, rawCEP string) domain.Resolution
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// webhookRequest mirrors the chat platform payload. The CEP arrives under
// variables.CEP_usuario.
type webhookRequest struct {
	Variables struct {
		CEPUsuario string `json:"CEP_usuario"`
	} `json:"variables"`
}

type webhookResponse struct {
	Reply string `json:"reply"`
}

// Server exposes the webhook and operational HTTP endpoints.
type Server struct {
	httpServer *http.Server
	resolver   Resolver
	formatter  reply.Formatter
	logger     *slog.Logger
}

// NewServer wires the routes. The webhook lives at POST /api/webhook.
func NewServer(addr string, resolver Resolver, formatter reply.Formatter, ready ReadinessChecker, logger *slog.Logger) *Server {
	s := &Server{
		resolver:  resolver,
		formatter: formatter,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/api/webhook", s.handleWebhook)
	r.MethodNotAllowed(s.handleMethodNotAllowed)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("malformed webhook payload", "error", err)
		writeReply(w, "❌ CEP inválido ou incompleto. Tente novamente.")
		return
	}

	res := s.resolver.Resolve(r.Context(), req.Variables.CEPUsuario)
	writeReply(w, s.formatter.Format(res))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeReply(w, "❌ Método não permitido. Use POST.")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// writeReply always answers 200 so the chat platform shows the message
// instead of retrying the webhook.
func writeReply(w http.ResponseWriter, text string) {
	writeJSON(w, http.StatusOK, webhookResponse{Reply: text})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
