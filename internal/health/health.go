// Package health serves the liveness endpoint polled by the scheduler to keep
// the database warm.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"threecs/internal/platform/metrics"
	"threecs/internal/platform/middleware"
	"threecs/pkg/platform/httputil"
	"threecs/pkg/requestcontext"
)

const checkTimeout = 5 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Response is the health payload.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Handler struct {
	checks  map[string]Check
	secret  string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Handler)

// WithCheck adds a named dependency check.
func WithCheck(name string, check Check) Option {
	return func(h *Handler) {
		if check != nil {
			h.checks[name] = check
		}
	}
}

// WithSecret requires "Authorization: Bearer <secret>". Empty leaves the endpoint open.
func WithSecret(secret string) Option {
	return func(h *Handler) {
		h.secret = secret
	}
}

func New(logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{checks: make(map[string]Check), logger: logger, metrics: m}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.With(middleware.RequireBearerSecret(h.secret, h.logger)).Get("/api/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.runChecks(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		h.metrics.IncrementHealthCheck(false)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, Response{Status: "unhealthy", Error: "Failed to reach database"})
		return
	}
	h.metrics.IncrementHealthCheck(true)
	httputil.WriteJSON(w, http.StatusOK, Response{
		Status:    "healthy",
		Timestamp: requestcontext.Now(ctx).UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) runChecks(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for name, check := range h.checks {
		g.Go(func() error {
			if err := check(ctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
