package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"threecs/internal/platform/metrics"
	"threecs/internal/platform/middleware"
	dErrors "threecs/pkg/domain-errors"
	"threecs/pkg/platform/httputil"
	"threecs/pkg/platform/middleware/metadata"
	"threecs/pkg/platform/middleware/requesttime"
)

// FilesPrefix is where locally stored PDFs are served when no bucket is configured.
const FilesPrefix = "/files"

// Routes is implemented by every feature handler.
type Routes interface {
	Register(r chi.Router)
}

// Config collects what the router mounts.
type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Files serves stored PDFs under FilesPrefix. Nil when links point elsewhere.
	Files  http.Handler
	Routes []Routes
}

// NewRouter builds the chi router with the shared middleware chain. Handlers
// stay thin and delegate to their services.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Latency(cfg.Metrics))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "method_not_allowed"})
	})

	r.Handle("/metrics", promhttp.Handler())
	if cfg.Files != nil {
		r.Handle(FilesPrefix+"/*", http.StripPrefix(FilesPrefix, cfg.Files))
	}
	for _, routes := range cfg.Routes {
		routes.Register(r)
	}
	return r
}
