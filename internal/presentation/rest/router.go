package rest

import (
	"log/slog"
	"net/http"

	"github.com/ahesenov7-ai/paysphate.demo/internal/infrastructure/metrics"
)

// RouteRegistrar registers endpoints on a ServeMux.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// NewRouter mounts the registrars and the metrics endpoint behind the
// logging and metrics middleware.
func NewRouter(logger *slog.Logger, metricsHandler http.Handler, registrars ...RouteRegistrar) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	for _, reg := range registrars {
		reg.RegisterRoutes(mux)
	}
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	return Logging(logger, metrics.Middleware(mux))
}
