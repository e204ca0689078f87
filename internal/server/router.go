// Package server assembles the HTTP surface: platform middleware, module
// routes, health and metrics.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"turnero/internal/platform/metrics"
	"turnero/pkg/platform/middleware/accesslog"
	"turnero/pkg/platform/middleware/requestid"
	"turnero/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by module handlers.
type Registrar interface {
	Register(r chi.Router)
}

// Options configures NewRouter.
type Options struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   *Health
	Modules  []Registrar
}

// NewRouter builds the root router. Middleware order: request id, request
// time, panic recovery, access log, request metrics.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(accesslog.Middleware(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	if opts.Health != nil {
		r.Get("/healthz", opts.Health.ServeHTTP)
	}
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	for _, m := range opts.Modules {
		m.Register(r)
	}
	return r
}
