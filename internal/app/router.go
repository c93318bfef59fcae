// Package app wires configuration, adapters and routes into a runnable
// HTTP handler.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/httpserver"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/observability"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	limitByIP := httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute)
	timeout := httpserver.TimeoutMiddleware(90 * time.Second)

	// The SSE stream must not sit behind http.TimeoutHandler: its buffered
	// writer drops http.Flusher. The server WriteTimeout still bounds it.
	r.Group(func(sr chi.Router) {
		sr.Use(limitByIP)
		sr.Post("/v1/query/stream", srv.QueryStreamHandler())
	})

	// Rate limit mutating endpoints
	r.Group(func(wr chi.Router) {
		wr.Use(limitByIP, timeout)
		wr.Post("/v1/query", srv.QueryHandler())
		wr.Post("/v1/startups/profile", srv.ProfileCreateHandler())
		wr.Put("/v1/startups/profile/{id}", srv.ProfileUpdateHandler())
		wr.Post("/v1/matching/investors", srv.MatchInvestorsHandler())
		wr.Post("/v1/matching/accelerators", srv.MatchAcceleratorsHandler())
	})

	// Read-only endpoints
	r.Group(func(ro chi.Router) {
		ro.Use(timeout)
		ro.Get("/v1/startups/profile/{id}", srv.ProfileGetHandler())
		ro.Get("/v1/ecosystem/investors", srv.InvestorsHandler())
		ro.Get("/v1/ecosystem/accelerators", srv.AcceleratorsHandler())
		ro.Get("/v1/ecosystem/coworking", srv.CoworkingHandler())
		ro.Get("/v1/ecosystem/events", srv.EventsHandler())
		ro.Get("/v1/analytics/ecosystem", srv.AnalyticsHandler())
		ro.Get("/v1/analytics/popular-queries", srv.PopularQueriesHandler())
	})

	// Health and metrics
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/readyz", srv.ReadyzHandler())

	// Admin dataset refresh
	if cfg.AdminEnabled() {
		r.Post("/v1/admin/refresh-ecosystem-data", srv.AdminRefreshHandler())
	}

	return httpserver.SecurityHeaders(r)
}
