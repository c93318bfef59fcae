package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aistub "github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/ai/stub"
	httpserver "github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/httpserver"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/config"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{"https://a.example", []string{"https://a.example"}},
		{" https://a.example , https://b.example ", []string{"https://a.example", "https://b.example"}},
		{" , ", []string{"*"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseOrigins(c.in), "input %q", c.in)
	}
}

func TestBuildRouter_HealthAndSecurity(t *testing.T) {
	t.Parallel()
	srv := &httpserver.Server{Cfg: config.Config{}}
	h := BuildRouter(config.Config{RateLimitPerMin: 60}, srv)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// No checks configured means readiness trivially passes.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// The stream route must bypass the timeout wrapper: http.TimeoutHandler's
// buffered writer hides http.Flusher and would break SSE for every client.
func TestBuildRouter_QueryStreamDeliversSSE(t *testing.T) {
	t.Parallel()
	query := usecase.NewQueryService(aistub.New(), nil, usecase.MatchService{}, nil,
		"llama3-70b-8192", time.Hour, 5, 2000)
	srv := &httpserver.Server{Cfg: config.Config{}, Query: query}
	h := BuildRouter(config.Config{RateLimitPerMin: 60}, srv)

	body := strings.NewReader(`{"question":"How do I raise seed funding in Kenya?"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/query/stream", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"chunk":`)
	assert.Contains(t, rec.Body.String(), `"done":true`)
	assert.NotContains(t, rec.Body.String(), "streaming unsupported")
}

func TestBuildRouter_AdminDisabledByDefault(t *testing.T) {
	t.Parallel()
	srv := &httpserver.Server{Cfg: config.Config{}}
	h := BuildRouter(config.Config{RateLimitPerMin: 60}, srv)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/admin/refresh-ecosystem-data", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
