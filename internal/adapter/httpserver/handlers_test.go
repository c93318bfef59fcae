package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/repo/memory"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/config"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/usecase"
)

const cannedAnswer = `## Funding in Kenya

**Next steps** for raising in Nairobi:
- Contact TLcom Capital or Novastar Ventures
- You should apply to iHub programs
1. Prepare a pitch deck
2. Register with KRA
3. Reach out via info@tlcomcapital.com or https://tlcomcapital.com

We recommend raising $500000 at seed stage in Kenya.`

type fakeAI struct {
	response string
	err      error
}

func (f *fakeAI) ChatCompletion(_ context.Context, _, _ string) (string, error) {
	return f.response, f.err
}

func (f *fakeAI) ChatStream(_ context.Context, _, _ string, fn func(string) error) error {
	if f.err != nil {
		return f.err
	}
	for _, c := range []string{"chunk one ", "chunk two"} {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

type fakeCache struct{ m map[string]domain.Answer }

func (f *fakeCache) Get(_ context.Context, key string) (domain.Answer, bool, error) {
	a, ok := f.m[key]
	return a, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, a domain.Answer, _ time.Duration) error {
	f.m[key] = a
	return nil
}

type fakeProfileRepo struct{ m map[string]domain.StartupProfile }

func (f *fakeProfileRepo) Create(_ context.Context, p domain.StartupProfile) (string, error) {
	id := fmt.Sprintf("profile-%d", len(f.m)+1)
	p.ID = id
	f.m[id] = p
	return id, nil
}

func (f *fakeProfileRepo) Get(_ context.Context, id string) (domain.StartupProfile, error) {
	p, ok := f.m[id]
	if !ok {
		return domain.StartupProfile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, id string, u domain.ProfileUpdate) (domain.StartupProfile, error) {
	p, ok := f.m[id]
	if !ok {
		return domain.StartupProfile{}, fmt.Errorf("op=profile.update: %w", domain.ErrNotFound)
	}
	if u.Tagline != nil {
		p.Tagline = *u.Tagline
	}
	if u.Stage != nil {
		p.Stage = *u.Stage
	}
	f.m[id] = p
	return p, nil
}

type fakeQueryLog struct{ entries []domain.QueryLogEntry }

func (f *fakeQueryLog) Record(_ context.Context, e domain.QueryLogEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeQueryLog) Popular(_ context.Context, limit int) ([]domain.PopularQuery, error) {
	out := []domain.PopularQuery{{Query: "how do i raise funding", Count: 7}}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeQueryLog) Stats(_ context.Context) (domain.QueryStats, error) {
	return domain.QueryStats{TotalQueries: 42, AvgProcessingSecs: 1.2, AvgConfidence: 0.8,
		CategoryCounts: map[string]int64{"funding": 30}}, nil
}

func newTestServer(t *testing.T, ai domain.AIClient) *Server {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)
	matcher := usecase.NewMatchService(store, domain.LocationNairobi)
	cache := &fakeCache{m: map[string]domain.Answer{}}
	ql := &fakeQueryLog{}
	query := usecase.NewQueryService(ai, cache, matcher, ql, "llama3-70b-8192", time.Hour, 5, 2000)
	profiles := usecase.NewProfileService(&fakeProfileRepo{m: map[string]domain.StartupProfile{}}, matcher)
	analytics := usecase.NewAnalyticsService(store, ql)
	cfg := config.Config{AdminKey: "sekret"}
	return NewServer(cfg, query, profiles, matcher, analytics, store, nil, nil)
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestQueryHandler_Success(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{response: cannedAnswer})

	rec := postJSON(t, srv.QueryHandler(), "/v1/query", map[string]any{
		"question": "How do I raise seed funding in Kenya?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res usecase.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, cannedAnswer, res.Answer)
	assert.Greater(t, res.Confidence, 0.5)
	assert.NotEmpty(t, res.Sources)
	assert.NotEmpty(t, res.SuggestedFollowUps)
}

func TestQueryHandler_InvalidJSON(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{response: cannedAnswer})

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	srv.QueryHandler()(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
}

func TestQueryHandler_MissingQuestion(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{response: cannedAnswer})

	rec := postJSON(t, srv.QueryHandler(), "/v1/query", map[string]any{"context": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation failed")
}

func TestQueryHandler_TooShort(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{response: cannedAnswer})

	rec := postJSON(t, srv.QueryHandler(), "/v1/query", map[string]any{"question": "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandler_UpstreamUnavailable(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{err: fmt.Errorf("op=ai.chat: %w", domain.ErrUpstreamRateLimit)})

	rec := postJSON(t, srv.QueryHandler(), "/v1/query", map[string]any{
		"question": "How do I raise seed funding?",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_RATE_LIMIT")
}

func TestQueryStreamHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := postJSON(t, srv.QueryStreamHandler(), "/v1/query/stream", map[string]any{
		"question": "How do I raise seed funding?",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `"chunk":"chunk one "`)
	assert.Contains(t, body, `"chunk":"chunk two"`)
	assert.Contains(t, body, `"done":true`)
}

func TestProfileLifecycle(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{response: cannedAnswer})

	rec := postJSON(t, srv.ProfileCreateHandler(), "/v1/profiles", map[string]any{
		"company_name": "PesaFlow",
		"industry":     "fintech",
		"stage":        "seed",
		"location":     "nairobi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created usecase.EnrollmentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ProfileID)
	assert.NotEmpty(t, created.NextSteps)

	r := chi.NewRouter()
	r.Get("/v1/startups/profile/{id}", srv.ProfileGetHandler())
	r.Put("/v1/startups/profile/{id}", srv.ProfileUpdateHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/startups/profile/"+created.ProfileID, nil)
	got := httptest.NewRecorder()
	r.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)

	update := bytes.NewReader([]byte(`{"tagline":"Payments for SMEs"}`))
	req = httptest.NewRequest(http.MethodPut, "/v1/startups/profile/"+created.ProfileID, update)
	got = httptest.NewRecorder()
	r.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Contains(t, got.Body.String(), "Payments for SMEs")

	req = httptest.NewRequest(http.MethodGet, "/v1/startups/profile/missing", nil)
	got = httptest.NewRecorder()
	r.ServeHTTP(got, req)
	assert.Equal(t, http.StatusNotFound, got.Code)
}

func TestProfileCreate_UnknownStage(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := postJSON(t, srv.ProfileCreateHandler(), "/v1/profiles", map[string]any{
		"company_name": "PesaFlow",
		"stage":        "unicorn",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchInvestorsHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := postJSON(t, srv.MatchInvestorsHandler(), "/v1/match/investors", map[string]any{
		"company_name":    "PesaFlow",
		"industry":        "fintech",
		"stage":           "seed",
		"location":        "nairobi",
		"seeking_funding": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Matches    []domain.InvestorMatch `json:"matches"`
		TotalFound int                    `json:"total_found"`
		Criteria   map[string]string      `json:"matching_criteria"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, len(res.Matches), res.TotalFound)
	assert.NotEmpty(t, res.Matches)
	assert.NotEmpty(t, res.Criteria)
}

func TestMatchInvestorsHandler_RequiresCompanyName(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := postJSON(t, srv.MatchInvestorsHandler(), "/v1/match/investors", map[string]any{
		"industry": "fintech",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchAcceleratorsHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := postJSON(t, srv.MatchAcceleratorsHandler(), "/v1/match/accelerators", map[string]any{
		"company_name": "PesaFlow",
		"industry":     "fintech",
		"stage":        "idea",
		"location":     "nairobi",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "application_deadlines")
	assert.Contains(t, rec.Body.String(), "iHub")
}

func TestInvestorsHandler_Filters(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ecosystem/investors?industry=cleantech", nil)
	rec := httptest.NewRecorder()
	srv.InvestorsHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GreenTec Capital")
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestInvestorsHandler_BadTicketSize(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ecosystem/investors?ticket_size_min=lots", nil)
	rec := httptest.NewRecorder()
	srv.InvestorsHandler()(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEcosystemListings(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := httptest.NewRecorder()
	srv.AcceleratorsHandler()(rec, httptest.NewRequest(http.MethodGet, "/v1/ecosystem/accelerators", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MEST Africa")

	rec = httptest.NewRecorder()
	srv.CoworkingHandler()(rec, httptest.NewRequest(http.MethodGet, "/v1/ecosystem/coworking", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "NaiLab")

	rec = httptest.NewRecorder()
	srv.EventsHandler()(rec, httptest.NewRequest(http.MethodGet, "/v1/ecosystem/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nairobi Tech Week")
}

func TestAnalyticsHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := httptest.NewRecorder()
	srv.AnalyticsHandler()(rec, httptest.NewRequest(http.MethodGet, "/v1/analytics/ecosystem", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var res usecase.EcosystemAnalytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(42), res.TotalQueries)
	assert.Equal(t, 4, res.TotalInvestors)
}

func TestPopularQueriesHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	rec := httptest.NewRecorder()
	srv.PopularQueriesHandler()(rec, httptest.NewRequest(http.MethodGet, "/v1/analytics/popular-queries?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "how do i raise funding")

	rec = httptest.NewRecorder()
	srv.PopularQueriesHandler()(rec, httptest.NewRequest(http.MethodGet, "/v1/analytics/popular-queries?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRefreshHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/refresh-ecosystem-data?admin_key=wrong", nil)
	rec := httptest.NewRecorder()
	srv.AdminRefreshHandler()(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/admin/refresh-ecosystem-data?admin_key=sekret", nil)
	rec = httptest.NewRecorder()
	srv.AdminRefreshHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"refreshed"`)
}

func TestReadyzHandler(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, &fakeAI{})
	srv.DBCheck = func(context.Context) error { return nil }
	srv.RedisCheck = func(context.Context) error { return errors.New("redis down") }

	rec := httptest.NewRecorder()
	srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis down")

	srv.RedisCheck = func(context.Context) error { return nil }
	rec = httptest.NewRecorder()
	srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
