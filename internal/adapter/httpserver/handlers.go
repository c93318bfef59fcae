package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/observability"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/config"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Query      usecase.QueryService
	Profiles   usecase.ProfileService
	Matcher    usecase.MatchService
	Analytics  usecase.AnalyticsService
	Store      domain.EcosystemStore
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, query usecase.QueryService, profiles usecase.ProfileService, matcher usecase.MatchService, analytics usecase.AnalyticsService, store domain.EcosystemStore, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{
		Cfg: cfg, Query: query, Profiles: profiles, Matcher: matcher,
		Analytics: analytics, Store: store, DBCheck: dbCheck, RedisCheck: redisCheck,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type queryRequest struct {
	Question string                 `json:"question" validate:"required"`
	Profile  *domain.StartupProfile `json:"startup_profile"`
	Context  string                 `json:"context" validate:"max=1000"`
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
		return false
	}
	if err := getValidator().Struct(dst); err != nil {
		verrs := map[string]string{}
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				verrs[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
		return false
	}
	return true
}

// QueryHandler answers one AI query with the full response envelope.
func (s *Server) QueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		res, err := s.Query.Process(r.Context(), req.Question, req.Profile, req.Context)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		observability.ObserveQuery(usecase.CategorizeQuery(req.Question), res.Confidence)
		writeJSON(w, http.StatusOK, res)
	}
}

type streamEvent struct {
	Chunk string `json:"chunk,omitempty"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// QueryStreamHandler streams answer chunks over server-sent events.
func (s *Server) QueryStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: streaming unsupported", domain.ErrInternal), nil)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		sent := false
		send := func(ev streamEvent) {
			b, _ := json.Marshal(ev)
			_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
		err := s.Query.Stream(r.Context(), req.Question, req.Profile, req.Context, func(chunk string) error {
			sent = true
			send(streamEvent{Chunk: chunk})
			return nil
		})
		if err != nil {
			if !sent {
				// Nothing written yet; a plain JSON error is still possible
				// only when validation failed before headers, so emit the
				// error as an event here.
				LoggerFrom(r).Warn("query stream failed", "error", err)
			}
			send(streamEvent{Error: err.Error(), Done: true})
			return
		}
		send(streamEvent{Done: true})
	}
}

// ProfileCreateHandler enrolls a new startup profile and returns
// recommendations alongside the stored id.
func (s *Server) ProfileCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var p domain.StartupProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		res, err := s.Profiles.Create(r.Context(), p)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// ProfileGetHandler returns one stored profile.
func (s *Server) ProfileGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidArgument), nil)
			return
		}
		p, err := s.Profiles.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type profileUpdateRequest struct {
	Tagline             *string       `json:"tagline"`
	Description         *string       `json:"description"`
	Stage               *domain.Stage `json:"stage"`
	TeamSize            *int          `json:"team_size"`
	MonthlyRevenue      *float64      `json:"monthly_revenue"`
	SeekingFunding      *bool         `json:"seeking_funding"`
	FundingAmountTarget *float64      `json:"funding_amount_target"`
	FundingUseCase      *string       `json:"funding_use_case"`
	Website             *string       `json:"website"`
	PitchDeckURL        *string       `json:"pitch_deck_url"`
}

// ProfileUpdateHandler applies a partial profile update.
func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidArgument), nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req profileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		p, err := s.Profiles.Update(r.Context(), id, domain.ProfileUpdate{
			Tagline: req.Tagline, Description: req.Description, Stage: req.Stage,
			TeamSize: req.TeamSize, MonthlyRevenue: req.MonthlyRevenue,
			SeekingFunding: req.SeekingFunding, FundingAmountTarget: req.FundingAmountTarget,
			FundingUseCase: req.FundingUseCase, Website: req.Website, PitchDeckURL: req.PitchDeckURL,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// MatchInvestorsHandler ranks investors against the submitted profile.
func (s *Server) MatchInvestorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var p domain.StartupProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if p.CompanyName == "" {
			writeError(w, r, fmt.Errorf("%w: company_name required", domain.ErrInvalidArgument), nil)
			return
		}
		matches := s.Matcher.MatchInvestors(r.Context(), p)
		for _, m := range matches {
			observability.ObserveInvestorMatch(m.Score.Overall)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"matches":           matches,
			"total_found":       len(matches),
			"matching_criteria": s.Matcher.CriteriaExplanation(),
			"timestamp":         time.Now().UTC(),
		})
	}
}

// MatchAcceleratorsHandler ranks accelerator programs against the profile.
func (s *Server) MatchAcceleratorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var p domain.StartupProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if p.CompanyName == "" {
			writeError(w, r, fmt.Errorf("%w: company_name required", domain.ErrInvalidArgument), nil)
			return
		}
		matches := s.Matcher.MatchAccelerators(r.Context(), p)
		writeJSON(w, http.StatusOK, map[string]any{
			"matches":               matches,
			"total_found":           len(matches),
			"application_deadlines": s.Matcher.UpcomingDeadlines(r.Context()),
			"timestamp":             time.Now().UTC(),
		})
	}
}

// InvestorsHandler lists investors, optionally filtered by query params.
func (s *Server) InvestorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := domain.InvestorFilter{
			Industry: domain.Industry(q.Get("industry")),
			Stage:    domain.Stage(q.Get("stage")),
			Location: domain.Location(q.Get("location")),
		}
		if v := q.Get("ticket_size_min"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: ticket_size_min must be an integer", domain.ErrInvalidArgument), nil)
				return
			}
			f.TicketSizeMin = n
		}
		if v := q.Get("ticket_size_max"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: ticket_size_max must be an integer", domain.ErrInvalidArgument), nil)
				return
			}
			f.TicketSizeMax = n
		}
		investors := s.Store.Investors(r.Context(), f)
		writeJSON(w, http.StatusOK, map[string]any{"investors": investors, "total": len(investors)})
	}
}

func entityFilterFrom(r *http.Request) domain.EntityFilter {
	q := r.URL.Query()
	return domain.EntityFilter{
		Industry: domain.Industry(q.Get("industry")),
		Stage:    domain.Stage(q.Get("stage")),
		Location: domain.Location(q.Get("location")),
	}
}

// AcceleratorsHandler lists accelerator programs.
func (s *Server) AcceleratorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accs := s.Store.Accelerators(r.Context(), entityFilterFrom(r))
		writeJSON(w, http.StatusOK, map[string]any{"accelerators": accs, "total": len(accs)})
	}
}

// CoworkingHandler lists co-working spaces.
func (s *Server) CoworkingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spaces := s.Store.CoworkingSpaces(r.Context(), entityFilterFrom(r))
		writeJSON(w, http.StatusOK, map[string]any{"coworking_spaces": spaces, "total": len(spaces)})
	}
}

// EventsHandler lists upcoming ecosystem events.
func (s *Server) EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events := s.Store.Events(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"events": events, "total": len(events)})
	}
}

// AnalyticsHandler returns the ecosystem analytics snapshot.
func (s *Server) AnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.Analytics.Ecosystem(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// PopularQueriesHandler returns the most repeated questions.
func (s *Server) PopularQueriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidArgument), nil)
				return
			}
			limit = n
		}
		res, err := s.Analytics.PopularQueries(r.Context(), limit)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// AdminRefreshHandler reloads the ecosystem dataset. Guarded by the
// admin_key query parameter (X-Admin-Key header also accepted).
func (s *Server) AdminRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("admin_key")
		if key == "" {
			key = r.Header.Get("X-Admin-Key")
		}
		if key != s.Cfg.AdminKey {
			writeError(w, r, fmt.Errorf("%w: bad admin key", domain.ErrForbidden), nil)
			return
		}
		if err := s.Store.Refresh(r.Context()); err != nil {
			writeError(w, r, err, nil)
			return
		}
		investors, accelerators := s.Store.Counts()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "refreshed",
			"investors":    investors,
			"accelerators": accelerators,
		})
	}
}

// ReadyzHandler returns a readiness handler that probes Postgres and Redis.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 2)
		if s.DBCheck != nil {
			if err := s.DBCheck(ctx); err != nil {
				checks = append(checks, check{Name: "db", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}
		if s.RedisCheck != nil {
			if err := s.RedisCheck(ctx); err != nil {
				checks = append(checks, check{Name: "redis", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "redis", OK: true})
			}
		}
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
