// Command server starts the Kenya Startup Navigator HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/ai/groq"
	aistub "github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/ai/stub"
	rediscache "github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/cache/redis"
	httpserver "github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/httpserver"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/observability"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/repo/memory"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/repo/postgres"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/app"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/config"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so /metrics exposes
	// HTTP, AI and matching instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: DB pool
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Infra: Redis answer cache
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()
	answerCache := rediscache.New(rdb)

	// Reference dataset
	store, err := memory.NewStore()
	if err != nil {
		slog.Error("ecosystem dataset load failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Repositories
	profileRepo := postgres.NewProfileRepo(pool)
	queryLogRepo := postgres.NewQueryLogRepo(pool)

	// AI client: Groq when a key is configured, local stub otherwise so the
	// service stays usable in development without credentials.
	var aicl domain.AIClient
	if cfg.GroqAPIKey != "" {
		aicl = groq.New(cfg)
		slog.Info("AI client initialized", slog.String("provider", "groq"), slog.String("model", cfg.GroqModel))
	} else {
		aicl = aistub.New()
		slog.Warn("GROQ_API_KEY not set; using stub AI client")
	}

	// Usecases
	matcher := usecase.NewMatchService(store, domain.Location(cfg.HubLocation))
	querySvc := usecase.NewQueryService(aicl, answerCache, matcher, queryLogRepo,
		cfg.GroqModel, cfg.AnswerCacheTTL, cfg.MinQueryLength, cfg.MaxQueryLength)
	profileSvc := usecase.NewProfileService(profileRepo, matcher)
	analyticsSvc := usecase.NewAnalyticsService(store, queryLogRepo)

	// Readiness checks
	dbCheck, redisCheck := app.BuildReadinessChecks(pool, answerCache)

	// HTTP server
	srv := httpserver.NewServer(cfg, querySvc, profileSvc, matcher, analyticsSvc, store, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
