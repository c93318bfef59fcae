package postgres

import (
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// QueryLogRepo appends query analytics rows and aggregates them.
type QueryLogRepo struct{ Pool PgxPool }

// NewQueryLogRepo constructs a QueryLogRepo with the given pool.
func NewQueryLogRepo(p PgxPool) *QueryLogRepo { return &QueryLogRepo{Pool: p} }

// Record appends one analytics row per processed query.
func (r *QueryLogRepo) Record(ctx domain.Context, e domain.QueryLogEntry) error {
	tracer := otel.Tracer("repo.querylog")
	ctx, span := tracer.Start(ctx, "querylog.Record")
	defer span.End()
	q := `INSERT INTO query_log (question, category, has_profile, processing_secs, confidence, created_at)
	VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.Pool.Exec(ctx, q, e.Question, e.Category, e.HasProfile, e.ProcessingSecs, e.Confidence, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("op=querylog.record: %w", err)
	}
	return nil
}

// Popular aggregates repeated questions, most frequent first.
func (r *QueryLogRepo) Popular(ctx domain.Context, limit int) ([]domain.PopularQuery, error) {
	tracer := otel.Tracer("repo.querylog")
	ctx, span := tracer.Start(ctx, "querylog.Popular")
	defer span.End()
	q := `SELECT lower(question) AS query, COUNT(*) AS cnt
	FROM query_log
	GROUP BY lower(question)
	ORDER BY cnt DESC, query ASC
	LIMIT $1`
	rows, err := r.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("op=querylog.popular: %w", err)
	}
	defer rows.Close()
	var out []domain.PopularQuery
	for rows.Next() {
		var p domain.PopularQuery
		if err := rows.Scan(&p.Query, &p.Count); err != nil {
			return nil, fmt.Errorf("op=querylog.popular: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=querylog.popular: %w", err)
	}
	return out, nil
}

// Stats summarizes the full query log.
func (r *QueryLogRepo) Stats(ctx domain.Context) (domain.QueryStats, error) {
	tracer := otel.Tracer("repo.querylog")
	ctx, span := tracer.Start(ctx, "querylog.Stats")
	defer span.End()

	var s domain.QueryStats
	row := r.Pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(AVG(processing_secs),0), COALESCE(AVG(confidence),0) FROM query_log`)
	if err := row.Scan(&s.TotalQueries, &s.AvgProcessingSecs, &s.AvgConfidence); err != nil {
		return domain.QueryStats{}, fmt.Errorf("op=querylog.stats: %w", err)
	}

	rows, err := r.Pool.Query(ctx, `SELECT category, COUNT(*) FROM query_log GROUP BY category`)
	if err != nil {
		return domain.QueryStats{}, fmt.Errorf("op=querylog.stats: %w", err)
	}
	defer rows.Close()
	s.CategoryCounts = map[string]int64{}
	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return domain.QueryStats{}, fmt.Errorf("op=querylog.stats: %w", err)
		}
		s.CategoryCounts[cat] = n
	}
	if err := rows.Err(); err != nil {
		return domain.QueryStats{}, fmt.Errorf("op=querylog.stats: %w", err)
	}
	return s, nil
}
