package usecase

import (
	"fmt"
	"time"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// EcosystemAnalytics summarizes platform usage and dataset coverage.
type EcosystemAnalytics struct {
	TotalQueries       int64            `json:"total_queries"`
	AvgProcessingTime  float64          `json:"avg_processing_time"`
	AvgConfidenceScore float64          `json:"avg_confidence_score"`
	PopularCategories  map[string]int64 `json:"popular_categories"`
	TotalInvestors     int              `json:"total_investors"`
	TotalAccelerators  int              `json:"total_accelerators"`
	TrendingIndustries []string         `json:"trending_industries"`
	GeneratedAt        time.Time        `json:"generated_at"`
	DataPeriod         string           `json:"data_period"`
}

// PopularQueriesResult wraps the popular-queries listing.
type PopularQueriesResult struct {
	PopularQueries       []domain.PopularQuery `json:"popular_queries"`
	TotalQueriesAnalyzed int64                 `json:"total_queries_analyzed"`
	Timestamp            time.Time             `json:"timestamp"`
}

// AnalyticsService aggregates query-log and dataset statistics.
type AnalyticsService struct {
	Store    domain.EcosystemStore
	QueryLog domain.QueryLogRepository
	Now      func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(store domain.EcosystemStore, ql domain.QueryLogRepository) AnalyticsService {
	return AnalyticsService{Store: store, QueryLog: ql, Now: time.Now}
}

// Ecosystem assembles the full analytics snapshot.
func (s AnalyticsService) Ecosystem(ctx domain.Context) (EcosystemAnalytics, error) {
	stats, err := s.QueryLog.Stats(ctx)
	if err != nil {
		return EcosystemAnalytics{}, fmt.Errorf("op=analytics.Ecosystem: %w", err)
	}
	investors, accelerators := s.Store.Counts()

	return EcosystemAnalytics{
		TotalQueries:       stats.TotalQueries,
		AvgProcessingTime:  stats.AvgProcessingSecs,
		AvgConfidenceScore: stats.AvgConfidence,
		PopularCategories:  stats.CategoryCounts,
		TotalInvestors:     investors,
		TotalAccelerators:  accelerators,
		TrendingIndustries: []string{"fintech", "agritech", "healthtech"},
		GeneratedAt:        s.Now().UTC(),
		DataPeriod:         "Last 30 days",
	}, nil
}

// PopularQueries returns the most repeated questions, limited to at most
// limit entries (default 10, max 50).
func (s AnalyticsService) PopularQueries(ctx domain.Context, limit int) (PopularQueriesResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	popular, err := s.QueryLog.Popular(ctx, limit)
	if err != nil {
		return PopularQueriesResult{}, fmt.Errorf("op=analytics.PopularQueries: %w", err)
	}
	stats, err := s.QueryLog.Stats(ctx)
	if err != nil {
		return PopularQueriesResult{}, fmt.Errorf("op=analytics.PopularQueries: %w", err)
	}
	return PopularQueriesResult{
		PopularQueries:       popular,
		TotalQueriesAnalyzed: stats.TotalQueries,
		Timestamp:            s.Now().UTC(),
	}, nil
}
