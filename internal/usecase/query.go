package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/pkg/textx"
)

// cacheConfidenceFloor gates caching: only answers scored above this are
// worth serving again.
const cacheConfidenceFloor = 0.7

// QueryResult is the full response envelope for one processed query.
type QueryResult struct {
	Answer             string            `json:"answer"`
	Confidence         float64           `json:"confidence"`
	ProcessingTime     float64           `json:"processing_time"`
	Sources            []string          `json:"sources"`
	RelatedResources   []domain.Resource `json:"related_resources"`
	SuggestedFollowUps []string          `json:"suggested_follow_ups"`
	Timestamp          time.Time         `json:"timestamp"`
}

// QueryService orchestrates AI queries: sanitize, cache, prompt, score,
// enrich and log.
type QueryService struct {
	AI       domain.AIClient
	Cache    domain.AnswerCache
	Matcher  MatchService
	QueryLog domain.QueryLogRepository

	Model          string
	CacheTTL       time.Duration
	MinQueryLength int
	MaxQueryLength int
	Now            func() time.Time
}

// NewQueryService constructs a QueryService.
func NewQueryService(ai domain.AIClient, cache domain.AnswerCache, matcher MatchService, ql domain.QueryLogRepository, model string, cacheTTL time.Duration, minLen, maxLen int) QueryService {
	return QueryService{
		AI: ai, Cache: cache, Matcher: matcher, QueryLog: ql,
		Model: model, CacheTTL: cacheTTL,
		MinQueryLength: minLen, MaxQueryLength: maxLen,
		Now: time.Now,
	}
}

// Process answers one question, attaching confidence, sources, follow-ups
// and related ecosystem resources.
func (s QueryService) Process(ctx domain.Context, question string, profile *domain.StartupProfile, extraContext string) (QueryResult, error) {
	question = textx.SanitizeText(question)
	if err := s.validateQuestion(question); err != nil {
		return QueryResult{}, err
	}

	start := s.Now()
	key := s.cacheKey(question, profile)

	if ans, ok, err := s.Cache.Get(ctx, key); err != nil {
		slog.Warn("answer cache get failed", slog.Any("error", err))
	} else if ok {
		return s.envelope(ctx, question, profile, ans, start, true), nil
	}

	userPrompt := BuildContextualPrompt(question, profile, extraContext)
	content, err := s.AI.ChatCompletion(ctx, SystemPrompt, userPrompt)
	if err != nil {
		return QueryResult{}, fmt.Errorf("op=query.Process: %w", err)
	}

	ans := domain.Answer{
		Content:            content,
		Confidence:         ScoreResponseConfidence(content, question),
		Sources:            ExtractSources(content),
		SuggestedQuestions: FollowUpQuestions(question),
	}

	if ans.Confidence > cacheConfidenceFloor {
		if err := s.Cache.Set(ctx, key, ans, s.CacheTTL); err != nil {
			slog.Warn("answer cache set failed", slog.Any("error", err))
		}
	}

	return s.envelope(ctx, question, profile, ans, start, false), nil
}

// Stream forwards answer chunks to fn as the provider generates them. No
// confidence scoring or caching applies to streamed answers.
func (s QueryService) Stream(ctx domain.Context, question string, profile *domain.StartupProfile, extraContext string, fn func(chunk string) error) error {
	question = textx.SanitizeText(question)
	if err := s.validateQuestion(question); err != nil {
		return err
	}
	userPrompt := BuildContextualPrompt(question, profile, extraContext)
	if err := s.AI.ChatStream(ctx, SystemPrompt, userPrompt, fn); err != nil {
		return fmt.Errorf("op=query.Stream: %w", err)
	}
	return nil
}

func (s QueryService) validateQuestion(q string) error {
	if len(q) < s.MinQueryLength {
		return fmt.Errorf("%w: question must be at least %d characters", domain.ErrInvalidArgument, s.MinQueryLength)
	}
	if len(q) > s.MaxQueryLength {
		return fmt.Errorf("%w: question must be at most %d characters", domain.ErrInvalidArgument, s.MaxQueryLength)
	}
	return nil
}

// cacheKey hashes the normalized question plus the profile fields that alter
// the prompt materially, and the model so upgrades invalidate naturally.
func (s QueryService) cacheKey(question string, profile *domain.StartupProfile) string {
	industry, stage := "", ""
	if profile != nil {
		industry, stage = string(profile.Industry), string(profile.Stage)
	}
	h := sha256.Sum256([]byte(textx.NormalizeQuery(question) + "|" + industry + "|" + stage + "|" + s.Model))
	return "answer:" + hex.EncodeToString(h[:])
}

func (s QueryService) envelope(ctx domain.Context, question string, profile *domain.StartupProfile, ans domain.Answer, start time.Time, cached bool) QueryResult {
	elapsed := s.Now().Sub(start).Seconds()

	res := QueryResult{
		Answer:             ans.Content,
		Confidence:         ans.Confidence,
		ProcessingTime:     elapsed,
		Sources:            ans.Sources,
		RelatedResources:   s.Matcher.RelevantResources(ctx, profile),
		SuggestedFollowUps: ans.SuggestedQuestions,
		Timestamp:          s.Now().UTC(),
	}

	if s.QueryLog != nil {
		entry := domain.QueryLogEntry{
			Question:       question,
			Category:       CategorizeQuery(question),
			HasProfile:     profile != nil,
			ProcessingSecs: elapsed,
			Confidence:     ans.Confidence,
			CreatedAt:      s.Now().UTC(),
		}
		if err := s.QueryLog.Record(ctx, entry); err != nil {
			slog.Warn("query log record failed", slog.Any("error", err), slog.Bool("cached", cached))
		}
	}
	return res
}
