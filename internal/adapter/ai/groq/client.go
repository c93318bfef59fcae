// Package groq implements the AI client against Groq's OpenAI-compatible
// chat completions API.
package groq

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"log/slog"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/observability"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/config"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// Client implements domain.AIClient using Groq chat completions.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Groq client. Groq is fast; 60s covers even long
// completions with headroom.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) getBackoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()

	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier

	return expo
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

// ChatCompletion calls Groq chat completions and returns the full assistant
// message. 429 and 5xx responses are retried with exponential backoff; other
// 4xx responses fail permanently.
func (c *Client) ChatCompletion(ctx domain.Context, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		slog.Error("Groq API key missing", slog.String("provider", "groq"))
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrInvalidArgument)
	}

	b, _ := json.Marshal(chatRequest{
		Model:       c.cfg.GroqModel,
		MaxTokens:   c.cfg.GroqMaxTokens,
		Temperature: c.cfg.GroqTemperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.AIRequestsTotal.WithLabelValues("groq", "chat").Inc()
		observability.AIRequestDuration.WithLabelValues("groq", "chat").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			slog.Error("failed to read response body", slog.String("provider", "groq"), slog.Any("error", err))
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			// Retryable: let backoff handle retries
			slog.Warn("ai provider rate limited", slog.String("provider", "groq"), slog.String("op", "chat"), slog.Int("status", resp.StatusCode), slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("%w: groq status 429", domain.ErrUpstreamRateLimit)
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Client error: non-retryable
			slog.Warn("ai provider 4xx", slog.String("provider", "groq"), slog.String("op", "chat"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.GroqModel), slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// 5xx and others: retryable
			slog.Error("ai provider non-2xx", slog.String("provider", "groq"), slog.String("op", "chat"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.GroqModel), slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			slog.Error("ai provider decode error", slog.String("provider", "groq"), slog.String("op", "chat"), slog.Any("error", err))
			return err
		}
		return nil
	}
	expo := c.getBackoffConfig()
	bo := backoff.WithContext(expo, ctx)

	if err := backoff.Retry(op, bo); err != nil {
		slog.Error("Groq API failed after retries", slog.String("provider", "groq"), slog.Any("error", err))
		if errors.Is(err, domain.ErrUpstreamRateLimit) {
			return "", fmt.Errorf("groq api failed: %w", err)
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: groq api: %v", domain.ErrUpstreamTimeout, err)
		}
		return "", fmt.Errorf("groq api failed: %w", err)
	}

	if len(out.Choices) == 0 {
		slog.Error("Groq API returned empty choices", slog.String("provider", "groq"))
		return "", errors.New("empty choices from Groq API")
	}
	return out.Choices[0].Message.Content, nil
}

// ChatStream streams assistant content chunks via fn. Streaming requests are
// not retried; a broken stream surfaces to the caller.
func (c *Client) ChatStream(ctx domain.Context, systemPrompt, userPrompt string, fn func(chunk string) error) error {
	if c.cfg.GroqAPIKey == "" {
		return fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrInvalidArgument)
	}

	b, _ := json.Marshal(chatRequest{
		Model:       c.cfg.GroqModel,
		MaxTokens:   c.cfg.GroqMaxTokens,
		Temperature: c.cfg.GroqTemperature,
		Stream:      true,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})

	start := time.Now()
	r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(b))
	r.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	r.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(r)
	observability.AIRequestsTotal.WithLabelValues("groq", "chat_stream").Inc()
	if err != nil {
		return fmt.Errorf("groq stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: groq status 429", domain.ErrUpstreamRateLimit)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		slog.Error("ai provider non-2xx", slog.String("provider", "groq"), slog.String("op", "chat_stream"), slog.Int("status", resp.StatusCode), slog.String("body", snippet(bodyBytes, 512)))
		return fmt.Errorf("groq stream status %d", resp.StatusCode)
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimSpace(line[len("data: "):])
		if payload == "[DONE]" {
			break
		}
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// skip malformed keep-alive lines
			continue
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if err := fn(chunk.Choices[0].Delta.Content); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("groq stream read: %w", err)
	}
	observability.AIRequestDuration.WithLabelValues("groq", "chat_stream").Observe(time.Since(start).Seconds())
	return nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
