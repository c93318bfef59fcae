package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/ai/groq"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/config"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:          "test",
		GroqAPIKey:      "test-key",
		GroqBaseURL:     baseURL,
		GroqModel:       "llama3-70b-8192",
		GroqMaxTokens:   256,
		GroqTemperature: 0.7,
	}
}

func TestChatCompletion_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3-70b-8192", req["model"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Karibu Kenya!"}},
			},
		})
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	got, err := c.ChatCompletion(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "Karibu Kenya!", got)
}

func TestChatCompletion_RetriesOn500(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	got, err := c.ChatCompletion(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestChatCompletion_PermanentOn400(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	_, err := c.ChatCompletion(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatCompletion_RateLimitSurfaced(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	_, err := c.ChatCompletion(context.Background(), "s", "u")
	assert.ErrorIs(t, err, domain.ErrUpstreamRateLimit)
}

func TestChatCompletion_MissingKey(t *testing.T) {
	t.Parallel()
	cfg := testConfig("http://localhost:0")
	cfg.GroqAPIKey = ""
	c := groq.New(cfg)
	_, err := c.ChatCompletion(context.Background(), "s", "u")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestChatStream(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		lines := []string{
			`data: {"choices":[{"delta":{"content":"Habari "}}]}`,
			``,
			`data: {"choices":[{"delta":{"content":"yako"}}]}`,
			``,
			`data: [DONE]`,
		}
		for _, l := range lines {
			_, _ = w.Write([]byte(l + "\n"))
		}
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	var got strings.Builder
	err := c.ChatStream(context.Background(), "s", "u", func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Habari yako", got.String())
}

func TestChatStream_Non2xx(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	err := c.ChatStream(context.Background(), "s", "u", func(string) error { return nil })
	require.Error(t, err)
}
