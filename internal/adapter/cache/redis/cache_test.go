package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscache "github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/adapter/cache/redis"
	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

func newTestCache(t *testing.T) (*rediscache.AnswerCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rediscache.New(rdb), mr
}

func TestAnswerCache_SetGet(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t)
	ctx := context.Background()

	want := domain.Answer{
		Content:            "Apply to iHub",
		Confidence:         0.85,
		Sources:            []string{"iHub"},
		SuggestedQuestions: []string{"What next?"},
	}
	require.NoError(t, cache.Set(ctx, "answer:k1", want, time.Hour))

	got, ok, err := cache.Get(ctx, "answer:k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestAnswerCache_Miss(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t)

	_, ok, err := cache.Get(context.Background(), "answer:absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswerCache_Expiry(t *testing.T) {
	t.Parallel()
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "answer:k2", domain.Answer{Content: "x"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "answer:k2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswerCache_CorruptEntryIsMiss(t *testing.T) {
	t.Parallel()
	cache, mr := newTestCache(t)

	require.NoError(t, mr.Set("answer:bad", "{not json"))
	_, ok, err := cache.Get(context.Background(), "answer:bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnswerCache_Ping(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t)
	assert.NoError(t, cache.Ping(context.Background()))
}
