package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client), mr
}

func TestIncrementViews(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	n, err := s.IncrementViews(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.IncrementViews(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestGetCounters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.IncrementViews(ctx, "art-1")
		require.NoError(t, err)
	}
	_, err := s.IncrementShares(ctx, "art-1")
	require.NoError(t, err)
	_, err = s.IncrementViews(ctx, "art-2")
	require.NoError(t, err)

	got, err := s.GetCounters(ctx, []string{"art-1", "art-2", "art-3"})
	require.NoError(t, err)
	assert.Equal(t, Counters{Views: 3, Shares: 1}, got["art-1"])
	assert.Equal(t, Counters{Views: 1}, got["art-2"])
	_, ok := got["art-3"]
	assert.False(t, ok, "article without engagement should be omitted")
}

func TestGetCountersEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	got, err := s.GetCounters(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResetCounters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.IncrementViews(ctx, "art-1")
	require.NoError(t, err)
	_, err = s.IncrementShares(ctx, "art-2")
	require.NoError(t, err)

	require.NoError(t, s.ResetCounters(ctx, []string{"art-1", "art-2"}))

	got, err := s.GetCounters(ctx, []string{"art-1", "art-2"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDocumentCache(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	body, err := s.GetCachedDocument(ctx)
	require.NoError(t, err)
	assert.Empty(t, body, "fresh cache should miss")

	require.NoError(t, s.CacheDocument(ctx, `{"articles":[]}`, 5*time.Minute))

	body, err = s.GetCachedDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"articles":[]}`, body)

	// TTL expiry
	mr.FastForward(6 * time.Minute)
	body, err = s.GetCachedDocument(ctx)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestInvalidateDocument(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheDocument(ctx, "stale", time.Hour))
	require.NoError(t, s.InvalidateDocument(ctx))

	body, err := s.GetCachedDocument(ctx)
	require.NoError(t, err)
	assert.Empty(t, body)
}
