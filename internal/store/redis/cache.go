package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheDocument stores the rendered document body for the read path.
func (s *Store) CacheDocument(ctx context.Context, body string, ttl time.Duration) error {
	if err := s.client.Set(ctx, KeyDocCache, body, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache document: %w", err)
	}
	return nil
}

// GetCachedDocument returns the cached body, or "" on a cache miss.
func (s *Store) GetCachedDocument(ctx context.Context) (string, error) {
	body, err := s.client.Get(ctx, KeyDocCache).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached document: %w", err)
	}
	return body, nil
}

// InvalidateDocument drops the cached body. Called after every overwrite so
// readers never see a stale snapshot longer than one request.
func (s *Store) InvalidateDocument(ctx context.Context) error {
	if err := s.client.Del(ctx, KeyDocCache).Err(); err != nil {
		return fmt.Errorf("failed to invalidate document cache: %w", err)
	}
	return nil
}
