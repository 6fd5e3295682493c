// Package redis holds the engagement counters and the document read cache.
// Counters accumulate between syncs and are folded into the snapshot by the
// library layer; losing Redis loses at most the deltas since the last sync.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store wraps a Redis client with magazine-specific operations.
type Store struct {
	client *redis.Client
}

// New creates a Store backed by the given client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
