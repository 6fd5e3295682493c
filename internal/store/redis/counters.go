package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Counters holds the accumulated engagement deltas for one article.
type Counters struct {
	Views  int64
	Shares int64
}

// IncrementViews bumps the view counter for an article and returns the new
// value.
func (s *Store) IncrementViews(ctx context.Context, articleID string) (int64, error) {
	n, err := s.client.Incr(ctx, ViewsKey(articleID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return n, nil
}

// IncrementShares bumps the share counter for an article and returns the new
// value.
func (s *Store) IncrementShares(ctx context.Context, articleID string) (int64, error) {
	n, err := s.client.Incr(ctx, SharesKey(articleID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment shares: %w", err)
	}
	return n, nil
}

// GetCounters fetches the counters for the given article IDs in one pipeline.
// Articles with no recorded engagement are omitted from the result.
func (s *Store) GetCounters(ctx context.Context, articleIDs []string) (map[string]Counters, error) {
	if len(articleIDs) == 0 {
		return map[string]Counters{}, nil
	}

	pipe := s.client.Pipeline()
	views := make([]*redis.StringCmd, len(articleIDs))
	shares := make([]*redis.StringCmd, len(articleIDs))
	for i, id := range articleIDs {
		views[i] = pipe.Get(ctx, ViewsKey(id))
		shares[i] = pipe.Get(ctx, SharesKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to fetch counters: %w", err)
	}

	result := make(map[string]Counters)
	for i, id := range articleIDs {
		c := Counters{Views: counterValue(views[i]), Shares: counterValue(shares[i])}
		if c.Views != 0 || c.Shares != 0 {
			result[id] = c
		}
	}
	return result, nil
}

// ResetCounters deletes the counters for the given articles. Called after a
// sync folds the deltas into the persisted snapshot.
func (s *Store) ResetCounters(ctx context.Context, articleIDs []string) error {
	if len(articleIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(articleIDs)*2)
	for _, id := range articleIDs {
		keys = append(keys, ViewsKey(id), SharesKey(id))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset counters: %w", err)
	}
	return nil
}

func counterValue(cmd *redis.StringCmd) int64 {
	val, err := cmd.Result()
	if err != nil {
		return 0
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
