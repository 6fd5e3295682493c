package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/regiomag/regiomag/internal/domain"
	"github.com/regiomag/regiomag/internal/library"
	"github.com/regiomag/regiomag/internal/lock"
	"github.com/regiomag/regiomag/internal/logger"
	"github.com/regiomag/regiomag/internal/store/docstore"
	redisstore "github.com/regiomag/regiomag/internal/store/redis"
	"github.com/regiomag/regiomag/internal/syncclient"
)

// ErrSyncInFlight means a sync run was requested while one was already
// running. Requests are not queued; the caller retries.
var ErrSyncInFlight = errors.New("sync already in flight")

// SyncRunner pushes the in-memory content set upstream and persists whatever
// the upstream acknowledges. Runs are strictly serialized: a second trigger
// while one is in flight is rejected, not queued.
type SyncRunner struct {
	lib           *library.Library
	docs          *docstore.Store
	client        *syncclient.Client
	engagement    *redisstore.Store // nil when Redis is not configured
	logger        logger.Logger
	interval      time.Duration
	inFlight      *lock.Lock
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSyncRunner creates a SyncRunner. interval 0 disables periodic runs;
// manual triggers still work.
func NewSyncRunner(
	lib *library.Library,
	docs *docstore.Store,
	client *syncclient.Client,
	engagement *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
) *SyncRunner {
	return &SyncRunner{
		lib:           lib,
		docs:          docs,
		client:        client,
		engagement:    engagement,
		logger:        log,
		interval:      interval,
		inFlight:      lock.New(),
		stopCh:        make(chan struct{}),
		manualTrigger: make(chan struct{}, 1),
	}
}

// Start begins the periodic sync loop. With interval 0 only manual triggers
// are serviced.
func (sr *SyncRunner) Start(ctx context.Context) {
	var tick <-chan time.Time
	if sr.interval > 0 {
		ticker := time.NewTicker(sr.interval)
		tick = ticker.C
		go func() {
			<-sr.stopCh
			ticker.Stop()
		}()
	}

	go func() {
		for {
			select {
			case <-tick:
				if err := sr.Run(ctx); err != nil && !errors.Is(err, ErrSyncInFlight) {
					sr.logger.Error("scheduled sync failed", logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual sync triggered")
				if err := sr.Run(ctx); err != nil && !errors.Is(err, ErrSyncInFlight) {
					sr.logger.Error("manual sync failed", logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the loop.
func (sr *SyncRunner) Stop() {
	close(sr.stopCh)
}

// Trigger requests an asynchronous sync run. Returns false if a trigger is
// already pending.
func (sr *SyncRunner) Trigger() bool {
	select {
	case sr.manualTrigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run executes one sync cycle synchronously: fold engagement counters into
// the snapshot, push it upstream, persist the acknowledged content set and
// adopt it as the new in-memory state.
func (sr *SyncRunner) Run(ctx context.Context) error {
	if !sr.inFlight.TryAcquire() {
		return ErrSyncInFlight
	}
	defer sr.inFlight.Release()

	snap := sr.lib.Snapshot()
	ids := sr.foldCounters(ctx, &snap)

	acked, err := sr.client.Sync(ctx, snap)
	if err != nil {
		return fmt.Errorf("upstream sync failed: %w", err)
	}

	rev, _, err := sr.docs.Replace(ctx, acked)
	if err != nil {
		return fmt.Errorf("failed to persist synced content: %w", err)
	}
	sr.lib.Replace(acked)

	if sr.engagement != nil {
		if err := sr.engagement.ResetCounters(ctx, ids); err != nil {
			sr.logger.Warn("failed to reset engagement counters", logger.Error(err))
		}
		if err := sr.engagement.InvalidateDocument(ctx); err != nil {
			sr.logger.Warn("failed to invalidate document cache", logger.Error(err))
		}
	}

	sr.logger.Info("sync complete",
		logger.Uint64("revision", rev),
		logger.Int("articles", len(acked.Articles)),
		logger.Int("directory", len(acked.Directory)))
	return nil
}

// foldCounters adds the accumulated Redis deltas onto the snapshot's
// engagement fields. Returns the IDs whose counters were folded.
func (sr *SyncRunner) foldCounters(ctx context.Context, snap *domain.Snapshot) []string {
	if sr.engagement == nil {
		return nil
	}

	ids := make([]string, 0, len(snap.Articles))
	for _, a := range snap.Articles {
		ids = append(ids, a.ID)
	}
	counters, err := sr.engagement.GetCounters(ctx, ids)
	if err != nil {
		sr.logger.Warn("failed to fetch engagement counters", logger.Error(err))
		return nil
	}
	if len(counters) == 0 {
		return nil
	}

	folded := make([]string, 0, len(counters))
	for i := range snap.Articles {
		c, ok := counters[snap.Articles[i].ID]
		if !ok {
			continue
		}
		snap.Articles[i].Views += int(c.Views)
		snap.Articles[i].Shares += int(c.Shares)
		folded = append(folded, snap.Articles[i].ID)
	}
	return folded
}
