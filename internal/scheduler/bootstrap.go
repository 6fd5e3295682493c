package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/regiomag/regiomag/internal/fixtures"
	"github.com/regiomag/regiomag/internal/library"
	"github.com/regiomag/regiomag/internal/logger"
	"github.com/regiomag/regiomag/internal/store/docstore"
	"github.com/regiomag/regiomag/internal/syncclient"
)

// Bootstrapper fills the library on startup. Preference order: the local
// document store, then the upstream endpoint, then the embedded seed content.
// The seed is never written to the store; it only exists in memory until the
// first explicit sync.
type Bootstrapper struct {
	docs   *docstore.Store
	client *syncclient.Client
	lib    *library.Library
	logger logger.Logger
}

// NewBootstrapper creates a Bootstrapper.
func NewBootstrapper(docs *docstore.Store, client *syncclient.Client, lib *library.Library, log logger.Logger) *Bootstrapper {
	return &Bootstrapper{docs: docs, client: client, lib: lib, logger: log}
}

// Bootstrap loads the initial content set into the library. An uninitialized
// document store is not fatal here; the library still gets upstream or seed
// content and the store endpoint reports the missing setup per request.
func (b *Bootstrapper) Bootstrap(ctx context.Context) error {
	initialized := true
	snap, rev, err := b.docs.Load(ctx)
	switch {
	case errors.Is(err, docstore.ErrNotInitialized):
		initialized = false
		b.logger.Warn("document store not initialized, run setup to enable persistence")
	case err != nil:
		return fmt.Errorf("failed to load document store: %w", err)
	}

	if initialized && !snap.IsEmpty() {
		b.lib.Replace(snap)
		b.logger.Info("loaded content from document store",
			logger.Uint64("revision", rev),
			logger.Int("articles", len(snap.Articles)),
			logger.Int("directory", len(snap.Directory)))
		return nil
	}

	remote, err := b.client.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch upstream content: %w", err)
	}
	if remote != nil && !remote.IsEmpty() {
		if initialized {
			if _, _, err := b.docs.Replace(ctx, *remote); err != nil {
				return fmt.Errorf("failed to persist upstream content: %w", err)
			}
		}
		b.lib.Replace(*remote)
		b.logger.Info("adopted content from upstream",
			logger.Int("articles", len(remote.Articles)),
			logger.Int("directory", len(remote.Directory)))
		return nil
	}

	seed, _, err := fixtures.Load()
	if err != nil {
		return fmt.Errorf("failed to load seed content: %w", err)
	}
	b.lib.Replace(seed)
	b.logger.Info("no stored or upstream content, using seed content",
		logger.Int("articles", len(seed.Articles)),
		logger.Int("directory", len(seed.Directory)))
	return nil
}
