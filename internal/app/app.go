package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/regiomag/regiomag/internal/config"
	"github.com/regiomag/regiomag/internal/fixtures"
	"github.com/regiomag/regiomag/internal/httpserver"
	"github.com/regiomag/regiomag/internal/httpserver/deps"
	"github.com/regiomag/regiomag/internal/library"
	"github.com/regiomag/regiomag/internal/lock"
	"github.com/regiomag/regiomag/internal/logger"
	"github.com/regiomag/regiomag/internal/redis"
	"github.com/regiomag/regiomag/internal/scheduler"
	"github.com/regiomag/regiomag/internal/store/docstore"
	redisstore "github.com/regiomag/regiomag/internal/store/redis"
	"github.com/regiomag/regiomag/internal/syncclient"
	"github.com/regiomag/regiomag/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	docs        *docstore.Store
	redisClient *goredis.Client
	library     *library.Library
	runner      *scheduler.SyncRunner
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	_, defaultCategories, err := fixtures.Load()
	if err != nil {
		loggerClient.Errorf("Broken seed content: %v", err)
		os.Exit(1)
	}

	lib := library.New(defaultCategories)

	docs, err := docstore.Open(cfg.BadgerPath)
	if err != nil {
		loggerClient.Errorf("Failed to open document store at %s: %v", cfg.BadgerPath, err)
		os.Exit(1)
	}

	if cfg.RequireSetup {
		// Missing setup is not fatal: the app still serves, the store
		// endpoint reports the condition per request and the library is
		// filled from upstream or seed content below.
		ok, err := docs.Initialized(context.Background())
		if err != nil {
			loggerClient.Errorf("Failed to check document store: %v", err)
			os.Exit(1)
		}
		if !ok {
			loggerClient.Warn("document store not initialized, run `regiomag setup` to enable persistence")
		}
	} else {
		meta, created, err := docs.Setup(context.Background())
		if err != nil {
			loggerClient.Errorf("Failed to set up document store: %v", err)
			os.Exit(1)
		}
		if created {
			loggerClient.Info("document store created", logger.String("doc_id", meta.DocID))
		}
	}

	// Redis is optional: without it, engagement counters and the read cache
	// are simply off.
	var redisClient *goredis.Client
	var engagement *redisstore.Store
	if cfg.RedisAddr != "" {
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		engagement = redisstore.New(redisClient)
	} else {
		loggerClient.Info("redis not configured, engagement counters disabled")
	}

	client := syncclient.New(cfg.SyncEndpoint, cfg.SyncTimeout, loggerClient)
	if client.Offline() {
		loggerClient.Info("sync endpoint not configured, running in offline mode")
	}

	bootstrapper := scheduler.NewBootstrapper(docs, client, lib, loggerClient)
	if err := bootstrapper.Bootstrap(context.Background()); err != nil {
		loggerClient.Errorf("Failed to bootstrap content: %v", err)
		os.Exit(1)
	}

	runner := scheduler.NewSyncRunner(lib, docs, client, engagement, loggerClient, cfg.SyncInterval)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		Library:         lib,
		Docs:            docs,
		Engagement:      engagement,
		CacheTTL:        cfg.CacheTTL,
		StoreLock:       lock.New(),
		LockWait:        cfg.LockWait,
		LockOnFail:      cfg.LockOnFail,
		RunSync:         runner.Run,
		SyncTrigger:     runner.Trigger,
		AllowedHosts:    cfg.AllowedHosts,
		AdminCIDRS:      cfg.AdminCIDRS,
		TrustProxy:      cfg.TrustProxy,
		StoreRateBurst:  cfg.StoreRateBurst,
		StoreRatePerMin: cfg.StoreRatePerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		docs:        docs,
		redisClient: redisClient,
		library:     lib,
		runner:      runner,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting regiomag v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("regiomag %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.runner.Start(ctx)
	if a.cfg.SyncInterval > 0 {
		a.logger.Info("periodic sync enabled", logger.Duration("interval", a.cfg.SyncInterval))
	} else {
		a.logger.Info("periodic sync disabled, manual triggers only")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.runner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}
	if err := a.docs.Close(); err != nil {
		a.logger.Warnf("failed to close document store: %v", err)
	}

	a.logger.Info("✅ regiomag stopped cleanly")
	return nil
}
