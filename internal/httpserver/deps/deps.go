package deps

import (
	"context"
	"time"

	"github.com/regiomag/regiomag/internal/config"
	"github.com/regiomag/regiomag/internal/library"
	"github.com/regiomag/regiomag/internal/lock"
	"github.com/regiomag/regiomag/internal/logger"
	"github.com/regiomag/regiomag/internal/store/docstore"
	redisstore "github.com/regiomag/regiomag/internal/store/redis"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Library    *library.Library
	Docs       *docstore.Store
	Engagement *redisstore.Store // nil when Redis is not configured
	CacheTTL   time.Duration

	StoreLock  *lock.Lock
	LockWait   time.Duration
	LockOnFail config.LockFailureMode

	RunSync     func(ctx context.Context) error // synchronous sync cycle
	SyncTrigger func() bool                     // asynchronous sync request

	AllowedHosts    []string
	AdminCIDRS      []string // IPs allowed on the CMS and ops endpoints
	TrustProxy      bool
	StoreRateBurst  int
	StoreRatePerMin int
}
