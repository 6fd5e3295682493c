package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LockFailureMode decides what the store endpoint does when the exclusive
// lock cannot be acquired within the configured wait.
type LockFailureMode string

const (
	// LockFail answers the request with an error envelope. Default.
	LockFail LockFailureMode = "fail"
	// LockProceed continues unguarded with a warning. This reproduces the
	// behavior of the original hosted-script deployment and trades mutual
	// exclusion for availability.
	LockProceed LockFailureMode = "proceed"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Document store (server half)
	BadgerPath   string          // path to the Badger data directory
	LockWait     time.Duration   // bounded wait for the store lock (default 10s)
	LockOnFail   LockFailureMode // "fail" | "proceed"
	RequireSetup bool            // true => store endpoint errors until `regiomag setup` ran

	// Sync client (client half)
	SyncEndpoint string        // remote store URL; empty or "self" => in-process echo/offline mode
	SyncTimeout  time.Duration // HTTP timeout for sync/fetch calls
	SyncInterval time.Duration // periodic auto-sync; 0 disables (manual sync only)

	// Redis (engagement counters + read cache)
	RedisAddr           string // empty => counters disabled
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout per ping attempt
	RedisWarnThreshold  int           // warn after this many attempts
	CacheTTL            time.Duration // snapshot read-cache TTL

	// Access restrictions
	AdminCIDRS   []string // IPs/CIDRs allowed to reach the CMS routes; empty = open
	AllowedHosts []string // optional Host header allow-list for the CMS routes
	TrustProxy   bool     // trust X-Forwarded-For (reverse proxy deployments)

	// Store endpoint rate limiting
	StoreRateBurst  int // bucket size per client IP
	StoreRatePerMin int // refill per minute; 0 disables limiting
}

func Load() *Config {
	cfg := &Config{
		ListenPort:      getenv("REGIOMAG_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("REGIOMAG_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("REGIOMAG_LOG_LEVEL", "info"),
		PrettyLog: mustBool("REGIOMAG_PRETTY_LOG", true),

		BadgerPath:   getenv("REGIOMAG_BADGER_PATH", "./regiomag-data"),
		LockWait:     mustDuration("REGIOMAG_LOCK_WAIT", 10*time.Second),
		LockOnFail:   lockMode(getenv("REGIOMAG_LOCK_ON_FAIL", "fail")),
		RequireSetup: mustBool("REGIOMAG_REQUIRE_SETUP", true),

		SyncEndpoint: getenv("REGIOMAG_SYNC_ENDPOINT", ""),
		SyncTimeout:  mustDuration("REGIOMAG_SYNC_TIMEOUT", 30*time.Second),
		SyncInterval: mustDuration("REGIOMAG_SYNC_INTERVAL", 0),

		RedisAddr:           getenv("REGIOMAG_REDIS_ADDR", ""),
		RedisUser:           getenv("REGIOMAG_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("REGIOMAG_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("REGIOMAG_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
		CacheTTL:            mustDuration("REGIOMAG_CACHE_TTL", 5*time.Minute),

		AdminCIDRS:   splitAndTrim(getenv("REGIOMAG_ADMIN_CIDRS", "")),
		AllowedHosts: splitAndTrim(getenv("REGIOMAG_ALLOWED_HOSTS", "")),
		TrustProxy:   mustBool("REGIOMAG_TRUST_PROXY", false),

		StoreRateBurst:  getenvInt("REGIOMAG_STORE_RATE_BURST", 10),
		StoreRatePerMin: getenvInt("REGIOMAG_STORE_RATE_PER_MIN", 60),
	}

	return cfg
}

func lockMode(v string) LockFailureMode {
	switch LockFailureMode(strings.ToLower(v)) {
	case LockProceed:
		return LockProceed
	case LockFail:
		return LockFail
	default:
		panic(fmt.Sprintf("invalid REGIOMAG_LOCK_ON_FAIL value %q (want fail|proceed)", v))
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
