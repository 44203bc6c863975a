package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	TokenServiceAddress string
	AuthSecret          string
	AuthStrategy        string
	SessionTTL          time.Duration
	RedisAddress        string
	MerchantCacheTTL    time.Duration
	CompensationWorkers int
	CompensationRetry   time.Duration
	CompensationMaxTry  int
	ShutdownTimeout     time.Duration
	LogLevel            slog.Level
}

const (
	defaultRunAddress          = ":8080"
	defaultAuthSecret          = "change-me-in-production"
	defaultAuthStrategy        = "hmac"
	defaultSessionTTL          = 24 * time.Hour
	defaultMerchantCacheTTL    = time.Minute
	defaultCompensationWorkers = 2
	defaultCompensationRetry   = 2 * time.Second
	defaultCompensationMaxTry  = 5
	defaultShutdownTimeout     = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		TokenServiceAddress: getString(lookup, "TOKEN_SERVICE_ADDRESS", ""),
		AuthSecret:          getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AuthStrategy:        getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		SessionTTL:          getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		RedisAddress:        getString(lookup, "REDIS_ADDRESS", ""),
		MerchantCacheTTL:    getDuration(lookup, "MERCHANT_CACHE_TTL", defaultMerchantCacheTTL),
		CompensationWorkers: getInt(lookup, "COMPENSATION_WORKERS", defaultCompensationWorkers),
		CompensationRetry:   getDuration(lookup, "COMPENSATION_RETRY_INTERVAL", defaultCompensationRetry),
		CompensationMaxTry:  getInt(lookup, "COMPENSATION_MAX_ATTEMPTS", defaultCompensationMaxTry),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("merchpay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sessionTTLStr      = cfg.SessionTTL.String()
		cacheTTLStr        = cfg.MerchantCacheTTL.String()
		retryStr           = cfg.CompensationRetry.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", "info")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN, in-memory storage when empty")
	fs.StringVar(&cfg.TokenServiceAddress, "t", cfg.TokenServiceAddress, "Token transfer service base URL")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing wallet sessions")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Session token format: hmac or jwt")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Wallet session lifetime")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for merchant cache")
	fs.StringVar(&cacheTTLStr, "cache-ttl", cacheTTLStr, "Merchant cache entry lifetime")
	fs.IntVar(&cfg.CompensationWorkers, "compensation-workers", cfg.CompensationWorkers, "Number of compensation workers")
	fs.StringVar(&retryStr, "compensation-retry", retryStr, "Interval between compensation attempts")
	fs.IntVar(&cfg.CompensationMaxTry, "compensation-attempts", cfg.CompensationMaxTry, "Maximum attempts per compensation")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.MerchantCacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid cache ttl: %w", err)
	}

	if cfg.CompensationRetry, err = time.ParseDuration(retryStr); err != nil {
		return nil, fmt.Errorf("invalid compensation retry interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.MerchantCacheTTL <= 0 {
		cfg.MerchantCacheTTL = defaultMerchantCacheTTL
	}

	if cfg.CompensationWorkers <= 0 {
		cfg.CompensationWorkers = defaultCompensationWorkers
	}

	if cfg.CompensationRetry <= 0 {
		cfg.CompensationRetry = defaultCompensationRetry
	}

	if cfg.CompensationMaxTry <= 0 {
		cfg.CompensationMaxTry = defaultCompensationMaxTry
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	cfg.AuthStrategy = strings.ToLower(cfg.AuthStrategy)
	if cfg.AuthStrategy != "hmac" && cfg.AuthStrategy != "jwt" {
		return nil, fmt.Errorf("unsupported auth strategy %q", cfg.AuthStrategy)
	}

	if cfg.TokenServiceAddress == "" {
		return nil, fmt.Errorf("token service address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
