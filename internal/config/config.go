package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr    string
	AppEnv      string
	CORSOrigins []string

	// Upstream listing API
	UpstreamBaseURL   string
	UpstreamTimeout   time.Duration
	UpstreamPageLimit int
	UpstreamMaxPages  int
	// Optional. When set, JWT-shaped tokens are signature checked too.
	UpstreamJWTPublicKeyPath string

	// Redis
	RedisAddrs   []string
	RedisPass    string
	RedisDB      int
	RedisCluster bool

	// Postgres
	DatabaseURL string

	// Sessions and views
	SessionTTL       time.Duration
	ViewIdleTTL      time.Duration
	SweepInterval    time.Duration
	DefaultPageSize  int
	MaxPageSize      int
	RefreshRateLimit int64
	RefreshWindow    time.Duration

	CurrencySymbol string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		AppEnv:      getEnv("APP_ENV", "production"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", nil),

		UpstreamBaseURL:          getEnv("UPSTREAM_BASE_URL", "http://localhost:4000/api"),
		UpstreamTimeout:          getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		UpstreamPageLimit:        getEnvInt("UPSTREAM_PAGE_LIMIT", 100),
		UpstreamMaxPages:         getEnvInt("UPSTREAM_MAX_PAGES", 50),
		UpstreamJWTPublicKeyPath: getEnv("UPSTREAM_JWT_PUBLIC_KEY_PATH", ""),

		RedisAddrs:   getEnvSlice("REDIS_ADDR", []string{"localhost:6379"}),
		RedisPass:    getEnv("REDIS_PASS", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisCluster: strings.ToLower(getEnv("REDIS_CLUSTER", "false")) == "true",

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SessionTTL:       getEnvDuration("SESSION_TTL", 12*time.Hour),
		ViewIdleTTL:      getEnvDuration("VIEW_IDLE_TTL", 30*time.Minute),
		SweepInterval:    getEnvDuration("VIEW_SWEEP_INTERVAL", time.Minute),
		DefaultPageSize:  getEnvInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:      getEnvInt("MAX_PAGE_SIZE", 100),
		RefreshRateLimit: int64(getEnvInt("REFRESH_RATE_LIMIT", 30)),
		RefreshWindow:    getEnvDuration("REFRESH_RATE_WINDOW", time.Minute),

		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "KES"),
	}
}

// Development reports whether APP_ENV asks for development logging.
func (c AppConfig) Development() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
