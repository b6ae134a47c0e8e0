// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"finfetcher/internal/feature/candles/domain/cutoff"
)

// Config holds all configuration for the server and the ingest job.
type Config struct {
	HTTP    HTTPConfig
	DB      DBConfig
	Redis   RedisConfig
	Yahoo   YahooConfig
	Fetch   FetchConfig
	Ingest  IngestConfig
	Log     LogConfig
	JWT     JWTConfig
	Cutoffs cutoff.Overrides
}

type HTTPConfig struct {
	Addr string
}

// DBConfig selects the gorm dialect. Driver is "sqlite" or "postgres".
type DBConfig struct {
	Driver         string
	DSN            string
	ConnectTimeout time.Duration
	AutoMigrate    bool
}

// RedisConfig leaves caching disabled when Addr is empty.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	CandleTTL time.Duration
	InfoTTL   time.Duration
}

type YahooConfig struct {
	BaseURL     string
	FallbackURL string
	Timeout     time.Duration
}

type FetchConfig struct {
	Attempts   int
	RetryDelay time.Duration
}

type IngestConfig struct {
	Cron        string
	Period      string
	Intervals   []string
	Concurrency int
	RateLimit   int
	RateWindow  time.Duration
	// RefreshAt is the daily wall-clock time (UTC) after which stored
	// candles are considered stale by the cache.
	RefreshAt cutoff.TimeOfDay
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// Load reads .env when present, then the environment. CUTOFFS_FILE, when
// set, names a YAML overrides document applied on top of the built-in
// cutoff table.
func Load() (*Config, error) {
	_ = godotenv.Load()

	refreshAt, err := parseClock(getEnv("CACHE_REFRESH_AT", "08:00"))
	if err != nil {
		return nil, fmt.Errorf("CACHE_REFRESH_AT: %w", err)
	}

	cfg := &Config{
		HTTP: HTTPConfig{Addr: getEnv("HTTP_ADDR", ":8080")},
		DB: DBConfig{
			Driver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:            getEnv("DB_DSN", "finfetcher.db"),
			ConnectTimeout: getDuration("DB_CONNECT_TIMEOUT", 60*time.Second),
			AutoMigrate:    getBool("RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        getInt("REDIS_DB", 0),
			CandleTTL: getDuration("CANDLE_CACHE_TTL", 5*time.Minute),
			InfoTTL:   getDuration("SYMBOL_INFO_CACHE_TTL", 24*time.Hour),
		},
		Yahoo: YahooConfig{
			BaseURL:     os.Getenv("YAHOO_BASE_URL"),
			FallbackURL: os.Getenv("YAHOO_FALLBACK_URL"),
			Timeout:     getDuration("YAHOO_TIMEOUT", 10*time.Second),
		},
		Fetch: FetchConfig{
			Attempts:   getInt("FETCH_ATTEMPTS", 10),
			RetryDelay: getDuration("FETCH_RETRY_DELAY", 2*time.Second),
		},
		Ingest: IngestConfig{
			Cron:        os.Getenv("INGEST_CRON"),
			Period:      getEnv("INGEST_PERIOD", "4y"),
			Intervals:   getList("INGEST_INTERVALS", []string{"1d", "1wk", "1mo"}),
			Concurrency: getInt("INGEST_CONCURRENCY", 4),
			RateLimit:   getInt("INGEST_RATE_LIMIT", 60),
			RateWindow:  getDuration("INGEST_RATE_WINDOW", time.Minute),
			RefreshAt:   refreshAt,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getInt("LOG_MAX_AGE_DAYS", 28),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    getDuration("JWT_TTL", time.Hour),
		},
	}

	if path := os.Getenv("CUTOFFS_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading cutoffs file: %w", err)
		}
		if cfg.Cutoffs, err = cutoff.ParseOverridesYAML(raw); err != nil {
			return nil, fmt.Errorf("cutoffs file %s: %w", path, err)
		}
		// Fail at startup rather than on the first fetch.
		if _, err := cutoff.Builtin.Merge(cfg.Cutoffs); err != nil {
			return nil, fmt.Errorf("cutoffs file %s: %w", path, err)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// parseClock parses "HH:MM".
func parseClock(s string) (cutoff.TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return cutoff.TimeOfDay{}, err
	}
	return cutoff.NewTimeOfDay(t.Hour(), t.Minute())
}
