// Package config loads service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Loader kinds.
const (
	LoaderWebhook  = "webhook"
	LoaderSQL      = "sql"
	LoaderWorkbook = "xlsx"
)

// Config holds application configuration.
type Config struct {
	Port string

	LogLevel  string
	LogPretty bool
	LogFile   string

	CacheTTL time.Duration

	Loader           string
	UpstreamURL      string
	UpstreamDebugURL string
	UpstreamTimeout  time.Duration
	UpstreamRetries  int
	DatabaseURL      string
	XLSXPath         string

	// RedisURL enables the snapshot mirror when set.
	RedisURL  string
	MirrorTTL time.Duration

	// RefreshSchedule is a cron spec for periodic refreshes; empty disables them.
	RefreshSchedule string

	ExposeErrors bool
	CORSOrigins  []string

	// BankMarkers are the name substrings marking a finance provider.
	BankMarkers []string
}

// Load reads .env if present, then the process environment. Variables
// already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        p.boolean("LOG_PRETTY", false),
		LogFile:          getEnv("LOG_FILE", ""),
		CacheTTL:         p.duration("CACHE_TTL", 30*time.Minute),
		Loader:           strings.ToLower(getEnv("LOADER", LoaderWebhook)),
		UpstreamURL:      getEnv("UPSTREAM_URL", ""),
		UpstreamDebugURL: getEnv("UPSTREAM_DEBUG_URL", ""),
		UpstreamTimeout:  p.duration("UPSTREAM_TIMEOUT", 30*time.Second),
		UpstreamRetries:  p.integer("UPSTREAM_RETRIES", 2),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		XLSXPath:         getEnv("XLSX_PATH", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		MirrorTTL:        p.duration("MIRROR_TTL", 24*time.Hour),
		RefreshSchedule:  getEnv("REFRESH_SCHEDULE", ""),
		ExposeErrors:     p.boolean("EXPOSE_ERRORS", false),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		BankMarkers:      splitList(getEnv("PROVIDER_BANK_MARKERS", "BANK")),
	}
	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// Validate checks that the selected loader has what it needs.
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.UpstreamRetries < 0 {
		return fmt.Errorf("UPSTREAM_RETRIES must not be negative, got %d", c.UpstreamRetries)
	}
	switch c.Loader {
	case LoaderWebhook:
		if c.UpstreamURL == "" {
			return errors.New("UPSTREAM_URL is required for the webhook loader")
		}
	case LoaderSQL:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the sql loader")
		}
	case LoaderWorkbook:
		if c.XLSXPath == "" {
			return errors.New("XLSX_PATH is required for the xlsx loader")
		}
	default:
		return fmt.Errorf("unknown LOADER %q (want %s, %s or %s)", c.Loader, LoaderWebhook, LoaderSQL, LoaderWorkbook)
	}
	if len(c.BankMarkers) == 0 {
		return errors.New("PROVIDER_BANK_MARKERS must name at least one marker")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser reads typed variables, keeping the first error.
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, value, err)
	}
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return n
}

func (p *parser) boolean(key string, def bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, err)
		return def
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
