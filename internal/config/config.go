// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Token store backends selectable with BLOGPANEL_STORE.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIURL        *url.URL
	MediaURL      *url.URL
	ListenAddr    string
	DBPath        string
	SecretKey     []byte // 32 bytes, or nil when BLOGPANEL_SECRET_KEY is unset.
	Store         string
	RedisAddr     string
	RedisTTL      time.Duration
	APITimeout    time.Duration
	SecureCookies bool
	LogLevel      slog.Level
	LogFormat     string
	OTLPEndpoint  string
	OTLPInsecure  bool
}

// HasSecretKey reports whether persisted credentials can be encrypted.
func (c *Config) HasSecretKey() bool {
	return len(c.SecretKey) == 32
}

// Load reads configuration from environment variables and returns a validated Config.
// Every variable is optional:
// BLOGPANEL_API_URL (http://127.0.0.1:8000/api/), BLOGPANEL_MEDIA_URL (API origin),
// BLOGPANEL_LISTEN_ADDR (127.0.0.1:8080), BLOGPANEL_DB_PATH (blogpanel.db),
// BLOGPANEL_SECRET_KEY (64 hex chars), BLOGPANEL_STORE (sqlite),
// BLOGPANEL_REDIS_ADDR (127.0.0.1:6379), BLOGPANEL_REDIS_TTL (720h),
// BLOGPANEL_API_TIMEOUT (10s), BLOGPANEL_SECURE_COOKIES (false),
// BLOGPANEL_LOG_LEVEL (info), BLOGPANEL_LOG_FORMAT (text),
// OTEL_EXPORTER_OTLP_ENDPOINT (tracing off), OTEL_EXPORTER_OTLP_INSECURE (false).
func Load() (*Config, error) {
	apiURL, err := parseBaseURL("BLOGPANEL_API_URL", envOr("BLOGPANEL_API_URL", "http://127.0.0.1:8000/api/"))
	if err != nil {
		return nil, err
	}

	mediaURL := &url.URL{Scheme: apiURL.Scheme, Host: apiURL.Host, Path: "/"}
	if v, ok := os.LookupEnv("BLOGPANEL_MEDIA_URL"); ok && v != "" {
		mediaURL, err = parseBaseURL("BLOGPANEL_MEDIA_URL", v)
		if err != nil {
			return nil, err
		}
	}

	secretKey, err := parseSecretKey()
	if err != nil {
		return nil, err
	}

	store := strings.ToLower(envOr("BLOGPANEL_STORE", StoreSQLite))
	switch store {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("BLOGPANEL_STORE must be one of sqlite, redis, memory, got %q", store)
	}

	redisTTL, err := parseDuration("BLOGPANEL_REDIS_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parseDuration("BLOGPANEL_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	if apiTimeout <= 0 {
		return nil, fmt.Errorf("BLOGPANEL_API_TIMEOUT must be positive, got %s", apiTimeout)
	}

	secureCookies, err := parseBool("BLOGPANEL_SECURE_COOKIES")
	if err != nil {
		return nil, err
	}

	otlpInsecure, err := parseBool("OTEL_EXPORTER_OTLP_INSECURE")
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(envOr("BLOGPANEL_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("BLOGPANEL_LOG_LEVEL: %w", err)
	}

	format := strings.ToLower(envOr("BLOGPANEL_LOG_FORMAT", "text"))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("BLOGPANEL_LOG_FORMAT must be text or json, got %q", format)
	}

	return &Config{
		APIURL:        apiURL,
		MediaURL:      mediaURL,
		ListenAddr:    envOr("BLOGPANEL_LISTEN_ADDR", "127.0.0.1:8080"),
		DBPath:        envOr("BLOGPANEL_DB_PATH", "blogpanel.db"),
		SecretKey:     secretKey,
		Store:         store,
		RedisAddr:     envOr("BLOGPANEL_REDIS_ADDR", "127.0.0.1:6379"),
		RedisTTL:      redisTTL,
		APITimeout:    apiTimeout,
		SecureCookies: secureCookies,
		LogLevel:      level,
		LogFormat:     format,
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:  otlpInsecure,
	}, nil
}

// NewLogger builds the process logger for the configured level and format.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func parseBaseURL(key, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s has invalid URL %q: %w", key, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s must be an http or https URL, got %q", key, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%s must include a host, got %q", key, raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func parseSecretKey() ([]byte, error) {
	v, ok := os.LookupEnv("BLOGPANEL_SECRET_KEY")
	if !ok || v == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("BLOGPANEL_SECRET_KEY must be hex-encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("BLOGPANEL_SECRET_KEY must be 64 hex chars (32 bytes), got %d bytes", len(key))
	}
	return key, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	return d, nil
}

func parseBool(key string) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return b, nil
}
