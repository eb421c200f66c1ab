package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
	SessionStoreMongo  = "mongo"
)

type Config struct {
	Port     string
	LogLevel string

	// Shopify app
	APIKey     string
	APISecret  string
	HostName   string
	Scopes     []string
	APIVersion string
	APIRetries int

	MongoURI      string
	MongoDatabase string

	SessionStore  string
	RedisAddr     string
	RedisPassword string
	OAuthStateTTL time.Duration

	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

// Load reads the configuration from the environment, applying defaults
func Load() Config {
	return Config{
		Port:     getenv("PORT", "3000"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		APIKey:     os.Getenv("SHOPIFY_API_KEY"),
		APISecret:  os.Getenv("SHOPIFY_API_SECRET"),
		HostName:   strings.TrimRight(os.Getenv("SHOPIFY_HOST"), "/"),
		Scopes:     splitCSV(getenv("SHOPIFY_SCOPES", "write_products,read_products")),
		APIVersion: getenv("SHOPIFY_API_VERSION", "2023-01"),
		APIRetries: getenvInt("SHOPIFY_API_RETRIES", 3),

		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "shopify_bundles"),

		SessionStore:  strings.ToLower(getenv("SESSION_STORE", SessionStoreMemory)),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		OAuthStateTTL: getenvDuration("OAUTH_STATE_TTL", 10*time.Minute),

		CORSAllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "*")),
		RequestTimeout:     getenvDuration("REQUEST_TIMEOUT", 15*time.Second),
	}
}

// Validate reports every missing or inconsistent setting at once
func (c Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("SHOPIFY_API_KEY is required"))
	}
	if c.APISecret == "" {
		errs = append(errs, errors.New("SHOPIFY_API_SECRET is required"))
	}
	if c.HostName == "" {
		errs = append(errs, errors.New("SHOPIFY_HOST is required"))
	} else if !strings.HasPrefix(c.HostName, "https://") && !strings.HasPrefix(c.HostName, "http://") {
		errs = append(errs, fmt.Errorf("SHOPIFY_HOST must be an absolute URL, got %q", c.HostName))
	}
	if len(c.Scopes) == 0 {
		errs = append(errs, errors.New("SHOPIFY_SCOPES must list at least one scope"))
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis, SessionStoreMongo:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be one of memory, redis, mongo, got %q", c.SessionStore))
	}
	return errors.Join(errs...)
}

// RedirectURL is the OAuth callback registered with Shopify
func (c Config) RedirectURL() string {
	return c.HostName + "/auth/callback"
}

// SecureCookies reports whether the session cookie must be HTTPS-only
func (c Config) SecureCookies() bool {
	return strings.HasPrefix(c.HostName, "https://")
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
