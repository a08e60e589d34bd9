package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// DOKI REST backend
	BackendBaseURL     string
	BackendReissuePath string
	BackendTimeout     time.Duration

	// OAuth login round trip
	OAuthLoginURL    string // identity provider entry point on the backend
	OAuthCallbackURL string // our /auth/callback as seen by the browser
	AppHomeURL       string
	AppLoginURL      string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Client-held state kept server-side
	SessionTTL          time.Duration
	DraftTTL            time.Duration
	DeviceCookieTTL     time.Duration
	SessionPollInterval time.Duration
	SessionRefreshSkew  time.Duration

	// Cookies
	CookieDomain string
	CookieSecure bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Google Cloud Storage (profile images)
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used

	// Elasticsearch (package search)
	ElasticsearchAddrs string // comma-separated; empty disables search
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESPackagesIndex    string

	// Browser-facing keys
	MapsAPIKey string

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "doki-web"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		BackendBaseURL:     getenv("BACKEND_BASE_URL", "http://localhost:9000/api"),
		BackendReissuePath: getenv("BACKEND_REISSUE_PATH", "/auth/reissue"),
		BackendTimeout:     getdur("BACKEND_TIMEOUT", 15*time.Second),

		OAuthLoginURL:    getenv("OAUTH_LOGIN_URL", "http://localhost:9000/oauth2/authorization/kakao"),
		OAuthCallbackURL: getenv("OAUTH_CALLBACK_URL", "http://localhost:8080/auth/callback"),
		AppHomeURL:       getenv("APP_HOME_URL", "http://localhost:3000/"),
		AppLoginURL:      getenv("APP_LOGIN_URL", "http://localhost:3000/login"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		SessionTTL:          getdur("SESSION_TTL", 14*24*time.Hour),
		DraftTTL:            getdur("DRAFT_TTL", 30*24*time.Hour),
		DeviceCookieTTL:     getdur("DEVICE_COOKIE_TTL", 365*24*time.Hour),
		SessionPollInterval: getdur("SESSION_POLL_INTERVAL", time.Minute),
		SessionRefreshSkew:  getdur("SESSION_REFRESH_SKEW", 2*time.Minute),

		CookieDomain: getenv("COOKIE_DOMAIN", "localhost"),
		CookieSecure: getbool("COOKIE_SECURE", false),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESPackagesIndex:    getenv("ES_PACKAGES_INDEX", "packages"),

		MapsAPIKey: getenv("MAPS_API_KEY", ""),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", false),
	}
}

// LoginRedirectURL returns the identity provider URL with our callback
// attached as redirect_uri.
func (c *Config) LoginRedirectURL() string {
	u, err := url.Parse(c.OAuthLoginURL)
	if err != nil {
		return c.OAuthLoginURL
	}
	q := u.Query()
	q.Set("redirect_uri", c.OAuthCallbackURL)
	u.RawQuery = q.Encode()
	return u.String()
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
