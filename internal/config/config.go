package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"practicalprague/internal/auth"
)

const defaultEnvFile = ".env"

type Config struct {
	Env       string
	Addr      string
	PublicURL *url.URL
	LogLevel  string

	SiteName        string
	SiteDescription string

	// AdminSecret is nil when APP_ADMIN_PASSWORD is unset.
	AdminSecret        auth.SecretVerifier
	AdminSecretHashed  bool
	AdminRequireHashed bool
	StudioURL          string

	SanityProjectID  string
	SanityDataset    string
	SanityAPIVersion string
	SanityToken      string
	SanityRPS        float64

	DBDSN           string
	RedisURL        string
	ContentCacheTTL time.Duration
}

// Load reads an optional dotenv file (APP_ENV_FILE, default .env) into the
// process environment and then parses it. Variables already set win.
func Load() (Config, error) {
	path := os.Getenv("APP_ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := loadDotEnvFile(path, os.Setenv, os.Getenv); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("APP_ENV_FILE: %w", err)
		}
	}
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:              getenv("APP_ENV"),
		Addr:             getenv("APP_ADDR"),
		LogLevel:         getenv("APP_LOG_LEVEL"),
		SiteName:         strings.TrimSpace(getenv("APP_SITE_NAME")),
		SiteDescription:  strings.TrimSpace(getenv("APP_SITE_DESCRIPTION")),
		StudioURL:        strings.TrimRight(strings.TrimSpace(getenv("APP_STUDIO_URL")), "/"),
		SanityProjectID:  strings.TrimSpace(getenv("APP_SANITY_PROJECT_ID")),
		SanityDataset:    strings.TrimSpace(getenv("APP_SANITY_DATASET")),
		SanityAPIVersion: strings.TrimSpace(getenv("APP_SANITY_API_VERSION")),
		SanityToken:      getenv("APP_SANITY_TOKEN"),
		DBDSN:            getenv("APP_DB_DSN"),
		RedisURL:         getenv("APP_REDIS_URL"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.SanityDataset == "" {
		cfg.SanityDataset = "production"
	}
	if cfg.SanityAPIVersion == "" {
		cfg.SanityAPIVersion = "2024-01-01"
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	publicURLRaw := getenv("APP_PUBLIC_URL")
	if publicURLRaw != "" {
		parsed, err := parseAbsURL(publicURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_PUBLIC_URL: %w", err)
		}
		cfg.PublicURL = parsed
	}
	if cfg.StudioURL != "" {
		if _, err := parseAbsURL(cfg.StudioURL); err != nil {
			return Config{}, fmt.Errorf("APP_STUDIO_URL: %w", err)
		}
	}

	requireHashed, err := parseBool(getenv("APP_ADMIN_REQUIRE_HASHED"))
	if err != nil {
		return Config{}, fmt.Errorf("APP_ADMIN_REQUIRE_HASHED: %w", err)
	}
	cfg.AdminRequireHashed = requireHashed

	rawSecret := getenv("APP_ADMIN_PASSWORD")
	secret, err := auth.ParseSecret(rawSecret, requireHashed)
	if err != nil {
		return Config{}, fmt.Errorf("APP_ADMIN_PASSWORD: %w", err)
	}
	cfg.AdminSecret = secret
	cfg.AdminSecretHashed = auth.IsHashedSecret(rawSecret)

	cfg.SanityRPS = 10
	if raw := getenv("APP_SANITY_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("APP_SANITY_RPS: %w", err)
		}
		if rps <= 0 {
			return Config{}, errors.New("APP_SANITY_RPS: must be > 0")
		}
		cfg.SanityRPS = rps
	}

	cfg.ContentCacheTTL = time.Minute
	if raw := getenv("APP_CONTENT_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_CONTENT_CACHE_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_CONTENT_CACHE_TTL: must be > 0")
		}
		cfg.ContentCacheTTL = ttl
	}

	if cfg.IsProd() {
		if cfg.PublicURL == nil {
			return Config{}, errors.New("APP_PUBLIC_URL: required in prod")
		}
		if cfg.DBDSN == "" && cfg.SanityProjectID == "" {
			return Config{}, errors.New("APP_SANITY_PROJECT_ID or APP_DB_DSN: required in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// CookieSecure reports whether the session cookie gets the Secure flag.
func (c Config) CookieSecure() bool { return c.IsProd() }

// SiteURL is the public URL without a trailing slash, or "" when unset.
func (c Config) SiteURL() string {
	if c.PublicURL == nil {
		return ""
	}
	return strings.TrimRight(c.PublicURL.String(), "/")
}

func parseAbsURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, errors.New("must be an absolute URL")
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return nil, errors.New("scheme must be http or https")
	}
	return parsed, nil
}

func parseBool(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
