package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "CHOREKEEPER_"

// devSecret signs tokens in development when no secret is configured.
const devSecret = "chorekeeper-dev-secret"

type Config struct {
	AppEnv    string
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	JWTSecret string
	TokenTTL  time.Duration

	// Seed loads the fixture household on first start.
	Seed          bool
	AdminPassword string

	// StrictAccess requires the Admin role for listing profiles with roles
	// and for assigning chores.
	StrictAccess bool

	// TrustProxy honors X-Forwarded-For for rate limiting and request
	// logs. Enable only behind a reverse proxy that sets the header.
	TrustProxy bool
}

// Load reads an optional .env file and then CHOREKEEPER_* environment
// variables. Real environment variables win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "chorekeeper.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", "password"),
	}

	var err error
	cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sTOKEN_TTL: %w", envPrefix, err)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid %sTOKEN_TTL: must be positive", envPrefix)
	}

	cfg.Seed, err = strconv.ParseBool(getEnv("SEED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sSEED: %w", envPrefix, err)
	}

	cfg.StrictAccess, err = strconv.ParseBool(getEnv("STRICT_ACCESS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sSTRICT_ACCESS: %w", envPrefix, err)
	}

	cfg.TrustProxy, err = strconv.ParseBool(getEnv("TRUST_PROXY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sTRUST_PROXY: %w", envPrefix, err)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New(envPrefix + "JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = devSecret
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(envPrefix + key); ok {
		return value
	}
	return fallback
}
