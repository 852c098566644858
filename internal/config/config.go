// Package config resolves process configuration. Values are applied in order:
// defaults, optional YAML file (CONFIG_FILE), then environment variables.
// `.env.local` is loaded into the environment first when present.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	Port     string `yaml:"port" env:"PORT"`
	AppEnv   string `yaml:"app_env" env:"APP_ENV"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	DBDriver    string `yaml:"db_driver" env:"DB_DRIVER"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	JWTSecret  string        `yaml:"-" env:"JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`

	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	StaticDir      string        `yaml:"static_dir" env:"STATIC_DIR"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`

	AuthRateLimit float64 `yaml:"auth_rate_limit" env:"AUTH_RATE_LIMIT"`
	AuthRateBurst int     `yaml:"auth_rate_burst" env:"AUTH_RATE_BURST"`

	// TrustProxy makes X-Forwarded-For / X-Real-IP the client address. Only
	// set it behind a proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY"`

	// EphemeralSecret is set when no JWT_SECRET was configured outside
	// production and a random one was generated for this process.
	EphemeralSecret bool `yaml:"-"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Port:           "5050",
		AppEnv:         EnvDevelopment,
		LogLevel:       "info",
		DBDriver:       "postgres",
		TokenTTL:       7 * 24 * time.Hour,
		BcryptCost:     12,
		RequestTimeout: 15 * time.Second,
		StaticDir:      "public",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AuthRateBurst:  5,
	}
}

// Load reads .env.local, the optional CONFIG_FILE and the environment, then
// validates the result.
func Load() (Config, error) {
	_ = godotenv.Load(".env.local")

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) finalize() error {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST %d out of range", c.BcryptCost)
	}

	if c.JWTSecret == "" {
		if c.Production() {
			return errors.New("JWT_SECRET is required in production")
		}
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		c.JWTSecret = secret
		c.EphemeralSecret = true
	}
	return nil
}

// Production reports whether cookies must be Secure and secrets explicit.
func (c Config) Production() bool { return c.AppEnv == EnvProduction }

// SlogLevel parses LogLevel, falling back to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
