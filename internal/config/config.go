package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the portfolio server.
// Values come from an optional YAML file with environment overrides.
// Secrets only come from the environment.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Session   SessionConfig   `yaml:"session"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Admin     AdminConfig     `yaml:"admin"`
}

type SessionConfig struct {
	// Secret signs the session cookie. Generated at startup when empty,
	// which logs everyone out on restart.
	Secret        string        `yaml:"-" env:"SESSION_SECRET"`
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"5m"`
	SecureCookie  bool          `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE" env-default:"false"`

	// GeneratedSecret reports that Secret was filled in by Load.
	GeneratedSecret bool `yaml:"-"`
}

type AnalyticsConfig struct {
	// DSN of the SQLite database. The default keeps everything in memory.
	DSN       string        `yaml:"dsn" env:"ANALYTICS_DSN" env-default:":memory:"`
	Retention time.Duration `yaml:"retention" env:"ANALYTICS_RETENTION" env-default:"8760h"`
}

type AdminConfig struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	Password string `yaml:"-" env:"ADMIN_PASSWORD"`
}

// Enabled reports whether the admin pages should be served.
func (a AdminConfig) Enabled() bool {
	return a.Password != ""
}

// Load reads path when it exists, then applies environment overrides.
// An empty path or a missing file means environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.Session.Secret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Session.Secret = secret
		cfg.Session.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values cleanenv cannot.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.Session.TTL < 0 {
		return errors.New("session ttl must not be negative")
	}
	if c.Session.SweepInterval < 0 {
		return errors.New("session sweep interval must not be negative")
	}
	if c.Analytics.DSN == "" {
		return errors.New("analytics dsn is required")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.BindAddr, c.Port)
}

// IsProduction reports whether the server runs in a deployed environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
