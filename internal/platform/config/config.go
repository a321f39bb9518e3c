package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	// LocalProxyURL is the development proxy address, also the fallback when no production address is configured.
	LocalProxyURL = "http://localhost:5173/api"

	DevelopmentTimeout = 6 * time.Second
	ProductionTimeout  = 15 * time.Second

	sessionFileName = "storage.json"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" default:"development"`
	APIBaseURL string `env:"API_BASE_URL"`

	SessionBackend string `env:"SESSION_BACKEND" default:"file"`
	Home           string `env:"FORUM_HOME"`
	RedisURL       string `env:"REDIS_URL"`

	LogLevel  string `env:"LOG_LEVEL" default:"warn"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	ProxyAddr      string  `env:"PROXY_ADDR" default:":5173"`
	ProxyTarget    string  `env:"PROXY_TARGET"`
	ProxyRateLimit float64 `env:"PROXY_RATE_LIMIT" default:"20"`
}

// Pipeline is the resolved transport configuration: where requests go and how long they may take.
type Pipeline struct {
	BaseURL string
	Timeout time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	if cfg.Home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.Home = filepath.Join(userHome, ".local", "share", "forumclient")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.AppEnv)
	}

	switch cfg.SessionBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_BACKEND is redis")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of file, redis, memory, got %q", cfg.SessionBackend)
	}

	if cfg.APIBaseURL != "" {
		if err := checkHTTPURL(cfg.APIBaseURL); err != nil {
			return fmt.Errorf("API_BASE_URL %w", err)
		}
	}

	if cfg.ProxyRateLimit <= 0 {
		return errors.New("PROXY_RATE_LIMIT must be positive")
	}

	return nil
}

// ValidateProxy checks the settings only the development proxy needs.
func (c *Config) ValidateProxy() error {
	if c.ProxyTarget == "" {
		return errors.New("PROXY_TARGET is required to run the proxy")
	}
	if err := checkHTTPURL(c.ProxyTarget); err != nil {
		return fmt.Errorf("PROXY_TARGET %w", err)
	}
	return nil
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host, got %q", raw)
	}
	return nil
}

// IsProduction reports whether this is a production build.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Pipeline resolves base address and timeout from the build mode.
// Development always talks to the local proxy; production uses API_BASE_URL and falls back to the proxy.
func (c *Config) Pipeline() Pipeline {
	if !c.IsProduction() {
		return Pipeline{BaseURL: LocalProxyURL, Timeout: DevelopmentTimeout}
	}

	base := c.APIBaseURL
	if base == "" {
		base = LocalProxyURL
	}
	return Pipeline{BaseURL: base, Timeout: ProductionTimeout}
}

// SessionFile is the path of the durable session storage for the file backend.
func (c *Config) SessionFile() string {
	return filepath.Join(c.Home, sessionFileName)
}
