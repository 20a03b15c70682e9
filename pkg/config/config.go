// Package config loads engine settings from an optional config.yaml with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultPath is read when Load is given no explicit path.
const DefaultPath = "config.yaml"

// DotEnvPath is loaded into the environment, if present, before any
// configuration is read. Variables already set are not overridden.
const DotEnvPath = ".env"

// Config holds all configuration for bagbot-engine.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"5000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:""`
	Version  string `yaml:"-"` // Set at load time, not from config

	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Library  LibraryConfig  `yaml:"library"`
	Session  SessionConfig  `yaml:"session"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DatabaseConfig holds the PostgreSQL catalog store configuration.
type DatabaseConfig struct {
	Host           string        `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string        `yaml:"user" env:"PGUSER" env-default:"bagbot"`
	Password       string        `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string        `yaml:"database" env:"PGDATABASE" env-default:"biblioteca"`
	SSLMode        string        `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	Schema         string        `yaml:"schema" env:"PGSCHEMA" env-default:"public"`
	MaxConnections int           `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"PGQUERY_TIMEOUT" env-default:"10s"`
}

// LLMConfig holds the OpenAI-compatible completion endpoint settings.
type LLMConfig struct {
	BaseURL string        `yaml:"base_url" env:"LLM_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	Model   string        `yaml:"model" env:"LLM_MODEL" env-default:"llama-3.1-8b-instant"`
	APIKey  string        `yaml:"-" env:"GROQ_API_KEY"` // Secret - not in YAML
	Timeout time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"30s"`
}

// LibraryConfig restricts what the query pipeline may touch.
type LibraryConfig struct {
	AllowedTables []string `yaml:"allowed_tables" env:"LIBRARY_ALLOWED_TABLES" env-separator:"," env-default:"recursos_libros,recursos_tesis,recursos_publicaciones_seriadas,recursos_colec_docs"`
	MaxRows       int      `yaml:"max_rows" env:"LIBRARY_MAX_ROWS" env-default:"15"`
}

// SessionConfig holds the signed cookie settings used to remember the chat mode.
type SessionConfig struct {
	Secret string `yaml:"-" env:"SESSION_SECRET"` // Secret - not in YAML
	Secure bool   `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
	MaxAge int    `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"86400"` // seconds
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads configuration from path with environment variable overrides.
// An empty path means DefaultPath, which may be absent; in that case only the
// environment and defaults apply. An explicit path must exist.
func Load(version, path string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(statErr, os.ErrNotExist) && !explicit:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, statErr)
	}

	cfg.Library.AllowedTables = normalizeTables(cfg.Library.AllowedTables)

	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings every command that answers questions needs.
func (c *Config) Validate() error {
	var problems []string

	if c.LLM.APIKey == "" {
		problems = append(problems, "GROQ_API_KEY is required")
	}
	if c.LLM.BaseURL == "" {
		problems = append(problems, "llm.base_url is required")
	}
	if c.LLM.Model == "" {
		problems = append(problems, "llm.model is required")
	}
	if len(c.Library.AllowedTables) == 0 {
		problems = append(problems, "library.allowed_tables must list at least one table")
	}
	if c.Library.MaxRows <= 0 {
		problems = append(problems, "library.max_rows must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateServe checks Validate plus the settings only the HTTP server needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("invalid configuration: SESSION_SECRET is required")
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.BindAddr, c.Port)
}

// ConnectionString returns a PostgreSQL connection URL. Credentials are
// escaped, and a localhost host is redirected to the Docker host when running
// inside a container.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(ResolveHostForDocker(c.Host), strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else {
		u.User = url.User(c.User)
	}

	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

func normalizeTables(tables []string) []string {
	out := make([]string, 0, len(tables))
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
