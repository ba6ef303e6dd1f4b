// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Secrets  SecretsConfig  `yaml:"secrets"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// DispatchConfig controls engine routing and model selection.
type DispatchConfig struct {
	// Timeout bounds each outbound provider call.
	Timeout time.Duration `yaml:"timeout"`
	// Engines maps engine aliases to provider names.
	Engines map[string]string `yaml:"engines"`
	// DefaultEngine is used when a request names no engine.
	DefaultEngine string `yaml:"default_engine"`
	// Models maps provider names to their default model identifiers.
	Models map[string]string `yaml:"models"`
	// BaseURLs overrides provider endpoints, mainly for local stubs.
	BaseURLs map[string]string `yaml:"base_urls"`
}

// SecretsConfig locates the fallback credential store.
type SecretsConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "pretty"
	Level  string `yaml:"level"`
}

// defaults returns the baseline configuration before file and env overrides.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Dispatch: DispatchConfig{
			Timeout:       30 * time.Second,
			DefaultEngine: "fast",
			Engines: map[string]string{
				"fast":      "groq",
				"reasoning": "deepseek",
			},
			Models: map[string]string{
				"groq":       "llama-3.3-70b-versatile",
				"deepseek":   "deepseek-reasoner",
				"openrouter": "x-ai/grok-2-1212",
			},
		},
		Secrets: SecretsConfig{Path: "secrets.toml"},
		Metrics: MetricsConfig{Enabled: true, Endpoint: "/metrics"},
		Logging: LoggingConfig{Format: "pretty", Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional config file,
// and environment variables, in increasing precedence. A .env file in the
// working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DISPATCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Dispatch.Timeout = d
		}
	}
	if v := os.Getenv("DEFAULT_ENGINE"); v != "" {
		cfg.Dispatch.DefaultEngine = v
	}
	if v := os.Getenv("SECRETS_PATH"); v != "" {
		cfg.Secrets.Path = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	// Per-provider endpoint overrides, e.g. GROQ_BASE_URL.
	for _, provider := range []string{"groq", "deepseek", "openrouter"} {
		key := envPrefix(provider) + "_BASE_URL"
		if v := os.Getenv(key); v != "" {
			if cfg.Dispatch.BaseURLs == nil {
				cfg.Dispatch.BaseURLs = map[string]string{}
			}
			cfg.Dispatch.BaseURLs[provider] = v
		}
	}
}

func envPrefix(provider string) string {
	out := make([]byte, len(provider))
	for i := 0; i < len(provider); i++ {
		c := provider[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func (c *Config) validate() error {
	if c.Dispatch.Timeout <= 0 {
		return fmt.Errorf("dispatch timeout must be positive, got %s", c.Dispatch.Timeout)
	}
	if _, ok := c.Dispatch.Engines[c.Dispatch.DefaultEngine]; !ok {
		// The default may also name a provider directly.
		if _, ok := c.Dispatch.Models[c.Dispatch.DefaultEngine]; !ok {
			return fmt.Errorf("default engine %q is neither an engine alias nor a provider", c.Dispatch.DefaultEngine)
		}
	}
	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return ":" + c.Server.Port
}
