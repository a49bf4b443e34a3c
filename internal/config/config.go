// Package config loads pipeline configuration from a YAML file with
// defaults and environment overrides. A missing file is not an error;
// callers get the defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Logging   LoggingConfig   `yaml:"logging"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// LLMConfig configures the chat-completion client.
type LLMConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	Temperature    float32 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
}

// WorkflowConfig locates the per-variant workflow content files.
type WorkflowConfig struct {
	ContentDir string `yaml:"content_dir"`
	Watch      bool   `yaml:"watch"`
}

// LoggingConfig controls the zap logger built in cmd.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// AnalyticsConfig sizes the in-memory usage recorder.
type AnalyticsConfig struct {
	RecentActivitySize int `yaml:"recent_activity_size"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			Temperature:    0.2,
			MaxTokens:      4096,
			TimeoutSeconds: 60,
			MaxRetries:     2,
		},
		Workflow: WorkflowConfig{
			ContentDir: "workflows",
			Watch:      false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Analytics: AnalyticsConfig{
			RecentActivitySize: 50,
		},
	}
}

// Load reads the config file at path, applies environment overrides, and
// validates. A missing file yields defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back out as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TESTFORGE_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("TESTFORGE_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("TESTFORGE_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("TESTFORGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm timeout_seconds must be positive, got %d", c.LLM.TimeoutSeconds)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries must not be negative, got %d", c.LLM.MaxRetries)
	}
	if c.Analytics.RecentActivitySize <= 0 {
		c.Analytics.RecentActivitySize = 50
	}
	return nil
}

// LLMTimeout returns the request timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}
