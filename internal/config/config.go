package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "STUDYHUB_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (STUDYHUB_*). Nested keys use a double
// underscore: STUDYHUB_REPLAY__POLL_ATTEMPTS -> replay.poll_attempts.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}
	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}

	if c.SheetID == "" {
		return fmt.Errorf("sheet_id is required")
	}

	for name, v := range map[string]string{
		"courses":      c.Sheets.Courses,
		"branches":     c.Sheets.Branches,
		"semesters":    c.Sheets.Semesters,
		"subjects":     c.Sheets.Subjects,
		"resources":    c.Sheets.Resources,
		"universities": c.Sheets.Universities,
	} {
		if v == "" {
			return fmt.Errorf("sheets.%s is required", name)
		}
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" {
			return fmt.Errorf("invalid base_url %q", c.BaseURL)
		}
	}

	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.Replay.PollAttempts <= 0 {
		return fmt.Errorf("replay.poll_attempts must be positive")
	}
	if c.Replay.PollIntervalMS <= 0 {
		return fmt.Errorf("replay.poll_interval_ms must be positive")
	}
	if c.Replay.HighlightMS < 0 {
		return fmt.Errorf("replay.highlight_ms must be non-negative")
	}

	if c.FetchTimeoutSec < 0 {
		return fmt.Errorf("fetch_timeout_seconds must be non-negative")
	}
	if c.SessionIdleMinutes < 0 {
		return fmt.Errorf("session_idle_minutes must be non-negative")
	}

	for _, pattern := range c.AllowedLinkHosts {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid allowed_link_hosts pattern %q", pattern)
		}
	}

	if c.Search.Enabled {
		switch c.Search.Provider {
		case SearchProviderLocal:
			if c.Search.Dimensions <= 0 {
				return fmt.Errorf("search.dimensions must be positive")
			}
		case SearchProviderOpenAI:
			if c.Search.APIKey == "" {
				return fmt.Errorf("search.api_key is required for the openai provider")
			}
		case SearchProviderOllama:
			if c.Search.Model == "" {
				return fmt.Errorf("search.model is required for the ollama provider")
			}
		default:
			return fmt.Errorf("invalid search.provider %q: must be one of local, openai, ollama", c.Search.Provider)
		}
	}

	return nil
}

// PublicBaseURL returns the base URL share links are built on. Without an
// explicit base_url it points at the local listener.
func (c *Config) PublicBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return fmt.Sprintf("http://localhost:%d/", c.Port)
}
