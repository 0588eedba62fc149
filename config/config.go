// Package config defines the timetable configuration shared by the server
// daemon and the command-line client.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GoCodeAlone/timetable/provider"
)

// DefaultAPIKeyEnv is the environment variable the suggestion API key is read
// from when none is configured.
const DefaultAPIKeyEnv = "GOOGLE_API_KEY"

// Config is the top-level timetable configuration.
type Config struct {
	Server   ServerConfig  `json:"server" yaml:"server"`
	DataDir  string        `json:"data_dir" yaml:"data_dir"`
	LogLevel string        `json:"log_level" yaml:"log_level"`
	Timezone string        `json:"timezone,omitempty" yaml:"timezone"` // IANA name; empty means local time
	Suggest  SuggestConfig `json:"suggest" yaml:"suggest"`
	Client   ClientConfig  `json:"client" yaml:"client"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"` // listen address, e.g., ":8081"
}

// SuggestConfig selects the language model used for schedule suggestions.
type SuggestConfig struct {
	Provider  string        `json:"provider" yaml:"provider"` // "gemini", "anthropic", "openai", "mock", or "" to disable
	Model     string        `json:"model,omitempty" yaml:"model"`
	APIKey    string        `json:"api_key,omitempty" yaml:"api_key"`
	APIKeyEnv string        `json:"api_key_env,omitempty" yaml:"api_key_env"`
	BaseURL   string        `json:"base_url,omitempty" yaml:"base_url"`
	MaxTokens int           `json:"max_tokens,omitempty" yaml:"max_tokens"`
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout"`
}

// ClientConfig controls the command-line client.
type ClientConfig struct {
	ServerURL   string        `json:"server_url" yaml:"server_url"`
	PresetsPath string        `json:"presets_path" yaml:"presets_path"` // client-local storage file
	Timeout     time.Duration `json:"timeout,omitempty" yaml:"timeout"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	presets := "timetable-storage.json"
	if dir, err := os.UserConfigDir(); err == nil {
		presets = filepath.Join(dir, "timetable", "storage.json")
	}
	return &Config{
		Server: ServerConfig{
			Addr: ":8081",
		},
		DataDir:  "./data",
		LogLevel: "info",
		Suggest: SuggestConfig{
			Provider:  "gemini",
			APIKeyEnv: DefaultAPIKeyEnv,
			Timeout:   60 * time.Second,
		},
		Client: ClientConfig{
			ServerURL:   "http://localhost:8081",
			PresetsPath: presets,
			Timeout:     90 * time.Second,
		},
	}
}

// Load reads a YAML config file and returns the parsed configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that an empty path or a missing file yields
// DefaultConfig.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Suggest.Provider {
	case "", "gemini", "anthropic", "openai", "mock":
	default:
		return fmt.Errorf("unsupported suggest provider %q", c.Suggest.Provider)
	}
	return nil
}

// Location returns the zone dates and start times are entered in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolveAPIKey returns the configured suggestion API key, falling back to the
// environment variable named by APIKeyEnv.
func (s SuggestConfig) ResolveAPIKey() string {
	if s.APIKey != "" {
		return s.APIKey
	}
	env := s.APIKeyEnv
	if env == "" {
		env = DefaultAPIKeyEnv
	}
	return os.Getenv(env)
}

// ProviderConfig converts the suggestion settings for the provider registry.
func (s SuggestConfig) ProviderConfig() provider.Config {
	return provider.Config{
		Type:      s.Provider,
		Model:     s.Model,
		APIKey:    s.ResolveAPIKey(),
		BaseURL:   s.BaseURL,
		MaxTokens: s.MaxTokens,
		Timeout:   s.Timeout,
	}
}

// TasksDB is the path of the task database under DataDir.
func (c *Config) TasksDB() string { return filepath.Join(c.DataDir, "tasks.db") }

// InventoryDB is the path of the inventory database under DataDir.
func (c *Config) InventoryDB() string { return filepath.Join(c.DataDir, "inventory.db") }
