package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"job-clipper-go/internal/notion"
)

// Config holds the application configuration. Credentials are not part of
// the loaded snapshot: they are read from the environment on demand so a
// settings change between runs of the same session is picked up.
type Config struct {
	Request RequestConfig `json:"request"`
	Notion  NotionConfig  `json:"notion"`
	Storage StorageConfig `json:"storage"`
	Logging LoggingConfig `json:"logging"`
}

// RequestConfig holds outbound HTTP behavior.
type RequestConfig struct {
	Timeout time.Duration `json:"timeout"`
}

// NotionConfig holds the optional property-name overrides and fallback
// credentials for environments without env vars set.
type NotionConfig struct {
	APIKey        string             `json:"api_key,omitempty"`
	DatabaseID    string             `json:"database_id,omitempty"`
	PropertyNames notion.PropertyMap `json:"property_names"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `json:"backend"` // "notion" or "supabase"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `json:"level"`
	Verbose bool   `json:"verbose"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Backend: "notion",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a JSON file, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Request.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	switch c.Storage.Backend {
	case "notion", "supabase":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// PropertyMap returns the effective remote property names: the defaults
// overlaid with any configured overrides.
func (c *Config) PropertyMap() notion.PropertyMap {
	return notion.DefaultPropertyMap().Merge(c.Notion.PropertyNames)
}

// NotionCredentials reads credentials at call time, environment first, then
// the config file values. Nothing is cached between calls.
func (c *Config) NotionCredentials() (notion.Credentials, error) {
	key := os.Getenv("NOTION_API_KEY")
	if key == "" {
		key = c.Notion.APIKey
	}
	if key == "" {
		return notion.Credentials{}, fmt.Errorf("%w: NOTION_API_KEY is not set", notion.ErrMissingCredentials)
	}

	db := os.Getenv("NOTION_DATABASE_ID")
	if db == "" {
		db = c.Notion.DatabaseID
	}
	if db == "" {
		return notion.Credentials{}, fmt.Errorf("%w: NOTION_DATABASE_ID is not set", notion.ErrMissingCredentials)
	}

	return notion.Credentials{APIKey: key, DatabaseID: db}, nil
}
