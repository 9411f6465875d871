package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all chunker configuration.
type Config struct {
	// Spreadsheet column labels
	Columns ColumnsConfig `yaml:"columns"`

	// Chunking and clipboard
	Chunk ChunkConfig `yaml:"chunk"`

	// Spreadsheet loading
	Loader LoaderConfig `yaml:"loader"`

	// Interactive widget
	UI UIConfig `yaml:"ui"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ColumnsConfig names the header labels that are read.
type ColumnsConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// ChunkConfig configures chunk output.
type ChunkConfig struct {
	Delimiter string `yaml:"delimiter"`
	// DefaultLimit pre-fills the Limit field (0 = leave empty).
	DefaultLimit int `yaml:"default_limit"`
	// Clipboard backend: system or memory.
	Clipboard string `yaml:"clipboard"`
}

// LoaderConfig configures the spreadsheet loader.
type LoaderConfig struct {
	MaxFileSize int64 `yaml:"max_file_size"` // bytes
}

// WatchConfig configures reloading a spreadsheet when it changes on disk.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Columns: ColumnsConfig{
			Name:  "NAME",
			Email: "EMAILS",
		},
		Chunk: ChunkConfig{
			Delimiter: ", ",
			Clipboard: "system",
		},
		Loader: LoaderConfig{
			MaxFileSize: 50 << 20,
		},
		UI: *DefaultUIConfig(),
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: "250ms",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			DebugMode:  false,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// ConfigDir returns the directory where config is stored.
// A project-local .chunker directory wins over the home-level one.
func ConfigDir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".chunker")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".chunker"), nil
}

// DefaultPath returns the config file path inside ConfigDir.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHUNKER_NAME_COLUMN"); v != "" {
		c.Columns.Name = v
	}
	if v := os.Getenv("CHUNKER_EMAIL_COLUMN"); v != "" {
		c.Columns.Email = v
	}
	if v := os.Getenv("CHUNKER_DELIMITER"); v != "" {
		c.Chunk.Delimiter = v
	}
	if v := os.Getenv("CHUNKER_DARK_MODE"); v != "" {
		if v == "1" || strings.EqualFold(v, "true") {
			c.UI.Theme = ThemeDark
		} else {
			c.UI.Theme = ThemeLight
		}
	}
	if v := os.Getenv("CHUNKER_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CHUNKER_DEBUG"); v != "" {
		c.Logging.DebugMode = v == "1" || strings.EqualFold(v, "true")
	}
}

// WatchDebounce returns the watch debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Columns.Name == "" || c.Columns.Email == "" {
		return fmt.Errorf("columns.name and columns.email must both be set")
	}
	if c.Columns.Name == c.Columns.Email {
		return fmt.Errorf("columns.name and columns.email must differ (both %q)", c.Columns.Name)
	}
	if c.Chunk.DefaultLimit < 0 {
		return fmt.Errorf("chunk.default_limit must not be negative: %d", c.Chunk.DefaultLimit)
	}
	switch c.Chunk.Clipboard {
	case "", "system", "memory":
	default:
		return fmt.Errorf("invalid chunk.clipboard: %s (valid: system, memory)", c.Chunk.Clipboard)
	}
	if c.Loader.MaxFileSize < 0 {
		return fmt.Errorf("loader.max_file_size must not be negative")
	}
	switch c.UI.Theme {
	case "", ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme: %s (valid: auto, light, dark)", c.UI.Theme)
	}
	return nil
}
