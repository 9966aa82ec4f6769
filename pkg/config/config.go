package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the ghbrowse configuration
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Log    LogConfig    `yaml:"log"`
	Browse BrowseConfig `yaml:"browse"`
}

// GitHubConfig represents GitHub API settings
type GitHubConfig struct {
	Token      string        `yaml:"token"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// LogConfig represents logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BrowseConfig represents list and search behavior
type BrowseConfig struct {
	SearchDebounce time.Duration `yaml:"search_debounce"`
}

const (
	DefaultBaseURL        = "https://api.github.com/"
	DefaultTimeout        = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultSearchDebounce = 300 * time.Millisecond
)

// Environment overrides
const (
	EnvLogLevel = "GHBROWSE_LOG_LEVEL"
	EnvBaseURL  = "GHBROWSE_BASE_URL"
)

// Default returns a configuration with every field set to its default
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the default location, a .env file in the
// working directory and the environment
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom is Load with an explicit config file path
func LoadFrom(path string) (*Config, error) {
	// A missing .env file is the common case
	_ = godotenv.Load()

	cfg, err := LoadConfigFromPath(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold a token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".ghbrowse", "config.yaml"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GitHub.BaseURL != "" {
		u, err := url.Parse(c.GitHub.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			return fmt.Errorf("GitHub base URL %q is not a valid http(s) URL", c.GitHub.BaseURL)
		}
	}

	if c.GitHub.Timeout < 0 {
		return fmt.Errorf("GitHub timeout cannot be negative")
	}

	if c.GitHub.MaxRetries < 0 {
		return fmt.Errorf("GitHub max retries cannot be negative")
	}

	if c.Browse.SearchDebounce < 0 {
		return fmt.Errorf("search debounce cannot be negative")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		c.GitHub.BaseURL = baseURL
	}
}

func (c *Config) applyDefaults() {
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = DefaultBaseURL
	}
	if c.GitHub.Timeout == 0 {
		c.GitHub.Timeout = DefaultTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Browse.SearchDebounce == 0 {
		c.Browse.SearchDebounce = DefaultSearchDebounce
	}
}
