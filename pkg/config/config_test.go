package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "config.yaml")
	configContent := `github:
  token: "ghp_test_token"
  base_url: "https://ghe.example.com/api/v3/"
  timeout: 10s
  max_retries: 2
log:
  level: debug
  format: json
browse:
  search_debounce: 500ms
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := LoadConfigFromPath(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.GitHub.Token != "ghp_test_token" {
		t.Errorf("Expected GitHub Token = ghp_test_token, got %s", config.GitHub.Token)
	}

	if config.GitHub.BaseURL != "https://ghe.example.com/api/v3/" {
		t.Errorf("Expected BaseURL = https://ghe.example.com/api/v3/, got %s", config.GitHub.BaseURL)
	}

	assert.Equal(t, 10*time.Second, config.GitHub.Timeout)
	assert.Equal(t, 2, config.GitHub.MaxRetries)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 500*time.Millisecond, config.Browse.SearchDebounce)
}

func TestLoadConfigNonExistent(t *testing.T) {
	config, err := LoadConfigFromPath("/non/existent/path")
	if err != nil {
		t.Fatalf("Expected no error for non-existent config, got: %v", err)
	}

	if config.GitHub.Token != "" {
		t.Error("Expected empty token for non-existent config")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("github: [unclosed"), 0644))

	_, err := LoadConfigFromPath(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromAppliesDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvBaseURL, "")

	config, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, config.GitHub.BaseURL)
	assert.Equal(t, DefaultTimeout, config.GitHub.Timeout)
	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, DefaultLogFormat, config.Log.Format)
	assert.Equal(t, DefaultSearchDebounce, config.Browse.SearchDebounce)
}

func TestLoadFromReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// godotenv never overrides a variable that is already set, even to ""
	t.Setenv(EnvBaseURL, "")
	require.NoError(t, os.Unsetenv(EnvBaseURL))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GHBROWSE_BASE_URL=https://ghe.example.com/api/v3/\n"), 0644))

	config, err := LoadFrom(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3/", config.GitHub.BaseURL)
}

func TestSaveConfig(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	config := Default()
	config.GitHub.Token = "ghp_save_test_token"
	config.Browse.SearchDebounce = time.Second

	err := config.SaveConfigToPath(configPath)
	if err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfigFromPath(configPath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	assert.Equal(t, config, loadedConfig)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "base URL without scheme",
			mutate:  func(c *Config) { c.GitHub.BaseURL = "api.github.com" },
			wantErr: true,
		},
		{
			name:    "base URL with ftp scheme",
			mutate:  func(c *Config) { c.GitHub.BaseURL = "ftp://api.github.com/" },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.GitHub.Timeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.GitHub.MaxRetries = -1 },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Browse.SearchDebounce = -time.Millisecond },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() failed: %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Error("GetConfigPath() should return absolute path")
	}

	assert.Equal(t, ".ghbrowse", filepath.Base(filepath.Dir(path)))
}

// chdir changes the working directory for the duration of the test,
// matching testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
