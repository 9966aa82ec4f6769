package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghbrowse/pkg/config"
)

func TestInitCommand(t *testing.T) {
	assert.Equal(t, "init", initCmd.Use)
	assert.NotNil(t, initCmd.Flags().Lookup("force"))
}

func TestRunInit_CreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	stdout, _, err := executeCommand(t, "", "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Configuration file created")

	loaded, err := config.LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestRunInit_ExistingConfig(t *testing.T) {
	tests := []struct {
		name        string
		stdin       string
		args        []string
		overwritten bool
	}{
		{name: "declined", stdin: "n\n", overwritten: false},
		{name: "no answer", stdin: "", overwritten: false},
		{name: "accepted", stdin: "y\n", overwritten: true},
		{name: "forced", args: []string{"--force"}, overwritten: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0600))

			args := append([]string{"--config", path, "init"}, tt.args...)
			_, _, err := executeCommand(t, tt.stdin, args...)
			require.NoError(t, err)

			loaded, err := config.LoadConfigFromPath(path)
			require.NoError(t, err)
			if tt.overwritten {
				assert.Equal(t, config.DefaultLogLevel, loaded.Log.Level)
			} else {
				assert.Equal(t, "debug", loaded.Log.Level)
			}
		})
	}
}
