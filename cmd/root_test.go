package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCLI points the CLI at a fresh data file and returns its path.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	dataFile := filepath.Join(dir, "data", "tasks.json")
	t.Setenv("TASKPILOT_DATA_FILE", dataFile)
	t.Setenv("TASKPILOT_DATA_BACKEND", "file")
	resetViper()
	t.Cleanup(resetViper)
	doneDetails, failReason, planTasks, planSplitDetails = "", "", nil, ""
	return dataFile
}

func resetViper() {
	viper.Reset()
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return b.String(), err
}

func TestRootCmd(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "TaskPilot tracks hierarchical, prioritized tasks")
	assert.Contains(t, out, "Usage:")
	for _, name := range []string{"mcp", "plan", "list", "show", "next", "done", "fail", "validate", "delete", "watch"} {
		assert.Contains(t, out, name)
	}
}

func TestVersion(t *testing.T) {
	assert.Equal(t, version, GetVersion())
}

func TestInitConfig_Defaults(t *testing.T) {
	dataFile := setupCLI(t)

	require.NoError(t, InitConfig())
	cfg := GetConfig()
	assert.Equal(t, "file", cfg.Data.Backend)
	assert.Equal(t, dataFile, cfg.Data.File)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestInitConfig_LegacyFileEnv(t *testing.T) {
	setupCLI(t)
	legacy := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.Unsetenv("TASKPILOT_DATA_FILE"))
	t.Setenv("TASK_MANAGER_FILE_PATH", legacy)

	require.NoError(t, InitConfig())
	assert.Equal(t, legacy, GetConfig().Data.File)
}

func TestInitConfig_ConfigFile(t *testing.T) {
	setupCLI(t)
	cfgPath := filepath.Join(t.TempDir(), "taskpilot.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: debug\n  format: json\ndata:\n  format: yaml\n"), 0o644))
	viper.Set("config", cfgPath)

	require.NoError(t, InitConfig())
	cfg := GetConfig()
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "yaml", cfg.Data.Format)
}

func TestInitConfig_Invalid(t *testing.T) {
	setupCLI(t)
	t.Setenv("TASKPILOT_DATA_BACKEND", "postgres")

	err := InitConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN")
}
