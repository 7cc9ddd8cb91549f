package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/expense-app/internal/logging"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "", config.Rules.File)
	assert.Equal(t, 10, config.Rules.MaxBackups)
	assert.Equal(t, "~/Documents/BankStatements", config.Scanner.WatchDir)
	assert.Equal(t, 150, config.Parser.MaxDescriptionLength)
	assert.Empty(t, config.Parser.ExclusionMarkers)
	assert.Equal(t, 4, config.Parser.Workers)
	assert.Equal(t, 16, config.Cache.Size)
	assert.Equal(t, 300, config.Cache.TTLSeconds)
	assert.Equal(t, "127.0.0.1:8080", config.Server.Addr)
	assert.Equal(t, "@every 1m", config.Watch.Schedule)

	assert.Equal(t, config, Default())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	t.Setenv("EXPENSE_LOG_LEVEL", "debug")
	t.Setenv("EXPENSE_LOG_FORMAT", "json")
	t.Setenv("EXPENSE_RULES_FILE", "/tmp/rules.yaml")
	t.Setenv("EXPENSE_RULES_MAX_BACKUPS", "3")
	t.Setenv("EXPENSE_PARSER_WORKERS", "2")
	t.Setenv("EXPENSE_SERVER_ADDR", ":9090")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "/tmp/rules.yaml", config.Rules.File)
	assert.Equal(t, 3, config.Rules.MaxBackups)
	assert.Equal(t, 2, config.Parser.Workers)
	assert.Equal(t, ":9090", config.Server.Addr)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "expense.yaml")
	configContent := `
log:
  level: "warn"
  format: "json"
rules:
  file: "rules.yaml"
  max_backups: 5
parser:
  max_description_length: 80
  exclusion_markers:
    - "Storno"
    - "Gutschrift intern"
watch:
  schedule: "*/5 * * * *"
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0600))

	config, err := InitializeConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "rules.yaml", config.Rules.File)
	assert.Equal(t, 5, config.Rules.MaxBackups)
	assert.Equal(t, 80, config.Parser.MaxDescriptionLength)
	assert.Equal(t, []string{"Storno", "Gutschrift intern"}, config.Parser.ExclusionMarkers)
	assert.Equal(t, "*/5 * * * *", config.Watch.Schedule)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "expense.yaml")
	configContent := `
log:
  level: "warn"
rules:
  max_backups: 5
`
	require.NoError(t, os.WriteFile(configFile, []byte(configContent), 0600))
	t.Setenv("EXPENSE_LOG_LEVEL", "error")

	config, err := InitializeConfig(configFile)
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, 5, config.Rules.MaxBackups)
	assert.Equal(t, "text", config.Log.Format)
}

func TestInitializeConfig_ExplicitFileMissing(t *testing.T) {
	clearTestEnvVars(t)

	_, err := InitializeConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "invalid" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"zero backups", func(c *Config) { c.Rules.MaxBackups = 0 }, "rules.max_backups"},
		{"zero description length", func(c *Config) { c.Parser.MaxDescriptionLength = 0 }, "parser.max_description_length"},
		{"too many workers", func(c *Config) { c.Parser.Workers = 100 }, "parser.workers"},
		{"negative cache", func(c *Config) { c.Cache.Size = -1 }, "cache"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"bad schedule", func(c *Config) { c.Watch.Schedule = "every minute" }, "watch.schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	previous := logging.GetLogger()
	t.Cleanup(func() {
		logging.SetLogger(previous)
		logging.SetAllLogLevels(logrus.InfoLevel)
	})

	config := Default()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	require.NotNil(t, logger)
	assert.Same(t, logger, logging.GetLogger())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(original) })

	loaded, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPENSE_TEST_FROM_DOTENV=yes\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("EXPENSE_TEST_FROM_DOTENV") })

	loaded, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", loaded)
	assert.Equal(t, "yes", GetEnv("EXPENSE_TEST_FROM_DOTENV", "no"))
	assert.Equal(t, "fallback", GetEnv("EXPENSE_TEST_UNSET_VALUE", "fallback"))
}

// clearTestEnvVars unsets every EXPENSE_* variable for the duration of the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, EnvPrefix+"_") {
			continue
		}
		t.Setenv(key, value)
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("HOME", t.TempDir())
}
