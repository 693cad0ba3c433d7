package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, "data/library.db", cfg.SQLitePath)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 14, cfg.LoanPeriodDays)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Contains(t, cfg.Defaulted, "DATABASE_URL")
	assert.Contains(t, cfg.Defaulted, "PORT")
}

func TestFromLookup_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PORT":             "9090",
		"STORAGE":          "SQLite",
		"SQLITE_PATH":      "/tmp/lib.db",
		"CORS_ORIGINS":     " https://a.example , ,https://b.example",
		"LOAN_PERIOD_DAYS": "21",
		"LOG_LEVEL":        "debug",
		"LOG_FORMAT":       "JSON",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/lib.db", cfg.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 21, cfg.LoanPeriodDays)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.NotContains(t, cfg.Defaulted, "PORT")
}

func TestFromLookup_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port", env: map[string]string{"PORT": "http"}},
		{name: "storage", env: map[string]string{"STORAGE": "mongo"}},
		{name: "loan period zero", env: map[string]string{"LOAN_PERIOD_DAYS": "0"}},
		{name: "loan period text", env: map[string]string{"LOAN_PERIOD_DAYS": "two weeks"}},
		{name: "log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "log format", env: map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromLookup(lookupFrom(tt.env))
			require.Error(t, err)
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := Config{LogLevel: slog.LevelWarn, LogFormat: "json"}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestLoad_ReadsEnvFileWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "cmd", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"# local settings\nSTORAGE=memory\nLOAN_PERIOD_DAYS=7\nPORT=\"7070\"\n",
	), 0o644))

	t.Chdir(nested)
	t.Setenv("PORT", "6060")
	t.Setenv("STORAGE", "")
	t.Setenv("LOAN_PERIOD_DAYS", "")
	require.NoError(t, os.Unsetenv("STORAGE"))
	require.NoError(t, os.Unsetenv("LOAN_PERIOD_DAYS"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".env", filepath.Base(cfg.EnvFile))
	assert.Equal(t, "6060", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 7, cfg.LoanPeriodDays)
}
