package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-leave/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, config.DriverPostgres, cfg.DBDriver)
		assert.Equal(t, "PTO", cfg.StandardPTOName)
		assert.Equal(t, 20, cfg.StandardPTODays)
		assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	})

	t.Run("yaml file then env override", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := "DB_DRIVER: sqlite\nDB_PATH: /tmp/leave.db\nSTANDARD_PTO_NAME: Vacation\nOUTBOX_POLL_INTERVAL: 10s\nCORS_ALLOW_ORIGINS:\n  - https://hr.example.com\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		t.Setenv("CONFIG_FILE", path)
		t.Setenv("STANDARD_PTO_DAYS", "25")
		t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
		assert.Equal(t, "/tmp/leave.db", cfg.DBPath)
		assert.Equal(t, "Vacation", cfg.StandardPTOName)
		assert.Equal(t, 25, cfg.StandardPTODays)
		assert.Equal(t, 10*time.Second, cfg.OutboxPollInterval)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowOrigins)
	})

	t.Run("negative unsupported driver", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("DB_DRIVER", "mysql")

		_, err := config.Load()

		assert.Error(t, err)
	})

	t.Run("negative missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := config.Load()

		assert.Error(t, err)
	})
}
