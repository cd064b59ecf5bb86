package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CALMMIND_CONFIG_PATH", "")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, time.Minute, cfg.Refresh.Interval)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calmmind.yaml")
	yamlData := `
server:
  port: 9090
db:
  path: /tmp/cm.db
transport:
  mode: http
auth:
  enabled: true
  admin_users: [counselor]
refresh:
  interval: 5m
  threshold: 60
calendar:
  calendar_id: school
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	t.Setenv("CALMMIND_CONFIG_PATH", path)
	t.Setenv("CALMMIND_SERVER_PORT", "7070")
	t.Setenv("CALMMIND_ADMIN_USERS", "dean, counselor ,")
	t.Setenv("CALMMIND_REFRESH_NOTIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "/tmp/cm.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, []string{"dean", "counselor"}, cfg.Auth.AdminUsers)
	require.True(t, cfg.Auth.IsAdmin("dean"))
	require.False(t, cfg.Auth.IsAdmin("student"))
	require.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
	require.Equal(t, 60.0, cfg.Refresh.Threshold)
	require.True(t, cfg.Refresh.Notify)
	require.Equal(t, "school", cfg.Calendar.CalendarID)
	require.Equal(t, "token.json", cfg.Calendar.TokenPath)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CALMMIND_CONFIG_PATH", "")

	t.Setenv("CALMMIND_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CALMMIND_SERVER_PORT", "")
	t.Setenv("CALMMIND_TRANSPORT_MODE", "carrier-pigeon")
	_, err = Load()
	require.ErrorContains(t, err, "invalid transport mode")

	t.Setenv("CALMMIND_TRANSPORT_MODE", "")
	t.Setenv("CALMMIND_REFRESH_INTERVAL", "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CALMMIND_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
