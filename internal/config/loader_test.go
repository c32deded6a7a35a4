package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-events-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8080/api", cfg.GetBaseURL())
	require.Equal(t, 10*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, 7*24*time.Hour, cfg.GetSessionTTL())
	require.Equal(t, "/dashboard", cfg.GetOrganizerDashboard())
	require.Equal(t, config.StorageDriverFile, cfg.GetStorageDriver())
}

func TestLoad_FileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	yaml := []byte(`
api:
  base_url: https://events.example.com/api/
  timeout: 3s
session:
  organizer_dashboard: /organizer/dashboard
storage:
  driver: memory
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("EVENTS_API_USER_AGENT", "cli-test")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://events.example.com/api", cfg.GetBaseURL())
	require.Equal(t, 3*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, "/organizer/dashboard", cfg.GetOrganizerDashboard())
	require.Equal(t, "/dashboard", cfg.GetAdminDashboard())
	require.Equal(t, config.StorageDriverMemory, cfg.GetStorageDriver())
	require.Equal(t, "cli-test", cfg.GetUserAgent())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("EVENTS_STORAGE_DRIVER", "floppy")

	_, err := config.Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown storage.driver")
}

func TestLoad_RejectsBadBaseURL(t *testing.T) {
	t.Setenv("EVENTS_API_BASE_URL", "not a url")

	_, err := config.Load("")
	require.Error(t, err)
}
