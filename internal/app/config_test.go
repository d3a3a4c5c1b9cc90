package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "https://memo.example.com", cfg.Server.BaseURL)
	require.Equal(t, []string{"https://memo.example.com"}, cfg.Server.CORS.AllowedOrigins)
	require.Equal(t, 50, cfg.Server.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.Server.RateLimit.Window)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "memo-api", cfg.Auth.JWT.Issuer)
	require.Equal(t, 2*time.Hour, cfg.Auth.JWT.TTL)

	require.Equal(t, 48*time.Hour, cfg.Invites.DefaultTTL)
	require.False(t, cfg.Monitoring.Prometheus.Enabled)
	require.True(t, cfg.Logging.File.Enabled)
	require.Equal(t, 64, cfg.Logging.File.MaxSizeMB)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 7*24*time.Hour, cfg.Invites.DefaultTTL)
	require.Equal(t, 100, cfg.Server.RateLimit.Requests)
	require.Equal(t, time.Minute, cfg.Server.RateLimit.Window)

	// no secret configured: the server must refuse to start
	require.Error(t, cfg.Validate())
}

func TestDatabaseConnConfigPostgres(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Driver = "postgres"
	cfg.Database.Postgres = DBAuthConfig{Host: "h", Port: 5432, Database: "d", Username: "u", Password: "p"}

	conn := cfg.DatabaseConnConfig()
	require.Equal(t, "postgres", conn.Driver)
	require.Equal(t, "h", conn.Host)
	require.Equal(t, "d", conn.Name)
	require.Equal(t, "u", conn.User)
}
