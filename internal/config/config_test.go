package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKLITE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Database.Path)
	require.NotEmpty(t, cfg.Log.Path)
	require.Equal(t, "02/01/2006", cfg.UI.DateFormat)
	require.Equal(t, 250*time.Millisecond, cfg.UI.FadeDelay())
	require.Equal(t, time.Second, cfg.UI.SignupDelay())
	require.Equal(t, 800*time.Millisecond, cfg.UI.LoginDelay())
	require.Equal(t, 2*time.Second, cfg.UI.SplashDelay())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TASKLITE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("TASKLITE_DATABASE_PATH", "/tmp/elsewhere.db")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/elsewhere.db", cfg.Database.Path)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("TASKLITE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.UI.DateFormat = "2006-01-02"
	cfg.UI.FadeDelayMs = 100
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "2006-01-02", got.UI.DateFormat)
	require.Equal(t, 100, got.UI.FadeDelayMs)
}
