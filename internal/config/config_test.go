package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("WITHINGS_CLIENT_ID", "wid")
	t.Setenv("WITHINGS_CLIENT_SECRET", "wsecret")
	t.Setenv("STRAVA_CLIENT_ID", "sid")
	t.Setenv("STRAVA_CLIENT_SECRET", "ssecret")
	t.Setenv("STRAVA_CONFIG_FILE", "/tmp/strava.json")
	t.Setenv("FITCONNECT_DB", "/tmp/history.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wid", cfg.Withings.ClientID)
	assert.Equal(t, "wsecret", cfg.Withings.ClientSecret)
	assert.Equal(t, "withings_config.json", cfg.Withings.ConfigFile)
	assert.Equal(t, "sid", cfg.Strava.ClientID)
	assert.Equal(t, "/tmp/strava.json", cfg.Strava.ConfigFile)
	assert.Equal(t, "/tmp/history.db", cfg.DBPath)

	assert.True(t, cfg.HasWithings())
	assert.True(t, cfg.HasStrava())
	require.NoError(t, cfg.RequireWithings())
	require.NoError(t, cfg.RequireStrava())
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"WITHINGS_CLIENT_ID", "WITHINGS_CLIENT_SECRET", "WITHINGS_CONFIG_FILE",
		"STRAVA_CLIENT_ID", "STRAVA_CLIENT_SECRET", "STRAVA_CONFIG_FILE",
		"FITCONNECT_DB",
	} {
		t.Setenv(key, "") // register restore, then clear entirely
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "withings_config.json", cfg.Withings.ConfigFile)
	assert.Equal(t, "config.json", cfg.Strava.ConfigFile)
	assert.True(t, strings.HasSuffix(cfg.DBPath, filepath.Join(".fitconnect", "history.db")))

	assert.False(t, cfg.HasWithings())
	assert.False(t, cfg.HasStrava())
	assert.Error(t, cfg.RequireWithings())
	assert.Error(t, cfg.RequireStrava())
}
