package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "leumit", cfg.LeagueName)
	assert.Equal(t, "data/leumit", cfg.DataRoot)
	assert.Equal(t, filepath.Join("data/leumit", "leumit_games"), cfg.GamesDir)
	assert.Equal(t, time.Second, cfg.RequestDelay)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("COURTSYNC_LEAGUE", "national")
	t.Setenv("COURTSYNC_DATA_ROOT", "/var/lib/courtsync")
	t.Setenv("COURTSYNC_REQUEST_DELAY", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "national", cfg.LeagueName)
	assert.Equal(t, "/var/lib/courtsync", cfg.DataRoot)
	assert.Equal(t, 2*time.Second, cfg.RequestDelay)
	// Derived paths follow the overridden root.
	assert.Equal(t, filepath.Join("/var/lib/courtsync", "national_games"), cfg.GamesDir)
}

func TestLoadBareIntegerDelayIsSeconds(t *testing.T) {
	t.Setenv("COURTSYNC_FETCH_TIMEOUT", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
}

func TestTablePath(t *testing.T) {
	cfg := &Config{LeagueName: "leumit", DataRoot: "data/leumit"}

	assert.Equal(t, filepath.Join("data/leumit", "leumit_player_details.csv"), cfg.TablePath("player_details"))
}

func TestGamePath(t *testing.T) {
	cfg := &Config{GamesDir: "data/leumit/leumit_games"}

	assert.Equal(t, filepath.Join("data/leumit/leumit_games", "quarter_scores.csv"), cfg.GamePath("quarter_scores"))
}
