package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PEERJURY_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "PeerJury API", cfg.AppName)
	require.Equal(t, 5, cfg.DefaultJurySize)
	require.True(t, cfg.PreventDuplicateAssignment)
	require.False(t, cfg.RestrictSelectionToPendingOrOpen)
	require.Equal(t, 24*time.Hour, cfg.EditWindow)
	require.Equal(t, time.Minute, cfg.StatsCacheTTL)
	require.Equal(t, ":8080", cfg.HTTPAddress())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("PEERJURY_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PEERJURY_JWT_SECRET", "test-secret")
	t.Setenv("PEERJURY_JURY_DEFAULT_SIZE", "7")
	t.Setenv("PEERJURY_GRADING_EDIT_WINDOW", "48h")
	t.Setenv("PEERJURY_APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7, cfg.DefaultJurySize)
	require.Equal(t, 48*time.Hour, cfg.EditWindow)
	require.Equal(t, ":9090", cfg.HTTPAddress())
}
