package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOEHORN_FRAME_INTERVAL", "")
	t.Setenv("SHOEHORN_LOG_LEVEL", "")
	t.Setenv("SHOEHORN_FONT_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	require.Equal(t, slog.LevelInfo, cfg.Level())
	require.Empty(t, cfg.FontDir)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHOEHORN_FRAME_INTERVAL", "40ms")
	t.Setenv("SHOEHORN_LOG_LEVEL", "DEBUG")
	t.Setenv("SHOEHORN_FONT_DIR", "/srv/fonts")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 40*time.Millisecond, cfg.FrameInterval)
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, "/srv/fonts", cfg.FontDir)
}

func TestLoadRejectsNonPositiveInterval(t *testing.T) {
	t.Setenv("SHOEHORN_FRAME_INTERVAL", "-5ms")
	_, err := Load()
	require.Error(t, err)
}
