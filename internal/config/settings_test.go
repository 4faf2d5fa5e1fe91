package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	s, err := Load()
	require.NoError(t, err)
	require.Equal(t, "info", s.Log.Level)
	require.Equal(t, "default", s.Search.Strategy)
	require.Equal(t, "dark", s.UI.Theme)
	require.False(t, s.Controller.ExecuteDefaults)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	s, err := Load()
	require.NoError(t, err)
	s.UI.Theme = "light"
	s.UI.Accent = "green"
	s.Controller.ExecuteDefaults = true
	require.NoError(t, Save(s))

	back, err := Load()
	require.NoError(t, err)
	require.Equal(t, "light", back.UI.Theme)
	require.Equal(t, "green", back.UI.Accent)
	require.True(t, back.Controller.ExecuteDefaults)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Setenv("HOTCMD_LOG_LEVEL", "debug")
	t.Setenv("HOTCMD_SEARCH_STRATEGY", "extended")

	s, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", s.Log.Level)
	require.Equal(t, "extended", s.Search.Strategy)
}
