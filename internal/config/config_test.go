package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFiles_Defaults(t *testing.T) {
	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, hclog.Info, cfg.Level())
	assert.False(t, cfg.HasSpotifyConfig())
}

func TestLoadFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "base.toml", `
log_level = "debug"

[playback]
backend = "spotify"

[spotify]
client_id = "abc123"
`)
	local := writeConfig(t, dir, "local.toml", `
[playback]
backend = "MPRIS"
mpris_player = "vlc"
`)

	cfg, err := LoadFiles(base, local)

	require.NoError(t, err)
	assert.Equal(t, hclog.Debug, cfg.Level())
	assert.Equal(t, BackendMPRIS, cfg.Playback.Backend)
	assert.Equal(t, "vlc", cfg.Playback.MPRISPlayer)
	assert.Equal(t, "abc123", cfg.Spotify.ClientID)
	assert.Equal(t, 8974, cfg.Spotify.RedirectPort)
}

func TestLoadFiles_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "backend", content: "[playback]\nbackend = \"winamp\"\n"},
		{name: "log level", content: "log_level = \"loud\"\n"},
		{name: "port", content: "[spotify]\nredirect_port = 70000\n"},
		{name: "syntax", content: "log_level = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.toml", tt.content)
			_, err := LoadFiles(path)
			assert.Error(t, err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	assert.Equal(t, filepath.Join(home, "logs", "pomodo.log"), expandPath("~/logs/pomodo.log"))
	assert.Equal(t, "/var/log/pomodo.log", expandPath("/var/log/pomodo.log"))
	assert.Equal(t, "", expandPath(""))
}

func TestPaths(t *testing.T) {
	paths := Paths()

	require.Len(t, paths, 2)
	assert.Equal(t, "config.toml", paths[len(paths)-1])
}
