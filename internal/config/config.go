// Package config loads the application configuration from TOML files.
// User preferences edited in the UI live in the settings YAML instead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/hashicorp/go-hclog"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppName names the config and data directories.
const AppName = "pomodo"

// Playback backends.
const (
	BackendNone    = "none"
	BackendSpotify = "spotify"
	BackendMPRIS   = "mpris"
)

// Config is the application configuration read from config.toml.
type Config struct {
	LogLevel string `koanf:"log_level"` // trace, debug, info, warn, error, off
	LogFile  string `koanf:"log_file"`  // empty logs to stderr

	Playback PlaybackConfig `koanf:"playback"`
	Spotify  SpotifyConfig  `koanf:"spotify"`
}

// PlaybackConfig selects the music player that ducking controls.
type PlaybackConfig struct {
	Backend     string `koanf:"backend"`      // "spotify", "mpris", or "none"
	MPRISPlayer string `koanf:"mpris_player"` // e.g. "spotify", "vlc"; empty picks any
}

// SpotifyConfig holds the Spotify app registration.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	RedirectPort int    `koanf:"redirect_port"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Playback: PlaybackConfig{Backend: BackendNone},
		Spotify:  SpotifyConfig{RedirectPort: 8974},
	}
}

// Load reads the config files returned by Paths.
func Load() (*Config, error) {
	return LoadFiles(Paths()...)
}

// LoadFiles merges the given TOML files over the defaults. Later files win;
// missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.Playback.Backend = strings.ToLower(strings.TrimSpace(cfg.Playback.Backend))
	if cfg.Playback.Backend == "" {
		cfg.Playback.Backend = BackendNone
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Playback.Backend {
	case BackendNone, BackendSpotify, BackendMPRIS:
	default:
		return fmt.Errorf("playback.backend: unknown backend %q", c.Playback.Backend)
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if c.Spotify.RedirectPort < 0 || c.Spotify.RedirectPort > 65535 {
		return fmt.Errorf("spotify.redirect_port: %d out of range", c.Spotify.RedirectPort)
	}
	return nil
}

// Level returns the configured hclog level.
func (c *Config) Level() hclog.Level {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		return hclog.Info
	}
	return level
}

// HasSpotifyConfig returns true if a Spotify client id is configured.
func (c *Config) HasSpotifyConfig() bool {
	return c.Spotify.ClientID != ""
}

// Paths lists config files in order of priority (last wins).
func Paths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, AppName, "config.toml"),
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
