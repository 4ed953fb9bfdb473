package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"pomodo/internal/config"
	"pomodo/internal/playback"
	"pomodo/internal/playback/mpris"
	"pomodo/internal/playback/spotify"
)

// NewSpotifyAuthenticator returns the authenticator for the configured app.
func NewSpotifyAuthenticator(cfg *config.Config, logger hclog.Logger) (*spotify.Authenticator, error) {
	store, err := spotify.DefaultTokenStore()
	if err != nil {
		return nil, err
	}
	return spotify.NewAuthenticator(spotify.AuthConfig{
		ClientID:     cfg.Spotify.ClientID,
		CallbackPort: cfg.Spotify.RedirectPort,
	}, store, logger.Named("spotify")), nil
}

// NewController returns the playback controller selected by the config, or
// nil when ducking has no backend.
func NewController(ctx context.Context, cfg *config.Config, logger hclog.Logger) (playback.Controller, error) {
	switch cfg.Playback.Backend {
	case config.BackendSpotify:
		auth, err := NewSpotifyAuthenticator(cfg, logger)
		if err != nil {
			return nil, err
		}
		client, err := auth.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("spotify backend: %w", err)
		}
		return client, nil
	case config.BackendMPRIS:
		controller, err := mpris.New(cfg.Playback.MPRISPlayer)
		if err != nil {
			return nil, fmt.Errorf("mpris backend: %w", err)
		}
		return controller, nil
	}
	return nil, nil
}
