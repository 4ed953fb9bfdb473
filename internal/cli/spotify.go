package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"pomodo/internal/app"
	"pomodo/internal/config"
	"pomodo/internal/playback"
	"pomodo/internal/playback/spotify"
)

// SpotifyCmd returns the Spotify account commands.
func SpotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spotify",
		Short: "Connect pomodo to a Spotify account",
		Long: `Manage the Spotify login used by the spotify playback backend.

Register an app at developer.spotify.com, add
http://127.0.0.1:<redirect_port>/callback as a redirect URI and put the
client ID in config.toml under [spotify].`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Authorize pomodo in the browser",
		Args:  cobra.NoArgs,
		RunE:  runSpotifyLogin,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Spotify token",
		Args:  cobra.NoArgs,
		RunE:  runSpotifyLogout,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the login and the current player state",
		Args:  cobra.NoArgs,
		RunE:  runSpotifyStatus,
	})
	return cmd
}

func spotifyAuthenticator(cmd *cobra.Command) (*spotify.Authenticator, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !cfg.HasSpotifyConfig() {
		return nil, errors.New("spotify.client_id is not set in config.toml")
	}
	logger := hclog.New(&hclog.LoggerOptions{Name: config.AppName, Level: cfg.Level()})
	return app.NewSpotifyAuthenticator(cfg, logger)
}

func runSpotifyLogin(cmd *cobra.Command, _ []string) error {
	auth, err := spotifyAuthenticator(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	out := cmd.OutOrStdout()
	err = auth.Login(ctx, func(authURL string) error {
		fmt.Fprintf(out, "Opening the browser. If nothing happens, visit:\n  %s\n", authURL)
		if err := spotify.OpenBrowser(authURL); err != nil {
			fmt.Fprintf(out, "Could not open the browser: %v\n", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("spotify login: %w", err)
	}
	fmt.Fprintln(out, color.New(color.FgGreen).Sprint("Logged in to Spotify."))
	return nil
}

func runSpotifyLogout(cmd *cobra.Command, _ []string) error {
	auth, err := spotifyAuthenticator(cmd)
	if err != nil {
		return err
	}
	if err := auth.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Spotify token removed.")
	return nil
}

func runSpotifyStatus(cmd *cobra.Command, _ []string) error {
	auth, err := spotifyAuthenticator(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !auth.LoggedIn() {
		fmt.Fprintf(out, "%s run 'pomodo spotify login'\n", color.New(color.FgYellow).Sprint("Not logged in:"))
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	client, err := auth.Client(ctx)
	if err != nil {
		return err
	}
	state, err := client.State(ctx)
	if errors.Is(err, playback.ErrNoActiveDevice) {
		fmt.Fprintln(out, "Logged in. No active Spotify device.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Logged in. %s\n", describeState(state))
	return nil
}

func describeState(state playback.State) string {
	playing := "Paused"
	if state.Playing {
		playing = color.New(color.FgGreen).Sprint("Playing")
	}
	var description string
	if state.Volume == playback.UnknownVolume {
		description = playing + ", volume unknown"
	} else {
		description = fmt.Sprintf("%s at %d%% volume", playing, state.Volume)
	}
	if track := state.NowPlaying(); track != "" {
		description += ": " + track
	}
	return description
}
