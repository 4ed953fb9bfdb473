// Package spotify controls Spotify Connect playback through the Web API.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pomodo/internal/playback"
)

// DefaultBaseURL is the Spotify Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

var (
	// ErrNotLoggedIn is returned when no Spotify token is stored.
	ErrNotLoggedIn = errors.New("spotify: not logged in")
	// ErrUnauthorized is returned when Spotify rejects the access token.
	ErrUnauthorized = errors.New("spotify: unauthorized")
)

// Client implements playback.Controller over the Spotify player endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewClient creates a client. httpClient must attach the bearer token,
// as the client returned by oauth2.Config.Client does.
func NewClient(httpClient *http.Client, options ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: httpClient,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

type playerResponse struct {
	IsPlaying bool `json:"is_playing"`
	Device    *struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		VolumePercent *int   `json:"volume_percent"`
	} `json:"device"`
	Item *struct {
		Name    string `json:"name"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
		// Episodes carry the podcast in show instead of artists.
		Show *struct {
			Name string `json:"name"`
		} `json:"show"`
	} `json:"item"`
}

// State returns the current playback state. No active playback reports a
// paused player with unknown volume.
func (c *Client) State(ctx context.Context) (playback.State, error) {
	resp, err := c.do(ctx, http.MethodGet, "/me/player", nil)
	if err != nil {
		return playback.State{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return playback.State{Volume: playback.UnknownVolume}, nil
	}
	if err := checkStatus(resp); err != nil {
		return playback.State{}, err
	}

	var result playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return playback.State{}, fmt.Errorf("decode player state: %w", err)
	}

	state := playback.State{Playing: result.IsPlaying, Volume: playback.UnknownVolume}
	if result.Device != nil && result.Device.VolumePercent != nil {
		state.Volume = playback.ClampVolume(*result.Device.VolumePercent)
	}
	if item := result.Item; item != nil {
		state.Track = item.Name
		names := make([]string, 0, len(item.Artists))
		for _, artist := range item.Artists {
			names = append(names, artist.Name)
		}
		state.Artist = strings.Join(names, ", ")
		if state.Artist == "" && item.Show != nil {
			state.Artist = item.Show.Name
		}
	}
	return state, nil
}

// SetVolume sets the active device volume.
func (c *Client) SetVolume(ctx context.Context, percent int) error {
	query := url.Values{}
	query.Set("volume_percent", strconv.Itoa(playback.ClampVolume(percent)))
	return c.command(ctx, "/me/player/volume?"+query.Encode())
}

// Play resumes playback on the active device.
func (c *Client) Play(ctx context.Context) error {
	return c.command(ctx, "/me/player/play")
}

// Pause pauses playback on the active device.
func (c *Client) Pause(ctx context.Context) error {
	return c.command(ctx, "/me/player/pause")
}

func (c *Client) command(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return playback.ErrNoActiveDevice
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed apiError
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Errorf("API returned status %d", resp.StatusCode)
}
