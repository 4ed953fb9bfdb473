// Package playback defines the capability used to control an external
// music player.
package playback

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNoActiveDevice indicates the remote player has no device to control.
	ErrNoActiveDevice = errors.New("no active playback device")
	// ErrUnsupported indicates the controller is not available on this system.
	ErrUnsupported = errors.New("playback control unsupported")
)

// UnknownVolume is reported when the player does not expose its volume.
const UnknownVolume = -1

// State is a point-in-time view of the player.
type State struct {
	Playing bool
	// Volume is in percent, or UnknownVolume.
	Volume int
	// Track and Artist describe the current item. Either may be empty.
	Track  string
	Artist string
}

// NowPlaying renders the current item as "Track · Artist", or "" when the
// player reports no track.
func (state State) NowPlaying() string {
	track := strings.TrimSpace(state.Track)
	artist := strings.TrimSpace(state.Artist)
	switch {
	case track == "":
		return ""
	case artist == "":
		return track
	}
	return track + " · " + artist
}

// Controller controls a music player. Each call may reach a remote device
// and is independently fallible.
type Controller interface {
	State(ctx context.Context) (State, error)
	SetVolume(ctx context.Context, percent int) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
}

// ClampVolume forces percent into [0, 100].
func ClampVolume(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
