//go:build linux

package mpris

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"pomodo/internal/playback"
)

// Controller implements playback.Controller for an MPRIS player on the
// session bus. The player is looked up on every call so restarts are
// picked up.
type Controller struct {
	conn      *dbus.Conn
	preferred string
}

// New connects to the session bus. preferred names the player to control,
// for example "spotify" or "vlc"; empty selects any running player.
func New(preferred string) (*Controller, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Controller{conn: conn, preferred: preferred}, nil
}

func (c *Controller) player(ctx context.Context) (dbus.BusObject, error) {
	var names []string
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	name, ok := selectPlayer(names, c.preferred)
	if !ok {
		return nil, playback.ErrNoActiveDevice
	}
	return c.conn.Object(name, objectPath), nil
}

func (c *Controller) property(ctx context.Context, obj dbus.BusObject, name string) (dbus.Variant, error) {
	var value dbus.Variant
	err := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, playerInterface, name).Store(&value)
	if err != nil {
		return dbus.Variant{}, fmt.Errorf("read %s: %w", name, err)
	}
	return value, nil
}

// State reports PlaybackStatus, Volume and the current track. Players
// without a Volume property report playback.UnknownVolume.
func (c *Controller) State(ctx context.Context) (playback.State, error) {
	obj, err := c.player(ctx)
	if err != nil {
		return playback.State{}, err
	}

	status, err := c.property(ctx, obj, "PlaybackStatus")
	if err != nil {
		return playback.State{}, err
	}
	state := playback.State{Volume: playback.UnknownVolume}
	if text, ok := status.Value().(string); ok {
		state.Playing = text == "Playing"
	}

	if volume, err := c.property(ctx, obj, "Volume"); err == nil {
		if level, ok := volume.Value().(float64); ok {
			state.Volume = volumeToPercent(level)
		}
	}
	if metadata, err := c.property(ctx, obj, "Metadata"); err == nil {
		if fields, ok := metadata.Value().(map[string]dbus.Variant); ok {
			state.Track, state.Artist = trackFromMetadata(fields)
		}
	}
	return state, nil
}

// SetVolume writes the Volume property.
func (c *Controller) SetVolume(ctx context.Context, percent int) error {
	obj, err := c.player(ctx)
	if err != nil {
		return err
	}
	call := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Set", 0,
		playerInterface, "Volume", dbus.MakeVariant(percentToVolume(percent)))
	if call.Err != nil {
		return fmt.Errorf("set volume: %w", call.Err)
	}
	return nil
}

// Play calls Player.Play.
func (c *Controller) Play(ctx context.Context) error {
	return c.call(ctx, "Play")
}

// Pause calls Player.Pause.
func (c *Controller) Pause(ctx context.Context) error {
	return c.call(ctx, "Pause")
}

func (c *Controller) call(ctx context.Context, method string) error {
	obj, err := c.player(ctx)
	if err != nil {
		return err
	}
	if call := obj.CallWithContext(ctx, playerInterface+"."+method, 0); call.Err != nil {
		return fmt.Errorf("%s: %w", method, call.Err)
	}
	return nil
}
