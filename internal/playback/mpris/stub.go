//go:build !linux

package mpris

import (
	"context"

	"pomodo/internal/playback"
)

// Controller is unavailable on non-Linux platforms.
type Controller struct{}

// New returns playback.ErrUnsupported on non-Linux platforms.
func New(_ string) (*Controller, error) {
	return nil, playback.ErrUnsupported
}

func (c *Controller) State(_ context.Context) (playback.State, error) {
	return playback.State{}, playback.ErrUnsupported
}

func (c *Controller) SetVolume(_ context.Context, _ int) error { return playback.ErrUnsupported }

func (c *Controller) Play(_ context.Context) error { return playback.ErrUnsupported }

func (c *Controller) Pause(_ context.Context) error { return playback.ErrUnsupported }
