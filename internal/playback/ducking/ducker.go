// Package ducking fades background music around phase changes.
package ducking

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-hclog"

	"pomodo/internal/playback"
)

const (
	// Steps is the number of volume changes in one fade.
	Steps = 20
	// DefaultVolume is assumed when the player does not report its volume,
	// unless WithDefaultVolume overrides it.
	DefaultVolume = 50
	// SettleDelay is the wait between play and the first fade-in step.
	SettleDelay = 100 * time.Millisecond
)

// SleepFunc suspends the caller for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Outcome describes the player before a fade out.
type Outcome struct {
	WasPlaying bool
	Volume     int
}

// Ducker performs linear volume ramps against a playback.Controller.
// It holds no state between calls; the host must not run two fades against
// the same controller at once (see Coordinator).
type Ducker struct {
	logger        hclog.Logger
	sleep         SleepFunc
	defaultVolume int
}

// Option customizes a Ducker.
type Option func(*Ducker)

// WithLogger sets the logger used for swallowed step failures.
func WithLogger(logger hclog.Logger) Option {
	return func(ducker *Ducker) {
		if logger != nil {
			ducker.logger = logger
		}
	}
}

// WithSleep replaces the sleep function, mainly for tests.
func WithSleep(sleep SleepFunc) Option {
	return func(ducker *Ducker) {
		if sleep != nil {
			ducker.sleep = sleep
		}
	}
}

// WithDefaultVolume sets the volume assumed when the player reports none.
func WithDefaultVolume(percent int) Option {
	return func(ducker *Ducker) {
		ducker.defaultVolume = playback.ClampVolume(percent)
	}
}

// New creates a Ducker.
func New(options ...Option) *Ducker {
	ducker := &Ducker{
		logger:        hclog.NewNullLogger(),
		sleep:         sleepWithContext,
		defaultVolume: DefaultVolume,
	}
	for _, option := range options {
		option(ducker)
	}
	return ducker
}

// FadeOutAndPause ramps the volume down to zero, pauses, and restores the
// original volume so the next resume is audible. A player that is already
// paused is left untouched. Only the final pause is allowed to fail the call.
func (ducker *Ducker) FadeOutAndPause(ctx context.Context, ctrl playback.Controller, fade time.Duration) (Outcome, error) {
	state, err := ctrl.State(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("read playback state: %w", err)
	}
	original := state.Volume
	if original < 0 {
		original = ducker.defaultVolume
	}
	original = playback.ClampVolume(original)
	outcome := Outcome{WasPlaying: state.Playing, Volume: original}

	if !state.Playing {
		return outcome, nil
	}

	if fade <= 0 {
		if err := ctrl.Pause(ctx); err != nil {
			return outcome, fmt.Errorf("pause playback: %w", err)
		}
		return outcome, nil
	}

	step := fade / Steps
	for i := 1; i <= Steps; i++ {
		ducker.setVolume(ctx, ctrl, rampVolume(original, 0, i))
		if err := ducker.sleep(ctx, step); err != nil {
			return outcome, err
		}
	}

	if err := ctrl.Pause(ctx); err != nil {
		return outcome, fmt.Errorf("pause playback: %w", err)
	}
	ducker.setVolume(ctx, ctrl, original)
	return outcome, nil
}

// ResumeAndFadeIn starts playback silently and ramps the volume up to
// target. Without a fade the target volume is applied before play. Only
// the play call is allowed to fail the operation.
func (ducker *Ducker) ResumeAndFadeIn(ctx context.Context, ctrl playback.Controller, target int, fade time.Duration) error {
	target = playback.ClampVolume(target)

	if fade <= 0 {
		ducker.setVolume(ctx, ctrl, target)
		if err := ctrl.Play(ctx); err != nil {
			return fmt.Errorf("resume playback: %w", err)
		}
		return nil
	}

	ducker.setVolume(ctx, ctrl, 0)
	if err := ctrl.Play(ctx); err != nil {
		return fmt.Errorf("resume playback: %w", err)
	}
	if err := ducker.sleep(ctx, SettleDelay); err != nil {
		return err
	}

	step := fade / Steps
	for i := 1; i <= Steps; i++ {
		ducker.setVolume(ctx, ctrl, rampVolume(0, target, i))
		if err := ducker.sleep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (ducker *Ducker) setVolume(ctx context.Context, ctrl playback.Controller, percent int) {
	if err := ctrl.SetVolume(ctx, percent); err != nil {
		ducker.logger.Warn("volume step failed", "volume", percent, "error", err)
	}
}

// rampVolume returns the rounded volume at step i of a Steps-long ramp.
// The last step lands exactly on to.
func rampVolume(from, to, i int) int {
	if i >= Steps {
		return to
	}
	value := float64(from) + float64(to-from)*float64(i)/float64(Steps)
	return int(math.Round(value))
}

func sleepWithContext(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
