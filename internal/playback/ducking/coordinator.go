package ducking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"pomodo/internal/playback"
)

// restoreTimeout bounds the volume restore after an interrupted fade out.
const restoreTimeout = 2 * time.Second

// Reasons a fade in flight is cancelled.
var (
	errDuckRequested   = errors.New("superseded by a new fade out")
	errResumeRequested = errors.New("superseded by a fade in")
	errClosed          = errors.New("coordinator closed")
)

// Coordinator runs at most one fade per controller. A new request cancels
// the ramp in flight and waits for it before issuing its own calls.
// Resume only restarts music that an earlier Duck found playing.
type Coordinator struct {
	ducker *Ducker
	ctrl   playback.Controller
	logger hclog.Logger

	mu       sync.Mutex
	cancel   context.CancelCauseFunc
	done     chan struct{}
	ducked   bool
	resumeAt int
}

// NewCoordinator creates a coordinator for ctrl.
func NewCoordinator(ducker *Ducker, ctrl playback.Controller, logger hclog.Logger) *Coordinator {
	if ducker == nil {
		ducker = New()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Coordinator{
		ducker: ducker,
		ctrl:   ctrl,
		logger: logger,
	}
}

// Duck fades the music out and pauses it in the background. A fade out
// cut short by Close or another Duck puts the volume back; one cut short
// by Resume leaves the volume to the fade in.
func (coord *Coordinator) Duck(fade time.Duration) {
	coord.launch(errDuckRequested, func(ctx context.Context) {
		outcome, err := coord.ducker.FadeOutAndPause(ctx, coord.ctrl, fade)
		if outcome.WasPlaying {
			coord.mu.Lock()
			coord.ducked = true
			coord.resumeAt = outcome.Volume
			coord.mu.Unlock()
		}
		if err != nil {
			coord.logFailure("fade out", err)
		}
		if outcome.WasPlaying && ctx.Err() != nil && !errors.Is(context.Cause(ctx), errResumeRequested) {
			coord.restoreVolume(outcome.Volume)
		}
	})
}

// Resume fades the music back in to the volume it had before Duck.
func (coord *Coordinator) Resume(fade time.Duration) {
	coord.launch(errResumeRequested, func(ctx context.Context) {
		coord.mu.Lock()
		ducked, target := coord.ducked, coord.resumeAt
		coord.ducked = false
		coord.mu.Unlock()
		if !ducked {
			return
		}
		if err := coord.ducker.ResumeAndFadeIn(ctx, coord.ctrl, target, fade); err != nil {
			coord.logFailure("fade in", err)
		}
	})
}

// Ducked reports whether music is currently held paused by the coordinator.
func (coord *Coordinator) Ducked() bool {
	coord.mu.Lock()
	defer coord.mu.Unlock()
	return coord.ducked
}

// Wait blocks until the most recent fade has returned.
func (coord *Coordinator) Wait() {
	coord.mu.Lock()
	done := coord.done
	coord.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close cancels the fade in flight and waits for it.
func (coord *Coordinator) Close() {
	coord.mu.Lock()
	if coord.cancel != nil {
		coord.cancel(errClosed)
	}
	coord.mu.Unlock()
	coord.Wait()
}

// launch cancels the fade in flight with reason and runs the next one once
// the previous has returned.
func (coord *Coordinator) launch(reason error, run func(ctx context.Context)) {
	coord.mu.Lock()
	if coord.cancel != nil {
		coord.cancel(reason)
	}
	previous := coord.done
	ctx, cancel := context.WithCancelCause(context.Background())
	done := make(chan struct{})
	coord.cancel = cancel
	coord.done = done
	coord.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel(nil)
		if previous != nil {
			<-previous
		}
		if ctx.Err() != nil {
			return
		}
		run(ctx)
	}()
}

func (coord *Coordinator) restoreVolume(percent int) {
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()
	if err := coord.ctrl.SetVolume(ctx, percent); err != nil {
		coord.logger.Warn("restoring volume failed", "volume", percent, "error", err)
	}
}

func (coord *Coordinator) logFailure(operation string, err error) {
	if errors.Is(err, context.Canceled) {
		coord.logger.Debug("fade superseded", "operation", operation)
		return
	}
	coord.logger.Error("fade failed", "operation", operation, "error", err)
}
