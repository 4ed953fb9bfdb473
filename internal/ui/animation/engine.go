package animation

import (
	"context"
	"sync"
	"time"
)

// Config contains the breathing rhythm.
type Config struct {
	Inhale  time.Duration
	HoldIn  time.Duration
	Exhale  time.Duration
	HoldOut time.Duration
}

// Engine cycles through the breathing steps and reports each one to the
// overlay.
type Engine struct {
	mu     sync.Mutex
	config Config
	onStep func(Step)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new animation engine. onStep runs on the engine goroutine.
func New(config Config, onStep func(Step)) *Engine {
	return &Engine{
		config: config,
		onStep: onStep,
	}
}

// Start restarts the cycle from the first step. It returns immediately.
func (engine *Engine) Start(ctx context.Context) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()

	steps := Sequence(engine.config)
	if len(steps) == 0 {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done

	go func() {
		defer close(done)
		engine.run(runCtx, steps)
	}()
}

// Stop terminates any active animation and waits for it to exit.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()
}

// SetConfig changes the rhythm used by the next Start.
func (engine *Engine) SetConfig(config Config) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.config = config
}

func (engine *Engine) stopLocked() {
	if engine.cancel == nil {
		return
	}
	engine.cancel()
	<-engine.done
	engine.cancel = nil
	engine.done = nil
}

func (engine *Engine) run(ctx context.Context, steps []Step) {
	for {
		for _, step := range steps {
			if ctx.Err() != nil {
				return
			}
			if engine.onStep != nil {
				engine.onStep(step)
			}
			if !sleepWithContext(ctx, step.Duration) {
				return
			}
		}
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
