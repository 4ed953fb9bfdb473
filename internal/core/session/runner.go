package session

import (
	"context"
	"sync"
	"time"

	"pomodo/internal/core/model"
)

// RunnerConfig contains runtime options for Runner.
type RunnerConfig struct {
	TickInterval time.Duration
}

// Runner drives an Engine from a ticker and makes it safe to share between
// goroutines. Every engine call goes through the runner's mutex.
type Runner struct {
	mu      sync.Mutex
	engine  *Engine
	options RunnerConfig
	events  []chan Event
	closed  bool
}

// NewRunner wraps engine. The engine must not be used directly afterwards.
func NewRunner(engine *Engine, options RunnerConfig) *Runner {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	runner := &Runner{
		engine:  engine,
		options: options,
	}
	engine.Observe(runner.fanOut)
	return runner
}

// Subscribe registers a new observer channel. Events are dropped for a
// subscriber whose buffer is full. The channel is closed when Run returns.
func (runner *Runner) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.closed {
		close(ch)
		return ch
	}
	runner.events = append(runner.events, ch)
	return ch
}

// Observe registers a synchronous handler on the engine. The handler runs
// with the runner locked and must not call back into the runner.
func (runner *Runner) Observe(handler Handler) {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.Observe(handler)
}

// Run ticks the engine until ctx is cancelled, then closes all subscriber
// channels.
func (runner *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(runner.options.TickInterval)
	defer ticker.Stop()
	defer runner.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runner.Tick()
		}
	}
}

// Tick advances the engine by one second.
func (runner *Runner) Tick() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.Tick()
}

// Start resumes the countdown.
func (runner *Runner) Start() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.Start()
}

// Pause freezes the countdown.
func (runner *Runner) Pause() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.Pause()
}

// Toggle flips between running and paused.
func (runner *Runner) Toggle() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.Toggle()
}

// Reset reloads the current phase.
func (runner *Runner) Reset() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.Reset()
}

// Skip ends the current break.
func (runner *Runner) Skip() {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.Skip()
}

// Configure applies a new configuration.
func (runner *Runner) Configure(config model.SessionConfig) error {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	return runner.engine.Configure(config)
}

// SetCompletedWork replaces the completed work session counter.
func (runner *Runner) SetCompletedWork(count int) {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	runner.engine.SetCompletedWork(count)
}

// Snapshot returns a copy of the engine state.
func (runner *Runner) Snapshot() Snapshot {
	runner.mu.Lock()
	defer runner.mu.Unlock()
	return runner.engine.Snapshot()
}

// fanOut is registered on the engine and therefore runs with mu held.
func (runner *Runner) fanOut(event Event) {
	for _, ch := range runner.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (runner *Runner) closeSubscribers() {
	runner.mu.Lock()
	events := runner.events
	runner.events = nil
	runner.closed = true
	runner.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}
