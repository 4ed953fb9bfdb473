package session

import (
	"errors"
	"fmt"
	"time"

	"pomodo/internal/core/model"
)

// ErrInvalidConfig indicates a configuration the engine refuses to run with.
var ErrInvalidConfig = errors.New("invalid session config")

// Option customizes a new Engine.
type Option func(*Engine)

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(engine *Engine) {
		if now != nil {
			engine.now = now
		}
	}
}

// WithCompletedWork seeds the completed work session counter.
func WithCompletedWork(count int) Option {
	return func(engine *Engine) {
		engine.completedWork = max(count, 0)
	}
}

// Engine is the countdown state machine for work and break phases.
//
// Engine performs no scheduling and is not safe for concurrent use. A host
// calls Tick once per second while the engine is running and serializes all
// calls, either by confining the engine to one goroutine or through Runner.
type Engine struct {
	config        model.SessionConfig
	phase         Phase
	remaining     int
	cycle         int
	running       bool
	completedWork int
	handlers      []Handler
	now           func() time.Time
}

// New creates an Engine in the first work phase of a cycle.
func New(config model.SessionConfig, options ...Option) (*Engine, error) {
	if err := Validate(config); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: config,
		phase:  PhaseWork,
		cycle:  1,
		now:    time.Now,
	}
	for _, option := range options {
		option(engine)
	}
	engine.remaining = engine.durationSeconds(engine.phase)
	return engine, nil
}

// Validate checks a configuration without applying it.
func Validate(config model.SessionConfig) error {
	if seconds(config.Work) <= 0 {
		return fmt.Errorf("%w: work duration must be at least one second", ErrInvalidConfig)
	}
	if seconds(config.ShortBreak) <= 0 {
		return fmt.Errorf("%w: short break duration must be at least one second", ErrInvalidConfig)
	}
	if seconds(config.LongBreak) <= 0 {
		return fmt.Errorf("%w: long break duration must be at least one second", ErrInvalidConfig)
	}
	if config.SessionsUntilLongBreak < 2 {
		return fmt.Errorf("%w: sessions until long break must be at least 2, got %d", ErrInvalidConfig, config.SessionsUntilLongBreak)
	}
	return nil
}

// Observe registers a handler. Handlers run synchronously in registration
// order and see the engine state after the change that produced the event.
func (engine *Engine) Observe(handler Handler) {
	if handler == nil {
		return
	}
	engine.handlers = append(engine.handlers, handler)
}

// Configure replaces the configuration. Phase and cycle are kept, except
// that a cycle beyond a shorter set length is lowered to the new length so
// it stays within [1, SessionsUntilLongBreak]. An idle engine reloads the
// full duration of the current phase.
func (engine *Engine) Configure(config model.SessionConfig) error {
	if err := Validate(config); err != nil {
		return err
	}

	engine.config = config
	if engine.cycle > config.SessionsUntilLongBreak {
		engine.cycle = config.SessionsUntilLongBreak
	}

	total := engine.durationSeconds(engine.phase)
	if !engine.running || engine.remaining > total {
		engine.remaining = total
	}

	engine.emit(Event{Type: EventConfigured})
	return nil
}

// Start begins counting down the current phase.
func (engine *Engine) Start() {
	if engine.running {
		return
	}
	engine.running = true
	engine.emit(Event{Type: EventPhaseStarted})
}

// Pause stops time advancement.
func (engine *Engine) Pause() {
	if !engine.running {
		return
	}
	engine.running = false
	engine.emit(Event{Type: EventPaused})
}

// Toggle starts an idle engine or pauses a running one.
func (engine *Engine) Toggle() {
	if engine.running {
		engine.Pause()
		return
	}
	engine.Start()
}

// Tick advances the countdown by one second. It is a no-op while paused.
func (engine *Engine) Tick() {
	if !engine.running {
		return
	}

	engine.remaining--
	if engine.remaining < 0 {
		engine.remaining = 0
	}
	engine.emit(Event{Type: EventTick})

	if engine.remaining == 0 {
		engine.complete(false)
	}
}

// Reset pauses and reloads the full duration of the current phase.
func (engine *Engine) Reset() {
	engine.Pause()
	engine.remaining = engine.durationSeconds(engine.phase)
	engine.emit(Event{Type: EventReset})
}

// Skip ends the current break as if it had run out. It is a no-op during work.
func (engine *Engine) Skip() {
	if !engine.phase.IsBreak() {
		return
	}
	engine.complete(true)
}

// SetCompletedWork replaces the completed work session counter. A changed
// value is announced with EventCounterChanged.
func (engine *Engine) SetCompletedWork(count int) {
	count = max(count, 0)
	if count == engine.completedWork {
		return
	}
	engine.completedWork = count
	engine.emit(Event{Type: EventCounterChanged})
}

// Snapshot returns a copy of the current state.
func (engine *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:         engine.phase,
		Remaining:     time.Duration(engine.remaining) * time.Second,
		Total:         time.Duration(engine.durationSeconds(engine.phase)) * time.Second,
		Cycle:         engine.cycle,
		CycleLength:   engine.config.SessionsUntilLongBreak,
		Running:       engine.running,
		CompletedWork: engine.completedWork,
	}
}

// Config returns the active configuration.
func (engine *Engine) Config() model.SessionConfig {
	return engine.config
}

func (engine *Engine) complete(skipped bool) {
	previous := engine.phase
	previousCycle := engine.cycle
	elapsed := engine.durationSeconds(previous) - engine.remaining
	next := engine.nextPhase()
	engine.phase = next
	engine.remaining = engine.durationSeconds(next)
	engine.running = engine.config.AutoStart

	engine.emit(Event{
		Type:     EventPhaseCompleted,
		Previous:      previous,
		PreviousCycle: previousCycle,
		Elapsed:       time.Duration(max(elapsed, 0)) * time.Second,
		Skipped:       skipped,
	})
	if engine.running {
		engine.emit(Event{Type: EventPhaseStarted})
	}
}

// nextPhase applies the sequencing rule. The cycle advances when a work
// session hands over to a short break and restarts after a long break.
func (engine *Engine) nextPhase() Phase {
	switch engine.phase {
	case PhaseWork:
		engine.completedWork++
		if engine.cycle >= engine.config.SessionsUntilLongBreak {
			return PhaseLongBreak
		}
		engine.cycle++
		return PhaseShortBreak
	case PhaseLongBreak:
		engine.cycle = 1
	}
	return PhaseWork
}

func (engine *Engine) durationSeconds(phase Phase) int {
	switch phase {
	case PhaseShortBreak:
		return seconds(engine.config.ShortBreak)
	case PhaseLongBreak:
		return seconds(engine.config.LongBreak)
	}
	return seconds(engine.config.Work)
}

func (engine *Engine) emit(event Event) {
	if event.Phase == "" {
		event.Phase = engine.phase
	}
	event.Remaining = time.Duration(engine.remaining) * time.Second
	event.Cycle = engine.cycle
	event.At = engine.now()
	for _, handler := range engine.handlers {
		handler(event)
	}
}

func seconds(duration time.Duration) int {
	return int(duration / time.Second)
}
