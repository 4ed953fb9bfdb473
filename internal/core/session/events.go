package session

import "time"

// Phase represents the kind of session being counted down.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// IsBreak reports whether the phase is a short or long break.
func (phase Phase) IsBreak() bool {
	return phase == PhaseShortBreak || phase == PhaseLongBreak
}

// Label returns a human readable phase name.
func (phase Phase) Label() string {
	switch phase {
	case PhaseWork:
		return "Work"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	}
	return string(phase)
}

// EventType defines the type of engine event.
type EventType string

const (
	EventTick           EventType = "tick"
	EventPhaseStarted   EventType = "phase_started"
	EventPhaseCompleted EventType = "phase_completed"
	EventPaused         EventType = "paused"
	EventReset          EventType = "reset"
	EventConfigured     EventType = "configured"
	EventCounterChanged EventType = "counter_changed"
)

// Event represents an engine update for observers.
//
// For EventPhaseCompleted, Previous is the finished phase and Phase is the
// phase just entered. PreviousCycle is the cycle the finished phase ran in,
// while Cycle already belongs to the new phase. Elapsed is how long the
// finished phase ran, and Skipped is set when the break was ended by Skip.
type Event struct {
	Type          EventType
	Phase         Phase
	Previous      Phase
	PreviousCycle int
	Remaining     time.Duration
	Elapsed       time.Duration
	Cycle         int
	Skipped       bool
	At            time.Time
}

// Handler receives engine events synchronously.
type Handler func(Event)

// ObserverFuncs adapts per-kind callbacks to a Handler.
// Nil callbacks are skipped.
type ObserverFuncs struct {
	OnTick           func(remaining time.Duration, phase Phase)
	OnPhaseStarted   func(phase Phase)
	OnPhaseCompleted func(previous, next Phase)
}

// Handle dispatches event to the matching callback.
func (funcs ObserverFuncs) Handle(event Event) {
	switch event.Type {
	case EventTick:
		if funcs.OnTick != nil {
			funcs.OnTick(event.Remaining, event.Phase)
		}
	case EventPhaseStarted:
		if funcs.OnPhaseStarted != nil {
			funcs.OnPhaseStarted(event.Phase)
		}
	case EventPhaseCompleted:
		if funcs.OnPhaseCompleted != nil {
			funcs.OnPhaseCompleted(event.Previous, event.Phase)
		}
	}
}

// Snapshot is a copy of the engine state.
type Snapshot struct {
	Phase         Phase
	Remaining     time.Duration
	Total         time.Duration
	Cycle         int
	CycleLength   int
	Running       bool
	CompletedWork int
}

// Progress returns the elapsed fraction of the current phase in [0, 1].
func (snapshot Snapshot) Progress() float64 {
	if snapshot.Total <= 0 {
		return 0
	}
	progress := float64(snapshot.Total-snapshot.Remaining) / float64(snapshot.Total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
