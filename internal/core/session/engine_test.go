package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodo/internal/core/model"
)

func classicConfig() model.SessionConfig {
	return model.SessionConfig{
		Work:                   1500 * time.Second,
		ShortBreak:             300 * time.Second,
		LongBreak:              900 * time.Second,
		SessionsUntilLongBreak: 4,
	}
}

type recorder struct {
	events []Event
}

func (rec *recorder) handle(event Event) {
	rec.events = append(rec.events, event)
}

func (rec *recorder) completions() []Event {
	var out []Event
	for _, event := range rec.events {
		if event.Type == EventPhaseCompleted {
			out = append(out, event)
		}
	}
	return out
}

func newTestEngine(t *testing.T, config model.SessionConfig) (*Engine, *recorder) {
	t.Helper()
	engine, err := New(config)
	require.NoError(t, err)
	rec := &recorder{}
	engine.Observe(rec.handle)
	return engine, rec
}

// runPhase ticks until the current phase completes.
func runPhase(t *testing.T, engine *Engine) {
	t.Helper()
	engine.Start()
	ticks := int(engine.Snapshot().Remaining / time.Second)
	for range ticks {
		engine.Tick()
	}
}

func TestNew_InitialState(t *testing.T) {
	engine, _ := newTestEngine(t, classicConfig())

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseWork, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Cycle)
	assert.Equal(t, 1500*time.Second, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 0, snapshot.CompletedWork)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SessionConfig)
	}{
		{"zero work", func(c *model.SessionConfig) { c.Work = 0 }},
		{"negative short break", func(c *model.SessionConfig) { c.ShortBreak = -time.Second }},
		{"sub-second long break", func(c *model.SessionConfig) { c.LongBreak = 500 * time.Millisecond }},
		{"single session cycle", func(c *model.SessionConfig) { c.SessionsUntilLongBreak = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := classicConfig()
			tt.mutate(&config)
			_, err := New(config)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestTick_FirstWorkSessionCompletes(t *testing.T) {
	engine, rec := newTestEngine(t, classicConfig())
	engine.Start()

	for range 1500 {
		engine.Tick()
	}

	completions := rec.completions()
	require.Len(t, completions, 1)
	assert.Equal(t, PhaseWork, completions[0].Previous)
	assert.Equal(t, PhaseShortBreak, completions[0].Phase)
	assert.Equal(t, 1, completions[0].PreviousCycle, "finished work ran in cycle 1")
	assert.Equal(t, 2, completions[0].Cycle)

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.Equal(t, 2, snapshot.Cycle)
	assert.Equal(t, 300*time.Second, snapshot.Remaining)
	assert.Equal(t, 1, snapshot.CompletedWork)
}

func TestTick_FourthWorkSessionEntersLongBreak(t *testing.T) {
	engine, rec := newTestEngine(t, classicConfig())

	for range 4 {
		runPhase(t, engine) // work
		if engine.Snapshot().Phase == PhaseShortBreak {
			runPhase(t, engine)
		}
	}

	var workCompletions []Event
	for _, event := range rec.completions() {
		if event.Previous == PhaseWork {
			workCompletions = append(workCompletions, event)
		}
	}
	require.Len(t, workCompletions, 4)
	for i := range 3 {
		assert.Equal(t, PhaseShortBreak, workCompletions[i].Phase, "work session %d", i+1)
	}
	assert.Equal(t, PhaseLongBreak, workCompletions[3].Phase)
	for i, event := range workCompletions {
		assert.Equal(t, i+1, event.PreviousCycle, "work session %d", i+1)
	}

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseLongBreak, snapshot.Phase)
	assert.Equal(t, 900*time.Second, snapshot.Remaining)
	assert.Equal(t, 4, snapshot.CompletedWork)
}

func TestLongBreakCompletionResetsCycle(t *testing.T) {
	for _, sessions := range []int{2, 3, 4, 6} {
		config := model.SessionConfig{
			Work:                   3 * time.Second,
			ShortBreak:             2 * time.Second,
			LongBreak:              4 * time.Second,
			SessionsUntilLongBreak: sessions,
		}
		engine, rec := newTestEngine(t, config)

		for i := 1; i <= sessions; i++ {
			require.Equal(t, PhaseWork, engine.Snapshot().Phase)
			runPhase(t, engine)
			if i < sessions {
				require.Equal(t, PhaseShortBreak, engine.Snapshot().Phase, "N=%d session %d", sessions, i)
				runPhase(t, engine)
			}
		}
		require.Equal(t, PhaseLongBreak, engine.Snapshot().Phase, "N=%d", sessions)

		runPhase(t, engine)
		snapshot := engine.Snapshot()
		assert.Equal(t, PhaseWork, snapshot.Phase)
		assert.Equal(t, 1, snapshot.Cycle)

		last := rec.completions()[len(rec.completions())-1]
		assert.Equal(t, PhaseLongBreak, last.Previous)
		assert.Equal(t, PhaseWork, last.Phase)
		assert.Equal(t, sessions, last.PreviousCycle, "N=%d", sessions)
		assert.Equal(t, 1, last.Cycle)
	}
}

func TestSetCompletedWork_AnnouncesChanges(t *testing.T) {
	engine, rec := newTestEngine(t, classicConfig())

	engine.SetCompletedWork(3)
	engine.SetCompletedWork(3)
	engine.SetCompletedWork(-2)

	require.Len(t, rec.events, 2)
	assert.Equal(t, EventCounterChanged, rec.events[0].Type)
	assert.Equal(t, EventCounterChanged, rec.events[1].Type)
	assert.Equal(t, 0, engine.Snapshot().CompletedWork)
}

func TestTick_WithoutAutoStartStopsAfterCompletion(t *testing.T) {
	engine, rec := newTestEngine(t, model.SessionConfig{
		Work:                   2 * time.Second,
		ShortBreak:             time.Second,
		LongBreak:              time.Second,
		SessionsUntilLongBreak: 2,
	})

	runPhase(t, engine)
	assert.False(t, engine.Snapshot().Running)

	engine.Tick()
	assert.Equal(t, time.Second, engine.Snapshot().Remaining)

	engine.Start()
	engine.Tick()
	assert.Equal(t, PhaseWork, engine.Snapshot().Phase)
	assert.Len(t, rec.completions(), 2)
}

func TestTick_WithAutoStartKeepsRunning(t *testing.T) {
	config := classicConfig()
	config.Work = 2 * time.Second
	config.AutoStart = true
	engine, rec := newTestEngine(t, config)

	engine.Start()
	engine.Tick()
	engine.Tick()

	snapshot := engine.Snapshot()
	assert.True(t, snapshot.Running)
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventPhaseStarted, last.Type)
	assert.Equal(t, PhaseShortBreak, last.Phase)
}

func TestTick_NoopWhilePaused(t *testing.T) {
	engine, rec := newTestEngine(t, classicConfig())

	engine.Tick()
	assert.Equal(t, 1500*time.Second, engine.Snapshot().Remaining)

	engine.Start()
	engine.Tick()
	engine.Pause()
	engine.Tick()
	engine.Tick()
	assert.Equal(t, 1499*time.Second, engine.Snapshot().Remaining)

	ticks := 0
	for _, event := range rec.events {
		if event.Type == EventTick {
			ticks++
		}
	}
	assert.Equal(t, 1, ticks)
}

func TestTick_EventOrdering(t *testing.T) {
	config := classicConfig()
	config.Work = time.Second
	engine, _ := New(config)

	var seen []EventType
	engine.Observe(func(event Event) {
		seen = append(seen, event.Type)
		if event.Type == EventPhaseCompleted {
			// Observers see post-transition state.
			snapshot := engine.Snapshot()
			assert.Equal(t, PhaseShortBreak, snapshot.Phase)
			assert.Equal(t, 2, snapshot.Cycle)
			assert.Equal(t, 300*time.Second, snapshot.Remaining)
		}
	})

	engine.Start()
	engine.Tick()

	assert.Equal(t, []EventType{EventPhaseStarted, EventTick, EventPhaseCompleted}, seen)
}

func TestReset_KeepsPhaseAndCycle(t *testing.T) {
	engine, _ := newTestEngine(t, classicConfig())
	runPhase(t, engine)
	engine.Start()
	for range 10 {
		engine.Tick()
	}

	before := engine.Snapshot()
	engine.Reset()
	after := engine.Snapshot()

	assert.Equal(t, before.Phase, after.Phase)
	assert.Equal(t, before.Cycle, after.Cycle)
	assert.Equal(t, 300*time.Second, after.Remaining)
	assert.False(t, after.Running)
}

func TestSkip_NoopDuringWork(t *testing.T) {
	engine, rec := newTestEngine(t, classicConfig())
	engine.Start()
	engine.Tick()

	before := engine.Snapshot()
	eventsBefore := len(rec.events)
	engine.Skip()

	assert.Equal(t, before, engine.Snapshot())
	assert.Len(t, rec.events, eventsBefore)
}

func TestSkip_ShortBreakReturnsToWork(t *testing.T) {
	engine, rec := newTestEngine(t, classicConfig())
	runPhase(t, engine)
	engine.Start()
	for range 7 {
		engine.Tick()
	}

	engine.Skip()

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseWork, snapshot.Phase)
	assert.Equal(t, 2, snapshot.Cycle)
	assert.Equal(t, 1500*time.Second, snapshot.Remaining)
	assert.False(t, snapshot.Running)

	last := rec.completions()[len(rec.completions())-1]
	assert.Equal(t, PhaseShortBreak, last.Previous)
	assert.Equal(t, PhaseWork, last.Phase)
	assert.True(t, last.Skipped)
	assert.Equal(t, 7*time.Second, last.Elapsed)
	assert.Equal(t, 1500*time.Second, rec.completions()[0].Elapsed)
}

func TestSkip_LongBreakResetsCycle(t *testing.T) {
	config := classicConfig()
	config.SessionsUntilLongBreak = 2
	engine, _ := newTestEngine(t, config)

	runPhase(t, engine)
	runPhase(t, engine)
	runPhase(t, engine)
	require.Equal(t, PhaseLongBreak, engine.Snapshot().Phase)

	engine.Skip()

	snapshot := engine.Snapshot()
	assert.Equal(t, PhaseWork, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Cycle)
}

func TestStart_Idempotent(t *testing.T) {
	once, onceRec := newTestEngine(t, classicConfig())
	twice, twiceRec := newTestEngine(t, classicConfig())

	once.Start()
	twice.Start()
	twice.Start()

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
	assert.Len(t, twiceRec.events, len(onceRec.events))
}

func TestPause_NoopWhenIdle(t *testing.T) {
	engine, rec := newTestEngine(t, classicConfig())
	engine.Pause()
	assert.Empty(t, rec.events)
}

func TestToggle(t *testing.T) {
	engine, _ := newTestEngine(t, classicConfig())

	engine.Toggle()
	assert.True(t, engine.Snapshot().Running)
	engine.Toggle()
	assert.False(t, engine.Snapshot().Running)
}

func TestConfigure_IdleReloadsDuration(t *testing.T) {
	engine, _ := newTestEngine(t, classicConfig())
	engine.Start()
	engine.Tick()
	engine.Pause()

	config := classicConfig()
	config.Work = 50 * time.Minute
	require.NoError(t, engine.Configure(config))

	snapshot := engine.Snapshot()
	assert.Equal(t, 50*time.Minute, snapshot.Remaining)
	assert.Equal(t, PhaseWork, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Cycle)
}

func TestConfigure_RunningKeepsRemaining(t *testing.T) {
	engine, _ := newTestEngine(t, classicConfig())
	engine.Start()
	engine.Tick()

	config := classicConfig()
	config.Work = 50 * time.Minute
	require.NoError(t, engine.Configure(config))
	assert.Equal(t, 1499*time.Second, engine.Snapshot().Remaining)

	config.Work = 10 * time.Minute
	require.NoError(t, engine.Configure(config))
	assert.Equal(t, 10*time.Minute, engine.Snapshot().Remaining)
}

func TestConfigure_RejectsWithoutMutation(t *testing.T) {
	engine, _ := newTestEngine(t, classicConfig())
	before := engine.Snapshot()

	config := classicConfig()
	config.ShortBreak = 0
	err := engine.Configure(config)

	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, before, engine.Snapshot())
	assert.Equal(t, classicConfig(), engine.Config())
}

func TestConfigure_ShrinkingCycleClampsIndex(t *testing.T) {
	engine, _ := newTestEngine(t, classicConfig())
	for range 3 {
		runPhase(t, engine)
		runPhase(t, engine)
	}
	require.Equal(t, 4, engine.Snapshot().Cycle)

	config := classicConfig()
	config.SessionsUntilLongBreak = 2
	require.NoError(t, engine.Configure(config))
	assert.Equal(t, 2, engine.Snapshot().Cycle)

	runPhase(t, engine)
	assert.Equal(t, PhaseLongBreak, engine.Snapshot().Phase)
}

func TestObserverFuncs(t *testing.T) {
	config := classicConfig()
	config.Work = 2 * time.Second
	engine, err := New(config, WithCompletedWork(3))
	require.NoError(t, err)

	var ticks []time.Duration
	var started []Phase
	var completed [][2]Phase
	engine.Observe(ObserverFuncs{
		OnTick: func(remaining time.Duration, _ Phase) {
			ticks = append(ticks, remaining)
		},
		OnPhaseStarted: func(phase Phase) {
			started = append(started, phase)
		},
		OnPhaseCompleted: func(previous, next Phase) {
			completed = append(completed, [2]Phase{previous, next})
		},
	}.Handle)

	engine.Start()
	engine.Tick()
	engine.Tick()

	assert.Equal(t, []time.Duration{time.Second, 0}, ticks)
	assert.Equal(t, []Phase{PhaseWork}, started)
	assert.Equal(t, [][2]Phase{{PhaseWork, PhaseShortBreak}}, completed)
	assert.Equal(t, 4, engine.Snapshot().CompletedWork)
}

func TestWithClock(t *testing.T) {
	stamp := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	engine, err := New(classicConfig(), WithClock(func() time.Time { return stamp }))
	require.NoError(t, err)

	var got time.Time
	engine.Observe(func(event Event) { got = event.At })
	engine.Start()

	assert.Equal(t, stamp, got)
}

func TestSnapshotProgress(t *testing.T) {
	snapshot := Snapshot{Remaining: 15 * time.Second, Total: 60 * time.Second}
	assert.InDelta(t, 0.75, snapshot.Progress(), 1e-9)
	assert.Zero(t, Snapshot{}.Progress())
}
