package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodo/internal/core/model"
	"pomodo/internal/core/session"
	"pomodo/internal/sound"
	"pomodo/internal/storage"
)

type effectsFixture struct {
	effects  *Effects
	stats    *fakeStats
	notifier *fakeNotifier
	sound    *fakeSound
	ducker   *fakeDucker
}

func newEffectsFixture(settings model.Settings) *effectsFixture {
	fixture := &effectsFixture{
		stats:    &fakeStats{},
		notifier: &fakeNotifier{},
		sound:    &fakeSound{},
		ducker:   &fakeDucker{},
	}
	fixture.effects = NewEffects(EffectsConfig{
		Stats:    fixture.stats,
		Notifier: fixture.notifier,
		Sound:    fixture.sound,
		Ducker:   fixture.ducker,
	}, settings)
	return fixture
}

func duckingSettings() model.Settings {
	settings := model.DefaultSettings()
	settings.Ducking.Enabled = true
	return settings
}

var at = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func workCompleted() session.Event {
	return session.Event{
		Type:          session.EventPhaseCompleted,
		Previous:      session.PhaseWork,
		Phase:         session.PhaseShortBreak,
		Elapsed:       25 * time.Minute,
		PreviousCycle: 1,
		Cycle:         2,
		At:            at,
	}
}

func TestEffects_WorkCompleted(t *testing.T) {
	fixture := newEffectsFixture(duckingSettings())
	var reported storage.DailyStats
	fixture.effects.OnDailyStats = func(day storage.DailyStats) { reported = day }

	fixture.effects.Handle(workCompleted())

	require.Len(t, fixture.stats.sessions, 1)
	assert.Equal(t, "work", fixture.stats.sessions[0].Phase)
	assert.Equal(t, 1, fixture.stats.sessions[0].Cycle, "logged with the cycle the work ran in")
	assert.Equal(t, []time.Duration{25 * time.Minute}, fixture.stats.work)
	assert.Equal(t, 1, reported.CompletedPomodoros)
	assert.Equal(t, "2026-05-04", reported.Date)

	require.Len(t, fixture.notifier.sent, 1)
	assert.Equal(t, "Work session complete!", fixture.notifier.sent[0].Title)
	assert.Equal(t, "Take a break.", fixture.notifier.sent[0].Body)
	assert.Equal(t, []sound.Chime{sound.ChimeBreak}, fixture.sound.played)
	assert.Equal(t, []string{"duck"}, fixture.ducker.calls)
	assert.Equal(t, []time.Duration{3 * time.Second}, fixture.ducker.fades)
}

func TestEffects_BreakCompletedThenWorkStarted(t *testing.T) {
	fixture := newEffectsFixture(duckingSettings())

	fixture.effects.Handle(session.Event{
		Type:     session.EventPhaseCompleted,
		Previous: session.PhaseShortBreak,
		Phase:    session.PhaseWork,
		Elapsed:  5 * time.Minute,
		At:       at,
	})
	fixture.effects.Handle(session.Event{Type: session.EventPhaseStarted, Phase: session.PhaseWork, At: at})

	assert.Empty(t, fixture.stats.work, "breaks do not count as pomodoros")
	require.Len(t, fixture.stats.sessions, 1)
	assert.Equal(t, "Break complete!", fixture.notifier.sent[0].Title)
	assert.Equal(t, []sound.Chime{sound.ChimeFocus}, fixture.sound.played)
	assert.Equal(t, []string{"resume"}, fixture.ducker.calls)
}

func TestEffects_RespectsToggles(t *testing.T) {
	settings := model.DefaultSettings()
	settings.NotificationsEnabled = false
	settings.SoundEnabled = false
	fixture := newEffectsFixture(settings)

	fixture.effects.Handle(workCompleted())
	fixture.effects.Handle(session.Event{Type: session.EventPhaseStarted, Phase: session.PhaseWork})

	assert.Empty(t, fixture.notifier.sent)
	assert.Empty(t, fixture.sound.played)
	assert.Empty(t, fixture.ducker.calls, "ducking is off by default")
	assert.Len(t, fixture.stats.work, 1)

	settings.Ducking.Enabled = true
	settings.Ducking.PauseOnBreak = false
	fixture.effects.SetSettings(settings)
	fixture.effects.Handle(workCompleted())
	fixture.effects.Handle(session.Event{Type: session.EventPhaseStarted, Phase: session.PhaseWork})
	assert.Equal(t, []string{"resume"}, fixture.ducker.calls)
}

func TestEffects_IgnoresTicksAndBreakStarts(t *testing.T) {
	fixture := newEffectsFixture(duckingSettings())

	fixture.effects.Handle(session.Event{Type: session.EventTick, Phase: session.PhaseWork})
	fixture.effects.Handle(session.Event{Type: session.EventPhaseStarted, Phase: session.PhaseShortBreak})
	fixture.effects.Handle(session.Event{Type: session.EventPaused, Phase: session.PhaseWork})

	assert.Empty(t, fixture.stats.sessions)
	assert.Empty(t, fixture.notifier.sent)
	assert.Empty(t, fixture.ducker.calls)
}

func TestEffects_ReplacesPreviousNotification(t *testing.T) {
	fixture := newEffectsFixture(model.DefaultSettings())

	fixture.effects.Handle(workCompleted())
	fixture.effects.Handle(workCompleted())

	require.Len(t, fixture.notifier.sent, 2)
	assert.Equal(t, uint32(0), fixture.notifier.sent[0].ReplacesID)
	assert.Equal(t, uint32(1), fixture.notifier.sent[1].ReplacesID)
}

func TestEffects_ResetDismissesNotification(t *testing.T) {
	fixture := newEffectsFixture(model.DefaultSettings())

	fixture.effects.Handle(session.Event{Type: session.EventReset, Phase: session.PhaseWork})
	assert.Empty(t, fixture.notifier.closed, "nothing shown yet")

	fixture.effects.Handle(workCompleted())
	fixture.effects.Handle(session.Event{Type: session.EventReset, Phase: session.PhaseShortBreak})
	fixture.effects.Handle(workCompleted())

	assert.Equal(t, []uint32{1}, fixture.notifier.closed)
	require.Len(t, fixture.notifier.sent, 2)
	assert.Equal(t, uint32(0), fixture.notifier.sent[1].ReplacesID)
}

func TestEffects_RunStopsWhenChannelCloses(t *testing.T) {
	fixture := newEffectsFixture(model.DefaultSettings())
	events := make(chan session.Event, 1)
	events <- workCompleted()
	close(events)

	fixture.effects.Run(context.Background(), events)

	assert.Len(t, fixture.stats.work, 1)
}

func TestCompletionMessage(t *testing.T) {
	tests := []struct {
		event session.Event
		title string
		body  string
	}{
		{session.Event{Previous: session.PhaseWork, Phase: session.PhaseShortBreak}, "Work session complete!", "Take a break."},
		{session.Event{Previous: session.PhaseWork, Phase: session.PhaseLongBreak}, "Work session complete!", "Take a long break."},
		{session.Event{Previous: session.PhaseLongBreak, Phase: session.PhaseWork}, "Break complete!", "Time to focus."},
		{session.Event{Previous: session.PhaseShortBreak, Phase: session.PhaseWork, Skipped: true}, "Break skipped", "Time to focus."},
	}
	for _, tt := range tests {
		title, body := CompletionMessage(tt.event)
		assert.Equal(t, tt.title, title)
		assert.Equal(t, tt.body, body)
	}
}
