package app

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"pomodo/internal/core/model"
	"pomodo/internal/core/session"
	"pomodo/internal/notify"
	"pomodo/internal/sound"
	"pomodo/internal/storage"
)

// StatsStore records finished phases.
type StatsStore interface {
	RecordWorkSession(at time.Time, focus time.Duration) (storage.DailyStats, error)
	RecordSession(record storage.SessionRecord) error
}

// MusicDucker fades background music around breaks.
type MusicDucker interface {
	Duck(fade time.Duration)
	Resume(fade time.Duration)
}

// Effects turns engine events into side effects: statistics, notifications,
// chimes and music ducking. It runs on its own goroutine, never under the
// engine lock.
type Effects struct {
	stats    StatsStore
	notifier notify.Notifier
	sound    sound.Player
	ducker   MusicDucker
	logger   hclog.Logger

	// OnDailyStats receives the updated day after a work session is recorded.
	OnDailyStats func(storage.DailyStats)

	mu           sync.Mutex
	settings     model.Settings
	notification uint32
}

// EffectsConfig wires the collaborators. Nil fields disable that effect.
type EffectsConfig struct {
	Stats    StatsStore
	Notifier notify.Notifier
	Sound    sound.Player
	Ducker   MusicDucker
	Logger   hclog.Logger
}

// NewEffects creates Effects with the given settings.
func NewEffects(config EffectsConfig, settings model.Settings) *Effects {
	effects := &Effects{
		stats:    config.Stats,
		notifier: config.Notifier,
		sound:    config.Sound,
		ducker:   config.Ducker,
		logger:   config.Logger,
		settings: settings,
	}
	if effects.notifier == nil {
		effects.notifier = notify.Nop()
	}
	if effects.sound == nil {
		effects.sound = sound.Nop()
	}
	if effects.logger == nil {
		effects.logger = hclog.NewNullLogger()
	}
	return effects
}

// SetSettings replaces the settings consulted for each event.
func (effects *Effects) SetSettings(settings model.Settings) {
	effects.mu.Lock()
	effects.settings = settings
	effects.mu.Unlock()
}

// Run handles events until the channel closes or ctx is done.
func (effects *Effects) Run(ctx context.Context, events <-chan session.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			effects.Handle(event)
		}
	}
}

// Handle applies the effects of a single event.
func (effects *Effects) Handle(event session.Event) {
	effects.mu.Lock()
	settings := effects.settings
	effects.mu.Unlock()

	switch event.Type {
	case session.EventPhaseCompleted:
		effects.recordCompletion(event)
		if settings.NotificationsEnabled {
			effects.notify(event)
		}
		if settings.SoundEnabled {
			effects.chime(event)
		}
		if effects.ducker != nil && settings.Ducking.Enabled && settings.Ducking.PauseOnBreak &&
			event.Previous == session.PhaseWork && event.Phase.IsBreak() {
			effects.ducker.Duck(settings.Ducking.Fade)
		}
	case session.EventPhaseStarted:
		if effects.ducker != nil && settings.Ducking.Enabled && settings.Ducking.ResumeOnWork &&
			event.Phase == session.PhaseWork {
			effects.ducker.Resume(settings.Ducking.Fade)
		}
	case session.EventReset:
		effects.dismiss()
	}
}

func (effects *Effects) recordCompletion(event session.Event) {
	if effects.stats == nil {
		return
	}
	err := effects.stats.RecordSession(storage.SessionRecord{
		Phase:    string(event.Previous),
		Cycle:    event.PreviousCycle,
		Duration: event.Elapsed,
		Skipped:  event.Skipped,
		EndedAt:  event.At,
	})
	if err != nil {
		effects.logger.Error("record session failed", "phase", event.Previous, "error", err)
	}

	if event.Previous != session.PhaseWork || event.Skipped {
		return
	}
	day, err := effects.stats.RecordWorkSession(event.At, event.Elapsed)
	if err != nil {
		effects.logger.Error("record work session failed", "error", err)
		return
	}
	effects.logger.Debug("work session recorded", "date", day.Date, "count", day.CompletedPomodoros)
	if effects.OnDailyStats != nil {
		effects.OnDailyStats(day)
	}
}

func (effects *Effects) notify(event session.Event) {
	title, body := CompletionMessage(event)
	effects.mu.Lock()
	replaces := effects.notification
	effects.mu.Unlock()

	id, err := effects.notifier.Notify(notify.Notification{
		Title:      title,
		Body:       body,
		Icon:       "alarm-symbolic",
		Timeout:    -1,
		ReplacesID: replaces,
		Urgency:    notify.UrgencyNormal,
	})
	if err != nil {
		effects.logger.Warn("notification failed", "error", err)
		return
	}
	effects.mu.Lock()
	effects.notification = id
	effects.mu.Unlock()
}

// dismiss closes the last notification, which no longer describes the
// restarted phase.
func (effects *Effects) dismiss() {
	effects.mu.Lock()
	id := effects.notification
	effects.notification = 0
	effects.mu.Unlock()
	if id == 0 {
		return
	}
	if err := effects.notifier.Close(id); err != nil {
		effects.logger.Debug("closing notification failed", "id", id, "error", err)
	}
}

func (effects *Effects) chime(event session.Event) {
	chime := sound.ChimeFocus
	if event.Previous == session.PhaseWork {
		chime = sound.ChimeBreak
	}
	if err := effects.sound.Play(chime); err != nil {
		effects.logger.Warn("chime failed", "error", err)
	}
}

// CompletionMessage returns the notification title and body for a
// phase_completed event.
func CompletionMessage(event session.Event) (string, string) {
	if event.Previous == session.PhaseWork {
		if event.Phase == session.PhaseLongBreak {
			return "Work session complete!", "Take a long break."
		}
		return "Work session complete!", "Take a break."
	}
	if event.Skipped {
		return "Break skipped", "Time to focus."
	}
	return "Break complete!", "Time to focus."
}
