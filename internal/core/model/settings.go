package model

import "time"

// Bounds applied by Clamp before settings reach the engine.
const (
	MinPhaseDuration = time.Minute
	MaxPhaseDuration = 180 * time.Minute
	MinSessions      = 2
	MaxSessions      = 12
	MaxFade          = 30 * time.Second
)

// Settings is the persisted user preference record.
type Settings struct {
	Work                   time.Duration
	ShortBreak             time.Duration
	LongBreak              time.Duration
	SessionsUntilLongBreak int
	AutoStart              bool

	NotificationsEnabled bool
	SoundEnabled         bool
	LaunchAtLogin        bool
	Theme                Theme

	Ducking DuckingConfig
}

// DefaultSettings returns the classic 25/5/15 schedule.
func DefaultSettings() Settings {
	return Settings{
		Work:                   25 * time.Minute,
		ShortBreak:             5 * time.Minute,
		LongBreak:              15 * time.Minute,
		SessionsUntilLongBreak: 4,
		AutoStart:              false,
		NotificationsEnabled:   true,
		SoundEnabled:           true,
		LaunchAtLogin:          false,
		Theme:                  ThemeDefault,
		Ducking: DuckingConfig{
			Enabled:      false,
			PauseOnBreak: true,
			ResumeOnWork: true,
			Fade:         3 * time.Second,
			ResumeVolume: 50,
		},
	}
}

// Clamp forces every field into the range the hosts accept from user input.
// The engine rejects invalid values instead of clamping them, so hosts call
// Clamp on anything typed by a user.
func (settings Settings) Clamp() Settings {
	settings.Work = clampDuration(settings.Work, MinPhaseDuration, MaxPhaseDuration)
	settings.ShortBreak = clampDuration(settings.ShortBreak, MinPhaseDuration, MaxPhaseDuration)
	settings.LongBreak = clampDuration(settings.LongBreak, MinPhaseDuration, MaxPhaseDuration)

	if settings.SessionsUntilLongBreak < MinSessions {
		settings.SessionsUntilLongBreak = MinSessions
	}
	if settings.SessionsUntilLongBreak > MaxSessions {
		settings.SessionsUntilLongBreak = MaxSessions
	}

	if settings.Ducking.Fade < 0 {
		settings.Ducking.Fade = 0
	}
	if settings.Ducking.Fade > MaxFade {
		settings.Ducking.Fade = MaxFade
	}
	if settings.Ducking.ResumeVolume < 0 {
		settings.Ducking.ResumeVolume = 0
	}
	if settings.Ducking.ResumeVolume > 100 {
		settings.Ducking.ResumeVolume = 100
	}

	if !settings.Theme.Valid() {
		settings.Theme = ThemeDefault
	}
	return settings
}

// SessionConfig converts settings to the engine configuration.
func (settings Settings) SessionConfig() SessionConfig {
	return SessionConfig{
		Work:                   settings.Work,
		ShortBreak:             settings.ShortBreak,
		LongBreak:              settings.LongBreak,
		SessionsUntilLongBreak: settings.SessionsUntilLongBreak,
		AutoStart:              settings.AutoStart,
	}
}

func clampDuration(value, low, high time.Duration) time.Duration {
	value = value.Truncate(time.Second)
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
