package model

import "time"

// SessionConfig contains runtime settings for the session engine.
type SessionConfig struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration

	SessionsUntilLongBreak int
	AutoStart              bool
}

// DuckingConfig describes how background music reacts to phase changes.
type DuckingConfig struct {
	Enabled      bool
	PauseOnBreak bool
	ResumeOnWork bool
	Fade         time.Duration
	ResumeVolume int
}
