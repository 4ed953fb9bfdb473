package animation

import "time"

// DefaultConfig returns a box breathing rhythm of four seconds per stage.
func DefaultConfig() Config {
	return Config{
		Inhale:  4 * time.Second,
		HoldIn:  4 * time.Second,
		Exhale:  4 * time.Second,
		HoldOut: 4 * time.Second,
	}
}
