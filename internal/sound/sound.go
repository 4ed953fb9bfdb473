// Package sound plays the short chimes that mark phase changes.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/hashicorp/go-hclog"
)

const sampleRate = beep.SampleRate(44100)

// Chime selects the melody for a transition.
type Chime int

const (
	// ChimeBreak plays when a work phase ends.
	ChimeBreak Chime = iota
	// ChimeFocus plays when a break ends.
	ChimeFocus
)

type note struct {
	freq     float64
	duration time.Duration
}

// Player plays chimes.
type Player interface {
	Play(chime Chime) error
}

// Speaker plays chimes on the default audio device. The device is opened on
// first use.
type Speaker struct {
	logger hclog.Logger
	volume float64 // beep volume, base 2

	once    sync.Once
	initErr error
}

// NewSpeaker creates a Speaker.
func NewSpeaker(logger hclog.Logger) *Speaker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Speaker{logger: logger, volume: -1}
}

// Play starts the chime and returns without waiting for it to finish.
func (s *Speaker) Play(chime Chime) error {
	s.once.Do(func() {
		s.initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
		if s.initErr != nil {
			s.logger.Warn("audio device unavailable", "error", s.initErr)
		}
	})
	if s.initErr != nil {
		return fmt.Errorf("init speaker: %w", s.initErr)
	}

	melody, err := render(sampleRate, notes(chime))
	if err != nil {
		return err
	}
	speaker.Play(&effects.Volume{Streamer: melody, Base: 2, Volume: s.volume})
	return nil
}

// Nop returns a Player that stays silent.
func Nop() Player {
	return nopPlayer{}
}

type nopPlayer struct{}

func (nopPlayer) Play(Chime) error { return nil }

func notes(chime Chime) []note {
	const (
		c6 = 1046.50
		e6 = 1318.51
		g6 = 1567.98
	)
	switch chime {
	case ChimeFocus:
		return []note{{c6, 140 * time.Millisecond}, {e6, 140 * time.Millisecond}, {g6, 260 * time.Millisecond}}
	default:
		return []note{{g6, 180 * time.Millisecond}, {c6, 320 * time.Millisecond}}
	}
}

// render joins the notes with a short gap between them.
func render(rate beep.SampleRate, melody []note) (beep.Streamer, error) {
	gap := rate.N(40 * time.Millisecond)
	parts := make([]beep.Streamer, 0, 2*len(melody))
	for i, n := range melody {
		tone, err := generators.SineTone(rate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("sine tone %.0f Hz: %w", n.freq, err)
		}
		parts = append(parts, beep.Take(rate.N(n.duration), tone))
		if i < len(melody)-1 {
			parts = append(parts, generators.Silence(gap))
		}
	}
	return beep.Seq(parts...), nil
}
