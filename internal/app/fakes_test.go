package app

import (
	"context"
	"sync"
	"time"

	"pomodo/internal/notify"
	"pomodo/internal/playback"
	"pomodo/internal/sound"
	"pomodo/internal/storage"
)

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []notify.Notification
	closed []uint32
}

func (f *fakeNotifier) Notify(n notify.Notification) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return uint32(len(f.sent)), nil
}

func (f *fakeNotifier) Close(id uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

type fakeSound struct {
	mu     sync.Mutex
	played []sound.Chime
}

func (f *fakeSound) Play(chime sound.Chime) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, chime)
	return nil
}

type fakeDucker struct {
	calls []string
	fades []time.Duration
}

func (f *fakeDucker) Duck(fade time.Duration) {
	f.calls = append(f.calls, "duck")
	f.fades = append(f.fades, fade)
}

func (f *fakeDucker) Resume(fade time.Duration) {
	f.calls = append(f.calls, "resume")
	f.fades = append(f.fades, fade)
}

type fakeStats struct {
	sessions []storage.SessionRecord
	work     []time.Duration
	count    int
}

func (f *fakeStats) RecordWorkSession(at time.Time, focus time.Duration) (storage.DailyStats, error) {
	f.work = append(f.work, focus)
	f.count++
	return storage.DailyStats{Date: storage.DateKey(at), CompletedPomodoros: f.count}, nil
}

func (f *fakeStats) RecordSession(record storage.SessionRecord) error {
	f.sessions = append(f.sessions, record)
	return nil
}

type fakeAutostart struct {
	enabled bool
	calls   int
}

func (f *fakeAutostart) Enable(string, ...string) error {
	f.enabled = true
	f.calls++
	return nil
}

func (f *fakeAutostart) Disable() error {
	f.enabled = false
	f.calls++
	return nil
}

func (f *fakeAutostart) Enabled() (bool, error) { return f.enabled, nil }

// silentController is a paused player that accepts every call.
type silentController struct{}

func (silentController) State(context.Context) (playback.State, error) {
	return playback.State{Volume: 40}, nil
}
func (silentController) SetVolume(context.Context, int) error { return nil }
func (silentController) Play(context.Context) error          { return nil }
func (silentController) Pause(context.Context) error         { return nil }

// playingController reports a track until it is told to fail.
type playingController struct {
	silentController
	mu    sync.Mutex
	state playback.State
	err   error
}

func (f *playingController) State(context.Context) (playback.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.err
}
