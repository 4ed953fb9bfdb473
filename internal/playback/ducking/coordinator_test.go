package ducking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func instantSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func TestCoordinator_DuckThenResume(t *testing.T) {
	ctrl := &fakeController{playing: true, volume: 64}
	coord := NewCoordinator(New(WithSleep(instantSleep)), ctrl, nil)

	coord.Duck(time.Second)
	coord.Wait()
	assert.False(t, ctrl.playing)
	assert.True(t, coord.Ducked())

	coord.Resume(time.Second)
	coord.Wait()
	assert.True(t, ctrl.playing)
	assert.Equal(t, 64, ctrl.volume)
	assert.False(t, coord.Ducked())
}

func TestCoordinator_ResumeWithoutDuckIsNoop(t *testing.T) {
	ctrl := &fakeController{playing: false, volume: 30}
	coord := NewCoordinator(New(WithSleep(instantSleep)), ctrl, nil)

	coord.Resume(time.Second)
	coord.Wait()

	assert.Empty(t, ctrl.calls)
}

func TestCoordinator_DoesNotResumeMusicThatWasPaused(t *testing.T) {
	ctrl := &fakeController{playing: false, volume: 30}
	coord := NewCoordinator(New(WithSleep(instantSleep)), ctrl, nil)

	coord.Duck(0)
	coord.Resume(0)
	coord.Wait()

	assert.Equal(t, 0, ctrl.count("play"))
	assert.False(t, ctrl.playing)
}

func TestCoordinator_ResumeSupersedesDuck(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	blockingSleep := func(ctx context.Context, _ time.Duration) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	}
	ctrl := &fakeController{playing: true, volume: 80}
	coord := NewCoordinator(New(WithSleep(blockingSleep)), ctrl, nil)

	coord.Duck(time.Second)
	<-started
	coord.Resume(0)
	coord.Wait()

	assert.True(t, ctrl.playing)
	assert.Equal(t, 80, ctrl.volume)
	assert.Equal(t, 0, ctrl.count("pause"))
	assert.Equal(t, []int{76, 80}, ctrl.volumes, "the fade in sets the volume, no separate restore")
}

func TestCoordinator_CloseCancelsFade(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	blockingSleep := func(ctx context.Context, _ time.Duration) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	}
	ctrl := &fakeController{playing: true, volume: 80}
	coord := NewCoordinator(New(WithSleep(blockingSleep)), ctrl, nil)

	coord.Duck(time.Second)
	<-started
	coord.Close()

	assert.Equal(t, 0, ctrl.count("pause"))
	assert.Equal(t, []int{76, 80}, ctrl.volumes, "volume put back after the interrupted ramp")
	assert.Equal(t, 80, ctrl.volume)
}
