package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_NowPlaying(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{name: "track and artist", state: State{Track: "Weightless", Artist: "Marconi Union"}, want: "Weightless · Marconi Union"},
		{name: "track only", state: State{Track: " Intro "}, want: "Intro"},
		{name: "artist only", state: State{Artist: "Nobody"}, want: ""},
		{name: "empty", state: State{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.NowPlaying())
		})
	}
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0, ClampVolume(-5))
	assert.Equal(t, 100, ClampVolume(140))
	assert.Equal(t, 37, ClampVolume(37))
}
