package cli

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"pomodo/internal/playback"
)

func TestDescribeState(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "Paused, volume unknown", describeState(playback.State{Volume: playback.UnknownVolume}))
	assert.Equal(t, "Playing at 40% volume: Holocene · Bon Iver", describeState(playback.State{
		Playing: true, Volume: 40, Track: "Holocene", Artist: "Bon Iver",
	}))
}
