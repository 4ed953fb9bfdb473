// Package mpris controls a desktop media player over the MPRIS D-Bus
// interface.
package mpris

import (
	"math"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busPrefix       = "org.mpris.MediaPlayer2."
	objectPath      = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
)

// selectPlayer picks the bus name to control. preferred matches the part of
// the name after the MPRIS prefix, ignoring instance suffixes such as
// ".instance1234". An empty preferred picks the first player by name.
func selectPlayer(names []string, preferred string) (string, bool) {
	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, busPrefix) {
			players = append(players, name)
		}
	}
	sort.Strings(players)

	if preferred == "" {
		if len(players) == 0 {
			return "", false
		}
		return players[0], true
	}
	for _, name := range players {
		identity := strings.TrimPrefix(name, busPrefix)
		if identity == preferred || strings.HasPrefix(identity, preferred+".") {
			return name, true
		}
	}
	return "", false
}

func volumeToPercent(volume float64) int {
	percent := int(math.Round(volume * 100))
	return min(max(percent, 0), 100)
}

func percentToVolume(percent int) float64 {
	return float64(min(max(percent, 0), 100)) / 100
}

// trackFromMetadata reads the xesam title and artists from a Metadata map.
// Some players send a single artist string instead of a list.
func trackFromMetadata(metadata map[string]dbus.Variant) (string, string) {
	var track, artist string
	if value, ok := metadata["xesam:title"]; ok {
		track, _ = value.Value().(string)
	}
	if value, ok := metadata["xesam:artist"]; ok {
		switch artists := value.Value().(type) {
		case []string:
			artist = strings.Join(artists, ", ")
		case string:
			artist = artists
		}
	}
	return track, artist
}
