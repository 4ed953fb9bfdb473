package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodo/internal/core/model"
)

func TestLoadSettings_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), settingsFileName))

	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomodo", settingsFileName)
	want := model.DefaultSettings()
	want.Work = 50 * time.Minute
	want.ShortBreak = 10 * time.Minute
	want.LongBreak = 30 * time.Minute
	want.SessionsUntilLongBreak = 3
	want.AutoStart = true
	want.NotificationsEnabled = false
	want.SoundEnabled = false
	want.Theme = model.ThemeWinter
	want.Ducking.Enabled = true
	want.Ducking.Fade = 1500 * time.Millisecond
	want.Ducking.ResumeVolume = 70

	require.NoError(t, SaveSettings(path, want))
	got, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettings_IgnoresOutOfRangeFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	content := `
work_minutes: 0
short_break_minutes: 7
long_break_minutes: 999
sessions_until_long_break: 1
theme: neon
notifications_enabled: false
ducking:
  fade_ms: 600000
  resume_volume: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	defaults := model.DefaultSettings()
	assert.Equal(t, defaults.Work, settings.Work)
	assert.Equal(t, 7*time.Minute, settings.ShortBreak)
	assert.Equal(t, defaults.LongBreak, settings.LongBreak)
	assert.Equal(t, defaults.SessionsUntilLongBreak, settings.SessionsUntilLongBreak)
	assert.Equal(t, model.ThemeDefault, settings.Theme)
	assert.False(t, settings.NotificationsEnabled)
	assert.True(t, settings.SoundEnabled, "absent keys keep defaults")
	assert.Equal(t, defaults.Ducking.Fade, settings.Ducking.Fade)
	assert.Equal(t, 30, settings.Ducking.ResumeVolume)
}

func TestLoadSettings_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("work_minutes: [oops"), 0o600))

	settings, err := LoadSettings(path)

	assert.Error(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}
