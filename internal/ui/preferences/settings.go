package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pomodo/internal/core/model"
)

// Form holds the editable values as the widgets show them.
type Form struct {
	WorkMinutes       string
	ShortBreakMinutes string
	LongBreakMinutes  string
	Sessions          string
	AutoStart         bool

	Notifications bool
	Sound         bool
	LaunchAtLogin bool
	Theme         string

	Ducking      bool
	PauseOnBreak bool
	ResumeOnWork bool
	FadeMillis   string
	ResumeVolume float64
}

// FormFromSettings fills a form with the stored values.
func FormFromSettings(settings model.Settings) Form {
	return Form{
		WorkMinutes:       strconv.Itoa(int(settings.Work / time.Minute)),
		ShortBreakMinutes: strconv.Itoa(int(settings.ShortBreak / time.Minute)),
		LongBreakMinutes:  strconv.Itoa(int(settings.LongBreak / time.Minute)),
		Sessions:          strconv.Itoa(settings.SessionsUntilLongBreak),
		AutoStart:         settings.AutoStart,
		Notifications:     settings.NotificationsEnabled,
		Sound:             settings.SoundEnabled,
		LaunchAtLogin:     settings.LaunchAtLogin,
		Theme:             string(settings.Theme),
		Ducking:           settings.Ducking.Enabled,
		PauseOnBreak:      settings.Ducking.PauseOnBreak,
		ResumeOnWork:      settings.Ducking.ResumeOnWork,
		FadeMillis:        strconv.Itoa(int(settings.Ducking.Fade / time.Millisecond)),
		ResumeVolume:      float64(settings.Ducking.ResumeVolume),
	}
}

// Apply overlays the form on base. Fields that do not parse keep the base
// value and are reported by label; the result is clamped.
func (form Form) Apply(base model.Settings) (model.Settings, []string) {
	settings := base
	var invalid []string

	if minutes, ok := parsePositiveInt(form.WorkMinutes); ok {
		settings.Work = time.Duration(minutes) * time.Minute
	} else {
		invalid = append(invalid, "work")
	}
	if minutes, ok := parsePositiveInt(form.ShortBreakMinutes); ok {
		settings.ShortBreak = time.Duration(minutes) * time.Minute
	} else {
		invalid = append(invalid, "short break")
	}
	if minutes, ok := parsePositiveInt(form.LongBreakMinutes); ok {
		settings.LongBreak = time.Duration(minutes) * time.Minute
	} else {
		invalid = append(invalid, "long break")
	}
	if sessions, ok := parsePositiveInt(form.Sessions); ok {
		settings.SessionsUntilLongBreak = sessions
	} else {
		invalid = append(invalid, "sessions")
	}
	if millis, err := strconv.Atoi(strings.TrimSpace(form.FadeMillis)); err == nil && millis >= 0 {
		settings.Ducking.Fade = time.Duration(millis) * time.Millisecond
	} else {
		invalid = append(invalid, "fade")
	}
	if theme, err := model.ParseTheme(form.Theme); err == nil {
		settings.Theme = theme
	} else {
		invalid = append(invalid, "theme")
	}

	settings.AutoStart = form.AutoStart
	settings.NotificationsEnabled = form.Notifications
	settings.SoundEnabled = form.Sound
	settings.LaunchAtLogin = form.LaunchAtLogin
	settings.Ducking.Enabled = form.Ducking
	settings.Ducking.PauseOnBreak = form.PauseOnBreak
	settings.Ducking.ResumeOnWork = form.ResumeOnWork
	settings.Ducking.ResumeVolume = int(form.ResumeVolume + 0.5)

	return settings.Clamp(), invalid
}

// InvalidMessage describes rejected fields for the status label.
func InvalidMessage(invalid []string) string {
	if len(invalid) == 0 {
		return ""
	}
	return fmt.Sprintf("Kept previous value for: %s", strings.Join(invalid, ", "))
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
