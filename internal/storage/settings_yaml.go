package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"pomodo/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes            int         `yaml:"work_minutes"`
	ShortBreakMinutes      int         `yaml:"short_break_minutes"`
	LongBreakMinutes       int         `yaml:"long_break_minutes"`
	SessionsUntilLongBreak int         `yaml:"sessions_until_long_break"`
	AutoStart              *bool       `yaml:"auto_start,omitempty"`
	NotificationsEnabled   *bool       `yaml:"notifications_enabled,omitempty"`
	SoundEnabled           *bool       `yaml:"sound_enabled,omitempty"`
	LaunchAtLogin          *bool       `yaml:"launch_at_login,omitempty"`
	Theme                  string      `yaml:"theme,omitempty"`
	Ducking                yamlDucking `yaml:"ducking"`
}

type yamlDucking struct {
	Enabled      *bool `yaml:"enabled,omitempty"`
	PauseOnBreak *bool `yaml:"pause_on_break,omitempty"`
	ResumeOnWork *bool `yaml:"resume_on_work,omitempty"`
	FadeMillis   *int  `yaml:"fade_ms,omitempty"`
	ResumeVolume *int  `yaml:"resume_volume,omitempty"`
}

// SettingsPath returns the settings file location under the XDG config
// directory, creating parent directories as needed.
func SettingsPath(appName string) (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(appName, settingsFileName))
	if err != nil {
		return "", fmt.Errorf("resolve settings path: %w", err)
	}
	return path, nil
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned. Values outside
// the accepted range are ignored one field at a time.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	settings = settings.Clamp()
	fadeMillis := int(settings.Ducking.Fade / time.Millisecond)
	fileData := yamlSettings{
		WorkMinutes:            int(settings.Work / time.Minute),
		ShortBreakMinutes:      int(settings.ShortBreak / time.Minute),
		LongBreakMinutes:       int(settings.LongBreak / time.Minute),
		SessionsUntilLongBreak: settings.SessionsUntilLongBreak,
		AutoStart:              &settings.AutoStart,
		NotificationsEnabled:   &settings.NotificationsEnabled,
		SoundEnabled:           &settings.SoundEnabled,
		LaunchAtLogin:          &settings.LaunchAtLogin,
		Theme:                  string(settings.Theme),
		Ducking: yamlDucking{
			Enabled:      &settings.Ducking.Enabled,
			PauseOnBreak: &settings.Ducking.PauseOnBreak,
			ResumeOnWork: &settings.Ducking.ResumeOnWork,
			FadeMillis:   &fadeMillis,
			ResumeVolume: &settings.Ducking.ResumeVolume,
		},
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	applyMinutes(&settings.Work, fileData.WorkMinutes)
	applyMinutes(&settings.ShortBreak, fileData.ShortBreakMinutes)
	applyMinutes(&settings.LongBreak, fileData.LongBreakMinutes)

	if n := fileData.SessionsUntilLongBreak; n >= model.MinSessions && n <= model.MaxSessions {
		settings.SessionsUntilLongBreak = n
	}

	applyBool(&settings.AutoStart, fileData.AutoStart)
	applyBool(&settings.NotificationsEnabled, fileData.NotificationsEnabled)
	applyBool(&settings.SoundEnabled, fileData.SoundEnabled)
	applyBool(&settings.LaunchAtLogin, fileData.LaunchAtLogin)

	if theme, err := model.ParseTheme(fileData.Theme); err == nil {
		settings.Theme = theme
	}

	ducking := fileData.Ducking
	applyBool(&settings.Ducking.Enabled, ducking.Enabled)
	applyBool(&settings.Ducking.PauseOnBreak, ducking.PauseOnBreak)
	applyBool(&settings.Ducking.ResumeOnWork, ducking.ResumeOnWork)
	if ducking.FadeMillis != nil {
		fade := time.Duration(*ducking.FadeMillis) * time.Millisecond
		if fade >= 0 && fade <= model.MaxFade {
			settings.Ducking.Fade = fade
		}
	}
	if ducking.ResumeVolume != nil && *ducking.ResumeVolume >= 0 && *ducking.ResumeVolume <= 100 {
		settings.Ducking.ResumeVolume = *ducking.ResumeVolume
	}
}

func applyMinutes(target *time.Duration, minutes int) {
	value := time.Duration(minutes) * time.Minute
	if value >= model.MinPhaseDuration && value <= model.MaxPhaseDuration {
		*target = value
	}
}

func applyBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}
