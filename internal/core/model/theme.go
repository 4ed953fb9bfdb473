package model

import "fmt"

// Theme identifies one of the built-in color schemes.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeNight   Theme = "night"
	ThemeWinter  Theme = "winter"
	ThemeSpring  Theme = "spring"
	ThemeSummer  Theme = "summer"
	ThemeFall    Theme = "fall"
)

// Themes lists every theme in menu order.
func Themes() []Theme {
	return []Theme{ThemeDefault, ThemeNight, ThemeWinter, ThemeSpring, ThemeSummer, ThemeFall}
}

// Valid reports whether theme is one of the built-in themes.
func (theme Theme) Valid() bool {
	for _, known := range Themes() {
		if theme == known {
			return true
		}
	}
	return false
}

// ParseTheme validates a stored theme identifier.
func ParseTheme(value string) (Theme, error) {
	theme := Theme(value)
	if !theme.Valid() {
		return ThemeDefault, fmt.Errorf("unknown theme %q", value)
	}
	return theme, nil
}
