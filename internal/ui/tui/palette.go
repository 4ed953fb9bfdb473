package tui

import (
	"github.com/charmbracelet/lipgloss"

	"pomodo/internal/core/model"
)

// Palette holds the colors of one theme for work and break phases.
type Palette struct {
	WorkBackground  lipgloss.Color
	WorkAccent      lipgloss.Color
	WorkText        lipgloss.Color
	BreakBackground lipgloss.Color
	BreakAccent     lipgloss.Color
	BreakText       lipgloss.Color
}

var palettes = map[model.Theme]Palette{
	model.ThemeDefault: {
		WorkBackground: "#2C1810", WorkAccent: "#D4956A", WorkText: "#F5E6D3",
		BreakBackground: "#1A2F1A", BreakAccent: "#7CB87C", BreakText: "#E8F5E8",
	},
	model.ThemeNight: {
		WorkBackground: "#0D0D1A", WorkAccent: "#FF6B9D", WorkText: "#E8E8FF",
		BreakBackground: "#0A1A2A", BreakAccent: "#00D4FF", BreakText: "#E8F8FF",
	},
	model.ThemeWinter: {
		WorkBackground: "#1A2A3A", WorkAccent: "#87CEEB", WorkText: "#F0F8FF",
		BreakBackground: "#2A3A4A", BreakAccent: "#B0E0E6", BreakText: "#F5FFFA",
	},
	model.ThemeSpring: {
		WorkBackground: "#2D1F2D", WorkAccent: "#FFB7C5", WorkText: "#FFF0F5",
		BreakBackground: "#1F2D1F", BreakAccent: "#98D998", BreakText: "#F0FFF0",
	},
	model.ThemeSummer: {
		WorkBackground: "#1A2A3A", WorkAccent: "#FFD700", WorkText: "#FFFACD",
		BreakBackground: "#2A3A2A", BreakAccent: "#90EE90", BreakText: "#F0FFF0",
	},
	model.ThemeFall: {
		WorkBackground: "#2A1A0A", WorkAccent: "#D2691E", WorkText: "#FFF8DC",
		BreakBackground: "#1A2A1A", BreakAccent: "#8FBC8F", BreakText: "#F5FFFA",
	},
}

// PaletteFor returns the palette of theme, falling back to the default.
func PaletteFor(theme model.Theme) Palette {
	if palette, ok := palettes[theme]; ok {
		return palette
	}
	return palettes[model.ThemeDefault]
}

// Styles are the lipgloss styles for one phase.
type Styles struct {
	App    lipgloss.Style
	Phase  lipgloss.Style
	Clock  lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Color
}

// StylesFor picks the work or break colors of palette.
func StylesFor(palette Palette, inBreak bool) Styles {
	background, accent, text := palette.WorkBackground, palette.WorkAccent, palette.WorkText
	if inBreak {
		background, accent, text = palette.BreakBackground, palette.BreakAccent, palette.BreakText
	}
	return Styles{
		App: lipgloss.NewStyle().
			Background(background).
			Foreground(text).
			Padding(1, 3),
		Phase:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Clock:  lipgloss.NewStyle().Foreground(text).Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(text).Faint(true),
		Accent: accent,
	}
}
