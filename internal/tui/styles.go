package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ShaKy8/CountdownToRetirement/internal/countdown"
)

// Palette
var (
	ColorSky   = lipgloss.Color("#A8D8EA") // accents
	ColorDeep  = lipgloss.Color("#596E79") // secondary text, borders
	ColorDark  = lipgloss.Color("#2C3E50")
	ColorText  = lipgloss.Color("#E0E0E0")
	ColorAlert = lipgloss.Color("#FF6B6B")
	ColorGood  = lipgloss.Color("#4ECDC4")
	ColorWarn  = lipgloss.Color("#FFE66D")
	ColorGold  = lipgloss.Color("#F9C74F")
	ColorMuted = lipgloss.Color("#6c757d")
)

// bandColors tints the progress graphics by band.
var bandColors = map[countdown.Band]lipgloss.Color{
	countdown.BandEarly:        ColorDeep,
	countdown.BandSteady:       ColorSky,
	countdown.BandPastMidpoint: ColorGood,
	countdown.BandNear:         ColorWarn,
	countdown.BandFinal:        ColorGold,
}

// BandColor returns the display colour for a band.
func BandColor(b countdown.Band) lipgloss.Color {
	if c, ok := bandColors[b]; ok {
		return c
	}
	return ColorText
}

// Styles
var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorSky).
			Bold(true)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorDeep).
			Italic(true)

	StyleBigNumber = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	StyleLabel = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleStatusGood = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleStatusBad  = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)
	StyleStatusWarn = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDeep).
			Padding(0, 1).
			Margin(0, 1)

	StyleBanner = lipgloss.NewStyle().
			Foreground(ColorDark).
			Background(ColorGold).
			Bold(true).
			Padding(0, 2)

	StyleApp = lipgloss.NewStyle().Margin(1, 2)

	StyleTopBar = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDeep).
			Padding(0, 1).
			MarginBottom(1)

	StyleMenuItem = lipgloss.NewStyle().
			Foreground(ColorDeep).
			Padding(0, 1)

	StyleMenuItemActive = lipgloss.NewStyle().
				Foreground(ColorDark).
				Background(ColorSky).
				Bold(true).
				Padding(0, 1)
)
