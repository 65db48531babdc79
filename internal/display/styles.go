package display

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/tworooms/internal/domain"
)

// ── Palette ──────────────────────────────────────────────────────

var (
	colorClient    = lipgloss.Color("#e8c170") // warm amber
	colorAI        = lipgloss.Color("#7eb8d4") // cool blue
	colorTherapist = lipgloss.Color("#c4a07a") // clay
	colorAccent    = lipgloss.Color("#d4886a")
	colorMuted     = lipgloss.Color("#71717a")
	colorBorder    = lipgloss.Color("#3f3f46")
	colorText      = lipgloss.Color("#d4d4d8")
	colorDrift     = lipgloss.Color("#c45c5c")
	colorField     = lipgloss.Color("#7aaa8a")
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is the muted slate used for the intro banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	kickerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	textStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	tabOnStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(lipgloss.Color("#27272a")).
			Padding(0, 1)

	tabOffStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	sepStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.RoundedBorder(), false, true).
			BorderForeground(colorBorder).
			Padding(0, 1)

	originStyle = lipgloss.NewStyle().
			Foreground(colorClient).
			Bold(true)

	panelFieldLabelStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Bold(true)

	panelTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Bold(true)
)

// speakerColor returns the accent for a speaker.
func speakerColor(s domain.Speaker) lipgloss.Color {
	switch s {
	case domain.SpeakerClient:
		return colorClient
	case domain.SpeakerAI:
		return colorAI
	default:
		return colorTherapist
	}
}

// sideColor returns the accent for a transcript column.
func sideColor(side domain.ScriptID) lipgloss.Color {
	if side == domain.ScriptAI {
		return colorAI
	}
	return colorTherapist
}

// summaryColor is red for the drift and green for the field.
func summaryColor(side domain.ScriptID) lipgloss.Color {
	if side == domain.ScriptAI {
		return colorDrift
	}
	return colorField
}
