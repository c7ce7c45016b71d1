package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/model"
)

// Color palette. Adaptive colors follow the theme mode.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#666666"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	colorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#E74C3C"}
	colorFg        = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#C0CAF5"}
	colorSubtle    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#414868"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#7AA2F7"}
)

// kindColors maps each session kind to its countdown color.
var kindColors = map[model.SessionKind]lipgloss.TerminalColor{
	model.Focus:      colorAccent,
	model.ShortBreak: colorSuccess,
	model.LongBreak:  colorHighlight,
}

// applyTheme picks the light or dark side of the adaptive palette.
// ThemeSystem keeps what the renderer detected.
func applyTheme(mode model.ThemeMode, detectedDark bool) {
	switch mode {
	case model.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case model.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	default:
		lipgloss.SetHasDarkBackground(detectedDark)
	}
}

// dot renders a colored bullet for a project.
func dot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Timer
	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Align(lipgloss.Center)

	timerRunningStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSuccess).
				Align(lipgloss.Center)

	timerPausedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWarning).
				Align(lipgloss.Center)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
