package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/focusmine/internal/model"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewPomodoro
	viewProjects
	viewPlanner
	viewLearning
	viewNotes
	viewReports
	viewSettings
	viewCount
)

var viewNames = []string{"Dashboard", "Pomodoro", "Projects", "Planner", "Learning", "Notes", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type sessionRecordedMsg struct {
	session model.PomodoroSession
}

// activeChangedMsg reports a new active project selection.
type activeChangedMsg struct {
	name string
}

type exportDoneMsg struct {
	path string
}

func errorStatus(what string, err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("%s: %v", what, err), isError: true}
}

// --- Helpers ---

// formatMinutes renders a minute count as "1h 05m" or "25m".
func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", m/60, m%60)
}

func formatHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	return max(cursor, 0)
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}
