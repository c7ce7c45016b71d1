package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/project"
	"github.com/sadopc/focusmine/internal/timer"
)

type dashboardModel struct {
	deps   *Deps
	width  int
	height int

	summary    project.Summary
	hasSummary bool
	hasActive  bool
	today      []project.DailyFocus
	recent     []model.PomodoroSession
	names      map[string]string
	projects   []model.Project

	// Project picker state
	picking      bool
	pickerCursor int
}

func newDashboardModel(d *Deps) dashboardModel {
	return dashboardModel{deps: d, names: map[string]string{}}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	summary    project.Summary
	hasSummary bool
	hasActive  bool
	today      []project.DailyFocus
	recent     []model.PomodoroSession
	names      map[string]string
	projects   []model.Project
}

func (d dashboardModel) loadData() tea.Cmd {
	deps := d.deps
	return func() tea.Msg {
		msg := dashboardDataMsg{names: make(map[string]string)}
		_, msg.hasActive = deps.Projects.Active()
		if sum, err := deps.Projects.Summary(deps.Projects.Current()); err == nil {
			msg.summary = sum
			msg.hasSummary = true
		}

		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		msg.today = deps.Projects.DailyFocus(dayStart, dayStart.AddDate(0, 0, 1))

		sessions := deps.Projects.Sessions()
		for i := len(sessions) - 1; i >= 0 && len(msg.recent) < 5; i-- {
			msg.recent = append(msg.recent, sessions[i])
		}

		for _, p := range deps.Projects.Projects(true) {
			msg.names[p.ID] = p.Name
			if !p.IsArchived {
				msg.projects = append(msg.projects, p)
			}
		}
		return msg
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.summary = msg.summary
		d.hasSummary = msg.hasSummary
		d.hasActive = msg.hasActive
		d.today = msg.today
		d.recent = msg.recent
		d.names = msg.names
		d.projects = msg.projects
		return d, nil

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			toggleTimer(d.deps.Engine)
			return d, nil
		case key.Matches(msg, keys.Reset):
			d.deps.Engine.Reset()
			return d, nil
		case key.Matches(msg, keys.Activate), key.Matches(msg, keys.Enter):
			d.picking = true
			d.pickerCursor = 0
			return d, nil
		}
	}
	return d, nil
}

// updatePicker handles the active project picker. Row 0 clears the
// selection.
func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(d.projects) {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		d.picking = false
		return d, setActiveCmd(d.deps, d.pickerProject())
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) pickerProject() *model.Project {
	if d.pickerCursor == 0 || d.pickerCursor > len(d.projects) {
		return nil
	}
	return &d.projects[d.pickerCursor-1]
}

// setActiveCmd selects p as the active project, or clears the selection
// when p is nil.
func setActiveCmd(deps *Deps, p *model.Project) tea.Cmd {
	return func() tea.Msg {
		if p == nil {
			if err := deps.Projects.ClearActive(); err != nil {
				return errorStatus("Clear active project", err)
			}
			return activeChangedMsg{name: "none"}
		}
		if err := deps.Projects.SetActive(p.ID); err != nil {
			return errorStatus("Set active project", err)
		}
		return activeChangedMsg{name: p.Name}
	}
}

func toggleTimer(e *timer.Engine) {
	if e.Snapshot().Running {
		e.Pause()
	} else {
		e.Start()
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	summaryPanel := d.renderSummaryPanel(contentWidth)
	projectPanel := d.renderProjectPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderProjectPicker(contentWidth)
	} else {
		bottomPanel = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, summaryPanel, projectPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	lang := d.deps.lang
	st := d.deps.Engine.Snapshot()
	timeStr := timer.FormatRemaining(st.SecondsRemaining)
	kind := tr(lang, st.Kind.String())

	if st.Running {
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerRunningStyle.Width(w-6).Render(timeStr),
			successStyle.Render("●  "+strings.ToUpper(kind)),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render(timeStr),
		mutedStyle.Render("■  "+strings.ToUpper(kind)),
		mutedStyle.Render("Press s to start the timer"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	total := 0
	for _, f := range d.today {
		total += f.Minutes
	}
	title := titleStyle.Render(tr(d.deps.lang, "Today"))
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(formatMinutes(total)))

	if len(d.today) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No focus sessions today"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	for _, f := range d.today {
		rows = append(rows, fmt.Sprintf("  %s %-20s %8s  (%d sessions)",
			dot(f.ProjectColor), f.ProjectName, formatMinutes(f.Minutes), f.Sessions))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderProjectPanel(w int) string {
	if !d.hasSummary {
		return panelStyle.Width(w).Render(mutedStyle.Render("No project yet. Press a to pick one."))
	}
	s := d.summary
	p := s.Project
	title := titleStyle.Render(strings.TrimSpace(p.Emoji + " " + p.Name))
	if !d.hasActive {
		title += mutedStyle.Render("  (no active project)")
	}

	rows := []string{
		dot(p.Color) + " " + title,
		fmt.Sprintf("  Tasks %d/%d (%d%%)   Pomodoros %d   Time %s",
			p.Stats.CompletedTasks, p.Stats.TotalTasks, s.CompletionRate,
			p.Stats.TotalPomodoros, formatMinutes(p.Stats.TotalTimeSpentMinutes)),
		mutedStyle.Render(fmt.Sprintf("  %d active goals  %d sessions in 24h  %d notes  %d journal entries",
			s.ActiveGoals, s.RecentSessions, s.Notes, s.JournalEntries)),
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Sessions")
	if len(d.recent) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No sessions yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, s := range d.recent {
		name, ok := d.names[s.ProjectID]
		if !ok {
			name = "?"
		}
		when := s.CompletedAt.Local().Format("Jan 02 15:04")
		rows = append(rows, fmt.Sprintf("  ✓ %s  %-12s %-16s %s",
			when, tr(d.deps.lang, s.Kind.String()), name, formatMinutes(s.DurationMinutes)))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderProjectPicker(w int) string {
	title := titleStyle.Render("Select Active Project")

	var rows []string
	rows = append(rows, title)
	style := normalItemStyle
	if d.pickerCursor == 0 {
		style = selectedItemStyle
	}
	rows = append(rows, style.Render(cursorPrefix(d.pickerCursor == 0)+"  none"))
	for i, p := range d.projects {
		selected := i+1 == d.pickerCursor
		style := normalItemStyle
		if selected {
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursorPrefix(selected), dot(p.Color), p.Name)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
