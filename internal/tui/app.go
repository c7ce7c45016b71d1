package tui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/export"
	"github.com/sadopc/focusmine/internal/learning"
	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/planner"
	"github.com/sadopc/focusmine/internal/project"
	"github.com/sadopc/focusmine/internal/session"
	"github.com/sadopc/focusmine/internal/store"
	"github.com/sadopc/focusmine/internal/timer"
)

// Deps are the services the views drive. Views share one *Deps.
type Deps struct {
	KV       store.KV
	Projects *project.Store
	Engine   *timer.Engine
	Recorder *session.Recorder
	// Notifier must be the notifier the engine was built with.
	Notifier *Notifier
	// Plans and Goals are the global planner and tracker, used when no
	// project is active.
	Plans     *planner.Planner
	Goals     *learning.Tracker
	Log       *slog.Logger
	ExportDir string

	lang         model.Language
	theme        model.ThemeMode
	detectedDark bool
}

// planner returns the active project's planner, or the global one.
func (d *Deps) planner() *planner.Planner {
	if p, ok := d.Projects.Active(); ok {
		return planner.New(planner.ProjectBackend(d.Projects, p.ID))
	}
	return d.Plans
}

func (d *Deps) tracker() *learning.Tracker {
	if p, ok := d.Projects.Active(); ok {
		return learning.NewTracker(learning.ProjectBackend(d.Projects, p.ID))
	}
	return d.Goals
}

// scopeName labels the data the planner and learning views show.
func (d *Deps) scopeName() string {
	if p, ok := d.Projects.Active(); ok {
		return p.Name
	}
	return "All"
}

// App is the root Bubble Tea model.
type App struct {
	deps   *Deps
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	pomodoro  pomodoroModel
	projects  projectsModel
	planner   plannerModel
	learning  learningModel
	notes     notesModel
	reports   reportsModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(d *Deps) App {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	d.lang = store.LoadLanguage(d.KV, d.Log)
	d.theme = store.LoadTheme(d.KV, d.Log)
	d.detectedDark = lipgloss.HasDarkBackground()
	applyTheme(d.theme, d.detectedDark)

	h := help.New()
	h.ShowAll = false

	return App{
		deps:       d,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(d),
		pomodoro:   newPomodoroModel(d),
		projects:   newProjectsModel(d),
		planner:    newPlannerModel(d),
		learning:   newLearningModel(d),
		notes:      newNotesModel(d),
		reports:    newReportsModel(d),
		settings:   newSettingsModel(d),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.loadData(),
		tea.SetWindowTitle(timer.AppTitle),
		tickCmd(),
	)
}

// tickCmd is the only tick source in the program; each tickMsg re-arms it.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.update(msg)
	return m, tea.Batch(cmd, a.deps.Notifier.drain())
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.planner.setSize(a.width, contentHeight)
		a.learning.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.deps.Engine.Pause()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Jump):
			n, _ := strconv.Atoi(msg.String())
			return a.switchTo(viewState(n - 1))
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewCount)
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if c, ok := a.deps.Engine.Tick(); ok {
			cmds = append(cmds, a.recordCmd(c))
		}
		return a, tea.Batch(cmds...)

	case sessionRecordedMsg:
		a.status = fmt.Sprintf("%s session saved (%s)", msg.session.Kind, formatMinutes(msg.session.DurationMinutes))
		return a, tea.Batch(a.dashboard.loadData(), a.refreshCurrentView())

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.deps.Log.Warn("tui", "error", msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case settingsSavedMsg:
		a.status = "Settings saved"
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case activeChangedMsg:
		a.status = "Active project: " + msg.name
		return a, tea.Batch(a.dashboard.loadData(), a.refreshCurrentView())
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (App, tea.Cmd) {
	if v < 0 || v >= viewCount {
		return a, nil
	}
	a.activeView = v
	return a, a.refreshCurrentView()
}

// recordCmd persists a completion off the update loop.
func (a App) recordCmd(c timer.Completion) tea.Cmd {
	rec := a.deps.Recorder
	return func() tea.Msg {
		ps, err := rec.Record(c)
		if err != nil {
			return errorStatus("Save session", err)
		}
		return sessionRecordedMsg{session: ps}
	}
}

func (a App) updateActiveView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewPlanner:
		a.planner, cmd = a.planner.update(msg)
	case viewLearning:
		a.learning, cmd = a.learning.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewProjects:
		return a.projects.form.active()
	case viewPlanner:
		return a.planner.form.active()
	case viewLearning:
		return a.learning.form.active()
	case viewNotes:
		return a.notes.form.active()
	case viewSettings:
		return a.settings.form.active()
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewPomodoro:
		return a.pomodoro.refresh()
	case viewProjects:
		return a.projects.refresh()
	case viewPlanner:
		return a.planner.refresh()
	case viewLearning:
		return a.learning.refresh()
	case viewNotes:
		return a.notes.refresh()
	case viewReports:
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return tr(a.deps.lang, "Loading...")
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewProjects:
		content = a.projects.view()
	case viewPlanner:
		content = a.planner.view()
	case viewLearning:
		content = a.learning.view()
	case viewNotes:
		content = a.notes.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, tr(a.deps.lang, name))
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focusmine")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	st := a.deps.Engine.Snapshot()
	if st.Running {
		timerInfo = successStyle.Render(" ● " + timer.FormatRemaining(st.SecondsRemaining))
	} else if st.SecondsRemaining != a.deps.Engine.Settings().Seconds(st.Kind) {
		timerInfo = warningStyle.Render(" ⏸ " + timer.FormatRemaining(st.SecondsRemaining))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Sessions")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		style := normalItemStyle
		if i == a.exportCursor {
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursorPrefix(i == a.exportCursor)+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	d := a.deps
	return func() tea.Msg {
		sessions := d.Projects.Sessions()

		projects := make(map[string]model.Project)
		for _, p := range d.Projects.Projects(true) {
			projects[p.ID] = p
		}

		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(d.ExportDir, fmt.Sprintf("focusmine-sessions-%s.csv", dateStr))
			if err := export.ToCSV(sessions, projects, path); err != nil {
				return errorStatus("CSV export", err)
			}
		} else {
			path = filepath.Join(d.ExportDir, fmt.Sprintf("focusmine-sessions-%s.json", dateStr))
			if err := export.ToJSON(sessions, projects, path); err != nil {
				return errorStatus("JSON export", err)
			}
		}

		d.Log.Info("sessions exported", "path", path, "count", len(sessions))
		return exportDoneMsg{path: path}
	}
}
