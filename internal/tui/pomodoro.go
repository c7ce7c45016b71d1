package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/timer"
)

// focusPerCycle is how many focus dots the cycle indicator shows.
const focusPerCycle = 4

type pomodoroModel struct {
	deps   *Deps
	width  int
	height int

	projectName string
	// tasks are the open tasks of the current project, the candidates
	// for attribution.
	tasks []model.Task

	bar progress.Model
}

func newPomodoroModel(d *Deps) pomodoroModel {
	return pomodoroModel{
		deps: d,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(w-16, 10)
}

type pomodoroDataMsg struct {
	projectName string
	tasks       []model.Task
}

func (p pomodoroModel) refresh() tea.Cmd {
	deps := p.deps
	return func() tea.Msg {
		id := deps.Projects.Current()
		msg := pomodoroDataMsg{projectName: "Inbox"}
		if proj, err := deps.Projects.Project(id); err == nil {
			msg.projectName = proj.Name
		}
		for _, t := range deps.Projects.Data(id).Tasks {
			if !t.Completed {
				msg.tasks = append(msg.tasks, t)
			}
		}
		return msg
	}
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pomodoroDataMsg:
		p.projectName = msg.projectName
		p.tasks = msg.tasks
		return p, nil

	case tea.KeyMsg:
		e := p.deps.Engine
		switch {
		case key.Matches(msg, keys.Start):
			toggleTimer(e)
		case key.Matches(msg, keys.Reset):
			e.Reset()
		case key.Matches(msg, keys.Mode):
			e.SetKind(nextKind(e.Snapshot().Kind))
		case key.Matches(msg, keys.Task):
			e.Attribute(nextTask(p.tasks, e.Snapshot().TaskID))
		}
	}
	return p, nil
}

func nextKind(k model.SessionKind) model.SessionKind {
	i := slices.Index(model.SessionKinds, k)
	return model.SessionKinds[(i+1)%len(model.SessionKinds)]
}

// nextTask cycles the attribution through tasks and then back to none.
func nextTask(tasks []model.Task, current string) string {
	i := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == current })
	if i+1 >= len(tasks) {
		return ""
	}
	return tasks[i+1].ID
}

func (p pomodoroModel) taskTitle(id string) string {
	for _, t := range p.tasks {
		if t.ID == id {
			return t.Title
		}
	}
	return ""
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	lang := p.deps.lang
	st := p.deps.Engine.Snapshot()
	total := p.deps.Engine.Settings().Seconds(st.Kind)

	title := titleStyle.Render("Pomodoro Timer")

	kindStyle := lipgloss.NewStyle().Bold(true).Foreground(kindColors[st.Kind])
	timeDisplay := kindStyle.Width(max(w-6, 1)).Align(lipgloss.Center).Render(timer.FormatRemaining(st.SecondsRemaining))
	phaseLabel := kindStyle.Render(strings.ToUpper(tr(lang, st.Kind.String())))

	state := mutedStyle.Render(tr(lang, "Paused"))
	if st.Running {
		state = successStyle.Render(tr(lang, "Running"))
	}

	elapsed := 0.0
	if total > 0 {
		elapsed = 1 - float64(st.SecondsRemaining)/float64(total)
	}

	task := mutedStyle.Render("No task attributed (t to pick)")
	if name := p.taskTitle(st.TaskID); name != "" {
		task = highlightStyle.Render("Task: " + name)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel+"  "+state,
		"",
		p.bar.ViewAs(elapsed),
		"",
		p.renderCycle(st),
		mutedStyle.Render("Project: "+p.projectName),
		task,
	)

	controls := mutedStyle.Render("s: start/pause  x: reset  m: focus/break  t: task")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderCycle(st timer.State) string {
	done := st.CompletedFocus % focusPerCycle
	var parts []string
	for i := 0; i < focusPerCycle; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && st.Kind == model.Focus && st.Running:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d completed", st.CompletedFocus))
	return strings.Join(parts, " ") + counter
}
