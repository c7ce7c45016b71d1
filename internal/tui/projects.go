package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/project"
)

type projectsModel struct {
	deps   *Deps
	width  int
	height int

	projects     []model.Project
	activeID     string
	tasks        []model.Task
	cursor       int
	taskCursor   int
	showArchived bool
	viewingTasks bool // true = viewing tasks of selected project

	form *formState
}

func newProjectsModel(d *Deps) projectsModel {
	return projectsModel{deps: d, form: &formState{}}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []model.Project
	activeID string
}

type tasksDataMsg struct {
	tasks []model.Task
}

func (p projectsModel) refresh() tea.Cmd {
	deps, archived := p.deps, p.showArchived
	return func() tea.Msg {
		msg := projectsDataMsg{projects: deps.Projects.Projects(archived)}
		if active, ok := deps.Projects.Active(); ok {
			msg.activeID = active.ID
		}
		return msg
	}
}

func (p projectsModel) refreshTasks() tea.Cmd {
	if p.cursor >= len(p.projects) {
		return nil
	}
	deps, pid := p.deps, p.projects[p.cursor].ID
	return func() tea.Msg {
		return tasksDataMsg{tasks: deps.Projects.Data(pid).Tasks}
	}
}

// mutate runs fn off the update loop and refreshes the list after.
func (p projectsModel) mutate(what string, fn func() error, then tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errorStatus(what, err)
		}
		if then == nil {
			return nil
		}
		return then()
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		p.activeID = msg.activeID
		p.cursor = clampCursor(p.cursor, len(p.projects))
		if p.viewingTasks {
			return p, p.refreshTasks()
		}
		return p, nil

	case tasksDataMsg:
		p.tasks = msg.tasks
		p.taskCursor = clampCursor(p.taskCursor, len(p.tasks))
		return p, nil
	}

	if p.form.active() {
		return p, p.form.update(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) selected() (model.Project, bool) {
	if p.cursor >= len(p.projects) {
		return model.Project{}, false
	}
	return p.projects[p.cursor], true
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	store := p.deps.Projects
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
			return p, p.refreshTasks()
		}
	case key.Matches(msg, keys.New):
		return p, p.showProjectForm(nil)
	case key.Matches(msg, keys.Edit):
		if proj, ok := p.selected(); ok {
			return p, p.showProjectForm(&proj)
		}
	case key.Matches(msg, keys.Activate):
		if proj, ok := p.selected(); ok {
			return p, setActiveCmd(p.deps, &proj)
		}
	case key.Matches(msg, keys.Favorite):
		if proj, ok := p.selected(); ok {
			return p, p.mutate("Favorite", func() error { return store.ToggleFavorite(proj.ID) }, p.refresh())
		}
	case key.Matches(msg, keys.Archive):
		if proj, ok := p.selected(); ok {
			return p, p.mutate("Archive", func() error { return store.Archive(proj.ID, !proj.IsArchived) }, p.refresh())
		}
	case key.Matches(msg, keys.Archived):
		p.showArchived = !p.showArchived
		return p, p.refresh()
	case key.Matches(msg, keys.Delete):
		if proj, ok := p.selected(); ok {
			return p, p.showDeleteConfirm(proj)
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	proj, ok := p.selected()
	if !ok {
		p.viewingTasks = false
		return p, nil
	}
	store := p.deps.Projects
	var task model.Task
	hasTask := p.taskCursor < len(p.tasks)
	if hasTask {
		task = p.tasks[p.taskCursor]
	}

	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, p.refresh()
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return p, p.showTaskForm(proj.ID, nil)
	case key.Matches(msg, keys.Edit):
		if hasTask {
			return p, p.showTaskForm(proj.ID, &task)
		}
	case key.Matches(msg, keys.Toggle):
		if hasTask {
			return p, p.mutate("Toggle task", func() error { return store.ToggleTask(proj.ID, task.ID) }, p.refreshTasks())
		}
	case key.Matches(msg, keys.Delete):
		if hasTask {
			return p, p.mutate("Delete task", func() error { return store.DeleteTask(proj.ID, task.ID) }, p.refreshTasks())
		}
	case key.Matches(msg, keys.MoveUp), key.Matches(msg, keys.MoveDown):
		to := p.taskCursor + 1
		if key.Matches(msg, keys.MoveUp) {
			to = p.taskCursor - 1
		}
		if !hasTask || to < 0 || to >= len(p.tasks) {
			return p, nil
		}
		ids := make([]string, len(p.tasks))
		for i, t := range p.tasks {
			ids[i] = t.ID
		}
		ids[p.taskCursor], ids[to] = ids[to], ids[p.taskCursor]
		p.taskCursor = to
		return p, p.mutate("Reorder tasks", func() error { return store.ReorderTasks(proj.ID, ids) }, p.refreshTasks())
	}
	return p, nil
}

// showProjectForm opens the create form, or the edit form when existing
// is set.
func (p projectsModel) showProjectForm(existing *model.Project) tea.Cmd {
	name, desc, color, emoji := "", "", project.Colors[0], ""
	title := "New Project"
	if existing != nil {
		name, desc, color, emoji = existing.Name, existing.Description, existing.Color, existing.Emoji
		title = "Edit Project"
	}

	colorOptions := make([]huh.Option[string], len(project.Colors))
	for i, c := range project.Colors {
		colorOptions[i] = huh.NewOption(dot(c)+" "+c, c)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(&name).Validate(required),
			huh.NewInput().Title("Description").Value(&desc),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(&color),
			huh.NewInput().Title("Emoji").Value(&emoji).CharLimit(4),
		),
	)

	store := p.deps.Projects
	return p.form.open(title, form, func() tea.Cmd {
		return p.mutate(title, func() error {
			if existing == nil {
				_, err := store.Create(project.Metadata{Name: name, Description: desc, Color: color, Emoji: emoji})
				return err
			}
			updated := *existing
			updated.Name = strings.TrimSpace(name)
			updated.Description = strings.TrimSpace(desc)
			updated.Color = color
			updated.Emoji = emoji
			return store.Update(updated)
		}, p.refresh())
	})
}

func (p projectsModel) showDeleteConfirm(proj model.Project) tea.Cmd {
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q and all its data?", proj.Name)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirm),
		),
	)
	store := p.deps.Projects
	return p.form.open("Delete Project", form, func() tea.Cmd {
		if !confirm {
			return nil
		}
		return p.mutate("Delete project", func() error { return store.Delete(proj.ID) }, p.refresh())
	})
}

func (p projectsModel) showTaskForm(projectID string, existing *model.Task) tea.Cmd {
	title := ""
	formTitle := "New Task"
	if existing != nil {
		title = existing.Title
		formTitle = "Rename Task"
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(&title).Validate(required),
		),
	)
	store := p.deps.Projects
	return p.form.open(formTitle, form, func() tea.Cmd {
		return p.mutate(formTitle, func() error {
			if existing == nil {
				_, err := store.AddTask(projectID, title)
				return err
			}
			return store.RenameTask(projectID, existing.ID, title)
		}, p.refreshTasks())
	})
}

func (p projectsModel) view() string {
	if p.form.active() {
		return p.form.view(p.width - 4)
	}
	if p.viewingTasks && p.cursor < len(p.projects) {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render(tr(p.deps.lang, "Projects"))
	if p.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-26s %8s %10s %10s", "", "Name", "Tasks", "Pomodoros", "Time"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		style := normalItemStyle
		if i == p.cursor {
			style = selectedItemStyle
		}
		marks := ""
		if proj.IsFavorite {
			marks += "★"
		}
		if proj.ID == p.activeID {
			marks += "▶"
		}
		name := strings.TrimSpace(proj.Emoji + " " + proj.Name)
		if proj.IsArchived {
			name += " (archived)"
		}
		st := proj.Stats
		row := style.Render(fmt.Sprintf("%s%s %-2s %-24s %8s %10d %10s",
			cursorPrefix(i == p.cursor), dot(proj.Color), marks, name,
			fmt.Sprintf("%d/%d", st.CompletedTasks, st.TotalTasks), st.TotalPomodoros,
			formatMinutes(st.TotalTimeSpentMinutes)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  r: edit  a: set active  f: favorite  A: archive  z: show archived  d: delete  enter: tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	proj := p.projects[p.cursor]
	title := titleStyle.Render(fmt.Sprintf("%s %s / %s", dot(proj.Color), proj.Name, tr(p.deps.lang, "Tasks")))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range p.tasks {
		style := normalItemStyle
		if i == p.taskCursor {
			style = selectedItemStyle
		}
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}
		count := ""
		if task.PomodorosCompleted > 0 {
			count = mutedStyle.Render(fmt.Sprintf("  🍅 %d", task.PomodorosCompleted))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursorPrefix(i == p.taskCursor), check, task.Title))+count)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  r: rename  space: done  K/J: reorder  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
