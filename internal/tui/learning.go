package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sadopc/focusmine/internal/learning"
	"github.com/sadopc/focusmine/internal/model"
)

type learningModel struct {
	deps   *Deps
	width  int
	height int

	goals  []model.LearningGoal
	scope  string
	cursor int
	query  string
	status model.GoalStatus // "" shows every status
	bar    progress.Model

	form *formState
}

func newLearningModel(d *Deps) learningModel {
	return learningModel{
		deps: d,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(20)),
		form: &formState{},
	}
}

func (l *learningModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

type goalsDataMsg struct {
	goals []model.LearningGoal
	scope string
}

type goalSearchMsg struct {
	query string
}

func (l learningModel) refresh() tea.Cmd {
	deps, query, status := l.deps, l.query, l.status
	return func() tea.Msg {
		return goalsDataMsg{goals: deps.tracker().Filter(query, "", status), scope: deps.scopeName()}
	}
}

func (l learningModel) run(what string, fn func(*learning.Tracker) error) tea.Cmd {
	deps := l.deps
	refresh := l.refresh()
	return func() tea.Msg {
		if err := fn(deps.tracker()); err != nil {
			return errorStatus(what, err)
		}
		return refresh()
	}
}

// nextFilter cycles "" through every status and back to "".
func nextFilter(s model.GoalStatus) model.GoalStatus {
	for i, st := range model.GoalStatuses {
		if st == s {
			if i+1 < len(model.GoalStatuses) {
				return model.GoalStatuses[i+1]
			}
			return ""
		}
	}
	return model.GoalStatuses[0]
}

func (l learningModel) update(msg tea.Msg) (learningModel, tea.Cmd) {
	switch msg := msg.(type) {
	case goalsDataMsg:
		l.goals = msg.goals
		l.scope = msg.scope
		l.cursor = clampCursor(l.cursor, len(l.goals))
		return l, nil
	case goalSearchMsg:
		l.query = msg.query
		l.cursor = 0
		return l, l.refresh()
	}

	if l.form.active() {
		return l, l.form.update(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	var goal model.LearningGoal
	hasGoal := l.cursor < len(l.goals)
	if hasGoal {
		goal = l.goals[l.cursor]
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if l.cursor < len(l.goals)-1 {
			l.cursor++
		}
	case key.Matches(keyMsg, keys.Filter):
		l.status = nextFilter(l.status)
		l.cursor = 0
		return l, l.refresh()
	case key.Matches(keyMsg, keys.Search):
		return l, l.showSearchForm()
	case key.Matches(keyMsg, keys.New):
		return l, l.showGoalForm(nil)
	case key.Matches(keyMsg, keys.Edit):
		if hasGoal {
			return l, l.showGoalForm(&goal)
		}
	case key.Matches(keyMsg, keys.Log):
		if hasGoal {
			return l, l.showLogForm(goal)
		}
	case key.Matches(keyMsg, keys.Progress):
		if hasGoal {
			return l, l.showProgressForm(goal)
		}
	case key.Matches(keyMsg, keys.Cycle):
		if hasGoal {
			return l, l.run("Change status", func(t *learning.Tracker) error {
				_, err := t.CycleStatus(goal.ID)
				return err
			})
		}
	case key.Matches(keyMsg, keys.Complete):
		if hasGoal {
			return l, l.run("Complete goal", func(t *learning.Tracker) error {
				_, err := t.MarkCompleted(goal.ID)
				return err
			})
		}
	case key.Matches(keyMsg, keys.Delete):
		if hasGoal {
			return l, l.run("Delete goal", func(t *learning.Tracker) error { return t.DeleteGoal(goal.ID) })
		}
	}
	return l, nil
}

func (l learningModel) showSearchForm() tea.Cmd {
	query := l.query
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search title, description or tags").Value(&query),
		),
	)
	return l.form.open("Search Goals", form, func() tea.Cmd {
		return func() tea.Msg { return goalSearchMsg{query: strings.TrimSpace(query)} }
	})
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func (l learningModel) showGoalForm(existing *model.LearningGoal) tea.Cmd {
	g := model.LearningGoal{Type: model.GoalBook, Status: model.StatusNotStarted}
	formTitle := "New Learning Goal"
	if existing != nil {
		g = *existing
		formTitle = "Edit Learning Goal"
	}
	title, desc := g.Title, g.Description
	typ, status := g.Type, g.Status
	target, deadline := "", ""
	if g.TargetDurationHours > 0 {
		target = strconv.FormatFloat(g.TargetDurationHours, 'f', -1, 64)
	}
	if g.Deadline != nil {
		deadline = model.DateKey(*g.Deadline)
	}
	tags := strings.Join(g.Tags, ", ")

	typeOptions := make([]huh.Option[model.GoalType], len(model.GoalTypes))
	for i, t := range model.GoalTypes {
		typeOptions[i] = huh.NewOption(string(t), t)
	}
	statusOptions := make([]huh.Option[model.GoalStatus], len(model.GoalStatuses))
	for i, s := range model.GoalStatuses {
		statusOptions[i] = huh.NewOption(string(s), s)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&title).Validate(required),
			huh.NewSelect[model.GoalType]().Title("Type").Options(typeOptions...).Value(&typ),
			huh.NewSelect[model.GoalStatus]().Title("Status").Options(statusOptions...).Value(&status),
			huh.NewText().Title("Description").Value(&desc).Lines(3),
		),
		huh.NewGroup(
			huh.NewInput().Title("Target hours").Value(&target).Validate(optionalFloat),
			huh.NewInput().Title("Deadline (YYYY-MM-DD)").Value(&deadline).Validate(optionalDate),
			huh.NewInput().Title("Tags (comma separated)").Value(&tags),
		),
	)

	return l.form.open(formTitle, form, func() tea.Cmd {
		g.Title = title
		g.Type = typ
		g.Status = status
		g.Description = strings.TrimSpace(desc)
		g.TargetDurationHours, _ = strconv.ParseFloat(strings.TrimSpace(target), 64)
		g.Deadline = nil
		if t, err := model.ParseDate(strings.TrimSpace(deadline)); err == nil {
			g.Deadline = &t
		}
		g.Tags = splitTags(tags)
		return l.run(formTitle, func(t *learning.Tracker) error {
			var err error
			if existing == nil {
				_, err = t.AddGoal(g)
			} else {
				_, err = t.SaveGoal(g)
			}
			return err
		})
	})
}

func (l learningModel) showLogForm(g model.LearningGoal) tea.Cmd {
	minutes, pomodoros, notes := "25", "1", ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Minutes").Value(&minutes).Validate(positiveInt),
			huh.NewInput().Title("Pomodoros").Value(&pomodoros).Validate(optionalInt),
			huh.NewInput().Title("Notes").Value(&notes),
		),
	)
	return l.form.open("Log Session: "+g.Title, form, func() tea.Cmd {
		return l.run("Log session", func(t *learning.Tracker) error {
			_, err := t.LogSession(g.ID, atoi(minutes), atoi(pomodoros), notes)
			return err
		})
	})
}

func (l learningModel) showProgressForm(g model.LearningGoal) tea.Cmd {
	value := strconv.Itoa(g.Progress)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Progress (0-100)").Value(&value).Validate(optionalInt),
		),
	)
	return l.form.open("Progress: "+g.Title, form, func() tea.Cmd {
		return l.run("Set progress", func(t *learning.Tracker) error {
			_, err := t.SetProgress(g.ID, atoi(value))
			return err
		})
	})
}

func (l learningModel) view() string {
	if l.form.active() {
		return l.form.view(l.width - 4)
	}
	w := l.width - 4

	filter := "all"
	if l.status != "" {
		filter = string(l.status)
	}
	header := titleStyle.Render(tr(l.deps.lang, "Learning")) +
		mutedStyle.Render(fmt.Sprintf("  %s  ·  status: %s", l.scope, filter))
	if l.query != "" {
		header += mutedStyle.Render(fmt.Sprintf("  ·  search: %q", l.query))
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	if len(l.goals) == 0 {
		rows = append(rows, mutedStyle.Render("No learning goals. Press n to add one."))
	}

	now := time.Now()
	for i, g := range l.goals {
		style := normalItemStyle
		if i == l.cursor {
			style = selectedItemStyle
		}
		line := style.Render(fmt.Sprintf("%s%-30s %-13s %-11s", cursorPrefix(i == l.cursor), g.Title, g.Type, g.Status))
		line += " " + l.bar.ViewAs(float64(g.Progress)/100) + fmt.Sprintf(" %3d%%", g.Progress)
		if learning.Overdue(g, now) {
			line += errorStyle.Render("  overdue")
		}
		rows = append(rows, line)
	}

	if len(l.goals) > 0 {
		rows = append(rows, "")
		rows = append(rows, l.renderDetail(l.goals[l.cursor]))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  r: edit  L: log  p: progress  c: status  C: complete  f: filter  /: search  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (l learningModel) renderDetail(g model.LearningGoal) string {
	parts := []string{
		fmt.Sprintf("%s %s", mutedStyle.Render("Time spent:"), accentStyle.Render(formatMinutes(g.TimeSpentMinutes))),
		fmt.Sprintf("%s %d", mutedStyle.Render("Sessions:"), len(g.Sessions)),
		fmt.Sprintf("%s %s", mutedStyle.Render("Avg:"), formatMinutes(learning.AverageSessionMinutes(g))),
	}
	if g.TargetDurationHours > 0 {
		parts = append(parts, fmt.Sprintf("%s %gh", mutedStyle.Render("Target:"), g.TargetDurationHours))
	}
	if g.Deadline != nil {
		parts = append(parts, fmt.Sprintf("%s %s", mutedStyle.Render("Due:"), model.DateKey(*g.Deadline)))
	}
	out := "  " + strings.Join(parts, "   ")
	if len(g.Tags) > 0 {
		out += "\n  " + mutedStyle.Render("#"+strings.Join(g.Tags, " #"))
	}
	if g.Description != "" {
		out += "\n  " + g.Description
	}
	return out
}
