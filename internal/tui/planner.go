package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/planner"
)

type plannerModel struct {
	deps   *Deps
	width  int
	height int

	date   string
	scope  string
	plan   model.DayPlan
	cursor int

	form *formState
}

func newPlannerModel(d *Deps) plannerModel {
	return plannerModel{deps: d, date: model.DateKey(time.Now()), form: &formState{}}
}

func (p *plannerModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type planDataMsg struct {
	plan  model.DayPlan
	scope string
}

func (p plannerModel) refresh() tea.Cmd {
	deps, date := p.deps, p.date
	return func() tea.Msg {
		plan, err := deps.planner().Plan(date)
		if err != nil {
			return errorStatus("Load plan", err)
		}
		return planDataMsg{plan: plan, scope: deps.scopeName()}
	}
}

func (p plannerModel) run(what string, fn func(*planner.Planner) error) tea.Cmd {
	deps := p.deps
	refresh := p.refresh()
	return func() tea.Msg {
		if err := fn(deps.planner()); err != nil {
			return errorStatus(what, err)
		}
		return refresh()
	}
}

func (p plannerModel) shiftDate(days int) plannerModel {
	t, err := model.ParseDate(p.date)
	if err != nil {
		t = time.Now()
	}
	p.date = model.DateKey(t.AddDate(0, 0, days))
	p.cursor = 0
	return p
}

func (p plannerModel) update(msg tea.Msg) (plannerModel, tea.Cmd) {
	if msg, ok := msg.(planDataMsg); ok {
		p.plan = msg.plan
		p.scope = msg.scope
		p.cursor = clampCursor(p.cursor, len(p.plan.Blocks))
		return p, nil
	}

	if p.form.active() {
		return p, p.form.update(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	var block model.TimeBlock
	hasBlock := p.cursor < len(p.plan.Blocks)
	if hasBlock {
		block = p.plan.Blocks[p.cursor]
	}
	date := p.date

	switch {
	case key.Matches(keyMsg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if p.cursor < len(p.plan.Blocks)-1 {
			p.cursor++
		}
	case key.Matches(keyMsg, keys.Left):
		p = p.shiftDate(-1)
		return p, p.refresh()
	case key.Matches(keyMsg, keys.Right):
		p = p.shiftDate(1)
		return p, p.refresh()
	case key.Matches(keyMsg, keys.New):
		return p, p.showBlockForm(nil)
	case key.Matches(keyMsg, keys.Edit):
		if hasBlock {
			return p, p.showBlockForm(&block)
		}
	case key.Matches(keyMsg, keys.Move):
		if hasBlock {
			return p, p.showMoveForm(block)
		}
	case key.Matches(keyMsg, keys.Toggle):
		if hasBlock {
			return p, p.run("Toggle block", func(pl *planner.Planner) error { return pl.ToggleBlock(date, block.ID) })
		}
	case key.Matches(keyMsg, keys.Delete):
		if hasBlock {
			return p, p.run("Delete block", func(pl *planner.Planner) error { return pl.DeleteBlock(date, block.ID) })
		}
	}
	return p, nil
}

func (p plannerModel) showBlockForm(existing *model.TimeBlock) tea.Cmd {
	var b model.TimeBlock
	formTitle := "New Block"
	start, duration := time.Now().Format("15:00"), "25"
	if existing != nil {
		b = *existing
		formTitle = "Edit Block"
		start, duration = b.StartTime, strconv.Itoa(b.DurationMinutes)
	}
	title, desc := b.Title, b.Description

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&title).Validate(required),
			huh.NewInput().Title("Start (HH:MM)").Value(&start).Validate(validClock),
			huh.NewInput().Title("Duration (minutes)").Value(&duration).Validate(positiveInt),
			huh.NewInput().Title("Description").Value(&desc),
		),
	)

	date := p.date
	return p.form.open(formTitle, form, func() tea.Cmd {
		b.Title = title
		b.StartTime = start
		b.DurationMinutes = atoi(duration)
		b.Description = strings.TrimSpace(desc)
		return p.run(formTitle, func(pl *planner.Planner) error {
			_, err := pl.UpsertBlock(date, b)
			return err
		})
	})
}

func (p plannerModel) showMoveForm(b model.TimeBlock) tea.Cmd {
	start := b.StartTime
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("New start (HH:MM)").Value(&start).Validate(validClock),
		),
	)
	date := p.date
	return p.form.open("Move "+b.Title, form, func() tea.Cmd {
		return p.run("Move block", func(pl *planner.Planner) error {
			_, err := pl.MoveBlock(date, b.ID, start)
			return err
		})
	})
}

func validClock(s string) error {
	if _, err := model.ParseClock(s); err != nil {
		return errors.New("use HH:MM")
	}
	return nil
}

func (p plannerModel) view() string {
	if p.form.active() {
		return p.form.view(p.width - 4)
	}
	w := p.width - 4

	dateLabel := p.date
	if t, err := model.ParseDate(p.date); err == nil {
		dateLabel = t.Format("Mon Jan 2, 2006")
	}
	title := titleStyle.Render(tr(p.deps.lang, "Planner")) + mutedStyle.Render(fmt.Sprintf("  %s  ·  %s", dateLabel, p.scope))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(p.plan.Blocks) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing scheduled. Press n to add a block."))
	}

	overlapping := make(map[string]bool)
	overlaps := planner.Overlaps(p.plan)
	for _, o := range overlaps {
		overlapping[o.First.ID] = true
		overlapping[o.Second.ID] = true
	}

	for i, b := range p.plan.Blocks {
		style := normalItemStyle
		if i == p.cursor {
			style = selectedItemStyle
		}
		check := "[ ]"
		if b.Completed {
			check = "[x]"
		}
		end := "--:--"
		if m, err := model.ParseClock(b.StartTime); err == nil {
			end = model.FormatClock((m + b.DurationMinutes) % (24 * 60))
		}
		line := style.Render(fmt.Sprintf("%s%s %s-%s  %-28s %6s",
			cursorPrefix(i == p.cursor), check, b.StartTime, end, b.Title, formatMinutes(b.DurationMinutes)))
		if overlapping[b.ID] {
			line += warningStyle.Render("  overlaps")
		}
		rows = append(rows, line)
		if b.Description != "" && i == p.cursor {
			rows = append(rows, mutedStyle.Render("      "+b.Description))
		}
	}

	total := planner.TotalPlannedMinutes(p.plan)
	done := planner.CompletedMinutes(p.plan)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("%s %s   %s %s",
		mutedStyle.Render("Planned:"), accentStyle.Render(formatMinutes(total)),
		mutedStyle.Render("Done:"), successStyle.Render(formatMinutes(done))))
	if len(overlaps) > 0 {
		rows = append(rows, warningStyle.Render(fmt.Sprintf("%d overlapping pair(s)", len(overlaps))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: day  n: new  r: edit  m: move  space: done  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
