package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// formState hosts one huh form at a time. Views keep a pointer to it so
// the form and the values it edits survive model copies.
type formState struct {
	title  string
	form   *huh.Form
	submit func() tea.Cmd
}

func (f *formState) active() bool { return f != nil && f.form != nil }

func (f *formState) open(title string, form *huh.Form, submit func() tea.Cmd) tea.Cmd {
	f.title = title
	f.form = form.WithShowHelp(true).WithShowErrors(true)
	f.submit = submit
	return f.form.Init()
}

func (f *formState) close() {
	f.form = nil
	f.submit = nil
}

func (f *formState) update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		f.close()
		return nil
	}

	form, cmd := f.form.Update(msg)
	if ff, ok := form.(*huh.Form); ok {
		f.form = ff
	}

	switch f.form.State {
	case huh.StateCompleted:
		submit := f.submit
		f.close()
		if submit == nil {
			return nil
		}
		return submit()
	case huh.StateAborted:
		f.close()
		return nil
	}
	return cmd
}

func (f *formState) view(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(f.title), "", f.form.View())
	return panelStyle.Width(width).Render(content)
}

// --- Field validators ---

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("enter a whole number of at least 1")
	}
	return nil
}

func optionalInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

func optionalFloat(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil || v < 0 {
		return errors.New("enter a number")
	}
	return nil
}

// atoi parses a field already checked by a validator.
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func scoreOptions() []huh.Option[int] {
	opts := []huh.Option[int]{huh.NewOption("-", 0)}
	for i := 1; i <= 5; i++ {
		opts = append(opts, huh.NewOption(fmt.Sprint(i), i))
	}
	return opts
}
