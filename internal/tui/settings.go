package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/store"
)

type settingsModel struct {
	deps   *Deps
	width  int
	height int

	form *formState
}

func newSettingsModel(d *Deps) settingsModel {
	return settingsModel{deps: d, form: &formState{}}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

// settingsSavedMsg carries the display preferences written with the
// timer settings.
type settingsSavedMsg struct {
	lang  model.Language
	theme model.ThemeMode
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(settingsSavedMsg); ok {
		s.deps.lang = msg.lang
		s.deps.theme = msg.theme
		applyTheme(msg.theme, s.deps.detectedDark)
		return s, nil
	}

	if s.form.active() {
		return s, s.form.update(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Edit) {
			return s, s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() tea.Cmd {
	cur := s.deps.Engine.Settings()
	focus := strconv.Itoa(cur.FocusMinutes)
	short := strconv.Itoa(cur.ShortBreakMinutes)
	long := strconv.Itoa(cur.LongBreakMinutes)
	autoStart := cur.AutoStartNext
	inTitle := cur.ShowCountdownInTitle
	sound := cur.SoundOnComplete
	lang := s.deps.lang
	theme := s.deps.theme

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(&focus).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(&short).Validate(positiveInt),
			huh.NewInput().Title("Long break (min)").Value(&long).Validate(positiveInt),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewConfirm().Title("Start the next session automatically").Value(&autoStart),
			huh.NewConfirm().Title("Show countdown in window title").Value(&inTitle),
			huh.NewConfirm().Title("Ring the bell when a session ends").Value(&sound),
		).Title("Behaviour"),
		huh.NewGroup(
			huh.NewSelect[model.Language]().Title("Language").
				Options(
					huh.NewOption("English", model.English),
					huh.NewOption("বাংলা", model.Bengali),
				).Value(&lang),
			huh.NewSelect[model.ThemeMode]().Title("Theme").
				Options(
					huh.NewOption("System", model.ThemeSystem),
					huh.NewOption("Light", model.ThemeLight),
					huh.NewOption("Dark", model.ThemeDark),
				).Value(&theme),
		).Title("Display"),
	)

	deps := s.deps
	return s.form.open(tr(deps.lang, "Settings"), form, func() tea.Cmd {
		f, sb, lb := atoi(focus), atoi(short), atoi(long)
		patch := model.SettingsPatch{
			FocusMinutes:         &f,
			ShortBreakMinutes:    &sb,
			LongBreakMinutes:     &lb,
			AutoStartNext:        &autoStart,
			ShowCountdownInTitle: &inTitle,
			SoundOnComplete:      &sound,
		}
		return func() tea.Msg {
			if err := deps.Recorder.UpdateSettings(patch); err != nil {
				return errorStatus("Save settings", err)
			}
			if err := store.SaveLanguage(deps.KV, lang); err != nil {
				return errorStatus("Save language", err)
			}
			if err := store.SaveTheme(deps.KV, theme); err != nil {
				return errorStatus("Save theme", err)
			}
			return settingsSavedMsg{lang: lang, theme: theme}
		}
	})
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (s settingsModel) view() string {
	w := s.width - 4
	if s.form.active() {
		return s.form.view(w)
	}

	cur := s.deps.Engine.Settings()
	items := []struct{ label, value string }{
		{"Focus", fmt.Sprintf("%d min", cur.FocusMinutes)},
		{"Short break", fmt.Sprintf("%d min", cur.ShortBreakMinutes)},
		{"Long break", fmt.Sprintf("%d min", cur.LongBreakMinutes)},
		{"Auto start", onOff(cur.AutoStartNext)},
		{"Countdown in title", onOff(cur.ShowCountdownInTitle)},
		{"Bell", onOff(cur.SoundOnComplete)},
		{"Language", string(s.deps.lang)},
		{"Theme", string(s.deps.theme)},
	}

	var rows []string
	rows = append(rows, titleStyle.Render(tr(s.deps.lang, "Settings")))
	rows = append(rows, "")
	for _, it := range items {
		label := lipgloss.NewStyle().Width(24).Render(it.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it.value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
