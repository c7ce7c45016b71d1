package model

import "fmt"

// SessionKind selects which duration setting applies to the timer.
type SessionKind string

const (
	Focus      SessionKind = "pomodoro"
	ShortBreak SessionKind = "shortBreak"
	LongBreak  SessionKind = "longBreak"
)

// SessionKinds lists every kind in display order.
var SessionKinds = []SessionKind{Focus, ShortBreak, LongBreak}

func (k SessionKind) Valid() bool {
	switch k {
	case Focus, ShortBreak, LongBreak:
		return true
	}
	return false
}

func (k SessionKind) String() string {
	switch k {
	case Focus:
		return "Focus"
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	}
	return "Unknown"
}

// Settings are the user-tunable timer options.
type Settings struct {
	FocusMinutes         int  `json:"pomodoroDuration" yaml:"focus_minutes"`
	ShortBreakMinutes    int  `json:"shortBreakDuration" yaml:"short_break_minutes"`
	LongBreakMinutes     int  `json:"longBreakDuration" yaml:"long_break_minutes"`
	AutoStartNext        bool `json:"autoStart" yaml:"auto_start"`
	ShowCountdownInTitle bool `json:"showInTitle" yaml:"show_in_title"`
	SoundOnComplete      bool `json:"soundEnabled" yaml:"sound"`
}

func DefaultSettings() Settings {
	return Settings{
		FocusMinutes:         25,
		ShortBreakMinutes:    5,
		LongBreakMinutes:     15,
		ShowCountdownInTitle: true,
		SoundOnComplete:      true,
	}
}

func (s Settings) Validate() error {
	if s.FocusMinutes < 1 || s.ShortBreakMinutes < 1 || s.LongBreakMinutes < 1 {
		return fmt.Errorf("durations must be at least 1 minute (got %d/%d/%d): %w",
			s.FocusMinutes, s.ShortBreakMinutes, s.LongBreakMinutes, ErrInvalid)
	}
	return nil
}

// Minutes returns the configured length of kind. Unknown kinds fall
// back to the focus length.
func (s Settings) Minutes(kind SessionKind) int {
	switch kind {
	case ShortBreak:
		return s.ShortBreakMinutes
	case LongBreak:
		return s.LongBreakMinutes
	}
	return s.FocusMinutes
}

// Seconds returns the configured length of kind in seconds.
func (s Settings) Seconds(kind SessionKind) int {
	return s.Minutes(kind) * 60
}

// SettingsPatch is a partial update. Nil fields are left unchanged.
type SettingsPatch struct {
	FocusMinutes         *int
	ShortBreakMinutes    *int
	LongBreakMinutes     *int
	AutoStartNext        *bool
	ShowCountdownInTitle *bool
	SoundOnComplete      *bool
}

// Apply returns s with p merged in. The result is not validated.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.FocusMinutes != nil {
		s.FocusMinutes = *p.FocusMinutes
	}
	if p.ShortBreakMinutes != nil {
		s.ShortBreakMinutes = *p.ShortBreakMinutes
	}
	if p.LongBreakMinutes != nil {
		s.LongBreakMinutes = *p.LongBreakMinutes
	}
	if p.AutoStartNext != nil {
		s.AutoStartNext = *p.AutoStartNext
	}
	if p.ShowCountdownInTitle != nil {
		s.ShowCountdownInTitle = *p.ShowCountdownInTitle
	}
	if p.SoundOnComplete != nil {
		s.SoundOnComplete = *p.SoundOnComplete
	}
	return s
}

// AppState is the global, non-project record kept under the state key.
// Tasks is the legacy global task list; new tasks live in projects.
type AppState struct {
	Tasks              []Task   `json:"tasks"`
	Settings           Settings `json:"settings"`
	CompletedPomodoros int      `json:"completedPomodoros"`
}

// Language is the UI language preference.
type Language string

const (
	English Language = "en"
	Bengali Language = "bn"
)

func (l Language) Valid() bool { return l == English || l == Bengali }

// ThemeMode is the colour scheme preference.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

func (m ThemeMode) Valid() bool {
	return m == ThemeLight || m == ThemeDark || m == ThemeSystem
}
