package store

import (
	"fmt"
	"log/slog"

	"github.com/sadopc/focusmine/internal/model"
)

func LoadLanguage(kv KV, log *slog.Logger) model.Language {
	l := Load(kv, log, KeyLanguage, model.English)
	if !l.Valid() {
		logger(log).Warn("unknown language, using default", "language", l)
		return model.English
	}
	return l
}

func SaveLanguage(kv KV, l model.Language) error {
	if !l.Valid() {
		return fmt.Errorf("language %q: %w", l, model.ErrInvalid)
	}
	return Save(kv, KeyLanguage, l)
}

func LoadTheme(kv KV, log *slog.Logger) model.ThemeMode {
	m := Load(kv, log, KeyThemeMode, model.ThemeSystem)
	if !m.Valid() {
		logger(log).Warn("unknown theme mode, using default", "mode", m)
		return model.ThemeSystem
	}
	return m
}

func SaveTheme(kv KV, m model.ThemeMode) error {
	if !m.Valid() {
		return fmt.Errorf("theme mode %q: %w", m, model.ErrInvalid)
	}
	return Save(kv, KeyThemeMode, m)
}

// LoadAppState reads the global state record. Missing or invalid
// settings are replaced by defaults.
func LoadAppState(kv KV, log *slog.Logger, defaults model.Settings) model.AppState {
	st := Load(kv, log, KeyState, model.AppState{Settings: defaults})
	if err := st.Settings.Validate(); err != nil {
		logger(log).Warn("invalid stored settings, using defaults", "error", err)
		st.Settings = defaults
	}
	if st.CompletedPomodoros < 0 {
		st.CompletedPomodoros = 0
	}
	st.Tasks = Keep(log, KeyState, st.Tasks)
	return st
}

func SaveAppState(kv KV, st model.AppState) error {
	if err := st.Settings.Validate(); err != nil {
		return err
	}
	return Save(kv, KeyState, st)
}

// LoadActiveProject returns the selected project id, or "" when none.
func LoadActiveProject(kv KV, log *slog.Logger) string {
	return Load(kv, log, KeyActiveProject, "")
}
