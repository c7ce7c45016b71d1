// Package session connects the timer engine to persistence: it restores
// the engine from the stored app state and records completed sessions.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/project"
	"github.com/sadopc/focusmine/internal/store"
	"github.com/sadopc/focusmine/internal/timer"
)

// NewEngine builds an engine from the stored settings and focus counter.
// defaults apply when the database holds no valid settings.
func NewEngine(kv store.KV, log *slog.Logger, defaults model.Settings, opts ...timer.Option) (*timer.Engine, error) {
	st := store.LoadAppState(kv, log, defaults)
	e, err := timer.New(st.Settings, append([]timer.Option{timer.WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, err
	}
	e.Restore(st.CompletedPomodoros)
	return e, nil
}

// Recorder persists what the engine produces.
type Recorder struct {
	kv       store.KV
	projects *project.Store
	engine   *timer.Engine
	log      *slog.Logger

	// mu serializes read-modify-write of the app state key.
	mu sync.Mutex
}

func NewRecorder(kv store.KV, projects *project.Store, engine *timer.Engine, log *slog.Logger) *Recorder {
	return &Recorder{kv: kv, projects: projects, engine: engine, log: log}
}

// Record stores c in the current project and saves the focus counter.
func (r *Recorder) Record(c timer.Completion) (model.PomodoroSession, error) {
	id := r.projects.Current()
	ps := model.PomodoroSession{
		Kind:            c.Kind,
		DurationMinutes: c.DurationMinutes,
		TaskID:          c.TaskID,
		CompletedAt:     c.CompletedAt,
	}
	saved, err := r.projects.RecordSession(id, ps)
	if errors.Is(err, project.ErrNotFound) && id == project.InboxID {
		if _, err = r.projects.EnsureInbox(); err == nil {
			saved, err = r.projects.RecordSession(id, ps)
		}
	}
	if err != nil {
		return model.PomodoroSession{}, fmt.Errorf("record session: %w", err)
	}
	if err := r.SaveState(); err != nil {
		return saved, err
	}
	return saved, nil
}

// SaveState writes the engine's settings and focus counter to the app
// state key, keeping any legacy tasks stored there.
func (r *Recorder) SaveState() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.engine.Settings()
	st := store.LoadAppState(r.kv, r.log, settings)
	st.Settings = settings
	st.CompletedPomodoros = r.engine.Snapshot().CompletedFocus
	if err := store.SaveAppState(r.kv, st); err != nil {
		return fmt.Errorf("save app state: %w", err)
	}
	return nil
}

// UpdateSettings applies patch to the engine and persists the result.
func (r *Recorder) UpdateSettings(patch model.SettingsPatch) error {
	if err := r.engine.UpdateSettings(patch); err != nil {
		return err
	}
	return r.SaveState()
}
