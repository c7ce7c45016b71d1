// Package timer implements the Pomodoro countdown state machine and the
// single tick source that drives it outside the TUI.
package timer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sadopc/focusmine/internal/clock"
	"github.com/sadopc/focusmine/internal/model"
)

// AppTitle is the window title shown when no countdown is displayed.
const AppTitle = "FocusMine"

// State is a snapshot of the engine.
type State struct {
	Kind             model.SessionKind
	Running          bool
	SecondsRemaining int
	CompletedFocus   int
	TaskID           string
}

// Completion describes a session that counted down to zero.
type Completion struct {
	Kind            model.SessionKind
	DurationMinutes int
	CompletedAt     time.Time
	TaskID          string
}

// Notifier receives best-effort side effects. Errors and panics are
// logged and otherwise ignored.
type Notifier interface {
	SessionCompleted(kind model.SessionKind) error
	SetTitle(title string) error
}

// Engine is the session state machine. All methods are safe for
// concurrent use.
type Engine struct {
	mu       sync.Mutex
	settings model.Settings
	state    State
	title    string

	notifier Notifier
	clock    clock.Clock
	log      *slog.Logger
}

type Option func(*Engine)

func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// New returns an idle engine on the Focus kind with a full countdown.
func New(settings model.Settings, opts ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	e := &Engine{
		settings: settings,
		clock:    clock.Real(),
		log:      slog.Default(),
		title:    AppTitle,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = State{Kind: model.Focus, SecondsRemaining: settings.Seconds(model.Focus)}
	return e, nil
}

func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Settings() model.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// SetKind switches to kind with its full duration and stops the timer.
func (e *Engine) SetKind(kind model.SessionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("session kind %q: %w", kind, model.ErrInvalid)
	}
	e.mu.Lock()
	e.state.Kind = kind
	e.state.SecondsRemaining = e.settings.Seconds(kind)
	e.state.Running = false
	title, changed := e.syncTitleLocked()
	e.mu.Unlock()

	e.pushTitle(title, changed)
	return nil
}

// Start is a no-op when nothing remains.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.state.SecondsRemaining > 0 {
		e.state.Running = true
	}
	title, changed := e.syncTitleLocked()
	e.mu.Unlock()

	e.pushTitle(title, changed)
}

func (e *Engine) Pause() {
	e.mu.Lock()
	e.state.Running = false
	title, changed := e.syncTitleLocked()
	e.mu.Unlock()

	e.pushTitle(title, changed)
}

// Reset restores the current kind's full duration and stops the timer.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.state.SecondsRemaining = e.settings.Seconds(e.state.Kind)
	e.state.Running = false
	title, changed := e.syncTitleLocked()
	e.mu.Unlock()

	e.pushTitle(title, changed)
}

// Tick advances a running countdown by one second. When the countdown
// reaches zero it returns the completion and true; the engine is then
// reset to the same kind, running again only with AutoStartNext.
func (e *Engine) Tick() (Completion, bool) {
	e.mu.Lock()
	if !e.state.Running {
		e.mu.Unlock()
		return Completion{}, false
	}

	if e.state.SecondsRemaining > 0 {
		e.state.SecondsRemaining--
	}
	if e.state.SecondsRemaining > 0 {
		title, changed := e.syncTitleLocked()
		e.mu.Unlock()
		e.pushTitle(title, changed)
		return Completion{}, false
	}

	kind := e.state.Kind
	done := Completion{
		Kind:            kind,
		DurationMinutes: e.settings.Minutes(kind),
		CompletedAt:     e.clock.Now(),
		TaskID:          e.state.TaskID,
	}
	if kind == model.Focus {
		e.state.CompletedFocus++
		e.state.TaskID = ""
	}
	e.state.SecondsRemaining = e.settings.Seconds(kind)
	e.state.Running = e.settings.AutoStartNext
	sound := e.settings.SoundOnComplete
	title, changed := e.syncTitleLocked()
	e.mu.Unlock()

	e.log.Info("session completed", "kind", string(kind), "minutes", done.DurationMinutes, "task", done.TaskID)
	if sound {
		e.notify("session completed", func() error { return e.notifier.SessionCompleted(kind) })
	}
	e.pushTitle(title, changed)
	return done, true
}

// UpdateSettings merges patch into the settings. Invalid durations are
// rejected without mutation. An idle timer picks up the new duration
// for the current kind at once; a running one keeps its countdown.
func (e *Engine) UpdateSettings(patch model.SettingsPatch) error {
	e.mu.Lock()
	next := patch.Apply(e.settings)
	if err := next.Validate(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("update settings: %w", err)
	}
	e.settings = next
	if !e.state.Running {
		e.state.SecondsRemaining = next.Seconds(e.state.Kind)
	}
	title, changed := e.syncTitleLocked()
	e.mu.Unlock()

	e.pushTitle(title, changed)
	return nil
}

// Attribute sets the task credited with the next focus completion. An
// empty id clears it; a focus completion clears it too.
func (e *Engine) Attribute(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.TaskID = taskID
}

// Restore seeds the persisted focus counter. It never restores a
// running countdown.
func (e *Engine) Restore(completedFocus int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if completedFocus < 0 {
		completedFocus = 0
	}
	e.state.CompletedFocus = completedFocus
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (e *Engine) titleLocked() string {
	if e.settings.ShowCountdownInTitle && e.state.Running {
		return FormatRemaining(e.state.SecondsRemaining) + " - " + AppTitle
	}
	return AppTitle
}

// syncTitleLocked stores the current title and reports whether it
// differs from the last one pushed.
func (e *Engine) syncTitleLocked() (string, bool) {
	title := e.titleLocked()
	if title == e.title {
		return title, false
	}
	e.title = title
	return title, true
}

func (e *Engine) pushTitle(title string, changed bool) {
	if changed {
		e.notify("set title", func() error { return e.notifier.SetTitle(title) })
	}
}

func (e *Engine) notify(what string, fn func() error) {
	if e.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("notifier panicked", "op", what, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		e.log.Debug("notifier failed", "op", what, "error", err)
	}
}
