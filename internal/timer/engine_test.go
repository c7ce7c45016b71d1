package timer

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sadopc/focusmine/internal/clock"
	"github.com/sadopc/focusmine/internal/model"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingNotifier struct {
	sounds []model.SessionKind
	titles []string
	fail   bool
	panic  bool
}

func (n *recordingNotifier) SessionCompleted(kind model.SessionKind) error {
	if n.panic {
		panic("speaker on fire")
	}
	n.sounds = append(n.sounds, kind)
	if n.fail {
		return errors.New("no audio device")
	}
	return nil
}

func (n *recordingNotifier) SetTitle(title string) error {
	if n.panic {
		panic("no window")
	}
	n.titles = append(n.titles, title)
	return nil
}

func newTestEngine(t *testing.T, s model.Settings, n Notifier) *Engine {
	t.Helper()
	e, err := New(s, WithClock(clock.Fake(epoch)), WithLogger(quiet), WithNotifier(n))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func shortSettings() model.Settings {
	s := model.DefaultSettings()
	s.FocusMinutes = 1
	s.ShortBreakMinutes = 1
	s.LongBreakMinutes = 2
	return s
}

// ============================================================
// Construction
// ============================================================

func TestNewInitialState(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	st := e.Snapshot()
	if st.Kind != model.Focus || st.Running || st.SecondsRemaining != 1500 || st.CompletedFocus != 0 {
		t.Fatalf("unexpected initial state: %+v", st)
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.ShortBreakMinutes = 0
	if _, err := New(s); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

// ============================================================
// Transitions
// ============================================================

func TestSetKindResetsDuration(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	e.Start()
	e.Tick()

	if err := e.SetKind(model.ShortBreak); err != nil {
		t.Fatal(err)
	}
	st := e.Snapshot()
	if st.SecondsRemaining != 300 || st.Running {
		t.Fatalf("after SetKind(ShortBreak): %+v", st)
	}

	e.SetKind(model.LongBreak)
	if st := e.Snapshot(); st.SecondsRemaining != 900 {
		t.Fatalf("long break remaining = %d, want 900", st.SecondsRemaining)
	}
}

func TestSetKindRejectsUnknown(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	before := e.Snapshot()
	if err := e.SetKind("nap"); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if e.Snapshot() != before {
		t.Fatal("state changed on rejected kind")
	}
}

func TestPauseIdempotent(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	e.Start()
	e.Tick()
	e.Pause()
	e.Pause()
	st := e.Snapshot()
	if st.Running || st.SecondsRemaining != 1499 {
		t.Fatalf("unexpected state after pause: %+v", st)
	}
}

func TestTickIgnoredWhenPaused(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	if _, ok := e.Tick(); ok {
		t.Fatal("paused tick should not complete")
	}
	if st := e.Snapshot(); st.SecondsRemaining != 1500 {
		t.Fatalf("paused tick changed remaining: %d", st.SecondsRemaining)
	}
}

func TestReset(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	e.Start()
	for i := 0; i < 10; i++ {
		e.Tick()
	}
	e.Reset()
	st := e.Snapshot()
	if st.Running || st.SecondsRemaining != 1500 {
		t.Fatalf("unexpected state after reset: %+v", st)
	}
}

func TestMonotonicCountdown(t *testing.T) {
	e := newTestEngine(t, shortSettings(), nil)
	e.Start()

	prev := e.Snapshot().SecondsRemaining
	for i := 0; i < 59; i++ {
		if _, ok := e.Tick(); ok {
			t.Fatalf("completed early at tick %d", i+1)
		}
		st := e.Snapshot()
		if st.SecondsRemaining >= prev {
			t.Fatalf("tick %d: remaining %d not below %d", i+1, st.SecondsRemaining, prev)
		}
		if !st.Running {
			t.Fatalf("tick %d: stopped early", i+1)
		}
		prev = st.SecondsRemaining
	}
	if prev != 1 {
		t.Fatalf("remaining = %d before final tick, want 1", prev)
	}
}

func TestFocusCompletionCountsOnce(t *testing.T) {
	e := newTestEngine(t, shortSettings(), nil)
	e.Restore(3)
	e.Attribute("task-1")
	e.Start()

	var events []Completion
	for i := 0; i < 120; i++ {
		if c, ok := e.Tick(); ok {
			events = append(events, c)
		}
	}

	if len(events) != 1 {
		t.Fatalf("expected exactly 1 completion, got %d", len(events))
	}
	c := events[0]
	if c.Kind != model.Focus || c.DurationMinutes != 1 || c.TaskID != "task-1" || !c.CompletedAt.Equal(epoch) {
		t.Fatalf("unexpected completion: %+v", c)
	}

	st := e.Snapshot()
	if st.CompletedFocus != 4 {
		t.Fatalf("CompletedFocus = %d, want 4", st.CompletedFocus)
	}
	if st.Running || st.SecondsRemaining != 60 || st.Kind != model.Focus {
		t.Fatalf("expected idle reset to same kind, got %+v", st)
	}
}

func TestAttributionClearedAfterFocusCompletion(t *testing.T) {
	e := newTestEngine(t, shortSettings(), nil)
	e.Attribute("task-1")
	e.Start()
	for i := 0; i < 60; i++ {
		e.Tick()
	}
	if id := e.Snapshot().TaskID; id != "" {
		t.Fatalf("TaskID = %q after completion, want cleared", id)
	}

	e.Start()
	var next Completion
	for i := 0; i < 60; i++ {
		if c, ok := e.Tick(); ok {
			next = c
		}
	}
	if next.TaskID != "" {
		t.Fatalf("second session credited to %q", next.TaskID)
	}
}

func TestBreakKeepsAttribution(t *testing.T) {
	e := newTestEngine(t, shortSettings(), nil)
	e.Attribute("task-1")
	e.SetKind(model.ShortBreak)
	e.Start()
	for i := 0; i < 60; i++ {
		e.Tick()
	}
	if id := e.Snapshot().TaskID; id != "task-1" {
		t.Fatalf("TaskID = %q after break, want task-1", id)
	}
}

func TestBreakCompletionDoesNotCount(t *testing.T) {
	e := newTestEngine(t, shortSettings(), nil)
	e.SetKind(model.ShortBreak)
	e.Start()

	var got []Completion
	for i := 0; i < 60; i++ {
		if c, ok := e.Tick(); ok {
			got = append(got, c)
		}
	}
	if len(got) != 1 || got[0].Kind != model.ShortBreak {
		t.Fatalf("expected one short break completion, got %+v", got)
	}
	if st := e.Snapshot(); st.CompletedFocus != 0 || st.Kind != model.ShortBreak {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestAutoStartRestartsSameKind(t *testing.T) {
	s := shortSettings()
	s.AutoStartNext = true
	e := newTestEngine(t, s, nil)
	e.Start()

	for i := 0; i < 60; i++ {
		e.Tick()
	}
	st := e.Snapshot()
	if !st.Running || st.Kind != model.Focus || st.SecondsRemaining != 60 || st.CompletedFocus != 1 {
		t.Fatalf("expected focus restarted, got %+v", st)
	}
}

func TestStartNoopWhenNothingRemains(t *testing.T) {
	e := newTestEngine(t, shortSettings(), nil)
	e.state.SecondsRemaining = 0
	e.Start()
	if e.Snapshot().Running {
		t.Fatal("start with zero remaining should be a no-op")
	}
}

func TestRestoreClampsNegative(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	e.Restore(-2)
	if st := e.Snapshot(); st.CompletedFocus != 0 || st.Running {
		t.Fatalf("unexpected state: %+v", st)
	}
}

// ============================================================
// Settings
// ============================================================

func TestUpdateSettingsWhileIdle(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	thirty := 30
	if err := e.UpdateSettings(model.SettingsPatch{FocusMinutes: &thirty}); err != nil {
		t.Fatal(err)
	}
	if st := e.Snapshot(); st.SecondsRemaining != 1800 {
		t.Fatalf("remaining = %d, want 1800", st.SecondsRemaining)
	}
}

func TestUpdateSettingsWhileRunning(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	e.Start()
	e.Tick()

	thirty := 30
	e.UpdateSettings(model.SettingsPatch{FocusMinutes: &thirty})
	if st := e.Snapshot(); st.SecondsRemaining != 1499 {
		t.Fatalf("running countdown changed: %d", st.SecondsRemaining)
	}

	e.Reset()
	if st := e.Snapshot(); st.SecondsRemaining != 1800 {
		t.Fatalf("reset should observe new duration, got %d", st.SecondsRemaining)
	}
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)
	zero := 0
	if err := e.UpdateSettings(model.SettingsPatch{LongBreakMinutes: &zero}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if e.Settings() != model.DefaultSettings() {
		t.Fatal("settings mutated on rejected update")
	}
}

// ============================================================
// Notifier
// ============================================================

func TestNotifierSoundAndTitle(t *testing.T) {
	n := &recordingNotifier{}
	e := newTestEngine(t, shortSettings(), n)
	e.Start()
	for i := 0; i < 60; i++ {
		e.Tick()
	}

	if len(n.sounds) != 1 || n.sounds[0] != model.Focus {
		t.Fatalf("sounds = %v", n.sounds)
	}
	if len(n.titles) != 61 {
		t.Fatalf("expected 61 title updates, got %d", len(n.titles))
	}
	if n.titles[0] != "01:00 - FocusMine" || n.titles[1] != "00:59 - FocusMine" {
		t.Fatalf("unexpected titles: %v", n.titles[:2])
	}
	if last := n.titles[len(n.titles)-1]; last != AppTitle {
		t.Fatalf("last title = %q, want %q", last, AppTitle)
	}
}

func TestNotifierRespectsToggles(t *testing.T) {
	s := shortSettings()
	s.SoundOnComplete = false
	s.ShowCountdownInTitle = false
	n := &recordingNotifier{}
	e := newTestEngine(t, s, n)
	e.Start()
	for i := 0; i < 60; i++ {
		e.Tick()
	}
	if len(n.sounds) != 0 || len(n.titles) != 0 {
		t.Fatalf("expected no side effects, got sounds=%v titles=%v", n.sounds, n.titles)
	}
}

func TestNotifierFailuresIgnored(t *testing.T) {
	for _, n := range []*recordingNotifier{{fail: true}, {panic: true}} {
		e := newTestEngine(t, shortSettings(), n)
		e.Start()
		var done bool
		for i := 0; i < 60; i++ {
			if _, ok := e.Tick(); ok {
				done = true
			}
		}
		if !done || e.Snapshot().CompletedFocus != 1 {
			t.Fatalf("completion lost with notifier %+v", n)
		}
	}
}

func TestTitleMatchesStateAfterConcurrentCalls(t *testing.T) {
	e := newTestEngine(t, model.DefaultSettings(), nil)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				e.Start()
				e.Tick()
				if i%7 == 0 {
					e.Pause()
				}
			}
		}()
	}
	wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.title != e.titleLocked() {
		t.Fatalf("stored title %q, state renders %q", e.title, e.titleLocked())
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := map[int]string{0: "00:00", 59: "00:59", 60: "01:00", 1500: "25:00", -3: "00:00"}
	for in, want := range tests {
		if got := FormatRemaining(in); got != want {
			t.Errorf("FormatRemaining(%d) = %q, want %q", in, got, want)
		}
	}
}
