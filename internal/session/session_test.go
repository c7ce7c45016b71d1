package session

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sadopc/focusmine/internal/clock"
	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/project"
	"github.com/sadopc/focusmine/internal/store"
	"github.com/sadopc/focusmine/internal/timer"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	kv       *store.Store
	projects *project.Store
	engine   *timer.Engine
	rec      *Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	kv, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	fc := clock.Fake(epoch)
	projects := project.New(kv, project.WithClock(fc), project.WithLogger(quiet))
	s := model.DefaultSettings()
	s.FocusMinutes = 1
	e, err := NewEngine(kv, quiet, s, timer.WithClock(fc))
	if err != nil {
		t.Fatal(err)
	}
	return fixture{kv: kv, projects: projects, engine: e, rec: NewRecorder(kv, projects, e, quiet)}
}

func completeFocus(t *testing.T, e *timer.Engine) timer.Completion {
	t.Helper()
	e.Start()
	for i := 0; i < 60; i++ {
		if c, ok := e.Tick(); ok {
			return c
		}
	}
	t.Fatal("focus session did not complete")
	return timer.Completion{}
}

func TestNewEngineRestoresState(t *testing.T) {
	kv, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	s := model.DefaultSettings()
	s.FocusMinutes = 40
	store.SaveAppState(kv, model.AppState{Settings: s, CompletedPomodoros: 7})

	e, err := NewEngine(kv, quiet, model.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	st := e.Snapshot()
	if st.CompletedFocus != 7 || st.SecondsRemaining != 2400 || st.Running {
		t.Fatalf("unexpected restored state: %+v", st)
	}
}

func TestNewEngineUsesDefaultsOnFreshDatabase(t *testing.T) {
	kv, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	s := model.DefaultSettings()
	s.FocusMinutes = 50
	e, err := NewEngine(kv, quiet, s)
	if err != nil {
		t.Fatal(err)
	}
	if e.Settings().FocusMinutes != 50 {
		t.Fatalf("settings = %+v", e.Settings())
	}
}

func TestRecordGoesToInboxWithoutActiveProject(t *testing.T) {
	f := newFixture(t)
	c := completeFocus(t, f.engine)

	ps, err := f.rec.Record(c)
	if err != nil {
		t.Fatal(err)
	}
	if ps.ProjectID != project.InboxID || ps.DurationMinutes != 1 || ps.Kind != model.Focus {
		t.Fatalf("unexpected session: %+v", ps)
	}
	inbox, err := f.projects.Project(project.InboxID)
	if err != nil {
		t.Fatalf("inbox should be created on demand: %v", err)
	}
	if inbox.Stats.TotalPomodoros != 1 || inbox.Stats.TotalTimeSpentMinutes != 1 {
		t.Fatalf("stats = %+v", inbox.Stats)
	}
	if st := store.LoadAppState(f.kv, quiet, model.DefaultSettings()); st.CompletedPomodoros != 1 {
		t.Fatalf("counter not saved: %+v", st)
	}
}

func TestRecordCreditsActiveProjectTask(t *testing.T) {
	f := newFixture(t)
	p, _ := f.projects.Create(project.Metadata{Name: "Thesis"})
	f.projects.SetActive(p.ID)
	task, _ := f.projects.AddTask(p.ID, "chapter 2")
	f.engine.Attribute(task.ID)

	if _, err := f.rec.Record(completeFocus(t, f.engine)); err != nil {
		t.Fatal(err)
	}
	d := f.projects.Data(p.ID)
	if len(d.PomodoroSessions) != 1 || d.Tasks[0].PomodorosCompleted != 1 {
		t.Fatalf("unexpected data: %+v", d)
	}
	if _, err := f.projects.Project(project.InboxID); !errors.Is(err, project.ErrNotFound) {
		t.Fatal("inbox should not be created when a project is active")
	}
}

func TestUpdateSettingsPersists(t *testing.T) {
	f := newFixture(t)
	thirty := 30
	if err := f.rec.UpdateSettings(model.SettingsPatch{FocusMinutes: &thirty}); err != nil {
		t.Fatal(err)
	}
	if st := store.LoadAppState(f.kv, quiet, model.DefaultSettings()); st.Settings.FocusMinutes != 30 {
		t.Fatalf("settings not saved: %+v", st.Settings)
	}

	zero := 0
	if err := f.rec.UpdateSettings(model.SettingsPatch{FocusMinutes: &zero}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if st := store.LoadAppState(f.kv, quiet, model.DefaultSettings()); st.Settings.FocusMinutes != 30 {
		t.Fatal("rejected settings should not be saved")
	}
}

func TestSaveStateKeepsLegacyTasks(t *testing.T) {
	f := newFixture(t)
	legacy := model.AppState{
		Tasks:    []model.Task{{ID: "old", Title: "legacy"}},
		Settings: model.DefaultSettings(),
	}
	store.SaveAppState(f.kv, legacy)

	if err := f.rec.SaveState(); err != nil {
		t.Fatal(err)
	}
	st := store.LoadAppState(f.kv, quiet, model.DefaultSettings())
	if len(st.Tasks) != 1 {
		t.Fatalf("legacy tasks dropped: %+v", st)
	}
	if st.Settings.FocusMinutes != 1 {
		t.Fatalf("engine settings not written: %+v", st.Settings)
	}
}
