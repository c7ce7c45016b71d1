package project

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/sadopc/focusmine/internal/clock"
	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/store"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *store.Store, *clock.FakeClock) {
	t.Helper()
	kv, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	fc := clock.Fake(epoch)
	var mu sync.Mutex
	n := 0
	ids := func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(kv, WithClock(fc), WithLogger(quiet), WithIDs(ids)), kv, fc
}

func mustCreate(t *testing.T, s *Store, name string) model.Project {
	t.Helper()
	p, err := s.Create(Metadata{Name: name})
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	return p
}

// ============================================================
// Projects
// ============================================================

func TestCreateProject(t *testing.T) {
	s, _, _ := newTestStore(t)
	p, err := s.Create(Metadata{Name: "  Thesis  ", Emoji: "📚"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == "" || p.Name != "Thesis" || p.Color != Colors[0] {
		t.Fatalf("unexpected project: %+v", p)
	}
	if !p.CreatedAt.Equal(epoch) || !p.UpdatedAt.Equal(epoch) {
		t.Fatalf("timestamps not set: %+v", p)
	}
	if p.Stats.TotalTasks != 0 || p.Stats.TotalPomodoros != 0 {
		t.Fatalf("expected empty stats: %+v", p.Stats)
	}

	got, err := s.Project(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Thesis" {
		t.Fatalf("stored name = %q", got.Name)
	}
}

func TestCreateRejectsBlankName(t *testing.T) {
	s, _, _ := newTestStore(t)
	if _, err := s.Create(Metadata{Name: "   "}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if len(s.Projects(true)) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestCreateDoesNotWritePartition(t *testing.T) {
	s, kv, _ := newTestStore(t)
	p := mustCreate(t, s, "Lazy")
	if _, ok, _ := kv.Get(store.ProjectDataKey(p.ID)); ok {
		t.Fatal("partition should be created lazily")
	}
	d := s.Data(p.ID)
	if len(d.Tasks) != 0 || d.Tasks == nil {
		t.Fatalf("expected empty non-nil tasks, got %#v", d.Tasks)
	}
	if _, ok, _ := kv.Get(store.ProjectDataKey(p.ID)); ok {
		t.Fatal("Data must not write")
	}
}

func TestProjectsOrdering(t *testing.T) {
	s, _, fc := newTestStore(t)
	a := mustCreate(t, s, "A")
	fc.Advance(time.Minute)
	b := mustCreate(t, s, "B")
	fc.Advance(time.Minute)
	c := mustCreate(t, s, "C")

	if err := s.ToggleFavorite(a.ID); err != nil {
		t.Fatal(err)
	}
	s.Archive(c.ID, true)

	got := s.Projects(false)
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("unexpected order: %v", names(got))
	}
	all := s.Projects(true)
	if len(all) != 3 || all[1].ID != c.ID {
		t.Fatalf("expected archived C by recency, got %v", names(all))
	}
}

func names(ps []model.Project) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestUpdatePreservesStats(t *testing.T) {
	s, _, fc := newTestStore(t)
	p := mustCreate(t, s, "Stats")
	s.AddTask(p.ID, "one")

	p.Name = "Renamed"
	p.Stats = model.ProjectStats{TotalTasks: 99}
	p.UpdatedAt = fc.Now().Add(time.Hour)
	if err := s.Update(p); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Project(p.ID)
	if got.Name != "Renamed" || got.Stats.TotalTasks != 1 {
		t.Fatalf("unexpected project after update: %+v", got)
	}
	if !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("UpdatedAt should be caller's, got %v", got.UpdatedAt)
	}
}

func TestUpdateUnknown(t *testing.T) {
	s, _, _ := newTestStore(t)
	err := s.Update(model.Project{ID: "ghost", Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProject(t *testing.T) {
	s, kv, _ := newTestStore(t)
	p := mustCreate(t, s, "Doomed")
	keep := mustCreate(t, s, "Keep")
	s.AddTask(p.ID, "task")
	if err := s.SetActive(p.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Project(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("project still present: %v", err)
	}
	if _, ok, _ := kv.Get(store.ProjectDataKey(p.ID)); ok {
		t.Fatal("partition should be deleted")
	}
	if _, ok := s.Active(); ok {
		t.Fatal("active selection should be cleared")
	}
	if _, err := s.Project(keep.ID); err != nil {
		t.Fatal("other project removed")
	}
}

func TestDeleteKeepsWriterLock(t *testing.T) {
	s, _, _ := newTestStore(t)
	inbox, err := s.EnsureInbox()
	if err != nil {
		t.Fatal(err)
	}
	s.locksMu.Lock()
	before := s.locks[inbox.ID]
	s.locksMu.Unlock()
	if before == nil {
		t.Fatal("inbox writes should have created a lock")
	}

	if err := s.Delete(inbox.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EnsureInbox(); err != nil {
		t.Fatal(err)
	}
	s.locksMu.Lock()
	after := s.locks[inbox.ID]
	s.locksMu.Unlock()
	if after != before {
		t.Fatal("re-created project got a different writer lock")
	}
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustCreate(t, s, "A")
	if err := s.Delete("ghost"); err != nil {
		t.Fatal(err)
	}
	if len(s.Projects(true)) != 1 {
		t.Fatal("project list changed")
	}
}

func TestDeleteKeepsOtherActiveSelection(t *testing.T) {
	s, _, _ := newTestStore(t)
	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")
	s.SetActive(a.ID)
	s.Delete(b.ID)
	if got, ok := s.Active(); !ok || got.ID != a.ID {
		t.Fatalf("active = %+v, %v", got, ok)
	}
}

func TestSetActiveUnknown(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.SetActive("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	s.ClearActive()
	if _, ok := s.Active(); ok {
		t.Fatal("expected no active project")
	}
}

// ============================================================
// Partitions and stats
// ============================================================

func TestComputeStatsDeterministic(t *testing.T) {
	d := model.ProjectData{
		Tasks: []model.Task{{ID: "a", Completed: true}, {ID: "b"}},
		PomodoroSessions: []model.PomodoroSession{
			{ID: "1", Kind: model.Focus, DurationMinutes: 25},
			{ID: "2", Kind: model.ShortBreak, DurationMinutes: 5},
		},
	}
	first := ComputeStats(d, epoch)
	second := ComputeStats(d, epoch)
	if first != second {
		t.Fatalf("stats differ: %+v vs %+v", first, second)
	}
	want := model.ProjectStats{TotalTasks: 2, CompletedTasks: 1, TotalPomodoros: 1, TotalTimeSpentMinutes: 30, LastActivity: epoch}
	if first != want {
		t.Fatalf("stats = %+v, want %+v", first, want)
	}

	d.PomodoroSessions = append(d.PomodoroSessions, model.PomodoroSession{ID: "3", Kind: model.Focus, DurationMinutes: 25})
	after := ComputeStats(d, epoch)
	if after.TotalPomodoros != first.TotalPomodoros+1 || after.TotalTimeSpentMinutes != first.TotalTimeSpentMinutes+25 {
		t.Fatalf("one focus session should add 1 and 25, got %+v", after)
	}
}

func TestUpdateDataRecomputesStats(t *testing.T) {
	s, _, fc := newTestStore(t)
	p := mustCreate(t, s, "P")
	fc.Advance(time.Hour)

	tasks := []model.Task{{ID: "t1", Title: "a", Completed: true}, {ID: "t2", Title: "b"}}
	got, err := s.UpdateData(p.ID, DataPatch{Tasks: &tasks})
	if err != nil {
		t.Fatal(err)
	}
	want := model.ProjectStats{TotalTasks: 2, CompletedTasks: 1, LastActivity: epoch.Add(time.Hour)}
	if got.Stats != want {
		t.Fatalf("stats = %+v, want %+v", got.Stats, want)
	}
	stored, _ := s.Project(p.ID)
	if stored.Stats != want {
		t.Fatalf("stored stats = %+v", stored.Stats)
	}
}

func TestUpdateDataShallowMerge(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	s.AddTask(p.ID, "keep me")

	notes := []model.Note{{ID: "n1", Title: "x"}}
	if _, err := s.UpdateData(p.ID, DataPatch{Notes: &notes}); err != nil {
		t.Fatal(err)
	}
	d := s.Data(p.ID)
	if len(d.Tasks) != 1 || len(d.Notes) != 1 {
		t.Fatalf("merge lost data: %+v", d)
	}
}

func TestUpdateDataUnknownProject(t *testing.T) {
	s, kv, _ := newTestStore(t)
	tasks := []model.Task{{ID: "t"}}
	if _, err := s.UpdateData("ghost", DataPatch{Tasks: &tasks}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok, _ := kv.Get(store.ProjectDataKey("ghost")); ok {
		t.Fatal("nothing should be written for an unknown project")
	}
}

func TestUpdateDataRejectsInvalidRecords(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	blocks := []model.TimeBlock{{ID: "b", StartTime: "25:00", DurationMinutes: 30}}
	if _, err := s.UpdateData(p.ID, DataPatch{TimeBlocks: &blocks}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if len(s.Data(p.ID).TimeBlocks) != 0 {
		t.Fatal("invalid block stored")
	}
}

func TestRecomputeAfterCrash(t *testing.T) {
	s, kv, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	s.RecordSession(p.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})
	before, _ := s.Project(p.ID)

	// Simulate a crash that wrote the partition but lost the stats.
	projects := store.LoadList[model.Project](kv, nil, store.KeyProjects)
	projects[0].Stats = model.ProjectStats{}
	store.Save(kv, store.KeyProjects, projects)

	first, err := s.Recompute(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := s.Recompute(p.ID)
	if first.Stats != second.Stats || first.Stats != before.Stats {
		t.Fatalf("recompute not deterministic: %+v / %+v / %+v", before.Stats, first.Stats, second.Stats)
	}
}

func TestCorruptPartitionFallsBack(t *testing.T) {
	s, kv, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	kv.Put(store.ProjectDataKey(p.ID), "{broken")
	d := s.Data(p.ID)
	if d.Tasks == nil || len(d.Tasks) != 0 {
		t.Fatalf("expected empty default partition, got %+v", d)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestTaskLifecycle(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")

	task, err := s.AddTask(p.ID, "Write intro")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RenameTask(p.ID, task.ID, "Write introduction"); err != nil {
		t.Fatal(err)
	}
	if got := s.Data(p.ID).Tasks[0].Title; got != "Write introduction" {
		t.Fatalf("title = %q", got)
	}
	if err := s.RenameTask(p.ID, "ghost", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.AddTask(p.ID, "  "); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := s.AddTask("ghost", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleTaskTwiceRestores(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	task, _ := s.AddTask(p.ID, "t")
	original := s.Data(p.ID).Tasks

	s.ToggleTask(p.ID, task.ID)
	if !s.Data(p.ID).Tasks[0].Completed {
		t.Fatal("first toggle should complete")
	}
	if got, _ := s.Project(p.ID); got.Stats.CompletedTasks != 1 {
		t.Fatalf("CompletedTasks = %d", got.Stats.CompletedTasks)
	}
	s.ToggleTask(p.ID, task.ID)
	if got := s.Data(p.ID).Tasks; !reflect.DeepEqual(got, original) {
		t.Fatalf("double toggle changed task: %+v vs %+v", got, original)
	}
}

func TestDeleteUnknownTaskIsNoop(t *testing.T) {
	s, _, fc := newTestStore(t)
	p := mustCreate(t, s, "P")
	s.AddTask(p.ID, "a")
	s.AddTask(p.ID, "b")
	before := s.Data(p.ID).Tasks
	projBefore, _ := s.Project(p.ID)

	fc.Advance(time.Hour)
	if err := s.DeleteTask(p.ID, "ghost"); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleTask(p.ID, "ghost"); err != nil {
		t.Fatal(err)
	}
	if got := s.Data(p.ID).Tasks; !reflect.DeepEqual(got, before) {
		t.Fatalf("task list changed: %+v", got)
	}
	if projAfter, _ := s.Project(p.ID); !projAfter.UpdatedAt.Equal(projBefore.UpdatedAt) {
		t.Fatal("no-op delete should not write")
	}
}

func TestDeleteTask(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	a, _ := s.AddTask(p.ID, "a")
	s.AddTask(p.ID, "b")
	s.DeleteTask(p.ID, a.ID)
	tasks := s.Data(p.ID).Tasks
	if len(tasks) != 1 || tasks[0].Title != "b" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if got, _ := s.Project(p.ID); got.Stats.TotalTasks != 1 {
		t.Fatalf("TotalTasks = %d", got.Stats.TotalTasks)
	}
}

func TestReorderTasks(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	a, _ := s.AddTask(p.ID, "a")
	b, _ := s.AddTask(p.ID, "b")
	c, _ := s.AddTask(p.ID, "c")

	if err := s.ReorderTasks(p.ID, []string{c.ID, "ghost", a.ID}); err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, task := range s.Data(p.ID).Tasks {
		got = append(got, task.ID)
	}
	if want := []string{c.ID, a.ID, b.ID}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

// ============================================================
// Notes and journal
// ============================================================

func TestNotes(t *testing.T) {
	s, _, fc := newTestStore(t)
	p := mustCreate(t, s, "P")

	first, err := s.AddNote(p.ID, "Reading List", "# Books", []string{"books", " books ", ""})
	if err != nil {
		t.Fatal(err)
	}
	if first.Slug != "reading-list" || len(first.Tags) != 1 {
		t.Fatalf("unexpected note: %+v", first)
	}
	second, _ := s.AddNote(p.ID, "", "scratch", nil)
	if second.Slug != "untitled" {
		t.Fatalf("slug = %q", second.Slug)
	}
	if notes := s.Data(p.ID).Notes; notes[0].ID != second.ID {
		t.Fatal("newest note should list first")
	}

	fc.Advance(time.Minute)
	first.Title = "Books 2024"
	saved, err := s.SaveNote(p.ID, first)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Slug != "books-2024" || !saved.UpdatedAt.Equal(epoch.Add(time.Minute)) || !saved.CreatedAt.Equal(epoch) {
		t.Fatalf("unexpected saved note: %+v", saved)
	}
	if _, err := s.SaveNote(p.ID, model.Note{ID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if got := s.SearchNotes(p.ID, "BOOK"); len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("search = %+v", got)
	}
	if got := s.SearchNotes(p.ID, ""); len(got) != 2 {
		t.Fatalf("empty search should return all, got %d", len(got))
	}

	s.DeleteNote(p.ID, second.ID)
	s.DeleteNote(p.ID, "ghost")
	if got := s.Data(p.ID).Notes; len(got) != 1 {
		t.Fatalf("expected 1 note, got %d", len(got))
	}
}

func TestJournal(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")

	e, err := s.AddJournalEntry(p.ID, model.JournalEntry{Title: "Day one", Mood: 4, FocusScore: 5})
	if err != nil {
		t.Fatal(err)
	}
	if e.ProjectID != p.ID || !e.Date.Equal(epoch) {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if _, err := s.AddJournalEntry(p.ID, model.JournalEntry{Mood: 9}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	s.DeleteJournalEntry(p.ID, "ghost")
	if len(s.Data(p.ID).JournalEntries) != 1 {
		t.Fatal("unknown delete removed an entry")
	}
	s.DeleteJournalEntry(p.ID, e.ID)
	if len(s.Data(p.ID).JournalEntries) != 0 {
		t.Fatal("entry not deleted")
	}
}

// ============================================================
// Sessions
// ============================================================

func TestRecordFocusSession(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	task, _ := s.AddTask(p.ID, "t")
	before, _ := s.Project(p.ID)

	ps, err := s.RecordSession(p.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25, TaskID: task.ID})
	if err != nil {
		t.Fatal(err)
	}
	if ps.ID == "" || ps.ProjectID != p.ID || !ps.CompletedAt.Equal(epoch) {
		t.Fatalf("unexpected session: %+v", ps)
	}

	after, _ := s.Project(p.ID)
	if after.Stats.TotalPomodoros != before.Stats.TotalPomodoros+1 {
		t.Fatalf("TotalPomodoros = %d", after.Stats.TotalPomodoros)
	}
	if after.Stats.TotalTimeSpentMinutes != before.Stats.TotalTimeSpentMinutes+25 {
		t.Fatalf("TotalTimeSpentMinutes = %d", after.Stats.TotalTimeSpentMinutes)
	}
	if got := s.Data(p.ID).Tasks[0].PomodorosCompleted; got != 1 {
		t.Fatalf("PomodorosCompleted = %d, want 1", got)
	}
}

func TestRecordBreakSession(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")
	task, _ := s.AddTask(p.ID, "t")
	s.RecordSession(p.ID, model.PomodoroSession{Kind: model.ShortBreak, DurationMinutes: 5, TaskID: task.ID})

	got, _ := s.Project(p.ID)
	if got.Stats.TotalPomodoros != 0 || got.Stats.TotalTimeSpentMinutes != 5 {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
	if s.Data(p.ID).Tasks[0].PomodorosCompleted != 0 {
		t.Fatal("break should not credit the task")
	}
	if _, err := s.RecordSession(p.ID, model.PomodoroSession{Kind: "nap"}); !errors.Is(err, model.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSessionsAcrossProjects(t *testing.T) {
	s, _, fc := newTestStore(t)
	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")
	s.RecordSession(b.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})
	fc.Advance(time.Hour)
	s.RecordSession(a.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})

	all := s.Sessions()
	if len(all) != 2 || all[0].ProjectID != b.ID || all[1].ProjectID != a.ID {
		t.Fatalf("unexpected sessions: %+v", all)
	}
	if got := s.SessionsBetween(epoch.Add(time.Minute), epoch.Add(2*time.Hour)); len(got) != 1 {
		t.Fatalf("expected 1 session in window, got %d", len(got))
	}
}

// ============================================================
// Inbox, summary, reports
// ============================================================

func TestEnsureInboxImportsLegacyOnce(t *testing.T) {
	s, kv, _ := newTestStore(t)
	legacy := model.AppState{
		Tasks:              []model.Task{{ID: "old", Title: "legacy task", Completed: true}},
		Settings:           model.DefaultSettings(),
		CompletedPomodoros: 3,
	}
	store.SaveAppState(kv, legacy)
	store.Save(kv, store.KeyNotes, []model.Note{{ID: "n", Title: "Old Note"}})

	inbox, err := s.EnsureInbox()
	if err != nil {
		t.Fatal(err)
	}
	if inbox.ID != InboxID || inbox.Stats.TotalTasks != 1 || inbox.Stats.CompletedTasks != 1 {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}
	d := s.Data(InboxID)
	if len(d.Tasks) != 1 || len(d.Notes) != 1 || d.Notes[0].Slug != "old-note" {
		t.Fatalf("legacy data not imported: %+v", d)
	}

	st := store.LoadAppState(kv, nil, model.DefaultSettings())
	if len(st.Tasks) != 0 || st.CompletedPomodoros != 3 {
		t.Fatalf("legacy tasks should be cleared, counter kept: %+v", st)
	}
	if _, ok, _ := kv.Get(store.KeyNotes); ok {
		t.Fatal("legacy notes key should be removed")
	}

	again, err := s.EnsureInbox()
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != InboxID || len(s.Projects(true)) != 1 || len(s.Data(InboxID).Tasks) != 1 {
		t.Fatal("second EnsureInbox should not duplicate")
	}
}

func TestCurrentFallsBackToInbox(t *testing.T) {
	s, _, _ := newTestStore(t)
	if got := s.Current(); got != InboxID {
		t.Fatalf("Current() = %q, want inbox", got)
	}
	p := mustCreate(t, s, "Thesis")
	s.SetActive(p.ID)
	if got := s.Current(); got != p.ID {
		t.Fatalf("Current() = %q, want %q", got, p.ID)
	}
	s.Delete(p.ID)
	if got := s.Current(); got != InboxID {
		t.Fatalf("Current() after delete = %q, want inbox", got)
	}
}

func TestSummary(t *testing.T) {
	s, _, fc := newTestStore(t)
	p := mustCreate(t, s, "P")
	a, _ := s.AddTask(p.ID, "a")
	s.AddTask(p.ID, "b")
	s.AddTask(p.ID, "c")
	s.ToggleTask(p.ID, a.ID)
	s.RecordSession(p.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})
	s.AddNote(p.ID, "n", "", nil)
	goals := []model.LearningGoal{
		{ID: "g1", Type: model.GoalBook, Status: model.StatusInProgress},
		{ID: "g2", Type: model.GoalBook, Status: model.StatusCompleted, Progress: 100},
	}
	s.UpdateData(p.ID, DataPatch{LearningGoals: &goals})

	fc.Advance(25 * time.Hour)
	s.RecordSession(p.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})

	sum, err := s.Summary(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sum.CompletionRate != 33 || sum.ActiveGoals != 1 || sum.RecentSessions != 1 || sum.Notes != 1 || sum.JournalEntries != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if _, err := s.Summary("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDailyFocus(t *testing.T) {
	s, _, fc := newTestStore(t)
	a := mustCreate(t, s, "Alpha")
	b := mustCreate(t, s, "Beta")

	s.RecordSession(a.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})
	s.RecordSession(a.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})
	s.RecordSession(a.ID, model.PomodoroSession{Kind: model.ShortBreak, DurationMinutes: 5})
	s.RecordSession(b.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 50})
	fc.Advance(24 * time.Hour)
	s.RecordSession(b.ID, model.PomodoroSession{Kind: model.Focus, DurationMinutes: 25})

	got := s.DailyFocus(epoch.Add(-time.Hour), epoch.Add(48*time.Hour))
	want := []DailyFocus{
		{Date: "2024-06-01", ProjectID: a.ID, ProjectName: "Alpha", ProjectColor: Colors[0], Minutes: 50, Sessions: 2},
		{Date: "2024-06-01", ProjectID: b.ID, ProjectName: "Beta", ProjectColor: Colors[0], Minutes: 50, Sessions: 1},
		{Date: "2024-06-02", ProjectID: b.ID, ProjectName: "Beta", ProjectColor: Colors[0], Minutes: 25, Sessions: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DailyFocus =\n%+v\nwant\n%+v", got, want)
	}
}

func TestConcurrentTaskWrites(t *testing.T) {
	s, _, _ := newTestStore(t)
	p := mustCreate(t, s, "P")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.AddTask(p.ID, fmt.Sprintf("task %d", i)); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := s.Project(p.ID)
	if len(s.Data(p.ID).Tasks) != 20 || got.Stats.TotalTasks != 20 {
		t.Fatalf("lost writes: %d tasks, stats %d", len(s.Data(p.ID).Tasks), got.Stats.TotalTasks)
	}
}
