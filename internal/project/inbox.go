package project

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/store"
)

// InboxID is the fixed id of the default project.
const InboxID = "inbox"

// EnsureInbox returns the default project, creating it on first use.
// Creation moves the legacy global tasks and notes into it; the legacy
// copies are cleared in the same transaction so the import runs once.
func (s *Store) EnsureInbox() (model.Project, error) {
	unlock := s.lock(InboxID)
	defer unlock()
	s.listMu.Lock()
	defer s.listMu.Unlock()

	projects := s.loadProjects()
	if i := find(projects, InboxID); i >= 0 {
		return projects[i], nil
	}

	now := s.clock.Now()
	state := store.LoadAppState(s.kv, s.log, model.DefaultSettings())
	d := normalize(model.ProjectData{
		Tasks: state.Tasks,
		Notes: store.LoadList[model.Note](s.kv, s.log, store.KeyNotes),
	})
	for i := range d.Notes {
		if d.Notes[i].Slug == "" {
			d.Notes[i].Slug = model.Slug(d.Notes[i].Title)
		}
	}

	inbox := model.Project{
		ID:        InboxID,
		Name:      "Inbox",
		Color:     Colors[0],
		Emoji:     "📥",
		CreatedAt: now,
		UpdatedAt: now,
		Stats:     ComputeStats(d, now),
	}
	projects = append(projects, inbox)

	ops := make([]store.Op, 0, 4)
	for _, enc := range []struct {
		key string
		v   any
	}{
		{store.KeyProjects, projects},
		{store.ProjectDataKey(InboxID), d},
	} {
		op, err := store.Encode(enc.key, enc.v)
		if err != nil {
			return model.Project{}, err
		}
		ops = append(ops, op)
	}
	if len(state.Tasks) > 0 {
		state.Tasks = []model.Task{}
		op, err := store.Encode(store.KeyState, state)
		if err != nil {
			return model.Project{}, err
		}
		ops = append(ops, op)
	}
	ops = append(ops, store.DeleteOp(store.KeyNotes))

	if err := s.kv.Apply(ops...); err != nil {
		return model.Project{}, fmt.Errorf("create inbox: %w", err)
	}
	s.log.Info("inbox created", "imported_tasks", len(d.Tasks), "imported_notes", len(d.Notes))
	return inbox, nil
}

// Current returns the active project id, or InboxID when nothing is
// selected.
func (s *Store) Current() string {
	if p, ok := s.Active(); ok {
		return p.ID
	}
	return InboxID
}

// Summary is the at-a-glance view of one project.
type Summary struct {
	Project        model.Project
	CompletionRate int
	ActiveGoals    int
	RecentSessions int
	Notes          int
	JournalEntries int
}

// Summary counts sessions completed in the 24 hours before now.
func (s *Store) Summary(id string) (Summary, error) {
	p, err := s.Project(id)
	if err != nil {
		return Summary{}, err
	}
	d := s.Data(id)
	sum := Summary{
		Project:        p,
		Notes:          len(d.Notes),
		JournalEntries: len(d.JournalEntries),
	}
	if p.Stats.TotalTasks > 0 {
		sum.CompletionRate = int(math.Round(float64(p.Stats.CompletedTasks) / float64(p.Stats.TotalTasks) * 100))
	}
	for _, g := range d.LearningGoals {
		if g.Status != model.StatusCompleted {
			sum.ActiveGoals++
		}
	}
	dayAgo := s.clock.Now().Add(-24 * time.Hour)
	for _, ps := range d.PomodoroSessions {
		if ps.CompletedAt.After(dayAgo) {
			sum.RecentSessions++
		}
	}
	return sum, nil
}

// DailyFocus is the focus time one project logged on one day.
type DailyFocus struct {
	Date         string
	ProjectID    string
	ProjectName  string
	ProjectColor string
	Minutes      int
	Sessions     int
}

// DailyFocus groups focus sessions completed in [from, to) by local
// date and project, ordered by date then project name.
func (s *Store) DailyFocus(from, to time.Time) []DailyFocus {
	type key struct{ date, project string }
	byKey := make(map[key]*DailyFocus)
	for _, p := range s.Projects(true) {
		for _, ps := range s.Data(p.ID).PomodoroSessions {
			if ps.Kind != model.Focus || ps.CompletedAt.Before(from) || !ps.CompletedAt.Before(to) {
				continue
			}
			k := key{model.DateKey(ps.CompletedAt.In(from.Location())), p.ID}
			df, ok := byKey[k]
			if !ok {
				df = &DailyFocus{Date: k.date, ProjectID: p.ID, ProjectName: p.Name, ProjectColor: p.Color}
				byKey[k] = df
			}
			df.Minutes += ps.DurationMinutes
			df.Sessions++
		}
	}

	out := make([]DailyFocus, 0, len(byKey))
	for _, df := range byKey {
		out = append(out, *df)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].ProjectName != out[j].ProjectName {
			return out[i].ProjectName < out[j].ProjectName
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}
