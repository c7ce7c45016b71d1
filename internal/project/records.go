package project

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/focusmine/internal/model"
)

// ============================================================
// Tasks
// ============================================================

func (s *Store) AddTask(projectID, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, fmt.Errorf("task title is required: %w", model.ErrInvalid)
	}
	t := model.Task{ID: s.newID(), Title: title, CreatedAt: s.clock.Now()}
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		d.Tasks = append(d.Tasks, t)
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// ToggleTask flips completion. Unknown task ids are a no-op.
func (s *Store) ToggleTask(projectID, taskID string) error {
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		i := slices.IndexFunc(d.Tasks, func(t model.Task) bool { return t.ID == taskID })
		if i < 0 {
			return errUnchanged
		}
		d.Tasks[i].Completed = !d.Tasks[i].Completed
		return nil
	})
	return err
}

func (s *Store) RenameTask(projectID, taskID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("task title is required: %w", model.ErrInvalid)
	}
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		i := slices.IndexFunc(d.Tasks, func(t model.Task) bool { return t.ID == taskID })
		if i < 0 {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		d.Tasks[i].Title = title
		return nil
	})
	return err
}

// DeleteTask removes a task. Unknown ids are a no-op.
func (s *Store) DeleteTask(projectID, taskID string) error {
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		n := len(d.Tasks)
		d.Tasks = slices.DeleteFunc(d.Tasks, func(t model.Task) bool { return t.ID == taskID })
		if len(d.Tasks) == n {
			return errUnchanged
		}
		return nil
	})
	return err
}

// ReorderTasks puts the listed tasks first in the given order. Tasks not
// listed keep their relative order after them; unknown ids are ignored.
func (s *Store) ReorderTasks(projectID string, ids []string) error {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		pos := func(t model.Task) int {
			if r, ok := rank[t.ID]; ok {
				return r
			}
			return len(ids)
		}
		sort.SliceStable(d.Tasks, func(i, j int) bool { return pos(d.Tasks[i]) < pos(d.Tasks[j]) })
		return nil
	})
	return err
}

// ============================================================
// Notes
// ============================================================

// AddNote prepends a note; newest notes list first.
func (s *Store) AddNote(projectID, title, content string, tags []string) (model.Note, error) {
	now := s.clock.Now()
	n := model.Note{
		ID:        s.newID(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		Tags:      cleanTags(tags),
		Slug:      model.Slug(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		d.Notes = append([]model.Note{n}, d.Notes...)
		return nil
	})
	if err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// SaveNote replaces the note with n.ID, rederiving its slug and
// stamping UpdatedAt.
func (s *Store) SaveNote(projectID string, n model.Note) (model.Note, error) {
	n.Title = strings.TrimSpace(n.Title)
	n.Tags = cleanTags(n.Tags)
	n.Slug = model.Slug(n.Title)
	n.UpdatedAt = s.clock.Now()
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		i := slices.IndexFunc(d.Notes, func(x model.Note) bool { return x.ID == n.ID })
		if i < 0 {
			return fmt.Errorf("note %s: %w", n.ID, ErrNotFound)
		}
		n.CreatedAt = d.Notes[i].CreatedAt
		d.Notes[i] = n
		return nil
	})
	if err != nil {
		return model.Note{}, err
	}
	return n, nil
}

func (s *Store) DeleteNote(projectID, noteID string) error {
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		n := len(d.Notes)
		d.Notes = slices.DeleteFunc(d.Notes, func(x model.Note) bool { return x.ID == noteID })
		if len(d.Notes) == n {
			return errUnchanged
		}
		return nil
	})
	return err
}

// SearchNotes matches query case-insensitively against title, content
// and tags. An empty query returns every note.
func (s *Store) SearchNotes(projectID, query string) []model.Note {
	notes := s.Data(projectID).Notes
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes
	}
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) ||
			slices.ContainsFunc(n.Tags, func(t string) bool { return strings.Contains(strings.ToLower(t), q) }) {
			out = append(out, n)
		}
	}
	return out
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// ============================================================
// Journal
// ============================================================

// AddJournalEntry assigns id, project and timestamps to e and prepends
// it. A zero Date means today.
func (s *Store) AddJournalEntry(projectID string, e model.JournalEntry) (model.JournalEntry, error) {
	now := s.clock.Now()
	e.ID = s.newID()
	e.ProjectID = projectID
	e.Title = strings.TrimSpace(e.Title)
	e.Tags = cleanTags(e.Tags)
	if e.Date.IsZero() {
		e.Date = now
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := e.Validate(); err != nil {
		return model.JournalEntry{}, err
	}
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		d.JournalEntries = append([]model.JournalEntry{e}, d.JournalEntries...)
		return nil
	})
	if err != nil {
		return model.JournalEntry{}, err
	}
	return e, nil
}

func (s *Store) DeleteJournalEntry(projectID, entryID string) error {
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		n := len(d.JournalEntries)
		d.JournalEntries = slices.DeleteFunc(d.JournalEntries, func(x model.JournalEntry) bool { return x.ID == entryID })
		if len(d.JournalEntries) == n {
			return errUnchanged
		}
		return nil
	})
	return err
}

// ============================================================
// Pomodoro sessions
// ============================================================

// RecordSession appends a completed session. A focus session credited
// to a task in this project increments that task's pomodoro count.
func (s *Store) RecordSession(projectID string, ps model.PomodoroSession) (model.PomodoroSession, error) {
	ps.ID = s.newID()
	ps.ProjectID = projectID
	if ps.CompletedAt.IsZero() {
		ps.CompletedAt = s.clock.Now()
	}
	if err := ps.Validate(); err != nil {
		return model.PomodoroSession{}, err
	}
	_, err := s.Mutate(projectID, func(d *model.ProjectData) error {
		d.PomodoroSessions = append(d.PomodoroSessions, ps)
		if ps.Kind == model.Focus && ps.TaskID != "" {
			if i := slices.IndexFunc(d.Tasks, func(t model.Task) bool { return t.ID == ps.TaskID }); i >= 0 {
				d.Tasks[i].PomodorosCompleted++
			}
		}
		return nil
	})
	if err != nil {
		return model.PomodoroSession{}, err
	}
	s.log.Info("session recorded", "project", projectID, "kind", string(ps.Kind), "minutes", ps.DurationMinutes)
	return ps, nil
}

// Sessions returns every recorded session across all projects, oldest
// first.
func (s *Store) Sessions() []model.PomodoroSession {
	var out []model.PomodoroSession
	for _, p := range s.Projects(true) {
		out = append(out, s.Data(p.ID).PomodoroSessions...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out
}

// SessionsBetween filters Sessions to completions in [from, to).
func (s *Store) SessionsBetween(from, to time.Time) []model.PomodoroSession {
	var out []model.PomodoroSession
	for _, ps := range s.Sessions() {
		if !ps.CompletedAt.Before(from) && ps.CompletedAt.Before(to) {
			out = append(out, ps)
		}
	}
	return out
}
