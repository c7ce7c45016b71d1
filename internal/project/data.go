package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/store"
)

// errUnchanged lets a Mutate callback skip the write.
var errUnchanged = errors.New("unchanged")

// ComputeStats derives a project's stats from its partition. It is the
// only writer of model.ProjectStats.
func ComputeStats(d model.ProjectData, now time.Time) model.ProjectStats {
	st := model.ProjectStats{
		TotalTasks:   len(d.Tasks),
		LastActivity: now,
	}
	for _, t := range d.Tasks {
		if t.Completed {
			st.CompletedTasks++
		}
	}
	for _, ps := range d.PomodoroSessions {
		if ps.Kind == model.Focus {
			st.TotalPomodoros++
		}
		st.TotalTimeSpentMinutes += ps.DurationMinutes
	}
	return st
}

// Data returns the partition for id, or an empty one. It never writes.
func (s *Store) Data(id string) model.ProjectData {
	key := store.ProjectDataKey(id)
	d := store.Load(s.kv, s.log, key, model.ProjectData{})
	return model.ProjectData{
		Tasks:            store.Keep(s.log, key, d.Tasks),
		Notes:            store.Keep(s.log, key, d.Notes),
		TimeBlocks:       store.Keep(s.log, key, d.TimeBlocks),
		LearningGoals:    store.Keep(s.log, key, d.LearningGoals),
		JournalEntries:   store.Keep(s.log, key, d.JournalEntries),
		PomodoroSessions: store.Keep(s.log, key, d.PomodoroSessions),
	}
}

// DataPatch replaces whole collections. Nil fields are left as stored.
type DataPatch struct {
	Tasks            *[]model.Task
	Notes            *[]model.Note
	TimeBlocks       *[]model.TimeBlock
	LearningGoals    *[]model.LearningGoal
	JournalEntries   *[]model.JournalEntry
	PomodoroSessions *[]model.PomodoroSession
}

func (p DataPatch) Apply(d model.ProjectData) model.ProjectData {
	if p.Tasks != nil {
		d.Tasks = *p.Tasks
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.TimeBlocks != nil {
		d.TimeBlocks = *p.TimeBlocks
	}
	if p.LearningGoals != nil {
		d.LearningGoals = *p.LearningGoals
	}
	if p.JournalEntries != nil {
		d.JournalEntries = *p.JournalEntries
	}
	if p.PomodoroSessions != nil {
		d.PomodoroSessions = *p.PomodoroSessions
	}
	return d
}

// UpdateData merges patch into the stored partition, writes it and
// recomputes the project's stats in the same transaction.
func (s *Store) UpdateData(id string, patch DataPatch) (model.Project, error) {
	return s.Mutate(id, func(d *model.ProjectData) error {
		*d = patch.Apply(*d)
		return nil
	})
}

// Mutate runs fn on the current partition under the project's lock and
// commits the result. An error from fn aborts without writing.
func (s *Store) Mutate(id string, fn func(*model.ProjectData) error) (model.Project, error) {
	unlock := s.lock(id)
	defer unlock()

	p, err := s.Project(id)
	if err != nil {
		return model.Project{}, err
	}
	d := s.Data(id)
	if err := fn(&d); err != nil {
		if errors.Is(err, errUnchanged) {
			return p, nil
		}
		return model.Project{}, err
	}
	return s.commit(id, d)
}

// Recompute rederives stats from the persisted partition and stores
// them. Running it twice on unchanged data yields the same stats apart
// from LastActivity.
func (s *Store) Recompute(id string) (model.Project, error) {
	unlock := s.lock(id)
	defer unlock()

	s.listMu.Lock()
	defer s.listMu.Unlock()
	projects := s.loadProjects()
	i := find(projects, id)
	if i < 0 {
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	projects[i].Stats = ComputeStats(s.Data(id), s.clock.Now())
	if err := store.Save(s.kv, store.KeyProjects, projects); err != nil {
		return model.Project{}, fmt.Errorf("recompute stats: %w", err)
	}
	return projects[i], nil
}

func validateData(d model.ProjectData) error {
	var records []store.Validator
	for _, v := range d.Tasks {
		records = append(records, v)
	}
	for _, v := range d.Notes {
		records = append(records, v)
	}
	for _, v := range d.TimeBlocks {
		records = append(records, v)
	}
	for _, v := range d.LearningGoals {
		records = append(records, v)
	}
	for _, v := range d.JournalEntries {
		records = append(records, v)
	}
	for _, v := range d.PomodoroSessions {
		records = append(records, v)
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// commit must be called with the project's lock held.
func (s *Store) commit(id string, d model.ProjectData) (model.Project, error) {
	if err := validateData(d); err != nil {
		return model.Project{}, err
	}
	d = normalize(d)

	s.listMu.Lock()
	defer s.listMu.Unlock()
	projects := s.loadProjects()
	i := find(projects, id)
	if i < 0 {
		return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	now := s.clock.Now()
	projects[i].Stats = ComputeStats(d, now)
	projects[i].UpdatedAt = now

	dataOp, err := store.Encode(store.ProjectDataKey(id), d)
	if err != nil {
		return model.Project{}, err
	}
	listOp, err := store.Encode(store.KeyProjects, projects)
	if err != nil {
		return model.Project{}, err
	}
	if err := s.kv.Apply(dataOp, listOp); err != nil {
		return model.Project{}, fmt.Errorf("update project data: %w", err)
	}
	return projects[i], nil
}

// normalize replaces nil collections so the stored JSON always holds
// arrays.
func normalize(d model.ProjectData) model.ProjectData {
	if d.Tasks == nil {
		d.Tasks = []model.Task{}
	}
	if d.Notes == nil {
		d.Notes = []model.Note{}
	}
	if d.TimeBlocks == nil {
		d.TimeBlocks = []model.TimeBlock{}
	}
	if d.LearningGoals == nil {
		d.LearningGoals = []model.LearningGoal{}
	}
	if d.JournalEntries == nil {
		d.JournalEntries = []model.JournalEntry{}
	}
	if d.PomodoroSessions == nil {
		d.PomodoroSessions = []model.PomodoroSession{}
	}
	return d
}
