// Package learning tracks learning goals and the time logged against
// them.
package learning

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/focusmine/internal/clock"
	"github.com/sadopc/focusmine/internal/model"
)

var ErrNotFound = errors.New("goal not found")

type Tracker struct {
	backend Backend
	clock   clock.Clock
	newID   func() string
}

type Option func(*Tracker)

func WithClock(c clock.Clock) Option { return func(t *Tracker) { t.clock = c } }

func WithIDs(fn func() string) Option { return func(t *Tracker) { t.newID = fn } }

func NewTracker(b Backend, opts ...Option) *Tracker {
	t := &Tracker{backend: b, clock: clock.Real(), newID: uuid.NewString}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Goals() []model.LearningGoal { return t.backend.Goals() }

func (t *Tracker) Goal(id string) (model.LearningGoal, error) {
	goals := t.backend.Goals()
	if i := index(goals, id); i >= 0 {
		return goals[i], nil
	}
	return model.LearningGoal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
}

func index(goals []model.LearningGoal, id string) int {
	return slices.IndexFunc(goals, func(g model.LearningGoal) bool { return g.ID == id })
}

// transform applies fn to one goal and stamps UpdatedAt.
func (t *Tracker) transform(id string, fn func(*model.LearningGoal)) (model.LearningGoal, error) {
	var out model.LearningGoal
	err := t.backend.Update(func(goals []model.LearningGoal) ([]model.LearningGoal, error) {
		i := index(goals, id)
		if i < 0 {
			return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
		}
		fn(&goals[i])
		goals[i].UpdatedAt = t.clock.Now()
		out = goals[i]
		return goals, nil
	})
	return out, err
}

// AddGoal stores a new goal built from draft. Id, timestamps, time
// spent and sessions are assigned here; blank type and status default
// to other and not-started.
func (t *Tracker) AddGoal(draft model.LearningGoal) (model.LearningGoal, error) {
	now := t.clock.Now()
	g := draft
	g.ID = t.newID()
	g.Title = strings.TrimSpace(g.Title)
	if g.Type == "" {
		g.Type = model.GoalOther
	}
	if g.Status == "" {
		g.Status = model.StatusNotStarted
	}
	g.Progress = clamp(g.Progress)
	if g.Progress == 100 {
		g.Status = model.StatusCompleted
	}
	g.TimeSpentMinutes = 0
	g.Sessions = []model.LearningSession{}
	if g.Tags == nil {
		g.Tags = []string{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if err := validateDraft(g); err != nil {
		return model.LearningGoal{}, err
	}

	err := t.backend.Update(func(goals []model.LearningGoal) ([]model.LearningGoal, error) {
		return append([]model.LearningGoal{g}, goals...), nil
	})
	if err != nil {
		return model.LearningGoal{}, err
	}
	return g, nil
}

// SaveGoal replaces the editable fields of an existing goal. Logged
// time, sessions and creation time are kept.
func (t *Tracker) SaveGoal(g model.LearningGoal) (model.LearningGoal, error) {
	g.Title = strings.TrimSpace(g.Title)
	if err := validateDraft(g); err != nil {
		return model.LearningGoal{}, err
	}
	return t.transform(g.ID, func(cur *model.LearningGoal) {
		cur.Title = g.Title
		cur.Type = g.Type
		cur.Description = g.Description
		cur.TargetDurationHours = g.TargetDurationHours
		cur.Deadline = g.Deadline
		cur.Status = g.Status
		cur.Tags = g.Tags
		cur.Notes = g.Notes
		cur.Resources = g.Resources
		setProgress(cur, g.Progress)
	})
}

func validateDraft(g model.LearningGoal) error {
	if g.Title == "" {
		return fmt.Errorf("goal title is required: %w", model.ErrInvalid)
	}
	if !g.Type.Valid() {
		return fmt.Errorf("goal type %q: %w", g.Type, model.ErrInvalid)
	}
	if !g.Status.Valid() {
		return fmt.Errorf("goal status %q: %w", g.Status, model.ErrInvalid)
	}
	if g.TargetDurationHours < 0 {
		return fmt.Errorf("target duration must not be negative: %w", model.ErrInvalid)
	}
	return nil
}

// DeleteGoal removes a goal. Unknown ids are a no-op.
func (t *Tracker) DeleteGoal(id string) error {
	return t.backend.Update(func(goals []model.LearningGoal) ([]model.LearningGoal, error) {
		n := len(goals)
		goals = slices.DeleteFunc(goals, func(g model.LearningGoal) bool { return g.ID == id })
		if len(goals) == n {
			return nil, errUnchanged
		}
		return goals, nil
	})
}

// LogSession appends a session and adds its minutes to the goal's time
// spent. Status and progress are left alone.
func (t *Tracker) LogSession(goalID string, minutes, pomodoros int, notes string) (model.LearningSession, error) {
	if minutes < 1 {
		return model.LearningSession{}, fmt.Errorf("session duration must be positive: %w", model.ErrInvalid)
	}
	if pomodoros < 0 {
		return model.LearningSession{}, fmt.Errorf("pomodoro count must not be negative: %w", model.ErrInvalid)
	}
	sess := model.LearningSession{
		ID:               t.newID(),
		GoalID:           goalID,
		Date:             t.clock.Now(),
		DurationMinutes:  minutes,
		Notes:            strings.TrimSpace(notes),
		PomodoroSessions: pomodoros,
	}
	_, err := t.transform(goalID, func(g *model.LearningGoal) {
		g.Sessions = append(g.Sessions, sess)
		g.TimeSpentMinutes += minutes
	})
	if err != nil {
		return model.LearningSession{}, err
	}
	return sess, nil
}

// SetProgress clamps value to [0, 100]. Reaching 100 completes the goal;
// lowering progress does not reopen it.
func (t *Tracker) SetProgress(goalID string, value int) (model.LearningGoal, error) {
	return t.transform(goalID, func(g *model.LearningGoal) { setProgress(g, value) })
}

func setProgress(g *model.LearningGoal, value int) {
	g.Progress = clamp(value)
	if g.Progress >= 100 {
		g.Status = model.StatusCompleted
	}
}

func clamp(v int) int { return max(0, min(100, v)) }

// MarkCompleted sets status completed and progress 100.
func (t *Tracker) MarkCompleted(goalID string) (model.LearningGoal, error) {
	return t.transform(goalID, func(g *model.LearningGoal) {
		g.Status = model.StatusCompleted
		g.Progress = 100
	})
}

// CycleStatus rotates the goal's status; see NextStatus.
func (t *Tracker) CycleStatus(goalID string) (model.LearningGoal, error) {
	return t.transform(goalID, func(g *model.LearningGoal) { g.Status = NextStatus(g.Status) })
}

// NextStatus is not-started -> in-progress <-> paused, and completed ->
// in-progress. Unknown values restart at in-progress.
func NextStatus(s model.GoalStatus) model.GoalStatus {
	switch s {
	case model.StatusInProgress:
		return model.StatusPaused
	default:
		return model.StatusInProgress
	}
}

// Filter matches query against title, description and tags. Empty type
// or status match everything.
func (t *Tracker) Filter(query string, typ model.GoalType, status model.GoalStatus) []model.LearningGoal {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.LearningGoal
	for _, g := range t.backend.Goals() {
		if typ != "" && g.Type != typ {
			continue
		}
		if status != "" && g.Status != status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(g.Title), q) &&
			!strings.Contains(strings.ToLower(g.Description), q) &&
			!slices.ContainsFunc(g.Tags, func(tag string) bool { return strings.Contains(strings.ToLower(tag), q) }) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// AverageSessionMinutes is the rounded-down mean session length, or 0.
func AverageSessionMinutes(g model.LearningGoal) int {
	if len(g.Sessions) == 0 {
		return 0
	}
	total := 0
	for _, s := range g.Sessions {
		total += s.DurationMinutes
	}
	return total / len(g.Sessions)
}

// Overdue reports an open goal whose deadline has passed.
func Overdue(g model.LearningGoal, now time.Time) bool {
	return g.Deadline != nil && now.After(*g.Deadline) && g.Status != model.StatusCompleted
}
