// Package project owns projects and their data partitions. Every write
// to a partition recomputes the owning project's cached stats.
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sadopc/focusmine/internal/clock"
	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/store"
)

// ErrNotFound is returned for unknown project, task or note ids on
// single-record operations.
var ErrNotFound = errors.New("not found")

// Colors is the project palette; the first entry is the default.
var Colors = []string{
	"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6",
	"#06b6d4", "#84cc16", "#f97316", "#ec4899", "#6366f1",
}

type Store struct {
	kv    store.KV
	clock clock.Clock
	log   *slog.Logger
	newID func() string

	// listMu guards the project list key. Partition writers take the
	// per-project lock first, then listMu.
	listMu  sync.Mutex
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

type Option func(*Store)

func WithClock(c clock.Clock) Option { return func(s *Store) { s.clock = c } }

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

// WithIDs replaces the uuid generator.
func WithIDs(fn func() string) Option { return func(s *Store) { s.newID = fn } }

func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		clock: clock.Real(),
		log:   slog.Default(),
		newID: uuid.NewString,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock returns the writer mutex for id. Entries are never removed, so
// a deleted id that is created again (the inbox) keeps the same mutex.
func (s *Store) lock(id string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (s *Store) loadProjects() []model.Project {
	return store.LoadList[model.Project](s.kv, s.log, store.KeyProjects)
}

func find(projects []model.Project, id string) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}

// Metadata is the user-editable part of a new project.
type Metadata struct {
	Name        string
	Description string
	Color       string
	Emoji       string
	IsFavorite  bool
}

// Create adds a project at the head of the list. The partition is not
// written until the first data mutation.
func (s *Store) Create(m Metadata) (model.Project, error) {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return model.Project{}, fmt.Errorf("project name is required: %w", model.ErrInvalid)
	}
	color := m.Color
	if color == "" {
		color = Colors[0]
	}

	now := s.clock.Now()
	p := model.Project{
		ID:          s.newID(),
		Name:        name,
		Description: strings.TrimSpace(m.Description),
		Color:       color,
		Emoji:       m.Emoji,
		IsFavorite:  m.IsFavorite,
		CreatedAt:   now,
		UpdatedAt:   now,
		Stats:       model.ProjectStats{LastActivity: now},
	}

	s.listMu.Lock()
	defer s.listMu.Unlock()
	projects := append([]model.Project{p}, s.loadProjects()...)
	if err := store.Save(s.kv, store.KeyProjects, projects); err != nil {
		return model.Project{}, fmt.Errorf("create project: %w", err)
	}
	s.log.Info("project created", "id", p.ID, "name", p.Name)
	return p, nil
}

// Update replaces the stored metadata for p.ID. Cached stats are kept
// and UpdatedAt is taken from p as given.
func (s *Store) Update(p model.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return err
	}

	s.listMu.Lock()
	defer s.listMu.Unlock()
	projects := s.loadProjects()
	i := find(projects, p.ID)
	if i < 0 {
		return fmt.Errorf("project %s: %w", p.ID, ErrNotFound)
	}
	p.Stats = projects[i].Stats
	projects[i] = p
	if err := store.Save(s.kv, store.KeyProjects, projects); err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (s *Store) modify(id string, fn func(*model.Project)) error {
	s.listMu.Lock()
	defer s.listMu.Unlock()
	projects := s.loadProjects()
	i := find(projects, id)
	if i < 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	fn(&projects[i])
	projects[i].UpdatedAt = s.clock.Now()
	return store.Save(s.kv, store.KeyProjects, projects)
}

func (s *Store) Archive(id string, archived bool) error {
	return s.modify(id, func(p *model.Project) { p.IsArchived = archived })
}

func (s *Store) ToggleFavorite(id string) error {
	return s.modify(id, func(p *model.Project) { p.IsFavorite = !p.IsFavorite })
}

// Delete removes the project, its partition and, if it was selected,
// the active selection. Unknown ids are a no-op.
func (s *Store) Delete(id string) error {
	unlock := s.lock(id)
	defer unlock()
	s.listMu.Lock()
	defer s.listMu.Unlock()

	projects := s.loadProjects()
	i := find(projects, id)
	if i < 0 {
		return nil
	}
	projects = append(projects[:i], projects[i+1:]...)

	listOp, err := store.Encode(store.KeyProjects, projects)
	if err != nil {
		return err
	}
	ops := []store.Op{listOp, store.DeleteOp(store.ProjectDataKey(id))}
	if store.LoadActiveProject(s.kv, s.log) == id {
		ops = append(ops, store.DeleteOp(store.KeyActiveProject))
	}
	if err := s.kv.Apply(ops...); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.log.Info("project deleted", "id", id)
	return nil
}

func (s *Store) Project(id string) (model.Project, error) {
	s.listMu.Lock()
	defer s.listMu.Unlock()
	projects := s.loadProjects()
	if i := find(projects, id); i >= 0 {
		return projects[i], nil
	}
	return model.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// Projects lists favorites first, then by most recent activity.
func (s *Store) Projects(includeArchived bool) []model.Project {
	s.listMu.Lock()
	all := s.loadProjects()
	s.listMu.Unlock()

	out := make([]model.Project, 0, len(all))
	for _, p := range all {
		if p.IsArchived && !includeArchived {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFavorite != out[j].IsFavorite {
			return out[i].IsFavorite
		}
		return out[i].Stats.LastActivity.After(out[j].Stats.LastActivity)
	})
	return out
}

// ============================================================
// Active selection
// ============================================================

func (s *Store) SetActive(id string) error {
	if _, err := s.Project(id); err != nil {
		return err
	}
	return store.Save(s.kv, store.KeyActiveProject, id)
}

// Active returns the selected project. A selection pointing at a
// deleted project reports false.
func (s *Store) Active() (model.Project, bool) {
	id := store.LoadActiveProject(s.kv, s.log)
	if id == "" {
		return model.Project{}, false
	}
	p, err := s.Project(id)
	if err != nil {
		return model.Project{}, false
	}
	return p, true
}

func (s *Store) ClearActive() error {
	return s.kv.Delete(store.KeyActiveProject)
}
