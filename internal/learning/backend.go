package learning

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/project"
	"github.com/sadopc/focusmine/internal/store"
)

// errUnchanged lets an update callback skip the write.
var errUnchanged = errors.New("unchanged")

// Backend holds a goal list. Update runs fn on the current goals and
// stores the result; an error from fn aborts without writing.
type Backend interface {
	Goals() []model.LearningGoal
	Update(fn func([]model.LearningGoal) ([]model.LearningGoal, error)) error
}

// GlobalBackend keeps goals under the learning-goals key.
func GlobalBackend(kv store.KV, log *slog.Logger) Backend {
	return &globalBackend{kv: kv, log: log}
}

type globalBackend struct {
	mu  sync.Mutex
	kv  store.KV
	log *slog.Logger
}

func (b *globalBackend) Goals() []model.LearningGoal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return store.LoadList[model.LearningGoal](b.kv, b.log, store.KeyLearningGoals)
}

func (b *globalBackend) Update(fn func([]model.LearningGoal) ([]model.LearningGoal, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	goals, err := fn(store.LoadList[model.LearningGoal](b.kv, b.log, store.KeyLearningGoals))
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	return store.Save(b.kv, store.KeyLearningGoals, goals)
}

// ProjectBackend keeps goals in a project partition. Writes go through
// the project store so the project's stats are recomputed.
func ProjectBackend(projects *project.Store, projectID string) Backend {
	return &projectBackend{projects: projects, id: projectID}
}

type projectBackend struct {
	projects *project.Store
	id       string
}

func (b *projectBackend) Goals() []model.LearningGoal {
	return b.projects.Data(b.id).LearningGoals
}

func (b *projectBackend) Update(fn func([]model.LearningGoal) ([]model.LearningGoal, error)) error {
	_, err := b.projects.Mutate(b.id, func(d *model.ProjectData) error {
		goals, err := fn(d.LearningGoals)
		if err != nil {
			return err
		}
		d.LearningGoals = goals
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}
