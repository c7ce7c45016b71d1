package planner

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/project"
	"github.com/sadopc/focusmine/internal/store"
)

var errUnchanged = errors.New("unchanged")

// Backend stores time blocks grouped by date. Update runs fn on the
// blocks for one date and stores the result; an error from fn aborts
// without writing.
type Backend interface {
	Plans() []model.DayPlan
	Update(date string, fn func([]model.TimeBlock) ([]model.TimeBlock, error)) error
}

// GlobalBackend keeps DayPlans under the day-plans key.
func GlobalBackend(kv store.KV, log *slog.Logger) Backend {
	return &globalBackend{kv: kv, log: log}
}

type globalBackend struct {
	mu  sync.Mutex
	kv  store.KV
	log *slog.Logger
}

func (b *globalBackend) load() []model.DayPlan {
	plans := store.LoadList[model.DayPlan](b.kv, b.log, store.KeyDayPlans)
	for i := range plans {
		plans[i].Blocks = store.Keep(b.log, store.KeyDayPlans, plans[i].Blocks)
		for j := range plans[i].Blocks {
			plans[i].Blocks[j].Date = plans[i].Date
		}
	}
	return plans
}

func (b *globalBackend) Plans() []model.DayPlan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load()
}

func (b *globalBackend) Update(date string, fn func([]model.TimeBlock) ([]model.TimeBlock, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	plans := b.load()
	i := slices.IndexFunc(plans, func(p model.DayPlan) bool { return p.Date == date })
	var current []model.TimeBlock
	if i >= 0 {
		current = plans[i].Blocks
	}
	blocks, err := fn(current)
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	if i < 0 {
		plans = append(plans, model.DayPlan{Date: date, Blocks: blocks})
	} else {
		plans[i].Blocks = blocks
	}
	// Dates live on the plan, not the blocks.
	for i := range plans {
		for j := range plans[i].Blocks {
			plans[i].Blocks[j].Date = ""
		}
	}
	return store.Save(b.kv, store.KeyDayPlans, plans)
}

// ProjectBackend keeps blocks flat in a project partition, each tagged
// with its date, and groups them on read.
func ProjectBackend(projects *project.Store, projectID string) Backend {
	return &projectBackend{projects: projects, id: projectID}
}

type projectBackend struct {
	projects *project.Store
	id       string
}

func (b *projectBackend) Plans() []model.DayPlan {
	var plans []model.DayPlan
	for _, blk := range b.projects.Data(b.id).TimeBlocks {
		i := slices.IndexFunc(plans, func(p model.DayPlan) bool { return p.Date == blk.Date })
		if i < 0 {
			plans = append(plans, model.DayPlan{Date: blk.Date})
			i = len(plans) - 1
		}
		plans[i].Blocks = append(plans[i].Blocks, blk)
	}
	return plans
}

func (b *projectBackend) Update(date string, fn func([]model.TimeBlock) ([]model.TimeBlock, error)) error {
	_, err := b.projects.Mutate(b.id, func(d *model.ProjectData) error {
		var current, rest []model.TimeBlock
		for _, blk := range d.TimeBlocks {
			if blk.Date == date {
				current = append(current, blk)
			} else {
				rest = append(rest, blk)
			}
		}
		blocks, err := fn(current)
		if err != nil {
			return err
		}
		for j := range blocks {
			blocks[j].Date = date
		}
		d.TimeBlocks = append(rest, blocks...)
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}
