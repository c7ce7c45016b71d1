// Package planner schedules time blocks on day plans.
package planner

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sadopc/focusmine/internal/model"
)

var ErrNotFound = errors.New("block not found")

type Planner struct {
	backend Backend
	newID   func() string
}

type Option func(*Planner)

func WithIDs(fn func() string) Option { return func(p *Planner) { p.newID = fn } }

func New(b Backend, opts ...Option) *Planner {
	p := &Planner{backend: b, newID: uuid.NewString}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns the plan for date, empty if nothing is scheduled. It
// never writes.
func (p *Planner) Plan(date string) (model.DayPlan, error) {
	if _, err := model.ParseDate(date); err != nil {
		return model.DayPlan{}, err
	}
	for _, plan := range p.backend.Plans() {
		if plan.Date == date {
			plan.Blocks = sorted(plan.Blocks)
			return plan, nil
		}
	}
	return model.DayPlan{Date: date, Blocks: []model.TimeBlock{}}, nil
}

// Plans returns every non-empty plan ordered by date.
func (p *Planner) Plans() []model.DayPlan {
	var out []model.DayPlan
	for _, plan := range p.backend.Plans() {
		if len(plan.Blocks) == 0 {
			continue
		}
		plan.Blocks = sorted(plan.Blocks)
		out = append(out, plan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// UpsertBlock replaces the block with b.ID on date, or appends b when
// the id is new or empty. Start times are normalized to HH:MM.
func (p *Planner) UpsertBlock(date string, b model.TimeBlock) (model.TimeBlock, error) {
	if _, err := model.ParseDate(date); err != nil {
		return model.TimeBlock{}, err
	}
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return model.TimeBlock{}, fmt.Errorf("block title is required: %w", model.ErrInvalid)
	}
	start, err := model.ParseClock(b.StartTime)
	if err != nil {
		return model.TimeBlock{}, err
	}
	b.StartTime = model.FormatClock(start)
	if b.DurationMinutes < 1 {
		return model.TimeBlock{}, fmt.Errorf("block duration must be at least 1 minute: %w", model.ErrInvalid)
	}
	if b.PomodoroSessions < 0 {
		return model.TimeBlock{}, fmt.Errorf("pomodoro count must not be negative: %w", model.ErrInvalid)
	}
	if b.ID == "" {
		b.ID = p.newID()
	}
	b.Date = date

	err = p.backend.Update(date, func(blocks []model.TimeBlock) ([]model.TimeBlock, error) {
		if i := index(blocks, b.ID); i >= 0 {
			blocks[i] = b
		} else {
			blocks = append(blocks, b)
		}
		return sorted(blocks), nil
	})
	if err != nil {
		return model.TimeBlock{}, err
	}
	return b, nil
}

// DeleteBlock removes a block. Unknown ids are a no-op.
func (p *Planner) DeleteBlock(date, id string) error {
	return p.backend.Update(date, func(blocks []model.TimeBlock) ([]model.TimeBlock, error) {
		n := len(blocks)
		blocks = slices.DeleteFunc(blocks, func(b model.TimeBlock) bool { return b.ID == id })
		if len(blocks) == n {
			return nil, errUnchanged
		}
		return blocks, nil
	})
}

// MoveBlock changes only the start time of a block.
func (p *Planner) MoveBlock(date, id, newStart string) (model.TimeBlock, error) {
	plan, err := p.Plan(date)
	if err != nil {
		return model.TimeBlock{}, err
	}
	i := index(plan.Blocks, id)
	if i < 0 {
		return model.TimeBlock{}, fmt.Errorf("block %s on %s: %w", id, date, ErrNotFound)
	}
	b := plan.Blocks[i]
	b.StartTime = newStart
	return p.UpsertBlock(date, b)
}

// ToggleBlock flips a block's completed flag. Unknown ids are a no-op.
func (p *Planner) ToggleBlock(date, id string) error {
	if _, err := model.ParseDate(date); err != nil {
		return err
	}
	return p.backend.Update(date, func(blocks []model.TimeBlock) ([]model.TimeBlock, error) {
		i := index(blocks, id)
		if i < 0 {
			return nil, errUnchanged
		}
		blocks[i].Completed = !blocks[i].Completed
		return blocks, nil
	})
}

func index(blocks []model.TimeBlock, id string) int {
	return slices.IndexFunc(blocks, func(b model.TimeBlock) bool { return b.ID == id })
}

func startMinute(b model.TimeBlock) int {
	m, err := model.ParseClock(b.StartTime)
	if err != nil {
		return 0
	}
	return m
}

// sorted orders blocks by start time, keeping insertion order for ties.
func sorted(blocks []model.TimeBlock) []model.TimeBlock {
	out := slices.Clone(blocks)
	if out == nil {
		out = []model.TimeBlock{}
	}
	sort.SliceStable(out, func(i, j int) bool { return startMinute(out[i]) < startMinute(out[j]) })
	return out
}

// Overlap is a pair of blocks whose time ranges intersect.
type Overlap struct {
	First, Second model.TimeBlock
}

// Overlaps reports intersecting blocks. Overlaps are allowed; this is
// for display only.
func Overlaps(plan model.DayPlan) []Overlap {
	blocks := sorted(plan.Blocks)
	var out []Overlap
	for i := range blocks {
		end := startMinute(blocks[i]) + blocks[i].DurationMinutes
		for j := i + 1; j < len(blocks); j++ {
			if startMinute(blocks[j]) >= end {
				break
			}
			out = append(out, Overlap{First: blocks[i], Second: blocks[j]})
		}
	}
	return out
}

func TotalPlannedMinutes(plan model.DayPlan) int {
	total := 0
	for _, b := range plan.Blocks {
		total += b.DurationMinutes
	}
	return total
}

// CompletedMinutes sums the durations of completed blocks.
func CompletedMinutes(plan model.DayPlan) int {
	total := 0
	for _, b := range plan.Blocks {
		if b.Completed {
			total += b.DurationMinutes
		}
	}
	return total
}
