package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day-plan key format.
const DateLayout = "2006-01-02"

// DateKey formats t as a day-plan key in t's location.
func DateKey(t time.Time) string { return t.Format(DateLayout) }

// ParseDate validates a YYYY-MM-DD key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, ErrInvalid)
	}
	return t, nil
}

// ParseClock parses an H:MM or HH:MM 24-hour time into minutes past
// midnight, in [0, 1440).
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("start time %q: %w", s, ErrInvalid)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes past midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Slug lowercases title and joins alphanumeric runs with dashes.
func Slug(title string) string {
	if strings.TrimSpace(title) == "" {
		title = "untitled"
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "untitled"
	}
	return s
}

func missing(field string) error {
	return fmt.Errorf("%s is required: %w", field, ErrInvalid)
}

func (t Task) Validate() error {
	if t.ID == "" {
		return missing("task id")
	}
	if t.PomodorosCompleted < 0 {
		return fmt.Errorf("task %s: negative pomodoro count: %w", t.ID, ErrInvalid)
	}
	return nil
}

func (n Note) Validate() error {
	if n.ID == "" {
		return missing("note id")
	}
	return nil
}

func (p Project) Validate() error {
	if p.ID == "" {
		return missing("project id")
	}
	if strings.TrimSpace(p.Name) == "" {
		return missing("project name")
	}
	return nil
}

func (s PomodoroSession) Validate() error {
	if s.ID == "" {
		return missing("session id")
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("session %s: unknown kind %q: %w", s.ID, s.Kind, ErrInvalid)
	}
	if s.DurationMinutes < 0 {
		return fmt.Errorf("session %s: negative duration: %w", s.ID, ErrInvalid)
	}
	return nil
}

func (e JournalEntry) Validate() error {
	if e.ID == "" {
		return missing("journal entry id")
	}
	if e.Mood < 0 || e.Mood > 5 || e.FocusScore < 0 || e.FocusScore > 5 {
		return fmt.Errorf("journal entry %s: scores must be 1-5: %w", e.ID, ErrInvalid)
	}
	return nil
}

func (g LearningGoal) Validate() error {
	if g.ID == "" {
		return missing("goal id")
	}
	if !g.Type.Valid() {
		return fmt.Errorf("goal %s: unknown type %q: %w", g.ID, g.Type, ErrInvalid)
	}
	if !g.Status.Valid() {
		return fmt.Errorf("goal %s: unknown status %q: %w", g.ID, g.Status, ErrInvalid)
	}
	if g.Progress < 0 || g.Progress > 100 {
		return fmt.Errorf("goal %s: progress %d out of range: %w", g.ID, g.Progress, ErrInvalid)
	}
	return nil
}

func (b TimeBlock) Validate() error {
	if b.ID == "" {
		return missing("block id")
	}
	if _, err := ParseClock(b.StartTime); err != nil {
		return err
	}
	if b.DurationMinutes < 1 {
		return fmt.Errorf("block %s: duration must be positive: %w", b.ID, ErrInvalid)
	}
	return nil
}

func (p DayPlan) Validate() error {
	_, err := ParseDate(p.Date)
	return err
}
