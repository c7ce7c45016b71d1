package model

import (
	"errors"
	"time"
)

// ErrInvalid marks input rejected at a boundary before any mutation.
var ErrInvalid = errors.New("invalid input")

type Task struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Completed          bool      `json:"completed"`
	PomodorosCompleted int       `json:"pomodorosCompleted"`
	CreatedAt          time.Time `json:"createdAt"`
}

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProjectStats struct {
	TotalTasks            int       `json:"totalTasks"`
	CompletedTasks        int       `json:"completedTasks"`
	TotalPomodoros        int       `json:"totalPomodoros"`
	TotalTimeSpentMinutes int       `json:"totalTimeSpent"`
	LastActivity          time.Time `json:"lastActivity"`
}

type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color"`
	Emoji       string       `json:"emoji,omitempty"`
	IsFavorite  bool         `json:"isFavorite"`
	IsArchived  bool         `json:"isArchived"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Stats       ProjectStats `json:"stats"`
}

// ProjectData is the partition of records owned by one project.
type ProjectData struct {
	Tasks            []Task            `json:"tasks"`
	Notes            []Note            `json:"notes"`
	TimeBlocks       []TimeBlock       `json:"timeBlocks"`
	LearningGoals    []LearningGoal    `json:"learningGoals"`
	JournalEntries   []JournalEntry    `json:"journalEntries"`
	PomodoroSessions []PomodoroSession `json:"pomodoroSessions"`
}

// PomodoroSession is an immutable record of one completed timer run.
type PomodoroSession struct {
	ID              string      `json:"id"`
	ProjectID       string      `json:"projectId"`
	TaskID          string      `json:"taskId,omitempty"`
	DurationMinutes int         `json:"duration"`
	Kind            SessionKind `json:"type"`
	CompletedAt     time.Time   `json:"completedAt"`
	Notes           string      `json:"notes,omitempty"`
}

type JournalEntry struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Date       time.Time `json:"date"`
	Mood       int       `json:"mood,omitempty"`
	FocusScore int       `json:"focusScore,omitempty"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type GoalType string

const (
	GoalBook          GoalType = "book"
	GoalCourse        GoalType = "course"
	GoalArticle       GoalType = "article"
	GoalVideo         GoalType = "video"
	GoalDocumentation GoalType = "documentation"
	GoalOther         GoalType = "other"
)

var GoalTypes = []GoalType{GoalBook, GoalCourse, GoalArticle, GoalVideo, GoalDocumentation, GoalOther}

func (t GoalType) Valid() bool {
	for _, g := range GoalTypes {
		if t == g {
			return true
		}
	}
	return false
}

type GoalStatus string

const (
	StatusNotStarted GoalStatus = "not-started"
	StatusInProgress GoalStatus = "in-progress"
	StatusPaused     GoalStatus = "paused"
	StatusCompleted  GoalStatus = "completed"
)

var GoalStatuses = []GoalStatus{StatusNotStarted, StatusInProgress, StatusPaused, StatusCompleted}

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

type LearningGoal struct {
	ID                  string            `json:"id"`
	Title               string            `json:"title"`
	Type                GoalType          `json:"type"`
	Description         string            `json:"description,omitempty"`
	TargetDurationHours float64           `json:"targetDuration,omitempty"`
	Deadline            *time.Time        `json:"deadline,omitempty"`
	Status              GoalStatus        `json:"status"`
	Progress            int               `json:"progress"`
	TimeSpentMinutes    int               `json:"timeSpent"`
	Sessions            []LearningSession `json:"sessions"`
	Tags                []string          `json:"tags"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	Notes               string            `json:"notes,omitempty"`
	Resources           []string          `json:"resources,omitempty"`
}

type LearningSession struct {
	ID               string    `json:"id"`
	GoalID           string    `json:"goalId"`
	Date             time.Time `json:"date"`
	DurationMinutes  int       `json:"duration"`
	Notes            string    `json:"notes,omitempty"`
	PomodoroSessions int       `json:"pomodoroSessions,omitempty"`
}

// TimeBlock is one scheduled slot. Date is only set when the block is
// stored flat inside a project partition rather than inside a DayPlan.
type TimeBlock struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	StartTime        string `json:"startTime"`
	DurationMinutes  int    `json:"duration"`
	Description      string `json:"description,omitempty"`
	Color            string `json:"color,omitempty"`
	PomodoroSessions int    `json:"pomodoroSessions,omitempty"`
	Completed        bool   `json:"completed,omitempty"`
	Date             string `json:"date,omitempty"`
}

type DayPlan struct {
	Date   string      `json:"date"`
	Blocks []TimeBlock `json:"blocks"`
}
