package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focusmine/internal/model"
)

type jsonExport struct {
	ExportedAt   string        `json:"exported_at"`
	Count        int           `json:"count"`
	FocusMinutes int           `json:"focus_minutes"`
	Sessions     []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID              string `json:"id"`
	Project         string `json:"project"`
	ProjectID       string `json:"project_id"`
	TaskID          string `json:"task_id,omitempty"`
	Kind            string `json:"kind"`
	CompletedAt     string `json:"completed_at"`
	DurationMinutes int    `json:"duration_minutes"`
	Duration        string `json:"duration"`
	Notes           string `json:"notes,omitempty"`
}

func ToJSON(sessions []model.PomodoroSession, projects map[string]model.Project, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
		Sessions:   []jsonSession{},
	}

	for _, s := range sessions {
		if s.Kind == model.Focus {
			export.FocusMinutes += s.DurationMinutes
		}
		export.Sessions = append(export.Sessions, jsonSession{
			ID:              s.ID,
			Project:         projectName(projects, s.ProjectID),
			ProjectID:       s.ProjectID,
			TaskID:          s.TaskID,
			Kind:            string(s.Kind),
			CompletedAt:     s.CompletedAt.Local().Format(time.RFC3339),
			DurationMinutes: s.DurationMinutes,
			Duration:        formatMinutes(s.DurationMinutes),
			Notes:           s.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
