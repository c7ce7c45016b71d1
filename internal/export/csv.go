package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/focusmine/internal/model"
)

var csvHeader = []string{"ID", "Project", "Task", "Kind", "Completed At", "Duration (min)", "Duration", "Notes"}

// ToCSV writes one row per session. Sessions whose project is not in
// projects are labelled Unknown.
func ToCSV(sessions []model.PomodoroSession, projects map[string]model.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range sessions {
		row := []string{
			s.ID,
			projectName(projects, s.ProjectID),
			s.TaskID,
			s.Kind.String(),
			s.CompletedAt.Local().Format(time.RFC3339),
			strconv.Itoa(s.DurationMinutes),
			formatMinutes(s.DurationMinutes),
			s.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func projectName(projects map[string]model.Project, id string) string {
	if p, ok := projects[id]; ok {
		return p.Name
	}
	return "Unknown"
}

func formatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}
