package store

// Well-known keys. Every value is JSON.
const (
	KeyState         = "focusmine-state"
	KeyLanguage      = "focusmine-language"
	KeyThemeMode     = "focusmine-theme-mode"
	KeyNotes         = "focusmine-notes"
	KeyDayPlans      = "focusmine-day-plans"
	KeyLearningGoals = "focusmine-learning-goals"
	KeyProjects      = "focusmine-projects"
	KeyActiveProject = "focusmine-active-project"

	ProjectDataPrefix = "focusmine-project-"
)

// ProjectDataKey is the partition key for project id.
func ProjectDataKey(id string) string { return ProjectDataPrefix + id }
