package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusmine/internal/export"
	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/project"
)

type notesModel struct {
	deps   *Deps
	width  int
	height int

	projectName string
	notes       []model.Note
	journal     []model.JournalEntry
	cursor      int
	query       string
	journalMode bool

	form *formState
}

func newNotesModel(d *Deps) notesModel {
	return notesModel{deps: d, form: &formState{}}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

type notesDataMsg struct {
	projectName string
	notes       []model.Note
	journal     []model.JournalEntry
}

type noteSearchMsg struct {
	query string
}

func (n notesModel) refresh() tea.Cmd {
	deps, query := n.deps, n.query
	return func() tea.Msg {
		id := deps.Projects.Current()
		msg := notesDataMsg{projectName: tr(deps.lang, "Inbox")}
		if p, err := deps.Projects.Project(id); err == nil {
			msg.projectName = p.Name
		}
		msg.notes = deps.Projects.SearchNotes(id, query)
		msg.journal = deps.Projects.Data(id).JournalEntries
		return msg
	}
}

// currentProject resolves where new records go, creating the inbox on
// first use.
func currentProject(s *project.Store) (string, error) {
	id := s.Current()
	if id == project.InboxID {
		if _, err := s.EnsureInbox(); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (n notesModel) run(what string, fn func(projectID string) error) tea.Cmd {
	store := n.deps.Projects
	refresh := n.refresh()
	return func() tea.Msg {
		id, err := currentProject(store)
		if err == nil {
			err = fn(id)
		}
		if err != nil {
			return errorStatus(what, err)
		}
		return refresh()
	}
}

func (n notesModel) size() int {
	if n.journalMode {
		return len(n.journal)
	}
	return len(n.notes)
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case notesDataMsg:
		n.projectName = msg.projectName
		n.notes = msg.notes
		n.journal = msg.journal
		n.cursor = clampCursor(n.cursor, n.size())
		return n, nil
	case noteSearchMsg:
		n.query = msg.query
		n.cursor = 0
		return n, n.refresh()
	}

	if n.form.active() {
		return n, n.form.update(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return n, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		if n.cursor > 0 {
			n.cursor--
		}
		return n, nil
	case key.Matches(keyMsg, keys.Down):
		if n.cursor < n.size()-1 {
			n.cursor++
		}
		return n, nil
	case key.Matches(keyMsg, keys.Journal):
		n.journalMode = !n.journalMode
		n.cursor = 0
		return n, nil
	}

	if n.journalMode {
		return n.updateJournal(keyMsg)
	}
	return n.updateNotes(keyMsg)
}

func (n notesModel) updateNotes(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	var note model.Note
	hasNote := n.cursor < len(n.notes)
	if hasNote {
		note = n.notes[n.cursor]
	}

	switch {
	case key.Matches(msg, keys.Search):
		return n, n.showSearchForm()
	case key.Matches(msg, keys.New):
		return n, n.showNoteForm(nil)
	case key.Matches(msg, keys.Edit):
		if hasNote {
			return n, n.showNoteForm(&note)
		}
	case key.Matches(msg, keys.Delete):
		if hasNote {
			return n, n.run("Delete note", func(pid string) error {
				return n.deps.Projects.DeleteNote(pid, note.ID)
			})
		}
	case key.Matches(msg, keys.WriteMD):
		if hasNote {
			return n, writeNoteCmd(note, export.Markdown, n.deps.ExportDir)
		}
	case key.Matches(msg, keys.WriteText):
		if hasNote {
			return n, writeNoteCmd(note, export.PlainText, n.deps.ExportDir)
		}
	}
	return n, nil
}

func (n notesModel) updateJournal(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.New):
		return n, n.showJournalForm()
	case key.Matches(msg, keys.Delete):
		if n.cursor < len(n.journal) {
			id := n.journal[n.cursor].ID
			return n, n.run("Delete entry", func(pid string) error {
				return n.deps.Projects.DeleteJournalEntry(pid, id)
			})
		}
	}
	return n, nil
}

func writeNoteCmd(note model.Note, format export.NoteFormat, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := export.WriteNote(note, format, dir)
		if err != nil {
			return errorStatus("Write note", err)
		}
		return statusMsg{text: "Wrote " + path}
	}
}

func (n notesModel) showSearchForm() tea.Cmd {
	query := n.query
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search title, content or tags").Value(&query),
		),
	)
	return n.form.open("Search Notes", form, func() tea.Cmd {
		return func() tea.Msg { return noteSearchMsg{query: strings.TrimSpace(query)} }
	})
}

func (n notesModel) showNoteForm(existing *model.Note) tea.Cmd {
	var note model.Note
	formTitle := "New Note"
	if existing != nil {
		note = *existing
		formTitle = "Edit Note"
	}
	title, content, tags := note.Title, note.Content, strings.Join(note.Tags, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&title).Validate(required),
			huh.NewText().Title("Content (markdown)").Value(&content).Lines(8),
			huh.NewInput().Title("Tags (comma separated)").Value(&tags),
		),
	)

	store := n.deps.Projects
	return n.form.open(formTitle, form, func() tea.Cmd {
		return n.run(formTitle, func(pid string) error {
			if existing == nil {
				_, err := store.AddNote(pid, title, content, splitTags(tags))
				return err
			}
			note.Title = title
			note.Content = content
			note.Tags = splitTags(tags)
			_, err := store.SaveNote(pid, note)
			return err
		})
	})
}

func (n notesModel) showJournalForm() tea.Cmd {
	var e model.JournalEntry
	tags := ""
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&e.Title).Validate(required),
			huh.NewText().Title("Entry").Value(&e.Content).Lines(6),
		),
		huh.NewGroup(
			huh.NewSelect[int]().Title("Mood").Options(scoreOptions()...).Value(&e.Mood),
			huh.NewSelect[int]().Title("Focus").Options(scoreOptions()...).Value(&e.FocusScore),
			huh.NewInput().Title("Tags (comma separated)").Value(&tags),
		),
	)

	store := n.deps.Projects
	return n.form.open("New Journal Entry", form, func() tea.Cmd {
		e.Tags = splitTags(tags)
		return n.run("Add journal entry", func(pid string) error {
			_, err := store.AddJournalEntry(pid, e)
			return err
		})
	})
}

func (n notesModel) view() string {
	if n.form.active() {
		return n.form.view(n.width - 4)
	}
	if n.journalMode {
		return n.renderJournal()
	}
	return n.renderNotes()
}

func (n notesModel) renderNotes() string {
	w := n.width - 4
	header := titleStyle.Render(tr(n.deps.lang, "Notes")) + mutedStyle.Render("  "+n.projectName)
	if n.query != "" {
		header += mutedStyle.Render(fmt.Sprintf("  ·  search: %q", n.query))
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	if len(n.notes) == 0 {
		rows = append(rows, mutedStyle.Render("No notes. Press n to write one."))
	}

	listWidth := 34
	var list []string
	for i, note := range n.notes {
		style := normalItemStyle
		if i == n.cursor {
			style = selectedItemStyle
		}
		list = append(list, style.Render(cursorPrefix(i == n.cursor)+truncate(note.Title, listWidth-4)))
	}

	if len(n.notes) > 0 {
		note := n.notes[n.cursor]
		preview := []string{
			accentStyle.Render(note.Title),
			mutedStyle.Render(note.UpdatedAt.Local().Format("Jan 2 15:04")),
		}
		if len(note.Tags) > 0 {
			preview = append(preview, mutedStyle.Render("#"+strings.Join(note.Tags, " #")))
		}
		preview = append(preview, "", export.StripMarkdown(note.Content))

		left := lipgloss.NewStyle().Width(listWidth).Render(strings.Join(list, "\n"))
		right := lipgloss.NewStyle().Width(max(w-listWidth-4, 10)).Render(strings.Join(preview, "\n"))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  r: edit  d: delete  /: search  w: write .md  W: write .txt  v: journal"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (n notesModel) renderJournal() string {
	w := n.width - 4
	header := titleStyle.Render(tr(n.deps.lang, "Journal")) + mutedStyle.Render("  "+n.projectName)

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")

	if len(n.journal) == 0 {
		rows = append(rows, mutedStyle.Render("No journal entries. Press n to add one."))
	}

	for i, e := range n.journal {
		style := normalItemStyle
		if i == n.cursor {
			style = selectedItemStyle
		}
		scores := ""
		if e.Mood > 0 {
			scores += fmt.Sprintf("  mood %d/5", e.Mood)
		}
		if e.FocusScore > 0 {
			scores += fmt.Sprintf("  focus %d/5", e.FocusScore)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s  %s", cursorPrefix(i == n.cursor), e.Date.Local().Format("2006-01-02"), e.Title))+mutedStyle.Render(scores))
		if i == n.cursor && e.Content != "" {
			rows = append(rows, mutedStyle.Render("    "+truncate(e.Content, max(w-8, 10))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new entry  d: delete  v: notes"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// truncate shortens s to at most n runes, marking the cut with "…".
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if n < 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
