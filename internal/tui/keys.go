package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start     key.Binding
	Reset     key.Binding
	Mode      key.Binding
	Task      key.Binding
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Toggle    key.Binding
	Activate  key.Binding
	Favorite  key.Binding
	Archive   key.Binding
	Archived  key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Move      key.Binding
	Log       key.Binding
	Progress  key.Binding
	Cycle     key.Binding
	Complete  key.Binding
	Filter    key.Binding
	Search    key.Binding
	Journal   key.Binding
	WriteMD   key.Binding
	WriteText key.Binding
	Export    key.Binding
	Jump      key.Binding
	Tab       key.Binding
	Help      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start/pause"),
	),
	Reset: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reset"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "focus/break"),
	),
	Task: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "attribute task"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle done"),
	),
	Activate: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "set active"),
	),
	Favorite: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "favorite"),
	),
	Archive: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "archive"),
	),
	Archived: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "show archived"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "move down"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Log: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "log session"),
	),
	Progress: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "progress"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cycle status"),
	),
	Complete: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "complete"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Journal: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "notes/journal"),
	),
	WriteMD: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "write .md"),
	),
	WriteText: key.NewBinding(
		key.WithKeys("W"),
		key.WithHelp("W", "write .txt"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Jump: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
		key.WithHelp("1-8", "views"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.New, k.Jump, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Reset, k.Mode, k.Task},
		{k.New, k.Edit, k.Delete, k.Toggle},
		{k.Activate, k.Favorite, k.Archive, k.Archived},
		{k.Log, k.Progress, k.Cycle, k.Complete},
		{k.Search, k.Journal, k.WriteMD, k.Export},
		{k.Jump, k.Tab, k.Up, k.Down, k.Back, k.Quit},
	}
}
