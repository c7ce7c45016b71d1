package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/timer"
)

// Notifier adapts timer side effects to the Bubble Tea program. Title
// changes are queued and emitted as tea.SetWindowTitle commands so they
// go through the renderer; the bell is delegated.
type Notifier struct {
	bell timer.Notifier

	mu      sync.Mutex
	pending []tea.Cmd
}

func NewNotifier(bell timer.Notifier) *Notifier {
	return &Notifier{bell: bell}
}

func (n *Notifier) SessionCompleted(kind model.SessionKind) error {
	if n.bell == nil {
		return nil
	}
	return n.bell.SessionCompleted(kind)
}

func (n *Notifier) SetTitle(title string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, tea.SetWindowTitle(title))
	return nil
}

// drain returns the queued commands and clears the queue.
func (n *Notifier) drain() tea.Cmd {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) == 0 {
		return nil
	}
	cmds := n.pending
	n.pending = nil
	return tea.Sequence(cmds...)
}
