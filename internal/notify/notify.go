// Package notify implements timer side effects on a terminal: the bell
// on completion and the countdown in the window title.
package notify

import (
	"io"
	"sync"

	"github.com/muesli/termenv"

	"github.com/sadopc/focusmine/internal/model"
)

// Terminal writes control sequences to an output stream.
type Terminal struct {
	mu  sync.Mutex
	out *termenv.Output
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: termenv.NewOutput(w)}
}

// SessionCompleted rings the bell.
func (t *Terminal) SessionCompleted(model.SessionKind) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.out.WriteString("\a")
	return err
}

func (t *Terminal) SetTitle(title string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out.SetWindowTitle(title)
	return nil
}
