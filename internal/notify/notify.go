// Package notify prints one-line status messages for CLI commands.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Level is the kind of a notification.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

// Icon returns the marker printed before a message of level l.
func (l Level) Icon() string {
	switch l {
	case Success:
		return "✓"
	case Warning:
		return "⚠"
	case Error:
		return "✗"
	default:
		return "ℹ"
	}
}

// Notifier writes icon-prefixed lines to an output stream. It is safe for
// concurrent use.
type Notifier struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
}

// New creates a Notifier writing to w. A quiet notifier drops Info and
// Success lines and still reports warnings and errors.
func New(w io.Writer, quiet bool) *Notifier {
	return &Notifier{w: w, quiet: quiet}
}

// Notify writes msg at level l.
func (n *Notifier) Notify(l Level, msg string) {
	if n == nil || n.w == nil {
		return
	}
	if n.quiet && (l == Info || l == Success) {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "%s %s\n", l.Icon(), msg)
}

func (n *Notifier) Info(format string, args ...any) {
	n.Notify(Info, fmt.Sprintf(format, args...))
}

func (n *Notifier) Success(format string, args ...any) {
	n.Notify(Success, fmt.Sprintf(format, args...))
}

func (n *Notifier) Warning(format string, args ...any) {
	n.Notify(Warning, fmt.Sprintf(format, args...))
}

func (n *Notifier) Error(format string, args ...any) {
	n.Notify(Error, fmt.Sprintf(format, args...))
}
