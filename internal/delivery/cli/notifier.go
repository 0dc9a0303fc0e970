package cli

import (
	"fmt"
	"io"
	"sync"

	"gameplays/internal/domain/service"
)

// Notifier renders transient notifications as terminal lines, standing in
// for the toast popups of a graphical front end.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewNotifier is the constructor for Notifier.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// AsNotifier exposes the notifier under its domain interface for injection.
func AsNotifier(n *Notifier) service.Notifier {
	return n
}

// Success implements service.Notifier.
func (n *Notifier) Success(message string) {
	n.print("ok", message)
}

// Error implements service.Notifier.
func (n *Notifier) Error(message string) {
	n.print("error", message)
}

func (n *Notifier) print(kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	fmt.Fprintf(n.out, "[%s] %s\n", kind, message)
}
