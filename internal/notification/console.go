package notification

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleNotifier prints messages for a terminal user
type ConsoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

func (n *ConsoleNotifier) AuthRequired(_ context.Context, message string) {
	n.print(message + " Run with --user <name> to log in.")
}

func (n *ConsoleNotifier) Error(_ context.Context, message string) {
	n.print(message)
}

func (n *ConsoleNotifier) print(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "! %s\n", message)
}
