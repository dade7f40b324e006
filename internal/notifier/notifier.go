package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Notifier delivers a formatted report somewhere.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// ConsoleNotifier writes messages to W, one block per message.
type ConsoleNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func NewConsoleNotifier(w io.Writer) *ConsoleNotifier { return &ConsoleNotifier{W: w} }

func (c *ConsoleNotifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.W, text)
	return err
}

// Multi fans a message out to every notifier and returns the first error.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, text string) error {
	var first error
	for _, n := range m {
		if err := n.Send(ctx, text); err != nil && first == nil {
			first = err
		}
	}
	return first
}
