package inject

import (
	"context"
	"fmt"
	"time"
)

type keystrokePaster struct {
	delay time.Duration
	send  func() error
}

// New creates a paster that sends the platform paste shortcut
// (Cmd+V on macOS, Ctrl+V elsewhere) after waiting delay.
func New(delay time.Duration) Paster {
	go prepareShortcut()
	return &keystrokePaster{
		delay: delay,
		send:  sendPasteShortcut,
	}
}

// Paste waits for the clipboard write to settle, then sends the shortcut.
// Implementation is platform-specific (see paste_darwin.go, paste_linux.go, etc.)
func (p *keystrokePaster) Paste(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay):
		}
	}

	if err := p.send(); err != nil {
		return fmt.Errorf("failed to send paste shortcut: %w", err)
	}
	return nil
}
