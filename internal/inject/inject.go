package inject

import "context"

// Clipboard is the system clipboard, plain text only.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// Paster emulates the platform paste shortcut in whichever application
// has input focus. Delivery cannot be confirmed.
type Paster interface {
	Paste(ctx context.Context) error
}
