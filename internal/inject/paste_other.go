//go:build !darwin && !linux && !windows

package inject

import (
	"fmt"
	"runtime"
)

func prepareShortcut() {}

func sendPasteShortcut() error {
	return fmt.Errorf("paste shortcut not supported on %s", runtime.GOOS)
}
