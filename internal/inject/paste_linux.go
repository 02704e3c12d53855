//go:build linux

package inject

import (
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

var (
	keysOnce sync.Once
	keys     keybd_event.KeyBonding
	keysErr  error
)

// prepareShortcut creates the uinput device ahead of the first paste; the
// kernel needs a moment before it delivers events from a new device.
func prepareShortcut() {
	keysOnce.Do(func() {
		keys, keysErr = keybd_event.NewKeyBonding()
		if keysErr != nil {
			return
		}
		time.Sleep(2 * time.Second)
		keys.SetKeys(keybd_event.VK_V)
		keys.HasCTRL(true)
	})
}

// sendPasteShortcut sends Ctrl+V through a virtual uinput keyboard
func sendPasteShortcut() error {
	prepareShortcut()
	if keysErr != nil {
		return keysErr
	}
	return keys.Launching()
}
