//go:build windows

package inject

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32         = windows.NewLazySystemDLL("user32.dll")
	sendInput      = user32.NewProc("SendInput")
	mapVirtualKeyW = user32.NewProc("MapVirtualKeyW")
)

const (
	inputKeyboard  = 1
	keyeventfKeyup = 0x0002
	mapvkVkToVsc   = 0
	vkControl      = 0x11
	vkV            = 0x56
)

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

func prepareShortcut() {}

// sendPasteShortcut simulates Ctrl+V with scan codes for better compatibility
func sendPasteShortcut() error {
	ctrlScan, _, _ := mapVirtualKeyW.Call(vkControl, mapvkVkToVsc)
	vScan, _, _ := mapVirtualKeyW.Call(vkV, mapvkVkToVsc)

	key := func(vk uint16, scan uintptr, flags uint32) input {
		return input{
			inputType: inputKeyboard,
			ki:        keyboardInput{wVk: vk, wScan: uint16(scan), dwFlags: flags},
		}
	}

	inputs := []input{
		key(vkControl, ctrlScan, 0),
		key(vkV, vScan, 0),
		key(vkV, vScan, keyeventfKeyup),
		key(vkControl, ctrlScan, keyeventfKeyup),
	}

	// Send all inputs at once so nothing interleaves with the chord
	ret, _, err := sendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if ret == 0 {
		return fmt.Errorf("SendInput failed: %w", err)
	}

	time.Sleep(20 * time.Millisecond)
	return nil
}
