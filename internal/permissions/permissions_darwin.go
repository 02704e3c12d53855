//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework ApplicationServices -framework Cocoa
#import <ApplicationServices/ApplicationServices.h>
#import <Cocoa/Cocoa.h>

int checkAccessibilityPermission(int prompt) {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: prompt ? @YES : @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import "errors"

// ErrAccessibility means synthesized Cmd+V keystrokes will be dropped.
var ErrAccessibility = errors.New("accessibility permission not granted: System Settings → Privacy & Security → Accessibility")

// CheckAccessibility reports whether the process may post keyboard events
func CheckAccessibility() bool {
	return C.checkAccessibilityPermission(0) == 1
}

// EnsurePermissions shows the system accessibility prompt if needed
func EnsurePermissions() error {
	if C.checkAccessibilityPermission(1) == 1 {
		return nil
	}
	return ErrAccessibility
}
