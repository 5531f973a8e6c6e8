//go:build darwin

// Package platform holds the small pieces of OS glue the firing prompt
// needs: tray-only activation policy and focus control, so an alarm
// window can keep itself in front until resolved.
package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

void setActivationPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}

int isAppActive(void) {
    return [NSApp isActive] ? 1 : 0;
}

void activateApp(void) {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// SetActivationPolicy marks the app as an accessory so it lives in the
// tray without a Dock icon.
func SetActivationPolicy() {
	C.setActivationPolicy()
}

// IsAppActive reports whether the app currently has focus.
func IsAppActive() bool {
	return C.isAppActive() == 1
}

// ActivateApp brings the app in front of whatever holds focus.
func ActivateApp() {
	C.activateApp()
}
