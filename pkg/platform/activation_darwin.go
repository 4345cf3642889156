//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

int
SetActivationPolicy(int accessory) {
    [NSApp setActivationPolicy:(accessory ? NSApplicationActivationPolicyAccessory : NSApplicationActivationPolicyRegular)];
    return 0;
}
*/
import "C"

// SetBackground hides the dock icon while the clock lives in the tray only,
// and restores it when a window is shown (macOS only).
func SetBackground(background bool) {
	accessory := 0
	if background {
		accessory = 1
	}
	C.SetActivationPolicy(C.int(accessory))
}
