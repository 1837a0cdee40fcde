//go:build darwin

package mainthread

/*
#cgo CFLAGS: -x objective-c -mmacosx-version-min=10.14
#cgo LDFLAGS: -framework Foundation

#import <Foundation/Foundation.h>
#include <pthread.h>

static int isMainThread(void) {
    return pthread_main_np();
}

// Runs the main run loop once so main-queue blocks (notification delegate
// callbacks) are delivered.
static void pumpRunLoop(double seconds) {
    @autoreleasepool {
        [[NSRunLoop currentRunLoop] runMode:NSDefaultRunLoopMode
                                 beforeDate:[NSDate dateWithTimeIntervalSinceNow:seconds]];
    }
}
*/
import "C"

const pumpInterval = 0.02

func captureMainThread() {}

// IsMain reports whether the caller runs on the process main thread
func IsMain() bool {
	return C.isMainThread() != 0
}

func serve(done <-chan struct{}) {
	for {
		select {
		case f := <-calls:
			f()
		case <-done:
			return
		default:
			C.pumpRunLoop(C.double(pumpInterval))
		}
	}
}
