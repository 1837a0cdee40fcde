//go:build windows

package mainthread

import "golang.org/x/sys/windows"

var mainTID uint32

func captureMainThread() {
	mainTID = windows.GetCurrentThreadId()
}

// IsMain reports whether the caller runs on the process main thread
func IsMain() bool {
	return windows.GetCurrentThreadId() == mainTID
}

func serve(done <-chan struct{}) {
	for serveCalls(done) {
	}
}
