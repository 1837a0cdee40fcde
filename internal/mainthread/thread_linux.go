//go:build linux

package mainthread

import "golang.org/x/sys/unix"

var mainTID int

func captureMainThread() {
	mainTID = unix.Gettid()
}

// IsMain reports whether the caller runs on the process main thread
func IsMain() bool {
	return unix.Gettid() == mainTID
}

func serve(done <-chan struct{}) {
	for serveCalls(done) {
	}
}
