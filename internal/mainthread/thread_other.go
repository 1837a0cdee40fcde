//go:build !darwin && !linux && !windows

package mainthread

func captureMainThread() {}

// IsMain always reports false where the thread identity is not available
func IsMain() bool {
	return false
}

func serve(done <-chan struct{}) {
	for serveCalls(done) {
	}
}
