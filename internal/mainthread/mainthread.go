// Package mainthread pins the main goroutine to the process main thread and
// lets other goroutines run functions there.
//
// Platform notification APIs with thread affinity (the macOS user
// notification center) must be driven from the main thread. A program calls
// Run from main; everything else uses Call.
package mainthread

import (
	"runtime"
	"sync/atomic"
)

var (
	calls   = make(chan func())
	serving atomic.Bool
)

func init() {
	runtime.LockOSThread()
	captureMainThread()
}

// Run runs fn on a new goroutine and serves Call requests on the main thread
// until fn returns. It must be called from main.
func Run(fn func()) {
	done := make(chan struct{})
	serving.Store(true)
	defer serving.Store(false)
	go func() {
		defer close(done)
		fn()
	}()
	serve(done)
}

// Call runs fn on the main thread and waits for it to return. Called on the
// main thread, or when Run is not serving, it runs fn directly.
func Call(fn func()) {
	if IsMain() || !serving.Load() {
		fn()
		return
	}
	finished := make(chan struct{})
	calls <- func() {
		defer close(finished)
		fn()
	}
	<-finished
}

// CallErr is Call for functions that return an error
func CallErr(fn func() error) error {
	var err error
	Call(func() { err = fn() })
	return err
}

// Serving reports whether Run is serving calls
func Serving() bool {
	return serving.Load()
}

func serveCalls(done <-chan struct{}) bool {
	select {
	case f := <-calls:
		f()
		return true
	case <-done:
		return false
	}
}
