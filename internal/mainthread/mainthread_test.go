package mainthread

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMainOffThread(t *testing.T) {
	// tests run on goroutines other than the locked main goroutine
	assert.False(t, IsMain())
}

func TestCallWithoutRunRunsInline(t *testing.T) {
	var ran bool
	Call(func() { ran = true })
	assert.True(t, ran)
	assert.False(t, Serving())
}

func TestCallServedByLoop(t *testing.T) {
	serving.Store(true)
	defer serving.Store(false)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for serveCalls(done) {
		}
	}()

	var ran bool
	Call(func() { ran = true })
	assert.True(t, ran)

	err := CallErr(func() error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")

	close(done)
	<-stopped
}
