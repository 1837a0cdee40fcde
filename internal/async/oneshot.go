// Package async bridges callback-style native completions to blocking calls.
package async

import (
	"context"
	"sync"

	"github.com/ariel-frischer/usernotify/pkg/notify"
)

// Oneshot carries exactly one result from a completion callback to a waiter.
// Complete may be called from any goroutine; only the first call counts.
type Oneshot[T any] struct {
	once   sync.Once
	done   chan struct{}
	result T
	err    error
}

// NewOneshot returns an unresolved bridge
func NewOneshot[T any]() *Oneshot[T] {
	return &Oneshot[T]{done: make(chan struct{})}
}

// Complete resolves the bridge. Later calls are ignored.
func (o *Oneshot[T]) Complete(result T, err error) {
	o.once.Do(func() {
		o.result = result
		o.err = err
		close(o.done)
	})
}

// Abandon resolves the bridge with ErrChannelClosed, for native callbacks
// that were released without firing
func (o *Oneshot[T]) Abandon() {
	var zero T
	o.Complete(zero, notify.ErrChannelClosed)
}

// Done is closed once the bridge resolves
func (o *Oneshot[T]) Done() <-chan struct{} {
	return o.done
}

// Await blocks until the bridge resolves or ctx is done
func (o *Oneshot[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.result, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
