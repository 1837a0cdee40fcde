package async

import "sync/atomic"

// Cell is a write-once slot. The zero value is empty and ready to use.
type Cell[T any] struct {
	v atomic.Pointer[T]
}

// Set stores v if the cell is empty and reports whether it did
func (c *Cell[T]) Set(v T) bool {
	return c.v.CompareAndSwap(nil, &v)
}

// Get returns the stored value and whether one was set
func (c *Cell[T]) Get() (T, bool) {
	p := c.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// IsSet reports whether the cell holds a value
func (c *Cell[T]) IsSet() bool {
	return c.v.Load() != nil
}
