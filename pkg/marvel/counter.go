package marvel

import "sync/atomic"

// RequestCounter counts requests dispatched by a fetcher.
type RequestCounter interface {
	Increment() int64
	Count() int64
	Reset()
}

// AtomicCounter is a RequestCounter safe for concurrent use.
type AtomicCounter struct {
	n atomic.Int64
}

// NewRequestCounter creates a counter starting at zero.
func NewRequestCounter() *AtomicCounter {
	return &AtomicCounter{}
}

// Increment adds one dispatch and returns the new total.
func (c *AtomicCounter) Increment() int64 {
	return c.n.Add(1)
}

// Count returns the number of dispatches since creation or the last Reset.
func (c *AtomicCounter) Count() int64 {
	return c.n.Load()
}

// Reset sets the count back to zero.
func (c *AtomicCounter) Reset() {
	c.n.Store(0)
}

var processCounter = NewRequestCounter()

// ProcessRequestCounter returns the counter shared by every fetcher built
// through the client constructors in this process.
func ProcessRequestCounter() RequestCounter {
	return processCounter
}
