// Package clock provides the monotonic time source stamped on request metadata.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock reports monotonic time in nanoseconds. Values are only comparable within
// the process that produced them.
type Clock interface {
	NowNanos() int64
}

// anchor pins the monotonic reading so NowNanos never depends on wall clock adjustments.
var anchor = time.Now()

type system struct{}

func (system) NowNanos() int64 {
	return int64(time.Since(anchor))
}

// System returns the process monotonic clock.
func System() Clock {
	return system{}
}

// Manual is a settable clock for tests.
type Manual struct {
	nanos atomic.Int64
}

// NewManual returns a Manual clock positioned at nanos.
func NewManual(nanos int64) *Manual {
	m := &Manual{}
	m.nanos.Store(nanos)
	return m
}

func (m *Manual) NowNanos() int64 {
	return m.nanos.Load()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.nanos.Add(int64(d))
}

// Since returns the elapsed duration between nanos and the clock's current reading.
func Since(c Clock, nanos int64) time.Duration {
	return time.Duration(c.NowNanos() - nanos)
}
