package launcher

import "time"

// Clock is a monotonic millisecond counter since boot.
type Clock interface {
	Millis() int64
}

// SystemClock counts from the moment it was created.
type SystemClock struct {
	boot time.Time
}

// NewSystemClock starts a clock at the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{boot: time.Now()}
}

// Millis returns milliseconds since the clock was created. time.Since uses
// the monotonic reading so wall-clock steps do not affect it.
func (c *SystemClock) Millis() int64 {
	return time.Since(c.boot).Milliseconds()
}
