package controller

import "time"

// Clock is a free running millisecond counter that may wrap around.
type Clock interface {
	NowMillis() uint32
}

// SystemClock counts milliseconds since its creation using the
// monotonic clock.
type SystemClock struct {
	origin time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

func (c *SystemClock) NowMillis() uint32 {
	return uint32(time.Since(c.origin).Milliseconds())
}

// TicksDiff returns the milliseconds from start to now, correct across
// one wrap of the counter.
func TicksDiff(now, start uint32) int64 {
	return int64(now - start)
}
