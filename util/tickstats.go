package util

import (
	"sync"
	"time"

	"github.com/gammazero/deque"
)

// TickStats keeps the durations of the most recent ticks of the
// animation loop.
type TickStats struct {
	mu     sync.Mutex
	window int
	values deque.Deque[time.Duration]
	sum    time.Duration
	total  uint64
}

func NewTickStats(window int) *TickStats {
	if window < 1 {
		window = 1
	}
	ts := &TickStats{window: window}
	ts.values.Grow(window)
	return ts
}

// Record adds the duration of one tick, dropping the oldest one if the
// window is full.
func (ts *TickStats) Record(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.values.Len() == ts.window {
		ts.sum -= ts.values.PopFront()
	}
	ts.values.PushBack(d)
	ts.sum += d
	ts.total++
}

// TickSummary describes the ticks currently in the window.
type TickSummary struct {
	Count uint64
	Mean  time.Duration
	Max   time.Duration
	Last  time.Duration
}

func (ts *TickStats) Summary() TickSummary {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	n := ts.values.Len()
	if n == 0 {
		return TickSummary{}
	}
	var longest time.Duration
	for i := 0; i < n; i++ {
		longest = max(longest, ts.values.At(i))
	}
	return TickSummary{
		Count: ts.total,
		Mean:  ts.sum / time.Duration(n),
		Max:   longest,
		Last:  ts.values.Back(),
	}
}
