// Package keyframe implements periodic step timelines: a list of
// timestamped color sets where the most recent keyframe at or before
// the current phase wins.
package keyframe

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"lautenbacher.net/ledanim/led"
)

var (
	ErrEmptyTimeline = errors.New("keyframe timeline is empty")
	ErrNoStartFrame  = errors.New("keyframe timeline has no keyframe at timestamp 0")
)

// Keyframe is a set of colors that becomes active At milliseconds into
// the period.
type Keyframe struct {
	At     int64
	Colors []led.GRB
}

// Timeline holds keyframes ordered by descending timestamp so a lookup
// is a single forward scan.
type Timeline struct {
	frames []Keyframe
	period int64
}

var offFrame = []led.GRB{led.Off}

// NewTimeline validates frames and prepares them for lookup. The
// period is the largest timestamp; a timeline whose only keyframe sits
// at 0 gets period 1. The keyframe holding the largest timestamp marks
// the end of the period and is never displayed. Of several keyframes
// sharing a timestamp the last one listed wins.
func NewTimeline(frames []Keyframe) (*Timeline, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyTimeline
	}
	sorted := make([]Keyframe, len(frames))
	copy(sorted, frames)
	hasStart := false
	for i, f := range sorted {
		if f.At < 0 {
			return nil, fmt.Errorf("keyframe %d has negative timestamp %d", i, f.At)
		}
		if f.At == 0 {
			hasStart = true
		}
	}
	if !hasStart {
		return nil, ErrNoStartFrame
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	slices.Reverse(sorted)

	period := sorted[0].At
	if period == 0 {
		period = 1
	}
	return &Timeline{frames: sorted, period: period}, nil
}

func (tl *Timeline) Period() int64 {
	return tl.period
}

// Lookup returns the colors of the latest keyframe not after t modulo
// the period. The returned slice must not be modified.
func (tl *Timeline) Lookup(t int64) []led.GRB {
	phase := Mod(t, tl.period)
	for _, f := range tl.frames {
		if phase >= f.At {
			return f.Colors
		}
	}
	return offFrame
}

// Mod is the floored modulo: the result has the sign of m.
func Mod(t, m int64) int64 {
	r := t % m
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
