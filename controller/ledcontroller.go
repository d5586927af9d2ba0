// Package controller maps animations onto LED positions and pushes the
// resulting frame to a sink once per tick.
package controller

import (
	"fmt"
	"log/slog"
	"slices"

	"lautenbacher.net/ledanim/animation"
)

// Binding assigns an animation to a list of LED positions. If an
// animation returns fewer colors than positions, the colors repeat.
type Binding struct {
	Positions []int
	Animation animation.Animation
}

// Sink receives finished frames: three bytes per LED in device order.
// Commit must not retain the frame after returning.
type Sink interface {
	Allocate(ledsTotal int) error
	Commit(frame []byte) error
}

type Controller struct {
	bindings  []Binding
	ledsTotal int
	frame     []byte
	sink      Sink
	clock     Clock
	start     uint32
}

// NewController validates bindings, sizes the frame and allocates the
// sink. A ledsTotal of 0 sizes the chain to the highest bound position.
// The animation clock starts now.
func NewController(bindings []Binding, ledsTotal int, sink Sink, clock Clock) (*Controller, error) {
	if len(bindings) == 0 {
		return nil, configError(-1, "no bindings")
	}
	if ledsTotal < 0 {
		return nil, configError(-1, "negative LED count %d", ledsTotal)
	}

	highest := -1
	for i, b := range bindings {
		if b.Animation == nil {
			return nil, configError(i, "no animation")
		}
		if len(b.Positions) == 0 {
			return nil, configError(i, "no LED positions")
		}
		for _, pos := range b.Positions {
			if pos < 0 {
				return nil, configError(i, "negative LED position %d", pos)
			}
			if ledsTotal > 0 && pos >= ledsTotal {
				return nil, configError(i, "LED position %d outside of chain with %d LEDs", pos, ledsTotal)
			}
			highest = max(highest, pos)
		}
	}
	if ledsTotal == 0 {
		ledsTotal = highest + 1
	}

	if err := sink.Allocate(ledsTotal); err != nil {
		return nil, fmt.Errorf("failed to allocate %d LEDs: %w", ledsTotal, err)
	}

	own := make([]Binding, len(bindings))
	for i, b := range bindings {
		own[i] = Binding{Positions: slices.Clone(b.Positions), Animation: b.Animation}
	}

	slog.Debug("Controller created", "leds", ledsTotal, "bindings", len(own))
	return &Controller{
		bindings:  own,
		ledsTotal: ledsTotal,
		frame:     make([]byte, 3*ledsTotal),
		sink:      sink,
		clock:     clock,
		start:     clock.NowMillis(),
	}, nil
}

func (s *Controller) LedsTotal() int {
	return s.ledsTotal
}

// Elapsed returns the milliseconds since the controller was created.
func (s *Controller) Elapsed() int64 {
	return TicksDiff(s.clock.NowMillis(), s.start)
}

// Tick evaluates every binding at the current elapsed time.
func (s *Controller) Tick(params animation.Params) error {
	return s.TickAt(s.Elapsed(), params)
}

// TickAt evaluates every binding at time t and commits the frame. The
// bindings are applied in order, so a later binding wins on shared
// positions. If an animation fails the frame is not committed.
func (s *Controller) TickAt(t int64, params animation.Params) error {
	for i, b := range s.bindings {
		colors, err := b.Animation.Evaluate(t, params)
		if err != nil {
			return fmt.Errorf("binding %d at %d ms: %w", i, t, err)
		}
		if len(colors) == 0 {
			for _, pos := range b.Positions {
				clear(s.frame[3*pos : 3*pos+3])
			}
			continue
		}
		for j, pos := range b.Positions {
			c := colors[j%len(colors)]
			copy(s.frame[3*pos:3*pos+3], c[:])
		}
	}
	return s.commit()
}

// AllOff blanks every LED and commits immediately.
func (s *Controller) AllOff() error {
	clear(s.frame)
	return s.commit()
}

// Frame returns a copy of the last frame.
func (s *Controller) Frame() []byte {
	return slices.Clone(s.frame)
}

func (s *Controller) commit() error {
	if err := s.sink.Commit(s.frame); err != nil {
		return fmt.Errorf("failed to commit frame: %w", err)
	}
	return nil
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
