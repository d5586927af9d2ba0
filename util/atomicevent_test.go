package util

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lautenbacher.net/ledanim/config"
)

func received(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestAtomicEvent_ConfigReload(t *testing.T) {
	reloads := NewAtomicEvent[*config.Config]()
	assert.Nil(t, reloads.Value())
	assert.False(t, reloads.HasPending())

	first := &config.Config{ConfigFile: "config.yml", Loop: config.LoopConfig{TickDelay: 20 * time.Millisecond}}
	reloads.Send(first)
	assert.True(t, reloads.HasPending())
	assert.True(t, received(reloads.Channel()))
	assert.Same(t, first, reloads.Value())
	assert.False(t, received(reloads.Channel()), "one notification per pending value")
}

func TestAtomicEvent_BurstOfReloadsKeepsNewest(t *testing.T) {
	reloads := NewAtomicEvent[*config.Config]()

	// an editor saving several times before the loop wakes up
	var last *config.Config
	for i := range 5 {
		last = &config.Config{Params: map[string]any{"generation": i}}
		reloads.Send(last)
	}

	assert.True(t, received(reloads.Channel()))
	assert.False(t, received(reloads.Channel()))
	assert.Same(t, last, reloads.Value())
	assert.Equal(t, 4, reloads.Value().Params["generation"])
}

func TestAtomicEvent_WatcherAndLoop(t *testing.T) {
	reloads := NewAtomicEvent[*config.Config]()
	const generations = 500
	done := make(chan struct{})

	go func() {
		for i := range generations {
			reloads.Send(&config.Config{Hardware: config.HardwareConfig{LedsTotal: i}})
		}
		close(done)
	}()

	applied := -1
	check := func() {
		c := reloads.Value()
		require.NotNil(t, c)
		assert.GreaterOrEqual(t, c.Hardware.LedsTotal, applied, "a reload must never go back in time")
		applied = c.Hardware.LedsTotal
	}
	for running := true; running; {
		select {
		case <-reloads.Channel():
			check()
		case <-done:
			if received(reloads.Channel()) {
				check()
			}
			running = false
		}
	}
	assert.Equal(t, generations-1, reloads.Value().Hardware.LedsTotal)
}

func TestAtomicMapEvent_Parameters(t *testing.T) {
	params := NewAtomicMapEvent[any]()
	assert.Empty(t, params.Value())
	assert.False(t, params.HasPending())

	params.Send("indicators", false)
	params.Send("speed", 10.0)
	params.Send("animation", "police")
	assert.True(t, received(params.Channel()))

	assert.Equal(t, map[string]any{"indicators": false, "speed": 10.0, "animation": "police"}, params.ConsumeValues())
	assert.False(t, params.HasPending())
	assert.Empty(t, params.ConsumeValues())

	params.Send("speed", 20.0)
	params.Send("speed", 30.0)
	assert.Equal(t, map[string]any{"speed": 30.0}, params.ConsumeValues())
	assert.Equal(t, "police", params.Value()["animation"])
}

func TestAtomicMapEvent_ValueKeepsEverything(t *testing.T) {
	ae := NewAtomicMapEvent[any]()
	ae.SendAll(map[string]any{"speed": 0, "headlights": true})
	ae.ConsumeValues()
	ae.Send("speed", 3)

	assert.Equal(t, map[string]any{"speed": 3, "headlights": true}, ae.Value())
	assert.Equal(t, map[string]any{"speed": 3}, ae.ConsumeValues())

	snapshot := ae.Value()
	snapshot["speed"] = 99
	assert.Equal(t, 3, ae.Value()["speed"], "Value must return a copy")
}

func TestAtomicMapEvent_SendAllEmpty(t *testing.T) {
	ae := NewAtomicMapEvent[any]()
	ae.SendAll(nil)
	assert.False(t, ae.HasPending())
}

func TestAtomicMapEvent_Update(t *testing.T) {
	ae := NewAtomicMapEvent[any]()
	toggle := func(old any, ok bool) any {
		b, _ := old.(bool)
		return !b
	}

	assert.Equal(t, true, ae.Update("headlights", toggle))
	assert.Equal(t, false, ae.Update("headlights", toggle))
	assert.True(t, ae.HasPending())
	assert.Equal(t, map[string]any{"headlights": false}, ae.ConsumeValues())
}

// Key presses, the night source and config reloads all write while the
// animation loop consumes the changes.
func TestAtomicMapEvent_SourcesAndLoop(t *testing.T) {
	params := NewAtomicMapEvent[any]()
	const sources = 8
	const writes = 100

	var writers sync.WaitGroup
	writers.Add(sources)
	for s := range sources {
		go func() {
			defer writers.Done()
			for i := range writes {
				params.Send(fmt.Sprintf("source%d-param%d", s, i), i%2 == 0)
			}
		}()
	}

	changed := make(map[string]any)
	stop := make(chan struct{})
	var loop sync.WaitGroup
	loop.Add(1)
	go func() {
		defer loop.Done()
		for {
			select {
			case <-params.Channel():
				for k, v := range params.ConsumeValues() {
					if _, seen := changed[k]; seen {
						t.Errorf("parameter %s reported twice", k)
					}
					changed[k] = v
				}
			case <-stop:
				for k, v := range params.ConsumeValues() {
					changed[k] = v
				}
				return
			}
		}
	}()

	writers.Wait()
	close(stop)
	loop.Wait()

	assert.Len(t, changed, sources*writes)
	assert.Len(t, params.Value(), sources*writes)
}
