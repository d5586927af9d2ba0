// Package daylight keeps a boolean parameter in sync with the local
// night, computed from sunrise and sunset at a fixed location.
package daylight

import (
	"log/slog"
	"sync"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"lautenbacher.net/ledanim/util"
)

// recheck is used when the sun neither rises nor sets on a day.
const recheck = 6 * time.Hour

// State reports whether now lies between sunset and sunrise and when
// that changes next.
func State(latitude, longitude float64, now time.Time) (bool, time.Time) {
	now = now.UTC()
	next := now.Add(24 * time.Hour) // tomorrow
	rise, set := sunrise.SunriseSunset(latitude, longitude, now.Year(), now.Month(), now.Day())
	if rise.IsZero() || set.IsZero() {
		return false, now.Add(recheck)
	}
	switch {
	case now.Before(rise):
		// after midnight but before sunrise
		return true, rise
	case now.Before(set):
		return false, set
	}
	riseNext, _ := sunrise.SunriseSunset(latitude, longitude, next.Year(), next.Month(), next.Day())
	if riseNext.IsZero() {
		return true, now.Add(recheck)
	}
	return true, riseNext
}

// Source sends the night state to a parameter whenever it changes.
type Source struct {
	param     string
	latitude  float64
	longitude float64
	params    *util.AtomicMapEvent[any]
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

func NewSource(param string, latitude, longitude float64, params *util.AtomicMapEvent[any]) *Source {
	return &Source{
		param:     param,
		latitude:  latitude,
		longitude: longitude,
		params:    params,
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
}

// Start sends the current state right away and keeps it updated in the
// background until Stop is called.
func (s *Source) Start() {
	next := s.update()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			timer := time.NewTimer(next.Sub(s.now()) + time.Second)
			select {
			case <-s.stopChan:
				timer.Stop()
				slog.Info("Ending daylight go-routine")
				return
			case <-timer.C:
				next = s.update()
			}
		}
	}()
}

func (s *Source) update() time.Time {
	night, next := State(s.latitude, s.longitude, s.now())
	s.params.Send(s.param, night)
	slog.Info("Daylight state", "param", s.param, "night", night, "until", next)
	return next
}

func (s *Source) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
