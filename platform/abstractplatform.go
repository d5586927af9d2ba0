package platform

import (
	"fmt"
	"sync"

	c "lautenbacher.net/ledanim/config"
)

// AbstractPlatform keeps the last committed frame and implements the
// controller.Sink part shared by all platforms. displayFunc is called
// after every commit outside of the frame lock.
type AbstractPlatform struct {
	config         *c.Config
	frameMutex     sync.Mutex
	frame          []byte
	displayFunc    func() error
	readyChan      chan bool
	shutdownMutex  sync.RWMutex
	isShuttingDown bool
}

func newAbstractPlatform(conf *c.Config, displayFunc func() error) *AbstractPlatform {
	return &AbstractPlatform{
		config:      conf,
		displayFunc: displayFunc,
		readyChan:   make(chan bool),
	}
}

func (s *AbstractPlatform) Ready() <-chan bool {
	return s.readyChan
}

func (s *AbstractPlatform) Allocate(ledsTotal int) error {
	if ledsTotal <= 0 {
		return fmt.Errorf("can't allocate %d LEDs", ledsTotal)
	}
	s.frameMutex.Lock()
	defer s.frameMutex.Unlock()
	s.frame = make([]byte, 3*ledsTotal)
	return nil
}

func (s *AbstractPlatform) LedsTotal() int {
	s.frameMutex.Lock()
	defer s.frameMutex.Unlock()
	return len(s.frame) / 3
}

// Commit stores a copy of frame and hands it to the display. Frames
// arriving after Stop began are dropped.
func (s *AbstractPlatform) Commit(frame []byte) error {
	s.shutdownMutex.RLock()
	defer s.shutdownMutex.RUnlock()
	if s.isShuttingDown {
		return nil
	}

	s.frameMutex.Lock()
	if len(frame) != len(s.frame) {
		s.frameMutex.Unlock()
		return fmt.Errorf("frame of %d bytes does not match %d allocated LEDs", len(frame), len(s.frame)/3)
	}
	copy(s.frame, frame)
	s.frameMutex.Unlock()

	return s.displayFunc()
}

// withFrame runs fn with the current frame while holding the lock. fn
// must not retain the slice.
func (s *AbstractPlatform) withFrame(fn func(frame []byte)) {
	s.frameMutex.Lock()
	defer s.frameMutex.Unlock()
	fn(s.frame)
}

func (s *AbstractPlatform) setInShutdown() {
	s.shutdownMutex.Lock()
	s.isShuttingDown = true
	s.shutdownMutex.Unlock()
}
