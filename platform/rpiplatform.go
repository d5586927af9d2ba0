package platform

import (
	"errors"
	"log/slog"
	"sync"

	c "lautenbacher.net/ledanim/config"
)

// RaspberryPiPlatform drives a WS2812 chain wired to the SPI MOSI pin.
type RaspberryPiPlatform struct {
	*AbstractPlatform
	bus      spiBus
	encoder  *ws2812Encoder
	spiMutex sync.Mutex
}

func NewRaspberryPiPlatform(conf *c.Config) *RaspberryPiPlatform {
	inst := &RaspberryPiPlatform{}
	inst.AbstractPlatform = newAbstractPlatform(conf, inst.rpiDisplayFunc)
	return inst
}

func (s *RaspberryPiPlatform) Start() error {
	bus, err := openSPI(s.config.Hardware)
	if err != nil {
		return err
	}
	s.spiMutex.Lock()
	s.bus = bus
	s.spiMutex.Unlock()
	close(s.readyChan) // For RPi, we are ready immediately.
	return nil
}

// Allocate sizes the frame and the SPI buffer for ledsTotal LEDs.
func (s *RaspberryPiPlatform) Allocate(ledsTotal int) error {
	if err := s.AbstractPlatform.Allocate(ledsTotal); err != nil {
		return err
	}
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	s.encoder = newWS2812Encoder(ledsTotal, s.config.Hardware.ResetBytes)
	return nil
}

func (s *RaspberryPiPlatform) Stop() {
	s.setInShutdown()

	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	if s.bus != nil {
		if err := s.bus.close(); err != nil {
			slog.Error("Error closing spi bus", "error", err)
		}
		s.bus = nil
	}
}

func (s *RaspberryPiPlatform) rpiDisplayFunc() error {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()
	if s.bus == nil || s.encoder == nil {
		return errors.New("spi bus not started")
	}
	var data []byte
	s.withFrame(func(frame []byte) {
		data = s.encoder.encode(frame)
	})
	return s.bus.write(data)
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
