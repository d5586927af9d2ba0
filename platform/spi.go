package platform

import (
	"fmt"
	"log/slog"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	c "lautenbacher.net/ledanim/config"
)

// spiBus is the write side of an SPI master.
type spiBus interface {
	write(data []byte) error
	close() error
}

func openSPI(conf c.HardwareConfig) (spiBus, error) {
	switch conf.GPIOLibrary {
	case c.GPIOLibRpio:
		return openRpioBus(conf.SPIFrequency)
	case c.GPIOLibPeriph, "":
		return openPeriphBus(conf.SPIDevice, conf.SPIFrequency)
	}
	return nil, fmt.Errorf("unknown GPIO library: %s", conf.GPIOLibrary)
}

type periphBus struct {
	port spi.PortCloser
	conn spi.Conn
	read []byte
}

func openPeriphBus(device string, frequency int) (*periphBus, error) {
	slog.Info("Initialise SPI via periph.io", "device", device, "frequency", frequency)
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to init periph: %w", err)
	}
	port, err := spireg.Open(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi %s: %w", device, err)
	}
	conn, err := port.Connect(physic.Frequency(frequency)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect to spi device: %w", err)
	}
	return &periphBus{port: port, conn: conn}, nil
}

func (b *periphBus) write(data []byte) error {
	if cap(b.read) < len(data) {
		b.read = make([]byte, len(data))
	}
	return b.conn.Tx(data, b.read[:len(data)])
}

func (b *periphBus) close() error {
	return b.port.Close()
}

// rpioBus talks to /dev/mem directly. SpiExchange overwrites its
// argument with the bytes read, so data is copied first.
type rpioBus struct {
	buffer []byte
}

func openRpioBus(frequency int) (*rpioBus, error) {
	slog.Info("Initialise SPI via go-rpio", "frequency", frequency)
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open rpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("failed to begin spi: %w", err)
	}
	rpio.SpiSpeed(frequency)
	return &rpioBus{}, nil
}

func (b *rpioBus) write(data []byte) error {
	b.buffer = append(b.buffer[:0], data...)
	rpio.SpiExchange(b.buffer)
	return nil
}

func (b *rpioBus) close() error {
	rpio.SpiEnd(rpio.Spi0)
	return rpio.Close()
}
