// Package platform contains the sinks frames are pushed to: a terminal
// simulation and a WS2812 chain on a Raspberry Pi SPI bus.
package platform

import "lautenbacher.net/ledanim/controller"

// Platform abstracts the real hardware from the TUI simulation.
type Platform interface {
	controller.Sink

	// Start initializes the platform (e.g., opens SPI, or starts the TUI).
	Start() error

	// Stop cleans up all platform resources.
	Stop()

	// Ready is closed once the platform accepts frames.
	Ready() <-chan bool
}
