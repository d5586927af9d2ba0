package platform

// ws2812Encoder turns a frame in device order into an SPI bit stream.
// Every data bit becomes three SPI bits, 110 for one and 100 for zero,
// so the bus has to run at three times the 800 kHz data rate. A run of
// zero bytes at the end latches the frame.
type ws2812Encoder struct {
	lut        [256][3]byte
	buffer     []byte
	resetBytes int
}

func newWS2812Encoder(ledsTotal, resetBytes int) *ws2812Encoder {
	e := &ws2812Encoder{
		buffer:     make([]byte, 9*ledsTotal+resetBytes),
		resetBytes: resetBytes,
	}
	for v := 0; v < 256; v++ {
		var out uint32
		for i := 7; i >= 0; i-- {
			if (v>>i)&1 == 1 {
				out = out<<3 | 0b110
			} else {
				out = out<<3 | 0b100
			}
		}
		e.lut[v] = [3]byte{byte(out >> 16), byte(out >> 8), byte(out)}
	}
	return e
}

// encode fills and returns the pre-allocated buffer. The result is only
// valid until the next call.
func (e *ws2812Encoder) encode(frame []byte) []byte {
	n := 3 * len(frame)
	out := e.buffer[:n+e.resetBytes]
	for i, v := range frame {
		copy(out[3*i:3*i+3], e.lut[v][:])
	}
	clear(out[n:])
	return out
}
