package led

// RGB is a color in red/green/blue channel order, each channel 0..255.
type RGB struct {
	Red   byte
	Green byte
	Blue  byte
}

// GRB is a color in the byte order the LED chain expects on the wire.
type GRB [3]byte

// HSL is a color as hue in degrees [0,360) and saturation/lightness
// as percentages [0,100].
type HSL struct {
	Hue        float64
	Saturation float64
	Lightness  float64
}

// ToGRB permutes the channels into device order.
func (s RGB) ToGRB() GRB {
	return GRB{s.Green, s.Red, s.Blue}
}

// ToRGB permutes device order back to red/green/blue.
func (g GRB) ToRGB() RGB {
	return RGB{Red: g[1], Green: g[0], Blue: g[2]}
}

// IsOff reports whether all channels are zero.
func (g GRB) IsOff() bool {
	return g == GRB{}
}

// Scale multiplies every channel by factor, truncating toward zero and
// clamping into 0..255.
func (g GRB) Scale(factor float64) GRB {
	var out GRB
	for i, v := range g {
		out[i] = clampByte(float64(int(factor * float64(v))))
	}
	return out
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
