package animation

import (
	"math"

	"lautenbacher.net/ledanim/keyframe"
	"lautenbacher.net/ledanim/led"
)

const (
	DefaultHuePeriod         = 1000
	DefaultPulsePeriod       = 5000
	DefaultKnightRiderPeriod = 2000
	DefaultKnightRiderWidth  = 6
)

// HueShift cycles through the full hue circle at full saturation and
// half lightness once per period.
func HueShift(period, offset int64) Func {
	period = positive(period)
	return func(t int64, _ Params) (Colors, error) {
		phase := keyframe.Mod(t+offset, period)
		hue := float64(phase) / float64(period) * 360
		rgb := led.HSLToRGB(led.HSL{Hue: hue, Saturation: 100, Lightness: 50})
		return Colors{rgb.ToGRB()}, nil
	}
}

// Pulse modulates the brightness of color with a sine wave between
// minPct and maxPct percent.
func Pulse(color led.GRB, period, offset int64, minPct, maxPct float64) Func {
	period = positive(period)
	lo, hi := minPct/100, maxPct/100
	return func(t int64, _ Params) (Colors, error) {
		phase := keyframe.Mod(t+offset, period)
		s := math.Sin(float64(phase) * 2 * math.Pi / float64(period))
		b := (s+1)/2*(hi-lo) + lo
		return Colors{color.Scale(b)}, nil
	}
}

// KnightRider sweeps a gaussian shaped spot of color back and forth
// across width LEDs once per period.
func KnightRider(period int64, width int, color led.GRB) Func {
	period = positive(period)
	if width < 1 {
		width = 1
	}
	return func(t int64, _ Params) (Colors, error) {
		phase := keyframe.Mod(t, period)
		center := 0.5 * (math.Sin(float64(phase)*2*math.Pi/float64(period)) + 1) * float64(width)
		out := make(Colors, width)
		for n := range out {
			d := float64(n) - center
			out[n] = color.Scale(math.Pow(2, -1.5/float64(width)*d*d))
		}
		return out, nil
	}
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
