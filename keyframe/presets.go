package keyframe

import "lautenbacher.net/ledanim/led"

func half(left, right led.GRB) []led.GRB {
	return []led.GRB{left, left, left, right, right, right}
}

var dark = half(led.Off, led.Off)

// Emergency1 flashes the left three of six LEDs red three times, then
// the right three blue three times. The period is 1100 ms.
var Emergency1 = []Keyframe{
	{At: 0, Colors: half(led.Red, led.Off)},
	{At: 150, Colors: dark},
	{At: 200, Colors: half(led.Red, led.Off)},
	{At: 350, Colors: dark},
	{At: 400, Colors: half(led.Red, led.Off)},
	{At: 450, Colors: dark},
	{At: 500, Colors: half(led.Off, led.Blue)},
	{At: 650, Colors: dark},
	{At: 700, Colors: half(led.Off, led.Blue)},
	{At: 850, Colors: dark},
	{At: 900, Colors: half(led.Off, led.Blue)},
	{At: 1050, Colors: dark},
	{At: 1100, Colors: dark},
}

// KnightRiderFrames generates the keyframes of a red scanner across
// width LEDs: a bright head with a fading tail sweeps to the right end
// and back within period milliseconds. Widths below 2 are raised to 2.
// Beyond 256 LEDs the tail fades by one step per LED and the rest of
// the strip stays dark.
func KnightRiderFrames(period int64, width int) []Keyframe {
	if width < 2 {
		width = 2
	}
	if period < 1 {
		period = 1
	}
	step := max(1, 255/(width-1))
	strip := make([]int, width, width+256/step+1)
	for v := 0; v <= 255; v += step {
		strip = append(strip, v)
	}
	reversed := make([]int, len(strip))
	for i, v := range strip {
		reversed[len(strip)-1-i] = v
	}

	size := len(strip)
	steps := 2 * width
	frames := make([]Keyframe, 0, steps+1)
	for n := 0; n <= steps; n++ {
		colors := make([]led.GRB, width)
		for i := range colors {
			// strip rotated right by n, reversed strip rotated left by n
			right := strip[Mod(int64(i-n), int64(size))]
			left := reversed[(i+n)%size]
			colors[i] = led.GRB{0, byte(max(right, left)), 0}
		}
		frames = append(frames, Keyframe{At: period * int64(n) / int64(steps), Colors: colors})
	}
	return frames
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
