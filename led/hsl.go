package led

import "math"

// hueToRGB maps a normalized hue in [0,1] to the three unit channel
// contributions before saturation and lightness are applied.
func hueToRGB(h float64) (float64, float64, float64) {
	r := math.Abs(h*6-3) - 1
	g := 2 - math.Abs(h*6-2)
	b := 2 - math.Abs(h*6-4)
	return saturate(r), saturate(g), saturate(b)
}

func saturate(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// HSLToRGB converts hue [0,360), saturation and lightness [0,100] into
// an RGB color. Out of range inputs are not rejected; every channel is
// clamped into 0..255.
func HSLToRGB(c HSL) RGB {
	h := c.Hue / 360
	s := c.Saturation / 100
	l := c.Lightness / 100

	r, g, b := hueToRGB(h)
	chroma := (1 - math.Abs(2*l-1)) * s
	toByte := func(x float64) byte {
		return clampByte(math.RoundToEven(((x-0.5)*chroma + l) * 255))
	}
	return RGB{Red: toByte(r), Green: toByte(g), Blue: toByte(b)}
}

// RGBToHSL is the inverse of HSLToRGB up to rounding. All components
// are rounded to whole numbers and achromatic colors report hue 0 and
// saturation 0.
func RGBToHSL(c RGB) HSL {
	r := float64(c.Red) / 255
	g := float64(c.Green) / 255
	b := float64(c.Blue) / 255

	high := math.Max(r, math.Max(g, b))
	low := math.Min(r, math.Min(g, b))
	l := (high + low) / 2
	var h, s float64

	if high != low {
		d := high - low
		if l > 0.5 {
			s = d / (2 - high - low)
		} else {
			s = d / (high + low)
		}
		switch high {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	hue := math.RoundToEven(h * 360)
	if hue >= 360 {
		hue = 0
	}
	return HSL{
		Hue:        hue,
		Saturation: math.RoundToEven(s * 100),
		Lightness:  math.RoundToEven(l * 100),
	}
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
