package led

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Named colors in device order.
var (
	Orange  = GRB{0x66, 0xfc, 0x03}
	Black   = GRB{0x00, 0x00, 0x00}
	None    = Black
	Off     = Black
	White   = GRB{0xff, 0xff, 0xff}
	Red     = GRB{0x00, 0xff, 0x00}
	DarkRed = GRB{0x00, 0x44, 0x00}
	Blue    = GRB{0x00, 0x00, 0xff}
	Yellow  = GRB{0xff, 0xff, 0x00}
	Green   = GRB{0xff, 0x00, 0x00}
	Cyan    = GRB{0xff, 0x00, 0xff}
	Violet  = GRB{0x7f, 0x7f, 0xff}
	Magenta = GRB{0x00, 0xff, 0xff}
	Gray    = GRB{0x7f, 0x7f, 0x7f}
)

// The same palette in red/green/blue order.
var (
	RGBOrange  = Orange.ToRGB()
	RGBBlack   = Black.ToRGB()
	RGBNone    = None.ToRGB()
	RGBOff     = Off.ToRGB()
	RGBWhite   = White.ToRGB()
	RGBRed     = Red.ToRGB()
	RGBDarkRed = DarkRed.ToRGB()
	RGBBlue    = Blue.ToRGB()
	RGBYellow  = Yellow.ToRGB()
	RGBGreen   = Green.ToRGB()
	RGBCyan    = Cyan.ToRGB()
	RGBViolet  = Violet.ToRGB()
	RGBMagenta = Magenta.ToRGB()
	RGBGray    = Gray.ToRGB()
)

var palette = map[string]GRB{
	"orange":   Orange,
	"black":    Black,
	"none":     None,
	"off":      Off,
	"white":    White,
	"red":      Red,
	"dark_red": DarkRed,
	"darkred":  DarkRed,
	"blue":     Blue,
	"yellow":   Yellow,
	"green":    Green,
	"cyan":     Cyan,
	"violet":   Violet,
	"magenta":  Magenta,
	"gray":     Gray,
	"grey":     Gray,
}

// ParseColor accepts a palette name (case insensitive) or a hex color
// such as "#fc6603" and returns it in device order.
func ParseColor(s string) (GRB, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := palette[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") {
		name = "#" + name
	}
	hex, err := colorful.Hex(name)
	if err != nil {
		return GRB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := hex.RGB255()
	return RGB{Red: r, Green: g, Blue: b}.ToGRB(), nil
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
