package animation

import (
	"lautenbacher.net/ledanim/keyframe"
	"lautenbacher.net/ledanim/led"
)

// Defaults of the switch style animations.
const (
	DefaultIndicatorInterval = 500
	DefaultIndicatorName     = "indicators"
	DefaultSwitchName        = "switch"
	DefaultDelay             = 2000
	SpeedParam               = "speed"
)

func positive(v int64) int64 {
	if v < 1 {
		return 1
	}
	return v
}

// IndicatorSwitch blinks on for interval ms and off for interval ms
// while the boolean parameter name is true. An unset parameter counts
// as true.
func IndicatorSwitch(on, off led.GRB, interval int64, name string) Func {
	interval = positive(interval)
	onColors, offColors := Colors{on}, Colors{off}
	return func(t int64, params Params) (Colors, error) {
		enabled, err := params.Bool(name, true)
		if err != nil {
			return nil, err
		}
		if enabled && keyframe.Mod(t, 2*interval) < interval {
			return onColors, nil
		}
		return offColors, nil
	}
}

// BrakeLights shows drive while the speed parameter is positive,
// reverse while it is negative and brake when it is zero or unset.
func BrakeLights(drive, brake, reverse led.GRB) Func {
	driveColors, brakeColors, reverseColors := Colors{drive}, Colors{brake}, Colors{reverse}
	return func(t int64, params Params) (Colors, error) {
		speed, err := params.Number(SpeedParam, 0)
		if err != nil {
			return nil, err
		}
		switch {
		case speed < 0:
			return reverseColors, nil
		case speed > 0:
			return driveColors, nil
		}
		return brakeColors, nil
	}
}

// ToggleSwitch shows on while the boolean parameter name is true or
// unset, off otherwise.
func ToggleSwitch(on, off led.GRB, name string) Func {
	onColors, offColors := Colors{on}, Colors{off}
	return func(t int64, params Params) (Colors, error) {
		enabled, err := params.Bool(name, true)
		if err != nil {
			return nil, err
		}
		if enabled {
			return onColors, nil
		}
		return offColors, nil
	}
}

// DelayedSwitch shows on for the first delay ms after the start and
// off afterwards.
func DelayedSwitch(on, off led.GRB, delay int64) Func {
	onColors, offColors := Colors{on}, Colors{off}
	return func(t int64, _ Params) (Colors, error) {
		if t < delay {
			return onColors, nil
		}
		return offColors, nil
	}
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
