// Package scene turns the binding definitions of the configuration
// into controller bindings.
package scene

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lautenbacher.net/ledanim/animation"
	c "lautenbacher.net/ledanim/config"
	"lautenbacher.net/ledanim/controller"
	"lautenbacher.net/ledanim/keyframe"
	"lautenbacher.net/ledanim/led"
)

// Scene is a built set of bindings. Close releases script animations.
type Scene struct {
	Bindings []controller.Binding
	scripts  []*animation.Script
}

// Build creates one binding per definition. Relative script files are
// resolved against baseDir.
func Build(defs []c.BindingConfig, baseDir string) (*Scene, error) {
	s := &Scene{Bindings: make([]controller.Binding, 0, len(defs))}
	for i, def := range defs {
		anim, err := NewAnimation(def.Animation, baseDir)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("binding %d %s: %w", i, def.Name, err)
		}
		if script, ok := anim.(*animation.Script); ok {
			s.scripts = append(s.scripts, script)
		}
		s.Bindings = append(s.Bindings, controller.Binding{Positions: def.Positions(), Animation: anim})
		slog.Debug("Binding created", "name", def.Name, "kind", def.Animation.Kind, "leds", len(def.Positions()))
	}
	return s, nil
}

func (s *Scene) Close() {
	for _, script := range s.scripts {
		script.Close()
	}
	s.scripts = nil
}

// NewAnimation creates the animation described by conf, filling unset
// arguments with the defaults of its kind.
func NewAnimation(conf c.AnimationConfig, baseDir string) (animation.Animation, error) {
	switch conf.Kind {
	case c.KindIndicator:
		on, off, err := colorPair(conf.On, led.Orange, conf.Off, led.Off)
		if err != nil {
			return nil, err
		}
		return animation.IndicatorSwitch(on, off, millis(conf.Interval, animation.DefaultIndicatorInterval),
			name(conf.Param, animation.DefaultIndicatorName)), nil

	case c.KindBrake:
		drive, brake, err := colorPair(conf.Drive, led.DarkRed, conf.Brake, led.Red)
		if err != nil {
			return nil, err
		}
		reverse, err := color(conf.Reverse, led.White)
		if err != nil {
			return nil, err
		}
		return animation.BrakeLights(drive, brake, reverse), nil

	case c.KindSwitch:
		on, off, err := colorPair(conf.On, led.White, conf.Off, led.Off)
		if err != nil {
			return nil, err
		}
		return animation.ToggleSwitch(on, off, name(conf.Param, animation.DefaultSwitchName)), nil

	case c.KindDelayed:
		on, off, err := colorPair(conf.On, led.Red, conf.Off, led.Off)
		if err != nil {
			return nil, err
		}
		return animation.DelayedSwitch(on, off, millis(conf.Delay, animation.DefaultDelay)), nil

	case c.KindHueShift:
		return animation.HueShift(millis(conf.Period, animation.DefaultHuePeriod), conf.Offset.Milliseconds()), nil

	case c.KindPulse:
		col, err := color(conf.Color, led.White)
		if err != nil {
			return nil, err
		}
		maxPct := 100.0
		if conf.MaxPct != nil {
			maxPct = *conf.MaxPct
		}
		return animation.Pulse(col, millis(conf.Period, animation.DefaultPulsePeriod), conf.Offset.Milliseconds(),
			conf.MinPct, maxPct), nil

	case c.KindKnightRider:
		col, err := color(conf.Color, led.Red)
		if err != nil {
			return nil, err
		}
		return animation.KnightRider(millis(conf.Period, animation.DefaultKnightRiderPeriod), width(conf.Width), col), nil

	case c.KindKeyframes:
		frames, err := keyframes(conf)
		if err != nil {
			return nil, err
		}
		return animation.Keyframes(frames)

	case c.KindSelector:
		timelines := make(map[string][]keyframe.Keyframe, len(conf.Timelines))
		for key, defs := range conf.Timelines {
			frames, err := convertFrames(defs)
			if err != nil {
				return nil, fmt.Errorf("timeline %s: %w", key, err)
			}
			timelines[key] = frames
		}
		return animation.KeyframesBySelector(timelines, name(conf.Param, animation.DefaultSelectorName))

	case c.KindScript:
		source := conf.Script
		label := "inline"
		if conf.ScriptFile != "" {
			path := conf.ScriptFile
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("can't read script: %w", err)
			}
			source, label = string(data), filepath.Base(path)
		}
		return animation.NewScript(label, source)
	}
	return nil, fmt.Errorf("unknown animation kind %q", conf.Kind)
}

func keyframes(conf c.AnimationConfig) ([]keyframe.Keyframe, error) {
	switch conf.Preset {
	case "":
		return convertFrames(conf.Frames)
	case c.PresetEmergency1:
		return keyframe.Emergency1, nil
	case c.PresetKnightRider:
		return keyframe.KnightRiderFrames(millis(conf.Period, animation.DefaultKnightRiderPeriod), width(conf.Width)), nil
	}
	return nil, fmt.Errorf("unknown keyframe preset %q", conf.Preset)
}

func convertFrames(defs []c.KeyframeConfig) ([]keyframe.Keyframe, error) {
	frames := make([]keyframe.Keyframe, len(defs))
	for i, def := range defs {
		colors := make([]led.GRB, len(def.Colors))
		for j, s := range def.Colors {
			grb, err := led.ParseColor(s)
			if err != nil {
				return nil, err
			}
			colors[j] = grb
		}
		if len(colors) == 0 {
			colors = []led.GRB{led.Off}
		}
		frames[i] = keyframe.Keyframe{At: def.At.Milliseconds(), Colors: colors}
	}
	return frames, nil
}

func color(s string, def led.GRB) (led.GRB, error) {
	if s == "" {
		return def, nil
	}
	return led.ParseColor(s)
}

func colorPair(a string, defA led.GRB, b string, defB led.GRB) (led.GRB, led.GRB, error) {
	first, err := color(a, defA)
	if err != nil {
		return first, defB, err
	}
	second, err := color(b, defB)
	return first, second, err
}

func millis(d time.Duration, def int64) int64 {
	if d == 0 {
		return def
	}
	return d.Milliseconds()
}

func name(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func width(w int) int {
	if w == 0 {
		return animation.DefaultKnightRiderWidth
	}
	return w
}
