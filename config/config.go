package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lautenbacher.net/ledanim/led"
)

const CONFILE = "config.yml"

// Animation kinds accepted in a binding.
const (
	KindIndicator   = "indicator"
	KindBrake       = "brake"
	KindSwitch      = "switch"
	KindDelayed     = "delayed"
	KindHueShift    = "hueShift"
	KindPulse       = "pulse"
	KindKnightRider = "knightRider"
	KindKeyframes   = "keyframes"
	KindSelector    = "selector"
	KindScript      = "script"
)

// Keyframe presets usable instead of explicit Frames.
const (
	PresetEmergency1  = "emergency1"
	PresetKnightRider = "knightRider"

	MaxKnightRiderWidth = 256
)

const (
	GPIOLibPeriph = "periph.io"
	GPIOLibRpio   = "rpio"
)

type Config struct {
	RealHW     bool            `yaml:"-"`
	ConfigFile string          `yaml:"-"`
	Hardware   HardwareConfig  `yaml:"Hardware"`
	Loop       LoopConfig      `yaml:"Loop"`
	Logging    LoggingConfig   `yaml:"Logging"`
	Params     map[string]any  `yaml:"Params"`
	Night      NightConfig     `yaml:"Night"`
	Bindings   []BindingConfig `yaml:"Bindings"`
}

type HardwareConfig struct {
	LedsTotal    int    `yaml:"LedsTotal"`
	GPIOLibrary  string `yaml:"GPIOLibrary"`
	SPIDevice    string `yaml:"SPIDevice"`
	SPIFrequency int    `yaml:"SPIFrequency"`
	ResetBytes   int    `yaml:"ResetBytes"`
}

type LoopConfig struct {
	TickDelay     time.Duration `yaml:"TickDelay"`
	StatsWindow   int           `yaml:"StatsWindow"`
	StatsInterval time.Duration `yaml:"StatsInterval"`
}

type LogConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

type LoggingConfig struct {
	TUI LogConfig `yaml:"TUI"`
	HW  LogConfig `yaml:"HW"`
}

// NightConfig drives a boolean parameter that is true between sunset
// and sunrise at the given location.
type NightConfig struct {
	Enabled   bool    `yaml:"Enabled"`
	Param     string  `yaml:"Param"`
	Latitude  float64 `yaml:"Latitude"`
	Longitude float64 `yaml:"Longitude"`
}

type BindingConfig struct {
	Name      string          `yaml:"Name"`
	Leds      []int           `yaml:"Leds"`
	Range     []int           `yaml:"Range"`
	Animation AnimationConfig `yaml:"Animation"`
}

// AnimationConfig holds the arguments of every animation kind. Fields a
// kind does not use are ignored, unset fields take the kind's default.
type AnimationConfig struct {
	Kind       string                      `yaml:"Kind"`
	Param      string                      `yaml:"Param"`
	On         string                      `yaml:"On"`
	Off        string                      `yaml:"Off"`
	Drive      string                      `yaml:"Drive"`
	Brake      string                      `yaml:"Brake"`
	Reverse    string                      `yaml:"Reverse"`
	Color      string                      `yaml:"Color"`
	Interval   time.Duration               `yaml:"Interval"`
	Delay      time.Duration               `yaml:"Delay"`
	Period     time.Duration               `yaml:"Period"`
	Offset     time.Duration               `yaml:"Offset"`
	MinPct     float64                     `yaml:"MinPct"`
	MaxPct     *float64                    `yaml:"MaxPct"`
	Width      int                         `yaml:"Width"`
	Preset     string                      `yaml:"Preset"`
	Frames     []KeyframeConfig            `yaml:"Frames"`
	Timelines  map[string][]KeyframeConfig `yaml:"Timelines"`
	Script     string                      `yaml:"Script"`
	ScriptFile string                      `yaml:"ScriptFile"`
}

type KeyframeConfig struct {
	At     time.Duration `yaml:"At"`
	Colors []string      `yaml:"Colors"`
}

// Positions returns Leds followed by the inclusive Range.
func (b BindingConfig) Positions() []int {
	out := append([]int(nil), b.Leds...)
	if len(b.Range) == 2 {
		for i := b.Range[0]; i <= b.Range[1]; i++ {
			out = append(out, i)
		}
	}
	return out
}

// ReadConfig reads, completes and validates the configuration in cfile.
func ReadConfig(cfile string) (*Config, error) {
	data, err := os.ReadFile(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't read config file %s: %w", cfile, err)
	}
	conf, err := parseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", cfile, err)
	}
	conf.ConfigFile = cfile
	return conf, nil
}

func parseConfig(data []byte) (*Config, error) {
	conf := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(conf); err != nil {
		return nil, fmt.Errorf("can't decode: %w", err)
	}
	conf.applyDefaults()
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) applyDefaults() {
	if c.Hardware.GPIOLibrary == "" {
		c.Hardware.GPIOLibrary = GPIOLibPeriph
	}
	if c.Hardware.SPIDevice == "" {
		c.Hardware.SPIDevice = "/dev/spidev0.0"
	}
	if c.Hardware.SPIFrequency == 0 {
		c.Hardware.SPIFrequency = 2_400_000
	}
	if c.Hardware.ResetBytes == 0 {
		c.Hardware.ResetBytes = 80
	}
	if c.Loop.TickDelay == 0 {
		c.Loop.TickDelay = 20 * time.Millisecond
	}
	if c.Loop.StatsWindow == 0 {
		c.Loop.StatsWindow = 100
	}
	if c.Loop.StatsInterval == 0 {
		c.Loop.StatsInterval = 30 * time.Second
	}
	if c.Night.Param == "" {
		c.Night.Param = "night"
	}
	if c.Params == nil {
		c.Params = make(map[string]any)
	}
}

func (c *Config) validate() error {
	var errs []error

	if c.Hardware.LedsTotal < 0 {
		errs = append(errs, fmt.Errorf("Hardware.LedsTotal must not be negative"))
	}
	switch c.Hardware.GPIOLibrary {
	case GPIOLibPeriph, GPIOLibRpio:
	default:
		errs = append(errs, fmt.Errorf("Hardware.GPIOLibrary must be %q or %q, got %q", GPIOLibPeriph, GPIOLibRpio, c.Hardware.GPIOLibrary))
	}
	if c.Hardware.SPIFrequency < 0 || c.Hardware.ResetBytes < 0 {
		errs = append(errs, fmt.Errorf("Hardware.SPIFrequency and Hardware.ResetBytes must be positive"))
	}
	if c.Loop.TickDelay < 0 {
		errs = append(errs, fmt.Errorf("Loop.TickDelay must be positive"))
	}
	if c.Loop.StatsWindow < 0 {
		errs = append(errs, fmt.Errorf("Loop.StatsWindow must be positive"))
	}
	if c.Night.Enabled {
		if c.Night.Latitude < -90 || c.Night.Latitude > 90 {
			errs = append(errs, fmt.Errorf("Night.Latitude must be between -90 and 90"))
		}
		if c.Night.Longitude < -180 || c.Night.Longitude > 180 {
			errs = append(errs, fmt.Errorf("Night.Longitude must be between -180 and 180"))
		}
	}
	for name, value := range c.Params {
		switch value.(type) {
		case bool, int, float64, string:
		default:
			errs = append(errs, fmt.Errorf("Params.%s: unsupported value %v (%T)", name, value, value))
		}
	}

	if len(c.Bindings) == 0 {
		errs = append(errs, fmt.Errorf("at least one binding must be configured"))
	}
	for i, b := range c.Bindings {
		if err := b.validate(c.Hardware.LedsTotal); err != nil {
			errs = append(errs, fmt.Errorf("Bindings[%d] %s: %w", i, b.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (b BindingConfig) validate(ledsTotal int) error {
	if len(b.Range) != 0 {
		if len(b.Range) != 2 || b.Range[0] > b.Range[1] {
			return fmt.Errorf("Range must be [first, last] with first <= last")
		}
	}
	positions := b.Positions()
	if len(positions) == 0 {
		return fmt.Errorf("no LEDs given")
	}
	for _, pos := range positions {
		if pos < 0 || (ledsTotal > 0 && pos >= ledsTotal) {
			return fmt.Errorf("LED %d must be between 0 and %d", pos, max(ledsTotal-1, 0))
		}
	}
	return b.Animation.validate()
}

func (a AnimationConfig) validate() error {
	colors := []string{a.On, a.Off, a.Drive, a.Brake, a.Reverse, a.Color}
	for _, c := range colors {
		if c == "" {
			continue
		}
		if _, err := led.ParseColor(c); err != nil {
			return err
		}
	}
	if a.Interval < 0 || a.Delay < 0 || a.Period < 0 || a.Width < 0 {
		return fmt.Errorf("Interval, Delay, Period and Width must not be negative")
	}

	switch a.Kind {
	case KindIndicator, KindBrake, KindSwitch, KindDelayed, KindHueShift, KindKnightRider:
		return nil
	case KindPulse:
		maxPct := 100.0
		if a.MaxPct != nil {
			maxPct = *a.MaxPct
		}
		if a.MinPct < 0 || maxPct > 100 || a.MinPct > maxPct {
			return fmt.Errorf("MinPct and MaxPct must be between 0 and 100 with MinPct <= MaxPct")
		}
		return nil
	case KindKeyframes:
		if a.Preset == "" {
			return validateFrames(a.Frames)
		}
		switch a.Preset {
		case PresetEmergency1:
			return nil
		case PresetKnightRider:
			if a.Width > MaxKnightRiderWidth {
				return fmt.Errorf("Width of the knightRider preset must not exceed %d", MaxKnightRiderWidth)
			}
			return nil
		}
		return fmt.Errorf("unknown keyframe preset %q", a.Preset)
	case KindSelector:
		if len(a.Timelines) == 0 {
			return fmt.Errorf("selector needs at least one timeline")
		}
		for name, frames := range a.Timelines {
			if err := validateFrames(frames); err != nil {
				return fmt.Errorf("timeline %s: %w", name, err)
			}
		}
		return nil
	case KindScript:
		if (a.Script == "") == (a.ScriptFile == "") {
			return fmt.Errorf("script needs exactly one of Script or ScriptFile")
		}
		return nil
	case "":
		return fmt.Errorf("animation kind missing")
	}
	return fmt.Errorf("unknown animation kind %q (one of %s)", a.Kind, strings.Join(Kinds(), ", "))
}

func validateFrames(frames []KeyframeConfig) error {
	if len(frames) == 0 {
		return fmt.Errorf("no keyframes given")
	}
	hasStart := false
	for _, f := range frames {
		if f.At < 0 {
			return fmt.Errorf("keyframe at %v must not be negative", f.At)
		}
		if f.At == 0 {
			hasStart = true
		}
		for _, c := range f.Colors {
			if _, err := led.ParseColor(c); err != nil {
				return err
			}
		}
	}
	if !hasStart {
		return fmt.Errorf("a keyframe at 0s is required")
	}
	return nil
}

// Kinds lists every supported animation kind.
func Kinds() []string {
	return []string{
		KindIndicator, KindBrake, KindSwitch, KindDelayed, KindHueShift,
		KindPulse, KindKnightRider, KindKeyframes, KindSelector, KindScript,
	}
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
