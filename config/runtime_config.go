package config

import "reflect"

// RuntimeConfig is the part of the configuration a running loop can
// pick up on reload. Hardware, loop and logging settings need a
// restart.
type RuntimeConfig struct {
	Params   map[string]any
	Night    NightConfig
	Bindings []BindingConfig
}

func (c *Config) Runtime() RuntimeConfig {
	return RuntimeConfig{
		Params:   c.Params,
		Night:    c.Night,
		Bindings: c.Bindings,
	}
}

// NeedsRestart reports whether switching from c to next changes any
// setting outside of RuntimeConfig.
func (c *Config) NeedsRestart(next *Config) bool {
	return !reflect.DeepEqual(c.Hardware, next.Hardware) ||
		!reflect.DeepEqual(c.Loop, next.Loop) ||
		!reflect.DeepEqual(c.Logging, next.Logging)
}
