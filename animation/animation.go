// Package animation contains the time driven color functions that can
// be bound to LED positions. Every animation maps elapsed milliseconds
// and the current parameter set to one or more colors in device order.
package animation

import (
	"fmt"

	"lautenbacher.net/ledanim/led"
)

// Colors is the result of an animation. A single element applies to
// every bound position, longer results are cycled over the positions.
type Colors []led.GRB

// Animation is evaluated once per tick for each binding. Implementations
// must not retain params and must not modify a returned Colors later.
type Animation interface {
	Evaluate(t int64, params Params) (Colors, error)
}

// Func adapts a plain function to the Animation interface.
type Func func(t int64, params Params) (Colors, error)

func (f Func) Evaluate(t int64, params Params) (Colors, error) {
	return f(t, params)
}

// Params carries the named runtime parameters of a tick, e.g.
// "right_indicators": true or "speed": -3.
type Params map[string]any

// ParameterTypeError reports a parameter holding a value of the wrong
// kind.
type ParameterTypeError struct {
	Name string
	Want string
	Got  any
}

func (e *ParameterTypeError) Error() string {
	return fmt.Sprintf("parameter %q: expected %s, got %T (%v)", e.Name, e.Want, e.Got, e.Got)
}

// Bool returns the named switch, def if it is not set.
func (p Params) Bool(name string, def bool) (bool, error) {
	v, ok := p[name]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &ParameterTypeError{Name: name, Want: "bool", Got: v}
	}
	return b, nil
}

// Number returns the named numeric parameter as float64, def if it is
// not set. Any Go integer or float type is accepted.
func (p Params) Number(name string, def float64) (float64, error) {
	v, ok := p[name]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, &ParameterTypeError{Name: name, Want: "number", Got: v}
}

// String returns the named selector and whether it was set.
func (p Params) String(name string) (string, bool, error) {
	v, ok := p[name]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, &ParameterTypeError{Name: name, Want: "string", Got: v}
	}
	return s, true, nil
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
