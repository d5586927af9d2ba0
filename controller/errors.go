package controller

import "fmt"

// ConfigurationError is returned by NewController for bindings that
// cannot be mapped onto the LED chain. Binding is the index of the
// offending binding or -1 if the error is not specific to one.
type ConfigurationError struct {
	Binding int
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Binding < 0 {
		return "invalid controller configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid controller configuration: binding %d: %s", e.Binding, e.Reason)
}

func configError(binding int, format string, args ...any) error {
	return &ConfigurationError{Binding: binding, Reason: fmt.Sprintf(format, args...)}
}
