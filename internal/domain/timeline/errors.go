package timeline

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel kind matched by every ConfigurationError.
var ErrConfiguration = errors.New("invalid timeline configuration")

// ConfigurationError describes malformed timeline input. Input names the
// offending argument and Index the offending element, or -1 when the whole
// argument is at fault.
type ConfigurationError struct {
	Input  string
	Index  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Input, e.Reason)
	}
	return fmt.Sprintf("%s: %s[%d]: %s", ErrConfiguration, e.Input, e.Index, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
