package area

import (
	"errors"
	"fmt"
)

// ErrUnknownArea is returned for a name missing from relations.yaml.
var ErrUnknownArea = errors.New("unknown area")

// ConfigError reports a malformed area document.
type ConfigError struct {
	Area string
	// Key is the document key at fault, e.g. "filters.Kossuth utca.ranges".
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("area %q: %v", e.Area, e.Err)
	}
	return fmt.Sprintf("area %q: %s: %v", e.Area, e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
