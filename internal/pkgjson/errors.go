package pkgjson

import "errors"

// ErrConfiguration matches every fatal configuration error via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ConfigError is a fatal problem with the project setup that aborts the
// whole operation.
type ConfigError struct {
	Op  string
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Op + ": " + e.Msg
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
