package forest

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig matches every *ConfigurationError.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrOutOfBounds matches every *IndexError.
	ErrOutOfBounds = errors.New("cell index out of bounds")
)

// ConfigurationError reports a rejected simulation parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidConfig) match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrInvalidConfig }

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IndexError reports direct cell access outside the grid. Correct callers
// never trigger it.
type IndexError struct {
	Row, Col      int
	Height, Width int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("cell (%d,%d) outside %dx%d grid", e.Row, e.Col, e.Height, e.Width)
}

// Is lets errors.Is(err, ErrOutOfBounds) match.
func (e *IndexError) Is(target error) bool { return target == ErrOutOfBounds }
