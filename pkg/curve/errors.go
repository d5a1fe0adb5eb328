package curve

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("invalid curve configuration")

// ErrDegenerateGeometry is matched by every *DegenerateGeometryError.
var ErrDegenerateGeometry = errors.New("degenerate curve geometry")

// ConfigurationError reports an input that is rejected before any
// sampling begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("curve: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DegenerateGeometryError reports a sample whose tangent is parallel to
// the world up axis (or zero), leaving no lateral rail direction.
type DegenerateGeometryError struct {
	Sample  int // index into the sample sequence
	Tangent [3]float64
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("curve: sample %d: tangent (%.4g, %.4g, %.4g) has no lateral direction",
		e.Sample, e.Tangent[0], e.Tangent[1], e.Tangent[2])
}

// Is reports whether target is ErrDegenerateGeometry.
func (e *DegenerateGeometryError) Is(target error) bool {
	return target == ErrDegenerateGeometry
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
