package agent

import (
	"errors"
	"fmt"
)

// ErrNotAvailable is returned when a capability slot exists on an
// agent component but the underlying computation has no
// implementation. Callers should check the capability before invoking
// the operation.
var ErrNotAvailable error = errors.New("capability not available")

// ShapeError indicates that an observation or action does not match
// the fixed dimensionality expected by an agent component's
// architecture.
type ShapeError struct {
	Op   string // The operation that was given the bad input
	Want int
	Have int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: invalid input shape\n\twant(%v)\n\thave(%v)",
		e.Op, e.Want, e.Have)
}

// NumericError indicates that a loss evaluated to NaN or an infinity.
// No parameter update is performed when a NumericError occurs, so
// parameters are never silently corrupted.
type NumericError struct {
	Op    string  // The operation whose loss was non-finite
	Value float64 // The offending loss value
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("%v: loss evaluated to non-finite value %v",
		e.Op, e.Value)
}
