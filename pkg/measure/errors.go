package measure

import "errors"

// Sentinel errors for session failures.
var (
	// ErrInvalidTransition is returned when an event is not legal in the
	// session's current state. The state is left unchanged.
	ErrInvalidTransition = errors.New("measure: event not valid in current state")

	// ErrCalibrationFailed is returned when the two reference taps resolve
	// to a zero pixel distance. The session never divides by it.
	ErrCalibrationFailed = errors.New("measure: calibration points give zero reference distance")

	// ErrInvalidDimension is returned by manual entry when width or height
	// is not a positive number.
	ErrInvalidDimension = errors.New("measure: width and height must be positive numbers")

	// ErrSessionClosed is returned when dispatching to a closed session.
	ErrSessionClosed = errors.New("measure: session closed")
)
