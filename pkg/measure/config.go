package measure

import "time"

// CreditCardWidthMeters is the physical width of the default calibration
// object. Credit cards are ISO/IEC 7810 ID-1: 85.6mm.
const CreditCardWidthMeters = 0.0856

// Config holds tunable session parameters.
type Config struct {
	// ReferenceMeters is the physical width of the calibration object.
	ReferenceMeters float64

	// DisplayDelay is how long the session holds the computed result on
	// screen before invoking the completion callback. Zero fires the
	// callback synchronously (used in tests).
	DisplayDelay time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		ReferenceMeters: CreditCardWidthMeters,
		DisplayDelay:    1500 * time.Millisecond,
	}
}
