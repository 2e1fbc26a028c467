package estimate

import "errors"

// ErrInvalidFrame is returned for frames with non-positive dimensions.
var ErrInvalidFrame = errors.New("estimate: frame has no usable dimensions")

// Config holds the estimator's tunable parameters. The multiplier and
// standard deduction are empirical values carried over from field use;
// they do not generalize to arbitrary rooms, which is why they are
// configuration rather than constants.
type Config struct {
	// CeilingHeightM is the assumed ceiling height.
	CeilingHeightM float64

	// WidthMultiplier scales the aspect-ratio width estimate.
	WidthMultiplier float64

	// StandardDeductionSqM approximates one door plus one window.
	StandardDeductionSqM float64

	// ScoreThreshold is the minimum detection score (exclusive) for an
	// object to count as an obstruction.
	ScoreThreshold float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		CeilingHeightM:       2.7,
		WidthMultiplier:      1.2,
		StandardDeductionSqM: 3.0,
		ScoreThreshold:       0.5,
	}
}
