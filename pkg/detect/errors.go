package detect

import "errors"

// Sentinel errors for detection failures.
var (
	// ErrNotLoaded is returned when detection runs before a successful Load.
	ErrNotLoaded = errors.New("detect: model not loaded")
)
