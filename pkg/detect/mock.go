package detect

// Mock is a Detector that returns canned results. Used in tests and
// when exercising the estimator without a model file.
type Mock struct {
	Objects []Object
	Err     error

	// Calls counts Detect invocations.
	Calls int
}

// Detect returns the canned objects or error.
func (m *Mock) Detect(jpeg []byte) ([]Object, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Objects, nil
}

// Close is a no-op.
func (m *Mock) Close() error {
	return nil
}
